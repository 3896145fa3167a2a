package detector

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"go-autoapply-engine/internal/browser"
)

// A page is treated as an application form once it accumulates this many
// positive signals.
const applicationSignalThreshold = 3

var applicationPhrases = []string{
	"submit your application",
	"apply for this job",
	"apply for this position",
	"submit application",
	"upload your resume",
	"upload resume",
	"required fields",
}

// Apply controls probed in order. Links are followed via their target URL,
// buttons are clicked in place.
var applyControls = []struct {
	selector string
	isLink   bool
}{
	{"a#apply-button", true},
	{"a[href*='/apply']", true},
	{"a[href*='application']", true},
	{"a:has-text('Apply for this job')", true},
	{"a:has-text('Apply now')", true},
	{"a:has-text('Apply')", true},
	{"button#apply-button", false},
	{"button[data-automation-id='applyButton']", false},
	{"button:has-text('Apply now')", false},
	{"button:has-text('Apply')", false},
}

// IsApplicationPage scores the current page for application-form signals.
func IsApplicationPage(page browser.Page) bool {
	signals := 0

	probes := []string{
		"form",
		"input[type='file']",
		"input[type='email']",
		"button[type='submit'], input[type='submit']",
		"textarea",
	}
	for _, probe := range probes {
		if count, err := page.Count(probe); err == nil && count > 0 {
			signals++
		}
	}

	if content, err := page.Content(); err == nil {
		lowered := strings.ToLower(content)
		for _, phrase := range applicationPhrases {
			if strings.Contains(lowered, phrase) {
				signals++
				break
			}
		}
	}

	return signals >= applicationSignalThreshold
}

// FollowApplyControl locates an "Apply" link or button on a job-listing page
// and follows it. Returns the URL reached, or an error when no control was
// found.
func FollowApplyControl(page browser.Page) (string, error) {
	for _, control := range applyControls {
		count, err := page.Count(control.selector)
		if err != nil || count == 0 {
			continue
		}

		if control.isLink {
			href, err := page.Attribute(control.selector, "href")
			if err != nil || href == "" {
				continue
			}
			target := resolveURL(page.CurrentURL(), href)
			log.Printf("🔗 Following apply link: %s", target)
			if err := page.NavigateTo(target); err != nil {
				return "", fmt.Errorf("follow apply link: %w", err)
			}
			return page.CurrentURL(), nil
		}

		log.Printf("🖱️ Clicking apply control: %s", control.selector)
		if err := page.Click(control.selector); err != nil {
			continue
		}
		page.WaitForTimeout(2 * time.Second)
		return page.CurrentURL(), nil
	}

	return "", fmt.Errorf("no apply control found on %s", page.CurrentURL())
}

func resolveURL(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
