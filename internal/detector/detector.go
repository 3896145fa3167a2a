// Scores the current page against known ATS vendor signatures. Three signal
// classes are weighted: URL pattern, DOM marker, page text. An unrecognized
// but well-formed application form still gets a generic classification so the
// run can proceed with the vendor-agnostic handler.

package detector

import (
	"regexp"
	"strings"

	"go-autoapply-engine/internal/browser"
)

// ATSType identifies a known applicant-tracking vendor.
type ATSType string

const (
	ATSGreenhouse ATSType = "greenhouse"
	ATSLever      ATSType = "lever"
	ATSWorkday    ATSType = "workday"
	ATSAshby      ATSType = "ashby"
	ATSGeneric    ATSType = "generic"
)

// Detection is the classifier verdict for one page.
type Detection struct {
	Type       ATSType  `json:"type"`
	Confidence float64  `json:"confidence"`
	Indicators []string `json:"indicators,omitempty"`
}

const (
	urlWeight  = 0.6
	domWeight  = 0.25
	textWeight = 0.15

	// Below this no vendor guess is trusted and the generic fallback applies.
	vendorThreshold = 0.3
)

type signature struct {
	atsType      ATSType
	urlPatterns  []*regexp.Regexp
	domMarkers   []string
	textPatterns []string
}

// Workday and Ashby are classified for reporting but handled by the generic
// handler; only greenhouse and lever have specialized handlers.
var signatures = []signature{
	{
		atsType: ATSGreenhouse,
		urlPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(boards|job-boards)\.greenhouse\.io`),
			regexp.MustCompile(`(?i)greenhouse\.io/`),
			regexp.MustCompile(`(?i)grnh\.se/`),
		},
		domMarkers:   []string{"#grnhse_app", "#application_form", "#main_fields"},
		textPatterns: []string{"powered by greenhouse", "greenhouse job board"},
	},
	{
		atsType: ATSLever,
		urlPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)jobs\.lever\.co`),
			regexp.MustCompile(`(?i)lever\.co/`),
		},
		domMarkers:   []string{".application-form", ".posting-headline", ".lever-api-error"},
		textPatterns: []string{"powered by lever", "jobs powered by"},
	},
	{
		atsType: ATSWorkday,
		urlPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)myworkdayjobs\.com`),
			regexp.MustCompile(`(?i)workday\.com/`),
		},
		domMarkers:   []string{"[data-automation-id='jobPostingHeader']", "[data-automation-id='applyButton']"},
		textPatterns: []string{"workday"},
	},
	{
		atsType: ATSAshby,
		urlPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)jobs\.ashbyhq\.com`),
		},
		domMarkers:   []string{"#ashby_embed", ".ashby-job-posting-brief-list"},
		textPatterns: []string{"powered by ashby", "ashbyhq"},
	},
}

// Detect classifies the current page against the known vendor signatures.
func Detect(page browser.Page) Detection {
	url := page.CurrentURL()
	content, err := page.Content()
	if err != nil {
		content = ""
	}
	lowered := strings.ToLower(content)

	best := Detection{Type: ATSGeneric}
	for _, sig := range signatures {
		score := 0.0
		var indicators []string

		for _, pattern := range sig.urlPatterns {
			if pattern.MatchString(url) {
				score += urlWeight
				indicators = append(indicators, "url:"+pattern.String())
			}
		}
		for _, marker := range sig.domMarkers {
			if count, err := page.Count(marker); err == nil && count > 0 {
				score += domWeight
				indicators = append(indicators, "dom:"+marker)
			}
		}
		for _, phrase := range sig.textPatterns {
			if strings.Contains(lowered, phrase) {
				score += textWeight
				indicators = append(indicators, "text:"+phrase)
			}
		}

		if score > 1.0 {
			score = 1.0
		}
		if score > best.Confidence {
			best = Detection{Type: sig.atsType, Confidence: score, Indicators: indicators}
		}
	}

	if best.Confidence >= vendorThreshold {
		return best
	}
	return genericFallback(page)
}

// genericFallback classifies an unrecognized page by how form-like it is:
// a form plus a file-upload control is still attemptable.
func genericFallback(page browser.Page) Detection {
	detection := Detection{Type: ATSGeneric, Confidence: 0.3}

	forms, _ := page.Count("form")
	files, _ := page.Count("input[type='file']")
	if forms > 0 {
		detection.Indicators = append(detection.Indicators, "dom:form")
	}
	if files > 0 {
		detection.Indicators = append(detection.Indicators, "dom:input[type='file']")
	}
	if forms > 0 && files > 0 {
		detection.Confidence = 0.5
	}
	return detection
}
