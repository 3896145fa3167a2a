package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-autoapply-engine/internal/models"
	"go-autoapply-engine/utils"
)

// Options configure the isolated browsing context for one run.
type Options struct {
	Headless          bool
	CommandTimeout    time.Duration
	NavigationTimeout time.Duration
	ViewportWidth     int
	ViewportHeight    int
	UserAgent         string
	Locale            string
	Timezone          string
	CookiesPath       string
	Screenshots       *utils.ScreenshotStore
}

// Session wraps one playwright browsing context behind the logged command
// set. Exclusively owned by the run that opened it; opened at most once and
// closed exactly once.
type Session struct {
	opts    Options
	pw      *playwright.Playwright
	browser playwright.Browser
	browCtx playwright.BrowserContext
	page    playwright.Page
	entries []models.ActionEntry
	closed  bool
}

func NewSession(opts Options) *Session {
	if opts.CommandTimeout == 0 {
		opts.CommandTimeout = 15 * time.Second
	}
	if opts.NavigationTimeout == 0 {
		opts.NavigationTimeout = 30 * time.Second
	}
	if opts.ViewportWidth == 0 {
		opts.ViewportWidth = 1366
	}
	if opts.ViewportHeight == 0 {
		opts.ViewportHeight = 768
	}
	if opts.Screenshots == nil {
		opts.Screenshots = utils.NewScreenshotStore("")
	}
	return &Session{opts: opts}
}

// Initialize launches the browser and creates the isolated context.
func (s *Session) Initialize(ctx context.Context) error {
	pw, err := playwright.Run()
	if err != nil {
		s.log("initialize", models.ActionError, err.Error())
		return fmt.Errorf("could not start playwright: %w", err)
	}
	s.pw = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(s.opts.Headless),
	})
	if err != nil {
		s.log("initialize", models.ActionError, err.Error())
		return fmt.Errorf("could not launch chromium: %w", err)
	}
	s.browser = browser

	ctxOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: s.opts.ViewportWidth, Height: s.opts.ViewportHeight},
	}
	if s.opts.UserAgent != "" {
		ctxOpts.UserAgent = playwright.String(s.opts.UserAgent)
	}
	if s.opts.Locale != "" {
		ctxOpts.Locale = playwright.String(s.opts.Locale)
	}
	if s.opts.Timezone != "" {
		ctxOpts.TimezoneId = playwright.String(s.opts.Timezone)
	}

	browCtx, err := browser.NewContext(ctxOpts)
	if err != nil {
		s.log("initialize", models.ActionError, err.Error())
		return fmt.Errorf("could not create browser context: %w", err)
	}
	s.browCtx = browCtx

	if s.opts.CookiesPath != "" {
		if _, statErr := os.Stat(s.opts.CookiesPath); statErr == nil {
			cookies, loadErr := LoadCookies(s.opts.CookiesPath)
			if loadErr != nil {
				s.log("loadCookies", models.ActionWarn, loadErr.Error())
			} else if addErr := browCtx.AddCookies(cookies); addErr != nil {
				s.log("loadCookies", models.ActionWarn, addErr.Error())
			} else {
				s.log("loadCookies", models.ActionOK, fmt.Sprintf("%d cookies", len(cookies)))
			}
		}
	}

	page, err := browCtx.NewPage()
	if err != nil {
		s.log("initialize", models.ActionError, err.Error())
		return fmt.Errorf("could not create page: %w", err)
	}
	page.SetDefaultTimeout(float64(s.opts.CommandTimeout.Milliseconds()))
	s.page = page

	s.log("initialize", models.ActionOK, "browser session ready")
	return nil
}

// NavigateTo loads the URL and scrolls once to trigger lazy form sections.
func (s *Session) NavigateTo(url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(s.opts.NavigationTimeout.Milliseconds())),
	})
	if err != nil {
		s.log("navigate", models.ActionError, fmt.Sprintf("%s: %v", url, err))
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	utils.SmoothScroll(s.page)
	s.log("navigate", models.ActionOK, url)
	return nil
}

func (s *Session) CurrentURL() string {
	return s.page.URL()
}

func (s *Session) Content() (string, error) {
	content, err := s.page.Content()
	if err != nil {
		s.log("getPageContent", models.ActionError, err.Error())
		return "", err
	}
	return content, nil
}

func (s *Session) Count(selector string) (int, error) {
	count, err := s.page.Locator(selector).Count()
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Session) Text(selector string) (string, error) {
	text, err := s.page.Locator(selector).First().TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(float64(s.opts.CommandTimeout.Milliseconds())),
	})
	if err != nil {
		s.log("readText", models.ActionWarn, fmt.Sprintf("%s: %v", selector, err))
		return "", err
	}
	return text, nil
}

func (s *Session) Attribute(selector, name string) (string, error) {
	value, err := s.page.Locator(selector).First().GetAttribute(name)
	if err != nil {
		s.log("readAttribute", models.ActionWarn, fmt.Sprintf("%s[%s]: %v", selector, name, err))
		return "", err
	}
	return value, nil
}

func (s *Session) Click(selector string) error {
	err := s.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(s.opts.CommandTimeout.Milliseconds())),
	})
	if err != nil {
		s.log("click", models.ActionError, fmt.Sprintf("%s: %v", selector, err))
		return fmt.Errorf("click %s: %w", selector, err)
	}
	s.log("click", models.ActionOK, selector)
	return nil
}

func (s *Session) Fill(selector, value string) error {
	err := s.page.Locator(selector).First().Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(float64(s.opts.CommandTimeout.Milliseconds())),
	})
	if err != nil {
		s.log("fill", models.ActionError, fmt.Sprintf("%s: %v", selector, err))
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	s.log("fill", models.ActionOK, selector)
	return nil
}

// SelectOption tries the value as an option value first, then as a visible
// label.
func (s *Session) SelectOption(selector, value string) error {
	loc := s.page.Locator(selector).First()
	selected, err := loc.SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	})
	if err != nil || len(selected) == 0 {
		selected, err = loc.SelectOption(playwright.SelectOptionValues{
			Labels: &[]string{value},
		})
	}
	if err != nil {
		s.log("selectOption", models.ActionError, fmt.Sprintf("%s=%q: %v", selector, value, err))
		return fmt.Errorf("select %s: %w", selector, err)
	}
	if len(selected) == 0 {
		s.log("selectOption", models.ActionWarn, fmt.Sprintf("%s: no option matched %q", selector, value))
		return fmt.Errorf("select %s: no option matched %q", selector, value)
	}
	s.log("selectOption", models.ActionOK, fmt.Sprintf("%s=%q", selector, value))
	return nil
}

func (s *Session) SetChecked(selector string, checked bool) error {
	err := s.page.Locator(selector).First().SetChecked(checked)
	if err != nil {
		s.log("setChecked", models.ActionError, fmt.Sprintf("%s: %v", selector, err))
		return fmt.Errorf("set checked %s: %w", selector, err)
	}
	s.log("setChecked", models.ActionOK, selector)
	return nil
}

func (s *Session) UploadFile(selector string, doc models.Document) error {
	err := s.page.Locator(selector).First().SetInputFiles([]playwright.InputFile{{
		Name:     doc.FileName,
		MimeType: doc.MimeType,
		Buffer:   doc.Data,
	}})
	if err != nil {
		s.log("uploadFile", models.ActionError, fmt.Sprintf("%s <- %s: %v", selector, doc.FileName, err))
		return fmt.Errorf("upload %s: %w", doc.FileName, err)
	}
	s.log("uploadFile", models.ActionOK, fmt.Sprintf("%s <- %s", selector, doc.FileName))
	return nil
}

// Evaluate runs a script in the page and returns its result as a string.
func (s *Session) Evaluate(script string) (string, error) {
	result, err := s.page.Evaluate(script)
	if err != nil {
		s.log("evaluate", models.ActionError, err.Error())
		return "", fmt.Errorf("evaluate: %w", err)
	}
	if result == nil {
		return "", nil
	}
	return fmt.Sprintf("%v", result), nil
}

func (s *Session) WaitForSelector(selector string, timeout time.Duration) error {
	if timeout == 0 {
		timeout = s.opts.CommandTimeout
	}
	err := s.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		s.log("waitForSelector", models.ActionWarn, fmt.Sprintf("%s: %v", selector, err))
		return fmt.Errorf("wait for %s: %w", selector, err)
	}
	return nil
}

func (s *Session) WaitForTimeout(d time.Duration) {
	s.page.WaitForTimeout(float64(d.Milliseconds()))
}

// TakeScreenshot captures the page and records the reference in the log.
func (s *Session) TakeScreenshot(label string) (models.ImageRef, error) {
	ref, err := s.opts.Screenshots.Capture(s.page, label)
	if err != nil {
		s.log("takeScreenshot", models.ActionWarn, fmt.Sprintf("%s: %v", label, err))
		return "", err
	}
	entry := models.ActionEntry{
		Timestamp:  time.Now(),
		Action:     "takeScreenshot",
		Status:     models.ActionOK,
		Detail:     label,
		Screenshot: ref,
	}
	s.entries = append(s.entries, entry)
	return ref, nil
}

// ActionLog returns the chronological audit trail.
func (s *Session) ActionLog() []models.ActionEntry {
	out := make([]models.ActionEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Close tears down the browsing context. Idempotent.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.page != nil {
		s.page.Close()
	}
	if s.browCtx != nil {
		s.browCtx.Close()
	}
	if s.browser != nil {
		s.browser.Close()
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			return fmt.Errorf("could not stop playwright: %w", err)
		}
	}
	s.log("close", models.ActionOK, "browser session closed")
	return nil
}

func (s *Session) log(action string, status models.ActionStatus, detail string) {
	s.entries = append(s.entries, models.ActionEntry{
		Timestamp: time.Now(),
		Action:    action,
		Status:    status,
		Detail:    detail,
	})
}
