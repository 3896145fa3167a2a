package ats

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"go-autoapply-engine/internal/browser"
	"go-autoapply-engine/internal/models"
	"go-autoapply-engine/utils"
)

var captchaSelectors = []string{
	"iframe[src*='recaptcha']",
	".g-recaptcha",
	"iframe[src*='hcaptcha']",
	".h-captcha",
	".cf-turnstile",
	"[data-captcha]",
	"#captcha",
}

var submitCandidates = []string{
	"button[type='submit']",
	"input[type='submit']",
	"#submit_app",
	"button:has-text('Submit application')",
	"button:has-text('Submit')",
	"button:has-text('Send application')",
}

var nextStepCandidates = []string{
	"button:has-text('Next')",
	"button:has-text('Continue')",
	"button[data-qa='btn-next']",
	"a:has-text('Next step')",
}

var successPhrases = []string{
	"thank you",
	"application submitted",
	"application received",
	"application has been received",
	"successfully",
	"confirmation",
	"we have received",
	"we've received",
}

var errorMarkerSelectors = []string{
	".error-message",
	".alert-danger",
	".field-error",
	".errors",
	"[role='alert']",
}

// Base holds the vendor-agnostic heuristics and per-run fill state. Every
// concrete handler composes it.
type Base struct {
	name string

	// SuccessURLHints are vendor-typical post-submit URL fragments that
	// short-circuit the text-phrase classification.
	SuccessURLHints []string

	lastAnalysis *models.FormAnalysis
	optionValues map[string][]string
	filled       mapset.Set[string]
	answered     mapset.Set[string]

	resumeUploaded      bool
	coverLetterUploaded bool
}

func NewBase(name string) *Base {
	return &Base{
		name:         name,
		optionValues: make(map[string][]string),
		filled:       mapset.NewSet[string](),
		answered:     mapset.NewSet[string](),
	}
}

func (b *Base) Name() string { return b.name }

// Detect always accepts: the generic strategy is the fallback for every
// well-formed form.
func (b *Base) Detect(page browser.Page) bool { return true }

// AnalyzeForm walks the page's controls and produces the structural model.
func (b *Base) AnalyzeForm(page browser.Page) (*models.FormAnalysis, error) {
	raws, err := extractFields(page)
	if err != nil {
		return nil, err
	}

	analysis := buildAnalysis(raws)
	for _, raw := range raws {
		if len(raw.Values) > 0 {
			b.optionValues[raw.Selector] = raw.Values
		}
	}
	analysis.SubmitSelector = b.findSubmitSelector(page)
	analysis.IsMultiStep = b.looksMultiStep(page, analysis.SubmitSelector)

	b.lastAnalysis = analysis
	return analysis, nil
}

// CacheAnalysis replaces the analysis used by later fill passes. Vendor
// handlers call this after layering known selectors on top of the base scan.
func (b *Base) CacheAnalysis(analysis *models.FormAnalysis) {
	b.lastAnalysis = analysis
}

// FillApplication writes every mapped attribute and every answered custom
// question into the form. Individual failures are collected and skipped; a
// field filled on an earlier pass is counted, not rewritten.
func (b *Base) FillApplication(page browser.Page, data *models.ApplicationData) *models.FillResult {
	result := &models.FillResult{}

	analysis := b.lastAnalysis
	if analysis == nil {
		var err error
		analysis, err = b.AnalyzeForm(page)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			return result
		}
	}

	for _, field := range analysis.Fields {
		if field.Kind == models.FieldFile || field.MappedField == "" {
			continue
		}
		value := valueFor(field.MappedField, data)
		if value == "" {
			continue
		}
		result.FieldsTotal++
		if b.filled.Contains(field.Selector) {
			result.FieldsFilled++
			continue
		}
		if err := b.fillField(page, field, value); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		b.filled.Add(field.Selector)
		result.FieldsFilled++
	}

	for _, question := range analysis.CustomQuestions {
		answer, ok := data.CustomAnswers[question.Selector]
		if !ok || answer == "" {
			continue
		}
		result.FieldsTotal++
		if b.answered.Contains(question.Selector) {
			result.FieldsFilled++
			continue
		}
		field := models.FieldInfo{
			Kind:     question.Kind,
			Selector: question.Selector,
			Label:    question.Question,
			Options:  question.Options,
		}
		if err := b.fillField(page, field, answer); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		b.answered.Add(question.Selector)
		result.FieldsFilled++
	}

	return result
}

func (b *Base) fillField(page browser.Page, field models.FieldInfo, value string) error {
	switch field.Kind {
	case models.FieldSelect:
		return b.selectBestOption(page, field, value)
	case models.FieldRadio:
		return b.pickRadio(page, field, value)
	case models.FieldCheckbox:
		if isAffirmative(value) {
			return page.SetChecked(field.Selector, true)
		}
		return nil
	default:
		return page.Fill(field.Selector, value)
	}
}

// selectBestOption prefers an exact option, then a substring match, then
// hands the raw value to the browser.
func (b *Base) selectBestOption(page browser.Page, field models.FieldInfo, value string) error {
	choice := matchOption(field.Options, value)
	if choice == "" {
		choice = value
	}
	return page.SelectOption(field.Selector, choice)
}

func (b *Base) pickRadio(page browser.Page, field models.FieldInfo, value string) error {
	choice := matchOption(field.Options, value)
	if choice == "" {
		return fmt.Errorf("no radio option matches %q for %s", value, field.Selector)
	}
	values, ok := b.optionValues[field.Selector]
	for i, option := range field.Options {
		if option != choice {
			continue
		}
		if ok && i < len(values) {
			return page.Click(fmt.Sprintf("%s[value='%s']", field.Selector, values[i]))
		}
		break
	}
	return page.Click(fmt.Sprintf("label:has-text('%s') input", choice))
}

func matchOption(options []string, value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))
	for _, option := range options {
		if strings.ToLower(strings.TrimSpace(option)) == lowered {
			return option
		}
	}
	for _, option := range options {
		optLow := strings.ToLower(option)
		if strings.Contains(optLow, lowered) || strings.Contains(lowered, optLow) {
			return option
		}
	}
	return ""
}

func isAffirmative(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "y", "1", "on":
		return true
	}
	return false
}

func valueFor(attr string, data *models.ApplicationData) string {
	switch attr {
	case models.AttrFirstName:
		return data.FirstName
	case models.AttrLastName:
		return data.LastName
	case models.AttrFullName:
		return data.FullName
	case models.AttrEmail:
		return data.Email
	case models.AttrPhone:
		return data.Phone
	case models.AttrLocation:
		return data.Location
	case models.AttrLinkedInURL:
		return data.LinkedInURL
	case models.AttrPortfolioURL:
		return data.PortfolioURL
	case models.AttrWebsiteURL:
		return data.WebsiteURL
	case models.AttrGitHubURL:
		return data.GitHubURL
	case models.AttrCurrentCompany:
		return data.CurrentCompany
	case models.AttrCurrentTitle:
		return data.CurrentTitle
	case models.AttrYearsOfExperience:
		if data.YearsOfExperience <= 0 {
			return ""
		}
		return strconv.Itoa(data.YearsOfExperience)
	case models.AttrCoverLetterText:
		return data.CoverLetterText
	case models.AttrSalary:
		return data.Salary
	case models.AttrStartDate:
		return data.StartDate
	case models.AttrHeardAbout:
		return data.HeardAbout
	}
	return ""
}

// UploadDocuments attaches the resume and cover letter to the form's file
// inputs. At most one of each per run; ambiguous inputs default to the
// resume.
func (b *Base) UploadDocuments(page browser.Page, data *models.ApplicationData) *models.UploadResult {
	result := &models.UploadResult{
		ResumeUploaded:      b.resumeUploaded,
		CoverLetterUploaded: b.coverLetterUploaded,
	}

	analysis := b.lastAnalysis
	if analysis == nil {
		var err error
		analysis, err = b.AnalyzeForm(page)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			return result
		}
	}

	for _, field := range analysis.Fields {
		if field.Kind != models.FieldFile {
			continue
		}
		hint := strings.ToLower(field.Selector + " " + field.Label)

		switch {
		case strings.Contains(hint, "cover"):
			if b.coverLetterUploaded || data.CoverLetter == nil {
				continue
			}
			if err := page.UploadFile(field.Selector, *data.CoverLetter); err != nil {
				result.Errors = append(result.Errors, err.Error())
				continue
			}
			b.coverLetterUploaded = true
			result.CoverLetterUploaded = true
		case strings.Contains(hint, "resume"), strings.Contains(hint, "cv"), !b.resumeUploaded:
			if b.resumeUploaded || data.Resume == nil {
				continue
			}
			if err := page.UploadFile(field.Selector, *data.Resume); err != nil {
				result.Errors = append(result.Errors, err.Error())
				continue
			}
			b.resumeUploaded = true
			result.ResumeUploaded = true
		}

		// give client-side upload processing a moment before the next command
		page.WaitForTimeout(1500 * time.Millisecond)
	}

	return result
}

// Submit clicks the submit control and classifies the outcome. Ambiguity
// resolves toward cautious success: silent successful submissions are common
// and a false failure is more harmful than a flagged success.
func (b *Base) Submit(page browser.Page) *models.SubmitResult {
	submitSelector := ""
	if b.lastAnalysis != nil {
		submitSelector = b.lastAnalysis.SubmitSelector
	}
	if submitSelector == "" {
		submitSelector = b.findSubmitSelector(page)
	}
	if submitSelector == "" {
		return &models.SubmitResult{
			RequiresManualAction: true,
			Reason:               "no submit control found",
		}
	}

	beforeURL := page.CurrentURL()
	utils.RandomDelay(300, 700)
	if err := page.Click(submitSelector); err != nil {
		return &models.SubmitResult{
			Success: false,
			Error:   fmt.Sprintf("could not click submit control: %v", err),
		}
	}
	page.WaitForTimeout(2 * time.Second)

	shot, _ := page.TakeScreenshot("after-submit")

	if b.HasCaptcha(page) {
		return &models.SubmitResult{
			RequiresManualAction: true,
			Reason:               "captcha appeared after submit",
			Screenshot:           shot,
		}
	}

	content, _ := page.Content()
	lowered := strings.ToLower(content)
	for _, phrase := range successPhrases {
		if strings.Contains(lowered, phrase) {
			return &models.SubmitResult{
				Success:    true,
				Message:    fmt.Sprintf("confirmation text found: %q", phrase),
				Screenshot: shot,
			}
		}
	}

	currentURL := page.CurrentURL()
	for _, hint := range b.SuccessURLHints {
		if strings.Contains(strings.ToLower(currentURL), hint) {
			return &models.SubmitResult{
				Success:    true,
				Message:    "redirected to confirmation page",
				Screenshot: shot,
			}
		}
	}

	errText, hasError := b.errorMarkerText(page)
	if currentURL != beforeURL && !hasError {
		return &models.SubmitResult{
			Success:    true,
			Message:    "page navigated after submit with no visible errors",
			Screenshot: shot,
		}
	}
	if hasError {
		return &models.SubmitResult{
			Success:    false,
			Error:      errText,
			Screenshot: shot,
		}
	}

	return &models.SubmitResult{
		Success:    true,
		Message:    "submission unverified, please check for a confirmation email",
		Screenshot: shot,
	}
}

func (b *Base) errorMarkerText(page browser.Page) (string, bool) {
	for _, selector := range errorMarkerSelectors {
		count, err := page.Count(selector)
		if err != nil || count == 0 {
			continue
		}
		text, err := page.Text(selector)
		if err != nil {
			text = "form reported an error"
		}
		return strings.TrimSpace(text), true
	}
	return "", false
}

// HasCaptcha searches for known CAPTCHA widgets. Solving them is out of
// scope; callers surface the run for manual handling.
func (b *Base) HasCaptcha(page browser.Page) bool {
	for _, selector := range captchaSelectors {
		if count, err := page.Count(selector); err == nil && count > 0 {
			return true
		}
	}
	return false
}

// GoToNextStep advances a multi-step form. Returns false when no advance
// control is present.
func (b *Base) GoToNextStep(page browser.Page) bool {
	for _, selector := range nextStepCandidates {
		count, err := page.Count(selector)
		if err != nil || count == 0 {
			continue
		}
		if err := page.Click(selector); err != nil {
			log.Printf("⚠️ Next-step control %s did not accept the click: %v", selector, err)
			continue
		}
		page.WaitForTimeout(1500 * time.Millisecond)
		// a new step means a fresh set of controls
		b.lastAnalysis = nil
		return true
	}
	return false
}

func (b *Base) findSubmitSelector(page browser.Page) string {
	for _, selector := range submitCandidates {
		if count, err := page.Count(selector); err == nil && count > 0 {
			return selector
		}
	}
	return ""
}

func (b *Base) looksMultiStep(page browser.Page, submitSelector string) bool {
	if submitSelector != "" {
		return false
	}
	for _, selector := range nextStepCandidates {
		if count, err := page.Count(selector); err == nil && count > 0 {
			return true
		}
	}
	return false
}
