package ats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-autoapply-engine/internal/browser/browsertest"
	"go-autoapply-engine/internal/models"
)

func analyzedPage(t *testing.T, raws []rawField) *browsertest.FakePage {
	t.Helper()
	payload, err := json.Marshal(raws)
	require.NoError(t, err)
	page := browsertest.New("https://example.com/apply", "<form></form>")
	page.EvalResult = string(payload)
	return page
}

func sampleData() *models.ApplicationData {
	profile := models.ApplicantProfile{
		FullName:          "Jamie Rivera",
		Email:             "jamie@example.com",
		Phone:             "+1 555 010 2030",
		YearsOfExperience: 7,
	}
	resume := &models.Document{FileName: "Jamie_Rivera_Resume.pdf", MimeType: "application/pdf", Data: []byte("pdf")}
	cover := &models.Document{FileName: "Jamie_Rivera_Cover_Letter.pdf", MimeType: "application/pdf", Data: []byte("pdf")}
	return models.BuildApplicationData(profile, resume, cover, "Dear team,")
}

func TestFillApplicationMappedFields(t *testing.T) {
	page := analyzedPage(t, []rawField{
		{Tag: "input", Type: "text", ID: "first_name", Label: "First Name", Selector: "#first_name"},
		{Tag: "input", Type: "email", ID: "email", Label: "Email", Selector: "#email"},
		{Tag: "input", Type: "text", ID: "salary", Label: "Expected salary", Selector: "#salary"},
	})
	page.Counts["#first_name"] = 1
	page.Counts["#email"] = 1
	page.Counts["#salary"] = 1

	handler := NewBase("generic")
	data := sampleData()

	result := handler.FillApplication(page, data)

	// salary is empty on the profile so it is not attempted
	assert.Equal(t, 2, result.FieldsTotal)
	assert.Equal(t, 2, result.FieldsFilled)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "Jamie", page.Filled["#first_name"])
	assert.Equal(t, "jamie@example.com", page.Filled["#email"])
}

func TestFillApplicationIdempotent(t *testing.T) {
	page := analyzedPage(t, []rawField{
		{Tag: "input", Type: "email", ID: "email", Label: "Email", Selector: "#email"},
	})
	page.Counts["#email"] = 1

	handler := NewBase("generic")
	data := sampleData()

	first := handler.FillApplication(page, data)
	require.Equal(t, 1, first.FieldsFilled)

	page.Filled = map[string]string{}
	second := handler.FillApplication(page, data)

	// counted as filled, not rewritten
	assert.Equal(t, 1, second.FieldsFilled)
	assert.Empty(t, page.Filled)
}

func TestFillApplicationCustomAnswers(t *testing.T) {
	page := analyzedPage(t, []rawField{
		{Tag: "textarea", Name: "why", Label: "Why do you want to join us?", Selector: "textarea[name=\"why\"]"},
		{Tag: "select", Name: "auth", Label: "Are you authorized to work?", Options: []string{"Yes", "No"}, Values: []string{"yes", "no"}, Selector: "select[name=\"auth\"]"},
	})
	page.Counts[`textarea[name="why"]`] = 1
	page.Counts[`select[name="auth"]`] = 1

	handler := NewBase("generic")
	data := sampleData()
	data.CustomAnswers = map[string]string{
		`textarea[name="why"]`:  "Because the mission resonates with my experience.",
		`select[name="auth"]`:   "Yes",
	}

	result := handler.FillApplication(page, data)

	assert.Equal(t, 2, result.FieldsFilled)
	assert.Equal(t, "Because the mission resonates with my experience.", page.Filled[`textarea[name="why"]`])
	assert.Equal(t, "Yes", page.Selected[`select[name="auth"]`])
}

func TestFillApplicationCollectsErrors(t *testing.T) {
	page := analyzedPage(t, []rawField{
		{Tag: "input", Type: "email", ID: "email", Label: "Email", Selector: "#email"},
		{Tag: "input", Type: "text", ID: "first_name", Label: "First Name", Selector: "#first_name"},
	})
	// only first_name exists on the page; email fill fails
	page.Counts["#first_name"] = 1

	handler := NewBase("generic")
	result := handler.FillApplication(page, sampleData())

	assert.Equal(t, 2, result.FieldsTotal)
	assert.Equal(t, 1, result.FieldsFilled)
	assert.Len(t, result.Errors, 1)
}

func TestUploadDocuments(t *testing.T) {
	page := analyzedPage(t, []rawField{
		{Tag: "input", Type: "file", Name: "resume", Label: "Resume/CV", Selector: "input[name=\"resume\"]"},
		{Tag: "input", Type: "file", Name: "cover_letter", Label: "Cover Letter", Selector: "input[name=\"cover_letter\"]"},
	})
	page.Counts[`input[name="resume"]`] = 1
	page.Counts[`input[name="cover_letter"]`] = 1

	handler := NewBase("generic")
	result := handler.UploadDocuments(page, sampleData())

	assert.True(t, result.ResumeUploaded)
	assert.True(t, result.CoverLetterUploaded)
	assert.Equal(t, "Jamie_Rivera_Resume.pdf", page.Uploaded[`input[name="resume"]`].FileName)
	assert.Equal(t, "Jamie_Rivera_Cover_Letter.pdf", page.Uploaded[`input[name="cover_letter"]`].FileName)
}

func TestUploadDocumentsAmbiguousInputGetsResume(t *testing.T) {
	page := analyzedPage(t, []rawField{
		{Tag: "input", Type: "file", Name: "attachment", Label: "Attachment", Selector: "input[name=\"attachment\"]"},
	})
	page.Counts[`input[name="attachment"]`] = 1

	handler := NewBase("generic")
	result := handler.UploadDocuments(page, sampleData())

	assert.True(t, result.ResumeUploaded)
	assert.False(t, result.CoverLetterUploaded)
	assert.Equal(t, "Jamie_Rivera_Resume.pdf", page.Uploaded[`input[name="attachment"]`].FileName)
}

func TestUploadDocumentsOncePerRun(t *testing.T) {
	page := analyzedPage(t, []rawField{
		{Tag: "input", Type: "file", Name: "resume", Label: "Resume", Selector: "input[name=\"resume\"]"},
	})
	page.Counts[`input[name="resume"]`] = 1

	handler := NewBase("generic")
	first := handler.UploadDocuments(page, sampleData())
	require.True(t, first.ResumeUploaded)

	page.Uploaded = map[string]models.Document{}
	second := handler.UploadDocuments(page, sampleData())

	assert.True(t, second.ResumeUploaded)
	assert.Empty(t, page.Uploaded)
}

func TestSubmitSuccessPhrase(t *testing.T) {
	page := analyzedPage(t, nil)
	page.Counts["button[type='submit']"] = 1
	page.ClickHook = func(selector string) {
		page.HTML = "<h1>Thank you for applying!</h1>"
	}

	handler := NewBase("generic")
	_, err := handler.AnalyzeForm(page)
	require.NoError(t, err)

	result := handler.Submit(page)

	assert.True(t, result.Success)
	assert.False(t, result.RequiresManualAction)
	assert.NotEmpty(t, result.Screenshot)
}

func TestSubmitCaptchaRequiresManual(t *testing.T) {
	page := analyzedPage(t, nil)
	page.Counts["button[type='submit']"] = 1
	page.ClickHook = func(selector string) {
		page.Counts[".g-recaptcha"] = 1
	}

	handler := NewBase("generic")
	_, err := handler.AnalyzeForm(page)
	require.NoError(t, err)

	result := handler.Submit(page)

	assert.False(t, result.Success)
	assert.True(t, result.RequiresManualAction)
}

func TestSubmitErrorMarker(t *testing.T) {
	page := analyzedPage(t, nil)
	page.Counts["button[type='submit']"] = 1
	page.ClickHook = func(selector string) {
		page.Counts[".error-message"] = 1
		page.Texts[".error-message"] = "Email address is invalid"
	}

	handler := NewBase("generic")
	_, err := handler.AnalyzeForm(page)
	require.NoError(t, err)

	result := handler.Submit(page)

	assert.False(t, result.Success)
	assert.False(t, result.RequiresManualAction)
	assert.Equal(t, "Email address is invalid", result.Error)
}

func TestSubmitURLRedirectHint(t *testing.T) {
	page := analyzedPage(t, nil)
	page.Counts["button[type='submit']"] = 1
	page.ClickHook = func(selector string) {
		page.URL = "https://jobs.lever.co/exampleco/thanks"
	}

	handler := NewBase("lever")
	handler.SuccessURLHints = []string{"/thanks"}
	_, err := handler.AnalyzeForm(page)
	require.NoError(t, err)

	result := handler.Submit(page)

	assert.True(t, result.Success)
}

func TestSubmitNoControl(t *testing.T) {
	page := analyzedPage(t, nil)

	handler := NewBase("generic")
	_, err := handler.AnalyzeForm(page)
	require.NoError(t, err)

	result := handler.Submit(page)

	assert.False(t, result.Success)
	assert.True(t, result.RequiresManualAction)
	assert.Equal(t, "no submit control found", result.Reason)
}

func TestGoToNextStep(t *testing.T) {
	page := analyzedPage(t, nil)

	handler := NewBase("generic")
	assert.False(t, handler.GoToNextStep(page))

	page.Counts["button:has-text('Next')"] = 1
	assert.True(t, handler.GoToNextStep(page))
	assert.Contains(t, page.Clicked, "button:has-text('Next')")
}

func TestHasCaptcha(t *testing.T) {
	page := analyzedPage(t, nil)
	handler := NewBase("generic")

	assert.False(t, handler.HasCaptcha(page))
	page.Counts["iframe[src*='recaptcha']"] = 1
	assert.True(t, handler.HasCaptcha(page))
}
