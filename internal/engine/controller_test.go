package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-autoapply-engine/internal/browser/browsertest"
	"go-autoapply-engine/internal/models"
)

type fakeRenderer struct {
	resumeErr error
}

func (f *fakeRenderer) RenderResume(resume models.ResumeData) (*models.Document, error) {
	if f.resumeErr != nil {
		return nil, f.resumeErr
	}
	return &models.Document{FileName: "resume.pdf", MimeType: "application/pdf", Data: []byte("pdf")}, nil
}

func (f *fakeRenderer) RenderCoverLetter(profile models.ApplicantProfile, job models.JobContext, body string) (*models.Document, error) {
	return &models.Document{FileName: "cover.pdf", MimeType: "application/pdf", Data: []byte("pdf")}, nil
}

type fakeResponder struct {
	answers map[string]string
	calls   int
}

func (f *fakeResponder) AnswerQuestions(ctx context.Context, profile models.ApplicantProfile, job models.JobContext, questions []models.CustomQuestion) map[string]string {
	f.calls++
	return f.answers
}

func testInput() ApplyInput {
	return ApplyInput{
		JobURL: "https://apply.example.com/jobs/42",
		Profile: models.ApplicantProfile{
			FullName:          "Jamie Rivera",
			Email:             "jamie@example.com",
			YearsOfExperience: 7,
		},
		Job:             models.JobContext{Title: "Staff Engineer", Company: "ExampleCo"},
		CoverLetterText: "Dear team,",
	}
}

// applicationPage builds a fake generic application form: two mapped fields,
// one screening question, a resume upload, and a submit button.
func applicationPage(t *testing.T) *browsertest.FakePage {
	t.Helper()

	raws := []map[string]any{
		{"tag": "input", "type": "text", "id": "first_name", "label": "First Name", "selector": "#first_name"},
		{"tag": "input", "type": "email", "id": "email", "label": "Email", "selector": "#email"},
		{"tag": "textarea", "name": "why", "label": "Why do you want to join us?", "selector": "textarea[name=\"why\"]"},
		{"tag": "input", "type": "file", "name": "resume", "label": "Resume/CV", "selector": "input[name=\"resume\"]"},
	}
	payload, err := json.Marshal(raws)
	require.NoError(t, err)

	page := browsertest.New("https://apply.example.com/jobs/42", "<form>Submit your application</form>")
	page.EvalResult = string(payload)

	// application-page signals
	page.Counts["form"] = 1
	page.Counts["input[type='email']"] = 1
	page.Counts["input[type='file']"] = 1

	// form controls
	page.Counts["#first_name"] = 1
	page.Counts["#email"] = 1
	page.Counts[`textarea[name="why"]`] = 1
	page.Counts[`input[name="resume"]`] = 1
	page.Counts["button[type='submit']"] = 1

	return page
}

func TestApplyHappyPath(t *testing.T) {
	page := applicationPage(t)
	page.ClickHook = func(selector string) {
		if selector == "button[type='submit']" {
			page.HTML = "<h1>Thank you for applying!</h1>"
		}
	}

	responder := &fakeResponder{answers: map[string]string{
		`textarea[name="why"]`: "The role matches my background.",
	}}

	var progressTrail []int
	controller := NewController(page, &fakeRenderer{}, responder,
		WithStatusCallback(func(s *models.AutoApplySession) {
			progressTrail = append(progressTrail, s.Progress)
		}))

	session := controller.Apply(context.Background(), testInput())

	assert.Equal(t, models.StatusCompleted, session.Status)
	assert.Equal(t, 100, session.Progress)
	assert.Equal(t, string("generic"), session.ATSType)
	assert.NotEmpty(t, session.ID)
	require.NotNil(t, session.CompletedAt)

	// mapped fields and the AI answer landed on the page
	assert.Equal(t, "Jamie", page.Filled["#first_name"])
	assert.Equal(t, "jamie@example.com", page.Filled["#email"])
	assert.Equal(t, "The role matches my background.", page.Filled[`textarea[name="why"]`])
	assert.Equal(t, "resume.pdf", page.Uploaded[`input[name="resume"]`].FileName)
	assert.Equal(t, 1, responder.calls)

	assert.Equal(t, 3, session.FieldsFilled)
	assert.Equal(t, 4, session.FieldsTotal)
	require.Len(t, session.CustomQuestions, 1)

	// progress only moves forward
	for i := 1; i < len(progressTrail); i++ {
		assert.GreaterOrEqual(t, progressTrail[i], progressTrail[i-1])
	}

	assert.Equal(t, 1, page.CloseCalls)
	assert.NotEmpty(t, session.ActionLog)
}

func TestApplyCaptchaStopsBeforeFilling(t *testing.T) {
	page := applicationPage(t)
	page.Counts[".g-recaptcha"] = 1

	controller := NewController(page, &fakeRenderer{}, &fakeResponder{})
	session := controller.Apply(context.Background(), testInput())

	assert.Equal(t, models.StatusCaptcha, session.Status)
	assert.Equal(t, 25, session.Progress)
	assert.Empty(t, page.Filled)
	assert.Empty(t, page.Uploaded)
	assert.Contains(t, page.ScreenLog, "captcha")
	assert.Equal(t, 1, page.CloseCalls)
}

func TestApplyBrowserStartFailure(t *testing.T) {
	page := applicationPage(t)
	page.InitErr = errors.New("chromium missing")

	controller := NewController(page, &fakeRenderer{}, &fakeResponder{})
	session := controller.Apply(context.Background(), testInput())

	assert.Equal(t, models.StatusFailed, session.Status)
	assert.Contains(t, session.Error, "browser start failed")
	assert.Equal(t, 1, page.CloseCalls)
}

func TestApplyNavigationFailure(t *testing.T) {
	page := applicationPage(t)
	page.NavErr = errors.New("dns lookup failed")

	controller := NewController(page, &fakeRenderer{}, &fakeResponder{})
	session := controller.Apply(context.Background(), testInput())

	assert.Equal(t, models.StatusFailed, session.Status)
	assert.Contains(t, session.Error, "could not open")
}

func TestApplyResumeRenderFailure(t *testing.T) {
	page := applicationPage(t)

	controller := NewController(page, &fakeRenderer{resumeErr: errors.New("template broken")}, &fakeResponder{})
	session := controller.Apply(context.Background(), testInput())

	assert.Equal(t, models.StatusFailed, session.Status)
	assert.Contains(t, session.Error, "resume rendering failed")
	assert.Empty(t, page.Filled)
}

func TestApplyManualWhenNoSubmitControl(t *testing.T) {
	page := applicationPage(t)
	delete(page.Counts, "button[type='submit']")

	controller := NewController(page, &fakeRenderer{}, &fakeResponder{})
	session := controller.Apply(context.Background(), testInput())

	assert.Equal(t, models.StatusManual, session.Status)
	require.NotNil(t, session.SubmitResult)
	assert.True(t, session.SubmitResult.RequiresManualAction)
	// fields were still filled before the run stopped
	assert.Equal(t, "Jamie", page.Filled["#first_name"])
}

func TestApplyMultiStepAdvances(t *testing.T) {
	page := applicationPage(t)
	page.Counts["button:has-text('Next')"] = 1
	page.ClickHook = func(selector string) {
		switch selector {
		case "button:has-text('Next')":
			// second step has no further advance control
			delete(page.Counts, "button:has-text('Next')")
		case "button[type='submit']":
			page.HTML = "<h1>Application received</h1>"
		}
	}

	controller := NewController(page, &fakeRenderer{}, &fakeResponder{})
	session := controller.Apply(context.Background(), testInput())

	assert.Equal(t, models.StatusCompleted, session.Status)
	assert.Contains(t, page.Clicked, "button:has-text('Next')")
	// fill is idempotent across steps: each field written once
	assert.Equal(t, "Jamie", page.Filled["#first_name"])
}

func TestApplySubmitErrorFails(t *testing.T) {
	page := applicationPage(t)
	page.ClickHook = func(selector string) {
		if selector == "button[type='submit']" {
			page.Counts[".error-message"] = 1
			page.Texts[".error-message"] = "Phone number is required"
		}
	}

	controller := NewController(page, &fakeRenderer{}, &fakeResponder{})
	session := controller.Apply(context.Background(), testInput())

	assert.Equal(t, models.StatusFailed, session.Status)
	assert.Equal(t, "Phone number is required", session.Error)
}
