// The apply controller: one run = navigate, classify, analyze, answer, fill,
// upload, submit. Owns the session record and the state machine; everything
// below it is a strategy it calls through an interface.

package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"go-autoapply-engine/internal/ats"
	"go-autoapply-engine/internal/ats/generic"
	"go-autoapply-engine/internal/ats/greenhouse"
	"go-autoapply-engine/internal/ats/lever"
	"go-autoapply-engine/internal/browser"
	"go-autoapply-engine/internal/detector"
	"go-autoapply-engine/internal/models"
)

// Bounded so a form that keeps producing "Next" controls cannot loop forever.
const maxFormSteps = 5

// DocumentRenderer produces the uploadable PDFs.
type DocumentRenderer interface {
	RenderResume(resume models.ResumeData) (*models.Document, error)
	RenderCoverLetter(profile models.ApplicantProfile, job models.JobContext, body string) (*models.Document, error)
}

// QuestionResponder answers the screening questions a form asks beyond the
// mapped profile fields.
type QuestionResponder interface {
	AnswerQuestions(ctx context.Context, profile models.ApplicantProfile, job models.JobContext, questions []models.CustomQuestion) map[string]string
}

// ApplyInput is everything one run needs. Immutable once Apply starts.
type ApplyInput struct {
	JobURL  string
	Profile models.ApplicantProfile
	Job     models.JobContext

	// Resume overrides the profile-derived resume when set.
	Resume *models.ResumeData

	// CoverLetterText is the pre-written letter body. Empty skips the cover
	// letter document entirely.
	CoverLetterText string
}

// Controller drives one application from URL to submitted.
type Controller struct {
	driver    browser.Driver
	renderer  DocumentRenderer
	responder QuestionResponder

	onStatus func(*models.AutoApplySession)
}

type Option func(*Controller)

// WithStatusCallback registers a hook invoked after every status or progress
// change, for live reporting. Called synchronously on the run's goroutine.
func WithStatusCallback(fn func(*models.AutoApplySession)) Option {
	return func(c *Controller) { c.onStatus = fn }
}

func NewController(driver browser.Driver, renderer DocumentRenderer, responder QuestionResponder, opts ...Option) *Controller {
	c := &Controller{
		driver:    driver,
		renderer:  renderer,
		responder: responder,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Apply runs the full state machine and always returns a session record, even
// on failure. The driver is closed exactly once before returning.
func (c *Controller) Apply(ctx context.Context, input ApplyInput) (session *models.AutoApplySession) {
	session = &models.AutoApplySession{
		ID:          uuid.NewString(),
		JobURL:      input.JobURL,
		JobTitle:    input.Job.Title,
		CompanyName: input.Job.Company,
		Status:      models.StatusPending,
		StartedAt:   time.Now(),
	}

	closed := false
	closeDriver := func() {
		if closed {
			return
		}
		closed = true
		if err := c.driver.Close(); err != nil {
			log.Printf("⚠️ Browser close failed: %v", err)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Apply run panicked: %v", r)
			c.fail(session, fmt.Sprintf("internal error: %v", r))
		}
		session.ActionLog = c.driver.ActionLog()
		closeDriver()
		if !session.Status.Terminal() {
			c.fail(session, "run ended without a terminal status")
		}
		now := time.Now()
		session.CompletedAt = &now
		c.notify(session)
	}()

	if err := c.driver.Initialize(ctx); err != nil {
		c.fail(session, fmt.Sprintf("browser start failed: %v", err))
		return session
	}

	// navigate
	c.transition(session, models.StatusNavigating, 5, "Opening job page")
	if err := c.driver.NavigateTo(input.JobURL); err != nil {
		c.fail(session, fmt.Sprintf("could not open %s: %v", input.JobURL, err))
		return session
	}
	c.setProgress(session, 10, "Job page loaded")
	c.screenshot(session, "job-page")

	// a listing page needs its apply control followed first
	if !detector.IsApplicationPage(c.driver) {
		reached, err := detector.FollowApplyControl(c.driver)
		if err != nil {
			c.fail(session, fmt.Sprintf("no application form found: %v", err))
			return session
		}
		log.Printf("➡️ Reached application page: %s", reached)
	}
	c.setProgress(session, 20, "Application form located")

	// classify
	c.transition(session, models.StatusDetecting, 20, "Identifying application system")
	handler := c.selectHandler(session)

	if handler.HasCaptcha(c.driver) {
		c.setProgress(session, 25, "CAPTCHA detected")
		c.screenshot(session, "captcha")
		c.terminal(session, models.StatusCaptcha, "CAPTCHA present before filling, manual completion required")
		return session
	}
	c.setProgress(session, 30, fmt.Sprintf("Detected %s", session.ATSType))

	// analyze
	analysis, err := handler.AnalyzeForm(c.driver)
	if err != nil {
		c.fail(session, fmt.Sprintf("form analysis failed: %v", err))
		return session
	}
	session.FieldsTotal = len(analysis.Fields)
	session.CustomQuestions = analysis.CustomQuestions
	c.setProgress(session, 35, fmt.Sprintf("Form analyzed: %d fields, %d questions", len(analysis.Fields), len(analysis.CustomQuestions)))

	// documents and answers are prepared before any field is touched
	data, err := c.prepareApplicationData(ctx, input, analysis.CustomQuestions)
	if err != nil {
		c.fail(session, err.Error())
		return session
	}
	c.setProgress(session, 40, "Answers and documents ready")

	// fill / upload, advancing through multi-step forms as needed
	c.transition(session, models.StatusFilling, 40, "Filling application fields")
	for step := 0; step < maxFormSteps; step++ {
		fill := handler.FillApplication(c.driver, data)
		session.FieldsFilled += fill.FieldsFilled
		for _, msg := range fill.Errors {
			log.Printf("⚠️ Field skipped: %s", msg)
		}
		c.setProgress(session, 50, fmt.Sprintf("Filled %d fields", session.FieldsFilled))

		c.transition(session, models.StatusUploading, 50, "Uploading documents")
		upload := handler.UploadDocuments(c.driver, data)
		for _, msg := range upload.Errors {
			log.Printf("⚠️ Upload issue: %s", msg)
		}
		c.setProgress(session, 70, "Documents attached")

		if !handler.GoToNextStep(c.driver) {
			break
		}
		log.Printf("➡️ Advanced to next form step")
		if _, err := handler.AnalyzeForm(c.driver); err != nil {
			c.fail(session, fmt.Sprintf("analysis of next form step failed: %v", err))
			return session
		}
		c.transition(session, models.StatusFilling, 70, "Filling next step")
	}

	if handler.HasCaptcha(c.driver) {
		c.screenshot(session, "captcha")
		c.terminal(session, models.StatusCaptcha, "CAPTCHA appeared before submit, manual completion required")
		return session
	}

	// submit
	c.transition(session, models.StatusSubmitting, 85, "Submitting application")
	c.screenshot(session, "before-submit")
	result := handler.Submit(c.driver)
	session.SubmitResult = result
	if result.Screenshot != "" {
		session.Screenshots = append(session.Screenshots, result.Screenshot)
	}
	c.setProgress(session, 90, "Submission attempted")

	switch {
	case result.RequiresManualAction:
		c.terminal(session, models.StatusManual, result.Reason)
	case result.Success:
		c.setProgress(session, 100, "Application submitted")
		c.terminal(session, models.StatusCompleted, result.Message)
	default:
		c.fail(session, result.Error)
	}
	return session
}

// selectHandler maps the classifier verdict to a vendor strategy. The
// classifier and the handler must agree; a handler that does not recognize
// the page drops the run to generic.
func (c *Controller) selectHandler(session *models.AutoApplySession) ats.Handler {
	detection := detector.Detect(c.driver)
	session.ATSType = string(detection.Type)
	session.ATSConfidence = detection.Confidence
	log.Printf("🔍 Classified as %s (confidence %.2f)", detection.Type, detection.Confidence)

	var handler ats.Handler
	switch detection.Type {
	case detector.ATSGreenhouse:
		handler = greenhouse.New()
	case detector.ATSLever:
		handler = lever.New()
	default:
		return generic.New()
	}

	if !handler.Detect(c.driver) {
		log.Printf("⚠️ %s handler rejected the page, falling back to generic", handler.Name())
		session.ATSType = string(detector.ATSGeneric)
		return generic.New()
	}
	return handler
}

// prepareApplicationData renders the documents and generates answers for the
// custom questions.
func (c *Controller) prepareApplicationData(ctx context.Context, input ApplyInput, questions []models.CustomQuestion) (*models.ApplicationData, error) {
	resumeData := models.ResumeFromProfile(input.Profile)
	if input.Resume != nil {
		resumeData = *input.Resume
	}

	resume, err := c.renderer.RenderResume(resumeData)
	if err != nil {
		return nil, fmt.Errorf("resume rendering failed: %w", err)
	}

	var coverLetter *models.Document
	if input.CoverLetterText != "" {
		coverLetter, err = c.renderer.RenderCoverLetter(input.Profile, input.Job, input.CoverLetterText)
		if err != nil {
			// the application can still proceed without the letter document
			log.Printf("⚠️ Cover letter rendering failed, continuing without it: %v", err)
			coverLetter = nil
		}
	}

	data := models.BuildApplicationData(input.Profile, resume, coverLetter, input.CoverLetterText)
	if len(questions) > 0 && c.responder != nil {
		data.CustomAnswers = c.responder.AnswerQuestions(ctx, input.Profile, input.Job, questions)
	}
	return data, nil
}

// transition moves to a new non-terminal status.
func (c *Controller) transition(session *models.AutoApplySession, status models.RunStatus, progress int, step string) {
	session.Status = status
	session.CurrentStep = step
	c.setProgress(session, progress, step)
	log.Printf("🔄 [%s] %s", status, step)
}

// setProgress only ever moves forward.
func (c *Controller) setProgress(session *models.AutoApplySession, progress int, step string) {
	if progress > session.Progress {
		session.Progress = progress
	}
	session.CurrentStep = step
	c.notify(session)
}

func (c *Controller) terminal(session *models.AutoApplySession, status models.RunStatus, message string) {
	session.Status = status
	session.CurrentStep = message
	log.Printf("🏁 Run %s: %s (%s)", session.ID, status, message)
	c.notify(session)
}

func (c *Controller) fail(session *models.AutoApplySession, message string) {
	if session.Status.Terminal() {
		return
	}
	session.Error = message
	c.screenshot(session, "failure")
	c.terminal(session, models.StatusFailed, message)
}

func (c *Controller) screenshot(session *models.AutoApplySession, label string) {
	ref, err := c.driver.TakeScreenshot(label)
	if err != nil || ref == "" {
		return
	}
	session.Screenshots = append(session.Screenshots, ref)
}

func (c *Controller) notify(session *models.AutoApplySession) {
	if c.onStatus != nil {
		c.onStatus(session)
	}
}
