package models

import "time"

// RunStatus is the state-machine value of an auto-apply run.
type RunStatus string

const (
	StatusPending    RunStatus = "pending"
	StatusNavigating RunStatus = "navigating"
	StatusDetecting  RunStatus = "detecting"
	StatusFilling    RunStatus = "filling"
	StatusUploading  RunStatus = "uploading"
	StatusSubmitting RunStatus = "submitting"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
	StatusCaptcha    RunStatus = "captcha"
	StatusManual     RunStatus = "manual"
)

// Terminal reports whether no further automatic progress occurs.
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCaptcha, StatusManual:
		return true
	}
	return false
}

// ImageRef is an opaque reference to a captured screenshot. The storage
// mechanism (file path, object-store key) is an implementation choice.
type ImageRef string

// ActionStatus classifies one browser command outcome.
type ActionStatus string

const (
	ActionOK    ActionStatus = "success"
	ActionWarn  ActionStatus = "warning"
	ActionError ActionStatus = "error"
)

// ActionEntry is one line of the chronological browser audit trail.
type ActionEntry struct {
	Timestamp  time.Time    `json:"timestamp"`
	Action     string       `json:"action"`
	Status     ActionStatus `json:"status"`
	Detail     string       `json:"detail,omitempty"`
	Screenshot ImageRef     `json:"screenshot,omitempty"`
}

// AutoApplySession is the full record of one run. Created at the start of
// Apply, mutated exclusively by the controller, returned at the end. Never
// mutated concurrently.
type AutoApplySession struct {
	ID          string    `json:"id"`
	JobURL      string    `json:"jobUrl"`
	JobTitle    string    `json:"jobTitle,omitempty"`
	CompanyName string    `json:"companyName,omitempty"`
	Status      RunStatus `json:"status"`
	Progress    int       `json:"progress"`
	CurrentStep string    `json:"currentStep,omitempty"`

	ATSType       string  `json:"atsType,omitempty"`
	ATSConfidence float64 `json:"atsConfidence,omitempty"`

	FieldsTotal     int              `json:"fieldsTotal"`
	FieldsFilled    int              `json:"fieldsFilled"`
	CustomQuestions []CustomQuestion `json:"customQuestions,omitempty"`

	Screenshots []ImageRef    `json:"screenshots,omitempty"`
	ActionLog   []ActionEntry `json:"actionLog,omitempty"`

	Error        string        `json:"error,omitempty"`
	SubmitResult *SubmitResult `json:"submitResult,omitempty"`

	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
