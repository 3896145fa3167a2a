// Command set every page consumer (classifier, handlers, controller) talks
// through. Session is the playwright-backed implementation; tests use the
// in-memory fake from browsertest.

package browser

import (
	"context"
	"time"

	"go-autoapply-engine/internal/models"
)

// Page is the logged browser command set.
type Page interface {
	CurrentURL() string
	Content() (string, error)
	Count(selector string) (int, error)
	Text(selector string) (string, error)
	Attribute(selector, name string) (string, error)
	Click(selector string) error
	Fill(selector, value string) error
	SelectOption(selector, value string) error
	SetChecked(selector string, checked bool) error
	UploadFile(selector string, doc models.Document) error
	Evaluate(script string) (string, error)
	NavigateTo(url string) error
	WaitForSelector(selector string, timeout time.Duration) error
	WaitForTimeout(d time.Duration)
	TakeScreenshot(label string) (models.ImageRef, error)
}

// Driver is the full session contract owned by the controller: the command
// set plus lifecycle and the audit trail.
type Driver interface {
	Page
	Initialize(ctx context.Context) error
	Close() error
	ActionLog() []models.ActionEntry
}
