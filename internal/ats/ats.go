// Strategy interface every ATS handler implements. Base carries the shared
// vendor-agnostic heuristics; greenhouse and lever layer known selectors on
// top, generic uses Base as-is.

package ats

import (
	"go-autoapply-engine/internal/browser"
	"go-autoapply-engine/internal/models"
)

// Handler is the vendor strategy selected once per run.
type Handler interface {
	// Name is the vendor name ("greenhouse", "lever", "generic").
	Name() string

	// Detect confirms the handler recognizes the current page. The
	// classifier's guess and the handler must agree before a specialized
	// handler is used.
	Detect(page browser.Page) bool

	AnalyzeForm(page browser.Page) (*models.FormAnalysis, error)
	FillApplication(page browser.Page, data *models.ApplicationData) *models.FillResult
	UploadDocuments(page browser.Page, data *models.ApplicationData) *models.UploadResult
	Submit(page browser.Page) *models.SubmitResult

	HasCaptcha(page browser.Page) bool
	GoToNextStep(page browser.Page) bool
}
