// Lever-specific handler. Lever names its core inputs consistently across
// postings, and its screening questions live in cards[...] field groups.

package lever

import (
	"strings"

	"go-autoapply-engine/internal/ats"
	"go-autoapply-engine/internal/browser"
	"go-autoapply-engine/internal/models"
)

var knownFields = []struct {
	selector string
	kind     models.FieldKind
	attr     string
}{
	{"input[name='name']", models.FieldText, models.AttrFullName},
	{"input[name='email']", models.FieldEmail, models.AttrEmail},
	{"input[name='phone']", models.FieldPhone, models.AttrPhone},
	{"input[name='location']", models.FieldText, models.AttrLocation},
	{"input[name='org']", models.FieldText, models.AttrCurrentCompany},
	{"input[name='urls[LinkedIn]']", models.FieldText, models.AttrLinkedInURL},
	{"input[name='urls[GitHub]']", models.FieldText, models.AttrGitHubURL},
	{"input[name='urls[Portfolio]']", models.FieldText, models.AttrPortfolioURL},
	{"textarea[name='comments']", models.FieldTextarea, models.AttrCoverLetterText},
}

type Handler struct {
	*ats.Base
}

func New() *Handler {
	base := ats.NewBase("lever")
	base.SuccessURLHints = []string{"/thanks", "confirmation"}
	return &Handler{Base: base}
}

func (h *Handler) Detect(page browser.Page) bool {
	url := strings.ToLower(page.CurrentURL())
	if strings.Contains(url, "jobs.lever.co") || strings.Contains(url, "jobs.eu.lever.co") {
		return true
	}
	for _, marker := range []string{".application-form", ".posting-headline"} {
		if count, err := page.Count(marker); err == nil && count > 0 {
			return true
		}
	}
	return false
}

func (h *Handler) AnalyzeForm(page browser.Page) (*models.FormAnalysis, error) {
	analysis, err := h.Base.AnalyzeForm(page)
	if err != nil {
		return nil, err
	}

	present := make(map[string]int, len(analysis.Fields))
	for i, field := range analysis.Fields {
		present[field.Selector] = i
	}

	for _, known := range knownFields {
		count, err := page.Count(known.selector)
		if err != nil || count == 0 {
			continue
		}
		if i, ok := present[known.selector]; ok {
			analysis.Fields[i].MappedField = known.attr
			continue
		}
		analysis.Fields = append(analysis.Fields, models.FieldInfo{
			Kind:        known.kind,
			Selector:    known.selector,
			MappedField: known.attr,
		})
	}

	h.promoteCardQuestions(analysis)

	h.CacheAnalysis(analysis)
	return analysis, nil
}

// promoteCardQuestions marks every cards[...] control as a screening
// question; Lever uses that namespace exclusively for custom questions.
func (h *Handler) promoteCardQuestions(analysis *models.FormAnalysis) {
	asked := make(map[string]bool, len(analysis.CustomQuestions))
	for _, q := range analysis.CustomQuestions {
		asked[q.Selector] = true
	}

	for _, field := range analysis.Fields {
		if field.MappedField != "" || asked[field.Selector] || field.Kind == models.FieldFile {
			continue
		}
		if !strings.Contains(field.Selector, "cards[") {
			continue
		}
		if strings.TrimSpace(field.Label) == "" {
			continue
		}
		analysis.CustomQuestions = append(analysis.CustomQuestions, models.CustomQuestion{
			Question: field.Label,
			Selector: field.Selector,
			Kind:     field.Kind,
			Options:  field.Options,
			Required: field.Required,
		})
	}
}
