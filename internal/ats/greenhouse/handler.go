// Greenhouse-specific handler. Greenhouse forms are stable enough that the
// core identity fields can be addressed by their fixed IDs instead of relying
// on the generic label scan.

package greenhouse

import (
	"strings"

	"go-autoapply-engine/internal/ats"
	"go-autoapply-engine/internal/browser"
	"go-autoapply-engine/internal/models"
)

// Fixed selector-to-attribute pairs present on classic Greenhouse boards.
var knownFields = []struct {
	selector string
	kind     models.FieldKind
	attr     string
}{
	{"#first_name", models.FieldText, models.AttrFirstName},
	{"#last_name", models.FieldText, models.AttrLastName},
	{"#email", models.FieldEmail, models.AttrEmail},
	{"#phone", models.FieldPhone, models.AttrPhone},
	{"#candidate-location", models.FieldText, models.AttrLocation},
	{"#job_application_location", models.FieldText, models.AttrLocation},
	{"input[name='job_application[linked_in]']", models.FieldText, models.AttrLinkedInURL},
}

type Handler struct {
	*ats.Base
}

func New() *Handler {
	base := ats.NewBase("greenhouse")
	base.SuccessURLHints = []string{"confirmation", "thank"}
	return &Handler{Base: base}
}

// Detect accepts pages hosted on Greenhouse domains or carrying the embedded
// board markers.
func (h *Handler) Detect(page browser.Page) bool {
	url := strings.ToLower(page.CurrentURL())
	if strings.Contains(url, "greenhouse.io") || strings.Contains(url, "job-boards.greenhouse") {
		return true
	}
	for _, marker := range []string{"#grnhse_app", "#application_form", "#main_fields"} {
		if count, err := page.Count(marker); err == nil && count > 0 {
			return true
		}
	}
	return false
}

// AnalyzeForm runs the generic scan and then overlays the fixed Greenhouse
// selectors, so a renamed or unlabeled identity field still maps correctly.
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

	// anything under the answers container is a screening question even when
	// its label does not read like one
	h.forceAnswerQuestions(analysis)

	h.CacheAnalysis(analysis)
	return analysis, nil
}

func (h *Handler) forceAnswerQuestions(analysis *models.FormAnalysis) {
	asked := make(map[string]bool, len(analysis.CustomQuestions))
	for _, q := range analysis.CustomQuestions {
		asked[q.Selector] = true
	}

	for _, field := range analysis.Fields {
		if field.MappedField != "" || asked[field.Selector] || field.Kind == models.FieldFile {
			continue
		}
		if !strings.Contains(field.Selector, "job_application_answers") &&
			!strings.Contains(field.Selector, "question_") {
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
