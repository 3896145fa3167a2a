package ats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-autoapply-engine/internal/browser/browsertest"
	"go-autoapply-engine/internal/models"
)

func TestBuildAnalysis(t *testing.T) {
	raws := []rawField{
		{Tag: "input", Type: "text", ID: "first_name", Label: "First Name *", Required: true, Selector: "#first_name"},
		{Tag: "input", Type: "email", Name: "email", Label: "Email", Selector: "input[name=\"email\"]"},
		{Tag: "input", Type: "file", Name: "resume", Label: "Resume/CV", Selector: "input[name=\"resume\"]"},
		{Tag: "textarea", Name: "why", Label: "Why do you want to join us?", Selector: "textarea[name=\"why\"]"},
		{Tag: "select", Name: "auth", Label: "Are you authorized to work?", Options: []string{"Yes", "No"}, Values: []string{"yes", "no"}, Selector: "select[name=\"auth\"]"},
		// duplicate selector is dropped
		{Tag: "input", Type: "text", ID: "first_name", Label: "First Name *", Selector: "#first_name"},
	}

	analysis := buildAnalysis(raws)

	assert.Len(t, analysis.Fields, 5)
	assert.True(t, analysis.HasFileUpload)

	bySelector := map[string]models.FieldInfo{}
	for _, f := range analysis.Fields {
		bySelector[f.Selector] = f
	}

	assert.Equal(t, models.AttrFirstName, bySelector["#first_name"].MappedField)
	assert.True(t, bySelector["#first_name"].Required)
	assert.Equal(t, models.AttrEmail, bySelector["input[name=\"email\"]"].MappedField)
	assert.Equal(t, models.FieldFile, bySelector["input[name=\"resume\"]"].Kind)

	require.Len(t, analysis.CustomQuestions, 2)
	questions := map[string]models.CustomQuestion{}
	for _, q := range analysis.CustomQuestions {
		questions[q.Selector] = q
	}
	assert.Equal(t, "Why do you want to join us?", questions["textarea[name=\"why\"]"].Question)
	assert.Equal(t, []string{"Yes", "No"}, questions["select[name=\"auth\"]"].Options)
}

func TestAnalyzeForm(t *testing.T) {
	raws := []rawField{
		{Tag: "input", Type: "text", ID: "full_name", Label: "Full Name", Selector: "#full_name"},
		{Tag: "input", Type: "file", Name: "resume", Label: "Resume", Selector: "input[name=\"resume\"]"},
	}
	payload, err := json.Marshal(raws)
	require.NoError(t, err)

	page := browsertest.New("https://example.com/apply", "<form></form>")
	page.EvalResult = string(payload)
	page.Counts["button[type='submit']"] = 1

	handler := NewBase("generic")
	analysis, err := handler.AnalyzeForm(page)
	require.NoError(t, err)

	assert.Len(t, analysis.Fields, 2)
	assert.True(t, analysis.HasFileUpload)
	assert.Equal(t, "button[type='submit']", analysis.SubmitSelector)
	assert.False(t, analysis.IsMultiStep)
}

func TestAnalyzeFormMultiStep(t *testing.T) {
	page := browsertest.New("https://example.com/apply", "<form></form>")
	page.EvalResult = `[]`
	page.Counts["button:has-text('Next')"] = 1

	handler := NewBase("generic")
	analysis, err := handler.AnalyzeForm(page)
	require.NoError(t, err)

	assert.Empty(t, analysis.SubmitSelector)
	assert.True(t, analysis.IsMultiStep)
}

func TestAnalyzeFormBadPayload(t *testing.T) {
	page := browsertest.New("https://example.com/apply", "")
	page.EvalResult = "not json"

	handler := NewBase("generic")
	_, err := handler.AnalyzeForm(page)
	assert.Error(t, err)
}
