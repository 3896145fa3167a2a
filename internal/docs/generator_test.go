package docs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-autoapply-engine/internal/models"
)

func TestRenderTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tmpl.html")
	require.NoError(t, os.WriteFile(path, []byte(`<p>{{.FullName}} - {{join .Skills ", "}}</p>`), 0644))

	html, err := renderTemplate(path, models.ResumeData{
		FullName: "Jamie Rivera",
		Skills:   []string{"Go", "PostgreSQL"},
	})
	require.NoError(t, err)
	assert.Equal(t, `<p>Jamie Rivera - Go, PostgreSQL</p>`, html)
}

func TestRenderTemplateMissingFile(t *testing.T) {
	_, err := renderTemplate("does/not/exist.html", nil)
	assert.Error(t, err)
}

func TestWriteCoverLetterTextFallback(t *testing.T) {
	profile := models.ApplicantProfile{
		FullName:          "Jamie Rivera",
		YearsOfExperience: 7,
		CurrentTitle:      "Senior Backend Engineer",
		CurrentCompany:    "Acme Corp",
		Skills:            []string{"Go", "PostgreSQL", "Kafka", "Kubernetes", "gRPC"},
	}
	job := models.JobContext{Title: "Staff Engineer", Company: "ExampleCo"}

	body := WriteCoverLetterText(context.Background(), nil, "", profile, job)

	assert.Contains(t, body, "Staff Engineer")
	assert.Contains(t, body, "ExampleCo")
	assert.Contains(t, body, "Senior Backend Engineer at Acme Corp")
	// only the first four skills are named
	assert.Contains(t, body, "Go, PostgreSQL, Kafka, Kubernetes")
	assert.NotContains(t, body, "gRPC")
}

func TestDocumentFileName(t *testing.T) {
	assert.Equal(t, "Jamie_Rivera_Resume.pdf", documentFileName("Jamie Rivera", "Resume"))
	assert.Equal(t, "Applicant_Cover_Letter.pdf", documentFileName("  ", "Cover_Letter"))
}

func TestSplitParagraphs(t *testing.T) {
	paragraphs := splitParagraphs("First paragraph.\n\nSecond paragraph.\n\n\n\nThird.")
	assert.Equal(t, []string{"First paragraph.", "Second paragraph.", "Third."}, paragraphs)
}
