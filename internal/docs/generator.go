// Renders the resume and cover letter as PDF documents: HTML template first,
// then headless Chromium prints it to A4.

package docs

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-autoapply-engine/internal/ai"
	"go-autoapply-engine/internal/models"
)

// Generator converts resume data and cover letter text into PDF files.
type Generator struct {
	resumeTemplatePath string
	coverTemplatePath  string
}

func NewGenerator(resumeTemplatePath, coverTemplatePath string) *Generator {
	return &Generator{
		resumeTemplatePath: resumeTemplatePath,
		coverTemplatePath:  coverTemplatePath,
	}
}

// RenderResume produces the resume PDF for upload.
func (g *Generator) RenderResume(resume models.ResumeData) (*models.Document, error) {
	html, err := renderTemplate(g.resumeTemplatePath, resume)
	if err != nil {
		return nil, err
	}
	data, err := htmlToPDF(html)
	if err != nil {
		return nil, err
	}
	return &models.Document{
		FileName: documentFileName(resume.FullName, "Resume"),
		MimeType: "application/pdf",
		Data:     data,
	}, nil
}

type coverLetterView struct {
	FullName string
	Email    string
	Phone    string
	Company  string
	JobTitle string
	Date     string
	Body     []string
}

// RenderCoverLetter produces the cover letter PDF from already-written text.
func (g *Generator) RenderCoverLetter(profile models.ApplicantProfile, job models.JobContext, body string) (*models.Document, error) {
	view := coverLetterView{
		FullName: profile.FullName,
		Email:    profile.Email,
		Phone:    profile.Phone,
		Company:  job.Company,
		JobTitle: job.Title,
		Date:     time.Now().Format("January 2, 2006"),
		Body:     splitParagraphs(body),
	}
	html, err := renderTemplate(g.coverTemplatePath, view)
	if err != nil {
		return nil, err
	}
	data, err := htmlToPDF(html)
	if err != nil {
		return nil, err
	}
	return &models.Document{
		FileName: documentFileName(profile.FullName, "Cover_Letter"),
		MimeType: "application/pdf",
		Data:     data,
	}, nil
}

const coverLetterSystemPrompt = `You write concise, specific cover letters. Three short paragraphs, under 250 words total, first person, no salutation line and no signature block. Never invent employers, dates, or credentials.`

// WriteCoverLetterText generates the letter body with the AI client, falling
// back to a template-built letter when the model is unavailable.
func WriteCoverLetterText(ctx context.Context, client ai.Client, model string, profile models.ApplicantProfile, job models.JobContext) string {
	if client != nil {
		prompt := fmt.Sprintf(
			"Applicant: %s, %s with %d years of experience. Skills: %s.\n\nWrite the cover letter body for the %s role at %s.\nJob description: %s",
			profile.FullName, profile.Headline, profile.YearsOfExperience,
			strings.Join(profile.Skills, ", "), job.Title, job.Company, job.Description)

		body, err := client.Complete(ctx, []ai.Message{
			{Role: "system", Content: coverLetterSystemPrompt},
			{Role: "user", Content: prompt},
		}, ai.Options{Model: model, Temperature: 0.5, MaxTokens: 600})
		if err == nil && strings.TrimSpace(body) != "" {
			return strings.TrimSpace(body)
		}
	}

	return fmt.Sprintf(
		"I am writing to apply for the %s position at %s. With %d years of experience%s, my background aligns closely with what this role calls for.\n\nIn my recent work I have focused on %s, and I am confident that experience would transfer directly to your team.\n\nI would welcome the chance to discuss how I can contribute. Thank you for your consideration.",
		job.Title, job.Company, profile.YearsOfExperience, currentRolePhrase(profile), skillsPhrase(profile))
}

func currentRolePhrase(profile models.ApplicantProfile) string {
	if profile.CurrentTitle == "" {
		return ""
	}
	phrase := " as a " + profile.CurrentTitle
	if profile.CurrentCompany != "" {
		phrase += " at " + profile.CurrentCompany
	}
	return phrase
}

func skillsPhrase(profile models.ApplicantProfile) string {
	skills := profile.Skills
	if len(skills) > 4 {
		skills = skills[:4]
	}
	if len(skills) == 0 {
		return "building and shipping production software"
	}
	return strings.Join(skills, ", ")
}

func renderTemplate(path string, data any) (string, error) {
	funcMap := template.FuncMap{
		"join": strings.Join,
	}
	tmpl, err := template.New(filepath.Base(path)).Funcs(funcMap).ParseFiles(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", path, err)
	}
	return buf.String(), nil
}

// htmlToPDF renders the HTML in a throwaway headless page and prints it.
func htmlToPDF(htmlContent string) ([]byte, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	defer page.Close()

	if err := page.SetContent(htmlContent, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	pdfBytes, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("0"),
			Bottom: playwright.String("0"),
			Left:   playwright.String("0"),
			Right:  playwright.String("0"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate PDF: %w", err)
	}

	return pdfBytes, nil
}

// SaveToFile is a helper to save a generated document to disk.
func SaveToFile(doc *models.Document, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("could not create directory: %w", err)
	}
	return os.WriteFile(filepath.Join(outputDir, doc.FileName), doc.Data, 0644)
}

func documentFileName(fullName, kind string) string {
	name := strings.Join(strings.Fields(fullName), "_")
	if name == "" {
		name = "Applicant"
	}
	return fmt.Sprintf("%s_%s.pdf", name, kind)
}

func splitParagraphs(body string) []string {
	var paragraphs []string
	for _, chunk := range strings.Split(body, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			paragraphs = append(paragraphs, chunk)
		}
	}
	return paragraphs
}
