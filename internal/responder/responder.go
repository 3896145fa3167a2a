// Answers the screening questions an application form asks beyond the mapped
// profile fields. Deterministic shortcuts first, then the AI model; every
// model failure degrades to a profile-derived canned answer so a run never
// dies on a question.

package responder

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"go-autoapply-engine/internal/ai"
	"go-autoapply-engine/internal/models"
)

const (
	freeTextWordLimit = 150
	shortWordLimit    = 50
	answerTemperature = 0.4
	answerMaxTokens   = 400
)

// Responder generates answers for custom screening questions.
type Responder struct {
	client ai.Client
	model  string
}

func New(client ai.Client, model string) *Responder {
	return &Responder{client: client, model: model}
}

// AnswerQuestions resolves every custom question to selector→answer. A
// question nothing could answer is omitted; required free-text questions
// always get at least the canned fallback.
func (r *Responder) AnswerQuestions(ctx context.Context, profile models.ApplicantProfile, job models.JobContext, questions []models.CustomQuestion) map[string]string {
	answers := make(map[string]string, len(questions))

	for _, q := range questions {
		if answer, ok := answerByShortcut(profile, q); ok && answer != "" {
			answers[q.Selector] = answer
			continue
		}

		var answer string
		if len(q.Options) > 0 {
			answer = r.answerChoice(ctx, profile, job, q)
		} else {
			answer = r.answerFreeText(ctx, profile, job, q)
		}
		if answer != "" {
			answers[q.Selector] = answer
		}
	}

	return answers
}

// answerChoice asks the model for an option index, clamped into range. Model
// failure falls back to the first non-empty option.
func (r *Responder) answerChoice(ctx context.Context, profile models.ApplicantProfile, job models.JobContext, q models.CustomQuestion) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n\nOptions:\n", q.Question)
	for i, option := range q.Options {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, option)
	}
	sb.WriteString("\nReply with ONLY the number of the best option for this applicant.")

	reply, err := r.client.Complete(ctx, []ai.Message{
		{Role: "system", Content: choiceSystemPrompt(profile, job)},
		{Role: "user", Content: sb.String()},
	}, ai.Options{Model: r.model, Temperature: 0.1, MaxTokens: 10})
	if err != nil {
		log.Printf("⚠️ AI choice answer failed for %q: %v", q.Question, err)
		return firstNonEmpty(q.Options)
	}

	if idx, ok := firstInt(reply); ok {
		if idx < 1 {
			idx = 1
		}
		if idx > len(q.Options) {
			idx = len(q.Options)
		}
		return q.Options[idx-1]
	}

	// maybe the model answered with the option text itself
	if opt := matchOptionText(q.Options, reply); opt != "" {
		return opt
	}
	return firstNonEmpty(q.Options)
}

func (r *Responder) answerFreeText(ctx context.Context, profile models.ApplicantProfile, job models.JobContext, q models.CustomQuestion) string {
	limit := freeTextWordLimit
	if q.Kind != models.FieldTextarea {
		limit = shortWordLimit
	}

	prompt := fmt.Sprintf(
		"Question from the application form: %s\n\nAnswer in first person, at most %d words, specific to this applicant and role. Do not begin with \"I am\". Plain text only.",
		q.Question, limit)

	reply, err := r.client.Complete(ctx, []ai.Message{
		{Role: "system", Content: freeTextSystemPrompt(profile, job)},
		{Role: "user", Content: prompt},
	}, ai.Options{Model: r.model, Temperature: answerTemperature, MaxTokens: answerMaxTokens})
	if err != nil || strings.TrimSpace(reply) == "" {
		log.Printf("⚠️ AI free-text answer failed for %q, using fallback: %v", q.Question, err)
		return cannedAnswer(profile, job, q)
	}

	return truncateWords(strings.TrimSpace(reply), limit)
}

func choiceSystemPrompt(profile models.ApplicantProfile, job models.JobContext) string {
	return fmt.Sprintf(
		"You pick the most favorable truthful option on a job application for this applicant.\n\n%s\nTarget role: %s at %s.",
		condensedProfile(profile), job.Title, job.Company)
}

func freeTextSystemPrompt(profile models.ApplicantProfile, job models.JobContext) string {
	return fmt.Sprintf(
		"You write short, concrete, truthful answers for a job application, in the applicant's voice. Never invent employers, dates, or credentials.\n\n%s\nTarget role: %s at %s.\nJob description: %s",
		condensedProfile(profile), job.Title, job.Company, truncateWords(job.Description, 120))
}

// condensedProfile keeps prompts small: headline plus a capped skills list
// and the two most recent roles.
func condensedProfile(profile models.ApplicantProfile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Applicant: %s", profile.FullName)
	if profile.Headline != "" {
		fmt.Fprintf(&sb, ", %s", profile.Headline)
	}
	fmt.Fprintf(&sb, ". %d years of experience.", profile.YearsOfExperience)
	if profile.CurrentTitle != "" {
		fmt.Fprintf(&sb, " Currently %s", profile.CurrentTitle)
		if profile.CurrentCompany != "" {
			fmt.Fprintf(&sb, " at %s", profile.CurrentCompany)
		}
		sb.WriteString(".")
	}

	skills := profile.Skills
	if len(skills) > 15 {
		skills = skills[:15]
	}
	if len(skills) > 0 {
		fmt.Fprintf(&sb, "\nSkills: %s.", strings.Join(skills, ", "))
	}

	roles := profile.PriorRoles
	if len(roles) > 2 {
		roles = roles[:2]
	}
	for _, role := range roles {
		fmt.Fprintf(&sb, "\nPrior role: %s at %s.", role.Title, role.Company)
		highlights := role.Highlights
		if len(highlights) > 2 {
			highlights = highlights[:2]
		}
		if len(highlights) > 0 {
			fmt.Fprintf(&sb, " Highlights: %s.", strings.Join(highlights, "; "))
		}
	}
	return sb.String()
}

// cannedAnswer is the no-model fallback, phrased from whatever profile data
// exists.
func cannedAnswer(profile models.ApplicantProfile, job models.JobContext, q models.CustomQuestion) string {
	lowered := strings.ToLower(q.Question)
	switch {
	case strings.Contains(lowered, "why") && (strings.Contains(lowered, "join") || strings.Contains(lowered, "company") || strings.Contains(lowered, "interest")):
		return fmt.Sprintf("With %d years of experience as a %s, the %s role at %s is a strong match for my background, and I'm excited about the problems the team is working on.",
			profile.YearsOfExperience, fallbackTitle(profile), job.Title, job.Company)
	case strings.Contains(lowered, "about yourself") || strings.Contains(lowered, "introduce"):
		return fmt.Sprintf("A %s with %d years of experience%s. My recent work centers on %s.",
			fallbackTitle(profile), profile.YearsOfExperience, currentlyAt(profile), topSkills(profile))
	default:
		return fmt.Sprintf("Happy to discuss this in detail during an interview; in short, my %d years of experience as a %s cover this well.",
			profile.YearsOfExperience, fallbackTitle(profile))
	}
}

func fallbackTitle(profile models.ApplicantProfile) string {
	if profile.CurrentTitle != "" {
		return profile.CurrentTitle
	}
	if profile.Headline != "" {
		return profile.Headline
	}
	return "professional"
}

func currentlyAt(profile models.ApplicantProfile) string {
	if profile.CurrentCompany != "" {
		return ", currently at " + profile.CurrentCompany
	}
	return ""
}

func topSkills(profile models.ApplicantProfile) string {
	skills := profile.Skills
	if len(skills) > 3 {
		skills = skills[:3]
	}
	if len(skills) == 0 {
		return "delivering production software"
	}
	return strings.Join(skills, ", ")
}

var intPattern = regexp.MustCompile(`\d+`)

func firstInt(s string) (int, bool) {
	match := intPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

func firstNonEmpty(options []string) string {
	for _, option := range options {
		if strings.TrimSpace(option) != "" {
			return option
		}
	}
	return ""
}

func truncateWords(s string, limit int) string {
	words := strings.Fields(s)
	if len(words) <= limit {
		return s
	}
	return strings.Join(words[:limit], " ")
}
