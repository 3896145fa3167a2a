// Rule-based shortcuts for screening questions whose answers follow directly
// from the profile. These run before any model call: they are deterministic,
// free, and correct more often than a generated guess.

package responder

import (
	"regexp"
	"strconv"
	"strings"

	"go-autoapply-engine/internal/models"
)

var affirmativeOptions = []string{"yes", "i am", "authorized", "agree", "true"}
var negativeOptions = []string{"no", "i do not", "not require", "false", "none"}

type shortcut struct {
	anyOf  []string
	answer func(profile models.ApplicantProfile, q models.CustomQuestion) (string, bool)
}

var shortcuts = []shortcut{
	{
		anyOf: []string{"sponsorship", "sponsor", "visa"},
		answer: func(p models.ApplicantProfile, q models.CustomQuestion) (string, bool) {
			if p.RequiresSponsorship {
				return pickOption(q.Options, affirmativeOptions, "Yes"), true
			}
			return pickOption(q.Options, negativeOptions, "No"), true
		},
	},
	{
		anyOf: []string{"authorized to work", "work authorization", "legally authorized", "eligible to work", "right to work"},
		answer: func(p models.ApplicantProfile, q models.CustomQuestion) (string, bool) {
			if p.WorkAuthorized {
				return pickOption(q.Options, affirmativeOptions, "Yes"), true
			}
			return pickOption(q.Options, negativeOptions, "No"), true
		},
	},
	{
		anyOf: []string{"years of experience", "how many years"},
		answer: func(p models.ApplicantProfile, q models.CustomQuestion) (string, bool) {
			if p.YearsOfExperience <= 0 {
				return "", false
			}
			if len(q.Options) > 0 {
				if opt := highestQualifyingYears(q.Options, p.YearsOfExperience); opt != "" {
					return opt, true
				}
				return "", false
			}
			return strconv.Itoa(p.YearsOfExperience), true
		},
	},
	{
		anyOf: []string{"relocat"},
		answer: func(p models.ApplicantProfile, q models.CustomQuestion) (string, bool) {
			// never commit the applicant to a move on their behalf
			return pickOption(q.Options, negativeOptions, "No, but open to remote work"), true
		},
	},
	{
		anyOf: []string{"when can you start", "start date", "notice period", "availability"},
		answer: func(p models.ApplicantProfile, q models.CustomQuestion) (string, bool) {
			if p.Availability != "" {
				if len(q.Options) > 0 {
					if opt := matchOptionText(q.Options, p.Availability); opt != "" {
						return opt, true
					}
					return "", false
				}
				return p.Availability, true
			}
			return pickOption(q.Options, []string{"immediate", "2 weeks", "two weeks"}, "Immediately"), true
		},
	},
	{
		anyOf: []string{"salary", "compensation", "pay expectation"},
		answer: func(p models.ApplicantProfile, q models.CustomQuestion) (string, bool) {
			if p.SalaryExpectation == "" {
				return "", false
			}
			if len(q.Options) > 0 {
				if opt := matchOptionText(q.Options, p.SalaryExpectation); opt != "" {
					return opt, true
				}
				return "", false
			}
			return p.SalaryExpectation, true
		},
	},
	{
		anyOf: []string{"how did you hear", "where did you hear", "referral source"},
		answer: func(p models.ApplicantProfile, q models.CustomQuestion) (string, bool) {
			return pickOption(q.Options, []string{"job board", "online", "linkedin", "other"}, "Online job board"), true
		},
	},
}

// answerByShortcut tries every rule in order against the lowercased question.
func answerByShortcut(profile models.ApplicantProfile, q models.CustomQuestion) (string, bool) {
	lowered := strings.ToLower(q.Question)
	for _, rule := range shortcuts {
		for _, want := range rule.anyOf {
			if strings.Contains(lowered, want) {
				if answer, ok := rule.answer(profile, q); ok {
					return answer, true
				}
				break
			}
		}
	}
	return "", false
}

// pickOption returns the first enumerated option containing any of the wanted
// substrings, or the fallback when the question is free text.
func pickOption(options, wanted []string, fallback string) string {
	if len(options) == 0 {
		return fallback
	}
	for _, want := range wanted {
		for _, option := range options {
			if strings.Contains(strings.ToLower(option), want) {
				return option
			}
		}
	}
	return ""
}

func matchOptionText(options []string, value string) string {
	lowered := strings.ToLower(value)
	for _, option := range options {
		optLow := strings.ToLower(option)
		if strings.Contains(optLow, lowered) || strings.Contains(lowered, optLow) {
			return option
		}
	}
	return ""
}

var yearsPattern = regexp.MustCompile(`(\d+)\s*(?:-\s*(\d+))?\s*\+?\s*year`)

// highestQualifyingYears picks the option with the largest lower bound that
// the applicant's experience still satisfies ("5+ years" for 7 years of
// experience, not "1-3 years").
func highestQualifyingYears(options []string, years int) string {
	best := ""
	bestFloor := -1
	for _, option := range options {
		match := yearsPattern.FindStringSubmatch(strings.ToLower(option))
		if match == nil {
			continue
		}
		floor, err := strconv.Atoi(match[1])
		if err != nil || floor > years {
			continue
		}
		if floor > bestFloor {
			bestFloor = floor
			best = option
		}
	}
	return best
}
