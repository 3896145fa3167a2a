package ats

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-autoapply-engine/internal/models"
)

// One label-to-attribute rule. Rules are evaluated in order, first match
// wins, so the specific ones ("first name") sit above the greedy ones
// ("name").
type mappingRule struct {
	anyOf []string           // at least one substring must appear
	allOf []string           // every substring must appear
	exact []string           // normalized label must equal one of these
	kinds []models.FieldKind // empty = any kind
	attr  string
}

var mappingRules = []mappingRule{
	{anyOf: []string{"first name", "given name"}, attr: models.AttrFirstName},
	{anyOf: []string{"last name", "family name", "surname"}, attr: models.AttrLastName},
	{anyOf: []string{"full name", "your name"}, attr: models.AttrFullName},
	{exact: []string{"name"}, attr: models.AttrFullName},
	{anyOf: []string{"email", "e-mail"}, attr: models.AttrEmail},
	{anyOf: []string{"phone", "mobile"}, attr: models.AttrPhone},
	{anyOf: []string{"location", "city", "address"}, attr: models.AttrLocation},
	{anyOf: []string{"linkedin"}, attr: models.AttrLinkedInURL},
	{anyOf: []string{"portfolio"}, attr: models.AttrPortfolioURL},
	{anyOf: []string{"website", "personal site"}, attr: models.AttrWebsiteURL},
	{anyOf: []string{"github"}, attr: models.AttrGitHubURL},
	{anyOf: []string{"current company", "employer"}, attr: models.AttrCurrentCompany},
	{anyOf: []string{"current title", "job title", "current role"}, attr: models.AttrCurrentTitle},
	{allOf: []string{"years", "experience"}, attr: models.AttrYearsOfExperience},
	{anyOf: []string{"cover letter"}, kinds: []models.FieldKind{models.FieldTextarea}, attr: models.AttrCoverLetterText},
	{anyOf: []string{"salary", "compensation"}, attr: models.AttrSalary},
	{anyOf: []string{"start date", "available", "availability"}, attr: models.AttrStartDate},
	{anyOf: []string{"hear", "source", "referral"}, attr: models.AttrHeardAbout},
}

var labelNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeLabel lowercases, strips accents, and drops the required-marker
// and separator noise labels commonly carry.
func NormalizeLabel(label string) string {
	folded, _, _ := transform.String(labelNormalizer, label)
	folded = strings.ToLower(folded)
	folded = strings.TrimSpace(folded)
	folded = strings.TrimSuffix(folded, "*")
	folded = strings.TrimSuffix(folded, ":")
	return strings.Join(strings.Fields(folded), " ")
}

// MapLabel resolves a field label to an ApplicationData attribute. First
// matching rule wins.
func MapLabel(label string, kind models.FieldKind) (string, bool) {
	normalized := NormalizeLabel(label)
	if normalized == "" {
		return "", false
	}

	for _, rule := range mappingRules {
		if len(rule.kinds) > 0 && !containsKind(rule.kinds, kind) {
			continue
		}
		if matchesRule(rule, normalized) {
			return rule.attr, true
		}
	}
	return "", false
}

func matchesRule(rule mappingRule, label string) bool {
	for _, want := range rule.exact {
		if label == want {
			return true
		}
	}
	if len(rule.allOf) > 0 {
		all := true
		for _, want := range rule.allOf {
			if !strings.Contains(label, want) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	for _, want := range rule.anyOf {
		if strings.Contains(label, want) {
			return true
		}
	}
	return false
}

func containsKind(kinds []models.FieldKind, kind models.FieldKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// LooksLikeQuestion reports whether an unmapped labeled control is a genuine
// screening question: free text ending in "?", or any choice control with
// enumerated options.
func LooksLikeQuestion(label string, kind models.FieldKind, options []string) bool {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return false
	}
	if strings.HasSuffix(trimmed, "?") {
		return true
	}
	switch kind {
	case models.FieldSelect, models.FieldRadio, models.FieldCheckbox:
		return len(options) > 0
	}
	return false
}
