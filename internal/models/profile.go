package models

import "strings"

// PriorRole is one past position on the applicant's work history.
type PriorRole struct {
	Company     string   `json:"company"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// ApplicantProfile is the applicant's identity and work history.
// Immutable input for a run.
type ApplicantProfile struct {
	FullName            string      `json:"full_name"`
	Email               string      `json:"email"`
	Phone               string      `json:"phone,omitempty"`
	Location            string      `json:"location,omitempty"`
	Headline            string      `json:"headline,omitempty"`
	Summary             string      `json:"summary,omitempty"`
	Skills              []string    `json:"skills,omitempty"`
	YearsOfExperience   int         `json:"years_of_experience"`
	CurrentCompany      string      `json:"current_company,omitempty"`
	CurrentTitle        string      `json:"current_title,omitempty"`
	LinkedInURL         string      `json:"linkedin_url,omitempty"`
	GitHubURL           string      `json:"github_url,omitempty"`
	PortfolioURL        string      `json:"portfolio_url,omitempty"`
	WebsiteURL          string      `json:"website_url,omitempty"`
	WorkAuthorized      bool        `json:"work_authorized"`
	RequiresSponsorship bool        `json:"requires_sponsorship"`
	SalaryExpectation   string      `json:"salary_expectation,omitempty"`
	Availability        string      `json:"availability,omitempty"`
	PriorRoles          []PriorRole `json:"prior_roles,omitempty"`
}

// FirstName returns everything before the last space of the full name.
func (p ApplicantProfile) FirstName() string {
	name := strings.TrimSpace(p.FullName)
	if idx := strings.LastIndex(name, " "); idx > 0 {
		return name[:idx]
	}
	return name
}

// LastName returns the final word of the full name, or "" for single-word names.
func (p ApplicantProfile) LastName() string {
	name := strings.TrimSpace(p.FullName)
	if idx := strings.LastIndex(name, " "); idx > 0 {
		return name[idx+1:]
	}
	return ""
}

// JobContext is the target posting. Immutable input for a run.
type JobContext struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements,omitempty"`
}
