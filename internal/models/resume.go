package models

// ResumeLinks holds the profile URLs printed on a rendered resume.
type ResumeLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

type ResumeExperience struct {
	Role       string   `json:"role"`
	Company    string   `json:"company"`
	Location   string   `json:"location,omitempty"`
	Duration   string   `json:"duration,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

type ResumeEducation struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	GraduationYear string `json:"graduation_year,omitempty"`
}

// ResumeData is the structured input for rendering a resume document.
type ResumeData struct {
	FullName   string             `json:"full_name"`
	Headline   string             `json:"headline,omitempty"`
	Location   string             `json:"location,omitempty"`
	Email      string             `json:"email"`
	Phone      string             `json:"phone,omitempty"`
	Links      ResumeLinks        `json:"links"`
	Summary    string             `json:"summary,omitempty"`
	Skills     []string           `json:"skills,omitempty"`
	Experience []ResumeExperience `json:"experience,omitempty"`
	Education  []ResumeEducation  `json:"education,omitempty"`
}

// ResumeFromProfile builds a renderable resume straight from the profile,
// used when the caller supplies no structured resume of its own.
func ResumeFromProfile(p ApplicantProfile) ResumeData {
	r := ResumeData{
		FullName: p.FullName,
		Headline: p.Headline,
		Location: p.Location,
		Email:    p.Email,
		Phone:    p.Phone,
		Links: ResumeLinks{
			LinkedIn:  p.LinkedInURL,
			GitHub:    p.GitHubURL,
			Portfolio: p.PortfolioURL,
		},
		Summary: p.Summary,
		Skills:  p.Skills,
	}
	for _, role := range p.PriorRoles {
		r.Experience = append(r.Experience, ResumeExperience{
			Role:       role.Title,
			Company:    role.Company,
			Highlights: role.Highlights,
		})
	}
	return r
}
