package models

// Document is a generated file ready for upload.
type Document struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// ApplicationData is the flattened, form-fillable view of an applicant,
// built once per run from the profile plus the generated documents.
type ApplicationData struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`

	LinkedInURL  string `json:"linkedinUrl,omitempty"`
	PortfolioURL string `json:"portfolioUrl,omitempty"`
	WebsiteURL   string `json:"websiteUrl,omitempty"`
	GitHubURL    string `json:"githubUrl,omitempty"`

	CurrentCompany    string `json:"currentCompany,omitempty"`
	CurrentTitle      string `json:"currentTitle,omitempty"`
	YearsOfExperience int    `json:"yearsOfExperience"`

	WorkAuthorized      bool `json:"workAuthorized"`
	RequiresSponsorship bool `json:"requiresSponsorship"`

	Salary     string `json:"salary,omitempty"`
	StartDate  string `json:"startDate,omitempty"`
	HeardAbout string `json:"heardAbout,omitempty"`

	CoverLetterText string    `json:"coverLetterText,omitempty"`
	Resume          *Document `json:"resume,omitempty"`
	CoverLetter     *Document `json:"coverLetter,omitempty"`

	// CustomAnswers maps field selector -> AI-generated answer for questions
	// that could not be answered from structured data alone.
	CustomAnswers map[string]string `json:"customAnswers,omitempty"`
}

// BuildApplicationData flattens the profile and attaches generated documents.
func BuildApplicationData(p ApplicantProfile, resume, coverLetter *Document, coverLetterText string) *ApplicationData {
	return &ApplicationData{
		FirstName:           p.FirstName(),
		LastName:            p.LastName(),
		FullName:            p.FullName,
		Email:               p.Email,
		Phone:               p.Phone,
		Location:            p.Location,
		LinkedInURL:         p.LinkedInURL,
		PortfolioURL:        p.PortfolioURL,
		WebsiteURL:          p.WebsiteURL,
		GitHubURL:           p.GitHubURL,
		CurrentCompany:      p.CurrentCompany,
		CurrentTitle:        p.CurrentTitle,
		YearsOfExperience:   p.YearsOfExperience,
		WorkAuthorized:      p.WorkAuthorized,
		RequiresSponsorship: p.RequiresSponsorship,
		Salary:              p.SalaryExpectation,
		StartDate:           p.Availability,
		HeardAbout:          "Online job board",
		CoverLetterText:     coverLetterText,
		Resume:              resume,
		CoverLetter:         coverLetter,
		CustomAnswers:       make(map[string]string),
	}
}
