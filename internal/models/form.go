package models

// FieldKind classifies a discovered form control.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldEmail    FieldKind = "email"
	FieldPhone    FieldKind = "phone"
	FieldTextarea FieldKind = "textarea"
	FieldSelect   FieldKind = "select"
	FieldRadio    FieldKind = "radio"
	FieldCheckbox FieldKind = "checkbox"
	FieldFile     FieldKind = "file"
	FieldDate     FieldKind = "date"
	FieldNumber   FieldKind = "number"
)

// ApplicationData attributes a field label can map to.
const (
	AttrFirstName         = "firstName"
	AttrLastName          = "lastName"
	AttrFullName          = "fullName"
	AttrEmail             = "email"
	AttrPhone             = "phone"
	AttrLocation          = "location"
	AttrLinkedInURL       = "linkedinUrl"
	AttrPortfolioURL      = "portfolioUrl"
	AttrWebsiteURL        = "websiteUrl"
	AttrGitHubURL         = "githubUrl"
	AttrCurrentCompany    = "currentCompany"
	AttrCurrentTitle      = "currentTitle"
	AttrYearsOfExperience = "yearsOfExperience"
	AttrCoverLetterText   = "coverLetterText"
	AttrSalary            = "salary"
	AttrStartDate         = "startDate"
	AttrHeardAbout        = "heardAbout"
)

// FieldInfo is one discovered form control. Ephemeral, rebuilt on every
// analysis pass.
type FieldInfo struct {
	Kind        FieldKind `json:"kind"`
	Selector    string    `json:"selector"`
	Label       string    `json:"label"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
	MappedField string    `json:"mappedField,omitempty"`
}

// CustomQuestion is a labeled control that could not be mapped to a known
// applicant attribute and therefore needs a generated answer.
type CustomQuestion struct {
	Question string    `json:"question"`
	Selector string    `json:"selector"`
	Kind     FieldKind `json:"kind"`
	Options  []string  `json:"options,omitempty"`
	Required bool      `json:"required"`
}

// FormAnalysis is the aggregate result of analyzing the current page.
type FormAnalysis struct {
	Fields          []FieldInfo      `json:"fields"`
	HasFileUpload   bool             `json:"hasFileUpload"`
	CustomQuestions []CustomQuestion `json:"customQuestions,omitempty"`
	SubmitSelector  string           `json:"submitSelector,omitempty"`
	IsMultiStep     bool             `json:"isMultiStep"`
}

// FillResult reports the outcome of one fill pass. Individual field errors
// are collected, never thrown.
type FillResult struct {
	FieldsFilled int      `json:"fieldsFilled"`
	FieldsTotal  int      `json:"fieldsTotal"`
	Errors       []string `json:"errors,omitempty"`
}

// UploadResult reports which documents made it onto the form.
type UploadResult struct {
	ResumeUploaded      bool     `json:"resumeUploaded"`
	CoverLetterUploaded bool     `json:"coverLetterUploaded"`
	Errors              []string `json:"errors,omitempty"`
}

// SubmitResult is the outcome of a submit attempt. RequiresManualAction marks
// runs where automation cannot safely proceed (CAPTCHA after filling, missing
// submit control, ambiguous outcome).
type SubmitResult struct {
	Success              bool     `json:"success"`
	Message              string   `json:"message,omitempty"`
	ApplicationID        string   `json:"applicationId,omitempty"`
	Screenshot           ImageRef `json:"screenshot,omitempty"`
	Error                string   `json:"error,omitempty"`
	RequiresManualAction bool     `json:"requiresManualAction"`
	Reason               string   `json:"reason,omitempty"`
}
