package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameSplit(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		first    string
		last     string
	}{
		{name: "two words", fullName: "Jamie Rivera", first: "Jamie", last: "Rivera"},
		{name: "three words", fullName: "Mary Jane Watson", first: "Mary Jane", last: "Watson"},
		{name: "single word", fullName: "Prince", first: "Prince", last: ""},
		{name: "padded", fullName: "  Jamie Rivera  ", first: "Jamie", last: "Rivera"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ApplicantProfile{FullName: tt.fullName}
			assert.Equal(t, tt.first, p.FirstName())
			assert.Equal(t, tt.last, p.LastName())
		})
	}
}

func TestBuildApplicationData(t *testing.T) {
	profile := ApplicantProfile{
		FullName:          "Jamie Rivera",
		Email:             "jamie@example.com",
		YearsOfExperience: 7,
		SalaryExpectation: "160000",
		Availability:      "2 weeks notice",
		WorkAuthorized:    true,
	}
	resume := &Document{FileName: "resume.pdf"}

	data := BuildApplicationData(profile, resume, nil, "Dear team,")

	assert.Equal(t, "Jamie", data.FirstName)
	assert.Equal(t, "Rivera", data.LastName)
	assert.Equal(t, "160000", data.Salary)
	assert.Equal(t, "2 weeks notice", data.StartDate)
	assert.Equal(t, "Online job board", data.HeardAbout)
	assert.Equal(t, "Dear team,", data.CoverLetterText)
	assert.Same(t, resume, data.Resume)
	assert.Nil(t, data.CoverLetter)
	assert.NotNil(t, data.CustomAnswers)
}

func TestRunStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusCaptcha.Terminal())
	assert.True(t, StatusManual.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusFilling.Terminal())
}

func TestResumeFromProfile(t *testing.T) {
	profile := ApplicantProfile{
		FullName:    "Jamie Rivera",
		Email:       "jamie@example.com",
		LinkedInURL: "https://linkedin.com/in/jamierivera",
		Skills:      []string{"Go"},
		PriorRoles: []PriorRole{
			{Company: "Acme Corp", Title: "Engineer", Highlights: []string{"Shipped the thing"}},
		},
	}

	resume := ResumeFromProfile(profile)

	assert.Equal(t, "Jamie Rivera", resume.FullName)
	assert.Equal(t, "https://linkedin.com/in/jamierivera", resume.Links.LinkedIn)
	assert.Len(t, resume.Experience, 1)
	assert.Equal(t, "Acme Corp", resume.Experience[0].Company)
}
