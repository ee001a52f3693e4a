package resumeparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-ats/internal/ats"
)

const sampleResume = `Asha Rao
asha.rao@example.com | +91 98765 43210 | github.com/asharao

Summary
Backend developer with 2 years of experience building Go and Python services.

Skills
Go, Python, PostgreSQL, Docker, REST API, Git

Experience
Software Engineer Intern, Acme Corp (6 months)
Backend Developer, Nimbus Labs - 1.5 years

Education
B.Tech in Computer Science, NIT Trichy, 2019 - 2023
Class 12th, Kendriya Vidyalaya, 2019

Projects
- Inventory Tracker: REST API in Go handling 1000+ requests/day
- Resume Screener - Python and Docker pipeline

Certifications
AWS Certified Cloud Practitioner
`

func TestParseSampleResume(t *testing.T) {
	got := Parse(sampleResume)

	assert.Equal(t, "Asha Rao", got.Name)
	assert.Equal(t, "asha.rao@example.com", got.Email)
	assert.Equal(t, "+91 98765 43210", got.Phone)
	assert.Equal(t, sampleResume, got.RawText)
	assert.Equal(t, []string{"Python", "Go", "PostgreSQL", "Docker", "AWS", "Git", "REST API"}, got.Skills)

	require.Len(t, got.Education, 2)
	assert.Equal(t, "bachelor", got.Education[0].Level)
	assert.Equal(t, "2023", got.Education[0].Year)
	assert.Equal(t, "high_school", got.Education[1].Level)

	require.Len(t, got.Experience, 3)
	assert.InDelta(t, 2.0, got.Experience[0].Years, 1e-9)
	assert.Equal(t, "Software Engineer Intern, Acme Corp", got.Experience[1].Title)
	assert.InDelta(t, 0.5, got.Experience[1].Years, 1e-9)
	assert.InDelta(t, 1.5, got.Experience[2].Years, 1e-9)

	require.Len(t, got.Projects, 2)
	assert.Equal(t, "Inventory Tracker", got.Projects[0].Name)
	assert.Equal(t, []string{"Go", "REST API"}, got.Projects[0].Technologies)
	assert.Equal(t, "Resume Screener", got.Projects[1].Name)
	assert.Equal(t, "Python and Docker pipeline", got.Projects[1].Description)

	assert.Equal(t, []string{"AWS Certified Cloud Practitioner"}, got.Certifications)
}

func TestParseEmpty(t *testing.T) {
	got := Parse("   ")
	assert.Equal(t, "   ", got.RawText)
	assert.NotNil(t, got.Skills)
	assert.NotNil(t, got.Education)
	assert.NotNil(t, got.Experience)
	assert.NotNil(t, got.Projects)
	assert.NotNil(t, got.Certifications)
	assert.Empty(t, got.Name)
}

func TestParsedResumeScores(t *testing.T) {
	resume := Parse(sampleResume)
	years := 2
	job := ats.JobRequirement{
		RequiredSkills:    []string{"Go", "PostgreSQL"},
		EducationLevel:    "Bachelor",
		YearsOfExperience: &years,
	}
	result, err := ats.NewDefaultEngine().ScoreResume("asha", resume, job)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.SkillMatchScore)
	assert.Equal(t, 100.0, result.EducationScore)
	assert.Equal(t, 100.0, result.ExperienceScore)
}

func TestFindSkillsBoundaries(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{"Golang and JavaScript", []string{"JavaScript", "Golang"}},
		{"let's go home", []string{}},
		{"Built with C++ and C#.", []string{"C++", "C#"}},
		{"ASP.NET and .NET 8", []string{".NET"}},
		{"node.js, react", []string{"React", "Node.js"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FindSkills(tc.text), tc.text)
	}
}
