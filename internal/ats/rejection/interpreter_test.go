package rejection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		text string
		want Category
	}{
		{"Candidate lacked the technical skills and experience we need", SkillMismatch},
		{"Low score in the coding assessment", TestPerformance},
		{"Your CV did not include documentation of projects", ResumeIssues},
		{"Poor communication during the interview", Communication},
		{"Not aligned with our culture and values", CulturalFit},
		{"The candidate is overqualified for this role", Overqualified},
		{"We need someone junior, underqualified for this", Underqualified},
		{"Position was filled", General},
		{"", General},
	}
	for _, tc := range cases {
		t.Run(string(tc.want)+"/"+tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, Categorize(tc.text))
		})
	}
}

func TestCategorizeTieGoesToFirstDeclared(t *testing.T) {
	// one match each for skill_mismatch ("technical") and test_performance ("test")
	assert.Equal(t, SkillMismatch, Categorize("technical TEST"))
	// one match each for resume_issues ("resume") and cultural_fit ("team")
	assert.Equal(t, ResumeIssues, Categorize("team resume"))
}

func TestInterpretEmptyFeedback(t *testing.T) {
	for _, text := range []string{"", "   \n"} {
		got := New().Interpret(text, "Data Analyst", []string{"SQL"})
		assert.Equal(t, "general", got.RejectionCategory)
		assert.Equal(t, NoFeedbackProvided, got.RawFeedback)
		assert.Equal(t, "Unfortunately, you weren't selected for this Data Analyst position. The hiring process is competitive, and many qualified candidates apply.", got.StudentFriendlyExplanation)
		assert.Len(t, got.ImprovementSuggestions, 4)
		assert.Len(t, got.NextSteps, 3)
		assert.NotEmpty(t, got.MotivationalMessage)
	}
}

func TestInterpretSkillMismatch(t *testing.T) {
	text := "Lacks technical skills required for the role"
	got := New().Interpret(text, "Backend Developer", []string{"Python", " ", "SQL"})

	assert.Equal(t, "skill_mismatch", got.RejectionCategory)
	assert.Equal(t, text, got.RawFeedback)
	assert.Contains(t, got.StudentFriendlyExplanation, "this Backend Developer role requires")
	assert.Equal(t, "Focus on building the missing technical skills through projects", got.ImprovementSuggestions[0])
	assert.Equal(t, nextSteps[SkillMismatch], got.NextSteps)
}

func TestInterpretNextStepsIgnoreStudentSkills(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{"Lacks technical skills", nextSteps[SkillMismatch]},
		{"Failed the coding test", nextSteps[TestPerformance]},
		{"Resume formatting was unclear", nextSteps[ResumeIssues]},
		{"underqualified", defaultNextSteps},
		{"Poor communication", defaultNextSteps},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			with := New().Interpret(tc.text, "SDE", []string{"Python", "SQL"})
			without := New().Interpret(tc.text, "SDE", nil)
			require.Len(t, with.NextSteps, 3)
			assert.Equal(t, tc.want, with.NextSteps)
			assert.Equal(t, without.NextSteps, with.NextSteps)
		})
	}
}

func TestInterpretExplanationWording(t *testing.T) {
	cases := []struct {
		text, title, want string
	}{
		{"Failed the coding test", "SDE", "the threshold for this SDE position."},
		{"Resume formatting was unclear", "SDE", "experiences for the SDE role."},
		{"Not aligned with our culture", "Data Analyst", "team culture for this Data Analyst position."},
		{"Position was filled", "", "you weren't selected for this position."},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			got := New().Interpret(tc.text, tc.title, nil)
			assert.Contains(t, got.StudentFriendlyExplanation, tc.want)
			assert.NotContains(t, got.StudentFriendlyExplanation, "  ")
		})
	}
}

func TestInterpretFallbackTables(t *testing.T) {
	got := New().Interpret("Looking for a more senior engineer", "", nil)

	assert.Equal(t, "overqualified", got.RejectionCategory)
	assert.True(t, strings.HasPrefix(got.StudentFriendlyExplanation, "You're highly qualified for this role"))
	assert.Equal(t, defaultSuggestions, got.ImprovementSuggestions)
	assert.Equal(t, motivation[General], got.MotivationalMessage)
	assert.Equal(t, defaultNextSteps, got.NextSteps)
}

func TestInterpretUnderqualified(t *testing.T) {
	got := New().Interpret("underqualified", "SDE", nil)
	assert.Equal(t, "underqualified", got.RejectionCategory)
	assert.True(t, strings.HasPrefix(got.StudentFriendlyExplanation, "This SDE role requires more experience"))
	assert.Equal(t, defaultNextSteps, got.NextSteps)
}

func TestEveryCategoryHasTables(t *testing.T) {
	for _, c := range Categories {
		_, ok := explanations[c]
		assert.True(t, ok, "missing explanation for %s", c)
		if c != General {
			assert.NotEmpty(t, patterns[c], "missing patterns for %s", c)
		}
	}
}

func TestInterpretOutputIsolated(t *testing.T) {
	got := New().Interpret("bad resume", "Intern", nil)
	got.ImprovementSuggestions[0] = "mutated"
	again := New().Interpret("bad resume", "Intern", nil)
	assert.Equal(t, suggestions[ResumeIssues][0], again.ImprovementSuggestions[0])
}
