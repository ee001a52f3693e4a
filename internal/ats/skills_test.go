package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchSkills(t *testing.T) {
	cases := []struct {
		name             string
		candidate        []string
		required         []string
		preferred        []string
		matchedRequired  []string
		missingRequired  []string
		missingPreferred []string
		ratio            float64
	}{
		{
			name:             "substring both directions",
			candidate:        []string{" Python ", "React.js"},
			required:         []string{"python", "React", "Go"},
			preferred:        []string{"Docker"},
			matchedRequired:  []string{"python", "React"},
			missingRequired:  []string{"Go"},
			missingPreferred: []string{"Docker"},
			ratio:            2.0 / 3.0,
		},
		{
			name:             "candidate skill contained in job skill",
			candidate:        []string{"sql"},
			required:         []string{"PostgreSQL"},
			matchedRequired:  []string{"PostgreSQL"},
			missingRequired:  []string{},
			missingPreferred: []string{},
			ratio:            1.0,
		},
		{
			name:             "empty candidate entries never match",
			candidate:        []string{"", "  "},
			required:         []string{"Go"},
			matchedRequired:  []string{},
			missingRequired:  []string{"Go"},
			missingPreferred: []string{},
			ratio:            0,
		},
		{
			name:             "nothing required",
			candidate:        []string{"Go"},
			matchedRequired:  []string{},
			missingRequired:  []string{},
			missingPreferred: []string{},
			ratio:            1.0,
		},
		{
			name:             "duplicates collapse",
			candidate:        []string{},
			required:         []string{"Go", "go", " GO "},
			matchedRequired:  []string{},
			missingRequired:  []string{"Go"},
			missingPreferred: []string{},
			ratio:            0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MatchSkills(tc.candidate, tc.required, tc.preferred)
			assert.Equal(t, tc.matchedRequired, got.MatchedRequired)
			assert.Equal(t, tc.missingRequired, got.MissingRequired)
			assert.Equal(t, tc.missingPreferred, got.MissingPreferred)
			assert.InDelta(t, tc.ratio, got.MatchRatio, 1e-9)
		})
	}
}

func TestMatchSkillsNoOverlap(t *testing.T) {
	got := MatchSkills(
		[]string{"Java", "Docker", "AWS"},
		[]string{"Java", "Kubernetes", "AWS Lambda"},
		[]string{"Docker", "Terraform", "java"},
	)
	seen := map[string]bool{}
	for _, s := range got.Matched {
		seen[normalizeSkill(s)] = true
	}
	for _, s := range got.Missing {
		assert.False(t, seen[normalizeSkill(s)], "skill %q is both matched and missing", s)
	}
	assert.Equal(t, []string{"Java", "AWS Lambda", "Docker"}, got.Matched)
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, got.Missing)
	assert.InDelta(t, 0.5, got.PreferredRatio, 1e-9)
}
