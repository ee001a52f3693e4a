// Package resumefeedback tells a student how well a resume targets a job
// posting: which posting keywords are missing, which skills the resume fails to
// show and what to change.
package resumefeedback

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"placement-ats/internal/ats"
)

const (
	maxKeywordSuggestions = 15
	maxMissingSkills      = 10
	// structureBonus is added once for experience/education wording and once
	// for projects/skills wording.
	structureBonus = 5.0
)

// Feedback is the resume feedback for one job posting.
type Feedback struct {
	OverallFeedback        string   `json:"overall_feedback"`
	ATSScore               float64  `json:"ats_score"`
	ATSInterpretation      string   `json:"ats_interpretation"`
	Strengths              []string `json:"strengths"`
	Weaknesses             []string `json:"weaknesses"`
	KeywordSuggestions     []string `json:"keyword_suggestions"`
	MissingSkillsInResume  []string `json:"missing_skills_in_resume"`
	ActionableImprovements []string `json:"actionable_improvements"`
}

// Engine is stateless and safe for concurrent use.
type Engine struct{}

// New returns an Engine.
func New() *Engine {
	return &Engine{}
}

// Generate compares resumeText with the posting's description and requirements
// text. missingSkills is usually skillgap.Report.MissingSkills and may be nil.
func (e *Engine) Generate(resumeText, jobDescription, jobRequirements string, missingSkills []string) Feedback {
	jobKeywords := ats.ExtractKeywords(strings.TrimSpace(jobDescription + " " + jobRequirements))
	matched, missing := ats.KeywordPresence(jobKeywords, resumeText)
	score := Score(resumeText, len(jobKeywords), len(matched))

	return Feedback{
		OverallFeedback:        overall(score),
		ATSScore:               score,
		ATSInterpretation:      Interpret(score),
		Strengths:              strengths(resumeText, matched),
		Weaknesses:             weaknesses(resumeText, missing, missingSkills),
		KeywordSuggestions:     firstN(missing, maxKeywordSuggestions),
		MissingSkillsInResume:  firstN(missingSkills, maxMissingSkills),
		ActionableImprovements: improvements(missing, missingSkills),
	}
}

// Score is the share of job keywords found in the resume plus the structure
// bonuses, rounded to 2 decimals and clamped to [0,100]. A posting without
// keywords scores ats.NeutralKeywordScore with no bonus.
func Score(resumeText string, total, matched int) float64 {
	if total == 0 {
		return ats.NeutralKeywordScore
	}
	score := 100.0 * float64(matched) / float64(total)
	lower := strings.ToLower(resumeText)
	if strings.Contains(lower, "experience") || strings.Contains(lower, "education") {
		score += structureBonus
	}
	if strings.Contains(lower, "projects") || strings.Contains(lower, "skills") {
		score += structureBonus
	}
	score = math.Round(score*100) / 100
	return math.Min(100, math.Max(0, score))
}

// Interpret names the compatibility band of score.
func Interpret(score float64) string {
	switch {
	case score >= 80:
		return "Excellent - High ATS compatibility"
	case score >= 60:
		return "Good - Moderate ATS compatibility"
	case score >= 40:
		return "Fair - Needs improvement for better ATS compatibility"
	default:
		return "Poor - Significant optimization needed"
	}
}

func overall(score float64) string {
	s := formatScore(score)
	switch {
	case score >= 80:
		return fmt.Sprintf("Your resume is well-optimized for ATS (Score: %s/100). It includes most relevant keywords and skills. Minor improvements could make it even stronger.", s)
	case score >= 60:
		return fmt.Sprintf("Your resume has good potential (Score: %s/100). Adding missing keywords and skills will significantly improve ATS compatibility and your chances.", s)
	default:
		return fmt.Sprintf("Your resume needs optimization (Score: %s/100). Focus on adding missing keywords, highlighting relevant skills, and quantifying achievements to improve ATS compatibility.", s)
	}
}

func strengths(resumeText string, matched []string) []string {
	lower := strings.ToLower(resumeText)
	out := []string{}
	if len(matched) > 0 {
		out = append(out, "Resume includes relevant keywords: "+strings.Join(firstN(matched, 5), ", "))
	}
	if strings.Contains(lower, "project") || strings.Contains(lower, "experience") {
		out = append(out, "Resume includes project/experience details")
	}
	for _, link := range []string{"github", "portfolio", "linkedin"} {
		if strings.Contains(lower, link) {
			out = append(out, "Includes links to portfolio/GitHub")
			break
		}
	}
	if len(out) == 0 {
		return []string{"Resume has basic structure"}
	}
	return out
}

func weaknesses(resumeText string, missingKeywords, missingSkills []string) []string {
	lower := strings.ToLower(resumeText)
	out := []string{}
	if len(missingKeywords) > 0 {
		out = append(out, "Missing important keywords: "+strings.Join(firstN(missingKeywords, 5), ", "))
	}
	if len(missingSkills) > 0 {
		out = append(out, "Missing required skills in resume: "+strings.Join(firstN(missingSkills, 5), ", "))
	}
	if len(resumeText) < 200 {
		out = append(out, "Resume is too short - add more details about projects and experience")
	}
	if !strings.Contains(lower, "quantify") && !strings.Contains(lower, "achievement") {
		out = append(out, "Consider adding quantified achievements and metrics")
	}
	return out
}

func improvements(missingKeywords, missingSkills []string) []string {
	out := []string{}
	if len(missingKeywords) > 0 {
		out = append(out, "Add these keywords naturally: "+strings.Join(firstN(missingKeywords, 5), ", "))
	}
	if len(missingSkills) > 0 {
		out = append(out, "Highlight or add projects demonstrating: "+strings.Join(firstN(missingSkills, 3), ", "))
	}
	return append(out,
		"Use action verbs: 'Developed', 'Implemented', 'Optimized', 'Designed'",
		"Quantify achievements: 'Improved performance by 30%', 'Handled 1000+ requests/day'",
		"Include relevant certifications and courses in Education section",
	)
}

// formatScore prints whole scores with one decimal, e.g. 75.0, and others as-is.
func formatScore(score float64) string {
	if score == math.Trunc(score) {
		return strconv.FormatFloat(score, 'f', 1, 64)
	}
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func firstN(items []string, n int) []string {
	out := []string{}
	for _, item := range items {
		if len(out) == n {
			break
		}
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
