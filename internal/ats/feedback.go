package ats

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"placement-ats/internal/ats/recommendations"
)

// DefaultReasonThreshold flags any sub-score below it as a rejection reason.
const DefaultReasonThreshold = 50.0

const strongScore = 80.0

var (
	emailPattern      = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern      = regexp.MustCompile(`\+?\d[\d\s\-()]{8,}\d`)
	quantifiedPattern = regexp.MustCompile(`\d+(?:\.\d+)?\s*%|\d+\s*\+|[$₹€£]\s*\d|\d+\s*(?:x|k|users|requests|clients|customers)\b`)
)

// FeedbackGenerator turns a failing ATSResult into candidate-facing feedback.
type FeedbackGenerator struct {
	threshold float64
}

// NewFeedbackGenerator returns a generator flagging sub-scores below threshold.
// Thresholds outside (0,100] fall back to DefaultReasonThreshold.
func NewFeedbackGenerator(threshold float64) *FeedbackGenerator {
	if !(threshold > 0 && threshold <= 100) {
		threshold = DefaultReasonThreshold
	}
	return &FeedbackGenerator{threshold: threshold}
}

// Threshold returns the sub-score threshold in use.
func (g *FeedbackGenerator) Threshold() float64 {
	return g.threshold
}

type dimension struct {
	key   string
	label string
	score float64
}

// dimensions lists sub-scores in tie-break order.
func dimensions(r ATSResult) []dimension {
	return []dimension{
		{"skill", "skill match", r.SkillMatchScore},
		{"keyword", "keyword match", r.KeywordMatchScore},
		{"experience", "experience", r.ExperienceScore},
		{"education", "education", r.EducationScore},
		{"format", "resume format", r.FormatScore},
	}
}

func (g *FeedbackGenerator) weakDimensions(r ATSResult) []dimension {
	weak := []dimension{}
	for _, d := range dimensions(r) {
		if d.score < g.threshold {
			weak = append(weak, d)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool { return weak[i].score < weak[j].score })
	return weak
}

// Generate builds feedback for result. RejectionReasons and
// ImprovementRecommendations are never empty.
func (g *FeedbackGenerator) Generate(result ATSResult, resume ResumeData, job JobRequirement) RejectionFeedback {
	match := MatchSkills(resume.Skills, job.RequiredSkills, job.PreferredSkills)
	presentKW, missingKW := KeywordPresence(JobKeywords(job), resume.RawText)
	format := CheckFormat(resume.RawText)
	weak := g.weakDimensions(result)

	ctx := feedbackContext{
		result:    result,
		resume:    resume,
		job:       job,
		match:     match,
		presentKW: presentKW,
		missingKW: missingKW,
		format:    format,
	}

	weakInput := make([]recommendations.Dimension, 0, len(weak))
	for _, d := range weak {
		weakInput = append(weakInput, recommendations.Dimension{Key: d.key, Label: d.label, Score: d.score})
	}
	recs := recommendations.Generate(recommendations.Input{
		MissingCriticalSkills:  match.MissingRequired,
		MissingPreferredSkills: match.MissingPreferred,
		MissingKeywords:        missingKW,
		WeakDimensions:         weakInput,
		FormatIssues:           formatIssues(format),
		RequiredEducation:      job.EducationLevel,
		RequiredYears:          job.RequiredYears(),
	})

	return RejectionFeedback{
		CandidateID:                result.CandidateID,
		ATSScore:                   result.ATSScore,
		MinimumRequiredScore:       job.MinimumScore(),
		RejectionReasons:           ctx.reasons(weak),
		MissingCriticalSkills:      append([]string{}, match.MissingRequired...),
		ResumeStrengths:            ctx.strengths(),
		ResumeWeaknesses:           ctx.weaknesses(weak),
		ImprovementRecommendations: recommendations.Actions(recs),
		FormatIssues:               formatIssues(format),
		MistakeHighlights:          ctx.mistakes(),
	}
}

type feedbackContext struct {
	result    ATSResult
	resume    ResumeData
	job       JobRequirement
	match     SkillMatch
	presentKW []string
	missingKW []string
	format    FormatCheck
}

func (c feedbackContext) reasons(weak []dimension) []string {
	out := make([]string, 0, len(weak)+1)
	for _, d := range weak {
		switch d.key {
		case "skill":
			if len(c.match.MissingRequired) > 0 {
				out = append(out, fmt.Sprintf("Low skill match (%.2f/100): missing required skills %s", d.score, strings.Join(c.match.MissingRequired, ", ")))
			} else {
				out = append(out, fmt.Sprintf("Low skill match (%.2f/100)", d.score))
			}
		case "keyword":
			if len(c.missingKW) > 0 {
				out = append(out, fmt.Sprintf("Resume lacks job keywords (%.2f/100): missing %s", d.score, strings.Join(limit(c.missingKW, 5), ", ")))
			} else {
				out = append(out, fmt.Sprintf("Resume lacks job keywords (%.2f/100)", d.score))
			}
		case "experience":
			out = append(out, fmt.Sprintf("Insufficient experience (%.2f/100): %.1f years found, %d required",
				d.score, TotalExperienceYears(c.resume.Experience), c.job.RequiredYears()))
		case "education":
			out = append(out, fmt.Sprintf("Education below requirement (%.2f/100): %s required", d.score, strings.TrimSpace(c.job.EducationLevel)))
		case "format":
			out = append(out, fmt.Sprintf("Weak resume structure (%.2f/100)", d.score))
		}
	}
	out = append(out, fmt.Sprintf("Overall ATS score %.2f is below the minimum required %.2f", c.result.ATSScore, c.job.MinimumScore()))
	return out
}

func (c feedbackContext) strengths() []string {
	out := []string{}
	if len(c.match.MatchedRequired) > 0 {
		out = append(out, "Matches required skills: "+strings.Join(limit(c.match.MatchedRequired, 5), ", "))
	}
	if len(c.presentKW) > 0 {
		out = append(out, "Resume includes relevant keywords: "+strings.Join(limit(c.presentKW, 5), ", "))
	}
	lower := strings.ToLower(c.resume.RawText)
	if strings.Contains(lower, "project") || strings.Contains(lower, "experience") {
		out = append(out, "Resume includes project/experience details")
	}
	if c.format.HasLinks {
		out = append(out, "Includes links to professional profiles or portfolio")
	}
	if certs := nonEmpty(c.resume.Certifications); len(certs) > 0 {
		out = append(out, "Lists certifications: "+strings.Join(limit(certs, 3), ", "))
	}
	for _, d := range dimensions(c.result) {
		if d.score >= strongScore {
			out = append(out, fmt.Sprintf("Strong %s (%.2f/100)", d.label, d.score))
		}
	}
	if len(out) == 0 {
		out = append(out, "Resume has basic structure")
	}
	return out
}

func (c feedbackContext) weaknesses(weak []dimension) []string {
	out := []string{}
	for _, d := range weak {
		out = append(out, fmt.Sprintf("Weak %s (%.2f/100)", d.label, d.score))
	}
	if len(c.missingKW) > 0 {
		out = append(out, "Missing important keywords: "+strings.Join(limit(c.missingKW, 5), ", "))
	}
	if !c.format.LongEnough {
		out = append(out, "Resume is too short - add more details about projects and experience")
	}
	if !quantifiedPattern.MatchString(c.resume.RawText) {
		out = append(out, "Consider adding quantified achievements and metrics")
	}
	if len(out) == 0 {
		out = append(out, "Overall ATS score is below the required minimum")
	}
	return out
}

func (c feedbackContext) mistakes() []string {
	out := []string{}
	text := c.resume.RawText
	if strings.TrimSpace(text) == "" {
		return append(out, "Resume text is empty or could not be read")
	}
	if strings.TrimSpace(c.resume.Email) == "" && !emailPattern.MatchString(text) {
		out = append(out, "No email address found")
	}
	if strings.TrimSpace(c.resume.Phone) == "" && !phonePattern.MatchString(text) {
		out = append(out, "No phone number found")
	}
	if !quantifiedPattern.MatchString(text) {
		out = append(out, "Achievements are not quantified with numbers or percentages")
	}
	for _, skill := range c.match.MissingRequired {
		out = append(out, fmt.Sprintf("Required skill %q is not mentioned", skill))
	}
	return out
}

func formatIssues(f FormatCheck) []string {
	out := []string{}
	if !f.HasExperience {
		out = append(out, "Missing an Experience section")
	}
	if !f.HasEducation {
		out = append(out, "Missing an Education section")
	}
	if !f.HasSections {
		out = append(out, "Missing a Skills or Projects section")
	}
	if !f.HasLinks {
		out = append(out, "No GitHub, LinkedIn or portfolio link")
	}
	if !f.LongEnough {
		out = append(out, "Resume text is too short")
	}
	return out
}

func limit(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func nonEmpty(items []string) []string {
	out := []string{}
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
