// Package skillgap compares a student's skills with a job's and suggests how
// to close the gap.
package skillgap

import (
	"fmt"
	"math"
	"strings"

	"placement-ats/internal/ats"
)

const (
	maxRecommendations = 10
	// DirectApplyRatio is the share of required skills that makes a student
	// eligible to apply directly.
	DirectApplyRatio = 0.85

	StatusDirectApply = "Direct Apply Eligible"
	StatusRecommended = "Recommended"
)

// Recommendation suggests certifications for one missing skill.
type Recommendation struct {
	Skill                     string   `json:"skill"`
	RecommendedCertifications []string `json:"recommended_certifications"`
	EstimatedTime             string   `json:"estimated_time"`
	Priority                  string   `json:"priority"`
}

// Report is the outcome of a skill gap analysis.
type Report struct {
	MissingSkills       []string         `json:"missing_skills"`
	MatchedSkills       []string         `json:"matched_skills"`
	MatchPercentage     float64          `json:"match_percentage"`
	TotalRequiredSkills int              `json:"total_required_skills"`
	StudentSkillCount   int              `json:"student_skill_count"`
	Recommendations     []Recommendation `json:"recommendations"`
	LearningPath        []string         `json:"learning_path"`
	Explanation         string           `json:"explanation"`
}

// Status says whether a student can apply to a job directly.
type Status struct {
	Status        string   `json:"status"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	Message       string   `json:"message"`
}

// Analyzer is stateless and safe for concurrent use.
type Analyzer struct{}

// New returns an Analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze compares studentSkills with jobSkills. role selects an optional
// learning path such as "backend" or "Senior DevOps Engineer".
func (a *Analyzer) Analyze(studentSkills, jobSkills []string, role string) Report {
	match := ats.MatchSkills(studentSkills, jobSkills, nil)
	total := len(match.MatchedRequired) + len(match.MissingRequired)

	pct := 0.0
	if total > 0 {
		pct = math.Round(float64(len(match.MatchedRequired))/float64(total)*100*100) / 100
	}

	return Report{
		MissingSkills:       match.MissingRequired,
		MatchedSkills:       match.MatchedRequired,
		MatchPercentage:     pct,
		TotalRequiredSkills: total,
		StudentSkillCount:   len(studentSkills),
		Recommendations:     recommend(match.MissingRequired),
		LearningPath:        LearningPath(role),
		Explanation:         explain(match.MatchedRequired, match.MissingRequired, pct),
	}
}

func recommend(missing []string) []Recommendation {
	priority := "Medium"
	if len(missing) <= 3 {
		priority = "High"
	}
	out := make([]Recommendation, 0, maxRecommendations)
	for i, skill := range missing {
		if i == maxRecommendations {
			break
		}
		estimate := "4-8 weeks"
		if len(skill) < 10 {
			estimate = "2-4 weeks"
		}
		out = append(out, Recommendation{
			Skill:                     skill,
			RecommendedCertifications: CertificationsFor(skill),
			EstimatedTime:             estimate,
			Priority:                  priority,
		})
	}
	return out
}

// CertificationsFor returns known certifications for skill, or generic course
// suggestions when the skill is not catalogued.
func CertificationsFor(skill string) []string {
	key := strings.ToLower(strings.TrimSpace(skill))
	if key != "" {
		for _, e := range certifications {
			if e.skill == key {
				return append([]string{}, e.certs...)
			}
		}
		for _, e := range certifications {
			if strings.Contains(key, e.skill) || strings.Contains(e.skill, key) {
				return append([]string{}, e.certs...)
			}
		}
	}
	return []string{
		fmt.Sprintf("%s Certification Course", skill),
		fmt.Sprintf("Learn %s - Online Course", skill),
	}
}

// LearningPath returns the learning path for role, or nil when none applies.
func LearningPath(role string) []string {
	r := strings.ToLower(strings.TrimSpace(role))
	if r == "" {
		return nil
	}
	for _, p := range learningPaths {
		if strings.Contains(r, p.role) {
			return append([]string{}, p.steps...)
		}
	}
	return nil
}

func explain(matched, missing []string, pct float64) string {
	switch {
	case pct >= 85:
		return fmt.Sprintf("Excellent! You have %d out of %d required skills. You're well-prepared for this role.", len(matched), len(matched)+len(missing))
	case pct >= 50:
		return fmt.Sprintf("You have %d matching skills. Focus on learning %s to strengthen your profile.", len(matched), strings.Join(firstN(missing, 3), ", "))
	default:
		return fmt.Sprintf("You have %d matching skills. Consider building foundational skills: %s before applying.", len(matched), strings.Join(firstN(missing, 5), ", "))
	}
}

// ApplicationStatus decides between direct application and a recommendation.
// Skills are compared by case-insensitive equality.
func ApplicationStatus(studentSkills, requiredSkills []string) Status {
	if len(requiredSkills) == 0 {
		return Status{
			Status:        StatusRecommended,
			MatchedSkills: []string{},
			MissingSkills: []string{},
			Message:       "This job matches your search query!",
		}
	}

	have := make(map[string]bool, len(studentSkills))
	for _, s := range studentSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}
	matched, missing := []string{}, []string{}
	for _, r := range requiredSkills {
		if have[strings.ToLower(strings.TrimSpace(r))] {
			matched = append(matched, r)
		} else {
			missing = append(missing, r)
		}
	}

	ratio := float64(len(matched)) / float64(len(requiredSkills))
	out := Status{MatchedSkills: matched, MissingSkills: missing}
	switch {
	case ratio >= DirectApplyRatio:
		out.Status = StatusDirectApply
		out.Message = fmt.Sprintf("Perfect match! You have %d/%d required skills. This job is ready for direct application (with your consent).", len(matched), len(requiredSkills))
	case ratio >= 0.5:
		out.Status = StatusRecommended
		out.Message = fmt.Sprintf("You're close! You have %d/%d required skills. Learning %s could significantly improve your chances. Would you like to apply anyway?", len(matched), len(requiredSkills), strings.Join(firstN(missing, 3), ", "))
	default:
		out.Status = StatusRecommended
		out.Message = fmt.Sprintf("This role requires skills like %s. Consider building these skills first, or apply to gain experience!", strings.Join(firstN(missing, 3), ", "))
	}
	return out
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
