package recommendations

import (
	"fmt"
	"strings"
)

func fromMissingCriticalSkills(in Input) []Recommendation {
	skills := uniqueStrings(in.MissingCriticalSkills)
	if len(skills) == 0 {
		return nil
	}
	return []Recommendation{{
		ID:       "SKILLS_MISSING_REQUIRED",
		Category: "SKILLS",
		Severity: "critical",
		Title:    "Add missing required skills",
		Action:   "Highlight or add projects demonstrating: " + strings.Join(firstN(skills, 3), ", "),
		Impact:   "high",
	}}
}

func fromMissingPreferredSkills(in Input) []Recommendation {
	skills := uniqueStrings(in.MissingPreferredSkills)
	if len(skills) == 0 {
		return nil
	}
	return []Recommendation{{
		ID:       "SKILLS_MISSING_PREFERRED",
		Category: "SKILLS",
		Severity: "info",
		Title:    "Show preferred skills",
		Action:   "Strengthen your profile with preferred skills: " + strings.Join(firstN(skills, 3), ", "),
		Impact:   "medium",
	}}
}

func fromMissingKeywords(in Input) []Recommendation {
	keywords := uniqueStrings(in.MissingKeywords)
	if len(keywords) == 0 {
		return nil
	}
	return []Recommendation{{
		ID:       "ATS_MISSING_JD_KEYWORDS",
		Category: "ATS",
		Severity: "warning",
		Title:    "Add missing job keywords",
		Action:   "Add these keywords naturally: " + strings.Join(firstN(keywords, 5), ", "),
		Impact:   "high",
	}}
}

func fromWeakDimensions(in Input) []Recommendation {
	out := make([]Recommendation, 0, len(in.WeakDimensions))
	for _, d := range in.WeakDimensions {
		var rec Recommendation
		switch d.Key {
		case "experience":
			action := "Add internships, freelance work or substantial projects with their durations to show relevant experience."
			if in.RequiredYears > 0 {
				action = fmt.Sprintf("Show at least %d year(s) of relevant experience: list internships, freelance work and projects with their durations.", in.RequiredYears)
			}
			rec = Recommendation{Category: "EXPERIENCE", Title: "Demonstrate relevant experience", Action: action, Impact: "medium"}
		case "education":
			action := "List your highest qualification clearly with degree, institution and year."
			if strings.TrimSpace(in.RequiredEducation) != "" {
				action = fmt.Sprintf("List your highest qualification clearly; this role expects %s level education.", strings.TrimSpace(in.RequiredEducation))
			}
			rec = Recommendation{Category: "EDUCATION", Title: "Clarify education", Action: action, Impact: "low"}
		case "format":
			rec = Recommendation{Category: "STRUCTURE", Title: "Improve resume structure", Action: "Use standard section headings (Experience, Education, Skills, Projects) so ATS parsers can read your resume.", Impact: "medium"}
		default:
			// skill and keyword gaps have dedicated mappers
			continue
		}
		rec.ID = "DIMENSION_" + slugify(d.Key)
		rec.Severity = "warning"
		out = append(out, rec)
	}
	return out
}

func fromFormatIssues(in Input) []Recommendation {
	issues := uniqueStrings(in.FormatIssues)
	out := make([]Recommendation, 0, len(issues))
	for _, issue := range issues {
		out = append(out, Recommendation{
			ID:       "FORMAT_" + slugify(issue),
			Category: "FORMATTING",
			Severity: "info",
			Title:    issue,
			Action:   "Fix: " + issue,
			Impact:   "low",
		})
	}
	return out
}

func baseline() []Recommendation {
	return []Recommendation{
		{
			ID:       "BASE_ACTION_VERBS",
			Category: "EXPERIENCE",
			Severity: "info",
			Title:    "Use action verbs",
			Action:   "Use action verbs: 'Developed', 'Implemented', 'Optimized', 'Designed'",
			Impact:   "low",
		},
		{
			ID:       "BASE_QUANTIFY",
			Category: "EXPERIENCE",
			Severity: "info",
			Title:    "Quantify achievements",
			Action:   "Quantify achievements: 'Improved performance by 30%', 'Handled 1000+ requests/day'",
			Impact:   "low",
		},
		{
			ID:       "BASE_CERTIFICATIONS",
			Category: "EDUCATION",
			Severity: "info",
			Title:    "List certifications",
			Action:   "Include relevant certifications and courses in Education section",
			Impact:   "low",
		},
	}
}
