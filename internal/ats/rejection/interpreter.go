// Package rejection turns free-form company rejection feedback into a
// student-facing explanation. Every output is a fixed table lookup.
package rejection

import (
	"fmt"
	"strings"

	"placement-ats/internal/ats"
)

// Interpreter classifies rejection feedback. The zero value is ready to use and
// safe for concurrent use.
type Interpreter struct{}

// New returns an Interpreter.
func New() *Interpreter {
	return &Interpreter{}
}

// Categorize returns the category with the most matched patterns. Ties go to
// the category declared first; no matches yield General.
func Categorize(text string) Category {
	lower := strings.ToLower(text)
	best, bestScore := General, 0
	for _, c := range Categories {
		score := 0
		for _, p := range patterns[c] {
			if strings.Contains(lower, p) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// Interpret explains feedback for a student who applied to jobTitle. Empty
// feedback yields the default response rather than an error. Next steps are a
// fixed list per category; studentSkills does not change them.
func (i *Interpreter) Interpret(text, jobTitle string, studentSkills []string) ats.RejectionInterpretation {
	if strings.TrimSpace(text) == "" {
		return ats.RejectionInterpretation{
			RejectionCategory:          string(General),
			StudentFriendlyExplanation: withTitle(emptyFeedbackExplanation, jobTitle),
			ImprovementSuggestions:     clone(emptyFeedbackSuggestions),
			MotivationalMessage:        emptyFeedbackMotivation,
			NextSteps:                  clone(emptyFeedbackNextSteps),
			RawFeedback:                NoFeedbackProvided,
		}
	}

	category := Categorize(text)
	return ats.RejectionInterpretation{
		RejectionCategory:          string(category),
		StudentFriendlyExplanation: withTitle(explanations[category], jobTitle),
		ImprovementSuggestions:     clone(lookup(suggestions, category, defaultSuggestions)),
		MotivationalMessage:        motivationFor(category),
		NextSteps:                  clone(lookup(nextSteps, category, defaultNextSteps)),
		RawFeedback:                text,
	}
}

func motivationFor(c Category) string {
	if msg, ok := motivation[c]; ok {
		return msg
	}
	return motivation[General]
}

// withTitle fills template with the job title and collapses the gap an empty
// title leaves behind.
func withTitle(template, jobTitle string) string {
	return strings.Join(strings.Fields(fmt.Sprintf(template, strings.TrimSpace(jobTitle))), " ")
}

func lookup(table map[Category][]string, c Category, fallback []string) []string {
	if v, ok := table[c]; ok {
		return v
	}
	return fallback
}

func clone(in []string) []string {
	return append([]string{}, in...)
}
