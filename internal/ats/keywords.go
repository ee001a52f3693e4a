package ats

import (
	"regexp"
	"strings"
)

// MaxKeywords bounds the size of an extracted keyword set.
const MaxKeywords = 15

// techVocabulary is matched as case-insensitive substrings, in this order.
var techVocabulary = []string{
	"Python", "Java", "JavaScript", "TypeScript", "React", "Node.js",
	"Django", "Flask", "Spring Boot", "SQL", "PostgreSQL", "MongoDB",
	"Docker", "Kubernetes", "AWS", "Azure", "REST API", "GraphQL",
	"Machine Learning", "TensorFlow", "PyTorch", "Git", "CI/CD",
	"Microservices", "Agile", "Scrum", "DevOps", "Data Analysis",
	"Pandas", "NumPy", "Excel", "Tableau", "Power BI",
}

// capitalizedPhrase is deliberately loose: sentence-initial words such as
// "The" or "Worked" are picked up too. Stored evaluations depend on this
// behaviour, so it is not tightened.
var capitalizedPhrase = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`)

// ExtractKeywords returns at most MaxKeywords keywords found in text: vocabulary
// terms first, then capitalized phrases. Duplicates are removed
// case-insensitively, keeping the first spelling seen.
func ExtractKeywords(text string) []string {
	out := []string{}
	if strings.TrimSpace(text) == "" {
		return out
	}
	seen := make(map[string]bool)
	add := func(kw string) bool {
		key := strings.ToLower(kw)
		if seen[key] {
			return len(out) < MaxKeywords
		}
		seen[key] = true
		out = append(out, kw)
		return len(out) < MaxKeywords
	}

	lower := strings.ToLower(text)
	for _, term := range techVocabulary {
		if strings.Contains(lower, strings.ToLower(term)) {
			if !add(term) {
				return out
			}
		}
	}
	for _, m := range capitalizedPhrase.FindAllStringSubmatch(text, -1) {
		phrase := strings.TrimSpace(m[1])
		if len(phrase) <= 2 {
			continue
		}
		if !add(phrase) {
			return out
		}
	}
	return out
}

// containsFold reports whether keywords holds kw, ignoring case.
func containsFold(keywords []string, kw string) bool {
	for _, k := range keywords {
		if strings.EqualFold(k, kw) {
			return true
		}
	}
	return false
}
