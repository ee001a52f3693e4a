package recommendations

import (
	"sort"
	"strings"
	"unicode"
)

// maxRanked caps the ranked recommendations; baseline advice is appended after.
const maxRanked = 6

// Generate builds deterministic recommendations: ranked, deduplicated findings
// followed by baseline resume-writing advice. The result always has at least
// two entries.
func Generate(input Input) []Recommendation {
	candidates := make([]Recommendation, 0, 16)
	mappers := []func(Input) []Recommendation{
		fromMissingCriticalSkills,
		fromMissingKeywords,
		fromWeakDimensions,
		fromMissingPreferredSkills,
		fromFormatIssues,
	}
	for _, mapper := range mappers {
		candidates = append(candidates, mapper(input)...)
	}

	ranked := dedupe(candidates)
	sortRecommendations(ranked)
	if len(ranked) > maxRanked {
		ranked = ranked[:maxRanked]
	}
	out := append(ranked, baseline()...)
	out = dedupe(out)
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// Actions renders recommendations as their action text, in order.
func Actions(recs []Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		if action := strings.TrimSpace(r.Action); action != "" {
			out = append(out, action)
		}
	}
	return out
}

func severityRank(value string) int {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "critical":
		return 3
	case "warning":
		return 2
	default:
		return 1
	}
}

func impactRank(value string) int {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "high":
		return 3
	case "medium":
		return 2
	default:
		return 1
	}
}

func categoryRank(value string) int {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "SKILLS":
		return 6
	case "ATS":
		return 5
	case "EXPERIENCE":
		return 4
	case "EDUCATION":
		return 3
	case "STRUCTURE":
		return 2
	case "FORMATTING":
		return 1
	default:
		return 0
	}
}

func slugify(input string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "item"
	}
	return out
}

func dedupe(items []Recommendation) []Recommendation {
	seen := make(map[string]bool, len(items))
	out := make([]Recommendation, 0, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, item)
	}
	return out
}

func sortRecommendations(items []Recommendation) {
	sort.SliceStable(items, func(i, j int) bool {
		a := items[i]
		b := items[j]
		if severityRank(a.Severity) != severityRank(b.Severity) {
			return severityRank(a.Severity) > severityRank(b.Severity)
		}
		if impactRank(a.Impact) != impactRank(b.Impact) {
			return impactRank(a.Impact) > impactRank(b.Impact)
		}
		if categoryRank(a.Category) != categoryRank(b.Category) {
			return categoryRank(a.Category) > categoryRank(b.Category)
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})
}

// uniqueStrings trims, drops empties and removes case-insensitive duplicates,
// keeping input order.
func uniqueStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
