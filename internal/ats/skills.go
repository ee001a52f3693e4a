package ats

import "strings"

// SkillMatch is the outcome of comparing candidate skills to a job's skill lists.
type SkillMatch struct {
	Matched          []string
	Missing          []string
	MatchedRequired  []string
	MissingRequired  []string
	MatchedPreferred []string
	MissingPreferred []string
	// MatchRatio is matched required / total required, 1.0 when nothing is required.
	MatchRatio float64
	// PreferredRatio is matched preferred / total preferred, 1.0 when nothing is preferred.
	PreferredRatio float64
}

// MatchSkills compares candidate skills against required and preferred skills.
// A job skill matches when it equals, contains, or is contained in any
// normalized candidate skill. Output order follows required then preferred input order.
func MatchSkills(candidate, required, preferred []string) SkillMatch {
	normalized := normalizeSkills(candidate)
	out := SkillMatch{
		Matched:          []string{},
		Missing:          []string{},
		MatchedRequired:  []string{},
		MissingRequired:  []string{},
		MatchedPreferred: []string{},
		MissingPreferred: []string{},
	}

	seen := make(map[string]bool, len(required)+len(preferred))
	reqTotal, prefTotal := 0, 0
	for _, skill := range required {
		key := normalizeSkill(skill)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		reqTotal++
		if skillPresent(key, normalized) {
			out.MatchedRequired = append(out.MatchedRequired, strings.TrimSpace(skill))
		} else {
			out.MissingRequired = append(out.MissingRequired, strings.TrimSpace(skill))
		}
	}
	for _, skill := range preferred {
		key := normalizeSkill(skill)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		prefTotal++
		if skillPresent(key, normalized) {
			out.MatchedPreferred = append(out.MatchedPreferred, strings.TrimSpace(skill))
		} else {
			out.MissingPreferred = append(out.MissingPreferred, strings.TrimSpace(skill))
		}
	}

	out.Matched = append(append(out.Matched, out.MatchedRequired...), out.MatchedPreferred...)
	out.Missing = append(append(out.Missing, out.MissingRequired...), out.MissingPreferred...)
	out.MatchRatio = ratio(len(out.MatchedRequired), reqTotal)
	out.PreferredRatio = ratio(len(out.MatchedPreferred), prefTotal)
	return out
}

func ratio(matched, total int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(matched) / float64(total)
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeSkills drops empty entries; an empty candidate skill would otherwise
// be a substring of every job skill.
func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if n := normalizeSkill(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func skillPresent(jobSkill string, candidate []string) bool {
	for _, c := range candidate {
		if strings.Contains(c, jobSkill) || strings.Contains(jobSkill, c) {
			return true
		}
	}
	return false
}
