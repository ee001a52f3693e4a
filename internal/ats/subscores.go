package ats

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// NeutralKeywordScore is used when a job gives nothing to match keywords against.
	NeutralKeywordScore = 75.0
	// PreferredSkillWeight is the weight of a preferred skill relative to a required one.
	PreferredSkillWeight = 0.3
	// educationPartialCredit scales the score of a resume below the required level.
	educationPartialCredit = 70.0
	// shortResumeChars is the minimum raw text length treated as a complete resume.
	shortResumeChars = 200
)

// Format score increments. formatBase plus every bonus equals 100.
const (
	formatBase            = 40.0
	formatExperienceBonus = 15.0
	formatEducationBonus  = 15.0
	formatSectionsBonus   = 10.0
	formatLinksBonus      = 10.0
	formatLengthBonus     = 10.0
)

// EducationRank orders education levels.
type EducationRank int

const (
	EducationNone EducationRank = iota
	EducationHighSchool
	EducationDiploma
	EducationBachelor
	EducationMaster
	EducationDoctorate
)

func (r EducationRank) String() string {
	switch r {
	case EducationHighSchool:
		return "high_school"
	case EducationDiploma:
		return "diploma"
	case EducationBachelor:
		return "bachelor"
	case EducationMaster:
		return "master"
	case EducationDoctorate:
		return "doctorate"
	default:
		return "none"
	}
}

// educationMarkers is checked from the highest level down.
var educationMarkers = []struct {
	rank    EducationRank
	markers []string
}{
	{EducationDoctorate, []string{"phd", "ph.d", "doctorate", "doctoral", "doctor of"}},
	{EducationMaster, []string{"master", "m.tech", "mtech", "m.sc", "msc", "mba", "m.e.", "m.s.", "mca", "postgraduate", "post graduate"}},
	{EducationBachelor, []string{"bachelor", "b.tech", "btech", "b.e.", "b.sc", "bsc", "b.s.", "b.a.", "bca", "bba", "undergraduate"}},
	{EducationDiploma, []string{"diploma", "associate"}},
	{EducationHighSchool, []string{"high school", "secondary", "12th", "10th", "hsc", "ssc"}},
}

// ParseEducationRank maps a free-form degree or level string onto EducationRank.
// Unrecognised strings map to EducationNone.
func ParseEducationRank(level string) EducationRank {
	l := strings.ToLower(strings.TrimSpace(level))
	if l == "" {
		return EducationNone
	}
	for _, entry := range educationMarkers {
		for _, m := range entry.markers {
			if strings.Contains(l, m) {
				return entry.rank
			}
		}
	}
	return EducationNone
}

// HighestEducation returns the highest rank among the resume's education entries.
func HighestEducation(entries []Education) EducationRank {
	best := EducationNone
	for _, e := range entries {
		rank := ParseEducationRank(e.Level)
		if degree := ParseEducationRank(e.Degree); degree > rank {
			rank = degree
		}
		if rank > best {
			best = rank
		}
	}
	return best
}

// SkillScore weighs preferred skills at PreferredSkillWeight of a required skill.
func SkillScore(m SkillMatch) float64 {
	req := float64(len(m.MatchedRequired) + len(m.MissingRequired))
	if req == 0 {
		return 100.0
	}
	pref := float64(len(m.MatchedPreferred) + len(m.MissingPreferred))
	matched := float64(len(m.MatchedRequired)) + PreferredSkillWeight*float64(len(m.MatchedPreferred))
	return clampScore(100.0 * matched / (req + PreferredSkillWeight*pref))
}

// JobKeywords is the keyword target for a job: explicit keywords plus those
// extracted from the description.
func JobKeywords(job JobRequirement) []string {
	out := []string{}
	seen := make(map[string]bool)
	add := func(kw string) {
		kw = strings.TrimSpace(kw)
		key := strings.ToLower(kw)
		if kw == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, kw)
	}
	for _, kw := range job.Keywords {
		add(kw)
	}
	for _, kw := range ExtractKeywords(job.JobDescription) {
		add(kw)
	}
	return out
}

// KeywordPresence splits target keywords into those present in and missing from the resume.
func KeywordPresence(target []string, rawText string) (present, missing []string) {
	present, missing = []string{}, []string{}
	resumeKeywords := ExtractKeywords(rawText)
	lower := strings.ToLower(rawText)
	for _, kw := range target {
		if containsFold(resumeKeywords, kw) || strings.Contains(lower, strings.ToLower(kw)) {
			present = append(present, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	return present, missing
}

// KeywordScore is the share of the job's keywords found in the resume text.
func KeywordScore(job JobRequirement, rawText string) float64 {
	target := JobKeywords(job)
	if len(target) == 0 {
		return NeutralKeywordScore
	}
	present, _ := KeywordPresence(target, rawText)
	return clampScore(100.0 * float64(len(present)) / float64(len(target)))
}

// EducationScore compares the resume's highest level with the required level.
// Below the requirement, credit grows linearly with the resume level.
func EducationScore(entries []Education, requiredLevel string) float64 {
	required := ParseEducationRank(requiredLevel)
	if required == EducationNone {
		return 100.0
	}
	have := HighestEducation(entries)
	if have >= required {
		return 100.0
	}
	return clampScore(educationPartialCredit * float64(have) / float64(required))
}

var (
	yearsPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+?\s*(?:years?|yrs?)\b`)
	monthsPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+?\s*(?:months?|mos?)\b`)
)

// ParseDurationYears reads phrases like "2 years 6 months" or "18 months".
func ParseDurationYears(duration string) float64 {
	d := strings.ToLower(duration)
	total := 0.0
	for _, m := range yearsPattern.FindAllStringSubmatch(d, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			total += v
		}
	}
	for _, m := range monthsPattern.FindAllStringSubmatch(d, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			total += v / 12.0
		}
	}
	return total
}

// TotalExperienceYears sums experience across entries.
func TotalExperienceYears(entries []Experience) float64 {
	total := 0.0
	for _, e := range entries {
		if e.Years > 0 {
			total += e.Years
			continue
		}
		total += ParseDurationYears(e.Duration)
	}
	return total
}

// ExperienceScore gives proportional credit below the required years.
func ExperienceScore(entries []Experience, requiredYears int) float64 {
	if requiredYears <= 0 {
		return 100.0
	}
	return clampScore(100.0 * TotalExperienceYears(entries) / float64(requiredYears))
}

// FormatCheck records which structural signals a resume has.
type FormatCheck struct {
	HasExperience bool
	HasEducation  bool
	HasSections   bool
	HasLinks      bool
	LongEnough    bool
}

// CheckFormat inspects raw resume text for structural signals.
func CheckFormat(rawText string) FormatCheck {
	lower := strings.ToLower(rawText)
	return FormatCheck{
		HasExperience: strings.Contains(lower, "experience"),
		HasEducation:  strings.Contains(lower, "education"),
		HasSections:   strings.Contains(lower, "skills") || strings.Contains(lower, "projects"),
		HasLinks:      strings.Contains(lower, "github") || strings.Contains(lower, "linkedin") || strings.Contains(lower, "portfolio"),
		LongEnough:    len(strings.TrimSpace(rawText)) >= shortResumeChars,
	}
}

// Score converts the check into the format sub-score.
func (f FormatCheck) Score() float64 {
	score := formatBase
	if f.HasExperience {
		score += formatExperienceBonus
	}
	if f.HasEducation {
		score += formatEducationBonus
	}
	if f.HasSections {
		score += formatSectionsBonus
	}
	if f.HasLinks {
		score += formatLinksBonus
	}
	if f.LongEnough {
		score += formatLengthBonus
	}
	return clampScore(score)
}

// FormatScore is CheckFormat(rawText).Score().
func FormatScore(rawText string) float64 {
	return CheckFormat(rawText).Score()
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
