// Package resumeparse turns plain resume text into ats.ResumeData using
// line-oriented heuristics.
package resumeparse

import (
	"regexp"
	"strings"
	"unicode"

	"placement-ats/internal/ats"
)

// skillVocabulary is matched on token boundaries. Entries of two characters or
// fewer ("Go", "R") are case-sensitive; the rest are not.
var skillVocabulary = []string{
	"Python", "Java", "JavaScript", "TypeScript", "Go", "Golang", "C++", "C#", "Rust", "Kotlin", "Swift", "PHP", "Ruby", "Scala", "R",
	"React", "Angular", "Vue", "Node.js", "Express", "Next.js", "Django", "Flask", "FastAPI", "Spring Boot", ".NET",
	"HTML", "CSS", "Tailwind", "SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "SQLite", "Elasticsearch",
	"Docker", "Kubernetes", "AWS", "Azure", "GCP", "Terraform", "Linux", "Git", "CI/CD", "Jenkins",
	"REST API", "GraphQL", "gRPC", "Kafka", "RabbitMQ", "Microservices",
	"Machine Learning", "Deep Learning", "TensorFlow", "PyTorch", "Scikit-learn", "NLP", "Pandas", "NumPy",
	"Data Analysis", "Excel", "Tableau", "Power BI", "Agile", "Scrum", "DevOps",
}

var skillPatterns = compileSkills(skillVocabulary)

func compileSkills(skills []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(skills))
	for i, s := range skills {
		flags := "(?i)"
		if len(s) <= 2 {
			flags = ""
		}
		out[i] = regexp.MustCompile(flags + `(?:^|[^A-Za-z0-9+#.])` + regexp.QuoteMeta(s) + `(?:$|[^A-Za-z0-9+#])`)
	}
	return out
}

var (
	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern  = regexp.MustCompile(`\+?\d[\d\s\-()]{8,}\d`)
	yearPattern   = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	periodPattern = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*\+?\s*(?:years?|yrs?|months?|mos?)\b`)
)

type section int

const (
	sectionNone section = iota
	sectionSummary
	sectionSkills
	sectionExperience
	sectionEducation
	sectionProjects
	sectionCertifications
	sectionOther
)

var headings = map[string]section{
	"summary":           sectionSummary,
	"profile":           sectionSummary,
	"objective":         sectionSummary,
	"skills":            sectionSkills,
	"technical skills":  sectionSkills,
	"experience":        sectionExperience,
	"work experience":   sectionExperience,
	"internships":       sectionExperience,
	"education":         sectionEducation,
	"projects":          sectionProjects,
	"academic projects": sectionProjects,
	"certifications":    sectionCertifications,
	"certificates":      sectionCertifications,
	"achievements":      sectionOther,
	"hobbies":           sectionOther,
	"interests":         sectionOther,
	"languages":         sectionOther,
	"contact":           sectionOther,
	"extracurriculars":  sectionOther,
}

// Parse extracts structured resume fields from text. It never fails; fields it
// cannot find are left empty. RawText is always the input text.
func Parse(text string) ats.ResumeData {
	out := ats.ResumeData{
		Skills:         []string{},
		Education:      []ats.Education{},
		Experience:     []ats.Experience{},
		Certifications: []string{},
		Projects:       []ats.Project{},
		RawText:        text,
	}
	if strings.TrimSpace(text) == "" {
		return out
	}

	out.Email = emailPattern.FindString(text)
	out.Phone = strings.TrimSpace(phonePattern.FindString(text))
	out.Skills = FindSkills(text)

	current := sectionNone
	for _, raw := range strings.Split(text, "\n") {
		line := cleanLine(raw)
		if line == "" {
			continue
		}
		if sec, ok := heading(line); ok {
			current = sec
			continue
		}
		if out.Name == "" && current == sectionNone && looksLikeName(line) {
			out.Name = line
			continue
		}

		switch {
		case current == sectionCertifications || isCertification(line):
			out.Certifications = append(out.Certifications, line)
		case current == sectionProjects:
			out.Projects = append(out.Projects, parseProject(line))
		case educationAllowed(current) && ats.ParseEducationRank(line) != ats.EducationNone:
			out.Education = append(out.Education, ats.Education{
				Degree: line,
				Level:  ats.ParseEducationRank(line).String(),
				Year:   lastYear(line),
			})
		case experienceAllowed(current):
			if period := periodPattern.FindString(line); period != "" {
				out.Experience = append(out.Experience, ats.Experience{
					Title:    strings.Trim(strings.TrimSpace(strings.Replace(line, period, "", 1)), ",;:-() "),
					Duration: period,
					Years:    ats.ParseDurationYears(period),
				})
			}
		}
	}
	return out
}

// FindSkills returns vocabulary skills mentioned in text, in vocabulary order.
func FindSkills(text string) []string {
	out := []string{}
	for i, re := range skillPatterns {
		if re.MatchString(text) {
			out = append(out, skillVocabulary[i])
		}
	}
	return out
}

func educationAllowed(s section) bool {
	return s == sectionNone || s == sectionEducation || s == sectionOther
}

func experienceAllowed(s section) bool {
	return s == sectionNone || s == sectionExperience || s == sectionSummary
}

func cleanLine(raw string) string {
	line := strings.TrimSpace(raw)
	line = strings.TrimLeftFunc(line, func(r rune) bool {
		return r == '-' || r == '*' || r == '•' || r == '·' || r == '▪' || unicode.IsSpace(r)
	})
	return strings.TrimSpace(line)
}

func heading(line string) (section, bool) {
	key := strings.ToLower(strings.TrimRight(strings.TrimSpace(line), ":"))
	s, ok := headings[key]
	return s, ok
}

func looksLikeName(line string) bool {
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		for _, r := range w {
			if !unicode.IsLetter(r) && r != '.' && r != '\'' && r != '-' {
				return false
			}
		}
		if !unicode.IsUpper([]rune(w)[0]) {
			return false
		}
	}
	return true
}

func lastYear(line string) string {
	years := yearPattern.FindAllString(line, -1)
	if len(years) == 0 {
		return ""
	}
	return years[len(years)-1]
}

func isCertification(line string) bool {
	l := strings.ToLower(line)
	return strings.Contains(l, "certified") || strings.Contains(l, "certification")
}

func parseProject(line string) ats.Project {
	p := ats.Project{Name: line, Technologies: FindSkills(line)}
	for _, sep := range []string{": ", " - ", " – ", " | "} {
		if idx := strings.Index(line, sep); idx > 0 {
			p.Name = strings.TrimSpace(line[:idx])
			p.Description = strings.TrimSpace(line[idx+len(sep):])
			break
		}
	}
	return p
}
