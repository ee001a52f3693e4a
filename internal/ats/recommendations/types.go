package recommendations

// Recommendation is a single ranked improvement suggestion.
type Recommendation struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Action   string `json:"action"`
	Impact   string `json:"impact"`
	Order    int    `json:"order"`
}

// Dimension is a scoring component that fell below its threshold.
type Dimension struct {
	Key   string
	Label string
	Score float64
}

// Input is everything the engine needs to build recommendations for a rejected resume.
type Input struct {
	MissingCriticalSkills  []string
	MissingPreferredSkills []string
	MissingKeywords        []string
	WeakDimensions         []Dimension
	FormatIssues           []string
	RequiredEducation      string
	RequiredYears          int
}
