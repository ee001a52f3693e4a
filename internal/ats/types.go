package ats

// DefaultMinimumATSScore is applied when a job does not set its own threshold.
const DefaultMinimumATSScore = 50.0

// JobRequirement describes what a recruiter is screening for.
type JobRequirement struct {
	JobTitle          string   `json:"job_title"`
	RequiredSkills    []string `json:"required_skills"`
	PreferredSkills   []string `json:"preferred_skills"`
	EducationLevel    string   `json:"education_level,omitempty"`
	YearsOfExperience *int     `json:"years_of_experience,omitempty" validate:"omitempty,min=0"`
	JobDescription    string   `json:"job_description,omitempty"`
	Keywords          []string `json:"keywords"`
	MinimumATSScore   *float64 `json:"minimum_ats_score,omitempty" validate:"omitempty,min=0,max=100"`
}

// MinimumScore returns the pass threshold, falling back to DefaultMinimumATSScore.
func (j JobRequirement) MinimumScore() float64 {
	if j.MinimumATSScore == nil {
		return DefaultMinimumATSScore
	}
	return *j.MinimumATSScore
}

// RequiredYears returns the required experience in years, or 0 when unset.
func (j JobRequirement) RequiredYears() int {
	if j.YearsOfExperience == nil {
		return 0
	}
	return *j.YearsOfExperience
}

// Education is a single education entry from a parsed resume.
type Education struct {
	Degree      string `json:"degree,omitempty"`
	Level       string `json:"level,omitempty"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

// Experience is a single work experience entry from a parsed resume.
// Years takes precedence over Duration when positive.
type Experience struct {
	Title    string  `json:"title,omitempty"`
	Company  string  `json:"company,omitempty"`
	Duration string  `json:"duration,omitempty"`
	Years    float64 `json:"years,omitempty" validate:"gte=0"`
}

// Project is a project listed on a resume.
type Project struct {
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// ResumeData is the structured form of a candidate resume.
type ResumeData struct {
	Name           string       `json:"name,omitempty"`
	Email          string       `json:"email,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Skills         []string     `json:"skills"`
	Education      []Education  `json:"education"`
	Experience     []Experience `json:"experience" validate:"dive"`
	Certifications []string     `json:"certifications"`
	Projects       []Project    `json:"projects"`
	RawText        string       `json:"raw_text"`
}

// ATSResult is the scored outcome of one resume against one job.
type ATSResult struct {
	CandidateID       string   `json:"candidate_id"`
	ATSScore          float64  `json:"ats_score"`
	Passed            bool     `json:"passed"`
	SkillMatchScore   float64  `json:"skill_match_score"`
	EducationScore    float64  `json:"education_score"`
	ExperienceScore   float64  `json:"experience_score"`
	KeywordMatchScore float64  `json:"keyword_match_score"`
	FormatScore       float64  `json:"format_score"`
	MatchedSkills     []string `json:"matched_skills"`
	MissingSkills     []string `json:"missing_skills"`
	Recommendations   []string `json:"recommendations"`
}

// WithRecommendations returns a copy of r carrying the given recommendations.
func (r ATSResult) WithRecommendations(recs []string) ATSResult {
	out := r
	out.MatchedSkills = append([]string{}, r.MatchedSkills...)
	out.MissingSkills = append([]string{}, r.MissingSkills...)
	out.Recommendations = append([]string{}, recs...)
	return out
}

// RejectionFeedback explains a failing ATSResult to the candidate.
type RejectionFeedback struct {
	CandidateID                string   `json:"candidate_id"`
	ATSScore                   float64  `json:"ats_score"`
	MinimumRequiredScore       float64  `json:"minimum_required_score"`
	RejectionReasons           []string `json:"rejection_reasons"`
	MissingCriticalSkills      []string `json:"missing_critical_skills"`
	ResumeStrengths            []string `json:"resume_strengths"`
	ResumeWeaknesses           []string `json:"resume_weaknesses"`
	ImprovementRecommendations []string `json:"improvement_recommendations"`
	FormatIssues               []string `json:"format_issues"`
	MistakeHighlights          []string `json:"mistake_highlights"`
}

// RejectionInterpretation is the student-facing reading of company feedback.
type RejectionInterpretation struct {
	RejectionCategory          string   `json:"rejection_category"`
	StudentFriendlyExplanation string   `json:"student_friendly_explanation"`
	ImprovementSuggestions     []string `json:"improvement_suggestions"`
	MotivationalMessage        string   `json:"motivational_message"`
	NextSteps                  []string `json:"next_steps"`
	RawFeedback                string   `json:"raw_feedback"`
}
