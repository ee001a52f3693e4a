package ats

// Engine scores resumes against job requirements. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	weights Weights
}

// NewEngine returns an Engine using w. Invalid weights are rejected here so a
// misconfigured process fails at startup rather than on first request.
func NewEngine(w Weights) (*Engine, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Engine{weights: w}, nil
}

// NewDefaultEngine returns an Engine using DefaultWeights.
func NewDefaultEngine() *Engine {
	return &Engine{weights: DefaultWeights()}
}

// Weights returns the composite weights in use.
func (e *Engine) Weights() Weights {
	return e.weights
}

// SubScores holds the five unrounded component scores.
type SubScores struct {
	Skill      float64
	Keyword    float64
	Experience float64
	Education  float64
	Format     float64
}

// Composite combines sub-scores using w, rounded to two decimals within [0,100].
func (s SubScores) Composite(w Weights) float64 {
	total := w.Skill*s.Skill +
		w.Keyword*s.Keyword +
		w.Experience*s.Experience +
		w.Education*s.Education +
		w.Format*s.Format
	return round2(clampScore(total))
}

// ComputeSubScores evaluates every component for the given inputs.
func ComputeSubScores(resume ResumeData, job JobRequirement) (SubScores, SkillMatch) {
	match := MatchSkills(resume.Skills, job.RequiredSkills, job.PreferredSkills)
	return SubScores{
		Skill:      SkillScore(match),
		Keyword:    KeywordScore(job, resume.RawText),
		Experience: ExperienceScore(resume.Experience, job.RequiredYears()),
		Education:  EducationScore(resume.Education, job.EducationLevel),
		Format:     FormatScore(resume.RawText),
	}, match
}

// ScoreResume produces the ATSResult for one candidate. It only fails on
// malformed input, returning *InvalidInputError.
func (e *Engine) ScoreResume(candidateID string, resume ResumeData, job JobRequirement) (ATSResult, error) {
	if err := ValidateJob(job); err != nil {
		return ATSResult{}, err
	}
	if err := ValidateResume(resume); err != nil {
		return ATSResult{}, err
	}

	scores, match := ComputeSubScores(resume, job)
	composite := scores.Composite(e.weights)
	return ATSResult{
		CandidateID:       candidateID,
		ATSScore:          composite,
		Passed:            composite >= job.MinimumScore(),
		SkillMatchScore:   round2(scores.Skill),
		EducationScore:    round2(scores.Education),
		ExperienceScore:   round2(scores.Experience),
		KeywordMatchScore: round2(scores.Keyword),
		FormatScore:       round2(scores.Format),
		MatchedSkills:     match.Matched,
		MissingSkills:     match.Missing,
		Recommendations:   []string{},
	}, nil
}

// Screener runs scoring and, for failing resumes, feedback generation.
type Screener struct {
	Engine   *Engine
	Feedback *FeedbackGenerator
}

// Screen scores the resume. When it fails, the returned feedback is non-nil and
// the result carries its improvement recommendations.
func (s Screener) Screen(candidateID string, resume ResumeData, job JobRequirement) (ATSResult, *RejectionFeedback, error) {
	result, err := s.Engine.ScoreResume(candidateID, resume, job)
	if err != nil {
		return ATSResult{}, nil, err
	}
	if result.Passed {
		return result, nil, nil
	}
	fb := s.Feedback.Generate(result, resume, job)
	return result.WithRecommendations(fb.ImprovementRecommendations), &fb, nil
}
