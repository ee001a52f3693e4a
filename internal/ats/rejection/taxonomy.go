package rejection

// Category is a rejection reason class.
type Category string

const (
	SkillMismatch   Category = "skill_mismatch"
	TestPerformance Category = "test_performance"
	ResumeIssues    Category = "resume_issues"
	Communication   Category = "communication"
	CulturalFit     Category = "cultural_fit"
	Overqualified   Category = "overqualified"
	Underqualified  Category = "underqualified"
	General         Category = "general"
)

// Categories lists every category in declaration order. Ties during
// classification go to the earlier entry.
var Categories = []Category{
	SkillMismatch,
	TestPerformance,
	ResumeIssues,
	Communication,
	CulturalFit,
	Overqualified,
	Underqualified,
	General,
}

// patterns are matched as lower-case substrings of the feedback text.
var patterns = map[Category][]string{
	SkillMismatch:   {"skills", "qualification", "technical", "experience"},
	TestPerformance: {"test", "assessment", "coding", "aptitude", "score"},
	ResumeIssues:    {"resume", "cv", "profile", "documentation"},
	Communication:   {"communication", "interview", "soft skills", "presentation"},
	CulturalFit:     {"culture", "fit", "values", "team"},
	Overqualified:   {"overqualified", "senior"},
	Underqualified:  {"underqualified", "entry", "junior", "experience required"},
}

var suggestions = map[Category][]string{
	SkillMismatch: {
		"Focus on building the missing technical skills through projects",
		"Take relevant online courses or certifications",
		"Contribute to open-source projects to demonstrate skills",
		"Build a portfolio project showcasing the required skills",
	},
	TestPerformance: {
		"Practice coding problems on platforms like LeetCode, HackerRank",
		"Take mock assessments to improve test-taking skills",
		"Review fundamental concepts and data structures",
		"Time yourself while solving problems to improve speed",
	},
	ResumeIssues: {
		"Optimize your resume with relevant keywords",
		"Quantify achievements and impact in your projects",
		"Highlight skills that match job requirements",
		"Get your resume reviewed by mentors or career services",
	},
	Communication: {
		"Practice mock interviews with peers or mentors",
		"Join public speaking clubs or toastmasters",
		"Record yourself answering common interview questions",
		"Work on explaining technical concepts clearly",
	},
	CulturalFit: {
		"Research the company culture before applying",
		"Align your application with company values",
		"Showcase relevant experiences in your cover letter",
		"Network with current employees to understand culture",
	},
}

var defaultSuggestions = []string{
	"Continue building relevant skills",
	"Apply to more positions to gain experience",
	"Network with professionals in the field",
	"Seek feedback from mentors",
}

// explanations take the job title. An empty title leaves "this position".
var explanations = map[Category]string{
	SkillMismatch:   "While you have strong foundational skills, this %s role requires some additional technical competencies that weren't fully demonstrated in your application.",
	TestPerformance: "Your application showed promise, but the technical assessment results didn't meet the threshold for this %s position. This is common and can be improved with practice.",
	ResumeIssues:    "Your resume could be better optimized to highlight your relevant skills and experiences for the %s role. ATS systems may have missed key qualifications.",
	Communication:   "Your technical skills are solid, but there were concerns about communication or presentation during the interview process for this %s role.",
	CulturalFit:     "While you're qualified, the company felt there might be a better alignment with their team culture for this %s position.",
	Overqualified:   "You're highly qualified for this %s role, but the company is looking for someone at a different experience level.",
	Underqualified:  "This %s role requires more experience or specific skills than currently demonstrated. Consider entry-level positions or building those skills first.",
	General:         "Unfortunately, you weren't selected for this %s position. This is a competitive process, and many factors contribute to hiring decisions.",
}

var motivation = map[Category]string{
	SkillMismatch:   "Don't be discouraged! Every rejection is a learning opportunity. Focus on building the missing skills, and you'll be ready for the next opportunity.",
	TestPerformance: "Technical assessments can be challenging, but they're also learnable. With consistent practice, you'll see improvement. Keep going!",
	ResumeIssues:    "Your resume is your first impression. With some optimization, you can significantly improve your chances. You've got this!",
	Communication:   "Communication is a skill that improves with practice. Keep interviewing, and you'll become more confident. Your technical skills are valuable!",
	CulturalFit:     "Not every company is the right fit, and that's okay! The right opportunity that matches your values and work style is out there.",
	General:         "Rejection is part of the journey. Every successful professional has faced rejections. Learn from this, improve, and keep applying. Your breakthrough is coming!",
}

var nextSteps = map[Category][]string{
	SkillMismatch: {
		"Identify 2-3 missing skills and create learning projects",
		"Apply to similar roles after building those skills",
		"Update your portfolio with new projects",
	},
	TestPerformance: {
		"Dedicate 30 minutes daily to coding practice",
		"Take 2-3 mock assessments this week",
		"Review data structures and algorithms fundamentals",
	},
	ResumeIssues: {
		"Get your resume reviewed and optimized",
		"Update resume with quantified achievements",
		"Apply to 5 new positions with the improved resume",
	},
}

var defaultNextSteps = []string{
	"Continue applying to relevant positions",
	"Network with professionals in your field",
	"Keep building your skills and portfolio",
}

const (
	emptyFeedbackExplanation = "Unfortunately, you weren't selected for this %s position. The hiring process is competitive, and many qualified candidates apply."
	emptyFeedbackMotivation  = "Every rejection brings you closer to the right opportunity. Stay persistent, keep learning, and your breakthrough will come!"
	// NoFeedbackProvided is the RawFeedback of the default response.
	NoFeedbackProvided = "No specific feedback provided"
)

var emptyFeedbackSuggestions = []string{
	"Continue building relevant technical skills",
	"Optimize your resume for ATS systems",
	"Practice coding and technical assessments",
	"Network and seek mentorship opportunities",
}

var emptyFeedbackNextSteps = []string{
	"Apply to 3-5 similar positions this week",
	"Update your portfolio with recent projects",
	"Seek feedback from mentors or career advisors",
}
