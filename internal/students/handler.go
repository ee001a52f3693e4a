// Package students serves the student-facing helpers: rejection feedback
// interpretation, skill gap analysis and resume feedback.
package students

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"placement-ats/internal/ats/rejection"
	"placement-ats/internal/ats/resumefeedback"
	"placement-ats/internal/ats/skillgap"
	"placement-ats/internal/shared/server/middleware"
	"placement-ats/internal/shared/server/respond"
	"placement-ats/internal/shared/telemetry"
)

// Handler wires the student endpoints.
type Handler struct {
	Interpreter *rejection.Interpreter
	Analyzer    *skillgap.Analyzer
	Feedback    *resumefeedback.Engine
}

// NewHandler constructs a Handler.
func NewHandler(interpreter *rejection.Interpreter, analyzer *skillgap.Analyzer, feedback *resumefeedback.Engine) *Handler {
	respond.UseJSONFieldNames()
	return &Handler{Interpreter: interpreter, Analyzer: analyzer, Feedback: feedback}
}

// RegisterRoutes attaches student routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rejections/interpret", h.interpretRejection)
	rg.POST("/skill-gap", h.skillGap)
	rg.POST("/resume-feedback", h.resumeFeedback)
}

type interpretRequest struct {
	RejectionFeedback string   `json:"rejection_feedback" binding:"max=10000"`
	JobTitle          string   `json:"job_title" binding:"max=200"`
	StudentSkills     []string `json:"student_skills" binding:"max=200"`
}

type skillGapRequest struct {
	StudentSkills []string `json:"student_skills" binding:"max=200"`
	JobSkills     []string `json:"job_skills" binding:"required,min=1,max=200,dive,required"`
	JobRole       string   `json:"job_role" binding:"max=200"`
}

// resumeFeedbackRequest takes missing skills from skill_gap_output, or derives
// them from student_skills and job_skills when that is absent.
type resumeFeedbackRequest struct {
	ResumeText      string           `json:"resume_text" binding:"required,max=100000"`
	JobDescription  string           `json:"job_description" binding:"max=50000"`
	JobRequirements string           `json:"job_requirements" binding:"max=50000"`
	SkillGapOutput  *skillgap.Report `json:"skill_gap_output"`
	StudentSkills   []string         `json:"student_skills" binding:"max=200"`
	JobSkills       []string         `json:"job_skills" binding:"max=200"`
}

type skillGapResponse struct {
	skillgap.Report
	ApplicationStatus skillgap.Status `json:"application_status"`
}

func (h *Handler) interpretRejection(c *gin.Context) {
	var req interpretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}

	out := h.Interpreter.Interpret(req.RejectionFeedback, req.JobTitle, req.StudentSkills)
	telemetry.Info("student.rejection.interpreted", map[string]any{
		"request_id": middleware.RequestIDFromContext(c),
		"category":   out.RejectionCategory,
		"job_title":  req.JobTitle,
	})
	respond.OK(c, out)
}

func (h *Handler) skillGap(c *gin.Context) {
	var req skillGapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}

	report := h.Analyzer.Analyze(req.StudentSkills, req.JobSkills, req.JobRole)
	respond.JSON(c, http.StatusOK, skillGapResponse{
		Report:            report,
		ApplicationStatus: skillgap.ApplicationStatus(req.StudentSkills, req.JobSkills),
	})
}

func (h *Handler) resumeFeedback(c *gin.Context) {
	var req resumeFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}

	var missingSkills []string
	switch {
	case req.SkillGapOutput != nil:
		missingSkills = req.SkillGapOutput.MissingSkills
	case len(req.JobSkills) > 0:
		missingSkills = h.Analyzer.Analyze(req.StudentSkills, req.JobSkills, "").MissingSkills
	}

	out := h.Feedback.Generate(req.ResumeText, req.JobDescription, req.JobRequirements, missingSkills)
	telemetry.Info("student.resume_feedback.generated", map[string]any{
		"request_id": middleware.RequestIDFromContext(c),
		"ats_score":  out.ATSScore,
	})
	respond.OK(c, out)
}
