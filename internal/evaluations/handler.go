package evaluations

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"placement-ats/internal/ats"
	"placement-ats/internal/shared/server/middleware"
	"placement-ats/internal/shared/server/respond"
)

// MaxUploadBytes bounds an uploaded resume file.
const MaxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the evaluations service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	respond.UseJSONFieldNames()
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches evaluation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/evaluate", h.evaluateMultipart)
	rg.POST("/evaluate-json", h.evaluateJSON)
	rg.POST("/batch", h.batch)
	rg.GET("/evaluations", h.listEvaluations)
	rg.GET("/evaluations/:id", h.getEvaluation)
}

type evaluateJSONRequest struct {
	CandidateID    string              `json:"candidate_id"`
	JobRequirement *ats.JobRequirement `json:"job_requirement" binding:"required"`
	ResumeText     string              `json:"resume_text" binding:"required_without=ResumeFileKey"`
	ResumeFileKey  string              `json:"resume_file_key"`
}

type batchCandidateRequest struct {
	CandidateID   string `json:"candidate_id"`
	ResumeText    string `json:"resume_text" binding:"required_without=ResumeFileKey"`
	ResumeFileKey string `json:"resume_file_key"`
}

type batchRequest struct {
	JobRequirement *ats.JobRequirement     `json:"job_requirement" binding:"required"`
	Candidates     []batchCandidateRequest `json:"candidates" binding:"required,min=1,max=100,dive"`
}

type evaluationResponse struct {
	EvaluationID string                 `json:"evaluation_id"`
	CandidateID  string                 `json:"candidate_id"`
	ATSResult    *ats.ATSResult         `json:"ats_result"`
	Feedback     *ats.RejectionFeedback `json:"feedback"`
	Message      string                 `json:"message"`
}

func (h *Handler) evaluateMultipart(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+1<<20)

	rawJob := strings.TrimSpace(c.PostForm("job_requirement"))
	if rawJob == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "job_requirement is required", []map[string]string{
			{"field": "job_requirement", "issue": "required"},
		})
		return
	}
	var job ats.JobRequirement
	if err := json.Unmarshal([]byte(rawJob), &job); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "job_requirement must be valid JSON", []map[string]string{
			{"field": "job_requirement", "issue": err.Error()},
		})
		return
	}

	in := EvaluateInput{
		CandidateID: c.PostForm("candidate_id"),
		Job:         job,
		ResumeText:  c.PostForm("resume_text"),
	}

	fileHeader, err := c.FormFile("resume_file")
	switch {
	case err == nil:
		if fileHeader.Size > MaxUploadBytes {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", fmt.Sprintf("resume_file must be at most %d bytes", MaxUploadBytes), nil)
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "resume_file could not be read", nil)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "resume_file could not be read", nil)
			return
		}
		in.File = &ResumeFile{
			Name:     fileHeader.Filename,
			MimeType: fileHeader.Header.Get("Content-Type"),
			Data:     data,
		}
	case errors.Is(err, http.ErrMissingFile):
		if strings.TrimSpace(in.ResumeText) == "" {
			respond.Error(c, http.StatusBadRequest, "validation_error", "resume_file or resume_text is required", []map[string]string{
				{"field": "resume_file", "issue": "required_without=resume_text"},
			})
			return
		}
	default:
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart form", nil)
		return
	}

	h.evaluate(c, in)
}

func (h *Handler) evaluateJSON(c *gin.Context) {
	var req evaluateJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}
	h.evaluate(c, EvaluateInput{
		CandidateID: req.CandidateID,
		Job:         *req.JobRequirement,
		ResumeText:  req.ResumeText,
		FileKey:     req.ResumeFileKey,
	})
}

func (h *Handler) evaluate(c *gin.Context, in EvaluateInput) {
	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	evaluation, err := h.Svc.Evaluate(ctx, in)
	if err != nil {
		writeServiceError(c, err, "failed to evaluate resume")
		return
	}
	c.Set(middleware.EvaluationIDKey, evaluation.ID)
	c.Set(middleware.CandidateIDKey, evaluation.CandidateID)
	respond.OK(c, evaluationResponse{
		EvaluationID: evaluation.ID,
		CandidateID:  evaluation.CandidateID,
		ATSResult:    evaluation.Result,
		Feedback:     evaluation.Feedback,
		Message:      evaluation.Message,
	})
}

func (h *Handler) batch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}

	candidates := make([]BatchCandidate, 0, len(req.Candidates))
	for _, cand := range req.Candidates {
		candidates = append(candidates, BatchCandidate{
			CandidateID: cand.CandidateID,
			ResumeText:  cand.ResumeText,
			FileKey:     cand.ResumeFileKey,
		})
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	evaluations, err := h.Svc.EnqueueBatch(ctx, *req.JobRequirement, candidates)
	if err != nil {
		writeServiceError(c, err, "failed to enqueue evaluations")
		return
	}

	items := make([]gin.H, 0, len(evaluations))
	for _, e := range evaluations {
		items = append(items, gin.H{
			"evaluation_id": e.ID,
			"candidate_id":  e.CandidateID,
			"status":        e.Status,
		})
	}
	respond.JSON(c, http.StatusAccepted, gin.H{
		"job_title":   req.JobRequirement.JobTitle,
		"total":       len(items),
		"evaluations": items,
	})
}

func (h *Handler) getEvaluation(c *gin.Context) {
	evaluationID := c.Param("id")
	if evaluationID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "evaluation id is required", nil)
		return
	}

	c.Set(middleware.EvaluationIDKey, evaluationID)
	evaluation, err := h.Svc.Get(c.Request.Context(), evaluationID)
	if err != nil {
		writeServiceError(c, err, "failed to fetch evaluation")
		return
	}
	respond.OK(c, evaluation)
}

func (h *Handler) listEvaluations(c *gin.Context) {
	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	filter := ListFilter{
		JobTitle: strings.TrimSpace(c.Query("job_title")),
		Status:   strings.TrimSpace(c.Query("status")),
	}
	evaluations, err := h.Svc.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list evaluations", nil)
		return
	}

	resp := make([]gin.H, 0, len(evaluations))
	for _, e := range evaluations {
		item := gin.H{
			"evaluation_id": e.ID,
			"candidate_id":  e.CandidateID,
			"job_title":     e.JobTitle,
			"status":        e.Status,
			"created_at":    e.CreatedAt,
		}
		if e.Status == StatusCompleted && e.Result != nil {
			item["ats_score"] = e.Result.ATSScore
			item["passed"] = e.Result.Passed
		}
		resp = append(resp, item)
	}
	respond.OK(c, resp)
}

func writeServiceError(c *gin.Context, err error, fallback string) {
	var invalid *ats.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		respond.Error(c, http.StatusBadRequest, "invalid_input", invalid.Error(), []map[string]string{
			{"field": invalid.Field, "issue": invalid.Reason},
		})
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_input", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
