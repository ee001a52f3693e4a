package evaluations

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"placement-ats/internal/ats"
	"placement-ats/internal/extract"
	"placement-ats/internal/queue"
	"placement-ats/internal/resumeparse"
	"placement-ats/internal/shared/metrics"
	"placement-ats/internal/shared/storage/object"
	"placement-ats/internal/shared/telemetry"
)

const (
	resumeNamespace = "resumes"
	cacheKeyPrefix  = "ats:result:"
	messageVersion  = 1
)

// ResultCache stores scored outcomes keyed by their inputs.
type ResultCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
}

// Service screens resumes and records the evaluations.
type Service struct {
	Repo     Repo
	Screener ats.Screener
	Store    object.ObjectStore
	Queue    queue.Client
	Cache    ResultCache
}

// ResumeFile is an uploaded resume document.
type ResumeFile struct {
	Name     string
	MimeType string
	Data     []byte
}

// EvaluateInput carries one resume and the job it is screened against.
// Exactly one resume source is used: File, then FileKey, then Text.
type EvaluateInput struct {
	CandidateID string
	Job         ats.JobRequirement
	ResumeText  string
	File        *ResumeFile
	FileKey     string
}

// BatchCandidate is one resume in a batch request.
type BatchCandidate struct {
	CandidateID string
	ResumeText  string
	FileKey     string
}

// Evaluate screens a resume synchronously and persists the completed evaluation.
func (s *Service) Evaluate(ctx context.Context, in EvaluateInput) (Evaluation, error) {
	if err := ats.ValidateJob(in.Job); err != nil {
		return Evaluation{}, err
	}
	candidateID := strings.TrimSpace(in.CandidateID)
	if candidateID == "" {
		candidateID = uuid.NewString()
	}

	startedAt := time.Now().UTC()
	evaluation := Evaluation{
		ID:          uuid.NewString(),
		CandidateID: candidateID,
		JobTitle:    in.Job.JobTitle,
		Job:         in.Job,
		CreatedAt:   startedAt,
	}

	text, err := s.resolveInput(ctx, in, &evaluation)
	if err != nil {
		return Evaluation{}, err
	}
	evaluation.ResumeText = text
	metrics.IncEvaluationStarted()

	outcome, err := s.screen(ctx, candidateID, resumeparse.Parse(text), in.Job)
	if err != nil {
		metrics.IncEvaluationFailed()
		return Evaluation{}, err
	}

	completedAt := time.Now().UTC()
	evaluation.Status = StatusCompleted
	evaluation.Result = &outcome.Result
	evaluation.Feedback = outcome.Feedback
	evaluation.Message = outcome.Message
	evaluation.StartedAt = &startedAt
	evaluation.CompletedAt = &completedAt
	evaluation.UpdatedAt = completedAt
	if err := s.Repo.Create(ctx, evaluation); err != nil {
		metrics.IncEvaluationFailed()
		return Evaluation{}, fmt.Errorf("store evaluation: %w", err)
	}

	s.recordCompleted(ctx, evaluation, startedAt, completedAt)
	return evaluation, nil
}

// EnqueueBatch creates a queued evaluation per candidate. Each is sent to the
// queue, or processed in the background when no queue is configured.
func (s *Service) EnqueueBatch(ctx context.Context, job ats.JobRequirement, candidates []BatchCandidate) ([]Evaluation, error) {
	if err := ats.ValidateJob(job); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: candidates must not be empty", ErrInvalidInput)
	}
	for i, c := range candidates {
		if strings.TrimSpace(c.ResumeText) == "" && strings.TrimSpace(c.FileKey) == "" {
			return nil, fmt.Errorf("%w: candidates[%d]: resume_text or resume_file_key is required", ErrInvalidInput, i)
		}
	}

	requestID := RequestIDFromContext(ctx)
	now := time.Now().UTC()
	out := make([]Evaluation, 0, len(candidates))
	for _, c := range candidates {
		candidateID := strings.TrimSpace(c.CandidateID)
		if candidateID == "" {
			candidateID = uuid.NewString()
		}
		evaluation := Evaluation{
			ID:            uuid.NewString(),
			CandidateID:   candidateID,
			JobTitle:      job.JobTitle,
			Status:        StatusQueued,
			Job:           job,
			ResumeText:    c.ResumeText,
			ResumeFileKey: strings.TrimSpace(c.FileKey),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.Repo.Create(ctx, evaluation); err != nil {
			return out, fmt.Errorf("store evaluation: %w", err)
		}

		if s.Queue == nil {
			go s.processAsync(backgroundWithRequestID(ctx), evaluation.ID)
			out = append(out, evaluation)
			continue
		}

		msg := queue.Message{
			EvaluationID: evaluation.ID,
			RequestID:    requestID,
			EnqueuedAt:   time.Now().UTC().Format(time.RFC3339),
			Version:      messageVersion,
		}
		if err := s.Queue.Send(ctx, msg); err != nil {
			errMsg := sanitizeError(fmt.Errorf("enqueue: %w", err))
			if updateErr := s.Repo.UpdateStatus(ctx, evaluation.ID, StatusFailed, nil, &errMsg); updateErr != nil {
				return out, fmt.Errorf("mark evaluation failed: %w", updateErr)
			}
			telemetry.Error("evaluation.enqueue_failed", map[string]any{
				"request_id":    requestID,
				"evaluation_id": evaluation.ID,
				"error":         err.Error(),
			})
			evaluation.Status = StatusFailed
			evaluation.ErrorMessage = &errMsg
		} else {
			telemetry.Info("evaluation.enqueued", map[string]any{
				"request_id":    requestID,
				"evaluation_id": evaluation.ID,
				"job_title":     evaluation.JobTitle,
			})
		}
		out = append(out, evaluation)
	}
	return out, nil
}

// ProcessEvaluation scores a queued evaluation. Completed evaluations are left
// untouched. Failures caused by the input itself are recorded on the
// evaluation and reported as nil so the message is not redelivered.
func (s *Service) ProcessEvaluation(ctx context.Context, evaluationID string) error {
	evaluation, err := s.Repo.GetByID(ctx, evaluationID)
	if err != nil {
		return fmt.Errorf("evaluation lookup %s: %w", evaluationID, err)
	}
	if evaluation.Status == StatusCompleted {
		return nil
	}

	startedAt := time.Now().UTC()
	if err := s.Repo.UpdateStatus(ctx, evaluationID, StatusProcessing, nil, nil); err != nil {
		return fmt.Errorf("set processing: %w", err)
	}
	metrics.IncEvaluationStarted()
	telemetry.Info("evaluation.status", map[string]any{
		"request_id":        RequestIDFromContext(ctx),
		"evaluation_id":     evaluationID,
		"status":            StatusProcessing,
		"status_transition": evaluation.Status + "->processing",
	})

	text := evaluation.ResumeText
	if strings.TrimSpace(text) == "" && evaluation.ResumeFileKey != "" {
		text, err = s.textFromKey(ctx, evaluation.ResumeFileKey)
		if err != nil {
			return s.fail(ctx, evaluationID, err, startedAt)
		}
	}

	outcome, err := s.screen(ctx, evaluation.CandidateID, resumeparse.Parse(text), evaluation.Job)
	if err != nil {
		return s.fail(ctx, evaluationID, err, startedAt)
	}
	if err := s.Repo.UpdateStatus(ctx, evaluationID, StatusCompleted, &outcome, nil); err != nil {
		return s.fail(ctx, evaluationID, fmt.Errorf("store outcome: %w", err), startedAt)
	}

	evaluation.Result = &outcome.Result
	s.recordCompleted(ctx, evaluation, startedAt, time.Now().UTC())
	return nil
}

// Get returns an evaluation by ID.
func (s *Service) Get(ctx context.Context, evaluationID string) (Evaluation, error) {
	if strings.TrimSpace(evaluationID) == "" {
		return Evaluation{}, fmt.Errorf("%w: evaluation id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, evaluationID)
}

// List returns evaluations newest-first.
func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Evaluation, error) {
	return s.Repo.List(ctx, filter, limit, offset)
}

// Message summarizes a result for the recruiter.
func Message(result ats.ATSResult, job ats.JobRequirement) string {
	minimum := formatMinimum(job.MinimumScore())
	if result.Passed {
		return fmt.Sprintf("Candidate PASSED! ATS Score: %.2f%% (Minimum Required: %s%%).", result.ATSScore, minimum)
	}
	return fmt.Sprintf("Candidate rejected. ATS Score: %.2f%% (Minimum Required: %s%%). Feedback provided.", result.ATSScore, minimum)
}

func formatMinimum(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (s *Service) processAsync(ctx context.Context, evaluationID string) {
	defer func() {
		if r := recover(); r != nil {
			_ = s.fail(ctx, evaluationID, fmt.Errorf("panic: %v", r), time.Now().UTC())
		}
	}()
	if err := s.ProcessEvaluation(ctx, evaluationID); err != nil {
		telemetry.Error("evaluation.process_failed", map[string]any{
			"request_id":    RequestIDFromContext(ctx),
			"evaluation_id": evaluationID,
			"error":         err.Error(),
		})
	}
}

func (s *Service) resolveInput(ctx context.Context, in EvaluateInput, evaluation *Evaluation) (string, error) {
	switch {
	case in.File != nil && len(in.File.Data) > 0:
		text, err := extract.ExtractTextFromBytes(ctx, in.File.Data, in.File.MimeType, in.File.Name)
		if err != nil {
			return "", fmt.Errorf("%w: resume file: %v", ErrInvalidInput, err)
		}
		evaluation.ResumeFileName = in.File.Name
		if s.Store != nil {
			key, _, _, err := s.Store.Save(ctx, resumeNamespace, in.File.Name, bytes.NewReader(in.File.Data))
			if err != nil {
				return "", fmt.Errorf("store resume: %w", err)
			}
			if err := extract.SaveExtracted(ctx, s.Store, key, text); err != nil {
				return "", fmt.Errorf("store extracted text: %w", err)
			}
			evaluation.ResumeFileKey = key
		}
		return text, nil
	case strings.TrimSpace(in.FileKey) != "":
		text, err := s.textFromKey(ctx, in.FileKey)
		if err != nil {
			return "", err
		}
		evaluation.ResumeFileKey = in.FileKey
		return text, nil
	case strings.TrimSpace(in.ResumeText) != "":
		return in.ResumeText, nil
	default:
		return "", fmt.Errorf("%w: resume_text, resume_file or resume_file_key is required", ErrInvalidInput)
	}
}

func (s *Service) textFromKey(ctx context.Context, key string) (string, error) {
	if s.Store == nil {
		return "", fmt.Errorf("%w: resume_file_key given but no object store is configured", ErrInvalidInput)
	}
	text, err := extract.ExtractText(ctx, s.Store, key, "", key)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("resume %s: %w", key, ErrNotFound)
		case errors.Is(err, extract.ErrUnsupportedType), errors.Is(err, object.ErrInvalidKey):
			return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return "", err
	}
	return text, nil
}

func (s *Service) screen(ctx context.Context, candidateID string, resume ats.ResumeData, job ats.JobRequirement) (Outcome, error) {
	key, keyErr := s.cacheKey(resume, job)
	if s.Cache != nil && keyErr == nil {
		var cached Outcome
		hit, err := s.Cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			metrics.IncCacheHit()
			return withCandidate(cached, candidateID), nil
		}
		metrics.IncCacheMiss()
	}

	result, feedback, err := s.Screener.Screen(candidateID, resume, job)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Result: result, Feedback: feedback, Message: Message(result, job)}

	if s.Cache != nil && keyErr == nil {
		if err := s.Cache.SetJSON(ctx, key, out); err != nil {
			telemetry.Error("evaluation.cache_set_failed", map[string]any{
				"request_id": RequestIDFromContext(ctx),
				"error":      err.Error(),
			})
		}
	}
	return out, nil
}

// cacheKey hashes everything that determines an outcome except the candidate ID.
func (s *Service) cacheKey(resume ats.ResumeData, job ats.JobRequirement) (string, error) {
	var weights ats.Weights
	if s.Screener.Engine != nil {
		weights = s.Screener.Engine.Weights()
	}
	var threshold float64
	if s.Screener.Feedback != nil {
		threshold = s.Screener.Feedback.Threshold()
	}
	payload, err := json.Marshal(struct {
		Weights   ats.Weights        `json:"weights"`
		Threshold float64            `json:"threshold"`
		Job       ats.JobRequirement `json:"job"`
		Resume    ats.ResumeData     `json:"resume"`
	}{weights, threshold, job, resume})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return cacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}

func withCandidate(o Outcome, candidateID string) Outcome {
	o.Result.CandidateID = candidateID
	if o.Feedback != nil {
		fb := *o.Feedback
		fb.CandidateID = candidateID
		o.Feedback = &fb
	}
	return o
}

func (s *Service) fail(ctx context.Context, evaluationID string, cause error, startedAt time.Time) error {
	msg := sanitizeError(cause)
	completedAt := time.Now().UTC()
	if updateErr := s.Repo.UpdateStatus(context.WithoutCancel(ctx), evaluationID, StatusFailed, nil, &msg); updateErr != nil {
		telemetry.Error("evaluation.fail_update_failed", map[string]any{
			"evaluation_id": evaluationID,
			"error":         updateErr.Error(),
			"cause":         msg,
		})
	}
	metrics.IncEvaluationFailed()
	metrics.ObserveEvaluationDurationMs(durationMs(startedAt, completedAt))
	telemetry.Info("evaluation.status", map[string]any{
		"request_id":        RequestIDFromContext(ctx),
		"evaluation_id":     evaluationID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error":             msg,
		"duration_ms":       durationMs(startedAt, completedAt),
	})
	if IsInputError(cause) {
		return nil
	}
	return cause
}

func (s *Service) recordCompleted(ctx context.Context, evaluation Evaluation, startedAt, completedAt time.Time) {
	metrics.IncEvaluationCompleted()
	passed := evaluation.Result != nil && evaluation.Result.Passed
	if passed {
		metrics.IncEvaluationPassed()
	} else {
		metrics.IncEvaluationRejected()
	}
	metrics.ObserveEvaluationDurationMs(durationMs(startedAt, completedAt))
	fields := map[string]any{
		"request_id":    RequestIDFromContext(ctx),
		"evaluation_id": evaluation.ID,
		"candidate_id":  evaluation.CandidateID,
		"job_title":     evaluation.JobTitle,
		"status":        StatusCompleted,
		"passed":        passed,
		"duration_ms":   durationMs(startedAt, completedAt),
	}
	if evaluation.Result != nil {
		fields["ats_score"] = evaluation.Result.ATSScore
	}
	telemetry.Info("evaluation.completed", fields)
}

// IsInputError reports whether err was caused by the submitted data rather
// than by infrastructure.
func IsInputError(err error) bool {
	var invalid *ats.InvalidInputError
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) || errors.As(err, &invalid)
}

func durationMs(startedAt, completedAt time.Time) float64 {
	return float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(strings.ToValidUTF8(msg, ""))
	const maxLen = 500
	if len(msg) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	return msg
}
