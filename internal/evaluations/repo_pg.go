package evaluations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"placement-ats/internal/ats"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `
SELECT id, candidate_id, job_title, status, job_requirement, resume_text, resume_file_key, resume_file_name,
       result, feedback, message, error_message, started_at, completed_at, created_at, updated_at
FROM evaluations`

// Create inserts a new evaluation.
func (r *PGRepo) Create(ctx context.Context, evaluation Evaluation) error {
	const query = `
INSERT INTO evaluations (
	id, candidate_id, job_title, status, job_requirement, resume_text, resume_file_key, resume_file_name,
	result, feedback, message, error_message, started_at, completed_at, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	jobPayload, err := json.Marshal(evaluation.Job)
	if err != nil {
		return fmt.Errorf("marshal job requirement: %w", err)
	}
	resultPayload, err := marshalNullableJSONB(evaluation.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	feedbackPayload, err := marshalNullableJSONB(evaluation.Feedback)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	updatedAt := evaluation.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = evaluation.CreatedAt
	}

	_, err = r.DB.ExecContext(ctx, query,
		evaluation.ID,
		evaluation.CandidateID,
		evaluation.JobTitle,
		evaluation.Status,
		jobPayload,
		evaluation.ResumeText,
		evaluation.ResumeFileKey,
		evaluation.ResumeFileName,
		resultPayload,
		feedbackPayload,
		evaluation.Message,
		nullableString(evaluation.ErrorMessage),
		nullableTime(evaluation.StartedAt),
		nullableTime(evaluation.CompletedAt),
		evaluation.CreatedAt,
		updatedAt,
	)
	return err
}

// GetByID returns an evaluation by ID.
func (r *PGRepo) GetByID(ctx context.Context, evaluationID string) (Evaluation, error) {
	row := r.DB.QueryRowContext(ctx, selectColumns+`
WHERE id = $1
LIMIT 1`, evaluationID)
	e, err := scanEvaluation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Evaluation{}, ErrNotFound
		}
		return Evaluation{}, err
	}
	return e, nil
}

// UpdateStatus updates status/outcome/error fields and timestamps.
func (r *PGRepo) UpdateStatus(ctx context.Context, evaluationID, status string, outcome *Outcome, errorMessage *string) error {
	const query = `
UPDATE evaluations
SET status = $1,
    result = COALESCE($2::jsonb, result),
    feedback = CASE WHEN $2::jsonb IS NOT NULL THEN $3::jsonb ELSE feedback END,
    message = COALESCE($4::text, message),
    error_message = COALESCE($5::text, error_message),
    started_at = CASE
        WHEN $1 = 'processing' AND started_at IS NULL THEN now()
        ELSE started_at
    END,
    completed_at = CASE
        WHEN ($1 = 'completed' OR $1 = 'failed') AND completed_at IS NULL THEN now()
        ELSE completed_at
    END,
    updated_at = now()
WHERE id = $6::uuid`

	var resultPayload, feedbackPayload any
	var message *string
	if outcome != nil {
		var err error
		resultPayload, err = marshalNullableJSONB(&outcome.Result)
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		feedbackPayload, err = marshalNullableJSONB(outcome.Feedback)
		if err != nil {
			return fmt.Errorf("marshal feedback: %w", err)
		}
		message = &outcome.Message
	}

	res, err := r.DB.ExecContext(ctx, query, status, resultPayload, feedbackPayload, message, errorMessage, evaluationID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns evaluations matching filter ordered newest-first.
func (r *PGRepo) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Evaluation, error) {
	limit, offset = normalizePage(limit, offset)

	rows, err := r.DB.QueryContext(ctx, selectColumns+`
WHERE ($1 = '' OR lower(job_title) = lower($1))
  AND ($2 = '' OR status = $2)
ORDER BY created_at DESC, id DESC
LIMIT $3 OFFSET $4`, filter.JobTitle, filter.Status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Evaluation{}
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(row rowScanner) (Evaluation, error) {
	var e Evaluation
	var job sql.NullString
	var resumeText sql.NullString
	var resumeFileKey sql.NullString
	var resumeFileName sql.NullString
	var result sql.NullString
	var feedback sql.NullString
	var message sql.NullString
	var errorMessage sql.NullString
	var startedAt sql.NullTime
	var completedAt sql.NullTime
	if err := row.Scan(
		&e.ID,
		&e.CandidateID,
		&e.JobTitle,
		&e.Status,
		&job,
		&resumeText,
		&resumeFileKey,
		&resumeFileName,
		&result,
		&feedback,
		&message,
		&errorMessage,
		&startedAt,
		&completedAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return Evaluation{}, err
	}
	if job.Valid {
		if err := json.Unmarshal([]byte(job.String), &e.Job); err != nil {
			return Evaluation{}, fmt.Errorf("decode job requirement %s: %w", e.ID, err)
		}
	}
	if result.Valid {
		e.Result = new(ats.ATSResult)
		if err := json.Unmarshal([]byte(result.String), e.Result); err != nil {
			e.Result = nil
		}
	}
	if feedback.Valid && feedback.String != "null" {
		e.Feedback = new(ats.RejectionFeedback)
		if err := json.Unmarshal([]byte(feedback.String), e.Feedback); err != nil {
			e.Feedback = nil
		}
	}
	e.ResumeText = resumeText.String
	e.ResumeFileKey = resumeFileKey.String
	e.ResumeFileName = resumeFileName.String
	e.Message = message.String
	if errorMessage.Valid {
		e.ErrorMessage = &errorMessage.String
	}
	if startedAt.Valid {
		e.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		e.CompletedAt = &completedAt.Time
	}
	return e, nil
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return *v
}

// marshalNullableJSONB encodes value for a jsonb column, mapping nil to SQL NULL.
func marshalNullableJSONB[T any](value *T) (any, error) {
	if value == nil {
		return nil, nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return b, nil
}
