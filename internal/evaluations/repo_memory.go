package evaluations

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo stores evaluations in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Evaluation
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Evaluation)}
}

// Create stores the evaluation.
func (r *MemoryRepo) Create(ctx context.Context, evaluation Evaluation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if evaluation.UpdatedAt.IsZero() {
		evaluation.UpdatedAt = evaluation.CreatedAt
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[evaluation.ID] = evaluation
	return nil
}

// GetByID returns an evaluation by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, evaluationID string) (Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return Evaluation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	evaluation, ok := r.byID[evaluationID]
	if !ok {
		return Evaluation{}, ErrNotFound
	}
	return evaluation, nil
}

// UpdateStatus updates status, outcome and error fields and stamps timestamps.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, evaluationID, status string, outcome *Outcome, errorMessage *string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	evaluation, ok := r.byID[evaluationID]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	evaluation.Status = status
	if outcome != nil {
		result := outcome.Result
		evaluation.Result = &result
		evaluation.Feedback = outcome.Feedback
		evaluation.Message = outcome.Message
	}
	if errorMessage != nil {
		evaluation.ErrorMessage = errorMessage
	}
	if status == StatusProcessing && evaluation.StartedAt == nil {
		evaluation.StartedAt = &now
	}
	if (status == StatusCompleted || status == StatusFailed) && evaluation.CompletedAt == nil {
		evaluation.CompletedAt = &now
	}
	evaluation.UpdatedAt = now
	r.byID[evaluationID] = evaluation
	return nil
}

// List returns evaluations matching filter, newest first, with limit/offset.
func (r *MemoryRepo) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit, offset = normalizePage(limit, offset)

	r.mu.RLock()
	matched := make([]Evaluation, 0, len(r.byID))
	for _, e := range r.byID {
		if filter.JobTitle != "" && !strings.EqualFold(e.JobTitle, filter.JobTitle) {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		matched = append(matched, e)
	}
	r.mu.RUnlock()

	if offset >= len(matched) {
		return []Evaluation{}, nil
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	end := len(matched)
	if offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
