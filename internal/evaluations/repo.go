package evaluations

import "context"

// Repo defines persistence operations for evaluations.
type Repo interface {
	Create(ctx context.Context, evaluation Evaluation) error
	GetByID(ctx context.Context, evaluationID string) (Evaluation, error)
	// UpdateStatus moves an evaluation to status. A non-nil outcome or
	// errorMessage replaces the stored one. started_at is stamped on the first
	// move to processing and completed_at on the first terminal status.
	UpdateStatus(ctx context.Context, evaluationID, status string, outcome *Outcome, errorMessage *string) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]Evaluation, error)
}

const (
	// DefaultListLimit applies when List is called with a non-positive limit.
	DefaultListLimit = 20
	// MaxListLimit caps a single List page.
	MaxListLimit = 100
)

// normalizePage applies the paging bounds shared by every Repo.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
