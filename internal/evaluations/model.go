package evaluations

import (
	"time"

	"placement-ats/internal/ats"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Evaluation is one resume screened against one job requirement.
type Evaluation struct {
	ID             string                 `json:"id"`
	CandidateID    string                 `json:"candidate_id"`
	JobTitle       string                 `json:"job_title"`
	Status         string                 `json:"status"`
	Job            ats.JobRequirement     `json:"job_requirement"`
	ResumeText     string                 `json:"-"`
	ResumeFileKey  string                 `json:"resume_file_key,omitempty"`
	ResumeFileName string                 `json:"resume_file_name,omitempty"`
	Result         *ats.ATSResult         `json:"result,omitempty"`
	Feedback       *ats.RejectionFeedback `json:"feedback,omitempty"`
	Message        string                 `json:"message,omitempty"`
	ErrorMessage   *string                `json:"error_message,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	StartedAt      *time.Time             `json:"started_at,omitempty"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
}

// Outcome is the scored part of a completed evaluation.
type Outcome struct {
	Result   ats.ATSResult          `json:"result"`
	Feedback *ats.RejectionFeedback `json:"feedback,omitempty"`
	Message  string                 `json:"message"`
}

// ListFilter narrows List results. Empty fields match everything.
type ListFilter struct {
	JobTitle string
	Status   string
}
