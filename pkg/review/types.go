package review

import (
	"time"

	"veritas-hq/saturn/pkg/analyzer"
	"veritas-hq/saturn/pkg/compliance"
)

// ReviewStatus tracks a review through its lifecycle. Valid transitions
// are PENDING to IN_PROGRESS to COMPLETED or FAILED, and PENDING or
// IN_PROGRESS to CANCELLED. Terminal states never transition again.
type ReviewStatus string

const (
	StatusPending    ReviewStatus = "pending"
	StatusInProgress ReviewStatus = "in_progress"
	StatusCompleted  ReviewStatus = "completed"
	StatusFailed     ReviewStatus = "failed"
	StatusCancelled  ReviewStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed.
func (s ReviewStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// ReviewPriority orders queued requests. Urgent drains first; requests
// within the same band are processed in submission order.
type ReviewPriority string

const (
	PriorityUrgent ReviewPriority = "urgent"
	PriorityHigh   ReviewPriority = "high"
	PriorityNormal ReviewPriority = "normal"
	PriorityLow    ReviewPriority = "low"
)

// rank maps priorities to queue order, lowest first.
func (p ReviewPriority) rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// Valid reports whether p is a known priority.
func (p ReviewPriority) Valid() bool {
	return p.rank() < 4
}

// ReviewType selects the processing profile for a request.
type ReviewType string

const (
	TypeEUDocValidation    ReviewType = "eu_doc_validation"
	TypeTemplateCompliance ReviewType = "template_compliance"
	TypeFullAnalysis       ReviewType = "full_analysis"
)

// Valid reports whether t is a known review type.
func (t ReviewType) Valid() bool {
	switch t {
	case TypeEUDocValidation, TypeTemplateCompliance, TypeFullAnalysis:
		return true
	}
	return false
}

// ReviewRequest is the immutable input to a review. The zero values of
// ID, Priority, TemplateName, CreatedAt and TimeoutSeconds are filled
// in at submission time.
type ReviewRequest struct {
	ID             string            `json:"id"`
	DocumentPath   string            `json:"document_path"`
	ReviewType     ReviewType        `json:"review_type"`
	TemplateName   string            `json:"template_name"`
	Priority       ReviewPriority    `json:"priority"`
	Parameters     map[string]string `json:"parameters,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	RequestedBy    string            `json:"requested_by,omitempty"`
	TimeoutSeconds int               `json:"timeout_seconds"`
}

// ReviewProgress is a checkpoint report delivered to registered
// progress callbacks.
type ReviewProgress struct {
	RequestID  string    `json:"request_id"`
	Stage      string    `json:"stage"`
	Percentage float64   `json:"percentage"`
	Operation  string    `json:"operation"`
	Timestamp  time.Time `json:"timestamp"`
}

// ProgressFunc receives checkpoint reports for one request. Callbacks
// run on the worker goroutine; panics are contained and slow callbacks
// delay later checkpoints but never abort the review.
type ProgressFunc func(ReviewProgress)

// ReviewResult is the mutable record of one review, owned by the
// engine while active. Callers always receive clones.
type ReviewResult struct {
	RequestID             string                       `json:"request_id"`
	Status                ReviewStatus                 `json:"status"`
	ReviewType            ReviewType                   `json:"review_type"`
	DocumentPath          string                       `json:"document_path"`
	TemplateName          string                       `json:"template_name"`
	AnalysisResult        *analyzer.AnalysisResult     `json:"analysis_result,omitempty"`
	ValidationResult      *compliance.ValidationResult `json:"validation_result,omitempty"`
	CreatedAt             time.Time                    `json:"created_at"`
	StartedAt             *time.Time                   `json:"started_at,omitempty"`
	CompletedAt           *time.Time                   `json:"completed_at,omitempty"`
	ProcessingTimeSeconds float64                      `json:"processing_time_seconds"`
	OverallScore          float64                      `json:"overall_score"`
	CompliancePercentage  float64                      `json:"compliance_percentage"`
	CriticalIssues        []string                     `json:"critical_issues,omitempty"`
	Recommendations       []string                     `json:"recommendations,omitempty"`
	ErrorMessage          string                       `json:"error_message,omitempty"`
	Warnings              []string                     `json:"warnings,omitempty"`
	Metadata              map[string]any               `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the result record. The embedded analysis
// and validation results are shared; they are written once before the
// result becomes observable and never mutated afterwards.
func (r *ReviewResult) Clone() *ReviewResult {
	if r == nil {
		return nil
	}

	clone := *r

	if r.StartedAt != nil {
		t := *r.StartedAt
		clone.StartedAt = &t
	}
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		clone.CompletedAt = &t
	}

	clone.CriticalIssues = append([]string(nil), r.CriticalIssues...)
	clone.Recommendations = append([]string(nil), r.Recommendations...)
	clone.Warnings = append([]string(nil), r.Warnings...)

	if r.Metadata != nil {
		clone.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			clone.Metadata[k] = v
		}
	}

	return &clone
}
