package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrJobNotFound reports missing jobs when looking them up by ID or key.
var ErrJobNotFound = errors.New("scheduler: job not found")

// JobType names the lifecycle action a job performs when it comes due.
type JobType string

// Scheduler holds the delayed publish and archive jobs the lifecycle state
// machine schedules during approval and archival.
type Scheduler interface {
	// Enqueue registers a job for future execution. A job with the same key
	// replaces the existing entry so rescheduling stays idempotent.
	Enqueue(ctx context.Context, spec JobSpec) (*Job, error)
	// CancelByKey cancels the job associated to the supplied unique key.
	CancelByKey(ctx context.Context, key string) error
	// Get returns the stored job by identifier.
	Get(ctx context.Context, id string) (*Job, error)
	// GetByKey returns the stored job that matches the supplied key.
	GetByKey(ctx context.Context, key string) (*Job, error)
	// ListDue returns pending jobs scheduled to run at or before the supplied instant.
	ListDue(ctx context.Context, until time.Time, limit int) ([]*Job, error)
	// MarkDone marks the job as successfully processed.
	MarkDone(ctx context.Context, id string) error
	// MarkFailed updates the job after a failed attempt.
	MarkFailed(ctx context.Context, id string, err error) error
}

// JobStatus describes the lifecycle of a scheduled job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCanceled  JobStatus = "canceled"
	JobStatusFailed    JobStatus = "failed"
)

// JobSpec captures the information needed to enqueue a lifecycle job.
type JobSpec struct {
	// Key uniquely identifies the job so new requests can safely replace
	// existing entries, typically one slot per content item and action.
	Key string
	// Type names the action to perform when the job comes due.
	Type JobType
	// RunAt specifies when the job should execute.
	RunAt time.Time
	// ContentID is the content item the job acts on.
	ContentID uuid.UUID
	// ScheduledBy records the actor that requested the job.
	ScheduledBy uuid.UUID
	// MaxAttempts limits retries when a worker reports failure. Zero means unlimited.
	MaxAttempts int
}

// Job is a stored job entry with metadata managed by the scheduler implementation.
type Job struct {
	JobSpec
	ID        string
	Attempt   int
	LastError string
	Status    JobStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
