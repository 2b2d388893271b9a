package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
)

// noopScheduler is installed when the host wires no scheduler. Jobs are
// accepted and immediately reported as completed so approvals with a publish
// date still succeed; nothing ever comes due.
type noopScheduler struct{}

// NewNoOp returns a scheduler that discards every job.
func NewNoOp() interfaces.Scheduler {
	return noopScheduler{}
}

func (noopScheduler) Enqueue(_ context.Context, spec interfaces.JobSpec) (*interfaces.Job, error) {
	now := time.Now()
	return &interfaces.Job{
		JobSpec:   spec,
		ID:        uuid.NewString(),
		Status:    interfaces.JobStatusCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (noopScheduler) CancelByKey(context.Context, string) error { return nil }

func (noopScheduler) Get(context.Context, string) (*interfaces.Job, error) {
	return nil, interfaces.ErrJobNotFound
}

func (noopScheduler) GetByKey(context.Context, string) (*interfaces.Job, error) {
	return nil, interfaces.ErrJobNotFound
}

func (noopScheduler) ListDue(context.Context, time.Time, int) ([]*interfaces.Job, error) {
	return nil, nil
}

func (noopScheduler) MarkDone(context.Context, string) error { return nil }

func (noopScheduler) MarkFailed(context.Context, string, error) error { return nil }
