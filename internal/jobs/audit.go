package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
	"github.com/google/uuid"
)

// AuditEvent records one lifecycle action the worker applied on behalf of a
// scheduled job.
type AuditEvent struct {
	JobID      string
	JobType    interfaces.JobType
	ContentID  uuid.UUID
	Action     string
	Actor      uuid.UUID
	Attempt    int
	RunAt      time.Time
	OccurredAt time.Time
}

// AuditRecorder persists worker audit events.
type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent) error
}

// InMemoryAuditRecorder accumulates audit events in memory for tests and
// single-process hosts.
type InMemoryAuditRecorder struct {
	mu     sync.Mutex
	events []AuditEvent
	err    error
}

// NewInMemoryAuditRecorder constructs an empty recorder.
func NewInMemoryAuditRecorder() *InMemoryAuditRecorder {
	return &InMemoryAuditRecorder{}
}

// Record stores the supplied event.
func (r *InMemoryAuditRecorder) Record(_ context.Context, event AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

// Events returns a snapshot of recorded audit entries.
func (r *InMemoryAuditRecorder) Events() []AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AuditEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Fail configures the recorder to return the supplied error on subsequent
// Record calls.
func (r *InMemoryAuditRecorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}
