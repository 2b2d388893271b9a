package history

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-content-lifecycle/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Transition is one append-only lifecycle audit record. Records are stored in
// append order per content id and returned oldest first.
type Transition struct {
	bun.BaseModel `bun:"table:lifecycle_transitions,alias:lt"`

	ID        uuid.UUID    `bun:",pk,type:uuid" json:"id"`
	ContentID uuid.UUID    `bun:"content_id,notnull,type:uuid" json:"content_id"`
	FromStage domain.Stage `bun:"from_stage" json:"from_stage"`
	ToStage   domain.Stage `bun:"to_stage,notnull" json:"to_stage"`
	Reason    string       `bun:"reason" json:"reason"`
	ActorID   uuid.UUID    `bun:"actor_id,notnull,type:uuid" json:"actor_id"`
	CreatedAt time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Recorder persists lifecycle transitions.
type Recorder interface {
	Record(ctx context.Context, transition Transition) error
	List(ctx context.Context, contentID uuid.UUID, limit int) ([]Transition, error)
	Count(ctx context.Context, contentID uuid.UUID) (int, error)
}

// InMemoryRecorder accumulates transitions in-memory.
type InMemoryRecorder struct {
	mu        sync.Mutex
	byContent map[uuid.UUID][]Transition
	err       error
}

// NewInMemoryRecorder constructs an empty recorder.
func NewInMemoryRecorder() *InMemoryRecorder {
	return &InMemoryRecorder{byContent: make(map[uuid.UUID][]Transition)}
}

// Record appends the supplied transition to its content item's trail.
func (r *InMemoryRecorder) Record(_ context.Context, transition Transition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.byContent[transition.ContentID] = append(r.byContent[transition.ContentID], transition)
	return nil
}

// Fail configures the recorder to return the supplied error on subsequent Record calls.
func (r *InMemoryRecorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// List returns transitions for a content item oldest first. A positive limit
// caps the result to the first limit records in stored order.
func (r *InMemoryRecorder) List(_ context.Context, contentID uuid.UUID, limit int) ([]Transition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.byContent[contentID]
	if limit > 0 && limit < len(stored) {
		stored = stored[:limit]
	}
	out := make([]Transition, len(stored))
	copy(out, stored)
	return out, nil
}

// Count reports the number of transitions recorded for a content item.
func (r *InMemoryRecorder) Count(_ context.Context, contentID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byContent[contentID]), nil
}
