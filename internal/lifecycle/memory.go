package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStateRepository keeps lifecycle states in process memory.
type MemoryStateRepository struct {
	mu     sync.RWMutex
	states map[uuid.UUID]*ContentLifecycleState
}

// NewMemoryStateRepository constructs an empty in-memory state repository.
func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{states: make(map[uuid.UUID]*ContentLifecycleState)}
}

func (r *MemoryStateRepository) Create(_ context.Context, record *ContentLifecycleState) (*ContentLifecycleState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.states[record.ContentID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrStateExists, record.ContentID)
	}

	stored := cloneState(record)
	r.states[record.ContentID] = stored
	return cloneState(stored), nil
}

func (r *MemoryStateRepository) Get(_ context.Context, contentID uuid.UUID) (*ContentLifecycleState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.states[contentID]
	if !ok {
		return nil, &NotFoundError{Resource: "lifecycle state", Key: contentID.String()}
	}
	return cloneState(stored), nil
}

func (r *MemoryStateRepository) Update(_ context.Context, record *ContentLifecycleState) (*ContentLifecycleState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.states[record.ContentID]; !ok {
		return nil, &NotFoundError{Resource: "lifecycle state", Key: record.ContentID.String()}
	}

	stored := cloneState(record)
	r.states[record.ContentID] = stored
	return cloneState(stored), nil
}
