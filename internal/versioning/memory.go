package versioning

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-content-lifecycle/internal/domain"
	"github.com/google/uuid"
)

// MemoryVersionRepository is an in-memory implementation for scaffolding and tests.
type MemoryVersionRepository struct {
	mu        sync.RWMutex
	versions  map[uuid.UUID]*ContentVersion
	byContent map[uuid.UUID][]uuid.UUID
}

// NewMemoryVersionRepository creates an empty in-memory version repository.
func NewMemoryVersionRepository() *MemoryVersionRepository {
	return &MemoryVersionRepository{
		versions:  make(map[uuid.UUID]*ContentVersion),
		byContent: make(map[uuid.UUID][]uuid.UUID),
	}
}

// Create inserts the supplied version without touching active pointers.
func (m *MemoryVersionRepository) Create(_ context.Context, record *ContentVersion) (*ContentVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneVersion(record)
	m.versions[copied.ID] = copied
	m.byContent[copied.ContentID] = append(m.byContent[copied.ContentID], copied.ID)
	return cloneVersion(copied), nil
}

// CreateActive inserts the version and demotes the previously active version
// for the same content id under one lock.
func (m *MemoryVersionRepository) CreateActive(_ context.Context, record *ContentVersion) (*ContentVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.byContent[record.ContentID] {
		if existing := m.versions[id]; existing != nil && existing.IsActive {
			existing.IsActive = false
		}
	}

	copied := cloneVersion(record)
	copied.IsActive = true
	m.versions[copied.ID] = copied
	m.byContent[copied.ContentID] = append(m.byContent[copied.ContentID], copied.ID)
	return cloneVersion(copied), nil
}

// GetByID retrieves a version by identifier.
func (m *MemoryVersionRepository) GetByID(_ context.Context, id uuid.UUID) (*ContentVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.versions[id]
	if !ok {
		return nil, &NotFoundError{Resource: "version", Key: id.String()}
	}
	return cloneVersion(rec), nil
}

// GetActive retrieves the active version for a content id.
func (m *MemoryVersionRepository) GetActive(_ context.Context, contentID uuid.UUID) (*ContentVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.byContent[contentID] {
		if rec := m.versions[id]; rec != nil && rec.IsActive {
			return cloneVersion(rec), nil
		}
	}
	return nil, &NotFoundError{Resource: "active version", Key: contentID.String()}
}

// ListByContent returns the versions of a content id oldest first.
func (m *MemoryVersionRepository) ListByContent(_ context.Context, contentID uuid.UUID) ([]*ContentVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byContent[contentID]
	out := make([]*ContentVersion, 0, len(ids))
	for _, id := range ids {
		if rec := m.versions[id]; rec != nil {
			out = append(out, cloneVersion(rec))
		}
	}
	return out, nil
}

// Update persists status, activity, and metadata changes on an existing version.
func (m *MemoryVersionRepository) Update(_ context.Context, record *ContentVersion) (*ContentVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.versions[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "version", Key: record.ID.String()}
	}
	existing.ReviewStatus = record.ReviewStatus
	existing.IsActive = record.IsActive
	existing.Metadata = cloneMetadata(record.Metadata)
	return cloneVersion(existing), nil
}

func cloneVersion(src *ContentVersion) *ContentVersion {
	if src == nil {
		return nil
	}

	copied := *src
	copied.Tags = cloneTags(src.Tags)
	copied.Metadata = cloneMetadata(src.Metadata)
	if src.BranchName != nil {
		name := *src.BranchName
		copied.BranchName = &name
	}
	if src.ParentVersionID != nil {
		parent := *src.ParentVersionID
		copied.ParentVersionID = &parent
	}
	return &copied
}

// MemoryBranchRepository stores version branches in-memory, keyed by name.
type MemoryBranchRepository struct {
	mu     sync.RWMutex
	byName map[string]*VersionBranch
	order  []string
}

// NewMemoryBranchRepository constructs the repository.
func NewMemoryBranchRepository() *MemoryBranchRepository {
	return &MemoryBranchRepository{
		byName: make(map[string]*VersionBranch),
	}
}

// Create inserts a branch, rejecting duplicate names.
func (m *MemoryBranchRepository) Create(_ context.Context, record *VersionBranch) (*VersionBranch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[record.Name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrBranchExists, record.Name)
	}
	copied := cloneBranch(record)
	m.byName[copied.Name] = copied
	m.order = append(m.order, copied.Name)
	return cloneBranch(copied), nil
}

// GetByName retrieves a branch by its unique name.
func (m *MemoryBranchRepository) GetByName(_ context.Context, name string) (*VersionBranch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byName[name]
	if !ok {
		return nil, &NotFoundError{Resource: "branch", Key: name}
	}
	return cloneBranch(rec), nil
}

// List returns all branches in creation order.
func (m *MemoryBranchRepository) List(_ context.Context) ([]*VersionBranch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*VersionBranch, 0, len(m.order))
	for _, name := range m.order {
		if rec := m.byName[name]; rec != nil {
			out = append(out, cloneBranch(rec))
		}
	}
	return out, nil
}

// Update persists pointer changes on an existing branch.
func (m *MemoryBranchRepository) Update(_ context.Context, record *VersionBranch) (*VersionBranch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byName[record.Name]
	if !ok {
		return nil, &NotFoundError{Resource: "branch", Key: record.Name}
	}
	existing.CurrentVersionID = record.CurrentVersionID
	return cloneBranch(existing), nil
}

func cloneBranch(src *VersionBranch) *VersionBranch {
	if src == nil {
		return nil
	}

	copied := *src
	if src.Description != nil {
		description := *src.Description
		copied.Description = &description
	}
	if len(src.TargetPlatforms) > 0 {
		copied.TargetPlatforms = make([]domain.Platform, len(src.TargetPlatforms))
		copy(copied.TargetPlatforms, src.TargetPlatforms)
	}
	return &copied
}
