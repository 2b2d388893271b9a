package branches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-content-lifecycle/internal/domain"
	"github.com/goliatone/go-content-lifecycle/internal/identity"
	"github.com/goliatone/go-content-lifecycle/internal/locks"
	"github.com/goliatone/go-content-lifecycle/internal/versioning"
	"github.com/google/uuid"
)

// MergeStrategyAuto takes the source branch's current content as the merge
// result. Additional strategies are an extension point; unknown names fail.
const MergeStrategyAuto = "auto"

// Service manages named branches over the version store.
type Service interface {
	CreateBranch(ctx context.Context, req CreateBranchRequest) (*versioning.VersionBranch, error)
	MergeBranch(ctx context.Context, req MergeBranchRequest) (*versioning.ContentVersion, error)
	GetBranch(ctx context.Context, name string) (*versioning.VersionBranch, error)
	ListBranches(ctx context.Context) ([]*versioning.VersionBranch, error)
}

// CreateBranchRequest captures a branch fork from an existing version.
type CreateBranchRequest struct {
	Name            string
	BaseVersionID   uuid.UUID
	CreatedBy       uuid.UUID
	Description     string
	TargetPlatforms []domain.Platform
}

// MergeBranchRequest captures a merge of one branch into another.
type MergeBranchRequest struct {
	SourceName string
	TargetName string
	AuthorID   uuid.UUID
	Strategy   string
}

var (
	ErrBranchNameRequired   = errors.New("branches: branch name required")
	ErrBaseVersionRequired  = errors.New("branches: base version id required")
	ErrCreatedByRequired    = errors.New("branches: created_by required")
	ErrAuthorRequired       = errors.New("branches: author id required")
	ErrPlatformInvalid      = errors.New("branches: unknown target platform")
	ErrMergeSameBranch      = errors.New("branches: cannot merge a branch into itself")
	ErrMergeContentMismatch = errors.New("branches: branches track different content items")
	ErrUnknownMergeStrategy = errors.New("branches: unknown merge strategy")
)

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithKeyedMutex shares a lock table with the version store so branch
// sections and content sections serialize together.
func WithKeyedMutex(mu *locks.KeyedMutex) ServiceOption {
	return func(s *service) {
		if mu != nil {
			s.locks = mu
		}
	}
}

type service struct {
	versions versioning.VersionRepository
	branches versioning.BranchRepository
	locks    *locks.KeyedMutex
	now      func() time.Time
	id       IDGenerator
}

// NewService constructs a branch manager over the version store repositories.
func NewService(versions versioning.VersionRepository, branchRepo versioning.BranchRepository, opts ...ServiceOption) Service {
	s := &service{
		versions: versions,
		branches: branchRepo,
		locks:    locks.NewKeyedMutex(),
		now:      time.Now,
		id:       uuid.New,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateBranch forks a named branch from an existing version. The branch
// pointer starts at the base version.
func (s *service) CreateBranch(ctx context.Context, req CreateBranchRequest) (*versioning.VersionBranch, error) {
	if req.Name == "" {
		return nil, ErrBranchNameRequired
	}
	if req.BaseVersionID == uuid.Nil {
		return nil, ErrBaseVersionRequired
	}
	if req.CreatedBy == uuid.Nil {
		return nil, ErrCreatedByRequired
	}
	for _, platform := range req.TargetPlatforms {
		if !platform.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrPlatformInvalid, platform)
		}
	}

	unlock := s.locks.LockAll(locks.BranchKey(req.Name))
	defer unlock()

	base, err := s.versions.GetByID(ctx, req.BaseVersionID)
	if err != nil {
		return nil, err
	}

	branch := &versioning.VersionBranch{
		ID:               s.id(),
		Name:             req.Name,
		ContentID:        base.ContentID,
		BaseVersionID:    base.ID,
		CurrentVersionID: base.ID,
		CreatedBy:        req.CreatedBy,
		TargetPlatforms:  clonePlatforms(req.TargetPlatforms),
		CreatedAt:        s.now(),
	}
	if req.Description != "" {
		description := req.Description
		branch.Description = &description
	}

	return s.branches.Create(ctx, branch)
}

// MergeBranch folds the source branch into the target branch, producing a
// merged version at the target's head. Both branch sections are acquired in
// lexical order so concurrent merges cannot deadlock.
func (s *service) MergeBranch(ctx context.Context, req MergeBranchRequest) (*versioning.ContentVersion, error) {
	if req.SourceName == "" || req.TargetName == "" {
		return nil, ErrBranchNameRequired
	}
	if req.SourceName == req.TargetName {
		return nil, fmt.Errorf("%w: %s", ErrMergeSameBranch, req.SourceName)
	}
	if req.AuthorID == uuid.Nil {
		return nil, ErrAuthorRequired
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = MergeStrategyAuto
	}
	if strategy != MergeStrategyAuto {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMergeStrategy, strategy)
	}

	unlock := s.locks.LockAll(locks.BranchKey(req.SourceName), locks.BranchKey(req.TargetName))
	defer unlock()

	source, err := s.branches.GetByName(ctx, req.SourceName)
	if err != nil {
		return nil, err
	}
	target, err := s.branches.GetByName(ctx, req.TargetName)
	if err != nil {
		return nil, err
	}
	if source.ContentID != target.ContentID {
		return nil, fmt.Errorf("%w: %s vs %s", ErrMergeContentMismatch, req.SourceName, req.TargetName)
	}

	sourceHead, err := s.versions.GetByID(ctx, source.CurrentVersionID)
	if err != nil {
		return nil, err
	}
	targetHead, err := s.versions.GetByID(ctx, target.CurrentVersionID)
	if err != nil {
		return nil, err
	}

	number, err := domain.ParseVersionNumber(targetHead.VersionNumber)
	if err != nil {
		return nil, err
	}

	targetName := target.Name
	merged := &versioning.ContentVersion{
		ID:              s.id(),
		ContentID:       target.ContentID,
		BranchName:      &targetName,
		ContentData:     sourceHead.ContentData,
		ContentType:     targetHead.ContentType,
		ContentFormat:   targetHead.ContentFormat,
		AuthorID:        req.AuthorID,
		ChangeLog:       fmt.Sprintf("Merged changes from branch %s", source.Name),
		ChangeType:      domain.ChangeTypeMerged,
		VersionNumber:   number.Bump(domain.ChangeTypeMerged).String(),
		ParentVersionID: &targetHead.ID,
		ContentHash:     identity.ContentHash(sourceHead.ContentData),
		ReviewStatus:    domain.StatusDraft,
		Metadata:        mergeMetadata(targetHead.Metadata, sourceHead.Metadata),
		CreatedAt:       s.now(),
	}

	created, err := s.versions.Create(ctx, merged)
	if err != nil {
		return nil, err
	}

	target.CurrentVersionID = created.ID
	if _, err := s.branches.Update(ctx, target); err != nil {
		return nil, err
	}

	return created, nil
}

// GetBranch fetches a branch by name.
func (s *service) GetBranch(ctx context.Context, name string) (*versioning.VersionBranch, error) {
	if name == "" {
		return nil, ErrBranchNameRequired
	}
	return s.branches.GetByName(ctx, name)
}

// ListBranches lists branches in creation order.
func (s *service) ListBranches(ctx context.Context) ([]*versioning.VersionBranch, error) {
	return s.branches.List(ctx)
}

func clonePlatforms(src []domain.Platform) []domain.Platform {
	if src == nil {
		return nil
	}
	out := make([]domain.Platform, len(src))
	copy(out, src)
	return out
}

func mergeMetadata(target, source map[string]any) map[string]any {
	if target == nil && source == nil {
		return nil
	}
	out := make(map[string]any, len(target)+len(source))
	for k, v := range target {
		out[k] = v
	}
	for k, v := range source {
		out[k] = v
	}
	return out
}
