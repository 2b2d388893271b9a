package versioning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-content-lifecycle/internal/domain"
	"github.com/goliatone/go-content-lifecycle/internal/identity"
	"github.com/goliatone/go-content-lifecycle/internal/locks"
	"github.com/google/uuid"
)

// Service is the version store. It owns creation, semantic numbering, the
// active-version pointer per content item, rollback, and archival.
type Service interface {
	CreateVersion(ctx context.Context, req CreateVersionRequest) (*ContentVersion, error)
	UpdateVersion(ctx context.Context, req UpdateVersionRequest) (*ContentVersion, error)
	RollbackVersion(ctx context.Context, req RollbackVersionRequest) (*ContentVersion, error)
	ArchiveVersion(ctx context.Context, req ArchiveVersionRequest) error
	GetVersion(ctx context.Context, versionID uuid.UUID) (*ContentVersion, error)
	GetActiveVersion(ctx context.Context, contentID uuid.UUID) (*ContentVersion, error)
	GetVersionHistory(ctx context.Context, query HistoryQuery) ([]*ContentVersion, error)
}

// CreateVersionRequest captures the payload for the first version of a content item.
type CreateVersionRequest struct {
	ContentID     uuid.UUID
	ContentData   string
	ContentType   domain.ContentType
	ContentFormat domain.ContentFormat
	AuthorID      uuid.UUID
	ChangeLog     string
	Metadata      map[string]any
	Tags          []string
}

// UpdateVersionRequest captures a content update. ChangeType defaults to
// updated; BranchName scopes the update to a branch instead of the global
// active pointer.
type UpdateVersionRequest struct {
	ContentID       uuid.UUID
	ContentData     string
	AuthorID        uuid.UUID
	ChangeLog       string
	ChangeType      domain.ChangeType
	MetadataUpdates map[string]any
	BranchName      string
}

// RollbackVersionRequest captures a rollback to an earlier version's payload.
type RollbackVersionRequest struct {
	ContentID       uuid.UUID
	TargetVersionID uuid.UUID
	AuthorID        uuid.UUID
	Reason          string
}

// ArchiveVersionRequest captures the archival of a single version.
type ArchiveVersionRequest struct {
	VersionID uuid.UUID
	AuthorID  uuid.UUID
	Reason    string
}

// HistoryQuery shapes a version history read. Results come back most recent
// first; WithoutContent omits the payload to bound response size.
type HistoryQuery struct {
	ContentID      uuid.UUID
	Limit          int
	WithoutContent bool
}

var (
	ErrContentIDRequired         = errors.New("versioning: content id required")
	ErrContentDataRequired       = errors.New("versioning: content data required")
	ErrAuthorRequired            = errors.New("versioning: author id required")
	ErrContentTypeInvalid        = errors.New("versioning: unknown content type")
	ErrContentFormatInvalid      = errors.New("versioning: unknown content format")
	ErrChangeTypeInvalid         = errors.New("versioning: unknown change type")
	ErrChangeTypeCreatedReserved = errors.New("versioning: created change type is reserved for the first version")
	ErrVersionExists             = errors.New("versioning: content already has versions")
	ErrVersionIDRequired         = errors.New("versioning: version id required")
	ErrVersionArchived           = errors.New("versioning: version already archived")
	ErrBranchContentMismatch     = errors.New("versioning: branch belongs to a different content item")
	ErrBranchExists              = errors.New("versioning: branch name already exists")
	ErrVersionContentMismatch    = errors.New("versioning: version belongs to a different content item")
	ErrMetadataInvalid           = errors.New("versioning: metadata document is invalid")
	ErrVersionRetentionExceeded  = errors.New("versioning: version retention limit reached")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

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

// WithVersionRetentionLimit constrains how many versions are retained per content item.
func WithVersionRetentionLimit(limit int) ServiceOption {
	return func(s *service) {
		if limit < 0 {
			limit = 0
		}
		s.retentionLimit = limit
	}
}

// WithKeyedMutex shares a lock table with collaborating services so every
// mutation for one content id serializes through the same exclusive section.
func WithKeyedMutex(mu *locks.KeyedMutex) ServiceOption {
	return func(s *service) {
		if mu != nil {
			s.locks = mu
		}
	}
}

// WithExternalLocking skips the service's own per-content sections. The
// caller must hold the content key for every mutating call before invoking
// the service; the lifecycle state machine uses this to keep version creation
// and its state update inside one exclusive section. Branch-scoped updates
// still take the branch key.
func WithExternalLocking() ServiceOption {
	return func(s *service) {
		s.externalLocks = true
	}
}

type service struct {
	versions       VersionRepository
	branches       BranchRepository
	locks          *locks.KeyedMutex
	externalLocks  bool
	now            func() time.Time
	id             IDGenerator
	retentionLimit int
}

// NewService constructs a version store over the supplied repositories.
func NewService(versions VersionRepository, branches BranchRepository, opts ...ServiceOption) Service {
	s := &service{
		versions: versions,
		branches: branches,
		locks:    locks.NewKeyedMutex(),
		now:      time.Now,
		id:       uuid.New,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateVersion mints version 1.0.0 for a content item and marks it active.
func (s *service) CreateVersion(ctx context.Context, req CreateVersionRequest) (*ContentVersion, error) {
	if req.ContentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	if req.ContentData == "" {
		return nil, ErrContentDataRequired
	}
	if req.AuthorID == uuid.Nil {
		return nil, ErrAuthorRequired
	}
	if !req.ContentType.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrContentTypeInvalid, req.ContentType)
	}
	if !req.ContentFormat.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrContentFormatInvalid, req.ContentFormat)
	}
	if err := ValidateMetadata(req.Metadata); err != nil {
		return nil, err
	}

	unlock := s.lockContent(req.ContentID)
	defer unlock()

	if _, err := s.versions.GetActive(ctx, req.ContentID); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrVersionExists, req.ContentID)
	} else if !isNotFound(err) {
		return nil, err
	}

	version := &ContentVersion{
		ID:            s.id(),
		ContentID:     req.ContentID,
		ContentData:   req.ContentData,
		ContentType:   req.ContentType,
		ContentFormat: req.ContentFormat,
		AuthorID:      req.AuthorID,
		ChangeLog:     req.ChangeLog,
		ChangeType:    domain.ChangeTypeCreated,
		VersionNumber: domain.InitialVersionNumber().String(),
		ContentHash:   identity.ContentHash(req.ContentData),
		ReviewStatus:  domain.StatusDraft,
		IsActive:      true,
		Tags:          cloneTags(req.Tags),
		Metadata:      cloneMetadata(req.Metadata),
		CreatedAt:     s.now(),
	}

	return s.versions.CreateActive(ctx, version)
}

// UpdateVersion derives a new version from the current active version (or the
// branch head when scoped) and advances the matching pointer.
func (s *service) UpdateVersion(ctx context.Context, req UpdateVersionRequest) (*ContentVersion, error) {
	if req.ContentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	if req.ContentData == "" {
		return nil, ErrContentDataRequired
	}
	if req.AuthorID == uuid.Nil {
		return nil, ErrAuthorRequired
	}
	changeType := req.ChangeType
	if changeType == "" {
		changeType = domain.ChangeTypeUpdated
	}
	if !changeType.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrChangeTypeInvalid, changeType)
	}
	if changeType == domain.ChangeTypeCreated {
		return nil, ErrChangeTypeCreatedReserved
	}
	if err := ValidateMetadata(req.MetadataUpdates); err != nil {
		return nil, err
	}

	if req.BranchName != "" {
		return s.updateBranchVersion(ctx, req, changeType)
	}

	unlock := s.lockContent(req.ContentID)
	defer unlock()

	parent, err := s.versions.GetActive(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	version, err := s.deriveVersion(parent, req, changeType)
	if err != nil {
		return nil, err
	}

	if err := s.checkRetention(ctx, req.ContentID); err != nil {
		return nil, err
	}

	return s.versions.CreateActive(ctx, version)
}

func (s *service) updateBranchVersion(ctx context.Context, req UpdateVersionRequest, changeType domain.ChangeType) (*ContentVersion, error) {
	keys := []string{branchLockKey(req.BranchName)}
	if !s.externalLocks {
		keys = append(keys, contentLockKey(req.ContentID))
	}
	unlock := s.locks.LockAll(keys...)
	defer unlock()

	branch, err := s.branches.GetByName(ctx, req.BranchName)
	if err != nil {
		return nil, err
	}
	if branch.ContentID != req.ContentID {
		return nil, fmt.Errorf("%w: %s", ErrBranchContentMismatch, req.BranchName)
	}

	parent, err := s.versions.GetByID(ctx, branch.CurrentVersionID)
	if err != nil {
		return nil, err
	}

	version, err := s.deriveVersion(parent, req, changeType)
	if err != nil {
		return nil, err
	}
	branchName := req.BranchName
	version.BranchName = &branchName
	version.IsActive = false

	created, err := s.versions.Create(ctx, version)
	if err != nil {
		return nil, err
	}

	branch.CurrentVersionID = created.ID
	if _, err := s.branches.Update(ctx, branch); err != nil {
		return nil, err
	}

	return created, nil
}

func (s *service) deriveVersion(parent *ContentVersion, req UpdateVersionRequest, changeType domain.ChangeType) (*ContentVersion, error) {
	number, err := domain.ParseVersionNumber(parent.VersionNumber)
	if err != nil {
		return nil, err
	}

	return &ContentVersion{
		ID:              s.id(),
		ContentID:       req.ContentID,
		ContentData:     req.ContentData,
		ContentType:     parent.ContentType,
		ContentFormat:   parent.ContentFormat,
		AuthorID:        req.AuthorID,
		ChangeLog:       req.ChangeLog,
		ChangeType:      changeType,
		VersionNumber:   number.Bump(changeType).String(),
		ParentVersionID: cloneIDPtr(parent.ID),
		ContentHash:     identity.ContentHash(req.ContentData),
		ReviewStatus:    domain.StatusDraft,
		IsActive:        true,
		Metadata:        mergeMetadata(parent.Metadata, req.MetadataUpdates),
		CreatedAt:       s.now(),
	}, nil
}

// RollbackVersion copies the target version's payload into a new active
// version. The archived or superseded record itself is never reactivated.
func (s *service) RollbackVersion(ctx context.Context, req RollbackVersionRequest) (*ContentVersion, error) {
	if req.ContentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	if req.TargetVersionID == uuid.Nil {
		return nil, ErrVersionIDRequired
	}
	if req.AuthorID == uuid.Nil {
		return nil, ErrAuthorRequired
	}

	unlock := s.lockContent(req.ContentID)
	defer unlock()

	target, err := s.versions.GetByID(ctx, req.TargetVersionID)
	if err != nil {
		return nil, err
	}
	if target.ContentID != req.ContentID {
		return nil, fmt.Errorf("%w: %s", ErrVersionContentMismatch, req.TargetVersionID)
	}

	active, err := s.versions.GetActive(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	number, err := domain.ParseVersionNumber(active.VersionNumber)
	if err != nil {
		return nil, err
	}

	changeLog := fmt.Sprintf("Rollback to version %s", target.ID)
	if req.Reason != "" {
		changeLog = fmt.Sprintf("%s: %s", changeLog, req.Reason)
	}

	version := &ContentVersion{
		ID:              s.id(),
		ContentID:       req.ContentID,
		ContentData:     target.ContentData,
		ContentType:     target.ContentType,
		ContentFormat:   target.ContentFormat,
		AuthorID:        req.AuthorID,
		ChangeLog:       changeLog,
		ChangeType:      domain.ChangeTypeRolledBack,
		VersionNumber:   number.Bump(domain.ChangeTypeRolledBack).String(),
		ParentVersionID: cloneIDPtr(active.ID),
		ContentHash:     identity.ContentHash(target.ContentData),
		ReviewStatus:    domain.StatusDraft,
		IsActive:        true,
		Tags:            appendTag(target.Tags, "rollback"),
		Metadata:        cloneMetadata(target.Metadata),
		CreatedAt:       s.now(),
	}

	if err := s.checkRetention(ctx, req.ContentID); err != nil {
		return nil, err
	}

	return s.versions.CreateActive(ctx, version)
}

// ArchiveVersion marks a single version archived and inactive, stamping the
// archival details into its metadata.
func (s *service) ArchiveVersion(ctx context.Context, req ArchiveVersionRequest) error {
	if req.VersionID == uuid.Nil {
		return ErrVersionIDRequired
	}
	if req.AuthorID == uuid.Nil {
		return ErrAuthorRequired
	}

	version, err := s.versions.GetByID(ctx, req.VersionID)
	if err != nil {
		return err
	}

	unlock := s.lockContent(version.ContentID)
	defer unlock()

	version, err = s.versions.GetByID(ctx, req.VersionID)
	if err != nil {
		return err
	}
	if version.ReviewStatus == domain.StatusArchived {
		return fmt.Errorf("%w: %s", ErrVersionArchived, req.VersionID)
	}

	metadata := cloneMetadata(version.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["archived_at"] = s.now().UTC().Format(time.RFC3339)
	metadata["archived_by"] = req.AuthorID.String()
	if req.Reason != "" {
		metadata["archive_reason"] = req.Reason
	}

	version.ReviewStatus = domain.StatusArchived
	version.IsActive = false
	version.Metadata = metadata

	_, err = s.versions.Update(ctx, version)
	return err
}

// GetVersion fetches a single version by id.
func (s *service) GetVersion(ctx context.Context, versionID uuid.UUID) (*ContentVersion, error) {
	if versionID == uuid.Nil {
		return nil, ErrVersionIDRequired
	}
	return s.versions.GetByID(ctx, versionID)
}

// GetActiveVersion fetches the globally active version for a content item.
func (s *service) GetActiveVersion(ctx context.Context, contentID uuid.UUID) (*ContentVersion, error) {
	if contentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	return s.versions.GetActive(ctx, contentID)
}

// GetVersionHistory lists versions most recent first.
func (s *service) GetVersionHistory(ctx context.Context, query HistoryQuery) ([]*ContentVersion, error) {
	if query.ContentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}

	records, err := s.versions.ListByContent(ctx, query.ContentID)
	if err != nil {
		return nil, err
	}

	// Stored oldest first; callers read most recent first.
	result := make([]*ContentVersion, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		if query.WithoutContent {
			clone := *record
			clone.ContentData = ""
			record = &clone
		}
		result = append(result, record)
		if query.Limit > 0 && len(result) >= query.Limit {
			break
		}
	}
	return result, nil
}

func (s *service) checkRetention(ctx context.Context, contentID uuid.UUID) error {
	if s.retentionLimit <= 0 {
		return nil
	}
	records, err := s.versions.ListByContent(ctx, contentID)
	if err != nil {
		return err
	}
	if len(records) >= s.retentionLimit {
		return fmt.Errorf("%w: limit %d", ErrVersionRetentionExceeded, s.retentionLimit)
	}
	return nil
}

func (s *service) lockContent(contentID uuid.UUID) func() {
	if s.externalLocks {
		return func() {}
	}
	return s.locks.LockAll(contentLockKey(contentID))
}

func contentLockKey(contentID uuid.UUID) string {
	return locks.ContentKey(contentID.String())
}

func branchLockKey(name string) string {
	return locks.BranchKey(name)
}

func isNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

func cloneMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func mergeMetadata(parent, updates map[string]any) map[string]any {
	if parent == nil && updates == nil {
		return nil
	}
	out := make(map[string]any, len(parent)+len(updates))
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range updates {
		out[k] = v
	}
	return out
}

func cloneTags(src []string) []string {
	if src == nil {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

func appendTag(src []string, tag string) []string {
	for _, existing := range src {
		if existing == tag {
			return cloneTags(src)
		}
	}
	return append(cloneTags(src), tag)
}

func cloneIDPtr(id uuid.UUID) *uuid.UUID {
	clone := id
	return &clone
}
