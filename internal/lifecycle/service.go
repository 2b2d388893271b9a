package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-content-lifecycle/internal/domain"
	"github.com/goliatone/go-content-lifecycle/internal/history"
	"github.com/goliatone/go-content-lifecycle/internal/locks"
	"github.com/goliatone/go-content-lifecycle/internal/logging"
	"github.com/goliatone/go-content-lifecycle/internal/scheduler"
	"github.com/goliatone/go-content-lifecycle/internal/versioning"
	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
	"github.com/google/uuid"
)

const workflowEntityType = "content"

// Service is the lifecycle state machine. It owns the per-content approval
// stage, orchestrates the version store on create/update, delegates review
// hand-off to the external review workflow, and appends one transition record
// per successful stage change.
type Service interface {
	CreateContent(ctx context.Context, req CreateContentRequest) (*CreateContentResult, error)
	GetState(ctx context.Context, contentID uuid.UUID) (*ContentLifecycleState, error)
	SubmitForReview(ctx context.Context, req SubmitReviewRequest) (*ContentLifecycleState, error)
	ApproveContent(ctx context.Context, req ApproveContentRequest) (*ContentLifecycleState, error)
	RejectContent(ctx context.Context, req RejectContentRequest) (*ContentLifecycleState, error)
	PublishContent(ctx context.Context, req PublishContentRequest) (*ContentLifecycleState, error)
	UpdateContent(ctx context.Context, req UpdateContentRequest) (*UpdateContentResult, error)
	ArchiveContent(ctx context.Context, req ArchiveContentRequest) (*ContentLifecycleState, error)
	GetTransitionHistory(ctx context.Context, contentID uuid.UUID, limit int) ([]history.Transition, error)
	GetContentSummary(ctx context.Context, contentID uuid.UUID) (*ContentSummary, error)
}

// CreateContentRequest captures the first draft of a content item. ContentID
// is optional; a nil id is replaced with a generated one.
type CreateContentRequest struct {
	ContentID     uuid.UUID
	ContentData   string
	ContentType   domain.ContentType
	ContentFormat domain.ContentFormat
	AuthorID      uuid.UUID
	ChangeLog     string
	Metadata      map[string]any
	Tags          []string
}

// CreateContentResult carries both sides of content creation: the minted
// initial version and the lifecycle state initialised to draft.
type CreateContentResult struct {
	State   *ContentLifecycleState
	Version *versioning.ContentVersion
}

// SubmitReviewRequest hands a draft to the review workflow collaborator.
type SubmitReviewRequest struct {
	ContentID uuid.UUID
	AuthorID  uuid.UUID
	Priority  string
	Metadata  map[string]any
}

// ApproveContentRequest records a reviewer approval, optionally scheduling
// publication for a future instant.
type ApproveContentRequest struct {
	ContentID          uuid.UUID
	ReviewerID         uuid.UUID
	Notes              string
	ScheduledPublishAt *time.Time
}

// RejectContentRequest returns content under review to draft.
type RejectContentRequest struct {
	ContentID        uuid.UUID
	ReviewerID       uuid.UUID
	Reason           string
	RevisionRequired bool
}

// PublishContentRequest moves approved content to published.
type PublishContentRequest struct {
	ContentID   uuid.UUID
	PublisherID uuid.UUID
	Notes       string
}

// UpdateContentRequest creates a new version and resets the workflow to
// draft, discarding any in-flight review or publication metadata.
type UpdateContentRequest struct {
	ContentID       uuid.UUID
	ContentData     string
	AuthorID        uuid.UUID
	ChangeLog       string
	ChangeType      domain.ChangeType
	MetadataUpdates map[string]any
}

// UpdateContentResult carries the new version and the reset lifecycle state.
type UpdateContentResult struct {
	State   *ContentLifecycleState
	Version *versioning.ContentVersion
}

// ArchiveContentRequest retires approved or published content.
type ArchiveContentRequest struct {
	ContentID  uuid.UUID
	ArchiverID uuid.UUID
	Reason     string
}

// ContentSummary aggregates the active version, lifecycle state, review info,
// and transition count into one read-only view for presentation layers.
type ContentSummary struct {
	ContentID          uuid.UUID             `json:"content_id"`
	CurrentStage       domain.Stage          `json:"current_stage"`
	ApprovalStatus     domain.ApprovalStatus `json:"approval_status"`
	VersionID          uuid.UUID             `json:"version_id"`
	VersionNumber      string                `json:"version_number"`
	ContentType        domain.ContentType    `json:"content_type"`
	ContentFormat      domain.ContentFormat  `json:"content_format"`
	ContentHash        string                `json:"content_hash"`
	AuthorID           uuid.UUID             `json:"author_id"`
	AssignedReviewer   *uuid.UUID            `json:"assigned_reviewer,omitempty"`
	ReviewDeadline     *time.Time            `json:"review_deadline,omitempty"`
	ScheduledPublishAt *time.Time            `json:"scheduled_publish_at,omitempty"`
	PublishedAt        *time.Time            `json:"published_at,omitempty"`
	ArchivedAt         *time.Time            `json:"archived_at,omitempty"`
	TransitionCount    int                   `json:"transition_count"`
	LastModified       time.Time             `json:"last_modified"`
}

var (
	ErrContentIDRequired        = errors.New("lifecycle: content id required")
	ErrActorRequired            = errors.New("lifecycle: actor id required")
	ErrStateExists              = errors.New("lifecycle: content already has lifecycle state")
	ErrInvalidTransition        = errors.New("lifecycle: transition not allowed")
	ErrReviewWorkflowFailed     = errors.New("lifecycle: review workflow call failed")
	ErrScheduleTimestampInvalid = errors.New("lifecycle: scheduled publish date must be in the future")
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

// InvalidTransitionError reports a lifecycle operation attempted from a stage
// that does not permit it.
type InvalidTransitionError struct {
	ContentID uuid.UUID
	FromStage domain.Stage
	Operation string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("lifecycle: cannot %s content %s from stage %s", e.Operation, e.ContentID, e.FromStage)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
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

// WithIDGenerator overrides the transition record id generator.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithKeyedMutex shares a lock table with the public version store and the
// branch manager. The service holds the content key for the whole of every
// mutation, including the version store calls it makes, so the version store
// it is built over must run with external locking.
func WithKeyedMutex(mu *locks.KeyedMutex) ServiceOption {
	return func(s *service) {
		if mu != nil {
			s.locks = mu
		}
	}
}

// WithQualityChecker installs an informational pre-submission quality check.
// Results never gate transitions.
func WithQualityChecker(checker interfaces.QualityChecker) ServiceOption {
	return func(s *service) {
		s.quality = checker
	}
}

// WithScheduler enables scheduled publishing through the supplied scheduler.
func WithScheduler(sched interfaces.Scheduler) ServiceOption {
	return func(s *service) {
		s.scheduler = sched
	}
}

// WithLogger attaches a logger to the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	states    StateRepository
	versions  versioning.Service
	recorder  history.Recorder
	engine    interfaces.WorkflowEngine
	review    interfaces.ReviewWorkflow
	quality   interfaces.QualityChecker
	scheduler interfaces.Scheduler
	logger    interfaces.Logger
	locks     *locks.KeyedMutex
	now       func() time.Time
	id        func() uuid.UUID
}

// NewService constructs the lifecycle state machine over its collaborators.
func NewService(
	states StateRepository,
	versions versioning.Service,
	recorder history.Recorder,
	engine interfaces.WorkflowEngine,
	review interfaces.ReviewWorkflow,
	opts ...ServiceOption,
) Service {
	s := &service{
		states:   states,
		versions: versions,
		recorder: recorder,
		engine:   engine,
		review:   review,
		logger:   logging.NoOp(),
		locks:    locks.NewKeyedMutex(),
		now:      time.Now,
		id:       uuid.New,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateContent mints version 1.0.0 through the version store and initialises
// the lifecycle state at draft/pending. The initialisation itself is recorded
// as the content item's first transition. The content key is held across the
// version mint and the state write so the state row can only ever point at
// the active version.
func (s *service) CreateContent(ctx context.Context, req CreateContentRequest) (*CreateContentResult, error) {
	contentID := req.ContentID
	if contentID == uuid.Nil {
		contentID = s.id()
	}

	unlock := s.locks.LockAll(contentLockKey(contentID))
	defer unlock()

	version, err := s.versions.CreateVersion(ctx, versioning.CreateVersionRequest{
		ContentID:     contentID,
		ContentData:   req.ContentData,
		ContentType:   req.ContentType,
		ContentFormat: req.ContentFormat,
		AuthorID:      req.AuthorID,
		ChangeLog:     req.ChangeLog,
		Metadata:      req.Metadata,
		Tags:          req.Tags,
	})
	if err != nil {
		return nil, err
	}

	transition := s.newTransition(contentID, "", domain.StageDraft, "content created", req.AuthorID)
	state, err := s.saveState(ctx, &ContentLifecycleState{
		ContentID:        contentID,
		CurrentStage:     domain.StageDraft,
		ApprovalStatus:   domain.ApprovalPending,
		CurrentVersionID: version.ID,
		LastModified:     s.now(),
	}, &transition, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info("content created", "content_id", contentID, "version", version.VersionNumber)

	return &CreateContentResult{State: state, Version: version}, nil
}

// GetState returns the lifecycle state for a content item.
func (s *service) GetState(ctx context.Context, contentID uuid.UUID) (*ContentLifecycleState, error) {
	if contentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	return s.states.Get(ctx, contentID)
}

// SubmitForReview hands the draft to the review workflow collaborator. The
// external call and the stage transition apply atomically: when the
// collaborator fails, the stage is left untouched and the failure surfaces
// wrapped in ErrReviewWorkflowFailed.
func (s *service) SubmitForReview(ctx context.Context, req SubmitReviewRequest) (*ContentLifecycleState, error) {
	if req.ContentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	if req.AuthorID == uuid.Nil {
		return nil, ErrActorRequired
	}

	unlock := s.locks.LockAll(contentLockKey(req.ContentID))
	defer unlock()

	state, err := s.states.Get(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.transitionStage(ctx, state, "submit_review", req.AuthorID); err != nil {
		return nil, err
	}

	s.runQualityCheck(ctx, state)

	assignment, err := s.review.SubmitForReview(ctx, interfaces.ReviewRequest{
		ContentID: req.ContentID,
		AuthorID:  req.AuthorID,
		Priority:  req.Priority,
		Metadata:  req.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrReviewWorkflowFailed, err)
	}

	transition := s.newTransition(req.ContentID, state.CurrentStage, domain.StageInReview, "submitted for review", req.AuthorID)

	state.CurrentStage = domain.StageInReview
	state.AssignedReviewer = cloneUUIDPtr(&assignment.AssignedReviewer)
	state.ReviewID = cloneUUIDPtr(&assignment.ReviewID)
	deadline := assignment.Deadline
	state.ReviewDeadline = &deadline
	state.LastModified = s.now()

	return s.saveState(ctx, state, &transition, false)
}

// ApproveContent moves content from in_review to approved, optionally
// scheduling publication at a future instant.
func (s *service) ApproveContent(ctx context.Context, req ApproveContentRequest) (*ContentLifecycleState, error) {
	if req.ContentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	if req.ReviewerID == uuid.Nil {
		return nil, ErrActorRequired
	}

	unlock := s.locks.LockAll(contentLockKey(req.ContentID))
	defer unlock()

	state, err := s.states.Get(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.transitionStage(ctx, state, "approve", req.ReviewerID); err != nil {
		return nil, err
	}

	scheduled := false
	if req.ScheduledPublishAt != nil {
		if !req.ScheduledPublishAt.After(s.now()) {
			return nil, fmt.Errorf("%w: %s", ErrScheduleTimestampInvalid, req.ScheduledPublishAt)
		}
		if err := s.enqueuePublish(ctx, req.ContentID, req.ReviewerID, *req.ScheduledPublishAt); err != nil {
			return nil, err
		}
		scheduled = true
	}

	reason := "approved"
	if req.Notes != "" {
		reason = req.Notes
	}
	transition := s.newTransition(req.ContentID, state.CurrentStage, domain.StageApproved, reason, req.ReviewerID)

	state.CurrentStage = domain.StageApproved
	state.ApprovalStatus = domain.ApprovalApproved
	state.ScheduledPublishAt = cloneTimePtr(req.ScheduledPublishAt)
	state.LastModified = s.now()

	updated, err := s.saveState(ctx, state, &transition, false)
	if err != nil {
		// The publish job must not outlive a failed approval.
		if scheduled {
			s.cancelScheduledPublish(ctx, req.ContentID)
		}
		return nil, err
	}
	return updated, nil
}

// RejectContent returns content under review to draft. RevisionRequired
// selects needs_revision over an outright rejection; either way the reviewer
// assignment is cleared.
func (s *service) RejectContent(ctx context.Context, req RejectContentRequest) (*ContentLifecycleState, error) {
	if req.ContentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	if req.ReviewerID == uuid.Nil {
		return nil, ErrActorRequired
	}

	unlock := s.locks.LockAll(contentLockKey(req.ContentID))
	defer unlock()

	state, err := s.states.Get(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.transitionStage(ctx, state, "reject", req.ReviewerID); err != nil {
		return nil, err
	}

	reason := "rejected"
	if req.Reason != "" {
		reason = req.Reason
	}
	transition := s.newTransition(req.ContentID, state.CurrentStage, domain.StageDraft, reason, req.ReviewerID)

	state.CurrentStage = domain.StageDraft
	if req.RevisionRequired {
		state.ApprovalStatus = domain.ApprovalNeedsRevision
	} else {
		state.ApprovalStatus = domain.ApprovalRejected
	}
	state.AssignedReviewer = nil
	state.ReviewID = nil
	state.ReviewDeadline = nil
	state.LastModified = s.now()

	return s.saveState(ctx, state, &transition, false)
}

// PublishContent moves approved content to published and stamps the actual
// publication time. A pending scheduled publish job for the item is cancelled.
func (s *service) PublishContent(ctx context.Context, req PublishContentRequest) (*ContentLifecycleState, error) {
	if req.ContentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	if req.PublisherID == uuid.Nil {
		return nil, ErrActorRequired
	}

	unlock := s.locks.LockAll(contentLockKey(req.ContentID))
	defer unlock()

	state, err := s.states.Get(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.transitionStage(ctx, state, "publish", req.PublisherID); err != nil {
		return nil, err
	}

	reason := "published"
	if req.Notes != "" {
		reason = req.Notes
	}
	transition := s.newTransition(req.ContentID, state.CurrentStage, domain.StagePublished, reason, req.PublisherID)

	s.cancelScheduledPublish(ctx, req.ContentID)

	now := s.now()
	state.CurrentStage = domain.StagePublished
	state.PublishedAt = &now
	state.LastModified = now

	return s.saveState(ctx, state, &transition, false)
}

// UpdateContent creates a new version through the version store and resets
// the workflow to draft/pending, clearing reviewer, deadline, and publish
// fields so a stale review can never attach to new content. The content key
// is held from before the version mint until the state write so concurrent
// updates cannot leave the state row pointing at a superseded version.
func (s *service) UpdateContent(ctx context.Context, req UpdateContentRequest) (*UpdateContentResult, error) {
	if req.ContentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}

	unlock := s.locks.LockAll(contentLockKey(req.ContentID))
	defer unlock()

	version, err := s.versions.UpdateVersion(ctx, versioning.UpdateVersionRequest{
		ContentID:       req.ContentID,
		ContentData:     req.ContentData,
		AuthorID:        req.AuthorID,
		ChangeLog:       req.ChangeLog,
		ChangeType:      req.ChangeType,
		MetadataUpdates: req.MetadataUpdates,
	})
	if err != nil {
		return nil, err
	}

	state, err := s.states.Get(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	var transition *history.Transition
	if state.CurrentStage != domain.StageDraft {
		result, err := s.engine.Transition(ctx, interfaces.TransitionInput{
			EntityID:     state.ContentID,
			EntityType:   workflowEntityType,
			CurrentState: interfaces.WorkflowState(state.CurrentStage),
			TargetState:  interfaces.WorkflowState(domain.StageDraft),
			ActorID:      req.AuthorID,
		})
		if err != nil {
			return nil, &InvalidTransitionError{ContentID: state.ContentID, FromStage: state.CurrentStage, Operation: "update"}
		}
		record := s.newTransition(req.ContentID, domain.Stage(result.FromState), domain.StageDraft, "content updated", req.AuthorID)
		transition = &record
	}

	s.cancelScheduledPublish(ctx, req.ContentID)

	state.CurrentStage = domain.StageDraft
	state.ApprovalStatus = domain.ApprovalPending
	state.AssignedReviewer = nil
	state.ReviewID = nil
	state.ReviewDeadline = nil
	state.ScheduledPublishAt = nil
	state.PublishedAt = nil
	state.CurrentVersionID = version.ID
	state.LastModified = s.now()

	updated, err := s.saveState(ctx, state, transition, false)
	if err != nil {
		return nil, err
	}

	return &UpdateContentResult{State: updated, Version: version}, nil
}

// ArchiveContent retires approved or published content and stamps the
// archival time.
func (s *service) ArchiveContent(ctx context.Context, req ArchiveContentRequest) (*ContentLifecycleState, error) {
	if req.ContentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	if req.ArchiverID == uuid.Nil {
		return nil, ErrActorRequired
	}

	unlock := s.locks.LockAll(contentLockKey(req.ContentID))
	defer unlock()

	state, err := s.states.Get(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.transitionStage(ctx, state, "archive", req.ArchiverID); err != nil {
		return nil, err
	}

	reason := "archived"
	if req.Reason != "" {
		reason = req.Reason
	}
	transition := s.newTransition(req.ContentID, state.CurrentStage, domain.StageArchived, reason, req.ArchiverID)

	s.cancelScheduledPublish(ctx, req.ContentID)

	now := s.now()
	state.CurrentStage = domain.StageArchived
	state.ArchivedAt = &now
	state.ScheduledPublishAt = nil
	state.LastModified = now

	return s.saveState(ctx, state, &transition, false)
}

// GetTransitionHistory lists a content item's transitions oldest first, as
// stored. A positive limit caps the result to the first limit records.
func (s *service) GetTransitionHistory(ctx context.Context, contentID uuid.UUID, limit int) ([]history.Transition, error) {
	if contentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	if _, err := s.states.Get(ctx, contentID); err != nil {
		return nil, err
	}
	return s.recorder.List(ctx, contentID, limit)
}

// GetContentSummary aggregates version, lifecycle, and history data into one
// read-only view.
func (s *service) GetContentSummary(ctx context.Context, contentID uuid.UUID) (*ContentSummary, error) {
	if contentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}

	state, err := s.states.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}
	version, err := s.versions.GetActiveVersion(ctx, contentID)
	if err != nil {
		return nil, err
	}
	count, err := s.recorder.Count(ctx, contentID)
	if err != nil {
		return nil, err
	}

	return &ContentSummary{
		ContentID:          contentID,
		CurrentStage:       state.CurrentStage,
		ApprovalStatus:     state.ApprovalStatus,
		VersionID:          version.ID,
		VersionNumber:      version.VersionNumber,
		ContentType:        version.ContentType,
		ContentFormat:      version.ContentFormat,
		ContentHash:        version.ContentHash,
		AuthorID:           version.AuthorID,
		AssignedReviewer:   cloneUUIDPtr(state.AssignedReviewer),
		ReviewDeadline:     cloneTimePtr(state.ReviewDeadline),
		ScheduledPublishAt: cloneTimePtr(state.ScheduledPublishAt),
		PublishedAt:        cloneTimePtr(state.PublishedAt),
		ArchivedAt:         cloneTimePtr(state.ArchivedAt),
		TransitionCount:    count,
		LastModified:       state.LastModified,
	}, nil
}

func (s *service) transitionStage(ctx context.Context, state *ContentLifecycleState, operation string, actor uuid.UUID) (*interfaces.TransitionResult, error) {
	result, err := s.engine.Transition(ctx, interfaces.TransitionInput{
		EntityID:     state.ContentID,
		EntityType:   workflowEntityType,
		CurrentState: interfaces.WorkflowState(state.CurrentStage),
		Transition:   operation,
		ActorID:      actor,
	})
	if err != nil {
		return nil, &InvalidTransitionError{
			ContentID: state.ContentID,
			FromStage: state.CurrentStage,
			Operation: operation,
		}
	}
	return result, nil
}

func (s *service) newTransition(contentID uuid.UUID, from, to domain.Stage, reason string, actor uuid.UUID) history.Transition {
	return history.Transition{
		ID:        s.id(),
		ContentID: contentID,
		FromStage: from,
		ToStage:   to,
		Reason:    reason,
		ActorID:   actor,
		CreatedAt: s.now(),
	}
}

// saveState persists the state row together with its transition record. When
// the repository supports transactional writes both land in one transaction;
// otherwise the transition is recorded first so a failed record leaves the
// stage untouched.
func (s *service) saveState(ctx context.Context, state *ContentLifecycleState, transition *history.Transition, creating bool) (*ContentLifecycleState, error) {
	if tx, ok := s.states.(StateTransactor); ok {
		if creating {
			return tx.CreateStateWithTransition(ctx, state, transition)
		}
		return tx.UpdateStateWithTransition(ctx, state, transition)
	}

	if transition != nil {
		if err := s.recorder.Record(ctx, *transition); err != nil {
			return nil, err
		}
	}
	if creating {
		return s.states.Create(ctx, state)
	}
	return s.states.Update(ctx, state)
}

// runQualityCheck is informational only. Failures are logged, never surfaced,
// and the result never gates the submission.
func (s *service) runQualityCheck(ctx context.Context, state *ContentLifecycleState) {
	if s.quality == nil {
		return
	}
	version, err := s.versions.GetVersion(ctx, state.CurrentVersionID)
	if err != nil {
		s.logger.Warn("quality check skipped", "content_id", state.ContentID, "error", err)
		return
	}
	result, err := s.quality.CheckQuality(ctx, state.ContentID, version.ContentData)
	if err != nil {
		s.logger.Warn("quality check failed", "content_id", state.ContentID, "error", err)
		return
	}
	s.logger.Info("quality check",
		"content_id", state.ContentID,
		"status", result.Status,
		"score", result.Score,
		"passed", result.Passed,
	)
}

func (s *service) enqueuePublish(ctx context.Context, contentID, actor uuid.UUID, runAt time.Time) error {
	if s.scheduler == nil {
		return nil
	}
	_, err := s.scheduler.Enqueue(ctx, interfaces.JobSpec{
		Key:         scheduler.ContentPublishJobKey(contentID),
		Type:        scheduler.JobTypeContentPublish,
		RunAt:       runAt,
		ContentID:   contentID,
		ScheduledBy: actor,
	})
	if err != nil {
		return fmt.Errorf("lifecycle: schedule publish: %w", err)
	}
	return nil
}

func (s *service) cancelScheduledPublish(ctx context.Context, contentID uuid.UUID) {
	if s.scheduler == nil {
		return
	}
	err := s.scheduler.CancelByKey(ctx, scheduler.ContentPublishJobKey(contentID))
	if err != nil && !errors.Is(err, interfaces.ErrJobNotFound) {
		s.logger.Warn("cancel scheduled publish failed", "content_id", contentID, "error", err)
	}
}

func contentLockKey(contentID uuid.UUID) string {
	return locks.ContentKey(contentID.String())
}
