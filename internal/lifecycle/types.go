package lifecycle

import (
	"context"
	"time"

	"github.com/goliatone/go-content-lifecycle/internal/domain"
	"github.com/goliatone/go-content-lifecycle/internal/history"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ContentLifecycleState tracks the approval stage of one content item. There
// is exactly one row per content id; CurrentVersionID mirrors the version
// store's active pointer.
type ContentLifecycleState struct {
	bun.BaseModel `bun:"table:content_lifecycle_states,alias:cls"`

	ContentID          uuid.UUID             `bun:"content_id,pk,type:uuid" json:"content_id"`
	CurrentStage       domain.Stage          `bun:"current_stage,notnull" json:"current_stage"`
	ApprovalStatus     domain.ApprovalStatus `bun:"approval_status,notnull" json:"approval_status"`
	CurrentVersionID   uuid.UUID             `bun:"current_version_id,notnull,type:uuid" json:"current_version_id"`
	AssignedReviewer   *uuid.UUID            `bun:"assigned_reviewer,type:uuid" json:"assigned_reviewer,omitempty"`
	ReviewID           *uuid.UUID            `bun:"review_id,type:uuid" json:"review_id,omitempty"`
	ReviewDeadline     *time.Time            `bun:"review_deadline,nullzero" json:"review_deadline,omitempty"`
	ScheduledPublishAt *time.Time            `bun:"scheduled_publish_at,nullzero" json:"scheduled_publish_at,omitempty"`
	PublishedAt        *time.Time            `bun:"published_at,nullzero" json:"published_at,omitempty"`
	ArchivedAt         *time.Time            `bun:"archived_at,nullzero" json:"archived_at,omitempty"`
	LastModified       time.Time             `bun:"last_modified,notnull" json:"last_modified"`
}

// StateRepository abstracts storage for lifecycle states, keyed by content id.
type StateRepository interface {
	Create(ctx context.Context, record *ContentLifecycleState) (*ContentLifecycleState, error)
	Get(ctx context.Context, contentID uuid.UUID) (*ContentLifecycleState, error)
	Update(ctx context.Context, record *ContentLifecycleState) (*ContentLifecycleState, error)
}

// StateTransactor is an optional StateRepository extension. Implementations
// persist the state row and its transition record inside one transaction so a
// failed state write never leaves a stray transition behind. A nil transition
// writes the state row alone.
type StateTransactor interface {
	CreateStateWithTransition(ctx context.Context, record *ContentLifecycleState, transition *history.Transition) (*ContentLifecycleState, error)
	UpdateStateWithTransition(ctx context.Context, record *ContentLifecycleState, transition *history.Transition) (*ContentLifecycleState, error)
}

func cloneState(src *ContentLifecycleState) *ContentLifecycleState {
	if src == nil {
		return nil
	}
	clone := *src
	clone.AssignedReviewer = cloneUUIDPtr(src.AssignedReviewer)
	clone.ReviewID = cloneUUIDPtr(src.ReviewID)
	clone.ReviewDeadline = cloneTimePtr(src.ReviewDeadline)
	clone.ScheduledPublishAt = cloneTimePtr(src.ScheduledPublishAt)
	clone.PublishedAt = cloneTimePtr(src.PublishedAt)
	clone.ArchivedAt = cloneTimePtr(src.ArchivedAt)
	return &clone
}

func cloneUUIDPtr(src *uuid.UUID) *uuid.UUID {
	if src == nil {
		return nil
	}
	clone := *src
	return &clone
}

func cloneTimePtr(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	clone := *src
	return &clone
}
