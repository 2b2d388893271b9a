package domain

import "strings"

// Status represents version-level review states for stored content versions.
type Status string

const (
	// StatusDraft indicates a version still under preparation
	StatusDraft Status = "draft"
	// StatusPublished identifies a version that has been released to consumers
	StatusPublished Status = "published"
	// StatusArchived marks a version that is retained for history but no longer active
	StatusArchived Status = "archived"
)

// Stage represents the approval/publication lifecycle stage of a content item.
// It is orthogonal to, but synchronized with, the item's active version.
type Stage string

const (
	// StageDraft is the initial stage and the stage every content update returns to
	StageDraft Stage = "draft"
	// StageInReview marks content handed to a reviewer
	StageInReview Stage = "in_review"
	// StageApproved marks content cleared for publication
	StageApproved Stage = "approved"
	// StagePublished marks content visible to consumers
	StagePublished Stage = "published"
	// StageArchived is the terminal stage
	StageArchived Stage = "archived"
)

// Stages lists every lifecycle stage in graph order.
func Stages() []Stage {
	return []Stage{StageDraft, StageInReview, StageApproved, StagePublished, StageArchived}
}

// Valid reports whether the stage belongs to the closed stage set.
func (s Stage) Valid() bool {
	switch s {
	case StageDraft, StageInReview, StageApproved, StagePublished, StageArchived:
		return true
	default:
		return false
	}
}

// NormalizeStage coerces arbitrary stage strings into the canonical representation.
// Unknown inputs are returned lowercased so callers can surface them in errors.
func NormalizeStage(input string) Stage {
	if strings.TrimSpace(input) == "" {
		return StageDraft
	}
	return Stage(strings.ToLower(strings.TrimSpace(input)))
}

// ApprovalStatus tracks the reviewer decision attached to a lifecycle state.
type ApprovalStatus string

const (
	ApprovalPending       ApprovalStatus = "pending"
	ApprovalApproved      ApprovalStatus = "approved"
	ApprovalNeedsRevision ApprovalStatus = "needs_revision"
	ApprovalRejected      ApprovalStatus = "rejected"
)

// Valid reports whether the approval status belongs to the closed set.
func (a ApprovalStatus) Valid() bool {
	switch a {
	case ApprovalPending, ApprovalApproved, ApprovalNeedsRevision, ApprovalRejected:
		return true
	default:
		return false
	}
}
