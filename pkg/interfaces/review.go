package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReviewRequest carries the information forwarded to the review workflow
// collaborator when content is submitted for review.
type ReviewRequest struct {
	ContentID uuid.UUID
	AuthorID  uuid.UUID
	Priority  string
	Metadata  map[string]any
}

// ReviewAssignment is the collaborator's answer: who reviews the content and
// by when. The lifecycle service treats it as opaque beyond storing it.
type ReviewAssignment struct {
	ReviewID         uuid.UUID
	AssignedReviewer uuid.UUID
	Deadline         time.Time
}

// ReviewWorkflow assigns reviewers and deadlines for submitted content.
// Failures propagate as the submitting operation's failure; the lifecycle
// stage is left untouched when the collaborator errors.
type ReviewWorkflow interface {
	SubmitForReview(ctx context.Context, req ReviewRequest) (*ReviewAssignment, error)
}

// QualityCheckResult is an informational pre-submission signal. The lifecycle
// core never gates transitions on it.
type QualityCheckResult struct {
	Passed    bool
	Status    string
	Score     float64
	Issues    []string
	CheckedAt time.Time
}

// QualityChecker evaluates a content payload ahead of review submission.
type QualityChecker interface {
	CheckQuality(ctx context.Context, contentID uuid.UUID, payload string) (*QualityCheckResult, error)
}
