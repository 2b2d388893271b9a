package noop

import (
	"context"
	"time"

	"github.com/goliatone/go-content-lifecycle/internal/identity"
	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
	"github.com/google/uuid"
)

const defaultReviewWindow = 72 * time.Hour

// ReviewWorkflow returns a review collaborator that assigns a deterministic
// reviewer derived from the content identifier and a deadline a fixed window
// from the current time. It never fails, which makes it suitable for
// standalone deployments and tests that exercise the happy path.
func ReviewWorkflow(opts ...ReviewOption) interfaces.ReviewWorkflow {
	adapter := &reviewAdapter{now: time.Now}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// ReviewOption customizes the no-op review workflow.
type ReviewOption func(*reviewAdapter)

// WithReviewClock overrides the clock used when computing deadlines.
func WithReviewClock(clock func() time.Time) ReviewOption {
	return func(a *reviewAdapter) {
		if clock != nil {
			a.now = clock
		}
	}
}

type reviewAdapter struct {
	now func() time.Time
}

func (a *reviewAdapter) SubmitForReview(_ context.Context, req interfaces.ReviewRequest) (*interfaces.ReviewAssignment, error) {
	return &interfaces.ReviewAssignment{
		ReviewID:         identity.UUID("lifecycle:review:" + req.ContentID.String()),
		AssignedReviewer: identity.ReviewerUUID(req.ContentID),
		Deadline:         a.now().Add(defaultReviewWindow),
	}, nil
}

// QualityChecker returns a checker that approves every payload.
func QualityChecker() interfaces.QualityChecker {
	return qualityAdapter{}
}

type qualityAdapter struct{}

func (qualityAdapter) CheckQuality(_ context.Context, _ uuid.UUID, _ string) (*interfaces.QualityCheckResult, error) {
	return &interfaces.QualityCheckResult{
		Passed:    true,
		Status:    "passed",
		Score:     1,
		CheckedAt: time.Now().UTC(),
	}, nil
}
