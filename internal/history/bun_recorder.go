package history

import (
	"context"
	"fmt"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRecorder persists lifecycle transitions through go-repository-bun.
type BunRecorder struct {
	repo repository.Repository[*Transition]
}

func NewTransitionRepository(db *bun.DB) repository.Repository[*Transition] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Transition]{
		NewRecord: func() *Transition { return &Transition{} },
		GetID: func(t *Transition) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Transition, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(t *Transition) string {
			if t == nil {
				return ""
			}
			return t.ID.String()
		},
	})
}

// NewBunRecorder constructs a transition recorder backed by bun.
func NewBunRecorder(db *bun.DB) *BunRecorder {
	return &BunRecorder{repo: NewTransitionRepository(db)}
}

// Record appends the transition.
func (r *BunRecorder) Record(ctx context.Context, transition Transition) error {
	if transition.ID == uuid.Nil {
		transition.ID = uuid.New()
	}
	if _, err := r.repo.Create(ctx, &transition); err != nil {
		return fmt.Errorf("transition repository error: %w", err)
	}
	return nil
}

// List returns transitions for a content item oldest first. A positive limit
// caps the result to the first limit records in stored order.
func (r *BunRecorder) List(ctx context.Context, contentID uuid.UUID, limit int) ([]Transition, error) {
	criteria := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_id = ?", contentID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at ASC")
		}),
	}
	if limit > 0 {
		criteria = append(criteria, repository.SelectPaginate(limit, 0))
	}

	records, _, err := r.repo.List(ctx, criteria...)
	if err != nil {
		return nil, fmt.Errorf("transition repository error: %w", err)
	}
	out := make([]Transition, len(records))
	for i, record := range records {
		out[i] = *record
	}
	return out, nil
}

// Count reports the number of transitions recorded for a content item.
func (r *BunRecorder) Count(ctx context.Context, contentID uuid.UUID) (int, error) {
	records, err := r.List(ctx, contentID, 0)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}
