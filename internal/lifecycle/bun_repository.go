package lifecycle

import (
	"context"
	"fmt"

	"github.com/goliatone/go-content-lifecycle/internal/history"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewStateRepository builds the generic bun repository for lifecycle states.
func NewStateRepository(db *bun.DB) repository.Repository[*ContentLifecycleState] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentLifecycleState]{
		NewRecord: func() *ContentLifecycleState { return &ContentLifecycleState{} },
		GetID: func(s *ContentLifecycleState) uuid.UUID {
			return s.ContentID
		},
		SetID: func(s *ContentLifecycleState, id uuid.UUID) {
			s.ContentID = id
		},
		GetIdentifier: func() string {
			return "content_id"
		},
		GetIdentifierValue: func(s *ContentLifecycleState) string {
			if s == nil {
				return ""
			}
			return s.ContentID.String()
		},
	})
}

// BunStateRepository persists lifecycle states through go-repository-bun.
type BunStateRepository struct {
	db   *bun.DB
	repo repository.Repository[*ContentLifecycleState]
}

func NewBunStateRepository(db *bun.DB) *BunStateRepository {
	return NewBunStateRepositoryWithCache(db, nil, nil)
}

// NewBunStateRepositoryWithCache constructs a StateRepository with optional caching.
func NewBunStateRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunStateRepository {
	base := NewStateRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunStateRepository{db: db, repo: base}
}

func (r *BunStateRepository) Create(ctx context.Context, record *ContentLifecycleState) (*ContentLifecycleState, error) {
	if _, err := r.repo.GetByID(ctx, record.ContentID.String()); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrStateExists, record.ContentID)
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "lifecycle state", record.ContentID.String())
	}
	return created, nil
}

func (r *BunStateRepository) Get(ctx context.Context, contentID uuid.UUID) (*ContentLifecycleState, error) {
	result, err := r.repo.GetByID(ctx, contentID.String())
	if err != nil {
		return nil, mapRepositoryError(err, "lifecycle state", contentID.String())
	}
	return result, nil
}

func (r *BunStateRepository) Update(ctx context.Context, record *ContentLifecycleState) (*ContentLifecycleState, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ContentID.String()),
		repository.UpdateColumns(
			"current_stage",
			"approval_status",
			"current_version_id",
			"assigned_reviewer",
			"review_id",
			"review_deadline",
			"scheduled_publish_at",
			"published_at",
			"archived_at",
			"last_modified",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "lifecycle state", record.ContentID.String())
	}
	return updated, nil
}

// CreateStateWithTransition inserts the state row and its initial transition
// record inside a single transaction, mirroring how the version repository
// moves the active pointer.
func (r *BunStateRepository) CreateStateWithTransition(ctx context.Context, record *ContentLifecycleState, transition *history.Transition) (*ContentLifecycleState, error) {
	if r.db == nil {
		return nil, fmt.Errorf("lifecycle state repository: database not configured")
	}
	if _, err := r.repo.GetByID(ctx, record.ContentID.String()); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrStateExists, record.ContentID)
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			return fmt.Errorf("insert lifecycle state: %w", err)
		}
		if transition != nil {
			if _, err := tx.NewInsert().Model(transition).Exec(ctx); err != nil {
				return fmt.Errorf("insert transition: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateStateWithTransition writes the state row and appends the transition
// record inside a single transaction so neither can land without the other.
func (r *BunStateRepository) UpdateStateWithTransition(ctx context.Context, record *ContentLifecycleState, transition *history.Transition) (*ContentLifecycleState, error) {
	if r.db == nil {
		return nil, fmt.Errorf("lifecycle state repository: database not configured")
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model(record).
			Column(
				"current_stage",
				"approval_status",
				"current_version_id",
				"assigned_reviewer",
				"review_id",
				"review_deadline",
				"scheduled_publish_at",
				"published_at",
				"archived_at",
				"last_modified",
			).
			Where("?TableAlias.content_id = ?", record.ContentID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update lifecycle state: %w", err)
		}
		if affected, err := result.RowsAffected(); err == nil && affected == 0 {
			return &NotFoundError{Resource: "lifecycle state", Key: record.ContentID.String()}
		}
		if transition != nil {
			if _, err := tx.NewInsert().Model(transition).Exec(ctx); err != nil {
				return fmt.Errorf("insert transition: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
