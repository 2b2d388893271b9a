package versioning

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunVersionRepository persists content versions through go-repository-bun.
type BunVersionRepository struct {
	db   *bun.DB
	repo repository.Repository[*ContentVersion]
}

func NewBunVersionRepository(db *bun.DB) *BunVersionRepository {
	return NewBunVersionRepositoryWithCache(db, nil, nil)
}

// NewBunVersionRepositoryWithCache constructs a VersionRepository with optional caching.
func NewBunVersionRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunVersionRepository {
	base := NewVersionRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunVersionRepository{db: db, repo: wrapped}
}

func (r *BunVersionRepository) Create(ctx context.Context, record *ContentVersion) (*ContentVersion, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "version", record.ID.String())
	}
	return created, nil
}

// CreateActive demotes the previously active version and inserts the new one
// inside a single transaction so the active pointer never points at two rows.
func (r *BunVersionRepository) CreateActive(ctx context.Context, record *ContentVersion) (*ContentVersion, error) {
	if r.db == nil {
		return nil, fmt.Errorf("version repository: database not configured")
	}

	record.IsActive = true
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().
			Model((*ContentVersion)(nil)).
			Set("is_active = ?", false).
			Where("?TableAlias.content_id = ?", record.ContentID).
			Where("?TableAlias.is_active = ?", true).
			Exec(ctx); err != nil {
			return fmt.Errorf("demote active version: %w", err)
		}

		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunVersionRepository) GetByID(ctx context.Context, id uuid.UUID) (*ContentVersion, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "version", id.String())
	}
	return result, nil
}

func (r *BunVersionRepository) GetActive(ctx context.Context, contentID uuid.UUID) (*ContentVersion, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_id = ?", contentID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.is_active = ?", true)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "active version", contentID.String())
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "active version", Key: contentID.String()}
	}
	return records[0], nil
}

func (r *BunVersionRepository) ListByContent(ctx context.Context, contentID uuid.UUID) ([]*ContentVersion, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_id = ?", contentID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "version", contentID.String())
	}
	return records, nil
}

func (r *BunVersionRepository) Update(ctx context.Context, record *ContentVersion) (*ContentVersion, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"review_status",
			"is_active",
			"metadata",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "version", record.ID.String())
	}
	return updated, nil
}

// BunBranchRepository persists version branches through go-repository-bun.
type BunBranchRepository struct {
	repo repository.Repository[*VersionBranch]
}

func NewBunBranchRepository(db *bun.DB) *BunBranchRepository {
	return NewBunBranchRepositoryWithCache(db, nil, nil)
}

// NewBunBranchRepositoryWithCache constructs a BranchRepository with optional caching.
func NewBunBranchRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunBranchRepository {
	base := NewBranchRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunBranchRepository{repo: wrapped}
}

func (r *BunBranchRepository) Create(ctx context.Context, record *VersionBranch) (*VersionBranch, error) {
	if _, err := r.repo.GetByIdentifier(ctx, record.Name); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBranchExists, record.Name)
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "branch", record.Name)
	}
	return created, nil
}

func (r *BunBranchRepository) GetByName(ctx context.Context, name string) (*VersionBranch, error) {
	result, err := r.repo.GetByIdentifier(ctx, name)
	if err != nil {
		return nil, mapRepositoryError(err, "branch", name)
	}
	return result, nil
}

func (r *BunBranchRepository) List(ctx context.Context) ([]*VersionBranch, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "branch", "")
	}
	return records, nil
}

func (r *BunBranchRepository) Update(ctx context.Context, record *VersionBranch) (*VersionBranch, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("current_version_id"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "branch", record.Name)
	}
	return updated, nil
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

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
