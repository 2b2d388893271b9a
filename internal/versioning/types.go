package versioning

import (
	"context"
	"time"

	"github.com/goliatone/go-content-lifecycle/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ContentVersion is an immutable snapshot of a content payload. Once created
// only review_status, is_active, and the archival metadata stamps mutate in
// place; every other change mints a new version.
type ContentVersion struct {
	bun.BaseModel `bun:"table:content_versions,alias:cv"`

	ID              uuid.UUID            `bun:",pk,type:uuid" json:"id"`
	ContentID       uuid.UUID            `bun:"content_id,notnull,type:uuid" json:"content_id"`
	BranchName      *string              `bun:"branch_name" json:"branch_name,omitempty"`
	ContentData     string               `bun:"content_data,notnull" json:"content_data,omitempty"`
	ContentType     domain.ContentType   `bun:"content_type,notnull" json:"content_type"`
	ContentFormat   domain.ContentFormat `bun:"content_format,notnull" json:"content_format"`
	AuthorID        uuid.UUID            `bun:"author_id,notnull,type:uuid" json:"author_id"`
	ChangeLog       string               `bun:"change_log" json:"change_log"`
	ChangeType      domain.ChangeType    `bun:"change_type,notnull" json:"change_type"`
	VersionNumber   string               `bun:"version_number,notnull" json:"version_number"`
	ParentVersionID *uuid.UUID           `bun:"parent_version_id,type:uuid" json:"parent_version_id,omitempty"`
	ContentHash     string               `bun:"content_hash,notnull" json:"content_hash"`
	ReviewStatus    domain.Status        `bun:"review_status,notnull,default:'draft'" json:"review_status"`
	IsActive        bool                 `bun:"is_active,notnull,default:false" json:"is_active"`
	Tags            []string             `bun:"tags,type:jsonb" json:"tags,omitempty"`
	Metadata        map[string]any       `bun:"metadata,type:jsonb" json:"metadata,omitempty"`
	CreatedAt       time.Time            `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// VersionBranch is a named, independently advancing pointer into the version
// lineage of one content item. BaseVersionID never changes after creation.
type VersionBranch struct {
	bun.BaseModel `bun:"table:version_branches,alias:vb"`

	ID               uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	Name             string            `bun:"name,notnull" json:"name"`
	ContentID        uuid.UUID         `bun:"content_id,notnull,type:uuid" json:"content_id"`
	BaseVersionID    uuid.UUID         `bun:"base_version_id,notnull,type:uuid" json:"base_version_id"`
	CurrentVersionID uuid.UUID         `bun:"current_version_id,notnull,type:uuid" json:"current_version_id"`
	CreatedBy        uuid.UUID         `bun:"created_by,notnull,type:uuid" json:"created_by"`
	Description      *string           `bun:"description" json:"description,omitempty"`
	TargetPlatforms  []domain.Platform `bun:"target_platforms,type:jsonb" json:"target_platforms,omitempty"`
	CreatedAt        time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// VersionRepository abstracts storage for content versions. CreateActive
// inserts the record and demotes the previous globally active version for the
// same content id in one atomic step.
type VersionRepository interface {
	Create(ctx context.Context, record *ContentVersion) (*ContentVersion, error)
	CreateActive(ctx context.Context, record *ContentVersion) (*ContentVersion, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ContentVersion, error)
	GetActive(ctx context.Context, contentID uuid.UUID) (*ContentVersion, error)
	ListByContent(ctx context.Context, contentID uuid.UUID) ([]*ContentVersion, error)
	Update(ctx context.Context, record *ContentVersion) (*ContentVersion, error)
}

// BranchRepository abstracts storage for version branches, keyed by name.
type BranchRepository interface {
	Create(ctx context.Context, record *VersionBranch) (*VersionBranch, error)
	GetByName(ctx context.Context, name string) (*VersionBranch, error)
	List(ctx context.Context) ([]*VersionBranch, error)
	Update(ctx context.Context, record *VersionBranch) (*VersionBranch, error)
}
