package versioning

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewVersionRepository(db *bun.DB) repository.Repository[*ContentVersion] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentVersion]{
		NewRecord: func() *ContentVersion { return &ContentVersion{} },
		GetID: func(v *ContentVersion) uuid.UUID {
			return v.ID
		},
		SetID: func(v *ContentVersion, id uuid.UUID) {
			v.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(v *ContentVersion) string {
			if v == nil {
				return ""
			}
			return v.ID.String()
		},
	})
}

func NewBranchRepository(db *bun.DB) repository.Repository[*VersionBranch] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*VersionBranch]{
		NewRecord: func() *VersionBranch { return &VersionBranch{} },
		GetID: func(b *VersionBranch) uuid.UUID {
			return b.ID
		},
		SetID: func(b *VersionBranch, id uuid.UUID) {
			b.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(b *VersionBranch) string {
			return b.Name
		},
	})
}
