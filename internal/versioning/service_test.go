package versioning_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-content-lifecycle/internal/domain"
	"github.com/goliatone/go-content-lifecycle/internal/versioning"
	"github.com/google/uuid"
)

func newTestService(t *testing.T, opts ...versioning.ServiceOption) versioning.Service {
	t.Helper()
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	defaults := []versioning.ServiceOption{
		versioning.WithClock(func() time.Time { return fixed }),
	}
	return versioning.NewService(
		versioning.NewMemoryVersionRepository(),
		versioning.NewMemoryBranchRepository(),
		append(defaults, opts...)...,
	)
}

func createInitialVersion(t *testing.T, svc versioning.Service, contentID, authorID uuid.UUID, data string) *versioning.ContentVersion {
	t.Helper()
	version, err := svc.CreateVersion(context.Background(), versioning.CreateVersionRequest{
		ContentID:     contentID,
		ContentData:   data,
		ContentType:   domain.ContentTypeBlogPost,
		ContentFormat: domain.ContentFormatMarkdown,
		AuthorID:      authorID,
		ChangeLog:     "init",
	})
	if err != nil {
		t.Fatalf("CreateVersion returned error: %v", err)
	}
	return version
}

func TestCreateVersion_MintsInitialVersion(t *testing.T) {
	svc := newTestService(t)
	contentID := uuid.New()
	authorID := uuid.New()

	version := createInitialVersion(t, svc, contentID, authorID, "hello")

	if version.VersionNumber != "1.0.0" {
		t.Fatalf("expected version 1.0.0, got %s", version.VersionNumber)
	}
	if version.ChangeType != domain.ChangeTypeCreated {
		t.Fatalf("expected change type created, got %s", version.ChangeType)
	}
	if !version.IsActive {
		t.Fatal("expected initial version to be active")
	}
	if version.ParentVersionID != nil {
		t.Fatal("expected initial version to have no parent")
	}
	if version.ContentHash == "" {
		t.Fatal("expected content hash to be set")
	}
}

func TestCreateVersion_RejectsSecondInitialVersion(t *testing.T) {
	svc := newTestService(t)
	contentID := uuid.New()
	authorID := uuid.New()

	createInitialVersion(t, svc, contentID, authorID, "hello")

	_, err := svc.CreateVersion(context.Background(), versioning.CreateVersionRequest{
		ContentID:     contentID,
		ContentData:   "hello again",
		ContentType:   domain.ContentTypeBlogPost,
		ContentFormat: domain.ContentFormatMarkdown,
		AuthorID:      authorID,
	})
	if !errors.Is(err, versioning.ErrVersionExists) {
		t.Fatalf("expected ErrVersionExists, got %v", err)
	}
}

func TestCreateVersion_RejectsUnknownContentType(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateVersion(context.Background(), versioning.CreateVersionRequest{
		ContentID:     uuid.New(),
		ContentData:   "hello",
		ContentType:   "whitepaper",
		ContentFormat: domain.ContentFormatMarkdown,
		AuthorID:      uuid.New(),
	})
	if !errors.Is(err, versioning.ErrContentTypeInvalid) {
		t.Fatalf("expected ErrContentTypeInvalid, got %v", err)
	}
}

func TestUpdateVersion_BumpsNumberPerChangeType(t *testing.T) {
	svc := newTestService(t)
	contentID := uuid.New()
	authorID := uuid.New()

	createInitialVersion(t, svc, contentID, authorID, "hello")

	steps := []struct {
		changeType domain.ChangeType
		want       string
	}{
		{domain.ChangeTypeUpdated, "1.1.0"},
		{domain.ChangeTypeRepurposed, "2.0.0"},
		{domain.ChangeTypeFormatted, "2.0.1"},
	}

	for _, step := range steps {
		version, err := svc.UpdateVersion(context.Background(), versioning.UpdateVersionRequest{
			ContentID:   contentID,
			ContentData: "hello " + string(step.changeType),
			AuthorID:    authorID,
			ChangeType:  step.changeType,
		})
		if err != nil {
			t.Fatalf("UpdateVersion(%s) returned error: %v", step.changeType, err)
		}
		if version.VersionNumber != step.want {
			t.Fatalf("UpdateVersion(%s) produced %s, want %s", step.changeType, version.VersionNumber, step.want)
		}
	}
}

func TestUpdateVersion_DefaultsToUpdatedChangeType(t *testing.T) {
	svc := newTestService(t)
	contentID := uuid.New()
	authorID := uuid.New()

	createInitialVersion(t, svc, contentID, authorID, "hello")

	version, err := svc.UpdateVersion(context.Background(), versioning.UpdateVersionRequest{
		ContentID:   contentID,
		ContentData: "hello v2",
		AuthorID:    authorID,
	})
	if err != nil {
		t.Fatalf("UpdateVersion returned error: %v", err)
	}
	if version.ChangeType != domain.ChangeTypeUpdated {
		t.Fatalf("expected change type updated, got %s", version.ChangeType)
	}
	if version.VersionNumber != "1.1.0" {
		t.Fatalf("expected version 1.1.0, got %s", version.VersionNumber)
	}
}

func TestUpdateVersion_RejectsCreatedChangeType(t *testing.T) {
	svc := newTestService(t)
	contentID := uuid.New()
	authorID := uuid.New()

	createInitialVersion(t, svc, contentID, authorID, "hello")

	_, err := svc.UpdateVersion(context.Background(), versioning.UpdateVersionRequest{
		ContentID:   contentID,
		ContentData: "hello v2",
		AuthorID:    authorID,
		ChangeType:  domain.ChangeTypeCreated,
	})
	if !errors.Is(err, versioning.ErrChangeTypeCreatedReserved) {
		t.Fatalf("expected ErrChangeTypeCreatedReserved, got %v", err)
	}
}

func TestUpdateVersion_FailsWithoutActiveVersion(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.UpdateVersion(context.Background(), versioning.UpdateVersionRequest{
		ContentID:   uuid.New(),
		ContentData: "hello",
		AuthorID:    uuid.New(),
	})
	var notFound *versioning.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestUpdateVersion_MergesMetadata(t *testing.T) {
	svc := newTestService(t)
	contentID := uuid.New()
	authorID := uuid.New()

	_, err := svc.CreateVersion(context.Background(), versioning.CreateVersionRequest{
		ContentID:     contentID,
		ContentData:   "hello",
		ContentType:   domain.ContentTypeBlogPost,
		ContentFormat: domain.ContentFormatMarkdown,
		AuthorID:      authorID,
		Metadata:      map[string]any{"campaign": "spring", "score": 10},
	})
	if err != nil {
		t.Fatalf("CreateVersion returned error: %v", err)
	}

	version, err := svc.UpdateVersion(context.Background(), versioning.UpdateVersionRequest{
		ContentID:       contentID,
		ContentData:     "hello v2",
		AuthorID:        authorID,
		MetadataUpdates: map[string]any{"score": 20, "editor": "jo"},
	})
	if err != nil {
		t.Fatalf("UpdateVersion returned error: %v", err)
	}

	if version.Metadata["campaign"] != "spring" {
		t.Fatalf("expected campaign preserved from parent, got %v", version.Metadata["campaign"])
	}
	if version.Metadata["score"] != 20 {
		t.Fatalf("expected score overridden to 20, got %v", version.Metadata["score"])
	}
	if version.Metadata["editor"] != "jo" {
		t.Fatalf("expected editor added, got %v", version.Metadata["editor"])
	}
}

func TestCreateVersion_RejectsMalformedMetadata(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateVersion(context.Background(), versioning.CreateVersionRequest{
		ContentID:     uuid.New(),
		ContentData:   "hello",
		ContentType:   domain.ContentTypeBlogPost,
		ContentFormat: domain.ContentFormatMarkdown,
		AuthorID:      uuid.New(),
		Metadata:      map[string]any{"nested": map[string]any{"too": "deep"}},
	})
	if !errors.Is(err, versioning.ErrMetadataInvalid) {
		t.Fatalf("expected ErrMetadataInvalid, got %v", err)
	}
}

func TestContentHash_DeterministicAcrossContentIDs(t *testing.T) {
	svc := newTestService(t)
	authorID := uuid.New()

	first := createInitialVersion(t, svc, uuid.New(), authorID, "same payload")
	second := createInitialVersion(t, svc, uuid.New(), authorID, "same payload")
	third := createInitialVersion(t, svc, uuid.New(), authorID, "different payload")

	if first.ContentHash != second.ContentHash {
		t.Fatalf("identical payloads hashed differently: %s vs %s", first.ContentHash, second.ContentHash)
	}
	if first.ContentHash == third.ContentHash {
		t.Fatal("different payloads produced the same hash")
	}
}

func TestSingleActiveVersionInvariant(t *testing.T) {
	svc := newTestService(t)
	contentID := uuid.New()
	authorID := uuid.New()

	v1 := createInitialVersion(t, svc, contentID, authorID, "v1")
	if _, err := svc.UpdateVersion(context.Background(), versioning.UpdateVersionRequest{
		ContentID:   contentID,
		ContentData: "v2",
		AuthorID:    authorID,
	}); err != nil {
		t.Fatalf("UpdateVersion returned error: %v", err)
	}
	if _, err := svc.RollbackVersion(context.Background(), versioning.RollbackVersionRequest{
		ContentID:       contentID,
		TargetVersionID: v1.ID,
		AuthorID:        authorID,
	}); err != nil {
		t.Fatalf("RollbackVersion returned error: %v", err)
	}

	history, err := svc.GetVersionHistory(context.Background(), versioning.HistoryQuery{ContentID: contentID})
	if err != nil {
		t.Fatalf("GetVersionHistory returned error: %v", err)
	}

	var active int
	for _, version := range history {
		if version.IsActive {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active version, got %d", active)
	}
}

func TestRollbackVersion_CopiesTargetPayloadForward(t *testing.T) {
	svc := newTestService(t)
	contentID := uuid.New()
	authorID := uuid.New()

	v1 := createInitialVersion(t, svc, contentID, authorID, "original")
	if _, err := svc.UpdateVersion(context.Background(), versioning.UpdateVersionRequest{
		ContentID:   contentID,
		ContentData: "edited",
		AuthorID:    authorID,
	}); err != nil {
		t.Fatalf("UpdateVersion returned error: %v", err)
	}

	restored, err := svc.RollbackVersion(context.Background(), versioning.RollbackVersionRequest{
		ContentID:       contentID,
		TargetVersionID: v1.ID,
		AuthorID:        authorID,
		Reason:          "bad edit",
	})
	if err != nil {
		t.Fatalf("RollbackVersion returned error: %v", err)
	}

	if restored.ContentData != v1.ContentData {
		t.Fatalf("expected rollback payload %q, got %q", v1.ContentData, restored.ContentData)
	}
	if restored.ID == v1.ID {
		t.Fatal("rollback must mint a new version, not reactivate the target")
	}
	if restored.ChangeType != domain.ChangeTypeRolledBack {
		t.Fatalf("expected change type rolled_back, got %s", restored.ChangeType)
	}
	if restored.VersionNumber != "1.1.1" {
		t.Fatalf("expected version 1.1.1, got %s", restored.VersionNumber)
	}

	var hasRollbackTag bool
	for _, tag := range restored.Tags {
		if tag == "rollback" {
			hasRollbackTag = true
		}
	}
	if !hasRollbackTag {
		t.Fatal("expected rollback tag on restored version")
	}

	active, err := svc.GetActiveVersion(context.Background(), contentID)
	if err != nil {
		t.Fatalf("GetActiveVersion returned error: %v", err)
	}
	if active.ID != restored.ID {
		t.Fatalf("expected active pointer at %s, got %s", restored.ID, active.ID)
	}
}

func TestArchiveVersion_StampsMetadataAndDeactivates(t *testing.T) {
	svc := newTestService(t)
	contentID := uuid.New()
	authorID := uuid.New()

	version := createInitialVersion(t, svc, contentID, authorID, "hello")

	if err := svc.ArchiveVersion(context.Background(), versioning.ArchiveVersionRequest{
		VersionID: version.ID,
		AuthorID:  authorID,
		Reason:    "superseded",
	}); err != nil {
		t.Fatalf("ArchiveVersion returned error: %v", err)
	}

	archived, err := svc.GetVersion(context.Background(), version.ID)
	if err != nil {
		t.Fatalf("GetVersion returned error: %v", err)
	}
	if archived.ReviewStatus != domain.StatusArchived {
		t.Fatalf("expected review status archived, got %s", archived.ReviewStatus)
	}
	if archived.IsActive {
		t.Fatal("expected archived version to be inactive")
	}
	if archived.Metadata["archived_by"] != authorID.String() {
		t.Fatalf("expected archived_by stamp, got %v", archived.Metadata["archived_by"])
	}
	if archived.Metadata["archive_reason"] != "superseded" {
		t.Fatalf("expected archive_reason stamp, got %v", archived.Metadata["archive_reason"])
	}
	if archived.Metadata["archived_at"] == nil {
		t.Fatal("expected archived_at stamp")
	}

	if err := svc.ArchiveVersion(context.Background(), versioning.ArchiveVersionRequest{
		VersionID: version.ID,
		AuthorID:  authorID,
	}); !errors.Is(err, versioning.ErrVersionArchived) {
		t.Fatalf("expected ErrVersionArchived on double archive, got %v", err)
	}
}

func TestGetVersionHistory_MostRecentFirstWithLimit(t *testing.T) {
	svc := newTestService(t)
	contentID := uuid.New()
	authorID := uuid.New()

	createInitialVersion(t, svc, contentID, authorID, "v1")
	for _, data := range []string{"v2", "v3", "v4"} {
		if _, err := svc.UpdateVersion(context.Background(), versioning.UpdateVersionRequest{
			ContentID:   contentID,
			ContentData: data,
			AuthorID:    authorID,
		}); err != nil {
			t.Fatalf("UpdateVersion(%s) returned error: %v", data, err)
		}
	}

	history, err := svc.GetVersionHistory(context.Background(), versioning.HistoryQuery{
		ContentID: contentID,
		Limit:     2,
	})
	if err != nil {
		t.Fatalf("GetVersionHistory returned error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].ContentData != "v4" || history[1].ContentData != "v3" {
		t.Fatalf("expected most recent first, got %q then %q", history[0].ContentData, history[1].ContentData)
	}
}

func TestGetVersionHistory_WithoutContentOmitsPayload(t *testing.T) {
	svc := newTestService(t)
	contentID := uuid.New()
	authorID := uuid.New()

	createInitialVersion(t, svc, contentID, authorID, "payload")

	history, err := svc.GetVersionHistory(context.Background(), versioning.HistoryQuery{
		ContentID:      contentID,
		WithoutContent: true,
	})
	if err != nil {
		t.Fatalf("GetVersionHistory returned error: %v", err)
	}
	if history[0].ContentData != "" {
		t.Fatalf("expected payload omitted, got %q", history[0].ContentData)
	}
}

func TestUpdateVersion_RetentionLimitEnforced(t *testing.T) {
	svc := newTestService(t, versioning.WithVersionRetentionLimit(2))
	contentID := uuid.New()
	authorID := uuid.New()

	createInitialVersion(t, svc, contentID, authorID, "v1")
	if _, err := svc.UpdateVersion(context.Background(), versioning.UpdateVersionRequest{
		ContentID:   contentID,
		ContentData: "v2",
		AuthorID:    authorID,
	}); err != nil {
		t.Fatalf("UpdateVersion returned error: %v", err)
	}

	_, err := svc.UpdateVersion(context.Background(), versioning.UpdateVersionRequest{
		ContentID:   contentID,
		ContentData: "v3",
		AuthorID:    authorID,
	})
	if !errors.Is(err, versioning.ErrVersionRetentionExceeded) {
		t.Fatalf("expected ErrVersionRetentionExceeded, got %v", err)
	}
}

func TestUpdateVersion_BranchScopedAdvancesBranchPointerOnly(t *testing.T) {
	versions := versioning.NewMemoryVersionRepository()
	branches := versioning.NewMemoryBranchRepository()
	svc := versioning.NewService(versions, branches)

	contentID := uuid.New()
	authorID := uuid.New()

	base, err := svc.CreateVersion(context.Background(), versioning.CreateVersionRequest{
		ContentID:     contentID,
		ContentData:   "main",
		ContentType:   domain.ContentTypeBlogPost,
		ContentFormat: domain.ContentFormatMarkdown,
		AuthorID:      authorID,
	})
	if err != nil {
		t.Fatalf("CreateVersion returned error: %v", err)
	}

	branch := &versioning.VersionBranch{
		ID:               uuid.New(),
		Name:             "twitter-variant",
		ContentID:        contentID,
		BaseVersionID:    base.ID,
		CurrentVersionID: base.ID,
		CreatedBy:        authorID,
	}
	if _, err := branches.Create(context.Background(), branch); err != nil {
		t.Fatalf("branch Create returned error: %v", err)
	}

	branched, err := svc.UpdateVersion(context.Background(), versioning.UpdateVersionRequest{
		ContentID:   contentID,
		ContentData: "main, shortened",
		AuthorID:    authorID,
		BranchName:  "twitter-variant",
	})
	if err != nil {
		t.Fatalf("branch-scoped UpdateVersion returned error: %v", err)
	}
	if branched.IsActive {
		t.Fatal("branch-scoped versions must not take the global active pointer")
	}
	if branched.BranchName == nil || *branched.BranchName != "twitter-variant" {
		t.Fatalf("expected branch name on version, got %v", branched.BranchName)
	}

	active, err := svc.GetActiveVersion(context.Background(), contentID)
	if err != nil {
		t.Fatalf("GetActiveVersion returned error: %v", err)
	}
	if active.ID != base.ID {
		t.Fatal("global active pointer moved on a branch-scoped update")
	}

	updated, err := branches.GetByName(context.Background(), "twitter-variant")
	if err != nil {
		t.Fatalf("branch GetByName returned error: %v", err)
	}
	if updated.CurrentVersionID != branched.ID {
		t.Fatalf("expected branch pointer at %s, got %s", branched.ID, updated.CurrentVersionID)
	}
}
