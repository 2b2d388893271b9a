package di_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-content-lifecycle/internal/di"
	"github.com/goliatone/go-content-lifecycle/internal/domain"
	"github.com/goliatone/go-content-lifecycle/internal/lifecycle"
	"github.com/goliatone/go-content-lifecycle/internal/runtimeconfig"
	"github.com/goliatone/go-content-lifecycle/pkg/testsupport"
	"github.com/google/uuid"
)

func TestContainer_BunStorageRunsFullLifecycle(t *testing.T) {
	db, err := testsupport.NewBunSQLiteDB()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := testsupport.CreateLifecycleTables(ctx, db); err != nil {
		t.Fatalf("create tables: %v", err)
	}

	container := mustContainer(t, runtimeconfig.DefaultConfig(), di.WithBunDB(db))
	svc := container.LifecycleService()

	created, err := svc.CreateContent(ctx, lifecycle.CreateContentRequest{
		ContentData:   "Fall launch announcement",
		ContentType:   domain.ContentTypeArticle,
		ContentFormat: domain.ContentFormatPlainText,
		AuthorID:      uuid.New(),
	})
	if err != nil {
		t.Fatalf("CreateContent returned error: %v", err)
	}
	contentID := created.State.ContentID

	if _, err := svc.SubmitForReview(ctx, lifecycle.SubmitReviewRequest{
		ContentID: contentID,
		AuthorID:  uuid.New(),
	}); err != nil {
		t.Fatalf("SubmitForReview returned error: %v", err)
	}
	if _, err := svc.ApproveContent(ctx, lifecycle.ApproveContentRequest{
		ContentID:  contentID,
		ReviewerID: uuid.New(),
	}); err != nil {
		t.Fatalf("ApproveContent returned error: %v", err)
	}
	state, err := svc.PublishContent(ctx, lifecycle.PublishContentRequest{
		ContentID:   contentID,
		PublisherID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("PublishContent returned error: %v", err)
	}
	if state.CurrentStage != domain.StagePublished {
		t.Fatalf("expected published, got %s", state.CurrentStage)
	}

	transitions, err := svc.GetTransitionHistory(ctx, contentID, 0)
	if err != nil {
		t.Fatalf("GetTransitionHistory returned error: %v", err)
	}
	if len(transitions) != 4 {
		t.Fatalf("expected 4 recorded transitions, got %d", len(transitions))
	}
	if transitions[len(transitions)-1].ToStage != domain.StagePublished {
		t.Fatalf("expected the last transition to land on published, got %s", transitions[len(transitions)-1].ToStage)
	}

	active, err := container.VersionService().GetActiveVersion(ctx, contentID)
	if err != nil {
		t.Fatalf("GetActiveVersion returned error: %v", err)
	}
	if active.VersionNumber != "1.0.0" {
		t.Fatalf("expected initial version 1.0.0, got %s", active.VersionNumber)
	}
}
