package di_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-content-lifecycle/internal/di"
	"github.com/goliatone/go-content-lifecycle/internal/diffing"
	"github.com/goliatone/go-content-lifecycle/internal/domain"
	"github.com/goliatone/go-content-lifecycle/internal/lifecycle"
	"github.com/goliatone/go-content-lifecycle/internal/runtimeconfig"
	"github.com/goliatone/go-content-lifecycle/internal/scheduler"
	"github.com/goliatone/go-content-lifecycle/internal/versioning"
	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
	"github.com/google/uuid"
)

func TestContainer_DefaultWiringRunsFullLifecycle(t *testing.T) {
	container := mustContainer(t, runtimeconfig.DefaultConfig())

	svc := container.LifecycleService()
	created, err := svc.CreateContent(context.Background(), lifecycle.CreateContentRequest{
		ContentData:   "# Hello",
		ContentType:   domain.ContentTypeArticle,
		ContentFormat: domain.ContentFormatMarkdown,
		AuthorID:      uuid.New(),
	})
	if err != nil {
		t.Fatalf("CreateContent returned error: %v", err)
	}
	contentID := created.State.ContentID

	if _, err := svc.SubmitForReview(context.Background(), lifecycle.SubmitReviewRequest{
		ContentID: contentID,
		AuthorID:  uuid.New(),
	}); err != nil {
		t.Fatalf("SubmitForReview returned error: %v", err)
	}
	if _, err := svc.ApproveContent(context.Background(), lifecycle.ApproveContentRequest{
		ContentID:  contentID,
		ReviewerID: uuid.New(),
	}); err != nil {
		t.Fatalf("ApproveContent returned error: %v", err)
	}
	state, err := svc.PublishContent(context.Background(), lifecycle.PublishContentRequest{
		ContentID:   contentID,
		PublisherID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("PublishContent returned error: %v", err)
	}
	if state.CurrentStage != domain.StagePublished {
		t.Fatalf("expected published, got %s", state.CurrentStage)
	}

	// Version and diff services share the same repositories.
	active, err := container.VersionService().GetActiveVersion(context.Background(), contentID)
	if err != nil {
		t.Fatalf("GetActiveVersion returned error: %v", err)
	}
	diff, err := container.DiffService().CompareVersions(context.Background(), active.ID, active.ID)
	if err != nil {
		t.Fatalf("CompareVersions returned error: %v", err)
	}
	if diff.ChangeSummary != diffing.NoChangesSummary {
		t.Fatalf("expected a version to be identical to itself, got %q", diff.ChangeSummary)
	}
}

func TestContainer_SchedulingFeatureBuildsWorker(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Scheduling = true

	container := mustContainer(t, cfg)
	if container.Worker() == nil {
		t.Fatal("expected a worker when scheduling is enabled")
	}

	sched := container.Scheduler()
	if _, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Type:  scheduler.JobTypeContentPublish,
		Key:   "content:test:publish",
		RunAt: time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}
}

func TestContainer_SchedulingDisabledUsesNoOpScheduler(t *testing.T) {
	container := mustContainer(t, runtimeconfig.DefaultConfig())

	if container.Worker() != nil {
		t.Fatal("worker should not be built when scheduling is disabled")
	}
	sched := container.Scheduler()
	if _, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Type:  scheduler.JobTypeContentPublish,
		Key:   "content:test:publish",
		RunAt: time.Now(),
	}); err != nil {
		t.Fatalf("no-op Enqueue returned error: %v", err)
	}
	if _, err := sched.GetByKey(context.Background(), "content:test:publish"); err == nil {
		t.Fatal("no-op scheduler should not retain jobs")
	}
}

func TestContainer_CustomWorkflowDefinitionRegistered(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Workflow.Definitions = []runtimeconfig.WorkflowDefinitionConfig{
		{
			Entity: "campaign",
			States: []runtimeconfig.WorkflowStateConfig{
				{Name: "draft", Initial: true},
				{Name: "live"},
			},
			Transitions: []runtimeconfig.WorkflowTransitionConfig{
				{Name: "launch", From: "draft", To: "live"},
			},
		},
	}

	container := mustContainer(t, cfg)
	result, err := container.WorkflowEngine().Transition(context.Background(), interfaces.TransitionInput{
		EntityID:     uuid.New(),
		EntityType:   "campaign",
		CurrentState: "draft",
		Transition:   "launch",
	})
	if err != nil {
		t.Fatalf("Transition returned error: %v", err)
	}
	if result.ToState != "live" {
		t.Fatalf("expected live, got %s", result.ToState)
	}
}

func TestContainer_RetentionLimitAppliedToVersionService(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Retention.Versions = 2

	container := mustContainer(t, cfg)
	svc := container.VersionService()

	created, err := svc.CreateVersion(context.Background(), versioning.CreateVersionRequest{
		ContentID:     uuid.New(),
		ContentData:   "v1",
		ContentType:   domain.ContentTypeArticle,
		ContentFormat: domain.ContentFormatPlainText,
		AuthorID:      uuid.New(),
	})
	if err != nil {
		t.Fatalf("CreateVersion returned error: %v", err)
	}
	if _, err := svc.UpdateVersion(context.Background(), versioning.UpdateVersionRequest{
		ContentID:   created.ContentID,
		ContentData: "v2",
		AuthorID:    uuid.New(),
		ChangeType:  domain.ChangeTypeUpdated,
	}); err != nil {
		t.Fatalf("UpdateVersion returned error: %v", err)
	}

	_, err = svc.UpdateVersion(context.Background(), versioning.UpdateVersionRequest{
		ContentID:   created.ContentID,
		ContentData: "v3",
		AuthorID:    uuid.New(),
		ChangeType:  domain.ChangeTypeUpdated,
	})
	if !errors.Is(err, versioning.ErrVersionRetentionExceeded) {
		t.Fatalf("expected retention limit error, got %v", err)
	}
}

func TestContainer_InvalidConfigRejected(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Versioning = false
	cfg.Features.Branching = true

	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrBranchingFeatureRequiresVersioning) {
		t.Fatalf("expected branching validation error, got %v", err)
	}
}

func mustContainer(t *testing.T, cfg runtimeconfig.Config, opts ...di.Option) *di.Container {
	t.Helper()
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	return container
}
