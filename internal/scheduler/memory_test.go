package scheduler_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-content-lifecycle/internal/scheduler"
	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
	"github.com/google/uuid"
)

func newTestScheduler() interfaces.Scheduler {
	counter := 0
	return scheduler.NewInMemory(
		scheduler.WithClock(func() time.Time {
			return time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
		}),
		scheduler.WithIDGenerator(func() string {
			counter++
			return fmt.Sprintf("job-%d", counter)
		}),
	)
}

func TestInMemoryScheduler_EnqueueRequiresRunAt(t *testing.T) {
	sched := newTestScheduler()

	_, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Type: scheduler.JobTypeContentPublish,
	})
	if err == nil {
		t.Fatal("expected error when run_at is missing")
	}
}

func TestInMemoryScheduler_EnqueueRequiresType(t *testing.T) {
	sched := newTestScheduler()

	_, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		RunAt: time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatal("expected error when the job type is missing")
	}
}

func TestInMemoryScheduler_EnqueueReplacesByKey(t *testing.T) {
	sched := newTestScheduler()
	contentID := uuid.New()
	key := scheduler.ContentPublishJobKey(contentID)

	runAt := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	first, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Key:   key,
		Type:  scheduler.JobTypeContentPublish,
		RunAt: runAt,
	})
	if err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	later := runAt.Add(time.Hour)
	second, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Key:   key,
		Type:  scheduler.JobTypeContentPublish,
		RunAt: later,
	})
	if err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("replacement job should receive a fresh ID")
	}

	if _, err := sched.Get(context.Background(), first.ID); !errors.Is(err, interfaces.ErrJobNotFound) {
		t.Fatalf("expected original job to be replaced, got %v", err)
	}

	stored, err := sched.GetByKey(context.Background(), key)
	if err != nil {
		t.Fatalf("GetByKey returned error: %v", err)
	}
	if !stored.RunAt.Equal(later) {
		t.Fatalf("expected run_at %s, got %s", later, stored.RunAt)
	}
}

func TestInMemoryScheduler_ListDueOrdersByRunAt(t *testing.T) {
	sched := newTestScheduler()
	base := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)

	for i, offset := range []time.Duration{2 * time.Hour, time.Hour, 3 * time.Hour} {
		if _, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
			Key:   fmt.Sprintf("key-%d", i),
			Type:  scheduler.JobTypeContentPublish,
			RunAt: base.Add(offset),
		}); err != nil {
			t.Fatalf("Enqueue returned error: %v", err)
		}
	}

	due, err := sched.ListDue(context.Background(), base.Add(2*time.Hour), 0)
	if err != nil {
		t.Fatalf("ListDue returned error: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due jobs, got %d", len(due))
	}
	if due[0].Key != "key-1" || due[1].Key != "key-0" {
		t.Fatalf("jobs out of order: %s, %s", due[0].Key, due[1].Key)
	}
}

func TestInMemoryScheduler_CancelByKey(t *testing.T) {
	sched := newTestScheduler()
	contentID := uuid.New()
	key := scheduler.ContentPublishJobKey(contentID)

	if _, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Key:   key,
		Type:  scheduler.JobTypeContentPublish,
		RunAt: time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	if err := sched.CancelByKey(context.Background(), key); err != nil {
		t.Fatalf("CancelByKey returned error: %v", err)
	}
	if err := sched.CancelByKey(context.Background(), key); !errors.Is(err, interfaces.ErrJobNotFound) {
		t.Fatalf("expected not found after cancel, got %v", err)
	}

	due, err := sched.ListDue(context.Background(), time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), 0)
	if err != nil {
		t.Fatalf("ListDue returned error: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("canceled job should not be due, got %d", len(due))
	}
}

func TestInMemoryScheduler_MarkFailedRetriesUntilLimit(t *testing.T) {
	sched := scheduler.NewInMemory(scheduler.WithDefaultMaxAttempts(2))

	job, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Type:  scheduler.JobTypeContentPublish,
		RunAt: time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	if err := sched.MarkFailed(context.Background(), job.ID, errors.New("worker crashed")); err != nil {
		t.Fatalf("MarkFailed returned error: %v", err)
	}
	stored, err := sched.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.Status != interfaces.JobStatusPending {
		t.Fatalf("expected pending after first failure, got %s", stored.Status)
	}

	if err := sched.MarkFailed(context.Background(), job.ID, errors.New("worker crashed again")); err != nil {
		t.Fatalf("MarkFailed returned error: %v", err)
	}
	stored, err = sched.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.Status != interfaces.JobStatusFailed {
		t.Fatalf("expected failed after exhausting attempts, got %s", stored.Status)
	}
	if stored.LastError != "worker crashed again" {
		t.Fatalf("unexpected last error %q", stored.LastError)
	}
}
