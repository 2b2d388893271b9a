package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-content-lifecycle/internal/domain"
	"github.com/goliatone/go-content-lifecycle/internal/history"
	"github.com/google/uuid"
)

func TestInMemoryRecorder_AppendOrderIsPreserved(t *testing.T) {
	recorder := history.NewInMemoryRecorder()
	contentID := uuid.New()
	actorID := uuid.New()

	stages := []struct {
		from domain.Stage
		to   domain.Stage
	}{
		{"", domain.StageDraft},
		{domain.StageDraft, domain.StageInReview},
		{domain.StageInReview, domain.StageDraft},
	}

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, step := range stages {
		if err := recorder.Record(context.Background(), history.Transition{
			ID:        uuid.New(),
			ContentID: contentID,
			FromStage: step.from,
			ToStage:   step.to,
			ActorID:   actorID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	list, err := recorder.List(context.Background(), contentID, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 transitions, got %d", len(list))
	}
	for i, step := range stages {
		if list[i].FromStage != step.from || list[i].ToStage != step.to {
			t.Fatalf("transition %d is %s -> %s, want %s -> %s",
				i, list[i].FromStage, list[i].ToStage, step.from, step.to)
		}
	}
}

func TestInMemoryRecorder_LimitAppliesToStoredOrder(t *testing.T) {
	recorder := history.NewInMemoryRecorder()
	contentID := uuid.New()

	for _, to := range []domain.Stage{domain.StageDraft, domain.StageInReview, domain.StageApproved} {
		if err := recorder.Record(context.Background(), history.Transition{
			ID:        uuid.New(),
			ContentID: contentID,
			ToStage:   to,
			ActorID:   uuid.New(),
		}); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	list, err := recorder.List(context.Background(), contentID, 2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(list))
	}
	if list[0].ToStage != domain.StageDraft || list[1].ToStage != domain.StageInReview {
		t.Fatalf("limit did not keep stored order: %s, %s", list[0].ToStage, list[1].ToStage)
	}
}

func TestInMemoryRecorder_CountsPerContent(t *testing.T) {
	recorder := history.NewInMemoryRecorder()
	first := uuid.New()
	second := uuid.New()

	for range 3 {
		if err := recorder.Record(context.Background(), history.Transition{
			ID:        uuid.New(),
			ContentID: first,
			ToStage:   domain.StageDraft,
			ActorID:   uuid.New(),
		}); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	count, err := recorder.Count(context.Background(), first)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}

	count, err = recorder.Count(context.Background(), second)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected count 0, got %d", count)
	}
}

func TestInMemoryRecorder_FailPropagates(t *testing.T) {
	recorder := history.NewInMemoryRecorder()
	boom := errors.New("boom")
	recorder.Fail(boom)

	err := recorder.Record(context.Background(), history.Transition{
		ID:        uuid.New(),
		ContentID: uuid.New(),
		ToStage:   domain.StageDraft,
		ActorID:   uuid.New(),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected configured failure, got %v", err)
	}
}
