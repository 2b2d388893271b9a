package jobs

import (
	"context"
	"errors"
	"time"

	contentcmd "github.com/goliatone/go-content-lifecycle/internal/commands/content"
	"github.com/goliatone/go-content-lifecycle/internal/identity"
	"github.com/goliatone/go-content-lifecycle/internal/logging"
	lifecyclescheduler "github.com/goliatone/go-content-lifecycle/internal/scheduler"
	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
	"github.com/google/uuid"
)

// ContentPublisher executes publish commands for due jobs.
type ContentPublisher interface {
	Execute(ctx context.Context, msg contentcmd.PublishContentCommand) error
}

// ContentArchiver executes archive commands for due jobs.
type ContentArchiver interface {
	Execute(ctx context.Context, msg contentcmd.ArchiveContentCommand) error
}

// Worker drains due scheduler jobs and dispatches them through the content
// command handlers. Jobs that fail are handed back to the scheduler for retry
// accounting; unknown job types are completed without effect.
type Worker struct {
	scheduler interfaces.Scheduler
	publisher ContentPublisher
	archiver  ContentArchiver
	audit     AuditRecorder
	logger    interfaces.Logger
	now       func() time.Time
	batchSize int
}

// Option configures the worker.
type Option func(*Worker)

// WithAuditRecorder installs an audit trail for applied jobs.
func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(w *Worker) {
		w.audit = recorder
	}
}

// WithClock overrides the clock used to pick due jobs.
func WithClock(clock func() time.Time) Option {
	return func(w *Worker) {
		if clock != nil {
			w.now = clock
		}
	}
}

// WithBatchSize caps the number of jobs drained per Process call.
func WithBatchSize(size int) Option {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

// WithLogger attaches a logger to the worker.
func WithLogger(logger interfaces.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWorker constructs a worker over the scheduler and command handlers.
func NewWorker(scheduler interfaces.Scheduler, publisher ContentPublisher, archiver ContentArchiver, opts ...Option) *Worker {
	w := &Worker{
		scheduler: scheduler,
		publisher: publisher,
		archiver:  archiver,
		logger:    logging.NoOp(),
		now:       time.Now,
		batchSize: 50,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Process drains one batch of due jobs.
func (w *Worker) Process(ctx context.Context) error {
	if w.scheduler == nil {
		return errors.New("jobs: scheduler is nil")
	}
	deadline := w.now()
	due, err := w.scheduler.ListDue(ctx, deadline, w.batchSize)
	if err != nil {
		return err
	}
	for _, job := range due {
		if job == nil {
			continue
		}
		if err := w.handleJob(ctx, job, deadline); err != nil {
			w.logger.Error("job failed", "job_id", job.ID, "job_type", job.Type, "error", err)
			_ = w.scheduler.MarkFailed(ctx, job.ID, err)
			continue
		}
		_ = w.scheduler.MarkDone(ctx, job.ID)
	}
	return nil
}

func (w *Worker) handleJob(ctx context.Context, job *interfaces.Job, now time.Time) error {
	switch job.Type {
	case lifecyclescheduler.JobTypeContentPublish:
		return w.publish(ctx, job, now)
	case lifecyclescheduler.JobTypeContentArchive:
		return w.archive(ctx, job, now)
	default:
		w.logger.Warn("skipping unknown job type", "job_id", job.ID, "job_type", job.Type)
		return nil
	}
}

func (w *Worker) publish(ctx context.Context, job *interfaces.Job, now time.Time) error {
	if w.publisher == nil {
		return errors.New("jobs: content publisher is nil")
	}
	if job.ContentID == uuid.Nil {
		return errors.New("jobs: publish job carries no content id")
	}
	actor := actorOrSystem(job.ScheduledBy)
	if err := w.publisher.Execute(ctx, contentcmd.PublishContentCommand{
		ContentID:   job.ContentID,
		PublisherID: actor,
		Notes:       "scheduled publish",
	}); err != nil {
		return err
	}
	w.recordAudit(ctx, job, "publish", actor, now)
	return nil
}

func (w *Worker) archive(ctx context.Context, job *interfaces.Job, now time.Time) error {
	if w.archiver == nil {
		return errors.New("jobs: content archiver is nil")
	}
	if job.ContentID == uuid.Nil {
		return errors.New("jobs: archive job carries no content id")
	}
	actor := actorOrSystem(job.ScheduledBy)
	if err := w.archiver.Execute(ctx, contentcmd.ArchiveContentCommand{
		ContentID:  job.ContentID,
		ArchiverID: actor,
		Reason:     "scheduled archive",
	}); err != nil {
		return err
	}
	w.recordAudit(ctx, job, "archive", actor, now)
	return nil
}

func (w *Worker) recordAudit(ctx context.Context, job *interfaces.Job, action string, actor uuid.UUID, now time.Time) {
	if w.audit == nil {
		return
	}
	_ = w.audit.Record(ctx, AuditEvent{
		JobID:      job.ID,
		JobType:    job.Type,
		ContentID:  job.ContentID,
		Action:     action,
		Actor:      actor,
		Attempt:    job.Attempt,
		RunAt:      job.RunAt,
		OccurredAt: now,
	})
}

// actorOrSystem falls back to a stable system identity when the job does not
// carry the scheduling actor.
func actorOrSystem(actor uuid.UUID) uuid.UUID {
	if actor != uuid.Nil {
		return actor
	}
	return identity.UUID("lifecycle:system:scheduler")
}
