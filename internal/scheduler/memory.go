package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
)

const defaultMaxAttempts = 3

// Option configures the in-memory scheduler.
type Option func(*memoryScheduler)

// WithClock overrides the time source, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *memoryScheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides job ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *memoryScheduler) {
		if gen != nil {
			s.idGen = gen
		}
	}
}

// WithDefaultMaxAttempts sets the retry limit applied when a spec does not
// carry its own.
func WithDefaultMaxAttempts(attempts int) Option {
	return func(s *memoryScheduler) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

// memoryScheduler keeps scheduled lifecycle jobs in process memory. It backs
// tests and single-process deployments; everything is indexed by job ID with a
// secondary key index so one content item holds at most one slot per action.
type memoryScheduler struct {
	mu          sync.Mutex
	jobs        map[string]*interfaces.Job
	byKey       map[string]string
	clock       func() time.Time
	idGen       func() string
	maxAttempts int
}

// NewInMemory builds a process-local scheduler.
func NewInMemory(opts ...Option) interfaces.Scheduler {
	s := &memoryScheduler{
		jobs:        make(map[string]*interfaces.Job),
		byKey:       make(map[string]string),
		clock:       time.Now,
		idGen:       func() string { return uuid.NewString() },
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *memoryScheduler) Enqueue(_ context.Context, spec interfaces.JobSpec) (*interfaces.Job, error) {
	if spec.Type == "" {
		return nil, fmt.Errorf("scheduler: job type is required")
	}
	if spec.RunAt.IsZero() {
		return nil, fmt.Errorf("scheduler: run_at is required")
	}
	if spec.MaxAttempts <= 0 {
		spec.MaxAttempts = s.maxAttempts
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if spec.Key != "" {
		if existingID, ok := s.byKey[spec.Key]; ok {
			delete(s.jobs, existingID)
		}
	}

	now := s.clock()
	job := &interfaces.Job{
		JobSpec:   spec,
		ID:        s.idGen(),
		Status:    interfaces.JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[job.ID] = job
	if spec.Key != "" {
		s.byKey[spec.Key] = job.ID
	}
	return cloneJob(job), nil
}

func (s *memoryScheduler) CancelByKey(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byKey[key]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	job, ok := s.jobs[id]
	if !ok {
		delete(s.byKey, key)
		return interfaces.ErrJobNotFound
	}
	job.Status = interfaces.JobStatusCanceled
	job.UpdatedAt = s.clock()
	delete(s.byKey, key)
	return nil
}

func (s *memoryScheduler) Get(_ context.Context, id string) (*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	return cloneJob(job), nil
}

func (s *memoryScheduler) GetByKey(_ context.Context, key string) (*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byKey[key]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	job, ok := s.jobs[id]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	return cloneJob(job), nil
}

func (s *memoryScheduler) ListDue(_ context.Context, until time.Time, limit int) ([]*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []*interfaces.Job
	for _, job := range s.jobs {
		if job.Status != interfaces.JobStatusPending {
			continue
		}
		if job.RunAt.After(until) {
			continue
		}
		due = append(due, cloneJob(job))
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].RunAt.Before(due[j].RunAt)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *memoryScheduler) MarkDone(_ context.Context, id string) error {
	return s.finish(id, func(job *interfaces.Job) {
		job.Status = interfaces.JobStatusCompleted
	})
}

func (s *memoryScheduler) MarkFailed(_ context.Context, id string, cause error) error {
	return s.finish(id, func(job *interfaces.Job) {
		job.Attempt++
		if cause != nil {
			job.LastError = cause.Error()
		}
		if job.MaxAttempts > 0 && job.Attempt >= job.MaxAttempts {
			job.Status = interfaces.JobStatusFailed
			return
		}
		job.Status = interfaces.JobStatusPending
	})
}

func (s *memoryScheduler) finish(id string, apply func(*interfaces.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	apply(job)
	job.UpdatedAt = s.clock()
	if job.Status != interfaces.JobStatusPending && job.Key != "" {
		delete(s.byKey, job.Key)
	}
	return nil
}

func cloneJob(job *interfaces.Job) *interfaces.Job {
	clone := *job
	return &clone
}
