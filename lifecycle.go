package contentlifecycle

import (
	"github.com/goliatone/go-content-lifecycle/internal/branches"
	"github.com/goliatone/go-content-lifecycle/internal/di"
	"github.com/goliatone/go-content-lifecycle/internal/diffing"
	"github.com/goliatone/go-content-lifecycle/internal/history"
	"github.com/goliatone/go-content-lifecycle/internal/jobs"
	"github.com/goliatone/go-content-lifecycle/internal/lifecycle"
	"github.com/goliatone/go-content-lifecycle/internal/versioning"
	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
)

// VersionService exports the version store contract.
type VersionService = versioning.Service

// BranchService exports the branch management contract.
type BranchService = branches.Service

// DiffService exports the version comparison contract.
type DiffService = diffing.Service

// LifecycleService exports the workflow state machine contract.
type LifecycleService = lifecycle.Service

// TransitionRecorder exports the transition history contract.
type TransitionRecorder = history.Recorder

// Module represents the top level content lifecycle runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a lifecycle module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Versions returns the configured version store.
func (m *Module) Versions() VersionService {
	return m.container.VersionService()
}

// Branches returns the configured branch manager.
func (m *Module) Branches() BranchService {
	return m.container.BranchService()
}

// Diffs returns the configured version comparator.
func (m *Module) Diffs() DiffService {
	return m.container.DiffService()
}

// Lifecycle returns the configured workflow state machine.
func (m *Module) Lifecycle() LifecycleService {
	return m.container.LifecycleService()
}

// History returns the configured transition recorder.
func (m *Module) History() TransitionRecorder {
	return m.container.TransitionRecorder()
}

// Scheduler returns the configured scheduling backend.
func (m *Module) Scheduler() interfaces.Scheduler {
	return m.container.Scheduler()
}

// WorkflowEngine returns the configured state machine implementation.
func (m *Module) WorkflowEngine() interfaces.WorkflowEngine {
	return m.container.WorkflowEngine()
}

// Worker returns the scheduled-job worker, nil unless scheduling is enabled.
func (m *Module) Worker() *jobs.Worker {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Worker()
}
