package logging

import (
	"context"
	"maps"
	"sort"

	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
)

const (
	rootModule      = "lifecycle"
	versionsModule  = "lifecycle.versions"
	branchesModule  = "lifecycle.branches"
	diffModule      = "lifecycle.diff"
	workflowModule  = "lifecycle.workflow"
	historyModule   = "lifecycle.history"
	schedulerModule = "lifecycle.scheduler"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// VersionsLogger returns the logger namespace reserved for the version store.
func VersionsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, versionsModule)
}

// BranchesLogger returns the logger namespace reserved for branch management.
func BranchesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, branchesModule)
}

// DiffLogger returns the logger namespace reserved for the diff engine.
func DiffLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, diffModule)
}

// WorkflowLogger returns the logger namespace reserved for the lifecycle state machine.
func WorkflowLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, workflowModule)
}

// HistoryLogger returns the logger namespace reserved for the transition log.
func HistoryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, historyModule)
}

// SchedulerLogger returns the logger namespace reserved for scheduler workers.
func SchedulerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, schedulerModule)
}

// WithFields attaches structured fields to a logger. Implementations that
// support the FieldsLogger extension receive the fields directly; anything
// else is wrapped so the fields ride along as trailing key/value args on every
// entry. Nil loggers and empty field maps pass through untouched.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(copied)
	}
	return &fieldArgsLogger{inner: logger, args: fieldArgs(copied)}
}

func fieldArgs(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(fields)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

// fieldArgsLogger emulates persistent fields for loggers without native
// field support by appending them to every call's variadic args.
type fieldArgsLogger struct {
	inner interfaces.Logger
	args  []any
}

var _ interfaces.Logger = (*fieldArgsLogger)(nil)

func (l *fieldArgsLogger) Debug(msg string, args ...any) {
	l.inner.Debug(msg, append(args, l.args...)...)
}

func (l *fieldArgsLogger) Info(msg string, args ...any) {
	l.inner.Info(msg, append(args, l.args...)...)
}

func (l *fieldArgsLogger) Warn(msg string, args ...any) {
	l.inner.Warn(msg, append(args, l.args...)...)
}

func (l *fieldArgsLogger) Error(msg string, args ...any) {
	l.inner.Error(msg, append(args, l.args...)...)
}

func (l *fieldArgsLogger) WithContext(ctx context.Context) interfaces.Logger {
	return &fieldArgsLogger{inner: l.inner.WithContext(ctx), args: l.args}
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
