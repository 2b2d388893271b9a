package di

import (
	"context"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-content-lifecycle/internal/adapters/noop"
	"github.com/goliatone/go-content-lifecycle/internal/branches"
	"github.com/goliatone/go-content-lifecycle/internal/commands"
	contentcmd "github.com/goliatone/go-content-lifecycle/internal/commands/content"
	"github.com/goliatone/go-content-lifecycle/internal/diffing"
	"github.com/goliatone/go-content-lifecycle/internal/history"
	"github.com/goliatone/go-content-lifecycle/internal/jobs"
	"github.com/goliatone/go-content-lifecycle/internal/lifecycle"
	"github.com/goliatone/go-content-lifecycle/internal/locks"
	"github.com/goliatone/go-content-lifecycle/internal/logging"
	"github.com/goliatone/go-content-lifecycle/internal/logging/console"
	"github.com/goliatone/go-content-lifecycle/internal/logging/gologger"
	"github.com/goliatone/go-content-lifecycle/internal/runtimeconfig"
	"github.com/goliatone/go-content-lifecycle/internal/scheduler"
	"github.com/goliatone/go-content-lifecycle/internal/versioning"
	"github.com/goliatone/go-content-lifecycle/internal/workflow"
	"github.com/goliatone/go-content-lifecycle/internal/workflow/simple"
	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
)

// Container wires module dependencies. Defaults target the in-memory
// backends; a bun.DB swaps every repository to the database-backed variants.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	mutex          *locks.KeyedMutex

	versionRepo versioning.VersionRepository
	branchRepo  versioning.BranchRepository
	stateRepo   lifecycle.StateRepository
	recorder    history.Recorder

	engine  interfaces.WorkflowEngine
	review  interfaces.ReviewWorkflow
	quality interfaces.QualityChecker
	sched   interfaces.Scheduler

	versionSvc   versioning.Service
	branchSvc    branches.Service
	diffSvc      diffing.Service
	lifecycleSvc lifecycle.Service
	worker       *jobs.Worker
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB switches every repository to the bun-backed implementations.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the cache service used by the bun repositories.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the logging provider resolved from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithKeyedMutex shares an externally owned lock table across every service.
func WithKeyedMutex(mu *locks.KeyedMutex) Option {
	return func(c *Container) {
		if mu != nil {
			c.mutex = mu
		}
	}
}

// WithScheduler overrides the scheduler binding.
func WithScheduler(sched interfaces.Scheduler) Option {
	return func(c *Container) {
		c.sched = sched
	}
}

// WithReviewWorkflow overrides the review collaborator used on submission.
func WithReviewWorkflow(review interfaces.ReviewWorkflow) Option {
	return func(c *Container) {
		c.review = review
	}
}

// WithQualityChecker overrides the pre-review quality gate.
func WithQualityChecker(checker interfaces.QualityChecker) Option {
	return func(c *Container) {
		c.quality = checker
	}
}

// WithWorkflowEngine overrides the state machine implementation.
func WithWorkflowEngine(engine interfaces.WorkflowEngine) Option {
	return func(c *Container) {
		c.engine = engine
	}
}

// WithTransitionRecorder overrides the transition history backend.
func WithTransitionRecorder(recorder history.Recorder) Option {
	return func(c *Container) {
		c.recorder = recorder
	}
}

// WithVersionService overrides the public version service binding. The
// lifecycle state machine keeps its own container-built version store over
// the shared repositories so its locking discipline stays intact.
func WithVersionService(svc versioning.Service) Option {
	return func(c *Container) {
		c.versionSvc = svc
	}
}

// WithBranchService overrides the default branch service binding.
func WithBranchService(svc branches.Service) Option {
	return func(c *Container) {
		c.branchSvc = svc
	}
}

// WithLifecycleService overrides the default lifecycle service binding.
func WithLifecycleService(svc lifecycle.Service) Option {
	return func(c *Container) {
		c.lifecycleSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:      cfg,
		cacheTTL:    cacheTTL,
		mutex:       locks.NewKeyedMutex(),
		versionRepo: versioning.NewMemoryVersionRepository(),
		branchRepo:  versioning.NewMemoryBranchRepository(),
		stateRepo:   lifecycle.NewMemoryStateRepository(),
		recorder:    history.NewInMemoryRecorder(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.configureLogging()
	c.configureCacheDefaults()
	c.configureRepositories()
	if err := c.configureWorkflow(); err != nil {
		return nil, err
	}
	c.configureScheduling()

	if c.review == nil {
		c.review = noop.ReviewWorkflow()
	}
	if c.quality == nil {
		c.quality = noop.QualityChecker()
	}

	versionOpts := []versioning.ServiceOption{
		versioning.WithKeyedMutex(c.mutex),
	}
	if limit := c.Config.Retention.Versions; limit > 0 {
		versionOpts = append(versionOpts, versioning.WithVersionRetentionLimit(limit))
	}
	if c.versionSvc == nil {
		c.versionSvc = versioning.NewService(c.versionRepo, c.branchRepo, versionOpts...)
	}

	// The lifecycle service holds the content key across version mint and
	// state write, so its version store must not take the same key again.
	// It shares repositories with the public service, only locking differs.
	lifecycleVersions := versioning.NewService(
		c.versionRepo,
		c.branchRepo,
		append(versionOpts, versioning.WithExternalLocking())...,
	)

	if c.branchSvc == nil {
		c.branchSvc = branches.NewService(
			c.versionRepo,
			c.branchRepo,
			branches.WithKeyedMutex(c.mutex),
		)
	}

	if c.diffSvc == nil {
		c.diffSvc = diffing.NewService(c.versionRepo)
	}

	if c.lifecycleSvc == nil {
		c.lifecycleSvc = lifecycle.NewService(
			c.stateRepo,
			lifecycleVersions,
			c.recorder,
			c.engine,
			c.review,
			lifecycle.WithKeyedMutex(c.mutex),
			lifecycle.WithQualityChecker(c.quality),
			lifecycle.WithScheduler(c.sched),
			lifecycle.WithLogger(logging.ModuleLogger(c.loggerProvider, "lifecycle")),
		)
	}

	if c.Config.Features.Scheduling {
		commandLogger := commands.CommandLogger(c.loggerProvider, "content")
		c.worker = jobs.NewWorker(
			c.sched,
			contentcmd.NewPublishContentHandler(c.lifecycleSvc, commandLogger),
			contentcmd.NewArchiveContentHandler(c.lifecycleSvc, commandLogger),
			jobs.WithLogger(logging.SchedulerLogger(c.loggerProvider)),
		)
	}

	return c, nil
}

func (c *Container) configureLogging() {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err == nil {
			c.loggerProvider = provider
		}
	case "console":
		opts := console.Options{}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}

	cacheService := c.cacheService
	keySerializer := c.keySerializer
	if !c.Config.Features.AdvancedCache {
		cacheService = nil
		keySerializer = nil
	}

	c.versionRepo = versioning.NewBunVersionRepositoryWithCache(c.bunDB, cacheService, keySerializer)
	c.branchRepo = versioning.NewBunBranchRepositoryWithCache(c.bunDB, cacheService, keySerializer)
	c.stateRepo = lifecycle.NewBunStateRepositoryWithCache(c.bunDB, cacheService, keySerializer)
	c.recorder = history.NewBunRecorder(c.bunDB)
}

func (c *Container) configureWorkflow() error {
	if c.engine == nil {
		c.engine = simple.New()
	}

	if len(c.Config.Workflow.Definitions) == 0 {
		return nil
	}

	definitions, err := workflow.CompileDefinitionConfigs(c.Config.Workflow.Definitions)
	if err != nil {
		return err
	}
	for _, definition := range definitions {
		if err := c.engine.RegisterWorkflow(context.Background(), definition); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) configureScheduling() {
	if c.sched != nil {
		return
	}
	if c.Config.Features.Scheduling {
		c.sched = scheduler.NewInMemory()
		return
	}
	c.sched = scheduler.NewNoOp()
}

// VersionService exposes the wired version store.
func (c *Container) VersionService() versioning.Service {
	return c.versionSvc
}

// BranchService exposes the wired branch manager.
func (c *Container) BranchService() branches.Service {
	return c.branchSvc
}

// DiffService exposes the wired version comparator.
func (c *Container) DiffService() diffing.Service {
	return c.diffSvc
}

// LifecycleService exposes the wired lifecycle state machine.
func (c *Container) LifecycleService() lifecycle.Service {
	return c.lifecycleSvc
}

// TransitionRecorder exposes the transition history backend.
func (c *Container) TransitionRecorder() history.Recorder {
	return c.recorder
}

// WorkflowEngine exposes the wired state machine implementation.
func (c *Container) WorkflowEngine() interfaces.WorkflowEngine {
	return c.engine
}

// Scheduler exposes the wired job scheduler.
func (c *Container) Scheduler() interfaces.Scheduler {
	return c.sched
}

// Worker exposes the scheduled-job worker, nil unless scheduling is enabled.
func (c *Container) Worker() *jobs.Worker {
	return c.worker
}

// LoggerProvider exposes the resolved logging backend, nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// KeyedMutex exposes the shared lock table.
func (c *Container) KeyedMutex() *locks.KeyedMutex {
	return c.mutex
}
