package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrSchedulingFeatureRequiresVersioning ensures scheduling stays behind the versioning flag.
var ErrSchedulingFeatureRequiresVersioning = errors.New("lifecycle config: scheduling feature requires versioning to be enabled")

// ErrBranchingFeatureRequiresVersioning ensures branch workflows only build on top of version storage.
var ErrBranchingFeatureRequiresVersioning = errors.New("lifecycle config: branching feature requires versioning to be enabled")

// ErrAdvancedCacheRequiresEnabledCache ensures cached repositories only build when cache is enabled.
var ErrAdvancedCacheRequiresEnabledCache = errors.New("lifecycle config: advanced cache feature requires cache to be enabled")

var ErrStorageProviderUnknown = errors.New("lifecycle config: storage provider is invalid")
var ErrLoggingProviderRequired = errors.New("lifecycle config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("lifecycle config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("lifecycle config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("lifecycle config: logging format is invalid")
var ErrWorkflowProviderUnknown = errors.New("lifecycle config: workflow provider is invalid")
var ErrWorkflowProviderConfiguredWhenDisabled = errors.New("lifecycle config: workflow provider configured while workflow feature is disabled")
var ErrVersionRetentionLimitInvalid = errors.New("lifecycle config: version retention limit must be zero or positive")

// Config carries module-wide wiring knobs. The zero value disables every
// optional subsystem; DefaultConfig returns the recommended baseline.
type Config struct {
	Storage   StorageConfig   `json:"storage"`
	Cache     CacheConfig     `json:"cache"`
	Retention RetentionConfig `json:"retention"`
	Features  Features        `json:"features"`
	Logging   LoggingConfig   `json:"logging"`
	Workflow  WorkflowConfig  `json:"workflow"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Provider string `json:"provider"` // "memory" or "bun"
}

// CacheConfig controls repository read caching.
type CacheConfig struct {
	Enabled    bool          `json:"enabled"`
	DefaultTTL time.Duration `json:"default_ttl"`
}

// RetentionConfig caps how many versions are kept per content item.
// Zero means unlimited.
type RetentionConfig struct {
	Versions int `json:"versions"`
}

// Features toggles optional subsystems.
type Features struct {
	Versioning    bool `json:"versioning"`
	Branching     bool `json:"branching"`
	Diff          bool `json:"diff"`
	Workflow      bool `json:"workflow"`
	Scheduling    bool `json:"scheduling"`
	Logger        bool `json:"logger"`
	AdvancedCache bool `json:"advanced_cache"`
}

// LoggingConfig selects and tunes the logging provider.
type LoggingConfig struct {
	Provider  string   `json:"provider"` // "console" or "gologger"
	Level     string   `json:"level"`
	Format    string   `json:"format"` // gologger only: "json", "console", "pretty"
	AddSource bool     `json:"add_source"`
	Focus     []string `json:"focus"`
}

// WorkflowConfig configures the lifecycle state machine.
type WorkflowConfig struct {
	Provider    string                     `json:"provider"` // "simple" or empty
	Definitions []WorkflowDefinitionConfig `json:"definitions"`
}

// WorkflowDefinitionConfig declares a named state machine for an entity type.
type WorkflowDefinitionConfig struct {
	Entity      string                     `json:"entity"`
	States      []WorkflowStateConfig      `json:"states"`
	Transitions []WorkflowTransitionConfig `json:"transitions"`
}

// WorkflowStateConfig declares a single workflow state.
type WorkflowStateConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Initial     bool   `json:"initial"`
	Terminal    bool   `json:"terminal"`
}

// WorkflowTransitionConfig declares a directed edge between two states.
type WorkflowTransitionConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	From        string `json:"from"`
	To          string `json:"to"`
	Guard       string `json:"guard"`
}

// DefaultConfig returns the baseline module configuration with the core
// subsystems enabled against the in-memory storage provider.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Retention: RetentionConfig{},
		Features: Features{
			Versioning: true,
			Branching:  true,
			Diff:       true,
			Workflow:   true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
		Workflow: WorkflowConfig{
			Provider: "simple",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Features.Scheduling && !cfg.Features.Versioning {
		return ErrSchedulingFeatureRequiresVersioning
	}
	if cfg.Features.Branching && !cfg.Features.Versioning {
		return ErrBranchingFeatureRequiresVersioning
	}
	if cfg.Features.AdvancedCache && !cfg.Cache.Enabled {
		return ErrAdvancedCacheRequiresEnabledCache
	}
	if provider := normalizeProvider(cfg.Storage.Provider); provider != "" {
		switch provider {
		case "memory", "bun":
		default:
			return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
		}
	}
	if cfg.Retention.Versions < 0 {
		return fmt.Errorf("%w: versions", ErrVersionRetentionLimitInvalid)
	}
	if provider := normalizeProvider(cfg.Workflow.Provider); provider != "" {
		if !cfg.Features.Workflow {
			return ErrWorkflowProviderConfiguredWhenDisabled
		}
		if provider != "simple" {
			return fmt.Errorf("%w: %s", ErrWorkflowProviderUnknown, provider)
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedLoggingProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedLoggingProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
