package di_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-content-lifecycle/internal/di"
	"github.com/goliatone/go-content-lifecycle/internal/logging/console"
	"github.com/goliatone/go-content-lifecycle/internal/runtimeconfig"
)

func TestContainer_LoggingDisabledLeavesProviderUnset(t *testing.T) {
	container := mustContainer(t, runtimeconfig.DefaultConfig())
	if container.LoggerProvider() != nil {
		t.Fatal("logger provider should stay nil while the logging feature is off")
	}
}

func TestContainer_ConsoleProviderResolvedFromConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "console"
	cfg.Logging.Level = "warn"

	container := mustContainer(t, cfg)
	provider := container.LoggerProvider()
	if provider == nil {
		t.Fatal("expected a console logger provider")
	}
	if provider.GetLogger("lifecycle") == nil {
		t.Fatal("provider should hand out named loggers")
	}
}

func TestContainer_LoggerProviderOptionWins(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "console"

	var sink strings.Builder
	custom := console.NewProvider(console.Options{Writer: &sink})

	container := mustContainer(t, cfg, di.WithLoggerProvider(custom))
	if container.LoggerProvider() != custom {
		t.Fatal("explicit provider should not be replaced by config resolution")
	}
}
