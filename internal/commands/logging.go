package commands

import (
	"strings"

	"github.com/goliatone/go-content-lifecycle/internal/logging"
	"github.com/goliatone/go-content-lifecycle/pkg/interfaces"
)

const commandModuleRoot = "lifecycle.commands"

// CommandLogger returns a module-scoped logger for command handlers, enriched
// with consistent structured fields so executions can be filtered per module.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
