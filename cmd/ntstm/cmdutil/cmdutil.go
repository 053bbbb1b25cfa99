// Package cmdutil holds state and helpers shared by the ntstm commands.
package cmdutil

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/marmos91/ntstm/internal/cli/output"
	"github.com/marmos91/ntstm/internal/logger"
	"github.com/marmos91/ntstm/pkg/config"
	"github.com/marmos91/ntstm/pkg/stream"
)

// Version is the version reported to the trace backend. The root command
// sets it from the build variables.
var Version = "dev"

// GlobalFlags holds the persistent flags of the root command.
type GlobalFlags struct {
	ConfigFile string
	NoColor    bool
}

// Flags is populated by the root command before any subcommand runs.
var Flags GlobalFlags

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// NewPrinter returns a printer on w. Colors are used only when w is a
// terminal and --no-color is not set.
func NewPrinter(w io.Writer, format output.Format) *output.Printer {
	color := false
	if f, ok := w.(*os.File); ok && !Flags.NoColor {
		color = logger.IsTerminal(f)
	}
	return output.NewPrinter(w, format, color)
}

// OutputOptions converts the buffer configuration into OutputBuffer
// options.
func OutputOptions(cfg *config.Config) []stream.OutputOption {
	opts := []stream.OutputOption{stream.WithGrowthShift(cfg.Buffer.GrowthShift)}
	if limit := cfg.Buffer.MaxSize.Int(); limit > 0 {
		opts = append(opts, stream.WithMaxSize(limit))
	}
	return opts
}

// Setup returns the configuration and context of the running command,
// falling back to defaults when no session was started.
func Setup() (*config.Config, context.Context) {
	if s := Current(); s != nil {
		return s.Config, s.Context()
	}
	return config.GetDefaultConfig(), context.Background()
}
