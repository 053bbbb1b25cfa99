package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/ntstm/internal/logger"
	"github.com/marmos91/ntstm/internal/telemetry"
	"github.com/marmos91/ntstm/pkg/config"
	"github.com/marmos91/ntstm/pkg/metrics"
)

// AnnotationBootstrap marks commands that must run without loading the
// configuration (for example the command that creates it).
const AnnotationBootstrap = "ntstm/bootstrap"

// Session holds everything one command invocation sets up: the loaded
// configuration, the root span and the observability backends.
type Session struct {
	Config *config.Config
	RunID  string

	ctx               context.Context
	span              trace.Span
	shutdownTelemetry func(context.Context) error
	metricsServer     *http.Server
}

var (
	sessionMu sync.Mutex
	current   *Session
)

// Current returns the session of the running command, or nil before
// Start.
func Current() *Session {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	return current
}

// Context returns the command context carrying the log context and the
// command span.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Start loads the configuration and initializes logging, tracing and
// metrics for cmd. Bootstrap commands get the default configuration and
// no backends.
func Start(cmd *cobra.Command) error {
	s := &Session{RunID: uuid.NewString()}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if isBootstrap(cmd) {
		s.Config = config.GetDefaultConfig()
		s.ctx = logger.WithContext(ctx, logger.NewLogContext(s.RunID, cmd.CommandPath()))
		cmd.SetContext(s.ctx)
		setCurrent(s)
		return nil
	}

	cfg, err := config.MustLoad(Flags.ConfigFile)
	if err != nil {
		return err
	}
	s.Config = cfg

	if err := InitLogger(cfg); err != nil {
		return err
	}

	s.shutdownTelemetry, err = telemetry.Init(ctx, telemetry.NewConfig(
		Version,
		cfg.Telemetry.Enabled,
		cfg.Telemetry.Endpoint,
		cfg.Telemetry.Insecure,
		cfg.Telemetry.SampleRate,
	))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	if cfg.Metrics.Enabled {
		if err := s.startMetrics(cfg.Metrics.Port); err != nil {
			_ = s.shutdownTelemetry(ctx)
			return err
		}
	}

	ctx, s.span = telemetry.StartCommandSpan(ctx, cmd.Name(), s.RunID)
	lc := logger.NewLogContext(s.RunID, cmd.CommandPath()).
		WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
	s.ctx = logger.WithContext(ctx, lc)

	cmd.SetContext(s.ctx)
	setCurrent(s)

	logger.DebugCtx(s.ctx, "Command started",
		logger.Path(configSource(Flags.ConfigFile)),
		"telemetry", telemetry.IsEnabled(),
		"metrics", metrics.IsEnabled())
	return nil
}

// startMetrics enables the registry and serves it on port. The listener
// is bound before returning so address errors surface immediately.
func (s *Session) startMetrics(port int) error {
	metrics.InitRegistry()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		metrics.Disable()
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	s.metricsServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.metricsServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", logger.Err(err))
		}
	}()

	logger.Info("Metrics server listening", "address", ln.Addr().String())
	return nil
}

// Finish ends the command span with the outcome of the command and shuts
// the backends down. It is safe to call when Start failed or never ran.
func Finish(cmdErr error) {
	sessionMu.Lock()
	s := current
	current = nil
	sessionMu.Unlock()

	if s == nil {
		return
	}

	ctx := s.ctx
	lc := logger.FromContext(ctx)

	if cmdErr != nil {
		telemetry.RecordError(ctx, cmdErr)
		logger.DebugCtx(ctx, "Command failed", logger.Err(cmdErr), logger.ErrorKind(cmdErr))
	} else if lc != nil {
		logger.DebugCtx(ctx, "Command finished", logger.DurationMs(lc.DurationMs()))
	}
	if s.span != nil {
		s.span.End()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Metrics server shutdown error", logger.Err(err))
		}
		metrics.Disable()
	}
	if s.shutdownTelemetry != nil {
		if err := s.shutdownTelemetry(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown error", logger.Err(err))
		}
	}
}

func setCurrent(s *Session) {
	sessionMu.Lock()
	current = s
	sessionMu.Unlock()
}

func isBootstrap(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[AnnotationBootstrap] == "true" {
			return true
		}
	}
	return false
}

func configSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
