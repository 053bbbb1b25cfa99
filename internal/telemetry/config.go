package telemetry

import "time"

// DefaultFlushTimeout bounds how long a finishing command waits for its
// spans to reach the collector. Commands are short-lived, so the exporter
// gets one flush at exit rather than a background schedule.
const DefaultFlushTimeout = 2 * time.Second

// Config controls tracing for one ntstm invocation. Each command produces
// a single root span (see StartCommandSpan) with WAL and copy spans below
// it.
type Config struct {
	Enabled bool

	// ServiceName and ServiceVersion label the resource every command
	// span belongs to.
	ServiceName    string
	ServiceVersion string

	// Endpoint is the OTLP gRPC collector, host:port.
	Endpoint string
	Insecure bool

	// SampleRate is the fraction of command runs traced, 0.0 to 1.0.
	// Child spans follow their command's decision.
	SampleRate float64

	// FlushTimeout bounds the export at shutdown. Zero means
	// DefaultFlushTimeout.
	FlushTimeout time.Duration
}

// DefaultConfig returns tracing disabled, pointed at a local collector.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "ntstm",
		ServiceVersion: "dev",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
		FlushTimeout:   DefaultFlushTimeout,
	}
}

// NewConfig returns DefaultConfig overlaid with the settings a command
// loaded from its configuration file. Empty values keep the defaults.
func NewConfig(version string, enabled bool, endpoint string, insecure bool, sampleRate float64) Config {
	cfg := DefaultConfig()
	cfg.Enabled = enabled
	cfg.Insecure = insecure
	cfg.SampleRate = sampleRate
	if version != "" {
		cfg.ServiceVersion = version
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	return cfg
}

func (c Config) flushTimeout() time.Duration {
	if c.FlushTimeout <= 0 {
		return DefaultFlushTimeout
	}
	return c.FlushTimeout
}
