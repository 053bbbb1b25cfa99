package config

import (
	"path/filepath"
	"strings"

	"github.com/marmos91/ntstm/internal/bytesize"
	"github.com/marmos91/ntstm/pkg/stream"
)

// Default values
const (
	DefaultChunkSize   = 64 * bytesize.KiB
	DefaultMetricsPort = 9090
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Default Strategy:
//   - Zero values (0, "", false) are replaced with defaults
//   - Explicit values are preserved
//   - Booleans whose default is true (wal.sync_on_append) are defaulted by
//     Load through viper, since false is a legitimate explicit value
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyMetricsDefaults(&cfg.Metrics)
	applyBufferDefaults(&cfg.Buffer)
	applyWALDefaults(&cfg.WAL)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	cfg.Format = strings.ToLower(cfg.Format)

	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = DefaultMetricsPort
	}
}

// applyBufferDefaults sets stream buffer defaults. A zero growth shift is
// valid (2-byte steps) and is kept.
func applyBufferDefaults(cfg *BufferConfig) {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
}

// applyWALDefaults sets write-ahead log defaults.
func applyWALDefaults(cfg *WALConfig) {
	if cfg.Path == "" {
		cfg.Path = filepath.Join(getDataDir(), "ntstm.wal")
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
func GetDefaultConfig() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{
			Insecure: true,
		},
		Buffer: BufferConfig{
			GrowthShift: stream.DefaultGrowthShift,
		},
		WAL: WALConfig{
			SyncOnAppend: true,
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
