package testsupport

import (
	"path/filepath"
	"testing"

	"sonicwave/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Engine.WorkspaceDir = filepath.Join(base, "workspace")
	cfg.Output.Dir = filepath.Join(base, "out")
	cfg.History.Path = filepath.Join(base, "history.db")
	cfg.Server.StaticDir = base
	cfg.Conversion.RetryDelayMS = 0

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithHistoryDisabled turns off batch recording.
func WithHistoryDisabled() ConfigOption {
	return func(c *config.Config) {
		c.History.Enabled = false
	}
}

// WithFFmpegBinary overrides the engine binary.
func WithFFmpegBinary(binary string) ConfigOption {
	return func(c *config.Config) {
		c.Engine.FFmpegBinary = binary
	}
}
