package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.Engine.FFmpegBinary == "" {
		return errors.New("engine.ffmpeg_binary must not be empty")
	}
	if strings.TrimSpace(c.Engine.WorkspaceDir) == "" {
		return errors.New("engine.workspace_dir must not be empty")
	}
	if c.Conversion.MaxRetries < 0 {
		return fmt.Errorf("conversion.max_retries must not be negative, got %d", c.Conversion.MaxRetries)
	}
	if c.Conversion.RetryDelayMS < 0 {
		return fmt.Errorf("conversion.retry_delay_ms must not be negative, got %d", c.Conversion.RetryDelayMS)
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return errors.New("history.path required when history is enabled")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if _, _, err := splitBind(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind: %w", err)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	return nil
}
