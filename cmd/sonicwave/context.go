package main

import (
	"log/slog"

	"sonicwave/internal/config"
	"sonicwave/internal/logging"
)

// commandContext carries lazily-loaded dependencies shared by subcommands.
type commandContext struct {
	configPath *string

	cfg          *config.Config
	resolvedPath string
	logger       *slog.Logger
}

func newCommandContext(configPath *string) *commandContext {
	return &commandContext{configPath: configPath}
}

// ensureConfig loads configuration on first use.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := ""
	if c.configPath != nil {
		path = *c.configPath
	}
	cfg, resolved, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.resolvedPath = resolved
	return cfg, nil
}

// ensureLogger builds the logger from config on first use.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, err
	}
	c.logger = logger
	return logger, nil
}
