package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"sonicwave/internal/config"
)

func TestLoadDefaultsWhenFileAbsent(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PORT", "")
	t.Setenv("STATIC_DIR", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "sonicwave", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Engine.FFmpegBinary != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.Engine.FFmpegBinary)
	}
	if cfg.Engine.WorkspaceDir != filepath.Join(tempHome, ".cache", "sonicwave", "workspace") {
		t.Fatalf("workspace dir not expanded: %q", cfg.Engine.WorkspaceDir)
	}
	if cfg.Conversion.MaxRetries != 2 || cfg.Conversion.RetryDelayMS != 1000 {
		t.Fatalf("unexpected retry defaults: %+v", cfg.Conversion)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.Server.Bind != "127.0.0.1:8089" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
}

func TestLoadParsesFileAndOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PORT", "")
	t.Setenv("STATIC_DIR", "")

	path := filepath.Join(tempHome, "config.toml")
	content := `
[engine]
ffmpeg_binary = "/opt/ffmpeg/bin/ffmpeg"

[conversion]
max_retries = 5
retry_delay_ms = 250

[logging]
level = "DEBUG"
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected file to exist")
	}
	if cfg.Engine.FFmpegBinary != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("binary override missing: %q", cfg.Engine.FFmpegBinary)
	}
	if cfg.Conversion.MaxRetries != 5 || cfg.Conversion.RetryDelayMS != 250 {
		t.Fatalf("retry overrides missing: %+v", cfg.Conversion)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging fields not normalized: %+v", cfg.Logging)
	}
}

func TestEnvOverridesTakePrecedence(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PORT", "9001")
	staticDir := filepath.Join(tempHome, "www")
	t.Setenv("STATIC_DIR", staticDir)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Bind != "127.0.0.1:9001" {
		t.Fatalf("PORT override missing: %q", cfg.Server.Bind)
	}
	if cfg.Server.StaticDir != staticDir {
		t.Fatalf("STATIC_DIR override missing: %q", cfg.Server.StaticDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty binary", func(c *config.Config) { c.Engine.FFmpegBinary = "" }},
		{"negative retries", func(c *config.Config) { c.Conversion.MaxRetries = -1 }},
		{"negative delay", func(c *config.Config) { c.Conversion.RetryDelayMS = -5 }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"bind without port", func(c *config.Config) { c.Server.Bind = "localhost" }},
		{"zero upload limit", func(c *config.Config) { c.Server.MaxUploadMB = 0 }},
		{"history without path", func(c *config.Config) { c.History.Enabled = true; c.History.Path = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample returned error: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error writing over existing file")
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("sample file missing")
	}
	if cfg.Conversion.MaxRetries != config.Default().Conversion.MaxRetries {
		t.Fatal("sample config drifted from defaults")
	}
}
