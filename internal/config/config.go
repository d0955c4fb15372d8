package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Engine contains the codec engine adapter settings.
type Engine struct {
	FFmpegBinary string `toml:"ffmpeg_binary"`
	WorkspaceDir string `toml:"workspace_dir"`
}

// Conversion contains the pipeline retry policy and probe behavior.
type Conversion struct {
	MaxRetries      int  `toml:"max_retries"`
	RetryDelayMS    int  `toml:"retry_delay_ms"`
	ExtractMetadata bool `toml:"extract_metadata"`
}

// Output contains result placement settings for the CLI.
type Output struct {
	Dir string `toml:"dir"`
}

// History contains batch-record persistence settings.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Server contains the web UI and conversion API settings.
type Server struct {
	Bind             string `toml:"bind"`
	StaticDir        string `toml:"static_dir"`
	CacheControl     string `toml:"cache_control"`
	HTMLCacheControl string `toml:"html_cache_control"`
	MaxUploadMB      int    `toml:"max_upload_mb"`
}

// Config encapsulates all configuration values for sonicwave.
type Config struct {
	Engine     Engine     `toml:"engine"`
	Conversion Conversion `toml:"conversion"`
	Output     Output     `toml:"output"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
	Server     Server     `toml:"server"`
}

// DefaultConfigPath returns the absolute path of the default config location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/sonicwave/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file. The
// boolean reports whether a file existed at the resolved path; when it did
// not, the returned config is the defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// WriteSample writes the embedded sample configuration to path.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Engine.WorkspaceDir, c.Output.Dir}
	if c.History.Enabled {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// applyEnvOverrides carries the container-oriented overrides: PORT swaps the
// bind port and STATIC_DIR the served directory.
func (c *Config) applyEnvOverrides() {
	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 && port < 65536 {
			host := "0.0.0.0"
			if h, _, err := splitBind(c.Server.Bind); err == nil && h != "" {
				host = h
			}
			c.Server.Bind = fmt.Sprintf("%s:%d", host, port)
		}
	}
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		c.Server.StaticDir = dir
	}
}

func (c *Config) normalize() error {
	var err error
	if c.Engine.WorkspaceDir, err = expandPath(c.Engine.WorkspaceDir); err != nil {
		return fmt.Errorf("engine.workspace_dir: %w", err)
	}
	if c.Output.Dir, err = expandPath(c.Output.Dir); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	if c.Server.StaticDir, err = expandPath(c.Server.StaticDir); err != nil {
		return fmt.Errorf("server.static_dir: %w", err)
	}
	c.Engine.FFmpegBinary = strings.TrimSpace(c.Engine.FFmpegBinary)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = defaultPath
	} else {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		path = expanded
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return path, true, nil
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(path)
}

func splitBind(bind string) (string, string, error) {
	idx := strings.LastIndex(bind, ":")
	if idx < 0 {
		return "", "", fmt.Errorf("bind %q missing port", bind)
	}
	return bind[:idx], bind[idx+1:], nil
}
