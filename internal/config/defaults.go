package config

// Default returns the stock configuration. Every field has a usable value so
// the binary runs without a config file.
func Default() Config {
	return Config{
		Engine: Engine{
			FFmpegBinary: "ffmpeg",
			WorkspaceDir: "~/.cache/sonicwave/workspace",
		},
		Conversion: Conversion{
			MaxRetries:      2,
			RetryDelayMS:    1000,
			ExtractMetadata: false,
		},
		Output: Output{
			Dir: ".",
		},
		History: History{
			Enabled: true,
			Path:    "~/.local/share/sonicwave/history.db",
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		Server: Server{
			Bind:             "127.0.0.1:8089",
			StaticDir:        ".",
			CacheControl:     "public, max-age=31536000, immutable",
			HTMLCacheControl: "no-cache, must-revalidate",
			MaxUploadMB:      256,
		},
	}
}
