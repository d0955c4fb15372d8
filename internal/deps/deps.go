// Package deps checks the external prerequisites sonicwave needs at
// runtime: the ffmpeg binary and writable working directories.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"sonicwave/internal/config"
)

// Requirement defines an external dependency sonicwave relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckDirectory verifies that a directory exists (or can be created) and is
// writable by attempting to create and remove a probe file inside it.
func CheckDirectory(name, dir string) Status {
	status := Status{Name: name, Command: dir}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		status.Detail = "directory not configured"
		return status
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		status.Detail = fmt.Sprintf("cannot create: %v", err)
		return status
	}
	probe, err := os.CreateTemp(dir, ".sonicwave-probe-*")
	if err != nil {
		status.Detail = fmt.Sprintf("not writable: %v", err)
		return status
	}
	probe.Close()
	os.Remove(probe.Name())
	status.Available = true
	return status
}

// Check runs every applicable check for the given configuration. Optional
// surfaces (history, static serving) are only checked when configured.
func Check(cfg *config.Config) []Status {
	if cfg == nil {
		return nil
	}
	results := CheckBinaries([]Requirement{{
		Name:        "FFmpeg",
		Command:     cfg.Engine.FFmpegBinary,
		Description: "Performs all audio conversions",
	}})
	results = append(results, CheckDirectory("Workspace", cfg.Engine.WorkspaceDir))
	results = append(results, CheckDirectory("Output directory", cfg.Output.Dir))
	if cfg.History.Enabled {
		results = append(results, CheckDirectory("History directory", filepath.Dir(cfg.History.Path)))
	}
	if cfg.Server.StaticDir != "" {
		static := Status{Name: "Static assets", Command: cfg.Server.StaticDir}
		if info, err := os.Stat(cfg.Server.StaticDir); err != nil {
			static.Detail = fmt.Sprintf("cannot stat: %v", err)
		} else if !info.IsDir() {
			static.Detail = "not a directory"
		} else {
			static.Available = true
		}
		results = append(results, static)
	}
	return results
}

// AllAvailable reports whether every non-optional status passed.
func AllAvailable(statuses []Status) bool {
	for _, status := range statuses {
		if !status.Optional && !status.Available {
			return false
		}
	}
	return true
}
