package ffmpegcli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"sonicwave/internal/engine"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, dir string) (string, error)
}

// Option configures the engine.
type Option func(*Engine)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(e *Engine) {
		if exec != nil {
			e.exec = exec
		}
	}
}

// Engine runs ffmpeg against a locked workspace directory.
type Engine struct {
	engine.Log

	binary string
	dir    string
	lock   *flock.Flock
	exec   Executor
}

// New prepares the workspace directory and acquires its lock.
func New(binary, workspaceDir string, opts ...Option) (*Engine, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	if strings.TrimSpace(workspaceDir) == "" {
		return nil, errors.New("workspace directory required")
	}
	if err := os.MkdirAll(workspaceDir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	lock := flock.New(filepath.Join(workspaceDir, ".sonicwave.lock"))
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock workspace: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("workspace %s is held by another process", workspaceDir)
	}

	eng := &Engine{
		binary: binary,
		dir:    workspaceDir,
		lock:   lock,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng, nil
}

// Close releases the workspace lock.
func (e *Engine) Close() error {
	if e == nil || e.lock == nil {
		return nil
	}
	return e.lock.Unlock()
}

// Put stages data as a file inside the workspace.
func (e *Engine) Put(name string, data []byte) error {
	path, err := e.bufferPath(name)
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrWrite, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: stage %s: %v", engine.ErrWrite, name, err)
	}
	return nil
}

// Run executes ffmpeg with the workspace as working directory and appends the
// combined output to the shared log stream.
func (e *Engine) Run(ctx context.Context, argv []string) (string, error) {
	output, runErr := e.exec.Run(ctx, e.binary, argv, e.dir)
	e.Append(output)
	if runErr != nil {
		return output, &engine.ExecError{Argv: argv, Log: output, Err: runErr}
	}
	return output, nil
}

// Get reads a staged buffer back out of the workspace.
func (e *Engine) Get(name string) ([]byte, error) {
	path, err := e.bufferPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrRead, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", engine.ErrRead, name, err)
	}
	return data, nil
}

// Delete removes a buffer file. Absent buffers are not an error.
func (e *Engine) Delete(name string) error {
	path, err := e.bufferPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// bufferPath confines buffer names to the workspace directory.
func (e *Engine) bufferPath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("buffer name required")
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("buffer name %q escapes workspace", name)
	}
	return filepath.Join(e.dir, name), nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	return string(output), err
}
