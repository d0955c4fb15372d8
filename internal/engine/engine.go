package engine

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors classifying failures at the engine boundary.
var (
	// ErrWrite marks a failure to stage bytes into the workspace.
	ErrWrite = errors.New("engine write failed")
	// ErrExec marks a non-zero engine exit from Run.
	ErrExec = errors.New("engine execution failed")
	// ErrRead marks a read of a buffer name absent from the workspace.
	ErrRead = errors.New("engine read failed")
)

// Engine is the surface the pipeline consumes from the codec engine.
//
// Implementations are stateful and non-reentrant: the workspace and log
// stream are shared across every call, and two jobs must never interleave
// calls against the same instance.
type Engine interface {
	// Put stages data under the given buffer name.
	Put(name string, data []byte) error
	// Run executes one command and returns the log text it produced.
	// A non-zero engine exit yields an *ExecError wrapping ErrExec.
	Run(ctx context.Context, argv []string) (string, error)
	// Get reads a buffer back out of the workspace.
	Get(name string) ([]byte, error)
	// Delete removes a buffer. Deleting an absent buffer is not an error;
	// callers treat any failure as best-effort.
	Delete(name string) error
	// LogLen reports the current length of the shared log stream.
	LogLen() int
	// LogSlice returns the log stream segment in [from, to).
	LogSlice(from, to int) string
}

// ExecError reports a failed Run call together with the partial log text the
// engine produced before exiting.
type ExecError struct {
	Argv []string
	Log  string
	Err  error
}

func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", ErrExec, e.Err)
	}
	return ErrExec.Error()
}

// Unwrap always resolves to ErrExec so errors.Is classification works
// regardless of the underlying cause.
func (e *ExecError) Unwrap() error { return ErrExec }
