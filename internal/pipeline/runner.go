package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"sonicwave/internal/engine"
	"sonicwave/internal/logging"
	"sonicwave/internal/metadata"
)

// Config bounds the retry loop around engine execution.
type Config struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int
	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration
}

// DefaultConfig matches the pipeline's stock retry policy: three total
// attempts with a one second pause between them.
func DefaultConfig() Config {
	return Config{MaxRetries: 2, RetryDelay: time.Second}
}

// Runner drives single jobs through the engine. It owns the engine workspace
// for the duration of one job's lifecycle and must not be invoked
// concurrently.
type Runner struct {
	eng    engine.Engine
	logger *slog.Logger

	maxRetries int
	retryDelay time.Duration
	sleep      func(time.Duration)
}

// NewRunner builds a runner over the given engine handle.
func NewRunner(eng engine.Engine, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.Nop()
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	return &Runner{
		eng:        eng,
		logger:     logger,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		sleep:      time.Sleep,
	}
}

// Run executes one job to completion. seq is the job's position in the batch
// and feeds the job-scoped buffer names. Cleanup of both buffers runs exactly
// once regardless of which step failed.
func (r *Runner) Run(ctx context.Context, seq int, job Job) Result {
	inKey, outKey := bufferKeys(seq, job)
	logger := r.logger.With("source", job.SourceName, "target", job.Profile.ID)

	defer r.cleanup(logger, inKey, outKey)

	if err := r.eng.Put(inKey, job.SourceBytes); err != nil {
		logger.Error("staging input failed", "error", err)
		return failure(job, err)
	}

	if err := r.execute(ctx, logger, job, inKey, outKey); err != nil {
		return failure(job, err)
	}

	result := Result{
		SourceName: job.SourceName,
		OK:         true,
		OutputName: outputName(job.SourceName, job.Profile),
		MIMEType:   job.Profile.MIMEType,
	}

	if job.WantMetadata {
		result.Meta = r.probe(ctx, logger, inKey)
	}

	output, err := r.eng.Get(outKey)
	if err != nil {
		logger.Error("reading output failed", "error", err)
		return failure(job, err)
	}
	result.OutputBytes = output

	logger.Info("job complete", "output", result.OutputName, "bytes", len(output))
	return result
}

// execute runs the conversion command with bounded retry. Only engine
// execution failures retry; write and read failures surface immediately.
func (r *Runner) execute(ctx context.Context, logger *slog.Logger, job Job, inKey, outKey string) error {
	argv := buildCommand(job.Profile, job.Options, inKey, outKey)
	attempts := r.maxRetries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		_, err := r.eng.Run(ctx, argv)
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.Is(err, engine.ErrExec) {
			return err
		}
		if attempt == attempts {
			break
		}

		// The failed attempt may have left a partial output buffer behind;
		// remove it so the retry does not collide with stale bytes.
		_ = r.eng.Delete(outKey)

		logger.Warn("engine execution failed, retrying",
			"attempt", attempt,
			"max_attempts", attempts,
			"error", err,
		)
		r.sleep(r.retryDelay)
	}

	return fmt.Errorf("conversion failed after %d attempts: %w", attempts, lastErr)
}

// probe issues the metadata-only invocation and extracts stream properties
// from the log segment it produced. The probe is expected to report a
// non-zero engine exit; its error is discarded by intent, never by
// inspecting its content.
func (r *Runner) probe(ctx context.Context, logger *slog.Logger, inKey string) metadata.Metadata {
	offset := r.eng.LogLen()
	if _, err := r.eng.Run(ctx, probeCommand(inKey)); err != nil {
		logger.Debug("metadata probe reported expected failure", "error", err)
	}
	slice := r.eng.LogSlice(offset, r.eng.LogLen())
	return metadata.Extract(slice)
}

// cleanup drains the job's buffers from the shared workspace. Failures here
// never change a job's outcome.
func (r *Runner) cleanup(logger *slog.Logger, inKey, outKey string) {
	for _, name := range []string{inKey, outKey} {
		if err := r.eng.Delete(name); err != nil {
			logger.Debug("buffer cleanup failed", "buffer", name, "error", err)
		}
	}
}

// bufferKeys derives the job-scoped workspace names. The batch position plus
// a random suffix keeps names from colliding even if stale buffers survive a
// crashed run.
func bufferKeys(seq int, job Job) (string, string) {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	srcExt := strings.TrimPrefix(filepath.Ext(job.SourceName), ".")
	if srcExt == "" {
		srcExt = "bin"
	}
	inKey := fmt.Sprintf("in-%d-%s.%s", seq, suffix, srcExt)
	outKey := fmt.Sprintf("out-%d-%s.%s", seq, suffix, job.Profile.Extension)
	return inKey, outKey
}
