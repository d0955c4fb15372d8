package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"sonicwave/internal/format"
	"sonicwave/internal/logging"
)

// File is one user-supplied input awaiting conversion.
type File struct {
	Name  string
	Bytes []byte
}

// Batch processes ordered job sequences against a single runner. The engine
// behind the runner is one shared workspace, so jobs run strictly one at a
// time; job N's cleanup completes before job N+1 stages anything.
type Batch struct {
	runner *Runner
	logger *slog.Logger
}

// NewBatch wraps a runner for batch execution.
func NewBatch(runner *Runner, logger *slog.Logger) *Batch {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Batch{runner: runner, logger: logger}
}

// Run processes jobs in input order, recording each outcome and continuing
// past failures. It never returns an error: every submitted job is accounted
// for in exactly one partition. Cancellation is honored between jobs only;
// an in-flight job always runs through its cleanup.
func (b *Batch) Run(ctx context.Context, jobs []Job) BatchResult {
	result := BatchResult{}
	b.logger.Info("batch started", "jobs", len(jobs))

	for seq, job := range jobs {
		if err := ctx.Err(); err != nil {
			result.Failures = append(result.Failures, Result{
				SourceName: job.SourceName,
				Kind:       FailureCancelled,
				Message:    fmt.Sprintf("batch cancelled before job %d: %v", seq+1, err),
			})
			continue
		}

		jobResult := b.runner.Run(ctx, seq, job)
		if jobResult.OK {
			result.Successes = append(result.Successes, jobResult)
		} else {
			b.logger.Warn("job failed",
				"source", job.SourceName,
				"kind", string(jobResult.Kind),
				"message", jobResult.Message,
			)
			result.Failures = append(result.Failures, jobResult)
		}
	}

	b.logger.Info("batch finished",
		"succeeded", len(result.Successes),
		"failed", len(result.Failures),
	)
	return result
}

// RunBatch is the caller-facing surface: one target format and one options
// set applied to every file. An unknown format fails the whole batch without
// touching the engine, one failure record per file.
func (b *Batch) RunBatch(ctx context.Context, files []File, targetFormatID string, opts Options, wantMetadata bool) BatchResult {
	profile, err := format.Resolve(targetFormatID)
	if err != nil {
		result := BatchResult{}
		for _, file := range files {
			result.Failures = append(result.Failures, Result{
				SourceName: file.Name,
				Kind:       FailureUnknownFormat,
				Message:    err.Error(),
			})
		}
		return result
	}

	jobs := make([]Job, 0, len(files))
	for _, file := range files {
		jobs = append(jobs, Job{
			SourceName:   file.Name,
			SourceBytes:  file.Bytes,
			Profile:      profile,
			Options:      opts,
			WantMetadata: wantMetadata,
		})
	}
	return b.Run(ctx, jobs)
}
