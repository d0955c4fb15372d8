// Package pipeline turns a batch of source files into a sequence of codec
// engine operations and aggregates the per-file outcomes.
//
// The Runner drives one job through its lifecycle: stage the input buffer,
// execute the conversion command with bounded retry, optionally probe the
// engine log for stream metadata, read the output back, and always release
// both job-scoped buffers before returning. The Batch wrapper processes jobs
// strictly in input order against the single shared engine; one job's failure
// is recorded and the batch moves on.
//
// The engine workspace has no isolation between jobs, so buffer names carry
// the job's batch position and a random suffix, and the workspace belongs
// exclusively to the in-flight job until its cleanup completes.
package pipeline
