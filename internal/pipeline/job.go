package pipeline

import (
	"errors"
	"path/filepath"
	"strings"

	"sonicwave/internal/engine"
	"sonicwave/internal/format"
	"sonicwave/internal/metadata"
)

// Options carries per-batch conversion overrides. Zero values mean the engine
// picks its own default.
type Options struct {
	Channels     int
	SampleRateHz int
	Bitrate      string
}

// Job is one file's conversion request. Jobs are immutable once built and
// owned by the runner executing them.
type Job struct {
	SourceName   string
	SourceBytes  []byte
	Profile      format.Profile
	Options      Options
	WantMetadata bool
}

// FailureKind classifies why a job failed.
type FailureKind string

const (
	FailureUnknownFormat    FailureKind = "unknown-format"
	FailureEngineWrite      FailureKind = "engine-write"
	FailureEngineExec       FailureKind = "engine-exec"
	FailureEngineRead       FailureKind = "engine-read"
	FailureUnsupportedInput FailureKind = "unsupported-input"
	FailureCancelled        FailureKind = "cancelled"
)

// Result is the outcome of one job. OK results carry the output buffer and
// its name/MIME type; failed results carry the classification and message.
type Result struct {
	SourceName  string
	OK          bool
	OutputName  string
	OutputBytes []byte
	MIMEType    string
	Meta        metadata.Metadata
	Kind        FailureKind
	Message     string
}

// BatchResult partitions job outcomes. Within each partition the order
// matches the batch input order.
type BatchResult struct {
	Successes []Result
	Failures  []Result
}

// Total reports the number of jobs the batch accounted for.
func (r BatchResult) Total() int {
	return len(r.Successes) + len(r.Failures)
}

// outputName derives the result file name from the source name and profile.
func outputName(sourceName string, profile format.Profile) string {
	base := filepath.Base(strings.TrimSpace(sourceName))
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		base = "output"
	}
	return base + "." + profile.Extension
}

// classify maps an engine or catalog error to its failure kind.
func classify(err error) FailureKind {
	switch {
	case errors.Is(err, format.ErrUnknownFormat):
		return FailureUnknownFormat
	case errors.Is(err, engine.ErrWrite):
		return FailureEngineWrite
	case errors.Is(err, engine.ErrRead):
		return FailureEngineRead
	default:
		return FailureEngineExec
	}
}

func failure(job Job, err error) Result {
	return Result{
		SourceName: job.SourceName,
		Kind:       classify(err),
		Message:    err.Error(),
	}
}
