package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sonicwave/internal/format"
	"sonicwave/internal/pipeline"
	"sonicwave/internal/testsupport"
)

func mustProfile(t *testing.T, id string) format.Profile {
	t.Helper()
	profile, err := format.Resolve(id)
	if err != nil {
		t.Fatalf("Resolve(%q) returned error: %v", id, err)
	}
	return profile
}

func newRunner(eng *testsupport.FakeEngine, maxRetries int) *pipeline.Runner {
	return pipeline.NewRunner(eng, pipeline.Config{MaxRetries: maxRetries, RetryDelay: 0}, nil)
}

func wavJob(t *testing.T) pipeline.Job {
	return pipeline.Job{
		SourceName:  "track.wav",
		SourceBytes: []byte("RIFF fake wav bytes"),
		Profile:     mustProfile(t, "mp3"),
	}
}

func TestRunSuccessDrainsWorkspace(t *testing.T) {
	eng := testsupport.NewFakeEngine()
	result := newRunner(eng, 2).Run(context.Background(), 0, wavJob(t))

	if !result.OK {
		t.Fatalf("job failed: %s %s", result.Kind, result.Message)
	}
	if result.OutputName != "track.mp3" {
		t.Fatalf("output name = %q", result.OutputName)
	}
	if result.MIMEType != "audio/mpeg" {
		t.Fatalf("mime = %q", result.MIMEType)
	}
	if string(result.OutputBytes) != "converted" {
		t.Fatalf("output bytes = %q", result.OutputBytes)
	}
	if eng.BufferCount() != 0 {
		t.Fatalf("workspace not drained: %d buffers remain", eng.BufferCount())
	}
	if len(eng.Deletes) != 2 {
		t.Fatalf("expected 2 cleanup deletes, got %v", eng.Deletes)
	}
}

func TestRunCleansUpWhenStagingFails(t *testing.T) {
	eng := testsupport.NewFakeEngine()
	eng.PutErr = errors.New("workspace full")

	result := newRunner(eng, 2).Run(context.Background(), 0, wavJob(t))

	if result.OK {
		t.Fatal("expected failure")
	}
	if result.Kind != pipeline.FailureEngineWrite {
		t.Fatalf("kind = %q", result.Kind)
	}
	if len(eng.RunCalls) != 0 {
		t.Fatal("engine ran despite staging failure")
	}
	// Cleanup still runs exactly once for both buffer names.
	if len(eng.Deletes) != 2 {
		t.Fatalf("expected 2 cleanup deletes, got %v", eng.Deletes)
	}
	if eng.BufferCount() != 0 {
		t.Fatalf("workspace not drained: %d buffers remain", eng.BufferCount())
	}
}

func TestRunCleansUpWhenExecutionFails(t *testing.T) {
	eng := testsupport.NewFakeEngine()
	eng.OnRun = func([]string) (string, error) {
		return "boom\n", errors.New("exit status 1")
	}

	result := newRunner(eng, 0).Run(context.Background(), 0, wavJob(t))

	if result.OK {
		t.Fatal("expected failure")
	}
	if result.Kind != pipeline.FailureEngineExec {
		t.Fatalf("kind = %q", result.Kind)
	}
	if eng.BufferCount() != 0 {
		t.Fatalf("workspace not drained: %d buffers remain", eng.BufferCount())
	}
}

func TestRetrySucceedsWithinBudget(t *testing.T) {
	eng := testsupport.NewFakeEngine()
	failures := 2
	eng.OnRun = func(argv []string) (string, error) {
		if failures > 0 {
			failures--
			return "transient\n", errors.New("exit status 1")
		}
		return "ok\n", nil
	}

	result := newRunner(eng, 2).Run(context.Background(), 0, wavJob(t))

	if !result.OK {
		t.Fatalf("job failed after retries: %s", result.Message)
	}
	if got := len(eng.RunCalls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestRetryBudgetExhausted(t *testing.T) {
	eng := testsupport.NewFakeEngine()
	failures := 2
	eng.OnRun = func(argv []string) (string, error) {
		if failures > 0 {
			failures--
			return "transient\n", errors.New("exit status 1")
		}
		return "ok\n", nil
	}

	result := newRunner(eng, 1).Run(context.Background(), 0, wavJob(t))

	if result.OK {
		t.Fatal("expected failure with MaxRetries=1 against two consecutive errors")
	}
	if result.Kind != pipeline.FailureEngineExec {
		t.Fatalf("kind = %q", result.Kind)
	}
	if got := len(eng.RunCalls); got != 2 {
		t.Fatalf("expected exactly 2 attempts, got %d", got)
	}
}

func TestRetryDeletesPartialOutputBetweenAttempts(t *testing.T) {
	eng := testsupport.NewFakeEngine()
	first := true
	eng.OnRun = func(argv []string) (string, error) {
		if first {
			first = false
			return "partial\n", errors.New("exit status 1")
		}
		return "ok\n", nil
	}

	result := newRunner(eng, 2).Run(context.Background(), 0, wavJob(t))
	if !result.OK {
		t.Fatalf("job failed: %s", result.Message)
	}
	// One stale-output delete between attempts plus the two cleanup deletes.
	if len(eng.Deletes) != 3 {
		t.Fatalf("deletes = %v", eng.Deletes)
	}
	if !strings.HasPrefix(eng.Deletes[0], "out-") {
		t.Fatalf("first delete should target the partial output, got %q", eng.Deletes[0])
	}
}

func TestReadFailureIsNotRetried(t *testing.T) {
	eng := testsupport.NewFakeEngine()
	eng.OnRun = func(argv []string) (string, error) {
		return "ok but wrote nothing\n", nil
	}
	// Successful run that produces no output buffer: Get must fail.
	eng.ConvertedBytes = nil
	eng.GetErr = errors.New("missing")

	result := newRunner(eng, 2).Run(context.Background(), 0, wavJob(t))

	if result.OK {
		t.Fatal("expected failure")
	}
	if result.Kind != pipeline.FailureEngineRead {
		t.Fatalf("kind = %q", result.Kind)
	}
	if got := len(eng.RunCalls); got != 1 {
		t.Fatalf("read failures must not re-run the engine, got %d attempts", got)
	}
}

func TestMetadataProbeFailureIsDiscarded(t *testing.T) {
	eng := testsupport.NewFakeEngine()
	job := wavJob(t)
	job.WantMetadata = true

	result := newRunner(eng, 0).Run(context.Background(), 0, job)

	if !result.OK {
		t.Fatalf("probe failure leaked into job outcome: %s", result.Message)
	}
	if result.Meta.Duration != "00:03:21.45" {
		t.Fatalf("duration = %q", result.Meta.Duration)
	}
	if result.Meta.SampleRate != "44100 Hz" || result.Meta.Channels != "stereo" || result.Meta.Bitrate != "192 kbps" {
		t.Fatalf("unexpected metadata: %+v", result.Meta)
	}

	probes := 0
	for _, call := range eng.RunCalls {
		if len(call) == 2 && call[0] == "-i" {
			probes++
		}
	}
	if probes != 1 {
		t.Fatalf("expected exactly one probe invocation, got %d", probes)
	}
}

func TestProbeSlicesOnlyItsOwnLogSegment(t *testing.T) {
	eng := testsupport.NewFakeEngine()
	// Seed earlier log traffic from a previous invocation.
	eng.Append("Duration: 99:59:59.99, 8000 Hz, mono, 8 kbps\n")

	job := wavJob(t)
	job.WantMetadata = true
	result := newRunner(eng, 0).Run(context.Background(), 0, job)

	if !result.OK {
		t.Fatalf("job failed: %s", result.Message)
	}
	if result.Meta.Duration == "99:59:59.99" {
		t.Fatal("probe consumed log text from an earlier invocation")
	}
	if result.Meta.Duration != "00:03:21.45" {
		t.Fatalf("duration = %q", result.Meta.Duration)
	}
}

func TestBufferKeysAreJobScoped(t *testing.T) {
	eng := testsupport.NewFakeEngine()
	runner := newRunner(eng, 0)

	_ = runner.Run(context.Background(), 0, wavJob(t))
	_ = runner.Run(context.Background(), 1, wavJob(t))

	if len(eng.Puts) != 2 {
		t.Fatalf("puts = %v", eng.Puts)
	}
	if eng.Puts[0] == eng.Puts[1] {
		t.Fatalf("jobs shared an input buffer name: %q", eng.Puts[0])
	}
	if !strings.HasPrefix(eng.Puts[0], "in-0-") || !strings.HasPrefix(eng.Puts[1], "in-1-") {
		t.Fatalf("buffer names missing batch position: %v", eng.Puts)
	}
}
