package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sonicwave/internal/pipeline"
	"sonicwave/internal/testsupport"
)

func newBatch(eng *testsupport.FakeEngine, maxRetries int) *pipeline.Batch {
	return pipeline.NewBatch(newRunner(eng, maxRetries), nil)
}

func batchFiles() []pipeline.File {
	return []pipeline.File{
		{Name: "one.wav", Bytes: []byte("RIFF one")},
		{Name: "two.wav", Bytes: []byte("RIFF two")},
		{Name: "three.wav", Bytes: []byte("RIFF three")},
	}
}

func TestBatchAccountsForEveryJob(t *testing.T) {
	eng := testsupport.NewFakeEngine()
	result := newBatch(eng, 0).RunBatch(context.Background(), batchFiles(), "mp3", pipeline.Options{}, false)

	if result.Total() != 3 {
		t.Fatalf("total = %d, want 3", result.Total())
	}
	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
	for i, want := range []string{"one.mp3", "two.mp3", "three.mp3"} {
		if result.Successes[i].OutputName != want {
			t.Fatalf("success %d = %q, want %q", i, result.Successes[i].OutputName, want)
		}
	}
	if eng.BufferCount() != 0 {
		t.Fatalf("workspace not drained after batch: %d buffers", eng.BufferCount())
	}
}

func TestBatchContinuesPastOneJobsFailure(t *testing.T) {
	eng := testsupport.NewFakeEngine()
	eng.OnRun = func(argv []string) (string, error) {
		input := argv[1]
		if strings.Contains(input, "in-1-") {
			return "crash\n", errors.New("exit status 1")
		}
		return "ok\n", nil
	}

	result := newBatch(eng, 1).RunBatch(context.Background(), batchFiles(), "mp3", pipeline.Options{}, false)

	if len(result.Successes) != 2 {
		t.Fatalf("successes = %d, want 2", len(result.Successes))
	}
	if result.Successes[0].SourceName != "one.wav" || result.Successes[1].SourceName != "three.wav" {
		t.Fatalf("success order wrong: %q, %q", result.Successes[0].SourceName, result.Successes[1].SourceName)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(result.Failures))
	}
	failed := result.Failures[0]
	if failed.SourceName != "two.wav" {
		t.Fatalf("failed source = %q", failed.SourceName)
	}
	if failed.Kind != pipeline.FailureEngineExec {
		t.Fatalf("failed kind = %q", failed.Kind)
	}
	if result.Total() != 3 {
		t.Fatalf("total = %d", result.Total())
	}
}

func TestBatchJobsRunStrictlyInOrder(t *testing.T) {
	eng := testsupport.NewFakeEngine()
	_ = newBatch(eng, 0).RunBatch(context.Background(), batchFiles(), "flac", pipeline.Options{}, false)

	if len(eng.Puts) != 3 {
		t.Fatalf("puts = %v", eng.Puts)
	}
	for i, name := range eng.Puts {
		if !strings.HasPrefix(name, "in-"+string(rune('0'+i))+"-") {
			t.Fatalf("job %d staged out of order: %v", i, eng.Puts)
		}
	}
	// Job N's cleanup precedes job N+1's staging.
	if len(eng.Deletes) != 6 {
		t.Fatalf("deletes = %v", eng.Deletes)
	}
	if !strings.HasPrefix(eng.Deletes[0], "in-0-") || !strings.HasPrefix(eng.Deletes[1], "out-0-") {
		t.Fatalf("first job's cleanup out of order: %v", eng.Deletes)
	}
}

func TestBatchUnknownFormatFailsEveryFileWithoutEngine(t *testing.T) {
	eng := testsupport.NewFakeEngine()
	result := newBatch(eng, 0).RunBatch(context.Background(), batchFiles(), "midi", pipeline.Options{}, false)

	if len(result.Successes) != 0 {
		t.Fatal("expected no successes")
	}
	if len(result.Failures) != 3 {
		t.Fatalf("failures = %d", len(result.Failures))
	}
	for _, failed := range result.Failures {
		if failed.Kind != pipeline.FailureUnknownFormat {
			t.Fatalf("kind = %q", failed.Kind)
		}
	}
	if len(eng.RunCalls) != 0 || len(eng.Puts) != 0 {
		t.Fatal("engine was touched for an unknown format")
	}
}

func TestBatchCancellationBetweenJobs(t *testing.T) {
	eng := testsupport.NewFakeEngine()
	ctx, cancel := context.WithCancel(context.Background())

	ran := 0
	eng.OnRun = func(argv []string) (string, error) {
		ran++
		if ran == 1 {
			cancel()
		}
		return "ok\n", nil
	}

	result := newBatch(eng, 0).RunBatch(ctx, batchFiles(), "mp3", pipeline.Options{}, false)

	if len(result.Successes) != 1 {
		t.Fatalf("successes = %d, want 1 (first job finishes despite cancellation)", len(result.Successes))
	}
	if len(result.Failures) != 2 {
		t.Fatalf("failures = %d, want 2", len(result.Failures))
	}
	for _, failed := range result.Failures {
		if failed.Kind != pipeline.FailureCancelled {
			t.Fatalf("kind = %q", failed.Kind)
		}
	}
	if result.Total() != 3 {
		t.Fatalf("total = %d", result.Total())
	}
	if ran != 1 {
		t.Fatalf("engine ran %d times after cancellation", ran)
	}
}
