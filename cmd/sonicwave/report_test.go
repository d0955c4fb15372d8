package main

import (
	"strings"
	"testing"

	"sonicwave/internal/metadata"
	"sonicwave/internal/pipeline"
)

func sampleBatchResult() pipeline.BatchResult {
	return pipeline.BatchResult{
		Successes: []pipeline.Result{
			{
				SourceName:  "one.wav",
				OK:          true,
				OutputName:  "one.mp3",
				OutputBytes: []byte("12345"),
				MIMEType:    "audio/mpeg",
				Meta: metadata.Metadata{
					Duration:   "00:03:21.45",
					SampleRate: "44100 Hz",
					Channels:   "stereo",
					Bitrate:    "192 kbps",
				},
			},
		},
		Failures: []pipeline.Result{
			{SourceName: "two.wav", Kind: pipeline.FailureEngineExec, Message: "conversion failed after 3 attempts"},
		},
	}
}

func TestBuildReportCountsAndOrder(t *testing.T) {
	report := buildReport("mp3", sampleBatchResult(), false)

	if report.Succeeded != 1 || report.Failed != 1 {
		t.Fatalf("counts = %d/%d", report.Succeeded, report.Failed)
	}
	if len(report.Entries) != 2 {
		t.Fatalf("entries = %d", len(report.Entries))
	}
	if report.Entries[0].Status != "ok" || report.Entries[0].Output != "one.mp3" {
		t.Fatalf("first entry = %+v", report.Entries[0])
	}
	if report.Entries[0].Metadata != nil {
		t.Fatal("metadata attached without being requested")
	}
	if report.Entries[1].Status != "failed" || report.Entries[1].Kind != string(pipeline.FailureEngineExec) {
		t.Fatalf("second entry = %+v", report.Entries[1])
	}
}

func TestBuildReportIncludesMetadataWhenRequested(t *testing.T) {
	report := buildReport("mp3", sampleBatchResult(), true)
	meta := report.Entries[0].Metadata
	if meta == nil || meta.Duration != "00:03:21.45" {
		t.Fatalf("metadata entry = %+v", meta)
	}
}

func TestRenderBatchTable(t *testing.T) {
	out := renderBatchTable(sampleBatchResult(), true)
	for _, want := range []string{"one.wav", "one.mp3", "00:03:21.45", "two.wav", "conversion failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if out := renderTable(nil, nil); out != "" {
		t.Fatalf("expected empty render, got %q", out)
	}
}
