package main

import (
	"encoding/json"
	"fmt"
	"io"

	"sonicwave/internal/metadata"
	"sonicwave/internal/pipeline"
)

type reportEntry struct {
	Source   string             `json:"source"`
	Status   string             `json:"status"`
	Output   string             `json:"output,omitempty"`
	Size     int                `json:"size,omitempty"`
	Metadata *metadata.Metadata `json:"metadata,omitempty"`
	Kind     string             `json:"kind,omitempty"`
	Message  string             `json:"message,omitempty"`
}

type batchReport struct {
	Format    string        `json:"format"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Entries   []reportEntry `json:"entries"`
}

func buildReport(formatID string, result pipeline.BatchResult, withMetadata bool) batchReport {
	report := batchReport{
		Format:    formatID,
		Succeeded: len(result.Successes),
		Failed:    len(result.Failures),
	}
	for _, res := range result.Successes {
		entry := reportEntry{
			Source: res.SourceName,
			Status: "ok",
			Output: res.OutputName,
			Size:   len(res.OutputBytes),
		}
		if withMetadata {
			meta := res.Meta
			entry.Metadata = &meta
		}
		report.Entries = append(report.Entries, entry)
	}
	for _, res := range result.Failures {
		report.Entries = append(report.Entries, reportEntry{
			Source:  res.SourceName,
			Status:  "failed",
			Kind:    string(res.Kind),
			Message: res.Message,
		})
	}
	return report
}

func renderBatchTable(result pipeline.BatchResult, withMetadata bool) string {
	headers := []string{"Source", "Status", "Output", "Details"}
	rows := make([][]string, 0, result.Total())

	for _, res := range result.Successes {
		details := fmt.Sprintf("%d bytes", len(res.OutputBytes))
		if withMetadata {
			details = fmt.Sprintf("%s, %s, %s, %s",
				res.Meta.Duration, res.Meta.SampleRate, res.Meta.Channels, res.Meta.Bitrate)
		}
		rows = append(rows, []string{res.SourceName, "ok", res.OutputName, details})
	}
	for _, res := range result.Failures {
		rows = append(rows, []string{res.SourceName, "failed", "", res.Message})
	}
	return renderTable(headers, rows)
}

func printJSON(w io.Writer, payload any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
