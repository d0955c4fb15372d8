// Package archive packages batch successes into a ZIP for download. It
// consumes only the pipeline's result surface and never touches the engine.
package archive

import (
	"archive/zip"
	"fmt"
	"io"

	"sonicwave/internal/pipeline"
)

// WriteZip streams every successful output into one ZIP archive. Duplicate
// output names get a numeric suffix so no entry silently overwrites another.
func WriteZip(w io.Writer, results []pipeline.Result) error {
	zw := zip.NewWriter(w)
	seen := make(map[string]int, len(results))

	for _, result := range results {
		if !result.OK {
			continue
		}
		name := result.OutputName
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%d-%s", n, name)
		}
		seen[result.OutputName]++

		entry, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("create zip entry %s: %w", name, err)
		}
		if _, err := entry.Write(result.OutputBytes); err != nil {
			return fmt.Errorf("write zip entry %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize zip: %w", err)
	}
	return nil
}
