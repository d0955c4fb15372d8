package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"sonicwave/internal/archive"
	"sonicwave/internal/engine/ffmpegcli"
	"sonicwave/internal/history"
	"sonicwave/internal/pipeline"
)

type convertFlags struct {
	to       string
	channels int
	rate     int
	bitrate  string
	metadata bool
	zipPath  string
	outDir   string
	jsonOut  bool
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	flags := convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <files...>",
		Short: "Convert audio files to a target format",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), ctx, flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.to, "to", "", "Target format id (see 'sonicwave formats')")
	cmd.Flags().IntVar(&flags.channels, "channels", 0, "Override channel count")
	cmd.Flags().IntVar(&flags.rate, "rate", 0, "Override sample rate in Hz")
	cmd.Flags().StringVar(&flags.bitrate, "bitrate", "", "Override bitrate (e.g. 192k); ignored for lossless targets")
	cmd.Flags().BoolVar(&flags.metadata, "metadata", false, "Probe each input and report stream metadata")
	cmd.Flags().StringVar(&flags.zipPath, "zip", "", "Write successes into one ZIP archive instead of individual files")
	cmd.Flags().StringVar(&flags.outDir, "out", "", "Output directory (defaults to output.dir from config)")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "Emit the batch report as JSON")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runConvert(ctx context.Context, cmdCtx *commandContext, flags convertFlags, paths []string) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cmdCtx.ensureLogger()
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	files, err := readInputFiles(paths)
	if err != nil {
		return err
	}
	accepted, rejected := pipeline.SplitAudioInputs(files)

	eng, err := ffmpegcli.New(cfg.Engine.FFmpegBinary, cfg.Engine.WorkspaceDir)
	if err != nil {
		return err
	}
	defer eng.Close()

	runner := pipeline.NewRunner(eng, pipeline.Config{
		MaxRetries: cfg.Conversion.MaxRetries,
		RetryDelay: time.Duration(cfg.Conversion.RetryDelayMS) * time.Millisecond,
	}, logger)
	batch := pipeline.NewBatch(runner, logger)

	wantMetadata := flags.metadata || cfg.Conversion.ExtractMetadata
	started := time.Now()
	result := batch.RunBatch(ctx, accepted, flags.to, pipeline.Options{
		Channels:     flags.channels,
		SampleRateHz: flags.rate,
		Bitrate:      flags.bitrate,
	}, wantMetadata)
	finished := time.Now()
	result.Failures = append(result.Failures, rejected...)

	if err := writeOutputs(cfg.Output.Dir, flags, result); err != nil {
		return err
	}

	if cfg.History.Enabled {
		if err := recordHistory(ctx, cfg.History.Path, started, finished, flags.to, result); err != nil {
			logger.Warn("recording batch history failed", "error", err)
		}
	}

	if flags.jsonOut {
		if err := printJSON(os.Stdout, buildReport(flags.to, result, wantMetadata)); err != nil {
			return err
		}
	} else {
		fmt.Println(renderBatchTable(result, wantMetadata))
	}

	if len(result.Failures) > 0 {
		return fmt.Errorf("%d of %d conversions failed", len(result.Failures), result.Total())
	}
	return nil
}

func readInputFiles(paths []string) ([]pipeline.File, error) {
	files := make([]pipeline.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read input %s: %w", path, err)
		}
		files = append(files, pipeline.File{Name: filepath.Base(path), Bytes: data})
	}
	return files, nil
}

func writeOutputs(defaultDir string, flags convertFlags, result pipeline.BatchResult) error {
	if flags.zipPath != "" {
		f, err := os.Create(flags.zipPath)
		if err != nil {
			return fmt.Errorf("create archive %s: %w", flags.zipPath, err)
		}
		defer f.Close()
		return archive.WriteZip(f, result.Successes)
	}

	outDir := flags.outDir
	if outDir == "" {
		outDir = defaultDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, success := range result.Successes {
		path := filepath.Join(outDir, success.OutputName)
		if err := os.WriteFile(path, success.OutputBytes, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
	}
	return nil
}

func recordHistory(ctx context.Context, path string, started, finished time.Time, formatID string, result pipeline.BatchResult) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	_, err = store.RecordBatch(ctx, started, finished, formatID, result)
	return err
}
