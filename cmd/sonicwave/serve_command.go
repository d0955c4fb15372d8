package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sonicwave/internal/engine/ffmpegcli"
	"sonicwave/internal/pipeline"
	"sonicwave/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and conversion API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

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

			srv, err := server.New(cfg, batch, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Start(runCtx)
		},
	}
}
