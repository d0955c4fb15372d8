package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sonicwave/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var batchID int64
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversion batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled in configuration")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			if batchID > 0 {
				files, err := store.Files(cmd.Context(), batchID)
				if err != nil {
					return err
				}
				if jsonOut {
					return printJSON(os.Stdout, files)
				}
				rows := make([][]string, 0, len(files))
				for _, f := range files {
					status := "failed"
					if f.OK {
						status = "ok"
					}
					rows = append(rows, []string{f.SourceName, status, f.OutputName, f.Message})
				}
				fmt.Println(renderTable([]string{"Source", "Status", "Output", "Message"}, rows))
				return nil
			}

			batches, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(os.Stdout, batches)
			}
			rows := make([][]string, 0, len(batches))
			for _, b := range batches {
				rows = append(rows, []string{
					fmt.Sprintf("%d", b.ID),
					b.StartedAt.Local().Format(time.DateTime),
					b.TargetFormat,
					fmt.Sprintf("%d", b.Succeeded),
					fmt.Sprintf("%d", b.Failed),
				})
			}
			fmt.Println(renderTable([]string{"ID", "Started", "Format", "Succeeded", "Failed"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of batches to list")
	cmd.Flags().Int64Var(&batchID, "id", 0, "Show per-file outcomes for one batch")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit history as JSON")
	return cmd
}
