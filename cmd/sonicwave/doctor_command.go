package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sonicwave/internal/deps"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check ffmpeg availability and directory access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.Check(cfg)
			if jsonOut {
				if err := printJSON(os.Stdout, statuses); err != nil {
					return err
				}
			} else {
				rows := make([][]string, 0, len(statuses))
				for _, status := range statuses {
					state := "ok"
					if !status.Available {
						state = "missing"
					}
					rows = append(rows, []string{status.Name, state, status.Command, status.Detail})
				}
				fmt.Println(renderTable([]string{"Check", "State", "Target", "Detail"}, rows))
			}

			if !deps.AllAvailable(statuses) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit check results as JSON")
	return cmd
}
