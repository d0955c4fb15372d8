package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sonicwave/internal/format"
)

func newFormatsCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List supported output formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles := make([]format.Profile, 0, len(format.IDs()))
			for _, id := range format.IDs() {
				profile, err := format.Resolve(id)
				if err != nil {
					return err
				}
				profiles = append(profiles, profile)
			}

			if jsonOut {
				return printJSON(os.Stdout, profiles)
			}

			rows := make([][]string, 0, len(profiles))
			for _, profile := range profiles {
				bitrate := "no"
				if profile.SupportsBitrate {
					bitrate = "yes"
				}
				rows = append(rows, []string{
					profile.ID,
					format.DisplayName(profile.ID),
					profile.Codec,
					bitrate,
					profile.MIMEType,
				})
			}
			fmt.Println(renderTable([]string{"ID", "Name", "Codec", "Bitrate", "MIME Type"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the format list as JSON")
	return cmd
}
