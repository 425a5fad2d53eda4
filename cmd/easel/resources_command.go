package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"easel/internal/launcher"
)

func newResourcesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Manage the in-host integration resources",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Deploy startup scripts and export presets into the user docs area",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			installed, err := launcher.InstallResources(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(installed) == 0 {
				fmt.Fprintln(out, "Resources already up to date")
				return nil
			}
			for _, path := range installed {
				fmt.Fprintf(out, "Installed %s\n", path)
			}
			return nil
		},
	})

	return cmd
}
