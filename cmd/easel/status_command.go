package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"easel/internal/launcher"
	"easel/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the workstation is ready to publish",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, "Environment:")
			results := preflight.RunAll(cfg)
			for _, result := range results {
				fmt.Fprintln(out, renderCheckLine(result.Name, result.Passed, result.Detail, colorize))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Application installs:")
			installs := launcher.Scan(cfg.Host.ExecutablePaths)
			if len(installs) == 0 {
				fmt.Fprintln(out, "  none found")
			}
			for _, install := range installs {
				fmt.Fprintf(out, "  %s (%s)\n", install.Path, install.Version)
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "Publish registry: %s\n", filepath.Join(cfg.Paths.StateDir, "registry.db"))

			if !preflight.Passed(results) {
				return errors.New("environment checks failed")
			}
			return nil
		},
	}
}
