package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "easel",
		Short:         "Pipeline integration toolkit for texture painting workstations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newLaunchCommand(ctx))
	rootCmd.AddCommand(newContextCommand(ctx))
	rootCmd.AddCommand(newMenuCommand(ctx))
	rootCmd.AddCommand(newGroupCommand())
	rootCmd.AddCommand(newPublishCommand(ctx))
	rootCmd.AddCommand(newPublishesCommand(ctx))
	rootCmd.AddCommand(newResourcesCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
