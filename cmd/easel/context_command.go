package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newContextCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "context <path>",
		Short: "Resolve the production context for a file path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := ctx.resolver()
			if err != nil {
				return err
			}

			current, err := resolver.FromPath(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project: %s\n", current.Project)
			fmt.Fprintf(out, "Entity:  %s\n", current.Entity)
			fmt.Fprintf(out, "Task:    %s\n", current.Task)
			if url := resolver.TrackerURL(current); url != "" {
				fmt.Fprintf(out, "Tracker: %s\n", url)
			}
			if workArea, err := resolver.WorkAreaPath(current); err == nil {
				fmt.Fprintf(out, "Work area: %s\n", workArea)
			}
			return nil
		},
	}
}
