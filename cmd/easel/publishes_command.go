package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"easel/internal/publish"
)

func newPublishesCommand(ctx *commandContext) *cobra.Command {
	var (
		project string
		entity  string
		task    string
	)

	cmd := &cobra.Command{
		Use:   "publishes",
		Short: "List registered publishes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := publish.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), project, entity, task)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No publishes registered")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				deps := ""
				if len(rec.DependencyIDs) > 0 {
					parts := make([]string, 0, len(rec.DependencyIDs))
					for _, dep := range rec.DependencyIDs {
						parts = append(parts, strconv.FormatInt(dep, 10))
					}
					deps = strings.Join(parts, ",")
				}
				rows = append(rows, []string{
					strconv.FormatInt(rec.ID, 10),
					fmt.Sprintf("%s / %s / %s", rec.Project, rec.Entity, rec.Task),
					rec.Name,
					rec.Type,
					fmt.Sprintf("v%03d", rec.Version),
					deps,
					rec.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Context", "Name", "Type", "Version", "Deps", "Created"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Filter by project")
	cmd.Flags().StringVar(&entity, "entity", "", "Filter by entity")
	cmd.Flags().StringVar(&task, "task", "", "Filter by task")

	cmd.AddCommand(newPublishesRemoveCommand(ctx))
	return cmd
}

func newPublishesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a publish record from the registry",
		Long: "Removes the registry record only; published files on disk are left\n" +
			"untouched.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid publish id %q", args[0])
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := publish.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Remove(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no publish with id %d", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed publish %d\n", id)
			return nil
		},
	}
}
