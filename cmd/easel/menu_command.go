package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"easel/internal/commands"
	"easel/internal/menu"
	"easel/internal/workctx"
)

// builtinEntries returns the command registrations the integration ships
// with. Callbacks are nil here; the CLI only inspects menu structure.
func builtinEntries() map[string]commands.Entry {
	return map[string]commands.Entry{
		"Publish...": {
			Properties: commands.Properties{
				AppInstance:    "publish",
				AppDisplayName: "Publisher",
				Tooltip:        "Publish exported textures and the project file",
			},
		},
		"Load...": {
			Properties: commands.Properties{
				AppInstance:    "loader",
				AppDisplayName: "Loader",
				Tooltip:        "Browse published files",
			},
		},
		"Work Area Info...": {
			Properties: commands.Properties{
				AppInstance:    "workfiles",
				AppDisplayName: "Work Files",
				Type:           commands.TypeContextMenu,
				Tooltip:        "Show the current work area",
			},
		},
		"Open Log Folder": {
			Properties: commands.Properties{
				AppInstance:    "easel",
				AppDisplayName: "Easel",
				Type:           commands.TypeContextMenu,
				Tooltip:        "Open the integration log folder",
			},
		},
	}
}

func newMenuCommand(ctx *commandContext) *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Render the pipeline menu for a context",
		Long: "Builds the menu tree the integration would show inside the painting\n" +
			"application and prints it. With --project the context is resolved from\n" +
			"that path; without it the menu renders in its no-context form.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			resolver, err := ctx.resolver()
			if err != nil {
				return err
			}

			var current workctx.Context
			if strings.TrimSpace(projectPath) != "" {
				current, err = resolver.FromPath(projectPath)
				if err != nil {
					if !errors.Is(err, workctx.ErrNoContext) {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Note: %q resolves to no context\n\n", projectPath)
				}
			}

			info := menu.ContextInfo{}
			if !current.IsZero() {
				info.Label = current.String()
				info.TrackerURL = resolver.TrackerURL(current)
				info.FilesystemLocations = resolver.FilesystemLocations(current)
			}

			favorites := make([]menu.Favorite, 0, len(cfg.Menu.Favorites))
			for _, ref := range cfg.Menu.Favorites {
				favorites = append(favorites, menu.Favorite{AppInstance: ref.AppInstance, Name: ref.Name})
			}

			root, err := menu.Build(commands.Build(builtinEntries()), menu.Options{
				MenuName:  cfg.Menu.Name,
				Context:   info,
				Favorites: favorites,
				Logger:    ctx.ensureLogger(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, root.Label)
			return menu.Mirror(root, &textRenderer{out: out})
		},
	}

	cmd.Flags().StringVarP(&projectPath, "project", "p", "", "Project file path to resolve the context from")
	return cmd
}

// textRenderer prints a menu tree with two-space indentation per level.
type textRenderer struct {
	out io.Writer
}

func (r *textRenderer) indent(path []string) string {
	return strings.Repeat("  ", len(path)+1)
}

func (r *textRenderer) CreateSubmenu(path []string, label string) error {
	_, err := fmt.Fprintf(r.out, "%s%s/\n", r.indent(path), label)
	return err
}

func (r *textRenderer) AddLeaf(path []string, leaf *menu.Leaf) error {
	suffix := ""
	if !leaf.Enabled {
		suffix = " (disabled)"
	}
	_, err := fmt.Fprintf(r.out, "%s%s%s\n", r.indent(path), leaf.Label, suffix)
	return err
}

func (r *textRenderer) AddSeparator(path []string) error {
	_, err := fmt.Fprintf(r.out, "%s---\n", r.indent(path))
	return err
}
