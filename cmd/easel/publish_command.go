package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"easel/internal/publish"
	"easel/internal/sequence"
	"easel/internal/workctx"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish project files and exported textures",
	}

	cmd.AddCommand(newPublishProjectCommand(ctx))
	cmd.AddCommand(newPublishTexturesCommand(ctx))
	return cmd
}

func newPublishProjectCommand(ctx *commandContext) *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "project <file>",
		Short: "Publish a painter project file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			publisher, resolver, store, err := newPublisher(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			current, err := resolver.FromPath(args[0])
			if err != nil {
				return err
			}

			rec, err := publisher.PublishProject(cmd.Context(), current, args[0], comment)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Published %s v%03d (id %d)\n  %s\n",
				rec.Name, rec.Version, rec.ID, rec.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&comment, "comment", "m", "", "Publish comment")
	return cmd
}

func newPublishTexturesCommand(ctx *commandContext) *cobra.Command {
	var (
		setName          string
		comment          string
		contextPath      string
		projectPublishID int64
	)

	cmd := &cobra.Command{
		Use:   "textures <file-or-dir>...",
		Short: "Publish exported texture files as versioned sequences",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectTextureFiles(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.New("no texture files found in the given paths")
			}

			publisher, resolver, store, err := newPublisher(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			anchor := contextPath
			if anchor == "" {
				anchor = files[0]
			}
			current, err := resolver.FromPath(anchor)
			if err != nil {
				return err
			}

			name := setName
			if name == "" {
				fields, err := sequence.ParseFields(filepath.Base(files[0]))
				if err != nil {
					return fmt.Errorf("derive texture set name: %w", err)
				}
				name = fields.TextureSet
			}

			result, err := publisher.PublishTextureSet(cmd.Context(), publish.TextureSetRequest{
				Context:          current,
				SetName:          name,
				Files:            files,
				Comment:          comment,
				ProjectPublishID: projectPublishID,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, rec := range result.Textures {
				fmt.Fprintf(out, "Published %s v%03d (id %d)\n", rec.Name, rec.Version, rec.ID)
			}
			fmt.Fprintf(out, "Published texture set %s v%03d (id %d)\n  %s\n",
				result.Set.Name, result.Set.Version, result.Set.ID, result.Set.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&setName, "set", "s", "", "Texture set name (derived from filenames when omitted)")
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "Publish comment")
	cmd.Flags().StringVar(&contextPath, "context-path", "", "Path to resolve the context from (defaults to the first file)")
	cmd.Flags().Int64Var(&projectPublishID, "project-publish", 0, "Publish id of the project file these textures came from")
	return cmd
}

func newPublisher(ctx *commandContext) (*publish.Publisher, *workctx.Resolver, *publish.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	set, err := ctx.templateSet()
	if err != nil {
		return nil, nil, nil, err
	}
	resolver, err := ctx.resolver()
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := publish.Open(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return publish.NewPublisher(cfg, store, set, ctx.ensureLogger()), resolver, store, nil
}

// collectTextureFiles expands directory arguments into the texture files
// they contain. Directory entries that do not follow the export naming
// convention are skipped; explicitly named files are kept as-is.
func collectTextureFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("inspect %q: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", arg, err)
		}
		var found []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if _, err := sequence.ParseFields(entry.Name()); err != nil {
				continue
			}
			found = append(found, filepath.Join(arg, entry.Name()))
		}
		sort.Strings(found)
		files = append(files, found...)
	}

	for i, file := range files {
		if strings.TrimSpace(file) == "" {
			return nil, fmt.Errorf("empty file argument at position %d", i)
		}
	}
	return files, nil
}
