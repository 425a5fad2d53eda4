package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"easel/internal/sequence"
)

func newGroupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "group <file>...",
		Short:       "Group texture files into UDIM sequences",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := sequence.Group(args)

			rows := make([][]string, 0, len(groups))
			for _, group := range groups {
				rows = append(rows, []string{
					sequence.Key(group[0]),
					strconv.Itoa(len(group)),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Sequence", "Files"}, rows))
			return nil
		},
	}

	cmd.AddCommand(newGroupFieldsCommand())
	return cmd
}

func newGroupFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "fields <file>...",
		Short:       "Show the publish template fields parsed from export filenames",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(args))
			var failed bool
			for _, arg := range args {
				fields, err := sequence.ParseFields(filepath.Base(arg))
				if err != nil {
					failed = true
					rows = append(rows, []string{filepath.Base(arg), "", "", "", "", "unrecognized"})
					continue
				}
				udim := ""
				if fields.HasUDIM {
					udim = strconv.Itoa(fields.UDIM)
				}
				rows = append(rows, []string{
					filepath.Base(arg),
					fields.TextureSet,
					fields.TextureMap,
					fields.Colorspace,
					udim,
					fields.Extension,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "Texture Set", "Map", "Colorspace", "UDIM", "Ext"}, rows))
			if failed {
				return errors.New("some filenames do not follow the export convention")
			}
			return nil
		},
	}
}
