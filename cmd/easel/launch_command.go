package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"easel/internal/launcher"
	"easel/internal/workctx"
)

func newLaunchCommand(ctx *commandContext) *cobra.Command {
	var (
		filePath    string
		installPath string
		listOnly    bool
		printEnv    bool
	)

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Launch the painting application with the integration bootstrapped",
		Long: "Scans the known install locations plus any configured executable\n" +
			"paths, prepares the bootstrap environment, and starts the application.\n" +
			"With --file the context is resolved from that path and the file is\n" +
			"opened on startup.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			installs := launcher.Scan(cfg.Host.ExecutablePaths)

			if listOnly {
				return renderInstalls(cmd, installs)
			}

			if len(installs) == 0 {
				return errors.New("no application installs found; configure host.executable_paths")
			}

			install, err := selectInstall(installs, installPath)
			if err != nil {
				return err
			}

			var current workctx.Context
			if strings.TrimSpace(filePath) != "" {
				resolver, err := ctx.resolver()
				if err != nil {
					return err
				}
				current, err = resolver.FromPath(filePath)
				if err != nil && !errors.Is(err, workctx.ErrNoContext) {
					return err
				}
			}

			info, err := launcher.PrepareLaunch(install, current, filePath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if printEnv {
				fmt.Fprintln(out, info.Path)
				keys := make([]string, 0, len(info.Env))
				for key := range info.Env {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				for _, key := range keys {
					fmt.Fprintf(out, "%s=%s\n", key, info.Env[key])
				}
				return nil
			}

			proc := exec.Command(info.Path)
			proc.Env = os.Environ()
			for key, value := range info.Env {
				proc.Env = append(proc.Env, key+"="+value)
			}
			if err := proc.Start(); err != nil {
				return fmt.Errorf("start %q: %w", info.Path, err)
			}
			// The host runs on its own; launching does not wait for it.
			if err := proc.Process.Release(); err != nil {
				return fmt.Errorf("release process: %w", err)
			}

			ctx.ensureLogger().Info("launched host application",
				"path", info.Path, "context", current.String())
			fmt.Fprintf(out, "Launched %s\n", install.Product)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Project file to open, also used to resolve the context")
	cmd.Flags().StringVar(&installPath, "install", "", "Launch this install path instead of the first discovered one")
	cmd.Flags().BoolVar(&listOnly, "list", false, "List discovered installs without launching")
	cmd.Flags().BoolVar(&printEnv, "print-env", false, "Print the launch environment instead of launching")
	return cmd
}

func renderInstalls(cmd *cobra.Command, installs []launcher.Install) error {
	out := cmd.OutOrStdout()
	if len(installs) == 0 {
		fmt.Fprintln(out, "No application installs found")
		return nil
	}

	rows := make([][]string, 0, len(installs))
	for _, install := range installs {
		rows = append(rows, []string{install.Product, install.Version, install.Path})
	}
	fmt.Fprintln(out, renderTable([]string{"Product", "Version", "Path"}, rows))
	return nil
}

func selectInstall(installs []launcher.Install, path string) (launcher.Install, error) {
	if strings.TrimSpace(path) == "" {
		return installs[0], nil
	}
	for _, install := range installs {
		if install.Path == path {
			return install, nil
		}
	}
	return launcher.Install{}, fmt.Errorf("no discovered install at %q (try --list)", path)
}
