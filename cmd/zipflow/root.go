package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// app carries the resolved settings through the command tree.
type app struct {
	configPath string
	settings   Settings
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	return newApp().command()
}

func newApp() *app {
	return &app{settings: defaultSettings()}
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zipflow",
		Short: "zipflow streams ZIP archives with bounded memory",
		Long: `
The zipflow command builds ZIP archives from lazily opened sources and streams
them to files, stdout or HTTP clients without holding the archive in memory.
`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	fs := cmd.PersistentFlags()
	fs.StringVarP(&a.configPath, "config", "c", "", "YAML settings file")
	registerLogFlags(fs, &a.settings.Log)
	registerArchiveFlags(fs, &a.settings.Archive)

	cmd.AddCommand(
		newServeCmd(a),
		newPackCmd(a),
		newCatCmd(a),
	)
	return cmd
}

// init resolves settings and creates the logger.
func (a *app) init(cmd *cobra.Command) error {
	changed := changedFlags(cmd.Flags())
	if err := a.settings.load(a.configPath); err != nil {
		return err
	}
	if err := reapply(cmd.Flags(), changed); err != nil {
		return err
	}

	logger, err := newLogger(a.settings.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger
	a.logger.Debug("Settings resolved",
		"config", a.configPath,
		"buffer_size", a.settings.Archive.BufferSize,
		"pipe_capacity", a.settings.Archive.PipeCapacity,
		"method", a.settings.Archive.Method.String())
	return nil
}
