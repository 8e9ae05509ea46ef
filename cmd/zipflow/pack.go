package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fxsml/zipflow"
	"github.com/fxsml/zipflow/internal/mock"
	"github.com/fxsml/zipflow/source"
)

func newPackCmd(a *app) *cobra.Command {
	var (
		output  string
		useMock bool
	)

	cmd := &cobra.Command{
		Use:   "pack [FILE...]",
		Short: "Write a ZIP archive of files or of the demo data",
		Long: `
Pack writes a ZIP archive containing the given files, in order, to the output
file or to stdout. Entry names are the file paths as given, with forward
slashes. With --mock the archive contains the generated demo data instead.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []zipflow.Entry
			switch {
			case useMock && len(args) > 0:
				return errors.New("--mock does not take files")
			case useMock:
				entries = mock.NewProvider(a.settings.Mock).Entries()
			case len(args) == 0:
				return errors.New("no files given")
			default:
				var list source.List
				for _, path := range args {
					if err := list.Add(filepath.ToSlash(filepath.Clean(path)), source.File(path)); err != nil {
						return err
					}
				}
				entries = list.Entries()
			}

			if output == "" || output == "-" {
				return a.pack(cmd, entries, cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := a.pack(cmd, entries, f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&output, "output", "o", "", "output file, stdout if empty or -")
	fs.BoolVar(&useMock, "mock", false, "pack the generated demo data")
	registerMockFlags(fs, &a.settings)
	return cmd
}

func (a *app) pack(cmd *cobra.Command, entries []zipflow.Entry, w io.Writer) error {
	s := zipflow.Zip(cmd.Context(), entries, a.settings.Archive.config(a.logger))
	defer s.Close()

	n, err := s.WriteTo(w)
	if err != nil {
		return err
	}
	stats := s.Stats()
	a.logger.Info("Archive written",
		"entries", stats.Entries,
		"content_bytes", stats.ContentBytes,
		"archive_bytes", n)
	return nil
}
