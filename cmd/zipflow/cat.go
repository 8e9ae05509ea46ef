package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fxsml/zipflow"
	"github.com/fxsml/zipflow/channel"
)

func newCatCmd(a *app) *cobra.Command {
	var namesOnly bool

	cmd := &cobra.Command{
		Use:   "cat [ARCHIVE]",
		Short: "Print the entries of a ZIP archive line by line",
		Long: `
Cat reads a ZIP archive from the given file or from stdin as a stream and
prints, for every entry, its name followed by each line of its content.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			out := bufio.NewWriter(cmd.OutOrStdout())
			if err := a.cat(cmd, r, out, namesOnly); err != nil {
				return err
			}
			return out.Flush()
		},
	}

	cmd.Flags().BoolVar(&namesOnly, "names", false, "print entry names only")
	return cmd
}

func (a *app) cat(cmd *cobra.Command, r io.Reader, w io.Writer, namesOnly bool) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	size := a.settings.Archive.BufferSize
	if size <= 0 {
		size = zipflow.DefaultBufferSize
	}
	chunks, errc := channel.FromReader(ctx, r, size, nil)

	var err error
	if namesOnly {
		err = zipflow.Unzip(ctx, chunks, func(name string, _ io.Reader) error {
			_, err := fmt.Fprintln(w, name)
			return err
		})
	} else {
		err = zipflow.Lines(ctx, chunks, func(line string) error {
			_, err := fmt.Fprintln(w, line)
			return err
		})
	}
	if err != nil {
		return err
	}
	return <-errc
}
