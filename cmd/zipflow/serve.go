package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fxsml/zipflow/internal/httpzip"
	"github.com/fxsml/zipflow/internal/mock"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo archive over HTTP",
		Long: `
Serve starts an HTTP server that answers GET / with a ZIP archive of generated
demo data (type1.json, type2.ndjson and type3.ndjson). The archive is produced
while it is downloaded.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			l, err := net.Listen("tcp", a.settings.Serve.Addr)
			if err != nil {
				return err
			}
			return a.serve(ctx, l)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&a.settings.Serve.Addr, "addr", a.settings.Serve.Addr, "listen address")
	fs.StringVar(&a.settings.Serve.Filename, "filename", a.settings.Serve.Filename, "attachment file name")
	fs.DurationVar(&a.settings.Serve.ShutdownTimeout, "shutdown-timeout", a.settings.Serve.ShutdownTimeout, "grace period for running downloads")
	registerMockFlags(fs, &a.settings)
	return cmd
}

// serve runs the HTTP server on l until ctx is done, then shuts it down
// gracefully.
func (a *app) serve(ctx context.Context, l net.Listener) error {
	handler := httpzip.NewHandler(mock.NewProvider(a.settings.Mock), httpzip.HandlerConfig{
		Filename: a.settings.Serve.Filename,
		Archive:  a.settings.Archive.config(a.logger),
		Logger:   a.logger,
	})

	mux := http.NewServeMux()
	mux.Handle("/{$}", handler)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: a.settings.Serve.ReadHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("Server listening", "addr", l.Addr().String())
		errc <- srv.Serve(l)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Server shutting down", "timeout", a.settings.Serve.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.settings.Serve.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
