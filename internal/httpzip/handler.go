// Package httpzip serves zipflow archives as HTTP downloads.
package httpzip

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/google/uuid"

	"github.com/fxsml/zipflow"
)

// DefaultFilename is the attachment name used when none is configured.
const DefaultFilename = "test.zip"

// RequestIDHeader carries the request ID in responses.
const RequestIDHeader = "X-Request-Id"

// Provider supplies the entries of one download. Entries is called once per
// request; sources are opened only while the archive is streamed.
type Provider interface {
	Entries() []zipflow.Entry
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func() []zipflow.Entry

// Entries calls f().
func (f ProviderFunc) Entries() []zipflow.Entry { return f() }

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	// Filename is the attachment name in Content-Disposition.
	// Default is DefaultFilename.
	Filename string

	// Archive configures the archive stream of every request.
	// Its Logger defaults to Logger.
	Archive zipflow.Config

	// Logger for request logging. Default is slog.Default().
	Logger zipflow.Logger
}

func (c HandlerConfig) parse() HandlerConfig {
	if c.Filename == "" {
		c.Filename = DefaultFilename
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Archive.Logger == nil {
		c.Archive.Logger = c.Logger
	}
	return c
}

// Handler streams an archive of the provider's entries in response to GET
// requests. It implements http.Handler.
//
// The response body is written chunk by chunk while the archive is being
// produced, so a slow client slows down the sources instead of the
// archive piling up in memory. A request canceled by the client stops the
// archive stream.
type Handler struct {
	provider Provider
	cfg      HandlerConfig
}

// NewHandler creates a Handler.
func NewHandler(p Provider, cfg HandlerConfig) *Handler {
	return &Handler{provider: p, cfg: cfg.parse()}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, id)

	s := zipflow.Zip(r.Context(), h.provider.Entries(), h.cfg.Archive)
	defer s.Close()

	// The first chunk decides between an error status and a download.
	first, ok := <-s.C()
	if !ok {
		err := s.Err()
		if zipflow.IsCancel(err) {
			h.cfg.Logger.Warn("Archive download canceled",
				"request_id", id,
				"error", err)
			return
		}
		h.cfg.Logger.Error("Archive download failed",
			"request_id", id,
			"error", err)
		http.Error(w, "archive failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": h.cfg.Filename}))
	w.WriteHeader(http.StatusOK)

	fw := &flushWriter{w: w, rc: http.NewResponseController(w)}
	n, err := fw.Write(first)
	s.Release(first)
	if err != nil {
		h.abort(id, int64(n), err)
		return
	}
	m, err := s.WriteTo(fw)
	total := int64(n) + m
	if err != nil {
		h.abort(id, total, err)
		return
	}

	h.cfg.Logger.Info("Archive download completed",
		"request_id", id,
		"bytes", total,
		"entries", s.Stats().Entries)
}

// abort ends a response whose headers are already sent by resetting the
// connection, leaving the client with a truncated body.
func (h *Handler) abort(id string, n int64, err error) {
	if zipflow.IsCancel(err) || errors.Is(err, io.ErrClosedPipe) {
		h.cfg.Logger.Warn("Archive download canceled",
			"request_id", id,
			"bytes", n,
			"error", err)
	} else {
		h.cfg.Logger.Error("Archive download failed",
			"request_id", id,
			"bytes", n,
			"error", err)
	}
	panic(http.ErrAbortHandler)
}

type flushWriter struct {
	w  io.Writer
	rc *http.ResponseController
}

func (f *flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil {
		return n, err
	}
	if err := f.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return n, err
	}
	return n, nil
}
