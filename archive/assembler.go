package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// Logger defines an interface for logging at different severity levels.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(msg string, args ...any)
	// Info logs a message at info level.
	Info(msg string, args ...any)
	// Warn logs a message at warning level.
	Warn(msg string, args ...any)
	// Error logs a message at error level.
	Error(msg string, args ...any)
}

// Method selects how entry content is stored.
type Method int

const (
	// Deflate compresses entries with DEFLATE. It is the default.
	Deflate Method = iota
	// Store writes entries uncompressed.
	Store
)

func (m Method) String() string {
	switch m {
	case Deflate:
		return "deflate"
	case Store:
		return "store"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ParseMethod parses a method from its string representation.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "deflate", "":
		return Deflate, nil
	case "store":
		return Store, nil
	default:
		return 0, fmt.Errorf("archive: unknown compression method %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if m != Deflate && m != Store {
		return nil, fmt.Errorf("archive: unknown compression method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Method) zipMethod() uint16 {
	if m == Store {
		return zip.Store
	}
	return zip.Deflate
}

// AssemblerConfig configures an Assembler.
type AssemblerConfig struct {
	// Method is the compression method of every entry.
	// Default is Deflate.
	Method Method

	// Level is the deflate compression level, from flate.HuffmanOnly (-2)
	// to flate.BestCompression (9). Zero selects flate.DefaultCompression.
	Level int

	// Comment is written as the archive comment.
	Comment string

	// Clock returns the modification time recorded for each entry.
	// Default is time.Now.
	Clock func() time.Time

	// Logger receives entry lifecycle events.
	// Default is slog.Default().
	Logger Logger
}

func (c AssemblerConfig) parse() AssemblerConfig {
	if c.Level == 0 {
		c.Level = flate.DefaultCompression
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

func (c AssemblerConfig) validate() error {
	if c.Method != Deflate && c.Method != Store {
		return fmt.Errorf("archive: unsupported compression method %v", c.Method)
	}
	if c.Level < flate.HuffmanOnly || c.Level > flate.BestCompression {
		return fmt.Errorf("archive: invalid compression level %d", c.Level)
	}
	return nil
}

// Stats describes the progress of an Assembler.
type Stats struct {
	// Entries is the number of entries that were closed.
	Entries int
	// ContentBytes is the number of uncompressed content bytes accepted.
	ContentBytes int64
	// ArchiveBytes is the number of archive bytes written to the destination.
	ArchiveBytes int64
}

// Assembler writes entries, one at a time and in order, into a zip archive
// streamed to an io.Writer. It owns the zip writer: all calls to it happen
// on the goroutine running Assemble.
type Assembler struct {
	w   *countingWriter
	cfg AssemblerConfig

	started atomic.Bool
	state   atomic.Int32
	entries atomic.Int64
	content atomic.Int64
}

// NewAssembler creates an Assembler writing to w.
func NewAssembler(w io.Writer, cfg AssemblerConfig) *Assembler {
	return &Assembler{
		w:   &countingWriter{w: w},
		cfg: cfg.parse(),
	}
}

// State returns the current lifecycle state.
func (a *Assembler) State() State {
	return State(a.state.Load())
}

// Stats returns a snapshot of the assembly progress.
func (a *Assembler) Stats() Stats {
	return Stats{
		Entries:      int(a.entries.Load()),
		ContentBytes: a.content.Load(),
		ArchiveBytes: a.w.n.Load(),
	}
}

func (a *Assembler) setState(s State) {
	a.state.Store(int32(s))
}

// Assemble writes every entry into the archive in the given order and then
// writes the central directory. Each entry's Open is invoked only after the
// previous entry is closed.
//
// On failure the remaining entries are skipped, the zip writer is closed
// on a best-effort basis, and the error is returned. Source failures match
// ErrSource and writer failures match ErrWrite; if ctx is done first,
// ctx.Err() is returned.
//
// Assemble may only be called once. It does not close the destination.
func (a *Assembler) Assemble(ctx context.Context, entries []Entry) (err error) {
	if !a.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer func() {
		a.setState(StateClosed)
	}()

	if err := a.cfg.validate(); err != nil {
		a.setState(StateFailed)
		return err
	}
	if err := Validate(entries); err != nil {
		a.setState(StateFailed)
		return err
	}

	zw := zip.NewWriter(a.w)
	if a.cfg.Method == Deflate {
		level := a.cfg.Level
		zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, level)
		})
	}
	if a.cfg.Comment != "" {
		if err := zw.SetComment(a.cfg.Comment); err != nil {
			a.setState(StateFailed)
			return err
		}
	}

	defer func() {
		if err != nil {
			a.setState(StateFailed)
			// The destination may already be broken; the first error wins.
			_ = zw.Close()
		}
	}()

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.writeEntry(ctx, zw, e); err != nil {
			if ctx.Err() == nil {
				a.cfg.Logger.Error("Entry failed", "entry", e.Name, "error", err)
			}
			return err
		}
	}

	a.setState(StateFinalizing)
	if err := zw.Close(); err != nil {
		return writeError("", err)
	}
	a.cfg.Logger.Debug("Archive finalized",
		"entries", a.entries.Load(), "content_bytes", a.content.Load(), "archive_bytes", a.w.n.Load())
	return nil
}

func (a *Assembler) writeEntry(ctx context.Context, zw *zip.Writer, e Entry) error {
	a.setState(StateWriting)
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     e.Name,
		Method:   a.cfg.Method.zipMethod(),
		Modified: a.cfg.Clock(),
	})
	if err != nil {
		return writeError(e.Name, err)
	}
	a.cfg.Logger.Debug("Entry opened", "entry", e.Name)

	// The source lives only as long as its entry.
	ectx, cancel := context.WithCancel(ctx)
	defer cancel()
	data, errc := e.Open(ectx)

	var n int64
	for data != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chunk, ok := <-data:
			if !ok {
				data = nil
				continue
			}
			if _, err := w.Write(chunk); err != nil {
				return writeError(e.Name, err)
			}
			n += int64(len(chunk))
			a.content.Add(int64(len(chunk)))
		}
	}

	if errc != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			if err != nil {
				return sourceError(e.Name, err)
			}
		}
	}

	a.entries.Add(1)
	a.cfg.Logger.Debug("Entry closed", "entry", e.Name, "bytes", n)
	return nil
}

type countingWriter struct {
	w io.Writer
	n atomic.Int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n.Add(int64(n))
	return n, err
}
