package source

import (
	"context"
	"io"
	"os"

	"github.com/fxsml/zipflow/archive"
	"github.com/fxsml/zipflow/channel"
)

// ChunkSize is the maximum size of chunks produced by Reader, File and the
// writer based sources.
const ChunkSize = 32 * 1024

// EmitFunc delivers one chunk to the archive. It blocks until the chunk is
// taken and returns ctx.Err() once the source is canceled. The chunk must
// not be modified after it has been emitted.
type EmitFunc func(chunk []byte) error

// start runs produce on a new goroutine and wires its result into the
// channel pair of an entry source.
func start(ctx context.Context, produce func(out chan<- []byte) error) (<-chan []byte, <-chan error) {
	out := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		err := produce(out)
		close(out)
		if err != nil && ctx.Err() == nil {
			errc <- err
		}
	}()

	return out, errc
}

// Bytes returns a source that emits each chunk as given.
func Bytes(chunks ...[]byte) archive.OpenFunc {
	return func(ctx context.Context) (<-chan []byte, <-chan error) {
		return channel.FromSlice(ctx, chunks), nil
	}
}

// Strings returns a source that emits each string as one chunk.
func Strings(chunks ...string) archive.OpenFunc {
	b := make([][]byte, len(chunks))
	for i, s := range chunks {
		b[i] = []byte(s)
	}
	return Bytes(b...)
}

// Empty returns a source without content.
func Empty() archive.OpenFunc {
	return Bytes()
}

// Channel returns a source that forwards chunks from in until in is closed.
// The channel is consumed by the archive only, so the source can be opened
// once.
func Channel(in <-chan []byte) archive.OpenFunc {
	return func(ctx context.Context) (<-chan []byte, <-chan error) {
		return start(ctx, func(out chan<- []byte) error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case chunk, ok := <-in:
					if !ok {
						return nil
					}
					select {
					case out <- chunk:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
			}
		})
	}
}

// Func returns a source whose content is produced by fn calling emit.
// fn runs on its own goroutine when the entry is opened. Returning a
// non-nil error fails the entry.
func Func(fn func(ctx context.Context, emit EmitFunc) error) archive.OpenFunc {
	return func(ctx context.Context) (<-chan []byte, <-chan error) {
		return start(ctx, func(out chan<- []byte) error {
			return fn(ctx, func(chunk []byte) error {
				select {
				case out <- chunk:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		})
	}
}

// Reader returns a source that reads from the ReadCloser returned by open.
// open is called when the entry is opened, and the reader is closed when
// the source ends.
func Reader(open func() (io.ReadCloser, error)) archive.OpenFunc {
	return func(ctx context.Context) (<-chan []byte, <-chan error) {
		return start(ctx, func(out chan<- []byte) error {
			rc, err := open()
			if err != nil {
				return err
			}
			defer rc.Close()
			return channel.ReadInto(ctx, rc, out, ChunkSize, nil)
		})
	}
}

// File returns a source with the content of the file at path.
func File(path string) archive.OpenFunc {
	return Reader(func() (io.ReadCloser, error) {
		return os.Open(path)
	})
}

// Writer returns a source whose content is written to w by fn. Writes are
// collected into chunks of up to ChunkSize bytes.
func Writer(fn func(ctx context.Context, w io.Writer) error) archive.OpenFunc {
	return Func(func(ctx context.Context, emit EmitFunc) error {
		w := &chunkWriter{emit: emit, buf: make([]byte, 0, ChunkSize)}
		if err := fn(ctx, w); err != nil {
			return err
		}
		return w.flush()
	})
}

type chunkWriter struct {
	emit EmitFunc
	buf  []byte
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		m := copy(w.buf[len(w.buf):cap(w.buf)], p)
		w.buf = w.buf[:len(w.buf)+m]
		p = p[m:]
		if len(w.buf) == cap(w.buf) {
			if err := w.flush(); err != nil {
				return n - len(p), err
			}
		}
	}
	return n, nil
}

func (w *chunkWriter) flush() error {
	if len(w.buf) == 0 {
		return nil
	}
	chunk := w.buf
	w.buf = make([]byte, 0, cap(chunk))
	return w.emit(chunk)
}
