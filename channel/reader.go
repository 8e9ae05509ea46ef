package channel

import (
	"context"
	"errors"
	"io"
)

// AllocFunc returns a buffer of exactly size bytes for the next read.
// Ownership of the buffer passes to whoever receives the chunk.
type AllocFunc func(size int) []byte

func (f AllocFunc) alloc(size int) []byte {
	if f == nil {
		return make([]byte, size)
	}
	return f(size)
}

// ReadInto reads r in chunks of at most size bytes and sends each chunk
// to out. It returns nil when r reports io.EOF, ctx.Err() when ctx is
// done before a chunk could be delivered, and the read error otherwise.
// ReadInto does not close out.
//
// Each chunk is a slice of a buffer obtained from alloc (nil allocates
// with make). A read returning zero bytes reuses its buffer.
func ReadInto(
	ctx context.Context,
	r io.Reader,
	out chan<- []byte,
	size int,
	alloc AllocFunc,
) error {
	if size <= 0 {
		return errors.New("channel: read size must be positive")
	}
	var buf []byte
	for {
		if buf == nil {
			buf = alloc.alloc(size)
		}
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case out <- buf[:n]:
				buf = nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// FromReader starts a goroutine that reads r as described by ReadInto.
// The chunk channel is closed when reading stops; the error channel then
// delivers the terminal error, if any, and is closed.
func FromReader(
	ctx context.Context,
	r io.Reader,
	size int,
	alloc AllocFunc,
) (<-chan []byte, <-chan error) {
	out := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		err := ReadInto(ctx, r, out, size, alloc)
		close(out)
		if err != nil {
			errc <- err
		}
	}()

	return out, errc
}
