package pipe

import (
	"io"
	"sync"
)

// DefaultCapacity is the buffer size used when Open is called with a
// non-positive capacity.
const DefaultCapacity = 64 * 1024

// Pipe is a bounded, in-process byte channel with one writing end and one
// reading end. Bytes written to the Sink become readable from the Source in
// the same order. When the buffer is full, Sink.Write blocks until the
// reader makes room.
type Pipe struct {
	mu       sync.Mutex
	readable sync.Cond
	writable sync.Cond

	buf  []byte
	head int // next byte to read
	size int // bytes buffered

	werr error // set once the sink is closed
	rerr error // set once the source is closed

	sink   Sink
	source Source
}

// Open creates a pipe whose buffer holds capacity bytes.
// A non-positive capacity selects DefaultCapacity.
func Open(capacity int) *Pipe {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	p := &Pipe{buf: make([]byte, capacity)}
	p.readable.L = &p.mu
	p.writable.L = &p.mu
	p.sink.p = p
	p.source.p = p
	return p
}

// Sink returns the writing end of the pipe.
func (p *Pipe) Sink() *Sink { return &p.sink }

// Source returns the reading end of the pipe.
func (p *Pipe) Source() *Source { return &p.source }

// Cap returns the capacity of the pipe buffer in bytes.
func (p *Pipe) Cap() int { return len(p.buf) }

// Buffered returns the number of bytes written but not yet read.
func (p *Pipe) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.size
}

func (p *Pipe) write(b []byte) (n int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(b) > 0 {
		for p.size == len(p.buf) && p.rerr == nil && p.werr == nil {
			p.writable.Wait()
		}
		if p.rerr != nil || p.werr != nil {
			return n, io.ErrClosedPipe
		}

		tail := (p.head + p.size) % len(p.buf)
		end := len(p.buf)
		if tail < p.head {
			end = p.head
		}
		free := len(p.buf) - p.size
		if end-tail > free {
			end = tail + free
		}
		c := copy(p.buf[tail:end], b)
		p.size += c
		n += c
		b = b[c:]
		p.readable.Signal()
	}
	return n, nil
}

func (p *Pipe) read(b []byte) (n int, err error) {
	if len(b) == 0 {
		return 0, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for p.size == 0 && p.werr == nil && p.rerr == nil {
		p.readable.Wait()
	}
	if p.rerr != nil {
		return 0, io.ErrClosedPipe
	}
	if p.size == 0 {
		return 0, p.werr
	}

	for n < len(b) && p.size > 0 {
		end := p.head + p.size
		if end > len(p.buf) {
			end = len(p.buf)
		}
		c := copy(b[n:], p.buf[p.head:end])
		p.head = (p.head + c) % len(p.buf)
		p.size -= c
		n += c
	}
	if p.size == 0 {
		p.head = 0
	}
	p.writable.Signal()
	return n, nil
}

func (p *Pipe) closeWrite(err error) {
	if err == nil {
		err = io.EOF
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.werr == nil {
		p.werr = err
	}
	p.readable.Broadcast()
	p.writable.Broadcast()
}

func (p *Pipe) closeRead(err error) {
	if err == nil {
		err = io.ErrClosedPipe
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rerr == nil {
		p.rerr = err
		// Nothing will read the remaining bytes.
		p.size = 0
		p.head = 0
	}
	p.readable.Broadcast()
	p.writable.Broadcast()
}

// Sink is the writing end of a Pipe.
type Sink struct{ p *Pipe }

// Write copies b into the pipe buffer, blocking while the buffer is full.
// It returns io.ErrClosedPipe once either end has been closed.
func (s *Sink) Write(b []byte) (int, error) { return s.p.write(b) }

// Close signals end of data. Readers drain the buffered bytes and then
// receive io.EOF. Closing an already closed sink is a no-op.
func (s *Sink) Close() error {
	s.p.closeWrite(nil)
	return nil
}

// CloseWithError closes the sink so that readers receive err instead of
// io.EOF once the buffer is drained. Only the first close takes effect.
func (s *Sink) CloseWithError(err error) error {
	s.p.closeWrite(err)
	return nil
}

// Source is the reading end of a Pipe.
type Source struct{ p *Pipe }

// Read copies up to len(b) buffered bytes into b, blocking until data is
// available or the sink is closed.
func (s *Source) Read(b []byte) (int, error) { return s.p.read(b) }

// Close releases the reading end. Buffered bytes are discarded and any
// pending or later Sink.Write fails with io.ErrClosedPipe. Closing an
// already closed source is a no-op.
func (s *Source) Close() error {
	s.p.closeRead(nil)
	return nil
}
