package zipflow

import (
	"io"

	"github.com/fxsml/zipflow/archive"
)

// Stats reports the progress of a Stream.
type Stats struct {
	archive.Stats
	// State is the state of the archive writer.
	State archive.State
	// Buffered is the number of archive bytes waiting in the pipe.
	Buffered int
}

// C returns the channel of archive chunks. It is closed when the archive
// is complete, has failed, or the stream was closed. Concatenating every
// chunk in order yields the archive.
func (s *Stream) C() <-chan []byte {
	return s.out
}

// Done is closed once both goroutines have stopped and Err is final.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err returns the terminal error of the stream. It blocks until the stream
// has stopped. The error matches ErrFailure when the archive could not be
// produced and ErrCancel when the context passed to Zip was canceled.
// After Close, Err returns nil unless the stream had already failed.
func (s *Stream) Err() error {
	<-s.done
	return s.err
}

// Close stops the stream, closes the chunk channel and waits for both
// goroutines to exit. Chunks not yet received are discarded.
// Close is idempotent and always returns nil.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.cancel()
	})
	<-s.done
	return nil
}

// Release hands a received chunk back to the configured allocator if it
// implements Releaser. The chunk must not be used afterwards.
func (s *Stream) Release(chunk []byte) {
	if r, ok := s.allocator.(Releaser); ok {
		r.Release(chunk)
	}
}

// Stats returns a snapshot of the stream's progress.
func (s *Stream) Stats() Stats {
	return Stats{
		Stats:    s.assembler.Stats(),
		State:    s.assembler.State(),
		Buffered: s.pipe.Buffered(),
	}
}

// WriteTo writes every chunk to w, releasing each one after it is written,
// and returns the stream's terminal error. If w fails, the stream is
// closed and the write error returned.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for chunk := range s.out {
		m, err := w.Write(chunk)
		n += int64(m)
		s.Release(chunk)
		if err != nil {
			_ = s.Close()
			return n, err
		}
	}
	return n, s.Err()
}
