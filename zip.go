package zipflow

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fxsml/zipflow/archive"
	"github.com/fxsml/zipflow/channel"
	"github.com/fxsml/zipflow/pipe"
	"golang.org/x/sync/errgroup"
)

// Entry is a named archive entry backed by a lazily opened source.
type Entry = archive.Entry

// OpenFunc opens the source of an entry.
type OpenFunc = archive.OpenFunc

// Zip streams a ZIP archive containing entries, in order, as a sequence of
// byte chunks of at most cfg.BufferSize bytes.
//
// The archive is written by a dedicated goroutine into a bounded pipe, and
// a second goroutine relays the pipe's contents to the returned Stream.
// Each entry's source is opened only after the previous entry has been
// fully written. Once the pipe holds cfg.PipeCapacity bytes, writing
// blocks until the consumer receives more chunks.
//
// Canceling ctx or calling Stream.Close stops both goroutines and closes
// the chunk channel. Zip never blocks.
func Zip(ctx context.Context, entries []Entry, cfg Config) *Stream {
	cfg = cfg.parse()

	sctx, cancel := context.WithCancel(ctx)
	p := pipe.Open(cfg.PipeCapacity)
	s := &Stream{
		out:       make(chan []byte),
		done:      make(chan struct{}),
		cancel:    cancel,
		pipe:      p,
		assembler: archive.NewAssembler(p.Sink(), cfg.assembler()),
		allocator: cfg.Allocator,
		logger:    cfg.Logger,
	}

	g, gctx := errgroup.WithContext(sctx)

	g.Go(func() error {
		defer p.Sink().Close()
		return s.assembler.Assemble(gctx, entries)
	})

	g.Go(func() error {
		err := channel.ReadInto(gctx, p.Source(), s.out, cfg.BufferSize, cfg.Allocator.Allocate)
		if err != nil && gctx.Err() == nil {
			err = newErrRead(err)
			s.readErr.Store(&err)
		}
		// Releases a writer blocked on a full pipe.
		_ = p.Source().Close()
		return err
	})

	go func() {
		defer close(s.done)
		err := g.Wait()
		cancel()
		close(s.out)
		s.finish(ctx, err)
	}()

	return s
}

// Stream is the consumer side of Zip.
type Stream struct {
	out    chan []byte
	done   chan struct{}
	cancel context.CancelFunc

	pipe      *pipe.Pipe
	assembler *archive.Assembler
	allocator Allocator
	logger    Logger

	closeOnce sync.Once
	closed    atomic.Bool
	readErr   atomic.Pointer[error]
	err       error
}

func (s *Stream) finish(ctx context.Context, err error) {
	if p := s.readErr.Load(); p != nil {
		err = *p
	}

	stats := s.assembler.Stats()
	switch {
	case err == nil:
		s.logger.Debug("Archive stream completed",
			"entries", stats.Entries,
			"archive_bytes", stats.ArchiveBytes)
	case s.closed.Load():
		s.logger.Debug("Archive stream closed",
			"entries", stats.Entries,
			"archive_bytes", stats.ArchiveBytes)
	case ctx.Err() != nil:
		s.err = newErrCancel(ctx.Err())
		s.logger.Warn("Archive stream canceled",
			"entries", stats.Entries,
			"error", ctx.Err())
	default:
		s.err = newErrFailure(err)
		s.logger.Error("Archive stream failed",
			"entries", stats.Entries,
			"error", err)
	}
}
