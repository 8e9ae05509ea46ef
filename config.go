package zipflow

import (
	"log/slog"
	"time"

	"github.com/fxsml/zipflow/archive"
	"github.com/fxsml/zipflow/pipe"
)

const (
	// DefaultBufferSize is the maximum size of an emitted chunk.
	DefaultBufferSize = 128 * 1024
	// DefaultPipeCapacity bounds the bytes in flight between the archive
	// writer and the relay.
	DefaultPipeCapacity = pipe.DefaultCapacity
)

// Logger defines an interface for logging at different severity levels.
type Logger = archive.Logger

// Config configures Zip.
type Config struct {
	// BufferSize is the maximum number of bytes in one emitted chunk.
	// Default is DefaultBufferSize.
	BufferSize int

	// PipeCapacity is the capacity of the pipe between the archive writer
	// and the relay. It is the only backpressure control: once it is full,
	// the writer blocks until the consumer takes a chunk.
	// Default is DefaultPipeCapacity.
	PipeCapacity int

	// Method is the compression method of every entry.
	// Stored entries are written with a data descriptor and no sizes in
	// their local headers, so Unzip and Lines reject them with
	// archive.ErrUnsupported. Use archive.Deflate for archives that are
	// read back as a stream.
	// Default is archive.Deflate.
	Method archive.Method

	// Level is the deflate compression level. Zero selects the default level.
	Level int

	// Comment is written as the archive comment.
	Comment string

	// Allocator supplies the buffers of emitted chunks.
	// Default is HeapAllocator.
	Allocator Allocator

	// Clock returns the modification time recorded for each entry.
	// Default is time.Now.
	Clock func() time.Time

	// Logger receives lifecycle events.
	// Default is slog.Default().
	Logger Logger
}

func (c Config) parse() Config {
	if c.BufferSize <= 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.PipeCapacity <= 0 {
		c.PipeCapacity = DefaultPipeCapacity
	}
	if c.Allocator == nil {
		c.Allocator = HeapAllocator{}
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

func (c Config) assembler() archive.AssemblerConfig {
	return archive.AssemblerConfig{
		Method:  c.Method,
		Level:   c.Level,
		Comment: c.Comment,
		Clock:   c.Clock,
		Logger:  c.Logger,
	}
}
