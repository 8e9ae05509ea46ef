// Package pipe provides a bounded, blocking byte pipe used as a flow-control
// boundary between a goroutine that writes with ordinary blocking calls and
// one that reads.
//
// This package is part of [zipflow]. The zipflow family includes:
//
//   - [channel] - Stateless channel sources and sinks for byte chunks
//   - [pipe] (this package) - Bounded byte pipe between a writer and a reader
//   - [archive] - Streaming zip assembler and reader
//
// Unlike [io.Pipe], which hands each write directly to a reader, a [Pipe]
// buffers up to its capacity. The writer only blocks once the buffer is full,
// so a slow reader throttles a fast writer without unbounded buffering.
//
// # Quick Start
//
//	p := pipe.Open(64 * 1024)
//	go func() {
//		defer p.Sink().Close()
//		zw := zip.NewWriter(p.Sink())
//		// ... write entries
//		zw.Close()
//	}()
//	defer p.Source().Close()
//	io.Copy(dst, p.Source())
//
// # Lifecycle
//
// Both ends must be closed. [Sink.Close] signals end of data: the reader
// drains what is buffered and then sees [io.EOF]. [Source.Close] abandons
// the pipe: buffered bytes are dropped and the writer's next (or pending)
// write fails with [io.ErrClosedPipe]. Closing an end twice is a no-op.
//
// [zipflow]: https://github.com/fxsml/zipflow
// [channel]: https://pkg.go.dev/github.com/fxsml/zipflow/channel
// [pipe]: https://pkg.go.dev/github.com/fxsml/zipflow/pipe
// [archive]: https://pkg.go.dev/github.com/fxsml/zipflow/archive
package pipe
