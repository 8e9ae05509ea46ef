// Package zipflow turns ordered, lazily opened content sources into a ZIP
// archive delivered as a stream of byte chunks, and reads such a stream
// back.
//
// The archive writer is a blocking [io.Writer] consumer. Zip runs it on a
// dedicated goroutine that writes into a bounded pipe, and relays the pipe
// to a channel on a second goroutine. A consumer that stops receiving
// therefore stops the writer once the pipe is full, and no entry source is
// read faster than the consumer drains the archive.
//
// # Quick Start
//
//	entries := []zipflow.Entry{
//		{Name: "a.txt", Open: source.Strings("x\n", "y\n")},
//		{Name: "b.txt", Open: source.Strings("1\n")},
//	}
//	s := zipflow.Zip(ctx, entries, zipflow.Config{})
//	defer s.Close()
//	if _, err := s.WriteTo(w); err != nil {
//		return err
//	}
//
// Reading an archive stream:
//
//	err := zipflow.Unzip(ctx, s.C(), func(name string, r io.Reader) error {
//		_, err := io.Copy(dst, r)
//		return err
//	})
//
// # Errors
//
// Stream.Err reports how a stream ended. Errors match [ErrFailure] when
// the archive could not be produced, together with [ErrSource], [ErrWrite]
// or [ErrRead] naming the failing side, and [ErrCancel] when the context
// passed to Zip was canceled. Closing a stream is not an error.
//
// # Packages
//
//   - [archive]: Assembler and streaming Reader
//   - [channel]: Channel sources and sinks for byte chunks
//   - [config]: Settings from YAML files and environment variables
//   - [pipe]: Bounded byte pipe between a writer and a reader
//   - [source]: Entry source constructors
//
// [archive]: https://pkg.go.dev/github.com/fxsml/zipflow/archive
// [channel]: https://pkg.go.dev/github.com/fxsml/zipflow/channel
// [config]: https://pkg.go.dev/github.com/fxsml/zipflow/config
// [pipe]: https://pkg.go.dev/github.com/fxsml/zipflow/pipe
// [source]: https://pkg.go.dev/github.com/fxsml/zipflow/source
package zipflow
