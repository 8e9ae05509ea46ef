// Package channel provides stateless channel sources and sinks for the byte
// chunk streams that feed and leave an archive.
//
// All functions that start goroutines take a context and stop when it is
// done, so an abandoned stream never leaks its producer.
//
// # Quick Start
//
//	chunks, errc := channel.FromReader(ctx, file, 32*1024, nil)
//	err := channel.ToWriter(ctx, chunks, dst)
//	if err == nil {
//		err = <-errc
//	}
//
// # Categories
//
// Sources: [FromSlice], [FromReader]
//
// Sinks: [ToSlice], [ToWriter]
//
// Blocking relay: [ReadInto]
//
// For the bounded byte pipe between a blocking writer and a reader, see the
// pipe package.
package channel
