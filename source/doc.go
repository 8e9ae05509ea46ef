// Package source provides constructors for archive entry sources.
//
// A source is an [archive.OpenFunc]. Nothing is produced until the archive
// writer reaches the entry and opens it; from then on content is produced
// on a goroutine of the source's own, which stops as soon as the context
// passed to the OpenFunc is done.
//
// # Quick Start
//
//	var list source.List
//	_ = list.Add("readme.txt", source.Strings("hello\n"))
//	_ = list.Add("data.ndjson", source.NDJSON(func(ctx context.Context, yield source.YieldFunc) error {
//		for i := range 3 {
//			if err := yield(record{ID: i}); err != nil {
//				return err
//			}
//		}
//		return nil
//	}))
//	s := zipflow.Zip(ctx, list.Entries(), zipflow.Config{})
//
// # Categories
//
// In-memory: [Bytes], [Strings], [Empty], [Channel]
//
// I/O: [Reader], [File]
//
// Generated: [Func], [Writer], [JSON], [NDJSON]
package source
