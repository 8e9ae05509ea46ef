// Package archive streams named byte sources into a zip archive and reads
// such archives back as a forward-only stream.
//
// An [Assembler] drives a zip writer from a single goroutine: entries are
// written one at a time, in the order given, using streaming entries whose
// sizes and checksums follow the content in a data descriptor. The writer
// never needs to know an entry's length in advance, and nothing is buffered
// beyond the compressor's window.
//
//	a := archive.NewAssembler(w, archive.AssemblerConfig{})
//	err := a.Assemble(ctx, []archive.Entry{
//		{Name: "a.txt", Open: openA},
//		{Name: "b.txt", Open: openB},
//	})
//
// A [Reader] is the counterpart. It walks local file headers in storage order
// and stops at the central directory, so it can decode an archive while the
// archive is still being produced.
//
//	r := archive.NewReader(src)
//	for {
//		h, err := r.Next()
//		if err == io.EOF {
//			break
//		}
//		// read the content of h.Name from r
//	}
//
// Compression uses github.com/klauspost/compress.
package archive
