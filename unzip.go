package zipflow

import (
	"bufio"
	"context"
	"io"

	"github.com/fxsml/zipflow/archive"
	"github.com/fxsml/zipflow/channel"
	"github.com/fxsml/zipflow/pipe"
	"golang.org/x/sync/errgroup"
)

// MaxLineSize is the longest line Lines accepts.
const MaxLineSize = 16 * 1024 * 1024

// EntryFunc is called by Unzip for each archive entry. r yields the
// decompressed content and is valid only until EntryFunc returns.
type EntryFunc func(name string, r io.Reader) error

// Unzip consumes a chunked ZIP archive from in and calls fn for each entry
// in archive order. Chunks are written into a bounded pipe by a separate
// goroutine while the archive is read on the calling goroutine, so a
// producer of in is throttled by the speed of fn.
//
// Unzip returns after in is closed and the archive has been read, or at
// the first error from ctx, the archive format or fn.
func Unzip(ctx context.Context, in <-chan []byte, fn EntryFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := pipe.Open(DefaultPipeCapacity)

	var g errgroup.Group
	g.Go(func() error {
		err := channel.ToWriter(ctx, in, p.Sink())
		_ = p.Sink().CloseWithError(err)
		return err
	})

	err := readEntries(p.Source(), fn)
	_ = p.Source().Close()
	if err != nil {
		cancel()
		_ = g.Wait()
		return err
	}
	return g.Wait()
}

func readEntries(r io.Reader, fn EntryFunc) error {
	zr := archive.NewReader(r)
	for {
		h, err := zr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := fn(h.Name, zr); err != nil {
			return err
		}
	}
	// Central directory.
	_, err := io.Copy(io.Discard, r)
	return err
}

// Lines is Unzip for text archives. For each entry fn is called first with
// the entry name and then with every line of its content, without line
// terminators.
func Lines(ctx context.Context, in <-chan []byte, fn func(line string) error) error {
	return Unzip(ctx, in, func(name string, r io.Reader) error {
		if err := fn(name); err != nil {
			return err
		}
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 64*1024), MaxLineSize)
		for sc.Scan() {
			if err := fn(sc.Text()); err != nil {
				return err
			}
		}
		return sc.Err()
	})
}
