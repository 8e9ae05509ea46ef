package channel

import (
	"context"
	"io"
)

// ToSlice collects all values from the input channel into a slice.
// It blocks until the input channel is closed.
func ToSlice[T any](
	in <-chan T,
) []T {
	var slice []T
	for val := range in {
		slice = append(slice, val)
	}
	return slice
}

// ToWriter writes every chunk received from in to w, in order.
// It returns nil once in is closed, the first write error, or ctx.Err()
// if ctx is done first. Remaining chunks are left in the channel.
func ToWriter(
	ctx context.Context,
	in <-chan []byte,
	w io.Writer,
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chunk, ok := <-in:
			if !ok {
				return nil
			}
			if _, err := w.Write(chunk); err != nil {
				return err
			}
		}
	}
}
