package channel

import "context"

// FromSlice sends each element of slice into the returned channel.
// The returned channel is closed after all values have been sent
// or ctx is done, whichever happens first.
func FromSlice[T any](
	ctx context.Context,
	slice []T,
) <-chan T {
	out := make(chan T)

	go func() {
		defer close(out)
		for _, val := range slice {
			select {
			case out <- val:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
