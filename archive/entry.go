package archive

import (
	"context"
	"fmt"
)

// OpenFunc starts producing the content of one archive entry.
//
// The returned data channel delivers chunks in order and is closed when the
// content ends. The error channel delivers at most one error once the data
// channel is closed; it may be nil for sources that cannot fail.
// Implementations must stop producing when ctx is done.
type OpenFunc func(ctx context.Context) (<-chan []byte, <-chan error)

// Entry pairs an archive entry name with the function that produces its
// content. Open is called only when the assembler starts the entry.
type Entry struct {
	// Name is used verbatim as the path of the entry inside the archive.
	Name string
	// Open produces the entry content. It is invoked at most once.
	Open OpenFunc
}

// Validate checks that every entry has a name and an OpenFunc and that no
// name is used twice.
func Validate(entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return fmt.Errorf("%w: entry %d has no name", ErrInvalidEntry, i)
		}
		if e.Open == nil {
			return fmt.Errorf("%w: entry %q has no open function", ErrInvalidEntry, e.Name)
		}
		if _, ok := seen[e.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateEntry, e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}
