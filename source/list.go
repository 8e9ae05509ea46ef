package source

import (
	"fmt"

	"github.com/fxsml/zipflow/archive"
)

// List collects entries in insertion order. The zero value is ready to use.
type List struct {
	entries []archive.Entry
	names   map[string]struct{}
}

// Add appends an entry. It fails with archive.ErrDuplicateEntry if name is
// already present and with archive.ErrInvalidEntry if name is empty or
// open is nil.
func (l *List) Add(name string, open archive.OpenFunc) error {
	if name == "" || open == nil {
		return fmt.Errorf("%w: %q", archive.ErrInvalidEntry, name)
	}
	if _, ok := l.names[name]; ok {
		return fmt.Errorf("%w: %q", archive.ErrDuplicateEntry, name)
	}
	if l.names == nil {
		l.names = make(map[string]struct{})
	}
	l.names[name] = struct{}{}
	l.entries = append(l.entries, archive.Entry{Name: name, Open: open})
	return nil
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries in insertion order.
func (l *List) Entries() []archive.Entry {
	return append([]archive.Entry(nil), l.entries...)
}
