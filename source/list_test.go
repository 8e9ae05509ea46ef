package source

import (
	"errors"
	"testing"

	"github.com/fxsml/zipflow/archive"
)

func TestList(t *testing.T) {
	var l List
	for _, name := range []string{"c", "a", "b"} {
		if err := l.Add(name, Empty()); err != nil {
			t.Fatalf("Add(%q): %v", name, err)
		}
	}

	if err := l.Add("a", Empty()); !errors.Is(err, archive.ErrDuplicateEntry) {
		t.Errorf("expected ErrDuplicateEntry, got %v", err)
	}
	if err := l.Add("", Empty()); !errors.Is(err, archive.ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry for empty name, got %v", err)
	}
	if err := l.Add("d", nil); !errors.Is(err, archive.ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry for nil source, got %v", err)
	}

	entries := l.Entries()
	if l.Len() != 3 || len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"c", "a", "b"} {
		if entries[i].Name != want {
			t.Errorf("entry %d: expected %q, got %q", i, want, entries[i].Name)
		}
	}
	if err := archive.Validate(entries); err != nil {
		t.Errorf("entries do not validate: %v", err)
	}
}
