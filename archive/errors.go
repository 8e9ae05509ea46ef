package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrSource indicates that an entry's content source terminated abnormally.
	ErrSource = errors.New("archive: source failed")
	// ErrWrite indicates that writing to the archive or its destination failed.
	ErrWrite = errors.New("archive: write failed")

	// ErrInvalidEntry is returned for an entry without a name or open function.
	ErrInvalidEntry = errors.New("archive: invalid entry")
	// ErrDuplicateEntry is returned when two entries share a name.
	ErrDuplicateEntry = errors.New("archive: duplicate entry name")
	// ErrAlreadyStarted is returned when Assemble is called more than once.
	ErrAlreadyStarted = errors.New("archive: already started")

	// ErrFormat is returned by Reader for data that is not a zip stream.
	ErrFormat = errors.New("archive: not a valid zip stream")
	// ErrChecksum is returned by Reader when an entry's content does not
	// match its recorded CRC-32 or sizes.
	ErrChecksum = errors.New("archive: checksum error")
	// ErrUnsupported is returned by Reader for entries that cannot be
	// decoded from a stream, such as encrypted entries or stored entries
	// whose size is only recorded after the data.
	ErrUnsupported = errors.New("archive: unsupported entry")
)

// EntryError reports a failure while assembling one entry. Kind is ErrSource
// or ErrWrite; Entry is empty when the failure happened while finalizing
// the archive.
type EntryError struct {
	Kind  error
	Entry string
	Err   error
}

func (e *EntryError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%v: entry %q: %v", e.Kind, e.Entry, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *EntryError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func sourceError(entry string, err error) error {
	return &EntryError{Kind: ErrSource, Entry: entry, Err: err}
}

func writeError(entry string, err error) error {
	return &EntryError{Kind: ErrWrite, Entry: entry, Err: err}
}
