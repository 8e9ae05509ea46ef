package zipflow

import (
	"errors"
	"fmt"

	"github.com/fxsml/zipflow/archive"
)

var (
	// ErrFailure indicates that the archive stream failed.
	ErrFailure = errors.New("zipflow: processing failed")
	// ErrCancel indicates that the archive stream was canceled through its context.
	ErrCancel = errors.New("zipflow: processing canceled")

	// ErrSource indicates that an entry source terminated abnormally.
	ErrSource = archive.ErrSource
	// ErrWrite indicates that writing the archive failed, including writes
	// rejected because the reading side went away.
	ErrWrite = archive.ErrWrite
	// ErrRead indicates that reading archive bytes from the pipe failed.
	ErrRead = errors.New("zipflow: read failed")

	// ErrInvalidEntry is returned for an entry without a name or open function.
	ErrInvalidEntry = archive.ErrInvalidEntry
	// ErrDuplicateEntry is returned when two entries share a name.
	ErrDuplicateEntry = archive.ErrDuplicateEntry
)

type errFailure struct {
	cause error
}

func (e *errFailure) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return ErrFailure.Error()
}

func (e *errFailure) Unwrap() []error {
	return []error{ErrFailure, e.cause}
}

func newErrFailure(err error) error {
	return &errFailure{cause: err}
}

type errCancel struct {
	cause error
}

func (e *errCancel) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return ErrCancel.Error()
}

func (e *errCancel) Unwrap() []error {
	return []error{ErrCancel, e.cause}
}

func newErrCancel(err error) error {
	return &errCancel{cause: err}
}

func newErrRead(err error) error {
	return fmt.Errorf("%w: %w", ErrRead, err)
}

// IsFailure reports whether err is a stream failure.
func IsFailure(err error) bool {
	return errors.Is(err, ErrFailure)
}

// IsCancel reports whether err is a stream cancellation.
func IsCancel(err error) bool {
	return errors.Is(err, ErrCancel)
}
