// Package test provides shared test suites for entry sources.
package test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/fxsml/zipflow/archive"
)

// SourceFunc creates a fresh source for one run of a suite. Sources built
// around a callback call opened from it, so a suite can tell when the
// content starts being produced. Sources without a callback ignore it.
type SourceFunc func(opened func()) archive.OpenFunc

// RunSource runs the suites every source must pass. Its content must be
// want.
func RunSource(t *testing.T, newSource SourceFunc, want string) {
	RunSource_Content(t, newSource, want)
	RunSource_IdleUntilOpened(t, newSource)
	RunSource_StopsOnCancel(t, newSource)
}

// RunCallbackSource runs RunSource plus RunSource_OpensLazily for sources
// that call opened from their callback.
func RunCallbackSource(t *testing.T, newSource SourceFunc, want string) {
	RunSource(t, newSource, want)
	RunSource_OpensLazily(t, newSource)
}

func RunSource_Content(t *testing.T, newSource SourceFunc, want string) {
	t.Run("source content", func(t *testing.T) {
		data, errc := newSource(func() {})(context.Background())

		got, err := drain(t, data, errc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("expected %d bytes %q, got %d bytes %q",
				len(want), abbrev(want), len(got), abbrev(got))
		}
	})
}

// RunSource_IdleUntilOpened checks that creating a source starts no
// goroutine, so nothing can be produced or sent before the source is opened.
func RunSource_IdleUntilOpened(t *testing.T, newSource SourceFunc) {
	t.Run("source idle until opened", func(t *testing.T) {
		current := goleak.IgnoreCurrent()

		var calls atomic.Int32
		open := newSource(func() { calls.Add(1) })

		goleak.VerifyNone(t, current)
		if n := calls.Load(); n != 0 {
			t.Fatalf("callback ran %d times before the source was opened", n)
		}

		data, errc := open(context.Background())
		if _, err := drain(t, data, errc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

// RunSource_OpensLazily checks that the callback of a source runs only
// once the source is opened.
func RunSource_OpensLazily(t *testing.T, newSource SourceFunc) {
	t.Run("source opened lazily", func(t *testing.T) {
		var calls atomic.Int32
		open := newSource(func() { calls.Add(1) })

		time.Sleep(5 * time.Millisecond)
		if n := calls.Load(); n != 0 {
			t.Fatalf("callback ran %d times before the source was opened", n)
		}

		data, errc := open(context.Background())
		if _, err := drain(t, data, errc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n := calls.Load(); n != 1 {
			t.Errorf("expected callback to run once after open, ran %d times", n)
		}
	})
}

func RunSource_StopsOnCancel(t *testing.T, newSource SourceFunc) {
	t.Run("source stops on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		data, errc := newSource(func() {})(ctx)

		select {
		case <-data:
		case <-time.After(time.Second):
		}
		cancel()

		timeout := time.After(time.Second)
		for {
			select {
			case _, ok := <-data:
				if ok {
					continue
				}
			case <-timeout:
				t.Fatal("data channel was not closed after cancel")
			}
			break
		}

		if errc != nil {
			select {
			case err, ok := <-errc:
				if ok && err != nil {
					t.Errorf("canceled source reported %v", err)
				}
			case <-time.After(time.Second):
				t.Fatal("error channel was not closed after cancel")
			}
		}
	})
}

// drain collects the content of an opened source and its terminal error.
func drain(t *testing.T, data <-chan []byte, errc <-chan error) (string, error) {
	t.Helper()

	var sb strings.Builder
	timeout := time.After(5 * time.Second)
loop:
	for {
		select {
		case chunk, ok := <-data:
			if !ok {
				break loop
			}
			sb.Write(chunk)
		case <-timeout:
			t.Fatal("data channel was not closed")
		}
	}

	if errc == nil {
		return sb.String(), nil
	}
	select {
	case err := <-errc:
		return sb.String(), err
	case <-time.After(time.Second):
		t.Fatal("error channel was not closed after data channel")
	}
	return sb.String(), nil
}

func abbrev(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
