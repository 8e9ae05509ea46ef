package channel_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/fxsml/zipflow/channel"
)

func TestFromReader(t *testing.T) {
	cases := []struct {
		name  string
		input string
		size  int
		want  []string
	}{
		{"empty", "", 4, nil},
		{"smaller than size", "abc", 4, []string{"abc"}},
		{"exact multiple", "abcdefgh", 4, []string{"abcd", "efgh"}},
		{"remainder", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			chunks, errc := channel.FromReader(context.Background(), strings.NewReader(c.input), c.size, nil)
			var got []string
			for chunk := range chunks {
				if len(chunk) > c.size {
					t.Fatalf("chunk of %d bytes exceeds size %d", len(chunk), c.size)
				}
				got = append(got, string(chunk))
			}
			if err := <-errc; err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Join(got, "|") != strings.Join(c.want, "|") {
				t.Errorf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestFromReader_ReadError(t *testing.T) {
	boom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("ok"), iotest.ErrReader(boom))

	chunks, errc := channel.FromReader(context.Background(), r, 16, nil)
	got := channel.ToSlice(chunks)
	if len(got) != 1 || string(got[0]) != "ok" {
		t.Errorf("expected [ok], got %q", got)
	}
	if err := <-errc; !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
}

func TestFromReader_Allocator(t *testing.T) {
	var sizes []int
	alloc := func(size int) []byte {
		sizes = append(sizes, size)
		return make([]byte, size)
	}

	chunks, errc := channel.FromReader(context.Background(), strings.NewReader("abcdef"), 3, alloc)
	got := bytes.Join(channel.ToSlice(chunks), nil)
	if err := <-errc; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "abcdef" {
		t.Errorf("expected %q, got %q", "abcdef", got)
	}
	for _, s := range sizes {
		if s != 3 {
			t.Errorf("expected allocations of 3 bytes, got %d", s)
		}
	}
	// Two full chunks plus one buffer reused for the final empty read.
	if len(sizes) != 3 {
		t.Errorf("expected 3 allocations, got %d", len(sizes))
	}
}

func TestReadInto_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan []byte) // never read

	done := make(chan error, 1)
	go func() { done <- channel.ReadInto(ctx, strings.NewReader("data"), out, 2, nil) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("ReadInto did not return after cancel")
	}
}

func TestReadInto_InvalidSize(t *testing.T) {
	err := channel.ReadInto(context.Background(), strings.NewReader("x"), make(chan []byte, 1), 0, nil)
	if err == nil {
		t.Fatal("expected error for zero size")
	}
}
