package zipflow_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/fxsml/zipflow"
	"github.com/fxsml/zipflow/archive"
	"github.com/fxsml/zipflow/source"
)

func TestUnzip(t *testing.T) {
	big := strings.Repeat("line of text\n", 20000)
	s := zipflow.Zip(context.Background(), []zipflow.Entry{
		{Name: "big.txt", Open: source.Strings(big)},
		{Name: "small.txt", Open: source.Strings("small")},
	}, zipflow.Config{BufferSize: 100})
	defer s.Close()

	got := map[string]string{}
	var order []string
	err := zipflow.Unzip(context.Background(), s.C(), func(name string, r io.Reader) error {
		b, err := io.ReadAll(r)
		got[name] = string(b)
		order = append(order, name)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(order, ",") != "big.txt,small.txt" {
		t.Errorf("unexpected order %v", order)
	}
	if got["big.txt"] != big || got["small.txt"] != "small" {
		t.Error("unexpected content")
	}
}

func TestUnzip_SkipsUnread(t *testing.T) {
	s := zipflow.Zip(context.Background(), []zipflow.Entry{
		{Name: "one", Open: source.Strings("1")},
		{Name: "two", Open: source.Strings("2")},
	}, zipflow.Config{})
	defer s.Close()

	var names []string
	err := zipflow.Unzip(context.Background(), s.C(), func(name string, r io.Reader) error {
		names = append(names, name)
		return nil
	})
	if err != nil || strings.Join(names, ",") != "one,two" {
		t.Errorf("got %v (%v)", names, err)
	}
}

func TestUnzip_CallbackError(t *testing.T) {
	s := zipflow.Zip(context.Background(), []zipflow.Entry{
		{Name: "a", Open: source.Strings("a")},
		{Name: "b", Open: source.Strings("b")},
	}, zipflow.Config{})
	defer s.Close()

	stop := errors.New("stop")
	err := zipflow.Unzip(context.Background(), s.C(), func(name string, r io.Reader) error {
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("expected %v, got %v", stop, err)
	}
}

func TestUnzip_Malformed(t *testing.T) {
	in := make(chan []byte, 2)
	in <- []byte("this is not")
	in <- []byte(" an archive")
	close(in)
	err := zipflow.Unzip(context.Background(), in, func(string, io.Reader) error { return nil })
	if !errors.Is(err, archive.ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}

func TestUnzip_StoredUnsupported(t *testing.T) {
	s := zipflow.Zip(context.Background(), []zipflow.Entry{
		{Name: "a.txt", Open: source.Strings("x\n")},
	}, zipflow.Config{Method: archive.Store})
	defer s.Close()

	err := zipflow.Lines(context.Background(), s.C(), func(string) error { return nil })
	if !errors.Is(err, archive.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestUnzip_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan []byte)

	done := make(chan error, 1)
	go func() {
		done <- zipflow.Unzip(ctx, in, func(string, io.Reader) error { return nil })
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Unzip did not return after cancel")
	}
}

func TestLines_NDJSON(t *testing.T) {
	type record struct {
		F1 string `json:"f1"`
		F2 int    `json:"f2"`
	}
	const count = 1000
	s := zipflow.Zip(context.Background(), []zipflow.Entry{
		{Name: "records.ndjson", Open: source.NDJSON(func(ctx context.Context, yield source.YieldFunc) error {
			for i := 1; i <= count; i++ {
				if err := yield(record{F1: fmt.Sprintf("v:%d", i), F2: i}); err != nil {
					return err
				}
			}
			return nil
		})},
	}, zipflow.Config{})
	defer s.Close()

	var lines []string
	err := zipflow.Lines(context.Background(), s.C(), func(line string) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != count+1 || lines[0] != "records.ndjson" {
		t.Fatalf("expected name and %d lines, got %d", count, len(lines))
	}
	if lines[count] != `{"f1":"v:1000","f2":1000}` {
		t.Errorf("unexpected last line %s", lines[count])
	}
}
