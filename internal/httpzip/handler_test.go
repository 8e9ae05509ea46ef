package httpzip

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/fxsml/zipflow"
	"github.com/fxsml/zipflow/channel"
	"github.com/fxsml/zipflow/internal/mock"
	"github.com/fxsml/zipflow/source"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type type1 struct {
	F1 string `json:"f1"`
}

type type2 struct {
	F1 string `json:"f1"`
	F2 int    `json:"f2"`
}

func testProvider() Provider {
	return ProviderFunc(func() []zipflow.Entry {
		return []zipflow.Entry{
			{Name: "type1.json", Open: source.JSON(func(ctx context.Context) (any, error) {
				records := make([]type1, 10)
				for i := range records {
					records[i] = type1{F1: fmt.Sprintf("v:%d", i+1)}
				}
				return records, nil
			})},
			{Name: "type2.ndjson", Open: source.NDJSON(func(ctx context.Context, yield source.YieldFunc) error {
				for n := 1; n <= 20; n++ {
					if err := yield(type2{F1: fmt.Sprintf("v:%d", n), F2: n}); err != nil {
						return err
					}
				}
				return nil
			})},
		}
	})
}

func bodyLines(t *testing.T, body io.Reader) []string {
	t.Helper()
	ctx := context.Background()
	chunks, errc := channel.FromReader(ctx, body, 4096, nil)
	var lines []string
	err := zipflow.Lines(ctx, chunks, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		t.Fatalf("unzip response: %v", err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("read response: %v", err)
	}
	return lines
}

func TestHandler_Download(t *testing.T) {
	srv := httptest.NewServer(NewHandler(testProvider(), HandlerConfig{Logger: discard}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("unexpected Content-Type %q", ct)
	}
	disposition, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err != nil || disposition != "attachment" || params["filename"] != "test.zip" {
		t.Errorf("unexpected Content-Disposition %q", resp.Header.Get("Content-Disposition"))
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("invalid request id %q", resp.Header.Get(RequestIDHeader))
	}

	var want []string
	want = append(want, "type1.json")
	var array []string
	for i := 1; i <= 10; i++ {
		array = append(array, fmt.Sprintf(`{"f1":"v:%d"}`, i))
	}
	want = append(want, "["+strings.Join(array, ",")+"]")
	want = append(want, "type2.ndjson")
	for n := 1; n <= 20; n++ {
		want = append(want, fmt.Sprintf(`{"f1":"v:%d","f2":%d}`, n, n))
	}

	got := bodyLines(t, resp.Body)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("unexpected content:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestHandler_MockProvider(t *testing.T) {
	p := mock.NewProvider(mock.Config{Type1Count: 2, Type2Count: 3, Type3Count: 4})
	srv := httptest.NewServer(NewHandler(p, HandlerConfig{
		Filename: "mock.zip",
		Archive:  zipflow.Config{BufferSize: 64},
		Logger:   discard,
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set(RequestIDHeader, "req-1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get(RequestIDHeader); got != "req-1" {
		t.Errorf("expected request id to be kept, got %q", got)
	}
	_, params, _ := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if params["filename"] != "mock.zip" {
		t.Errorf("unexpected filename %q", params["filename"])
	}

	got := bodyLines(t, resp.Body)
	// Three names, one JSON line, three plus four NDJSON lines.
	if len(got) != 11 || got[0] != "type1.json" || got[2] != "type2.ndjson" || got[6] != "type3.ndjson" {
		t.Errorf("unexpected lines: %v", got)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := NewHandler(testProvider(), HandlerConfig{Logger: discard})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodGet {
		t.Errorf("unexpected Allow header %q", rec.Header().Get("Allow"))
	}
}

func TestHandler_InvalidEntries(t *testing.T) {
	p := ProviderFunc(func() []zipflow.Entry {
		return []zipflow.Entry{
			{Name: "same", Open: source.Strings("a")},
			{Name: "same", Open: source.Strings("b")},
		}
	})
	h := NewHandler(p, HandlerConfig{Logger: discard})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Disposition") != "" {
		t.Error("failed download advertised an attachment")
	}
}

func TestHandler_FailureAfterHeaders(t *testing.T) {
	noise := make([]byte, 1<<20)
	if _, err := rand.Read(noise); err != nil {
		t.Fatal(err)
	}
	p := ProviderFunc(func() []zipflow.Entry {
		return []zipflow.Entry{
			{Name: "broken", Open: source.Func(func(ctx context.Context, emit source.EmitFunc) error {
				if err := emit(noise); err != nil {
					return err
				}
				return errors.New("backend gone")
			})},
		}
	})
	srv := httptest.NewServer(NewHandler(p, HandlerConfig{Logger: discard}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if _, err := io.ReadAll(resp.Body); err == nil {
		t.Error("expected truncated body to fail")
	}
}
