package mock

import (
	"bufio"
	"context"
	"io"
	"testing"

	"github.com/fxsml/zipflow"
)

func lines(t *testing.T, p *Provider) map[string][]string {
	t.Helper()
	s := zipflow.Zip(context.Background(), p.Entries(), zipflow.Config{})
	defer s.Close()

	got := map[string][]string{}
	var current string
	err := zipflow.Lines(context.Background(), s.C(), func(line string) error {
		if _, ok := got[line]; !ok && (line == "type1.json" || line == "type2.ndjson" || line == "type3.ndjson") {
			current = line
			got[line] = []string{}
			return nil
		}
		got[current] = append(got[current], line)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	return got
}

func TestProvider_Entries(t *testing.T) {
	p := NewProvider(Config{Type1Count: 3, Type2Count: 4, Type3Count: 5})

	entries := p.Entries()
	if len(entries) != 3 || entries[0].Name != "type1.json" || entries[1].Name != "type2.ndjson" || entries[2].Name != "type3.ndjson" {
		t.Fatalf("unexpected entries: %v", entries)
	}

	got := lines(t, p)

	if want := `[{"f1":"v:1"},{"f1":"v:2"},{"f1":"v:3"}]`; len(got["type1.json"]) != 1 || got["type1.json"][0] != want {
		t.Errorf("type1.json: expected %s, got %v", want, got["type1.json"])
	}

	type2 := got["type2.ndjson"]
	if len(type2) != 4 || type2[0] != `{"f1":"v:1","f2":1}` || type2[3] != `{"f1":"v:4","f2":4}` {
		t.Errorf("type2.ndjson: unexpected lines %v", type2)
	}

	type3 := got["type3.ndjson"]
	want3 := []string{
		`{"f1":"v:1","f2":1,"f3":1}`,
		`{"f1":"v:2","f2":2,"f3":2}`,
		`{"f1":"v:3","f2":3,"f3":0}`,
		`{"f1":"v:4","f2":4,"f3":1}`,
		`{"f1":"v:5","f2":5,"f3":2}`,
	}
	if len(type3) != len(want3) {
		t.Fatalf("type3.ndjson: expected %d lines, got %d", len(want3), len(type3))
	}
	for i := range want3 {
		if type3[i] != want3[i] {
			t.Errorf("type3.ndjson line %d: expected %s, got %s", i, want3[i], type3[i])
		}
	}
}

func TestProvider_Defaults(t *testing.T) {
	p := NewProvider(Config{})
	if p.cfg.Type1Count != DefaultType1Count || p.cfg.Type2Count != DefaultType2Count || p.cfg.Type3Count != DefaultType3Count {
		t.Errorf("unexpected defaults: %+v", p.cfg)
	}
}

func TestProvider_FullSize(t *testing.T) {
	if testing.Short() {
		t.Skip("generates five million records")
	}

	s := zipflow.Zip(context.Background(), NewProvider(Config{}).Entries(), zipflow.Config{})
	defer s.Close()

	counts := map[string]int{}
	err := zipflow.Unzip(context.Background(), s.C(), func(name string, r io.Reader) error {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			counts[name]++
		}
		return sc.Err()
	})
	if err != nil {
		t.Fatal(err)
	}
	if counts["type2.ndjson"] != DefaultType2Count || counts["type3.ndjson"] != DefaultType3Count {
		t.Errorf("unexpected line counts: %v", counts)
	}
}
