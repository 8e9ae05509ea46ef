// Package mock provides generated demo content for archive downloads.
package mock

import (
	"context"
	"fmt"

	"github.com/fxsml/zipflow/archive"
	"github.com/fxsml/zipflow/source"
)

// Default record counts of the generated entries.
const (
	DefaultType1Count = 1_000
	DefaultType2Count = 2_000_000
	DefaultType3Count = 3_000_000
)

// Type1 is the record of type1.json.
type Type1 struct {
	F1 string `json:"f1"`
}

// Type2 is the record of type2.ndjson.
type Type2 struct {
	F1 string `json:"f1"`
	F2 int    `json:"f2"`
}

// Type3 is the record of type3.ndjson.
type Type3 struct {
	F1 string `json:"f1"`
	F2 int    `json:"f2"`
	F3 int    `json:"f3"`
}

// Config configures a Provider.
type Config struct {
	// Type1Count is the number of records in type1.json.
	// Default is DefaultType1Count.
	Type1Count int `yaml:"type1_count"`
	// Type2Count is the number of records in type2.ndjson.
	// Default is DefaultType2Count.
	Type2Count int `yaml:"type2_count"`
	// Type3Count is the number of records in type3.ndjson.
	// Default is DefaultType3Count.
	Type3Count int `yaml:"type3_count"`
}

func (c Config) parse() Config {
	if c.Type1Count <= 0 {
		c.Type1Count = DefaultType1Count
	}
	if c.Type2Count <= 0 {
		c.Type2Count = DefaultType2Count
	}
	if c.Type3Count <= 0 {
		c.Type3Count = DefaultType3Count
	}
	return c
}

// Provider generates three entries: a JSON array and two NDJSON files.
// Records are numbered from 1, and generation happens only when an entry
// is opened.
type Provider struct {
	cfg Config
}

// NewProvider creates a Provider.
func NewProvider(cfg Config) *Provider {
	return &Provider{cfg: cfg.parse()}
}

// Entries returns type1.json, type2.ndjson and type3.ndjson in that order.
func (p *Provider) Entries() []archive.Entry {
	return []archive.Entry{
		{Name: "type1.json", Open: source.JSON(p.type1)},
		{Name: "type2.ndjson", Open: source.NDJSON(p.type2)},
		{Name: "type3.ndjson", Open: source.NDJSON(p.type3)},
	}
}

func (p *Provider) type1(ctx context.Context) (any, error) {
	records := make([]Type1, p.cfg.Type1Count)
	for i := range records {
		records[i] = Type1{F1: value(i + 1)}
	}
	return records, nil
}

func (p *Provider) type2(ctx context.Context, yield source.YieldFunc) error {
	for n := 1; n <= p.cfg.Type2Count; n++ {
		if err := yield(Type2{F1: value(n), F2: n}); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) type3(ctx context.Context, yield source.YieldFunc) error {
	for n := 1; n <= p.cfg.Type3Count; n++ {
		if err := yield(Type3{F1: value(n), F2: n, F3: n % 3}); err != nil {
			return err
		}
	}
	return nil
}

func value(n int) string {
	return fmt.Sprintf("v:%d", n)
}
