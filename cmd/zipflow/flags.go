package main

import (
	"github.com/spf13/pflag"

	"github.com/fxsml/zipflow/archive"
)

// methodValue adapts archive.Method to pflag.Value.
type methodValue struct {
	m *archive.Method
}

func (v methodValue) String() string {
	if v.m == nil {
		return archive.Deflate.String()
	}
	return v.m.String()
}

func (v methodValue) Set(s string) error {
	return v.m.UnmarshalText([]byte(s))
}

func (v methodValue) Type() string { return "method" }

func registerLogFlags(fs *pflag.FlagSet, s *LogSettings) {
	fs.StringVar(&s.Level, "log-level", s.Level, "log level (debug, info, warn, error)")
	fs.StringVar(&s.Format, "log-format", s.Format, "log format (text, json)")
}

func registerArchiveFlags(fs *pflag.FlagSet, s *ArchiveSettings) {
	fs.IntVar(&s.BufferSize, "buffer-size", s.BufferSize, "maximum size of an archive chunk in bytes")
	fs.IntVar(&s.PipeCapacity, "pipe-capacity", s.PipeCapacity, "bytes buffered between archive writer and reader")
	fs.Var(methodValue{&s.Method}, "method", "compression method (deflate, store)")
	fs.IntVar(&s.Level, "level", s.Level, "deflate compression level, 0 for default")
	fs.StringVar(&s.Comment, "comment", s.Comment, "archive comment")
}

func registerMockFlags(fs *pflag.FlagSet, s *Settings) {
	fs.IntVar(&s.Mock.Type1Count, "type1-count", s.Mock.Type1Count, "records in type1.json")
	fs.IntVar(&s.Mock.Type2Count, "type2-count", s.Mock.Type2Count, "records in type2.ndjson")
	fs.IntVar(&s.Mock.Type3Count, "type3-count", s.Mock.Type3Count, "records in type3.ndjson")
}

// changedFlags returns the values of all flags set on the command line.
func changedFlags(fs *pflag.FlagSet) map[string]string {
	changed := make(map[string]string)
	fs.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})
	return changed
}

// reapply sets flags again after file and environment settings have been
// loaded into the same variables.
func reapply(fs *pflag.FlagSet, changed map[string]string) error {
	for name, value := range changed {
		if err := fs.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}
