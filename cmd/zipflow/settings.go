package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fxsml/zipflow"
	"github.com/fxsml/zipflow/archive"
	"github.com/fxsml/zipflow/config"
	"github.com/fxsml/zipflow/internal/mock"
)

// Settings is the complete CLI configuration. Values are resolved from
// defaults, the YAML file given with --config, ZIPFLOW_* environment
// variables and explicitly set flags, in increasing priority.
type Settings struct {
	Log     LogSettings     `yaml:"log"`
	Archive ArchiveSettings `yaml:"archive"`
	Serve   ServeSettings   `yaml:"serve"`
	Mock    mock.Config     `yaml:"mock"`
}

// LogSettings selects the log handler.
type LogSettings struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// ArchiveSettings mirrors the serializable part of zipflow.Config.
type ArchiveSettings struct {
	BufferSize   int            `yaml:"buffer_size"`
	PipeCapacity int            `yaml:"pipe_capacity"`
	Method       archive.Method `yaml:"method"`
	Level        int            `yaml:"level"`
	Comment      string         `yaml:"comment"`
}

// ServeSettings configures the HTTP server.
type ServeSettings struct {
	Addr              string        `yaml:"addr"`
	Filename          string        `yaml:"filename"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

func defaultSettings() Settings {
	return Settings{
		Log: LogSettings{Level: "info", Format: "text"},
		Archive: ArchiveSettings{
			BufferSize:   zipflow.DefaultBufferSize,
			PipeCapacity: zipflow.DefaultPipeCapacity,
			Method:       archive.Deflate,
		},
		Serve: ServeSettings{
			Addr:              ":8080",
			Filename:          "test.zip",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   30 * time.Second,
		},
		Mock: mock.Config{
			Type1Count: mock.DefaultType1Count,
			Type2Count: mock.DefaultType2Count,
			Type3Count: mock.DefaultType3Count,
		},
	}
}

// load overlays s with the file at path and the environment.
func (s *Settings) load(path string) error {
	if err := config.LoadFile(path, s); err != nil {
		return err
	}
	return config.Load("", s)
}

func (a ArchiveSettings) config(logger zipflow.Logger) zipflow.Config {
	return zipflow.Config{
		BufferSize:   a.BufferSize,
		PipeCapacity: a.PipeCapacity,
		Method:       a.Method,
		Level:        a.Level,
		Comment:      a.Comment,
		Allocator:    zipflow.NewPoolAllocator(),
		Logger:       logger,
	}
}

func newLogger(s LogSettings, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(s.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log format %q: must be text or json", s.Format)
	}
}
