package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fxsml/zipflow/archive"
)

type fileSettings struct {
	Addr        string        `yaml:"addr"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
	Archive     struct {
		BufferSize int            `yaml:"buffer_size"`
		Method     archive.Method `yaml:"method"`
	} `yaml:"archive"`
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zipflow.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
addr: ":8081"
read_timeout: 3s
archive:
  buffer_size: 2048
  method: store
`)

	cfg := fileSettings{Addr: ":8080"}
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8081" || cfg.ReadTimeout != 3*time.Second {
		t.Errorf("unexpected settings: %+v", cfg)
	}
	if cfg.Archive.BufferSize != 2048 || cfg.Archive.Method != archive.Store {
		t.Errorf("unexpected archive settings: %+v", cfg.Archive)
	}
}

func TestLoadFile_ThenEnv(t *testing.T) {
	path := writeFile(t, "addr: \":8081\"\narchive:\n  buffer_size: 2048\n")

	var cfg fileSettings
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatal(err)
	}
	l := Loader{lookup: envMap(map[string]string{"ZIPFLOW_SERVE_ADDR": ":9090"})}
	if err := l.Load("serve", &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9090" || cfg.Archive.BufferSize != 2048 {
		t.Errorf("unexpected settings: %+v", cfg)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	var cfg fileSettings

	if err := LoadFile("", &cfg); err != nil {
		t.Errorf("empty path: unexpected error %v", err)
	}
	if err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: expected os.ErrNotExist, got %v", err)
	}
	if err := LoadFile(writeFile(t, "unknown: 1\n"), &cfg); err == nil {
		t.Error("unknown key: expected error")
	}
	if err := LoadFile(writeFile(t, "archive:\n  method: zstd\n"), &cfg); err == nil {
		t.Error("bad method: expected error")
	}
	if err := LoadFile(writeFile(t, ""), &cfg); err != nil {
		t.Errorf("empty file: unexpected error %v", err)
	}
}
