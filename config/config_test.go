package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Addr != ":8086" {
		t.Errorf("addr: got %q", cfg.Server.Addr)
	}
	if cfg.Database.Path != "db/interviewd.db" {
		t.Errorf("db path: got %q", cfg.Database.Path)
	}
	if cfg.Media.MaxChunkSize != 10<<20 {
		t.Errorf("max chunk size: got %d", cfg.Media.MaxChunkSize)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level: got %q", cfg.LogLevel)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interviewd.yaml")
	doc := `
server:
  addr: ":9000"
  shutdown_timeout: 5s
database:
  path: /tmp/test.db
upload:
  endpoint: https://sink.example.com/drop
  timeout: 90s
log_level: debug
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr: got %q", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("shutdown timeout: got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Upload.Endpoint != "https://sink.example.com/drop" {
		t.Errorf("upload endpoint: got %q", cfg.Upload.Endpoint)
	}
	if cfg.Upload.Timeout != 90*time.Second {
		t.Errorf("upload timeout: got %v", cfg.Upload.Timeout)
	}
	// Unset keys still get defaults.
	if cfg.Media.Dir != "media" {
		t.Errorf("media dir: got %q", cfg.Media.Dir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level: got %q", cfg.LogLevel)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/does/not/exist.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
