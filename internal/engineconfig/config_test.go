package engineconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsUsable(t *testing.T) {
	t.Parallel()
	cfg := Default()
	if cfg.Concurrency != "auto" {
		t.Fatalf("concurrency = %q, want auto", cfg.Concurrency)
	}
	if cfg.DefaultStepTimeout.Duration != 30*time.Second {
		t.Fatalf("default step timeout = %v", cfg.DefaultStepTimeout.Duration)
	}
	if !cfg.Dashboard.Enabled {
		t.Fatalf("expected dashboard enabled by default")
	}
}

func TestLoadOverridesOnlySpecifiedFields(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "flowcore.toml")
	content := `
concurrency = "threads"
log_level = "debug"

[dashboard]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Concurrency != "threads" {
		t.Fatalf("concurrency = %q", cfg.Concurrency)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
	if cfg.Dashboard.Enabled {
		t.Fatalf("expected dashboard.enabled overridden to false")
	}
	if cfg.LogFormat != "console" {
		t.Fatalf("expected unspecified log_format to keep default, got %q", cfg.LogFormat)
	}
	if cfg.GlobalTimeout.Duration != 10*time.Minute {
		t.Fatalf("expected unspecified global_timeout to keep default, got %v", cfg.GlobalTimeout.Duration)
	}
}

func TestDurationTextRoundTrip(t *testing.T) {
	t.Parallel()
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatal(err)
	}
	if d.Duration != 90*time.Second {
		t.Fatalf("got %v", d.Duration)
	}
	text, err := d.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "1m30s" {
		t.Fatalf("got %q", text)
	}
}
