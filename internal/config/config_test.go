package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/matzehuels/attredit/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "attredit", "config.toml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("ATTREDIT_LISTEN", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.DebounceDuration() != DefaultDebounce {
		t.Errorf("DebounceDuration() = %v", cfg.DebounceDuration())
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("ATTREDIT_LISTEN", "")
	path := writeConfig(t, `
attributes = "/data/attributes.yaml"
debounce = "1s"
export_target = "file"
export_file = "/tmp/out.json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.Attributes = "/data/attributes.yaml"
	want.Debounce = "1s"
	want.ExportTarget = TargetFile
	want.ExportFile = "/tmp/out.json"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.DebounceDuration() != time.Second {
		t.Errorf("DebounceDuration() = %v, want 1s", cfg.DebounceDuration())
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `listen = "0.0.0.0:1"`)
	t.Setenv("ATTREDIT_LISTEN", "127.0.0.1:9")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != "127.0.0.1:9" {
		t.Errorf("Listen = %q, want env value", cfg.Listen)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `debounce = `},
		{"bad target", `export_target = "printer"`},
		{"bad debounce", `debounce = "soon"`},
		{"negative debounce", `debounce = "-1s"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	if got := expandHome("~/a.json"); got != "/home/tester/a.json" {
		t.Errorf("expandHome() = %q", got)
	}
	if got := expandHome("/abs.json"); got != "/abs.json" {
		t.Errorf("expandHome() = %q", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("ATTREDIT_LISTEN", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Equipment = "/data/equipment.toml"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
