package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "limit: 50\ninclude_remote_bookmarks: false\nwatch: true\nlisten: \":8080\"\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Limit != 50 || cfg.IncludeRemoteBookmarks || !cfg.Watch || cfg.Listen != ":8080" {
		t.Fatalf("unexpected config: %#v", cfg)
	}
}

func TestLoadFilePartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "limit: 25\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Limit != 25 {
		t.Fatalf("limit not applied: %#v", cfg)
	}
	if cfg.Listen != Default().Listen {
		t.Fatalf("unset listen should keep default: %#v", cfg)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		path := writeConfig(t, "limit: [\n")
		if _, err := LoadFile(path); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
	})
	t.Run("limit too small", func(t *testing.T) {
		path := writeConfig(t, "limit: 0\n")
		if _, err := LoadFile(path); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
