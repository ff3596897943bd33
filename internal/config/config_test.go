package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `
[thresholds]
global_attr_cache = 2
local_attr_cache = 3
local_global_cache = 4

[exclude]
dirs = [".git"]
files = ["*_pb2.py"]

[inline]
not_inlineable = ["main"]

[cache]
path = "cache.json"

[watch]
debounce = "1s"
`
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Thresholds.GlobalAttrCache != 2 {
		t.Errorf("Expected global attr threshold 2, got %d", cfg.Thresholds.GlobalAttrCache)
	}
	if cfg.Thresholds.LocalGlobal != 4 {
		t.Errorf("Expected local global threshold 4, got %d", cfg.Thresholds.LocalGlobal)
	}
	if len(cfg.Exclude.Files) != 1 || cfg.Exclude.Files[0] != "*_pb2.py" {
		t.Errorf("Unexpected exclude files: %v", cfg.Exclude.Files)
	}
	if len(cfg.Inline.NotInlineable) != 1 || cfg.Inline.NotInlineable[0] != "main" {
		t.Errorf("Unexpected not_inlineable: %v", cfg.Inline.NotInlineable)
	}
	if cfg.Cache.Path != "cache.json" {
		t.Errorf("Expected cache path cache.json, got %s", cfg.Cache.Path)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())
	tmpfile.Write([]byte("[cache]\npath = \"other.json\"\n"))
	tmpfile.Close()

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Thresholds.GlobalAttrCache != 3 || cfg.Thresholds.LocalAttrCache != 4 || cfg.Thresholds.LocalGlobal != 5 {
		t.Errorf("Unexpected default thresholds: %+v", cfg.Thresholds)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
}

func TestLoadError(t *testing.T) {
	_, err := Load("nonexistent.toml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}

	tmpfile, _ := os.CreateTemp("", "badconfig*.toml")
	defer os.Remove(tmpfile.Name())
	tmpfile.Write([]byte("bad = toml = format"))
	tmpfile.Close()

	_, err = Load(tmpfile.Name())
	if err == nil {
		t.Error("Expected error for malformed TOML")
	}
}
