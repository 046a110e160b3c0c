package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("Expected 800x600, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Title != "LearnOpenGL" {
		t.Errorf("Unexpected title %q", cfg.Title)
	}
	if cfg.StateFile != filepath.Join("resources", "program_state.json") {
		t.Errorf("Unexpected state file %q", cfg.StateFile)
	}
	if cfg.SwapInterval() != 1 {
		t.Error("vsync should default to on")
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing config should not fail: %v", err)
	}
	if cfg.Width != 0 {
		t.Error("missing config should return the zero value")
	}
}

func TestLoadAndResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	body := `{"width": 1280, "resource_dir": "assets", "vsync": false, "state_file": "state.json"}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Resolve(Flags{Height: 720, LogLevel: "debug"})

	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("Expected 1280x720, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.StateFile != filepath.Join("assets", "state.json") {
		t.Errorf("state file should resolve against resource dir, got %q", cfg.StateFile)
	}
	if cfg.SwapInterval() != 0 {
		t.Error("vsync false should give swap interval 0")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("flag should override log level, got %q", cfg.LogLevel)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestResourcePath(t *testing.T) {
	cfg := Default()
	got := cfg.ResourcePath("objects/road/untitled.obj")
	want := filepath.Join("resources", "objects", "road", "untitled.obj")
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestMeshCacheSetting(t *testing.T) {
	cfg := Default()
	if !cfg.MeshCacheEnabled() || cfg.MeshCacheDir != filepath.Join("cache", "meshes") {
		t.Errorf("Mesh cache should default to cache/meshes, got %q", cfg.MeshCacheDir)
	}

	off := Config{MeshCacheDir: "off"}
	off.Resolve(Flags{})
	if off.MeshCacheEnabled() {
		t.Error("\"off\" should disable the mesh cache")
	}

	flagged := Config{}
	flagged.Resolve(Flags{MeshCacheDir: "/tmp/meshes"})
	if flagged.MeshCacheDir != "/tmp/meshes" {
		t.Errorf("Flag should override the cache dir, got %q", flagged.MeshCacheDir)
	}
}
