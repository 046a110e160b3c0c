package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds window, asset and renderer settings.
type Config struct {
	// Window
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
	VSync  *bool  `json:"vsync,omitempty"`

	// Paths
	ResourceDir   string `json:"resource_dir"`
	StateFile     string `json:"state_file"`
	ScreenshotDir string `json:"screenshot_dir"`
	MeshCacheDir  string `json:"mesh_cache_dir"` // "off" disables the parsed mesh cache

	// Render settings
	NormalMapping  bool    `json:"normal_mapping"`
	CameraSpeed    float32 `json:"camera_speed"`
	MaxTextureSize int     `json:"max_texture_size"`

	LogLevel string `json:"log_level"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	ResourceDir   string
	StateFile     string
	ScreenshotDir string
	MeshCacheDir  string
	LogLevel      string
	Width         int
	Height        int
	NormalMapping bool
}

// Default returns a fully resolved configuration.
func Default() Config {
	var cfg Config
	cfg.Resolve(Flags{})
	return cfg
}

// Load reads a JSON config file. A missing file is not an error:
// the zero Config is returned so Resolve can fill it in.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve fills empty fields with defaults. CLI flags take priority
// when non-zero.
func (c *Config) Resolve(flags Flags) {
	if flags.ResourceDir != "" {
		c.ResourceDir = flags.ResourceDir
	}
	if flags.StateFile != "" {
		c.StateFile = flags.StateFile
	}
	if flags.ScreenshotDir != "" {
		c.ScreenshotDir = flags.ScreenshotDir
	}
	if flags.MeshCacheDir != "" {
		c.MeshCacheDir = flags.MeshCacheDir
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.NormalMapping {
		c.NormalMapping = true
	}

	if c.ResourceDir == "" {
		c.ResourceDir = "resources"
	}
	if c.StateFile == "" {
		c.StateFile = filepath.Join(c.ResourceDir, "program_state.json")
	} else if !filepath.IsAbs(c.StateFile) && filepath.Dir(c.StateFile) == "." {
		c.StateFile = filepath.Join(c.ResourceDir, c.StateFile)
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "screenshots"
	}
	if c.MeshCacheDir == "" {
		c.MeshCacheDir = filepath.Join("cache", "meshes")
	}

	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.Title == "" {
		c.Title = "LearnOpenGL"
	}
	if c.VSync == nil {
		on := true
		c.VSync = &on
	}
	if c.CameraSpeed <= 0 {
		c.CameraSpeed = 2.5
	}
	if c.MaxTextureSize <= 0 {
		c.MaxTextureSize = 4096
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ResourcePath joins rel onto the resource directory.
func (c Config) ResourcePath(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.ResourceDir, filepath.FromSlash(rel))
}

// SwapInterval reports the buffer swap interval for the configured vsync mode.
func (c Config) SwapInterval() int {
	if c.VSync != nil && !*c.VSync {
		return 0
	}
	return 1
}

// MeshCacheEnabled reports whether parsed meshes are cached on disk.
func (c Config) MeshCacheEnabled() bool {
	return c.MeshCacheDir != "" && c.MeshCacheDir != "off"
}
