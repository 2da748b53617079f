package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	AssetDir  string `json:"asset_dir"`
	HatsDir   string `json:"hats_dir"`
	FramesDir string `json:"frames_dir"`
	Manifest  string `json:"manifest"`
	OutputDir string `json:"output_dir"`

	// Render settings
	CanvasSize  int    `json:"canvas_size"`
	Padding     *int   `json:"padding"` // nil means default; 0 disables
	Supersample int    `json:"supersample"`
	Format      string `json:"format"`
	Workers     int    `json:"workers"`
	LogLevel    string `json:"log_level"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	AssetDir  string
	OutputDir string
	Format    string
	Workers   int
	Verbose   bool
}

// Resolve fills in any empty fields with auto-detected defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.AssetDir != "" {
		c.AssetDir = flags.AssetDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Verbose {
		c.LogLevel = "debug"
	}

	if c.AssetDir == "" {
		c.AssetDir = detectAssetDir()
	}
	if c.AssetDir != "" {
		c.HatsDir = under(c.AssetDir, c.HatsDir, "hats")
		c.FramesDir = under(c.AssetDir, c.FramesDir, "frames")
		if c.Manifest != "" && !filepath.IsAbs(c.Manifest) {
			c.Manifest = filepath.Join(c.AssetDir, c.Manifest)
		}
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}

	if c.CanvasSize <= 0 {
		c.CanvasSize = 512
	}
	if c.Padding == nil || *c.Padding < 0 {
		c.Padding = intPtr(16)
	}
	if 2*(*c.Padding) >= c.CanvasSize {
		c.Padding = intPtr(0)
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Format == "" {
		c.Format = "png"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Level maps LogLevel to a slog level; unknown names mean info.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Pad returns the resolved padding, 0 when unset.
func (c Config) Pad() int {
	if c.Padding == nil {
		return 0
	}
	return *c.Padding
}

func intPtr(v int) *int { return &v }

// under resolves dir against base, defaulting to base/name.
func under(base, dir, name string) string {
	if dir == "" {
		return filepath.Join(base, name)
	}
	if !filepath.IsAbs(dir) {
		return filepath.Join(base, dir)
	}
	return dir
}

func detectAssetDir() string {
	// Try relative to executable
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir)} {
			if isAssetDir(filepath.Join(base, "assets")) {
				return filepath.Join(base, "assets")
			}
		}
	}

	// Try current working directory
	cwd, _ := os.Getwd()
	if isAssetDir(filepath.Join(cwd, "assets")) {
		return filepath.Join(cwd, "assets")
	}
	return ""
}

func isAssetDir(dir string) bool {
	for _, sub := range []string{"hats", "frames"} {
		if fi, err := os.Stat(filepath.Join(dir, sub)); err == nil && fi.IsDir() {
			return true
		}
	}
	return false
}
