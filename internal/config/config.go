// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Asset   AssetConfig   `yaml:"asset"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	FPSLimit   int    `yaml:"fps_limit"`
}

// CameraConfig holds orbit camera settings. FOV is the vertical field
// of view in degrees.
type CameraConfig struct {
	FOV        float32 `yaml:"fov"`
	FitPadding float32 `yaml:"fit_padding"`
}

// AssetConfig holds model loading settings.
type AssetConfig struct {
	// Path is the GLB file to open at startup.
	Path string `yaml:"path"`
	// Watch reloads the asset when the file changes on disk.
	Watch bool `yaml:"watch"`
	// WatchSettle is how long the file must stay quiet before a
	// reload is triggered.
	WatchSettle time.Duration `yaml:"watch_settle"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Title:      "PartScope",
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Camera: CameraConfig{
			FOV:        50,
			FitPadding: 1.5,
		},
		Asset: AssetConfig{
			Watch:       true,
			WatchSettle: 200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
