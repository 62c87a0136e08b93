// Package config handles carview configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Assets   AssetsConfig   `yaml:"assets"`
	Vehicle  VehicleConfig  `yaml:"vehicle"`
	Camera   CameraConfig   `yaml:"camera"`
	Remote   RemoteConfig   `yaml:"remote"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	VSync         bool   `yaml:"vsync"`
	FPSLimit      int    `yaml:"fps_limit"`
	MSAA          int    `yaml:"msaa"` // samples, 0 disables
	ShowBounds    bool   `yaml:"show_bounds"` // draw mesh AABBs
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// AssetsConfig holds model and environment paths.
type AssetsConfig struct {
	Roots       []string `yaml:"roots"` // searched last to first
	Model       string   `yaml:"model"`
	Environment string   `yaml:"environment"`
	DecoderPath string   `yaml:"decoder_path"` // Draco geometry decoder
	DecoderMode string   `yaml:"decoder_mode"` // js or wasm
}

// VehicleConfig holds driving constants and the wheel rig setup.
type VehicleConfig struct {
	BaseSpeed     float32 `yaml:"base_speed"`
	RotationSpeed float32 `yaml:"rotation_speed"`
	MaxSteer      float32 `yaml:"max_steer"`
	ModelScale    float32 `yaml:"model_scale"`
	ModelYaw      float32 `yaml:"model_yaw"`
	PivotPolicy   string  `yaml:"pivot_policy"` // first or centroid
	// WheelNames overrides the built-in table, keyed fl/fr/rl/rr.
	WheelNames map[string][]string `yaml:"wheel_names,omitempty"`
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	FOV             float32    `yaml:"fov"`
	Near            float32    `yaml:"near"`
	Far             float32    `yaml:"far"`
	Position        [3]float32 `yaml:"position,flow"`
	MinDistance     float32    `yaml:"min_distance"`
	MaxDistance     float32    `yaml:"max_distance"`
	MaxPolarDegrees float32    `yaml:"max_polar_degrees"`
	DragSensitivity float32    `yaml:"drag_sensitivity"`
	ZoomSensitivity float32    `yaml:"zoom_sensitivity"`
}

// RemoteConfig holds the browser touch pad server settings.
type RemoteConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			FPSLimit:      0,
			MSAA:          4,
			ShowBounds:    true,
			ScreenshotDir: "screenshots",
		},
		Assets: AssetsConfig{
			Roots:       []string{"public"},
			Model:       "model/1992_porsche_911_964_turbo_s_36.glb",
			Environment: "model/venice_sunset_1k.hdr",
			DecoderPath: "https://www.gstatic.com/draco/v1/decoders/",
			DecoderMode: "js",
		},
		Vehicle: VehicleConfig{
			BaseSpeed:     4,
			RotationSpeed: 1,
			MaxSteer:      0.09,
			ModelScale:    60,
			ModelYaw:      3.1415927,
			PivotPolicy:   "first",
		},
		Camera: CameraConfig{
			FOV:             30,
			Near:            0.1,
			Far:             100,
			Position:        [3]float32{4.25, 1.4, -4.5},
			MinDistance:     3,
			MaxDistance:     10,
			MaxPolarDegrees: 85,
			DragSensitivity: 0.005,
			ZoomSensitivity: 0.1,
		},
		Remote: RemoteConfig{
			Enabled: true,
			Addr:    "127.0.0.1:8088",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings that would break start-up.
func (c *Config) Validate() error {
	var errs []error

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.MSAA < 0 || c.Graphics.MSAA > 16 {
		errs = append(errs, fmt.Errorf("graphics: msaa must be 0..16, got %d", c.Graphics.MSAA))
	}
	if c.Assets.DecoderMode != "js" && c.Assets.DecoderMode != "wasm" {
		errs = append(errs, fmt.Errorf("assets: decoder_mode must be js or wasm, got %q", c.Assets.DecoderMode))
	}
	if c.Vehicle.PivotPolicy != "first" && c.Vehicle.PivotPolicy != "centroid" {
		errs = append(errs, fmt.Errorf("vehicle: pivot_policy must be first or centroid, got %q", c.Vehicle.PivotPolicy))
	}
	if c.Vehicle.ModelScale <= 0 {
		errs = append(errs, fmt.Errorf("vehicle: model_scale must be positive, got %v", c.Vehicle.ModelScale))
	}
	if c.Camera.MinDistance <= 0 || c.Camera.MinDistance > c.Camera.MaxDistance {
		errs = append(errs, fmt.Errorf("camera: invalid distance range %v..%v", c.Camera.MinDistance, c.Camera.MaxDistance))
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		errs = append(errs, fmt.Errorf("camera: invalid clip range %v..%v", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.MaxPolarDegrees <= 0 || c.Camera.MaxPolarDegrees > 180 {
		errs = append(errs, fmt.Errorf("camera: max_polar_degrees out of range: %v", c.Camera.MaxPolarDegrees))
	}
	if c.Remote.Enabled && c.Remote.Addr == "" {
		errs = append(errs, errors.New("remote: enabled without addr"))
	}

	return errors.Join(errs...)
}
