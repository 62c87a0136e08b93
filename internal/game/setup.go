package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carview/internal/assets"
	"github.com/Faultbox/carview/internal/config"
	"github.com/Faultbox/carview/internal/engine/camera"
	"github.com/Faultbox/carview/internal/vehicle"
)

// Tuning converts the vehicle settings.
func Tuning(cfg *config.Config) vehicle.Tuning {
	v := cfg.Vehicle
	return vehicle.Tuning{
		BaseSpeed:     v.BaseSpeed,
		RotationSpeed: v.RotationSpeed,
		MaxSteer:      v.MaxSteer,
		ModelScale:    v.ModelScale,
		ModelYaw:      v.ModelYaw,
	}
}

// WheelNames returns the configured wheel table, or the built-in one when
// the config has none.
func WheelNames(cfg *config.Config) (vehicle.WheelNameTable, error) {
	if len(cfg.Vehicle.WheelNames) == 0 {
		return vehicle.DefaultWheelNames(), nil
	}
	table, err := vehicle.ParseWheelNames(cfg.Vehicle.WheelNames)
	if err != nil {
		return nil, fmt.Errorf("vehicle.wheel_names: %w", err)
	}
	return table, nil
}

// PivotOptions converts the pivot settings.
func PivotOptions(cfg *config.Config) (vehicle.PivotOptions, error) {
	policy, err := vehicle.ParsePivotPolicy(cfg.Vehicle.PivotPolicy)
	if err != nil {
		return vehicle.PivotOptions{}, fmt.Errorf("vehicle.pivot_policy: %w", err)
	}
	return vehicle.PivotOptions{Policy: policy}, nil
}

// Decoder converts the Draco settings.
func Decoder(cfg *config.Config) assets.DecoderConfig {
	return assets.DecoderConfig{Path: cfg.Assets.DecoderPath, Mode: cfg.Assets.DecoderMode}
}

// NewCamera builds the orbit camera from config, looking at the origin.
func NewCamera(cfg *config.Config) *camera.OrbitCamera {
	c := cfg.Camera
	cam := camera.NewOrbitCamera()
	cam.FOV = c.FOV
	cam.Near = c.Near
	cam.Far = c.Far
	cam.MinDistance = c.MinDistance
	cam.MaxDistance = c.MaxDistance
	cam.MaxPolar = mgl32.DegToRad(c.MaxPolarDegrees)
	cam.DragSensitivity = c.DragSensitivity
	cam.ZoomSensitivity = c.ZoomSensitivity
	cam.SetPosition(mgl32.Vec3(c.Position))
	cam.Resize(cfg.Graphics.Width, cfg.Graphics.Height)
	return cam
}
