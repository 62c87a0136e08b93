package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carview/internal/config"
	"github.com/Faultbox/carview/internal/vehicle"
)

func TestTuningFromDefaults(t *testing.T) {
	got := Tuning(config.Default())
	want := vehicle.DefaultTuning()
	if got.BaseSpeed != want.BaseSpeed || got.RotationSpeed != want.RotationSpeed || got.MaxSteer != want.MaxSteer {
		t.Errorf("Tuning() = %+v, want %+v", got, want)
	}
	if got.ModelScale != 60 {
		t.Errorf("ModelScale = %v, want 60", got.ModelScale)
	}
}

func TestWheelNames(t *testing.T) {
	cfg := config.Default()
	table, err := WheelNames(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(table[vehicle.FrontLeft]) != 2 {
		t.Errorf("default table FL = %v", table[vehicle.FrontLeft])
	}

	cfg.Vehicle.WheelNames = map[string][]string{"fl": {"front_left"}}
	table, err = WheelNames(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if id, ok := table.Match("Tire_Front_Left_0"); !ok || id != vehicle.FrontLeft {
		t.Errorf("Match = %v %v", id, ok)
	}

	cfg.Vehicle.WheelNames = map[string][]string{"spare": {"x"}}
	if _, err := WheelNames(cfg); err == nil {
		t.Error("expected error for unknown wheel key")
	}
}

func TestPivotOptions(t *testing.T) {
	cfg := config.Default()
	opts, err := PivotOptions(cfg)
	if err != nil || opts.Policy != vehicle.PivotFirstPart {
		t.Errorf("default policy should be first part, got %v, %v", opts.Policy, err)
	}

	cfg.Vehicle.PivotPolicy = "centroid"
	if opts, _ := PivotOptions(cfg); opts.Policy != vehicle.PivotCentroid {
		t.Error("expected centroid policy")
	}

	cfg.Vehicle.PivotPolicy = "middle"
	if _, err := PivotOptions(cfg); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestDecoder(t *testing.T) {
	d := Decoder(config.Default())
	if err := d.Validate(); err != nil {
		t.Fatal(err)
	}
	if d.Mode != "js" {
		t.Errorf("Mode = %q", d.Mode)
	}
}

func TestNewCamera(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.MaxPolarDegrees = 60
	cfg.Graphics.Width, cfg.Graphics.Height = 800, 400

	cam := NewCamera(cfg)
	if !cam.Position().ApproxEqualThreshold(mgl32.Vec3{4.25, 1.4, -4.5}, 1e-6) {
		t.Errorf("Position = %v", cam.Position())
	}
	if cam.Aspect != 2 {
		t.Errorf("Aspect = %v, want 2", cam.Aspect)
	}
	if mgl32.Abs(cam.MaxPolar-mgl32.DegToRad(60)) > 1e-6 {
		t.Errorf("MaxPolar = %v", cam.MaxPolar)
	}
	if cam.MinDistance != 3 || cam.MaxDistance != 10 {
		t.Errorf("distance range = %v..%v", cam.MinDistance, cam.MaxDistance)
	}
}
