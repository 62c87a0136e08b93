package vehicle

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carview/internal/engine/keys"
	"github.com/Faultbox/carview/pkg/math"
	"github.com/Faultbox/carview/pkg/scene"
)

// Tuning holds the kinematic constants of the car.
type Tuning struct {
	BaseSpeed     float32 // units per second, also wheel roll in rad/s
	RotationSpeed float32 // chassis yaw rate in rad/s
	MaxSteer      float32 // front wheel steer angle in radians
	ModelScale    float32 // uniform scale applied to the loaded model
	ModelYaw      float32 // initial yaw so the model faces forward
}

// DefaultTuning returns the stock tuning.
func DefaultTuning() Tuning {
	return Tuning{
		BaseSpeed:     4,
		RotationSpeed: 1,
		MaxSteer:      0.09,
		ModelScale:    60,
		ModelYaw:      float32(gomath.Pi),
	}
}

// PrepareModel applies the tuning's scale and yaw to a freshly loaded model.
func PrepareModel(root *scene.Node, t Tuning) {
	root.Scale = mgl32.Vec3{t.ModelScale, t.ModelScale, t.ModelScale}
	root.Rotation.Y = t.ModelYaw
}

// Keys is the per-frame key snapshot read by the controller.
type Keys interface {
	Down(key string) bool
}

// CameraTarget is the orbit camera the controller keeps pointed at the car.
type CameraTarget interface {
	SetTarget(target mgl32.Vec3)
}

// Rig is a loaded, pivot-rigged car.
type Rig struct {
	Root   *scene.Node
	Wheels Wheels
}

// State is the controller's load phase.
type State int

const (
	StateUnloaded State = iota
	StateLoaded
)

func (s State) String() string {
	if s == StateLoaded {
		return "loaded"
	}
	return "unloaded"
}

// Controller drives a rig from key state. Until a rig is installed every
// update is a no-op.
type Controller struct {
	tuning Tuning
	camera CameraTarget

	state State
	rig   *Rig
}

// NewController creates an unloaded controller. camera may be nil.
func NewController(t Tuning, camera CameraTarget) *Controller {
	return &Controller{tuning: t, camera: camera}
}

// SetRig installs the loaded car and moves the controller to StateLoaded.
// A nil rig returns it to StateUnloaded.
func (c *Controller) SetRig(r *Rig) {
	if r == nil || r.Root == nil {
		c.rig = nil
		c.state = StateUnloaded
		return
	}
	c.rig = r
	c.state = StateLoaded
}

// State returns the current phase.
func (c *Controller) State() State {
	return c.state
}

// Rig returns the installed rig, if any.
func (c *Controller) Rig() (*Rig, bool) {
	if c.state != StateLoaded {
		return nil, false
	}
	return c.rig, true
}

// Tuning returns the active constants.
func (c *Controller) Tuning() Tuning {
	return c.tuning
}

// Update advances the car by dt seconds using one frame's key snapshot.
func (c *Controller) Update(dt float32, k Keys) {
	rig, ok := c.Rig()
	if !ok {
		return
	}
	t := c.tuning
	root := rig.Root

	throttle := throttleSign(k.Down(keys.Forward), k.Down(keys.Backward))

	// Wheel roll, identical on all four wheels
	if throttle != 0 {
		spin := throttle * t.BaseSpeed * dt
		for _, w := range rig.Wheels {
			if w != nil {
				w.Node.Rotation.X -= spin
			}
		}
	}

	move := mgl32.Vec3{0, 0, throttle}

	// Heading only changes while moving
	if move.Len() > 0 {
		if k.Down(keys.Left) {
			root.Rotation.Y += t.RotationSpeed * dt
		}
		if k.Down(keys.Right) {
			root.Rotation.Y -= t.RotationSpeed * dt
		}
	}

	// Steering is set, not accumulated; left wins over right
	var steer float32
	if k.Down(keys.Left) {
		steer = t.MaxSteer
	} else if k.Down(keys.Right) {
		steer = -t.MaxSteer
	}
	for _, w := range rig.Wheels.Front() {
		if w != nil {
			w.Node.Rotation.Y = steer
		}
	}

	delta := math.SafeNormalize(move).Mul(t.BaseSpeed * dt)
	delta = root.Quaternion().Rotate(delta)
	root.Position = root.Position.Add(delta)

	if c.camera != nil {
		c.camera.SetTarget(root.Position)
	}
}

// throttleSign is +1 for forward only, -1 for backward only, 0 otherwise.
func throttleSign(forward, backward bool) float32 {
	switch {
	case forward && !backward:
		return 1
	case backward && !forward:
		return -1
	default:
		return 0
	}
}

// Pose is a snapshot of the car for telemetry.
type Pose struct {
	Loaded    bool       `json:"loaded"`
	Position  [3]float32 `json:"position"`
	Yaw       float32    `json:"yaw"`
	Steer     float32    `json:"steer"`
	WheelRoll float32    `json:"wheel_roll"`
}

// Pose returns the current car state. An unloaded controller returns a zero Pose.
func (c *Controller) Pose() Pose {
	rig, ok := c.Rig()
	if !ok {
		return Pose{}
	}
	p := Pose{
		Loaded:   true,
		Position: rig.Root.Position,
		Yaw:      rig.Root.Rotation.Y,
	}
	if fl := rig.Wheels[FrontLeft]; fl != nil {
		p.Steer = fl.Node.Rotation.Y
		p.WheelRoll = fl.Node.Rotation.X
	}
	return p
}
