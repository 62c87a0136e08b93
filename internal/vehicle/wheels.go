// Package vehicle rigs a loaded car model for driving: it reparents wheel
// meshes under pivot groups centred on each hub and moves the car from
// keyboard state every frame.
package vehicle

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/carview/pkg/scene"
)

// WheelID identifies one of the four wheels.
type WheelID int

const (
	FrontLeft WheelID = iota
	FrontRight
	RearLeft
	RearRight
)

// AllWheels lists the wheels in matching priority order.
var AllWheels = [4]WheelID{FrontLeft, FrontRight, RearLeft, RearRight}

func (w WheelID) String() string {
	switch w {
	case FrontLeft:
		return "fl"
	case FrontRight:
		return "fr"
	case RearLeft:
		return "rl"
	case RearRight:
		return "rr"
	default:
		return fmt.Sprintf("wheel(%d)", int(w))
	}
}

// IsFront reports whether the wheel steers.
func (w WheelID) IsFront() bool {
	return w == FrontLeft || w == FrontRight
}

// ParseWheelID converts "fl", "fr", "rl" or "rr" to a WheelID.
func ParseWheelID(s string) (WheelID, error) {
	for _, id := range AllWheels {
		if strings.EqualFold(s, id.String()) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown wheel %q", s)
}

// WheelNameTable maps each wheel to the name fragments of its mesh parts.
type WheelNameTable map[WheelID][]string

// DefaultWheelNames returns the table for the 1992 Porsche 911 (964) Turbo S model.
func DefaultWheelNames() WheelNameTable {
	return WheelNameTable{
		FrontLeft: {
			"ppolysurface7_pporsche_911gt2_1993_wheel1a_3d_3dwheel1a_material1_0",
			"tsm_hub_l_0000_001_sm_hub_l_0000_001_mat_hub_tmat_hub1_0",
		},
		FrontRight: {
			"ppolysurface10_pporsche_911gt2_1993_wheel1a_3d_3dwheel1a_material1_0",
			"tsm_hub_r_0000_001_sm_hub_r_0000_001_mat_hub_009_tmat_hub1_0",
		},
		RearLeft: {
			"ppolysurface13_pporsche_911gt2_1993_wheel1a_3d_3dwheel1a_material1_0",
			"sm_hub_l_0000_001_sm_hub_l_0000_001_mat_hub_tmat_hub1_0",
		},
		RearRight: {
			"ppolysurface16_pporsche_911gt2_1993_wheel1a_3d_3dwheel1a_material1_0",
			"sm_hub_r_0000_001_sm_hub_r_0000_001_mat_hub_009_tmat_hub1_0",
		},
	}
}

// ParseWheelNames builds a table from a config map keyed by wheel name.
// Wheels missing from the map get no fragments.
func ParseWheelNames(m map[string][]string) (WheelNameTable, error) {
	table := make(WheelNameTable, len(m))
	for key, names := range m {
		id, err := ParseWheelID(key)
		if err != nil {
			return nil, err
		}
		table[id] = append([]string(nil), names...)
	}
	return table, nil
}

// Match returns the first wheel, in AllWheels order, with a fragment
// contained in name. Comparison is case-insensitive.
func (t WheelNameTable) Match(name string) (WheelID, bool) {
	lower := strings.ToLower(name)
	for _, id := range AllWheels {
		for _, frag := range t[id] {
			if strings.Contains(lower, strings.ToLower(frag)) {
				return id, true
			}
		}
	}
	return 0, false
}

// WheelGroup is the pivot node of one wheel. Rotating Node spins and steers
// the wheel about its hub.
type WheelGroup struct {
	ID   WheelID
	Node *scene.Node
	// SpinPivot holds the mesh parts below Node. Nil when no part matched.
	SpinPivot *scene.Node
	// Hub is the pivot position in the vehicle root's local space.
	Hub mgl32.Vec3
	// Parts counts the meshes reparented into the group.
	Parts int
}

// Wheels holds the four wheel groups indexed by WheelID.
type Wheels [4]*WheelGroup

// Front returns the steering wheels.
func (w Wheels) Front() []*WheelGroup {
	return []*WheelGroup{w[FrontLeft], w[FrontRight]}
}
