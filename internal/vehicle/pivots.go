package vehicle

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/carview/internal/logger"
	"github.com/Faultbox/carview/pkg/scene"
)

// PivotPolicy selects how a wheel's hub position is derived from its parts.
type PivotPolicy int

const (
	// PivotFirstPart uses the world position of the first matching part.
	PivotFirstPart PivotPolicy = iota
	// PivotCentroid averages the world positions of all matching parts.
	PivotCentroid
)

func (p PivotPolicy) String() string {
	if p == PivotCentroid {
		return "centroid"
	}
	return "first"
}

// ParsePivotPolicy accepts "first" or "centroid". An empty string is "first".
func ParsePivotPolicy(s string) (PivotPolicy, error) {
	switch s {
	case "", "first":
		return PivotFirstPart, nil
	case "centroid":
		return PivotCentroid, nil
	default:
		return PivotFirstPart, fmt.Errorf("unknown pivot policy %q (want first or centroid)", s)
	}
}

// PivotOptions configures BuildPivots.
type PivotOptions struct {
	Policy PivotPolicy
}

// BuildPivots moves every mesh under root whose name matches table into a
// per-wheel group, then shifts each group onto its hub so rotating the group
// turns the wheel in place. Rendered positions do not change.
//
// A wheel without matching meshes keeps an empty group at the root's local
// origin; this is logged, not an error.
func BuildPivots(root *scene.Node, table WheelNameTable, opts PivotOptions) Wheels {
	log := logger.Named("pivots")

	// Groups exist before any mesh is moved so Attach always has a target
	var wheels Wheels
	for _, id := range AllWheels {
		g := scene.NewGroup("wheel_" + id.String())
		root.Add(g)
		wheels[id] = &WheelGroup{ID: id, Node: g}
	}

	var (
		captured [4]bool
		firstPos [4]mgl32.Vec3
		sumPos   [4]mgl32.Vec3
	)

	// Snapshot the mesh list up front; reparenting mutates child lists
	for _, mesh := range root.Meshes() {
		id, ok := table.Match(mesh.Name)
		if !ok {
			continue
		}

		wg := wheels[id]
		wg.Node.Attach(mesh)
		wg.Parts++

		pos := mesh.WorldPosition()
		if !captured[id] {
			firstPos[id] = pos
			captured[id] = true
		}
		sumPos[id] = sumPos[id].Add(pos)

		log.Debug("wheel part attached",
			zap.String("wheel", id.String()),
			zap.String("mesh", mesh.Name),
			zap.Float32s("world", pos[:]))
	}

	for _, id := range AllWheels {
		wg := wheels[id]
		if wg.Parts == 0 {
			log.Warn("no meshes matched wheel, pivot left at model origin",
				zap.String("wheel", id.String()))
			continue
		}

		world := firstPos[id]
		if opts.Policy == PivotCentroid {
			world = sumPos[id].Mul(1 / float32(wg.Parts))
		}

		hub := root.WorldToLocal(world)
		setPivot(wg, hub)

		log.Info("wheel pivot placed",
			zap.String("wheel", id.String()),
			zap.Int("parts", wg.Parts),
			zap.String("policy", opts.Policy.String()),
			zap.Float32s("hub", hub[:]))
	}

	return wheels
}

// setPivot moves the group origin to hub and compensates every child so the
// wheel stays where it was, then gathers the parts under a spin pivot.
func setPivot(wg *WheelGroup, hub mgl32.Vec3) {
	wg.Hub = hub
	wg.Node.Position = hub
	parts := wg.Node.Children()
	for _, c := range parts {
		c.Position = c.Position.Sub(hub)
	}

	// The pivot sits at the group origin, so local transforms carry over
	pivot := scene.NewGroup("spin_" + wg.ID.String())
	wg.Node.Add(pivot)
	for _, c := range parts {
		pivot.Add(c)
	}
	wg.SpinPivot = pivot
}
