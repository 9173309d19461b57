// Package physics binds the controllers' collaborator interfaces to a
// Chipmunk space. The space uses screen coordinates (y grows downward);
// movers work y-up, so Body flips the vertical axis at the boundary.
package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/prefabs"
)

const (
	categoryStatic uint = 1 << iota
	categoryActor
	categoryProjectile
)

// Segment is a static platform edge, kept for debug drawing.
type Segment struct {
	A, B      cp.Vector
	Thickness float64
}

type Arena struct {
	space     *cp.Space
	width     float64
	height    float64
	platforms []Segment
	nextGroup uint
}

func NewArena(spec *prefabs.ArenaSpec) *Arena {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: spec.Gravity})

	a := &Arena{space: space, width: spec.Width, height: spec.Height}
	for _, p := range spec.Platforms {
		thickness := p.Thickness
		if thickness <= 0 {
			thickness = 1
		}
		seg := Segment{A: cp.Vector{X: p.AX, Y: p.AY}, B: cp.Vector{X: p.BX, Y: p.BY}, Thickness: thickness}
		shape := cp.NewSegment(space.StaticBody, seg.A, seg.B, thickness/2)
		shape.SetFriction(0.8)
		shape.SetFilter(cp.NewShapeFilter(0, categoryStatic, cp.ALL_CATEGORIES))
		space.AddShape(shape)
		a.platforms = append(a.platforms, seg)
	}
	return a
}

func (a *Arena) Space() *cp.Space { return a.space }

func (a *Arena) Size() (float64, float64) { return a.width, a.height }

func (a *Arena) Platforms() []Segment { return a.platforms }

// NewGroup returns a fresh collision group. Shapes sharing a group ignore
// each other, which keeps an actor's own casts from hitting itself.
func (a *Arena) NewGroup() uint {
	a.nextGroup++
	return a.nextGroup
}

func (a *Arena) Step(dt float64) {
	a.space.Step(dt)
}

// queryFilter sees everything except shapes in group.
func queryFilter(group uint) cp.ShapeFilter {
	return cp.NewShapeFilter(group, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES)
}
