package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/prefabs"
)

// Body is an upright box driven directly by velocity. It never rotates.
type Body struct {
	body   *cp.Body
	shape  *cp.Shape
	group  uint
	width  float64
	height float64
	locked bool
	facing int
}

// NewBody adds a box of the given size at spawn. owner is stored as the
// shape's user data so casts can tell who they hit.
func NewBody(a *Arena, spec prefabs.BodySpec, spawn cp.Vector, owner any) *Body {
	mass := spec.Mass
	if mass <= 0 {
		mass = 1
	}

	b := &Body{group: a.NewGroup(), width: spec.Width, height: spec.Height, facing: 1}
	b.body = cp.NewBody(mass, cp.INFINITY)
	b.body.SetPosition(spawn)
	b.body.SetVelocityUpdateFunc(b.updateVelocity)

	b.shape = cp.NewBox(b.body, spec.Width, spec.Height, 0)
	b.shape.SetFriction(spec.Friction)
	b.shape.SetFilter(cp.NewShapeFilter(b.group, categoryActor, cp.ALL_CATEGORIES))
	b.shape.UserData = owner

	a.space.AddBody(b.body)
	a.space.AddShape(b.shape)
	return b
}

func (b *Body) updateVelocity(body *cp.Body, gravity cp.Vector, damping, dt float64) {
	if b.locked {
		gravity = cp.Vector{}
	}
	cp.BodyUpdateVelocity(body, gravity, damping, dt)
	if b.locked {
		v := body.Velocity()
		body.SetVelocity(v.X, 0)
	}
}

// Velocity reports velocity in the mover's y-up frame.
func (b *Body) Velocity() cp.Vector {
	v := b.body.Velocity()
	return cp.Vector{X: v.X, Y: -v.Y}
}

// SetVelocity takes velocity in the mover's y-up frame.
func (b *Body) SetVelocity(v cp.Vector) {
	b.body.SetVelocity(v.X, -v.Y)
}

func (b *Body) LockVertical(locked bool) {
	b.locked = locked
	if locked {
		v := b.body.Velocity()
		b.body.SetVelocity(v.X, 0)
	}
}

func (b *Body) Face(dir int) {
	if dir != 0 {
		b.facing = dir
	}
}

func (b *Body) Facing() int { return b.facing }

// Position is the box centre in screen space.
func (b *Body) Position() cp.Vector { return b.body.Position() }

func (b *Body) Size() (float64, float64) { return b.width, b.height }

func (b *Body) Group() uint { return b.group }

// Forward turns a facing-relative direction into screen space.
func (b *Body) Forward(rel cp.Vector) cp.Vector {
	return cp.Vector{X: rel.X * float64(b.facing), Y: rel.Y}
}
