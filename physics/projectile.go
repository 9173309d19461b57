package physics

import (
	"github.com/jakecoffman/cp"
)

// projectileGravity pulls thrown spears down even in a zero-gravity arena.
const projectileGravity = 900

type projectileState int

const (
	projectileHeld projectileState = iota
	projectilePulled
	projectileFlying
)

// Projectile is a spear that rides its owner's muzzle until launched. In
// flight it is a small dynamic body in the owner's collision group.
type Projectile struct {
	arena  *Arena
	muzzle *Muzzle
	group  uint

	body  *cp.Body
	shape *cp.Shape

	state  projectileState
	pulled cp.Vector
	angle  float64
	length float64
}

func NewProjectile(a *Arena, owner *Body, muzzle *Muzzle, length float64) *Projectile {
	if length <= 0 {
		length = 32
	}
	p := &Projectile{arena: a, muzzle: muzzle, group: owner.group, length: length}
	p.body = cp.NewBody(0.5, cp.MomentForBox(0.5, length, 4))
	p.body.SetVelocityUpdateFunc(func(body *cp.Body, _ cp.Vector, damping, dt float64) {
		cp.BodyUpdateVelocity(body, cp.Vector{Y: projectileGravity}, damping, dt)
	})
	p.shape = cp.NewSegment(p.body, cp.Vector{X: -length / 2}, cp.Vector{X: length / 2}, 2)
	p.shape.SetFilter(cp.NewShapeFilter(p.group, categoryProjectile, categoryStatic|categoryActor))
	p.shape.UserData = p
	return p
}

// Position implements combat.Thrower.
func (p *Projectile) Position() cp.Vector {
	switch p.state {
	case projectileFlying:
		return p.body.Position()
	case projectilePulled:
		return p.pulled
	}
	return p.muzzle.Position()
}

func (p *Projectile) Aim(angleDeg float64) { p.angle = angleDeg }

func (p *Projectile) Pull(to cp.Vector) {
	p.pulled = to
	p.state = projectilePulled
}

func (p *Projectile) Launch(impulse cp.Vector) {
	p.body.SetPosition(p.Position())
	p.body.SetAngle(p.angle * cp.RadianConst)
	p.body.SetVelocity(0, 0)
	p.body.SetAngularVelocity(0)
	if !p.arena.space.ContainsBody(p.body) {
		p.arena.space.AddBody(p.body)
		p.arena.space.AddShape(p.shape)
	}
	p.body.ApplyImpulseAtWorldPoint(impulse, p.body.Position())
	p.state = projectileFlying
}

func (p *Projectile) Recall() {
	if p.arena.space.ContainsBody(p.body) {
		p.arena.space.RemoveShape(p.shape)
		p.arena.space.RemoveBody(p.body)
	}
	p.state = projectileHeld
}

func (p *Projectile) Flying() bool { return p.state == projectileFlying }

// Segment returns the spear's current end points, for drawing.
func (p *Projectile) Segment() (cp.Vector, cp.Vector) {
	center := p.Position()
	angle := p.angle * cp.RadianConst
	if p.state == projectileFlying {
		angle = p.body.Angle()
	}
	half := cp.ForAngle(angle).Mult(p.length / 2)
	return center.Sub(half), center.Add(half)
}
