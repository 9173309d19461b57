package physics

import "github.com/jakecoffman/cp"

// Muzzle is a fire point fixed to a body. The offset is given for a body
// facing right and is mirrored when it faces left.
type Muzzle struct {
	body    *Body
	offset  cp.Vector
	angle   float64
	flipped bool
}

func NewMuzzle(b *Body, offset cp.Vector) *Muzzle {
	return &Muzzle{body: b, offset: offset}
}

func (m *Muzzle) Position() cp.Vector {
	return m.body.Position().Add(m.body.Forward(m.offset))
}

func (m *Muzzle) Aim(angleDeg float64, flipped bool) {
	m.angle = angleDeg
	m.flipped = flipped
}

// Rotation is the last aim, for drawing.
func (m *Muzzle) Rotation() (float64, bool) { return m.angle, m.flipped }
