// Package movement implements the mover controllers driven by the movement
// system. Movers work in a y-up frame; body adapters convert to whatever the
// physics space uses.
package movement

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/actor"
	"github.com/milk9111/actorfsm/common"
)

// Body is the rigid body a mover drives.
type Body interface {
	Velocity() cp.Vector
	SetVelocity(v cp.Vector)
	// LockVertical freezes or releases vertical motion.
	LockVertical(locked bool)
	// Face turns the visual orientation left (-1) or right (1).
	Face(dir int)
}

// GroundProbe reports whether any of the mover's feet touch a platform.
type GroundProbe interface {
	Grounded() bool
}

// Rig bundles the collaborators a mover talks to.
type Rig struct {
	Body   Body
	Ground GroundProbe
	Clock  actor.Clock
	Logger *log.Logger
}

// facing keeps the last horizontal direction outside a dead zone.
type facing struct {
	last     int
	deadzone float64
}

func (f *facing) update(x float64) int {
	if f.last == 0 {
		f.last = 1
	}
	if math.Abs(x) > f.deadzone {
		f.last = int(common.Sign(x))
	}
	return f.last
}
