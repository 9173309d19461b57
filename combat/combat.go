// Package combat implements the weapon controllers driven by the combat
// system: hitscan guns with charge and reload, and a thrown spear.
package combat

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/common"
)

// HitInfo describes a hitscan hit.
type HitInfo struct {
	Origin    cp.Vector
	End       cp.Vector
	Direction cp.Vector
	Target    any
}

// Bullet casts a shot and reports the first thing it hit.
type Bullet interface {
	Fire(origin, dir cp.Vector, maxRange float64) (HitInfo, bool)
}

// Muzzle is the weapon transform: where shots start and how the sprite is
// rotated.
type Muzzle interface {
	Position() cp.Vector
	Aim(angleDeg float64, flipped bool)
}

// Thrower is the physical spear.
type Thrower interface {
	Position() cp.Vector
	Aim(angleDeg float64)
	Pull(to cp.Vector)
	Launch(impulse cp.Vector)
	Recall()
}

// Tracer is a shot line that stays visible for a fixed number of ticks.
type Tracer struct {
	Origin cp.Vector
	End    cp.Vector

	remaining int
	ticks     int
}

func NewTracer(ticks int) *Tracer {
	if ticks <= 0 {
		ticks = 1
	}
	return &Tracer{ticks: ticks}
}

func (t *Tracer) Show(hit HitInfo) {
	t.Origin = hit.Origin
	t.End = hit.End
	t.remaining = t.ticks
}

// Tick is called once at the top of every controller update.
func (t *Tracer) Tick() {
	if t.remaining > 0 {
		t.remaining--
	}
}

func (t *Tracer) Visible() bool { return t.remaining > 0 }

// aimAt returns the unit direction and rotation from origin toward target.
// ok is false when target is closer than minDistance, in which case the
// caller keeps its previous aim.
func aimAt(origin, target cp.Vector, minDistance float64) (dir cp.Vector, angle float64, flipped, ok bool) {
	to := target.Sub(origin)
	if to.Length() < minDistance || to.Length() == 0 {
		return cp.Vector{}, 0, false, false
	}
	dir = to.Normalize()
	return dir, common.AngleDeg(dir.X, dir.Y), dir.X < 0, true
}

var noFireYet = math.Inf(-1)
