package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/combat"
	"github.com/milk9111/actorfsm/sensor"
)

// footInset keeps the outer feet off the box corners so walls do not read
// as ground.
const footInset = 0.45

// FeetProbe reports ground contact by casting short segments down from the
// left, middle and right of a body's bottom edge.
type FeetProbe struct {
	arena *Arena
	body  *Body
	depth float64
}

func NewFeetProbe(a *Arena, b *Body, depth float64) *FeetProbe {
	if depth <= 0 {
		depth = 2
	}
	return &FeetProbe{arena: a, body: b, depth: depth}
}

func (f *FeetProbe) Grounded() bool {
	pos := f.body.Position()
	bottom := pos.Y + f.body.height/2
	filter := queryFilter(f.body.group)
	for _, dx := range []float64{-footInset, 0, footInset} {
		start := cp.Vector{X: pos.X + dx*f.body.width, Y: bottom - 1}
		end := cp.Vector{X: start.X, Y: bottom + f.depth}
		if info := f.arena.space.SegmentQueryFirst(start, end, 0, filter); info.Shape != nil {
			return true
		}
	}
	return false
}

// Caster performs hitscan and sensor casts on behalf of one actor.
type Caster struct {
	arena *Arena
	group uint
}

func NewCaster(a *Arena, owner *Body) *Caster {
	c := &Caster{arena: a}
	if owner != nil {
		c.group = owner.group
	}
	return c
}

func (c *Caster) query(origin, dir cp.Vector, maxRange, radius float64) (cp.SegmentQueryInfo, cp.Vector, bool) {
	end := origin.Add(dir.Mult(maxRange))
	info := c.arena.space.SegmentQueryFirst(origin, end, radius, queryFilter(c.group))
	return info, end, info.Shape != nil
}

// Fire implements combat.Bullet.
func (c *Caster) Fire(origin, dir cp.Vector, maxRange float64) (combat.HitInfo, bool) {
	info, end, ok := c.query(origin, dir, maxRange, 0)
	hit := combat.HitInfo{Origin: origin, End: end, Direction: dir}
	if !ok {
		return hit, false
	}
	hit.End = info.Point
	hit.Target = info.Shape.UserData
	return hit, true
}

// Cast implements sensor.Probe.
func (c *Caster) Cast(origin, dir cp.Vector, maxRange, radius float64) (sensor.Hit, bool) {
	info, _, ok := c.query(origin, dir, maxRange, radius)
	if !ok {
		return sensor.Hit{}, false
	}
	return sensor.Hit{
		Point:    info.Point,
		Normal:   info.Normal,
		Distance: info.Alpha * maxRange,
		Target:   info.Shape.UserData,
	}, true
}
