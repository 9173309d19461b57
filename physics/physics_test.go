package physics

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/prefabs"
)

func testArena() *Arena {
	return NewArena(&prefabs.ArenaSpec{
		Width:  400,
		Height: 200,
		Platforms: []prefabs.SegmentSpec{
			{AX: 0, AY: 100, BX: 400, BY: 100, Thickness: 2},
		},
	})
}

var testBody = prefabs.BodySpec{Width: 24, Height: 40, Mass: 1}

func TestFeetProbe(t *testing.T) {
	tests := []struct {
		name  string
		y     float64
		grnd  bool
		depth float64
	}{
		{name: "standing on the floor", y: 79, grnd: true, depth: 4},
		{name: "in the air", y: 40, grnd: false, depth: 4},
		{name: "just above within depth", y: 76, grnd: true, depth: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testArena()
			b := NewBody(a, testBody, cp.Vector{X: 100, Y: tt.y}, "hero")
			if got := NewFeetProbe(a, b, tt.depth).Grounded(); got != tt.grnd {
				t.Fatalf("Grounded() = %v, want %v", got, tt.grnd)
			}
		})
	}
}

func TestFeetProbeIgnoresOwnBody(t *testing.T) {
	a := &Arena{space: cp.NewSpace()}
	b := NewBody(a, testBody, cp.Vector{X: 100, Y: 50}, "hero")
	if NewFeetProbe(a, b, 4).Grounded() {
		t.Fatalf("a body must not stand on itself")
	}
}

func TestBodyFlipsVerticalAxis(t *testing.T) {
	a := testArena()
	b := NewBody(a, testBody, cp.Vector{X: 100, Y: 40}, nil)

	b.SetVelocity(cp.Vector{X: 3, Y: 5})
	if raw := b.body.Velocity(); raw.Y != -5 {
		t.Fatalf("expected y-up 5 to be screen -5, got %v", raw)
	}
	if v := b.Velocity(); v != (cp.Vector{X: 3, Y: 5}) {
		t.Fatalf("expected round trip, got %v", v)
	}

	b.LockVertical(true)
	if v := b.Velocity(); v.Y != 0 {
		t.Fatalf("locking must clear vertical velocity, got %v", v)
	}
}

func TestCasterHitsOthersNotSelf(t *testing.T) {
	a := testArena()
	hero := NewBody(a, testBody, cp.Vector{X: 100, Y: 79}, "hero")
	NewBody(a, testBody, cp.Vector{X: 150, Y: 79}, "boss")
	c := NewCaster(a, hero)

	hit, ok := c.Cast(hero.Position(), cp.Vector{X: 1}, 200, 0)
	if !ok || hit.Target != "boss" {
		t.Fatalf("expected to see the boss, got %+v ok=%v", hit, ok)
	}
	if math.Abs(hit.Distance-38) > 0.5 {
		t.Fatalf("expected the boss's near edge about 38 away, got %v", hit.Distance)
	}

	shot, ok := c.Fire(hero.Position(), cp.Vector{Y: 1}, 200)
	if !ok || shot.Target != nil {
		t.Fatalf("expected to hit the floor, got %+v ok=%v", shot, ok)
	}
	if shot.End.Y < 98 || shot.End.Y > 100 {
		t.Fatalf("expected the hit on the floor's top edge, got %v", shot.End)
	}

	miss, ok := c.Fire(hero.Position(), cp.Vector{X: -1}, 50)
	if ok || miss.End != hero.Position().Add(cp.Vector{X: -50}) {
		t.Fatalf("expected a miss ending at max range, got %+v ok=%v", miss, ok)
	}
}

func TestMuzzleMirrorsWithFacing(t *testing.T) {
	a := testArena()
	b := NewBody(a, testBody, cp.Vector{X: 100, Y: 40}, nil)
	m := NewMuzzle(b, cp.Vector{X: 10, Y: -5})

	if p := m.Position(); p != (cp.Vector{X: 110, Y: 35}) {
		t.Fatalf("expected right-facing offset, got %v", p)
	}
	b.Face(-1)
	if p := m.Position(); p != (cp.Vector{X: 90, Y: 35}) {
		t.Fatalf("expected mirrored offset, got %v", p)
	}
}

func TestProjectileLifecycle(t *testing.T) {
	a := testArena()
	b := NewBody(a, testBody, cp.Vector{X: 100, Y: 40}, nil)
	m := NewMuzzle(b, cp.Vector{X: 10})
	p := NewProjectile(a, b, m, 30)

	if p.Position() != m.Position() {
		t.Fatalf("a held spear rides the muzzle")
	}
	p.Pull(cp.Vector{X: 95, Y: 40})
	if p.Position() != (cp.Vector{X: 95, Y: 40}) {
		t.Fatalf("expected the pulled position, got %v", p.Position())
	}

	p.Launch(cp.Vector{X: 100})
	if !p.Flying() || !a.space.ContainsBody(p.body) {
		t.Fatalf("expected the spear in flight")
	}
	if v := p.body.Velocity(); v.X <= 0 {
		t.Fatalf("expected forward velocity, got %v", v)
	}

	p.Recall()
	if p.Flying() || a.space.ContainsBody(p.body) {
		t.Fatalf("expected the spear back in hand")
	}
	p.Recall()
}
