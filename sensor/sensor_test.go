package sensor

import (
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/input"
)

type fakeProbe struct {
	hits map[float64]Hit // keyed by range so each definition can see something different
}

func (p *fakeProbe) Cast(_, _ cp.Vector, maxRange, _ float64) (Hit, bool) {
	h, ok := p.hits[maxRange]
	return h, ok
}

func forward() cp.Vector { return cp.Vector{X: 1} }
func origin() cp.Vector  { return cp.Vector{} }

func TestSystemEdges(t *testing.T) {
	probe := &fakeProbe{hits: map[float64]Hit{}}
	s := NewSystem(probe, 1, nil)

	var snaps []Snapshot
	if err := s.Subscribe(func(snap Snapshot) error {
		snaps = append(snaps, snap)
		return nil
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("%v", err)
		}
	}
	must(s.Add(Definition{Name: "sight", Type: "sight", Origin: origin, Direction: forward, Range: 400, Behavior: input.Stateful}))
	must(s.Add(Definition{Name: "wall", Type: "wall", Origin: origin, Direction: forward, Range: 40, Behavior: input.Eventful}))

	target := &struct{ name string }{"player"}

	steps := []struct {
		name      string
		hits      map[float64]Hit
		published bool
		check     func(t *testing.T, snap Snapshot)
	}{
		{
			name:      "first tick records stateful miss",
			hits:      map[float64]Hit{},
			published: true,
			check: func(t *testing.T, snap Snapshot) {
				sig, ok := snap.Lookup("sight")
				if !ok || sig.Detected {
					t.Fatalf("expected an undetected sight signal, got %+v", sig)
				}
				if _, ok := snap.Lookup("wall"); ok {
					t.Fatalf("eventful misses are not recorded")
				}
			},
		},
		{
			name:      "no change",
			hits:      map[float64]Hit{},
			published: false,
		},
		{
			name:      "both detect",
			hits:      map[float64]Hit{400: {Distance: 100, Target: target}, 40: {Distance: 10}},
			published: true,
			check: func(t *testing.T, snap Snapshot) {
				sight, _ := snap.Lookup("sight")
				if !sight.Detected || !sight.DetectedThisTick || sight.Band != 3 {
					t.Fatalf("unexpected sight signal %+v", sight)
				}
				wall, ok := snap.Lookup("wall")
				if !ok || !wall.DetectedThisTick {
					t.Fatalf("expected a wall event, got %+v", wall)
				}
			},
		},
		{
			name:      "wall event expires and sight settles",
			hits:      map[float64]Hit{400: {Distance: 110, Target: target}, 40: {Distance: 10}},
			published: true,
			check: func(t *testing.T, snap Snapshot) {
				if _, ok := snap.Lookup("wall"); ok {
					t.Fatalf("wall event should have expired")
				}
				sight, _ := snap.Lookup("sight")
				if !sight.Detected || sight.DetectedThisTick {
					t.Fatalf("expected a held detection, got %+v", sight)
				}
			},
		},
		{
			name:      "movement inside the band is quiet",
			hits:      map[float64]Hit{400: {Distance: 120, Target: target}, 40: {Distance: 10}},
			published: false,
		},
		{
			name:      "crossing a band publishes",
			hits:      map[float64]Hit{400: {Distance: 40, Target: target}},
			published: true,
			check: func(t *testing.T, snap Snapshot) {
				sight, _ := snap.Lookup("sight")
				if sight.Band != 1 {
					t.Fatalf("expected band 1, got %d", sight.Band)
				}
			},
		},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			probe.hits = step.hits
			before := len(snaps)
			if err := s.Tick(); err != nil {
				t.Fatalf("tick: %v", err)
			}
			published := len(snaps) > before
			if published != step.published {
				t.Fatalf("published=%v, want %v", published, step.published)
			}
			if step.check != nil {
				step.check(t, snaps[len(snaps)-1])
			}
		})
	}
}

func TestSystemAddValidates(t *testing.T) {
	s := NewSystem(&fakeProbe{}, 1, nil)
	tests := []struct {
		name string
		def  Definition
	}{
		{name: "no name", def: Definition{Origin: origin, Direction: forward}},
		{name: "no origin", def: Definition{Name: "a", Direction: forward}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Add(tt.def); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}

	if err := s.Add(Definition{Name: "a", Origin: origin, Direction: forward}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add(Definition{Name: "a", Origin: origin, Direction: forward}); err == nil {
		t.Fatalf("expected a duplicate error")
	}
}
