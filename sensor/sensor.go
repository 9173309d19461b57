// Package sensor gives AI actors eyes. Each definition is cast into the world
// once per tick and the results are published as a snapshot with the same
// edge and expiry rules the input handler uses.
package sensor

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/input"
	"github.com/milk9111/actorfsm/notify"
)

// DefaultBandWidth is the distance granularity below which a moving target
// does not count as a change.
const DefaultBandWidth = 32.0

// Hit is the first thing a cast touched.
type Hit struct {
	Point    cp.Vector
	Normal   cp.Vector
	Distance float64
	Target   any
}

// Probe casts a ray (radius 0) or a swept circle into the world.
type Probe interface {
	Cast(origin, dir cp.Vector, maxRange, radius float64) (Hit, bool)
}

type Definition struct {
	Name      string
	Type      string
	Origin    func() cp.Vector
	Direction func() cp.Vector
	Range     float64
	Radius    float64
	// Eventful definitions only report the tick a detection starts.
	Behavior input.Behavior
}

type Signal struct {
	Name             string
	Type             string
	Detected         bool
	DetectedThisTick bool
	Hit              Hit
	Band             int
}

func (s Signal) Equal(o Signal) bool {
	return s.Detected == o.Detected &&
		s.DetectedThisTick == o.DetectedThisTick &&
		s.Band == o.Band &&
		s.Hit.Target == o.Hit.Target
}

type Snapshot struct {
	Signals []Signal
	Tick    uint64
}

func (s Snapshot) Lookup(name string) (Signal, bool) {
	for _, sig := range s.Signals {
		if sig.Name == name {
			return sig, true
		}
	}
	return Signal{}, false
}

type System struct {
	probe     Probe
	defs      []Definition
	detected  map[string]bool
	board     *input.Board[string, Signal]
	stream    *notify.Stream[Snapshot]
	bandWidth float64
	logger    *log.Logger
}

func NewSystem(probe Probe, capacity int, logger *log.Logger) *System {
	return &System{
		probe:     probe,
		detected:  map[string]bool{},
		board:     input.NewBoard[string, Signal](Signal.Equal),
		stream:    notify.NewStream[Snapshot]("sensor", capacity),
		bandWidth: DefaultBandWidth,
		logger:    logger,
	}
}

func (s *System) Add(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("sensor: definition without a name")
	}
	if def.Origin == nil || def.Direction == nil {
		return fmt.Errorf("sensor: %s: origin and direction are required", def.Name)
	}
	for _, d := range s.defs {
		if d.Name == def.Name {
			return fmt.Errorf("sensor: duplicate definition %q", def.Name)
		}
	}
	s.defs = append(s.defs, def)
	return nil
}

func (s *System) Subscribe(fn func(Snapshot) error) error {
	return s.stream.Subscribe(fn)
}

func (s *System) Snapshot() Snapshot {
	return Snapshot{Signals: s.board.Values(), Tick: s.board.CurrentTick()}
}

// Tick expires last tick's eventful detections, casts every definition and
// publishes once if anything changed.
func (s *System) Tick() error {
	changed := s.board.Tick()
	for _, def := range s.defs {
		if s.sense(def) {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	snap := s.Snapshot()
	if s.logger != nil {
		s.logger.Debug("sensor snapshot", "tick", snap.Tick, "signals", len(snap.Signals))
	}
	return s.stream.Publish(snap)
}

func (s *System) sense(def Definition) bool {
	dir := def.Direction()
	var (
		hit Hit
		ok  bool
	)
	if dir.Length() > 0 && s.probe != nil {
		hit, ok = s.probe.Cast(def.Origin(), dir.Normalize(), def.Range, def.Radius)
	}

	was := s.detected[def.Name]
	s.detected[def.Name] = ok

	sig := Signal{
		Name:             def.Name,
		Type:             def.Type,
		Detected:         ok,
		DetectedThisTick: ok && !was,
	}
	if ok {
		sig.Hit = hit
		sig.Band = int(hit.Distance / s.bandWidth)
	}

	if def.Behavior == input.Eventful {
		if !sig.DetectedThisTick {
			return false
		}
		return s.board.Put(def.Name, sig, true)
	}
	return s.board.Put(def.Name, sig, false)
}
