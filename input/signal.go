package input

import "github.com/jakecoffman/cp"

// Signal is one input delivered to a controller's HandleInput.
type Signal struct {
	System   SystemType
	Action   Action
	Held     bool
	Pressed  bool // went down this tick
	Released bool // went up this tick

	// Direction carries the move axis for Move and the aim point for
	// MouseDrag. It is only meaningful when HasDirection is set.
	Direction    cp.Vector
	HasDirection bool
}

// WithDirection returns a copy of s carrying dir.
func (s Signal) WithDirection(dir cp.Vector) Signal {
	s.Direction = dir
	s.HasDirection = true
	return s
}

// Equal compares the fields that make a snapshot observably different.
func (s Signal) Equal(o Signal) bool {
	return s.Held == o.Held &&
		s.Pressed == o.Pressed &&
		s.HasDirection == o.HasDirection &&
		s.Direction == o.Direction
}

// Snapshot is the set of signals current at a tick, in first-report order.
type Snapshot struct {
	Signals []Signal
	Tick    uint64
}

// Lookup returns the current signal for action, if any.
func (s Snapshot) Lookup(action Action) (Signal, bool) {
	for _, sig := range s.Signals {
		if sig.Action == action {
			return sig, true
		}
	}
	return Signal{}, false
}
