package actor

import "github.com/milk9111/actorfsm/input"

// Resubmitter caches the last signal a controller handled and replays it
// once the engine has returned. Controllers call Request from a hook or an
// autonomous-commit listener and Flush after their machine's Update, so the
// engine is never re-entered from inside its own call.
type Resubmitter struct {
	last    input.Signal
	has     bool
	pending bool
	skip    func(input.Signal) bool
}

// NewResubmitter returns a resubmitter that does not cache signals for which
// skip returns true. skip may be nil.
func NewResubmitter(skip func(input.Signal) bool) *Resubmitter {
	return &Resubmitter{skip: skip}
}

func (r *Resubmitter) Remember(sig input.Signal) {
	if r.skip != nil && r.skip(sig) {
		return
	}
	r.last = sig
	r.has = true
}

func (r *Resubmitter) Request() { r.pending = true }

func (r *Resubmitter) Pending() bool { return r.pending }

// Flush replays the cached signal through handle if a replay was requested.
func (r *Resubmitter) Flush(handle func(input.Signal) error) error {
	if !r.pending {
		return nil
	}
	r.pending = false
	if !r.has {
		return nil
	}
	return handle(r.last)
}
