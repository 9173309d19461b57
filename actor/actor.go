// Package actor holds the contract every weapon and mover controller
// implements and the owning system that swaps the active controller at
// runtime.
package actor

import (
	"github.com/milk9111/actorfsm/input"
	"github.com/milk9111/actorfsm/notify"
)

// Machine is the capability set of a host controller. Init builds the
// controller's graph and wires its autonomous-commit notification into
// transitions; End releases anything Init acquired.
type Machine interface {
	Init(transitions *notify.Stream[notify.Unit]) error
	HandleInput(sig input.Signal) error
	Update() error
	End() error
}

// Audio plays named cues. Controllers receive it at construction.
type Audio interface {
	Play(cue string) error
}

type NopAudio struct{}

func (NopAudio) Play(string) error { return nil }
