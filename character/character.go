// Package character ties an actor's movement and combat systems to a signal
// source and re-publishes their autonomous commits as its own.
package character

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/milk9111/actorfsm/actor"
	"github.com/milk9111/actorfsm/input"
	"github.com/milk9111/actorfsm/notify"
)

// SnapshotSource is anything that publishes input snapshots.
type SnapshotSource interface {
	Subscribe(fn func(input.Snapshot) error) error
}

// Character routes every signal of a snapshot to the system its SystemType
// names. When a system's controller commits on its own, the character
// re-sends that system's part of the last snapshot after the update so the
// controller can react to input that is still held.
type Character struct {
	name     string
	movement *actor.System
	combat   *actor.System

	last    input.Snapshot
	hasLast bool
	pending map[input.SystemType]bool

	transitions *notify.Stream[notify.Unit]
	logger      *log.Logger
}

func New(name string, movement, combat *actor.System, subscribers int, logger *log.Logger) (*Character, error) {
	if movement == nil || combat == nil {
		return nil, fmt.Errorf("character: %s needs both systems", name)
	}
	c := &Character{
		name:        name,
		movement:    movement,
		combat:      combat,
		pending:     map[input.SystemType]bool{},
		transitions: notify.NewStream[notify.Unit](name+" transitions", subscribers),
	}
	if logger != nil {
		c.logger = logger.With("character", name)
	}

	if err := movement.Transitions().Subscribe(c.onSystemTransition(input.SystemMovement)); err != nil {
		return nil, fmt.Errorf("character: %s: %w", name, err)
	}
	if err := combat.Transitions().Subscribe(c.onSystemTransition(input.SystemCombat)); err != nil {
		return nil, fmt.Errorf("character: %s: %w", name, err)
	}
	return c, nil
}

func (c *Character) onSystemTransition(st input.SystemType) func(notify.Unit) error {
	return func(notify.Unit) error {
		c.pending[st] = true
		return c.transitions.Publish(notify.Unit{})
	}
}

// Attach subscribes the character to src.
func (c *Character) Attach(src SnapshotSource) error {
	return src.Subscribe(c.HandleSnapshot)
}

func (c *Character) HandleSnapshot(snap input.Snapshot) error {
	c.last = snap
	c.hasLast = true
	return c.dispatch(snap, nil)
}

// Update drives movement then combat, then replays the last snapshot to any
// system whose controller committed autonomously during the update.
func (c *Character) Update() error {
	if err := c.movement.Update(); err != nil {
		return err
	}
	if err := c.combat.Update(); err != nil {
		return err
	}
	if len(c.pending) == 0 {
		return nil
	}
	only := c.pending
	c.pending = map[input.SystemType]bool{}
	if !c.hasLast {
		return nil
	}
	if c.logger != nil {
		c.logger.Debug("replaying snapshot", "tick", c.last.Tick, "systems", len(only))
	}
	return c.dispatch(c.last, only)
}

func (c *Character) dispatch(snap input.Snapshot, only map[input.SystemType]bool) error {
	for _, sig := range snap.Signals {
		if only != nil && !only[sig.System] {
			continue
		}
		sys := c.system(sig.System)
		if sys == nil {
			continue
		}
		if err := sys.HandleInput(sig); err != nil {
			return fmt.Errorf("character: %s %s: %w", c.name, sig.Action, err)
		}
	}
	return nil
}

func (c *Character) system(st input.SystemType) *actor.System {
	switch st {
	case input.SystemMovement:
		return c.movement
	case input.SystemCombat:
		return c.combat
	}
	return nil
}

func (c *Character) Name() string { return c.name }

func (c *Character) Movement() *actor.System { return c.movement }

func (c *Character) Combat() *actor.System { return c.combat }

// Transitions fires whenever either system's controller commits on its own.
func (c *Character) Transitions() *notify.Stream[notify.Unit] { return c.transitions }
