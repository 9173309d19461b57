package stage

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/input"
)

// Controls is one tick of polled device state. Cursor is in arena
// coordinates.
type Controls struct {
	MoveX     float64
	Jump      bool
	Dash      bool
	Attack    bool
	Reload    bool
	Cursor    cp.Vector
	HasCursor bool

	// Slot is the 1-based loadout slot picked this tick, or 0.
	Slot        int
	ToggleHover bool
}

// Devices reports polled controls to a player's input handler. Release
// edges the controllers care about are turned into their own signals:
// letting go of jump is a JumpCancel, letting go of attack is a combat Idle.
type Devices struct {
	handler *input.Handler
	prev    Controls
}

func NewDevices(h *input.Handler) *Devices {
	return &Devices{handler: h}
}

func (d *Devices) Report(c Controls) error {
	prev := d.prev
	d.prev = c

	move := input.Signal{System: input.SystemMovement, Action: input.ActionMove, Held: c.MoveX != 0}
	if move.Held {
		move = move.WithDirection(cp.Vector{X: c.MoveX})
	}

	signals := []input.Signal{
		move,
		{System: input.SystemMovement, Action: input.ActionJump, Held: c.Jump},
		{System: input.SystemMovement, Action: input.ActionJumpCancel, Held: prev.Jump && !c.Jump},
		{System: input.SystemMovement, Action: input.ActionDash, Held: c.Dash},
	}
	if c.HasCursor {
		signals = append(signals, input.Signal{System: input.SystemCombat, Action: input.ActionMouseDrag, Held: true}.WithDirection(c.Cursor))
	}
	attack := input.Signal{System: input.SystemCombat, Action: input.ActionAttack, Held: c.Attack}
	if c.HasCursor {
		attack = attack.WithDirection(c.Cursor)
	}
	signals = append(signals,
		attack,
		input.Signal{System: input.SystemCombat, Action: input.ActionIdle, Held: prev.Attack && !c.Attack},
		input.Signal{System: input.SystemCombat, Action: input.ActionReload, Held: c.Reload},
	)

	for _, sig := range signals {
		if err := d.handler.Report(sig); err != nil {
			return err
		}
	}
	return nil
}
