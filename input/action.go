package input

import (
	"fmt"
	"strings"
)

// SystemType routes a signal to the owning system.
type SystemType int

const (
	SystemNone SystemType = iota
	SystemMovement
	SystemCombat
)

func (s SystemType) String() string {
	switch s {
	case SystemMovement:
		return "movement"
	case SystemCombat:
		return "combat"
	default:
		return "none"
	}
}

// Action is the label controllers map onto intent transitions.
type Action int

const (
	ActionNone Action = iota
	ActionNeutral
	ActionIdle
	ActionMove
	ActionJump
	ActionJumpCancel
	ActionFall
	ActionDash
	ActionPrepare
	ActionAttack
	ActionReload
	ActionTarget
	ActionMouseDrag
)

var actionNames = map[Action]string{
	ActionNone:       "none",
	ActionNeutral:    "neutral",
	ActionIdle:       "idle",
	ActionMove:       "move",
	ActionJump:       "jump",
	ActionJumpCancel: "jump_cancel",
	ActionFall:       "fall",
	ActionDash:       "dash",
	ActionPrepare:    "prepare",
	ActionAttack:     "attack",
	ActionReload:     "reload",
	ActionTarget:     "target",
	ActionMouseDrag:  "mouse_drag",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("input: unknown action %q", name)
}

// Behavior decides how a reported input is kept on the board.
type Behavior int

const (
	// Eventful inputs exist for exactly one tick after the press that
	// produced them.
	Eventful Behavior = iota
	// Stateful inputs persist until the next report for the same action.
	Stateful
)

// DefaultBehaviors is the behavior map used by the player input handler.
// Actions not listed are eventful.
func DefaultBehaviors() map[Action]Behavior {
	return map[Action]Behavior{
		ActionMove:       Stateful,
		ActionMouseDrag:  Stateful,
		ActionJump:       Eventful,
		ActionJumpCancel: Eventful,
		ActionAttack:     Eventful,
		ActionDash:       Eventful,
	}
}
