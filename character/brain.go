package character

import (
	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/input"
	"github.com/milk9111/actorfsm/sensor"
)

type BossBrainConfig struct {
	Sight string
	Wall  string
	// KeepAway is the distance at which the boss stops closing in.
	KeepAway float64
	// IsTarget filters what counts as a sighting. Nil accepts any hit.
	IsTarget func(target any) bool
}

// BossBrain turns sensor snapshots into the same signals a player's devices
// would produce: patrol until something is in sight, then walk toward it
// while aiming and firing.
type BossBrain struct {
	cfg     BossBrainConfig
	handler *input.Handler
	patrol  float64
	chasing bool
	logger  *log.Logger
}

func NewBossBrain(cfg BossBrainConfig, handler *input.Handler, logger *log.Logger) *BossBrain {
	return &BossBrain{cfg: cfg, handler: handler, patrol: -1, logger: logger}
}

// Attach subscribes the brain to a sensor system.
func (b *BossBrain) Attach(s *sensor.System) error {
	return s.Subscribe(b.Think)
}

// Patrol is the current walking direction, -1 or 1.
func (b *BossBrain) Patrol() float64 { return b.patrol }

func (b *BossBrain) Chasing() bool { return b.chasing }

func (b *BossBrain) Think(snap sensor.Snapshot) error {
	if wall, ok := snap.Lookup(b.cfg.Wall); ok && wall.DetectedThisTick {
		b.patrol = -b.patrol
		if b.logger != nil {
			b.logger.Debug("boss turned", "patrol", b.patrol)
		}
	}

	sight, seen := snap.Lookup(b.cfg.Sight)
	seen = seen && sight.Detected && b.accepts(sight.Hit.Target)

	if seen != b.chasing && b.logger != nil {
		b.logger.Info("boss sight changed", "chasing", seen)
	}
	b.chasing = seen

	// Release whichever eventful input is not wanted so its next press
	// registers.
	if !seen {
		if err := b.report(input.Signal{System: input.SystemCombat, Action: input.ActionAttack}); err != nil {
			return err
		}
		if err := b.report(input.Signal{System: input.SystemCombat, Action: input.ActionIdle, Held: true}); err != nil {
			return err
		}
		return b.walk(true)
	}
	if err := b.report(input.Signal{System: input.SystemCombat, Action: input.ActionIdle}); err != nil {
		return err
	}

	if err := b.walk(sight.Hit.Distance > b.cfg.KeepAway); err != nil {
		return err
	}
	aim := input.Signal{System: input.SystemCombat, Action: input.ActionMouseDrag, Held: true}.WithDirection(sight.Hit.Point)
	if err := b.report(aim); err != nil {
		return err
	}
	return b.report(input.Signal{System: input.SystemCombat, Action: input.ActionAttack, Held: true})
}

// walk holds Move toward the patrol direction, or releases it and asks the
// mover to idle.
func (b *BossBrain) walk(moving bool) error {
	if moving {
		if err := b.report(input.Signal{System: input.SystemMovement, Action: input.ActionIdle}); err != nil {
			return err
		}
		sig := input.Signal{System: input.SystemMovement, Action: input.ActionMove, Held: true}
		return b.report(sig.WithDirection(cp.Vector{X: b.patrol}))
	}
	if err := b.report(input.Signal{System: input.SystemMovement, Action: input.ActionMove}); err != nil {
		return err
	}
	return b.report(input.Signal{System: input.SystemMovement, Action: input.ActionIdle, Held: true})
}

func (b *BossBrain) report(sig input.Signal) error {
	return b.handler.Report(sig)
}

func (b *BossBrain) accepts(target any) bool {
	return b.cfg.IsTarget == nil || b.cfg.IsTarget(target)
}
