package movement

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/common"
	"github.com/milk9111/actorfsm/fsm"
	"github.com/milk9111/actorfsm/input"
	"github.com/milk9111/actorfsm/notify"
)

type BossMoverConfig struct {
	MaxSpeed     float64
	Acceleration float64
	FaceDeadzone float64
}

type bossContext struct {
	currentAction input.Action
	moveInput     cp.Vector
	hTarget       float64
	hVelocity     float64
	grounded      bool
}

// BossMover is a ground-bound walker with only intent transitions.
type BossMover struct {
	cfg    BossMoverConfig
	rig    Rig
	facing facing

	machine *fsm.Machine[input.Action]
	ctx     bossContext

	idle, move *fsm.State
}

func NewBossMover(cfg BossMoverConfig, rig Rig) *BossMover {
	return &BossMover{cfg: cfg, rig: rig, facing: facing{deadzone: cfg.FaceDeadzone}}
}

func (b *BossMover) Init(transitions *notify.Stream[notify.Unit]) error {
	if b.rig.Body == nil || b.rig.Ground == nil {
		return fmt.Errorf("movement: boss mover needs a body and ground probe")
	}

	b.idle = fsm.NewState("Idle")
	b.move = fsm.NewState("Move")
	b.machine = fsm.New[input.Action](fsm.WithName("boss_mover"), fsm.WithLogger(b.rig.Logger))

	b.machine.AddIntentTransition(fsm.NewTransition(nil, b.idle, input.ActionIdle,
		fsm.When(func() bool { return b.ctx.moveInput.Length() == 0 && b.ctx.grounded })))
	b.machine.AddIntentTransition(fsm.NewTransition(nil, b.move, input.ActionMove,
		fsm.When(func() bool { return b.ctx.moveInput.Length() > 0 && b.ctx.grounded })))

	b.machine.OnTransitionedAutonomously(func() error {
		return transitions.Publish(notify.Unit{})
	})

	b.idle.OnEnter(fsm.Do(func() { b.ctx.currentAction = input.ActionIdle }))
	b.move.OnEnter(fsm.Do(func() {
		b.ctx.currentAction = input.ActionMove
		b.ctx.hTarget = b.cfg.MaxSpeed
		b.rig.Body.LockVertical(true)
	}))

	b.idle.OnUpdate(fsm.Do(func() {
		b.blend()
		b.apply()
	}))
	b.move.OnUpdate(fsm.Do(func() {
		b.rig.Body.Face(b.facing.update(b.ctx.moveInput.X))
		b.blend()
		b.apply()
	}))

	b.ctx = bossContext{grounded: b.rig.Ground.Grounded()}
	return b.machine.SetState(input.ActionIdle)
}

// HandleInput reads the move axis from any signal carrying a direction and
// clears it otherwise, so Idle with no payload stops the boss.
func (b *BossMover) HandleInput(sig input.Signal) error {
	b.ctx.moveInput = cp.Vector{}
	if sig.HasDirection {
		b.ctx.moveInput = sig.Direction
	}
	return b.machine.SetState(sig.Action)
}

func (b *BossMover) Update() error {
	if err := b.machine.Update(); err != nil {
		return err
	}
	b.ctx.grounded = b.rig.Ground.Grounded()
	return nil
}

func (b *BossMover) End() error { return nil }

func (b *BossMover) State() string { return b.machine.CurrentStateName() }

func (b *BossMover) blend() {
	desired := b.ctx.hTarget * b.ctx.moveInput.X
	b.ctx.hVelocity = common.MoveTowards(b.ctx.hVelocity, desired, b.cfg.Acceleration)
}

func (b *BossMover) apply() {
	b.rig.Body.SetVelocity(cp.Vector{X: b.ctx.hVelocity})
}
