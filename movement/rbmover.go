package movement

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/actor"
	"github.com/milk9111/actorfsm/common"
	"github.com/milk9111/actorfsm/fsm"
	"github.com/milk9111/actorfsm/input"
	"github.com/milk9111/actorfsm/notify"
)

// jumpCancelDamping divides rising velocity when a jump is cut short.
const jumpCancelDamping = 1.5

type RbMoverConfig struct {
	MoveSpeed      float64
	AirborneSpeed  float64
	Acceleration   float64
	DashSpeed      float64
	DashDuration   float64
	JumpHeight     float64
	JumpTimeToPeak float64
	FaceDeadzone   float64
}

type rbContext struct {
	currentAction input.Action
	gravity       float64
	moveInput     cp.Vector
	hVelocity     float64
	hSpeed        float64
	vVelocity     float64
	grounded      bool
	dash          actor.Countdown
	dashEnded     bool
}

// RbMover is the player's platformer mover: run, jump, cancellable jumps,
// falls and a fixed-duration dash.
type RbMover struct {
	cfg    RbMoverConfig
	rig    Rig
	facing facing

	machine *fsm.Machine[input.Action]
	ctx     rbContext

	idle, move, jump, fall, dash, neutral *fsm.State
}

func NewRbMover(cfg RbMoverConfig, rig Rig) *RbMover {
	return &RbMover{cfg: cfg, rig: rig, facing: facing{deadzone: cfg.FaceDeadzone}}
}

func (r *RbMover) Init(transitions *notify.Stream[notify.Unit]) error {
	if r.rig.Body == nil || r.rig.Ground == nil || r.rig.Clock == nil {
		return fmt.Errorf("movement: rb mover needs a body, ground probe and clock")
	}
	if r.cfg.JumpTimeToPeak <= 0 {
		return fmt.Errorf("movement: jump time to peak must be positive, got %v", r.cfg.JumpTimeToPeak)
	}

	r.idle = fsm.NewState("Idle")
	r.move = fsm.NewState("Move")
	r.jump = fsm.NewState("Jump")
	r.fall = fsm.NewState("Fall")
	r.dash = fsm.NewState("Dash")
	r.neutral = fsm.NewState("Neutral")

	r.machine = fsm.New[input.Action](
		fsm.WithName("rb_mover"),
		fsm.WithInitial(r.neutral),
		fsm.WithLogger(r.rig.Logger),
	)

	notJumpingOrDashing := func() bool {
		return r.ctx.currentAction != input.ActionJump && r.ctx.currentAction != input.ActionDash
	}

	r.machine.AddIntentTransition(fsm.NewTransition(nil, r.move, input.ActionMove,
		fsm.When(func() bool { return r.ctx.moveInput.Length() > 0 && r.ctx.grounded && notJumpingOrDashing() })))
	r.machine.AddIntentTransition(fsm.NewTransition(nil, r.jump, input.ActionJump,
		fsm.When(func() bool { return r.ctx.grounded })))
	r.machine.AddIntentTransition(fsm.NewTransition(nil, r.dash, input.ActionDash))
	r.machine.AddIntentTransition(fsm.NewTransition(nil, r.fall, input.ActionJumpCancel,
		fsm.When(func() bool { return r.ctx.currentAction == input.ActionJump }),
		fsm.Then(func() error {
			if r.ctx.vVelocity > 0 {
				r.ctx.vVelocity /= jumpCancelDamping
			}
			return nil
		})))

	// Registration order matters: Fall->Neutral must win over the earlier
	// wildcard Idle once the mover lands.
	r.machine.AddAutonomicTransition(fsm.NewTransition(nil, r.idle, input.ActionIdle,
		fsm.When(func() bool { return r.ctx.moveInput.Length() == 0 && r.ctx.grounded && notJumpingOrDashing() })))
	r.machine.AddAutonomicTransition(fsm.NewTransition(nil, r.fall, input.ActionFall,
		fsm.When(func() bool {
			return !r.ctx.grounded && r.ctx.currentAction != input.ActionDash && r.ctx.vVelocity <= 0
		})))
	r.machine.AddAutonomicTransition(fsm.NewTransition(r.fall, r.neutral, input.ActionNeutral,
		fsm.When(func() bool { return r.ctx.grounded })))
	r.machine.AddAutonomicTransition(fsm.NewTransition(r.dash, r.neutral, input.ActionNeutral,
		fsm.When(func() bool { return r.ctx.dashEnded })))

	r.machine.OnTransitionedAutonomously(func() error {
		return transitions.Publish(notify.Unit{})
	})

	r.move.OnEnter(fsm.Do(func() {
		r.ctx.currentAction = input.ActionMove
		r.ctx.vVelocity = 0
		r.ctx.hSpeed = r.cfg.MoveSpeed
		r.rig.Body.LockVertical(true)
	}))
	r.idle.OnEnter(fsm.Do(func() {
		r.ctx.vVelocity = 0
		r.ctx.hSpeed = 0
		r.ctx.currentAction = input.ActionIdle
	}))
	r.jump.OnEnter(fsm.Do(func() {
		r.ctx.currentAction = input.ActionJump
		r.rig.Body.LockVertical(false)
		r.ctx.vVelocity = r.ctx.gravity * r.cfg.JumpTimeToPeak
		r.ctx.hSpeed = r.cfg.AirborneSpeed
	}))
	r.fall.OnEnter(fsm.Do(func() {
		r.ctx.currentAction = input.ActionFall
		r.rig.Body.LockVertical(false)
		r.ctx.hSpeed = r.cfg.AirborneSpeed
	}))
	r.neutral.OnEnter(fsm.Do(func() { r.ctx.currentAction = input.ActionNeutral }))
	r.dash.OnEnter(fsm.Do(func() {
		r.ctx.currentAction = input.ActionDash
		r.rig.Body.LockVertical(true)
		r.resetDash()
		r.rig.Body.SetVelocity(cp.Vector{X: r.cfg.DashSpeed * float64(r.facing.update(0))})
		r.ctx.vVelocity = 0
	}))

	grounded := fsm.Do(func() {
		r.orient()
		r.blendHorizontal()
		r.apply()
	})
	r.idle.OnUpdate(grounded)
	r.move.OnUpdate(grounded)
	r.jump.OnUpdate(fsm.Do(func() {
		r.orient()
		r.blendHorizontal()
		r.apply()
		r.applyGravity()
	}))
	r.fall.OnUpdate(fsm.Do(func() {
		r.orient()
		r.blendHorizontal()
		r.applyGravity()
		r.apply()
	}))
	r.dash.OnUpdate(fsm.Do(func() {
		r.ctx.dash.Tick(r.rig.Clock.Delta())
		if r.ctx.dash.Overrun() {
			r.ctx.dashEnded = true
		}
	}))
	r.dash.OnExit(fsm.Do(r.resetDash))

	r.ctx = rbContext{
		currentAction: input.ActionNeutral,
		gravity:       2 * r.cfg.JumpHeight / (r.cfg.JumpTimeToPeak * r.cfg.JumpTimeToPeak),
		grounded:      r.rig.Ground.Grounded(),
	}
	r.resetDash()
	return nil
}

// HandleInput updates the move axis from Move signals and requests the
// signal's action as an intent.
func (r *RbMover) HandleInput(sig input.Signal) error {
	if sig.Action == input.ActionMove {
		r.ctx.moveInput = cp.Vector{}
		if sig.HasDirection && sig.Held {
			r.ctx.moveInput = sig.Direction
		}
	}
	return r.machine.SetState(sig.Action)
}

// Update drives the engine, then refreshes the grounded flag for the next
// tick's guards.
func (r *RbMover) Update() error {
	if err := r.machine.Update(); err != nil {
		return err
	}
	r.ctx.grounded = r.rig.Ground.Grounded()
	return nil
}

func (r *RbMover) End() error { return nil }

func (r *RbMover) State() string { return r.machine.CurrentStateName() }

func (r *RbMover) Action() input.Action { return r.ctx.currentAction }

func (r *RbMover) VerticalVelocity() float64 { return r.ctx.vVelocity }

func (r *RbMover) Gravity() float64 { return r.ctx.gravity }

func (r *RbMover) orient() {
	r.rig.Body.Face(r.facing.update(r.ctx.moveInput.X))
}

func (r *RbMover) blendHorizontal() {
	desired := r.ctx.hSpeed * r.ctx.moveInput.X
	r.ctx.hVelocity = common.MoveTowards(r.ctx.hVelocity, desired, r.cfg.Acceleration)
}

func (r *RbMover) apply() {
	r.rig.Body.SetVelocity(cp.Vector{X: r.ctx.hVelocity, Y: r.ctx.vVelocity})
}

func (r *RbMover) applyGravity() {
	r.ctx.vVelocity -= r.ctx.gravity * r.rig.Clock.Delta()
}

func (r *RbMover) resetDash() {
	r.ctx.dash.Start(r.cfg.DashDuration)
	r.ctx.dashEnded = false
}
