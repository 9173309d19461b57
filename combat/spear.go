package combat

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/actor"
	"github.com/milk9111/actorfsm/fsm"
	"github.com/milk9111/actorfsm/input"
	"github.com/milk9111/actorfsm/notify"
)

type SpearConfig struct {
	AimDuration   float64
	PullDistance  float64
	PullDuration  float64
	ThrowForce    float64
	ResetDuration float64
	ThrowCue      string
}

type spearContext struct {
	currentAction input.Action
	target        cp.Vector
	throwDir      cp.Vector
	aim           actor.Countdown
	pull          actor.Countdown
	aimDone       bool
	pulling       bool
	recallWanted  bool
	// flight counts down a thrown spear's time in the air.
	flight   actor.Countdown
	inFlight bool
}

// Spear aims at a target, pulls back and throws. Leaving Attack and coming
// back to Idle are driven by one-shot world events rather than by labels:
// Thrown fires once the aim has settled, Recalled fires when a Reload signal
// asks for the spear back.
type Spear struct {
	cfg SpearConfig
	rig Rig

	machine *fsm.Machine[input.Action]
	ctx     spearContext

	Thrown   fsm.Trigger
	Recalled fsm.Trigger

	idle, attack, neutral *fsm.State
}

func NewSpear(cfg SpearConfig, rig Rig) *Spear {
	return &Spear{cfg: cfg, rig: rig}
}

func (s *Spear) Init(transitions *notify.Stream[notify.Unit]) error {
	if s.rig.Thrower == nil || s.rig.Clock == nil {
		return fmt.Errorf("combat: spear needs a thrower and clock")
	}

	s.idle = fsm.NewState("Idle")
	s.attack = fsm.NewState("Attack")
	s.neutral = fsm.NewState("Neutral")

	s.machine = fsm.New[input.Action](fsm.WithName("spear"), fsm.WithLogger(s.rig.Logger))
	s.Thrown = fsm.Trigger{}
	s.Recalled = fsm.Trigger{}

	s.machine.AddIntentTransition(fsm.NewTransition(nil, s.idle, input.ActionIdle))
	s.machine.AddIntentTransition(fsm.NewTransition(s.idle, s.attack, input.ActionAttack))

	s.machine.AddExactTransitionTrigger(&s.Thrown, fsm.NewTransition(s.attack, s.neutral, input.ActionNeutral))
	s.machine.AddExactTransitionTrigger(&s.Recalled, fsm.NewTransition(s.neutral, s.idle, input.ActionIdle))

	s.machine.OnTransitionedAutonomously(func() error {
		return transitions.Publish(notify.Unit{})
	})

	s.idle.OnEnter(fsm.Do(func() {
		s.rig.Thrower.Recall()
		s.ctx.pulling = false
		s.ctx.inFlight = false
		s.ctx.currentAction = input.ActionIdle
	}))
	s.attack.OnEnter(fsm.Do(func() {
		s.ctx.aim.Start(s.cfg.AimDuration)
		s.ctx.aimDone = false
		dir, angle, _, ok := aimAt(s.rig.Thrower.Position(), s.ctx.target, 0)
		if ok {
			s.ctx.throwDir = dir
			s.rig.Thrower.Aim(angle)
		}
		s.ctx.currentAction = input.ActionAttack
	}))
	s.neutral.OnEnter(fsm.Do(func() { s.ctx.currentAction = input.ActionNeutral }))

	s.attack.OnUpdate(fsm.Do(func() {
		s.ctx.aim.Tick(s.rig.Clock.Delta())
		if s.ctx.aim.Done() {
			s.ctx.aimDone = true
		}
	}))
	s.neutral.OnUpdate(s.handlePull)

	s.ctx = spearContext{throwDir: cp.Vector{X: 1}}
	return s.machine.SetState(input.ActionIdle)
}

// HandleInput only reacts to Attack and Reload. Attack carries the target
// point in its direction payload.
func (s *Spear) HandleInput(sig input.Signal) error {
	switch sig.Action {
	case input.ActionAttack:
		if sig.HasDirection {
			s.ctx.target = sig.Direction
		}
		return s.machine.SetState(input.ActionAttack)
	case input.ActionReload:
		s.ctx.recallWanted = true
	}
	return nil
}

// Update drives the engine first. The throw and recall events are fired
// afterwards so that they never commit from inside the engine's own call.
func (s *Spear) Update() error {
	if err := s.machine.Update(); err != nil {
		return err
	}

	if s.ctx.aimDone && s.machine.Is(s.attack) {
		s.ctx.aimDone = false
		s.startThrow()
		if err := s.Thrown.Fire(); err != nil {
			return err
		}
	}

	if s.ctx.recallWanted {
		s.ctx.recallWanted = false
		if err := s.Recalled.Fire(); err != nil {
			return err
		}
	}
	return nil
}

// End puts a thrown spear back in hand.
func (s *Spear) End() error {
	if s.rig.Thrower != nil {
		s.rig.Thrower.Recall()
	}
	s.ctx.pulling = false
	s.ctx.inFlight = false
	return nil
}

func (s *Spear) State() string { return s.machine.CurrentStateName() }

func (s *Spear) Action() input.Action { return s.ctx.currentAction }

func (s *Spear) startThrow() {
	pos := s.rig.Thrower.Position()
	s.rig.Thrower.Pull(pos.Sub(s.ctx.throwDir.Mult(s.cfg.PullDistance)))
	s.ctx.pull.Start(s.cfg.PullDuration)
	s.ctx.pulling = true
}

func (s *Spear) handlePull() error {
	if s.ctx.inFlight {
		s.ctx.flight.Tick(s.rig.Clock.Delta())
		if s.ctx.flight.Done() {
			s.ctx.inFlight = false
			s.ctx.recallWanted = true
		}
		return nil
	}
	if !s.ctx.pulling {
		return nil
	}
	s.ctx.pull.Tick(s.rig.Clock.Delta())
	if !s.ctx.pull.Done() {
		return nil
	}
	s.ctx.pulling = false
	s.rig.Thrower.Launch(s.ctx.throwDir.Mult(s.cfg.ThrowForce))
	if s.cfg.ResetDuration > 0 {
		s.ctx.flight.Start(s.cfg.ResetDuration)
		s.ctx.inFlight = true
	}
	if s.rig.Logger != nil {
		s.rig.Logger.Debug("spear thrown", "dir", s.ctx.throwDir)
	}
	if s.cfg.ThrowCue != "" && s.rig.Audio != nil {
		return s.rig.Audio.Play(s.cfg.ThrowCue)
	}
	return nil
}
