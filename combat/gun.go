package combat

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/actor"
	"github.com/milk9111/actorfsm/fsm"
	"github.com/milk9111/actorfsm/input"
	"github.com/milk9111/actorfsm/notify"
)

const defaultRange = 10000

type GunConfig struct {
	ChargeCapacity int
	ReattackTime   float64
	ReloadTime     float64
	MinAimDistance float64
	Range          float64
	TracerTicks    int
	ReloadCue      string
	FireCue        string
}

// Rig bundles the collaborators a weapon controller talks to.
type Rig struct {
	Bullet  Bullet
	Muzzle  Muzzle
	Thrower Thrower
	Clock   actor.Clock
	Audio   actor.Audio
	Logger  *log.Logger
}

type gunContext struct {
	aimPoint        cp.Vector
	hasAim          bool
	aimDir          cp.Vector
	currentAction   input.Action
	lastFireTime    float64
	reloaded        bool
	charge          int
	reload          actor.Countdown
	attackRequested bool
}

// Gun is a hitscan weapon with a charge that reloads over time. A rifle
// fires on Attack and replays the last signal once a reload has finished;
// an automatic gun keeps firing while Attack is held and resumes on its own
// after a reload.
type Gun struct {
	cfg       GunConfig
	rig       Rig
	automatic bool

	machine  *fsm.Machine[input.Action]
	ctx      gunContext
	tracer   *Tracer
	resubmit *actor.Resubmitter

	idle, fire, reload, neutral *fsm.State
}

func NewRifle(cfg GunConfig, rig Rig) *Gun {
	return newGun(cfg, rig, false)
}

func NewAutomaticGun(cfg GunConfig, rig Rig) *Gun {
	return newGun(cfg, rig, true)
}

func newGun(cfg GunConfig, rig Rig, automatic bool) *Gun {
	if cfg.Range <= 0 {
		cfg.Range = defaultRange
	}
	if rig.Audio == nil {
		rig.Audio = actor.NopAudio{}
	}
	return &Gun{
		cfg:       cfg,
		rig:       rig,
		automatic: automatic,
		tracer:    NewTracer(cfg.TracerTicks),
		resubmit: actor.NewResubmitter(func(sig input.Signal) bool {
			return sig.Action == input.ActionMouseDrag
		}),
	}
}

func (g *Gun) Init(transitions *notify.Stream[notify.Unit]) error {
	if g.rig.Bullet == nil || g.rig.Muzzle == nil || g.rig.Clock == nil {
		return fmt.Errorf("combat: gun needs a bullet, muzzle and clock")
	}

	g.idle = fsm.NewState("Idle")
	g.fire = fsm.NewState("Fire")
	g.reload = fsm.NewState("Reload")
	g.neutral = fsm.NewState("Neutral")

	name := "rifle"
	if g.automatic {
		name = "automatic_gun"
	}
	g.machine = fsm.New[input.Action](fsm.WithName(name), fsm.WithLogger(g.rig.Logger))

	notReloading := func() bool { return g.ctx.currentAction != input.ActionReload }

	g.machine.AddIntentTransition(fsm.NewTransition(nil, g.fire, input.ActionAttack,
		fsm.When(func() bool { return g.ctx.charge > 0 && notReloading() })))
	g.machine.AddIntentTransition(fsm.NewTransition(nil, g.idle, input.ActionIdle,
		fsm.When(notReloading)))
	g.machine.AddIntentTransition(fsm.NewTransition(nil, g.reload, input.ActionReload,
		fsm.When(func() bool { return g.ctx.charge < g.cfg.ChargeCapacity && notReloading() })))

	g.machine.AddAutonomicTransition(fsm.NewTransition(g.fire, g.reload, input.ActionReload,
		fsm.When(func() bool { return g.ctx.charge < 1 })))
	g.machine.AddAutonomicTransition(fsm.NewTransition(g.reload, g.neutral, input.ActionNeutral,
		fsm.When(func() bool { return g.ctx.reloaded })))
	if g.automatic {
		g.machine.AddAutonomicTransition(fsm.NewTransition(g.neutral, g.fire, input.ActionAttack,
			fsm.When(func() bool { return g.ctx.attackRequested })))
		g.machine.AddAutonomicTransition(fsm.NewTransition(g.neutral, g.idle, input.ActionIdle,
			fsm.When(func() bool { return !g.ctx.attackRequested })))
	}

	g.machine.OnTransitionedAutonomously(func() error {
		return transitions.Publish(notify.Unit{})
	})

	g.idle.OnEnter(fsm.Do(func() { g.ctx.currentAction = input.ActionIdle }))
	g.fire.OnEnter(
		fsm.Do(func() { g.ctx.currentAction = input.ActionAttack }),
		g.handleFiring,
	)
	g.reload.OnEnter(func() error {
		g.ctx.reloaded = false
		g.ctx.currentAction = input.ActionReload
		if g.cfg.ReloadCue == "" {
			return nil
		}
		return g.rig.Audio.Play(g.cfg.ReloadCue)
	})
	g.neutral.OnEnter(fsm.Do(func() {
		g.ctx.currentAction = input.ActionNeutral
		if !g.automatic {
			g.resubmit.Request()
		}
	}))

	g.fire.OnUpdate(g.handleFiring)
	g.reload.OnUpdate(fsm.Do(g.handleReloading))
	g.reload.OnExit(fsm.Do(g.resetReload))

	g.ctx = gunContext{
		aimDir:       cp.Vector{X: 1},
		lastFireTime: noFireYet,
	}
	if err := g.machine.SetState(input.ActionIdle); err != nil {
		return err
	}
	g.ctx.charge = g.cfg.ChargeCapacity
	g.resetReload()
	return nil
}

func (g *Gun) HandleInput(sig input.Signal) error {
	if g.automatic {
		switch sig.Action {
		case input.ActionIdle:
			g.ctx.attackRequested = false
		case input.ActionAttack:
			g.ctx.attackRequested = true
		}
	}
	if sig.Action == input.ActionMouseDrag && sig.HasDirection {
		g.ctx.aimPoint = sig.Direction
		g.ctx.hasAim = true
	}

	if err := g.machine.SetState(sig.Action); err != nil {
		return err
	}
	g.resubmit.Remember(sig)
	return nil
}

func (g *Gun) Update() error {
	g.tracer.Tick()
	g.takeAim()
	if err := g.machine.Update(); err != nil {
		return err
	}
	return g.resubmit.Flush(g.HandleInput)
}

func (g *Gun) End() error { return nil }

func (g *Gun) Charge() int { return g.ctx.charge }

func (g *Gun) State() string { return g.machine.CurrentStateName() }

func (g *Gun) Tracer() *Tracer { return g.tracer }

func (g *Gun) Action() input.Action { return g.ctx.currentAction }

func (g *Gun) handleFiring() error {
	now := g.rig.Clock.Now()
	if now-g.ctx.lastFireTime < g.cfg.ReattackTime {
		return nil
	}
	if g.ctx.charge <= 0 {
		return nil
	}

	origin := g.rig.Muzzle.Position()
	hit, ok := g.rig.Bullet.Fire(origin, g.ctx.aimDir, g.cfg.Range)
	if ok {
		g.tracer.Show(hit)
	}
	g.ctx.lastFireTime = now
	g.ctx.charge--

	if g.cfg.FireCue != "" {
		return g.rig.Audio.Play(g.cfg.FireCue)
	}
	return nil
}

func (g *Gun) handleReloading() {
	g.ctx.reload.Tick(g.rig.Clock.Delta())
	if g.ctx.reload.Done() {
		g.ctx.charge = g.cfg.ChargeCapacity
		g.ctx.reloaded = true
		if g.rig.Logger != nil {
			g.rig.Logger.Debug("reloaded", "charge", g.ctx.charge)
		}
	}
}

func (g *Gun) resetReload() {
	g.ctx.reload.Start(g.cfg.ReloadTime)
	g.ctx.reloaded = false
}

func (g *Gun) takeAim() {
	if !g.ctx.hasAim {
		return
	}
	dir, angle, flipped, ok := aimAt(g.rig.Muzzle.Position(), g.ctx.aimPoint, g.cfg.MinAimDistance)
	if !ok {
		return
	}
	g.ctx.aimDir = dir
	g.rig.Muzzle.Aim(angle, flipped)
}
