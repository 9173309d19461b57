package stage

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/milk9111/actorfsm/actor"
	"github.com/milk9111/actorfsm/character"
	"github.com/milk9111/actorfsm/physics"
	"github.com/milk9111/actorfsm/prefabs"
)

const (
	DefaultTPS      = 60
	DefaultKeepAway = 160
)

type Options struct {
	// SpecFile is the arena prefab the world was loaded from.
	SpecFile string
	TPS      int
	Audio    actor.Audio
	Logger   *log.Logger
}

// World is a running arena: one player driven by devices and an optional
// boss driven by its sensors.
type World struct {
	SpecFile string
	Spec     *prefabs.ArenaSpec
	Arena    *physics.Arena
	Clock    *actor.FixedClock
	Player   *Actor
	Boss     *Actor
	Brain    *character.BossBrain

	devices   *Devices
	controls  Controls
	scheduler *Scheduler
	reloader  *Reloader
	logger    *log.Logger
}

func NewWorld(spec *prefabs.ArenaSpec, opts Options) (*World, error) {
	if spec == nil {
		return nil, fmt.Errorf("stage: no arena spec")
	}
	if spec.Player == "" {
		return nil, fmt.Errorf("stage: %s: arena has no player", spec.Name)
	}
	if opts.TPS <= 0 {
		opts.TPS = DefaultTPS
	}
	if opts.Audio == nil {
		opts.Audio = actor.NopAudio{}
	}

	w := &World{
		SpecFile:  opts.SpecFile,
		Spec:      spec,
		Arena:     physics.NewArena(spec),
		Clock:     actor.NewFixedClock(opts.TPS),
		scheduler: NewScheduler(),
		logger:    opts.Logger,
	}
	factory := &Factory{Arena: w.Arena, Clock: w.Clock, Audio: opts.Audio, Logger: opts.Logger}

	var err error
	if w.Player, err = loadActor(factory, spec.Player); err != nil {
		return nil, err
	}
	w.devices = NewDevices(w.Player.Handler)

	if spec.Boss != "" {
		if w.Boss, err = loadActor(factory, spec.Boss); err != nil {
			return nil, err
		}
		if err := w.Boss.Sense(w.Boss.Parts.Caster, 1); err != nil {
			return nil, err
		}
		player := w.Player
		w.Brain = character.NewBossBrain(character.BossBrainConfig{
			Sight:    w.Boss.SensorOfType("sight"),
			Wall:     w.Boss.SensorOfType("wall"),
			KeepAway: DefaultKeepAway,
			IsTarget: func(target any) bool { return target == player },
		}, w.Boss.Handler, opts.Logger)
		if err := w.Brain.Attach(w.Boss.Sensors); err != nil {
			return nil, err
		}
	}

	w.scheduler.Add("clock", StepFunc(func() error {
		w.Clock.Advance()
		return nil
	}))
	w.scheduler.Add("input", StepFunc(w.tickHandlers))
	w.scheduler.Add("devices", StepFunc(w.applyControls))
	w.scheduler.Add("sensors", StepFunc(w.tickSensors))
	w.scheduler.Add("characters", StepFunc(w.updateActors))
	w.scheduler.Add("physics", StepFunc(func() error {
		w.Arena.Step(w.Clock.Delta())
		return nil
	}))
	w.scheduler.Add("reload", StepFunc(func() error {
		if w.reloader == nil {
			return nil
		}
		return w.reloader.Update()
	}))
	return w, nil
}

func loadActor(f *Factory, file string) (*Actor, error) {
	spec, err := prefabs.LoadActorSpec(file)
	if err != nil {
		return nil, err
	}
	a, err := NewActor(f, file, spec)
	if err != nil {
		return nil, fmt.Errorf("stage: %s: %w", file, err)
	}
	return a, nil
}

// Watch starts applying prefab changes at the end of every tick.
func (w *World) Watch(changes <-chan prefabs.Change) {
	w.reloader = NewReloader(w, changes, w.logger)
}

// Update advances the world one tick with the given device state.
func (w *World) Update(c Controls) error {
	w.controls = c
	return w.scheduler.Update()
}

func (w *World) Steps() []string { return w.scheduler.Steps() }

func (w *World) Actors() []*Actor {
	if w.Boss == nil {
		return []*Actor{w.Player}
	}
	return []*Actor{w.Player, w.Boss}
}

func (w *World) tickHandlers() error {
	for _, a := range w.Actors() {
		if err := a.Handler.Tick(); err != nil {
			return err
		}
	}
	return nil
}

func (w *World) applyControls() error {
	c := w.controls
	if c.Slot > 0 {
		if err := w.Player.Equip(c.Slot); err != nil && w.logger != nil {
			w.logger.Warn("equip failed", "slot", c.Slot, "err", err)
		}
	}
	if c.ToggleHover {
		if err := w.Player.ToggleHover(); err != nil {
			return err
		}
	}
	return w.devices.Report(c)
}

func (w *World) tickSensors() error {
	if w.Boss == nil || w.Boss.Sensors == nil {
		return nil
	}
	return w.Boss.Sensors.Tick()
}

func (w *World) updateActors() error {
	for _, a := range w.Actors() {
		if err := a.Update(); err != nil {
			return err
		}
	}
	return nil
}
