package stage

import (
	"fmt"
	"slices"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/actor"
	"github.com/milk9111/actorfsm/character"
	"github.com/milk9111/actorfsm/input"
	"github.com/milk9111/actorfsm/prefabs"
	"github.com/milk9111/actorfsm/sensor"
)

// Actor is one character in the arena together with its body, its signal
// source and the kinds of controller currently active in each system.
type Actor struct {
	File      string
	Spec      prefabs.ActorSpec
	Parts     *Parts
	Handler   *input.Handler
	Character *character.Character
	Sensors   *sensor.System

	factory      *Factory
	movement     *actor.System
	combat       *actor.System
	movementKind string
	combatKind   string
}

// NewActor loads nothing itself: spec is already decoded from file, which is
// kept so hot reload can match changes back to this actor.
func NewActor(f *Factory, file string, spec prefabs.ActorSpec) (*Actor, error) {
	a := &Actor{File: file, Spec: spec, factory: f}

	parts, err := f.Parts(spec, a)
	if err != nil {
		return nil, err
	}
	a.Parts = parts

	a.movement = actor.NewSystem(spec.Name+" movement", 1, f.Logger)
	a.combat = actor.NewSystem(spec.Name+" combat", 1, f.Logger)
	a.Character, err = character.New(spec.Name, a.movement, a.combat, 1, f.Logger)
	if err != nil {
		return nil, err
	}

	a.Handler = input.NewHandler(1, nil, f.Logger)
	if err := a.Character.Attach(a.Handler); err != nil {
		return nil, err
	}

	if spec.Movement != "" {
		if err := a.Use(spec.Movement); err != nil {
			return nil, err
		}
	}
	if spec.Combat != "" {
		if err := a.Use(spec.Combat); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Actor) Name() string { return a.Spec.Name }

// Use swaps the controller of the system kind belongs to.
func (a *Actor) Use(kind string) error {
	m, err := a.factory.Controller(a.Spec, kind, a.Parts)
	if err != nil {
		return err
	}
	switch SystemOf(kind) {
	case input.SystemMovement:
		if err := a.movement.SetActive(m); err != nil {
			return err
		}
		a.movementKind = kind
	case input.SystemCombat:
		if err := a.combat.SetActive(m); err != nil {
			return err
		}
		a.combatKind = kind
	default:
		return fmt.Errorf("stage: %s: %q belongs to no system", a.Name(), kind)
	}
	if a.factory.Logger != nil {
		a.factory.Logger.Info("controller swapped", "actor", a.Name(), "kind", kind)
	}
	return nil
}

// Equip switches to the weapon in the given 1-based loadout slot.
func (a *Actor) Equip(slot int) error {
	if slot < 1 || slot > len(a.Spec.Loadout) {
		return fmt.Errorf("stage: %s: no loadout slot %d", a.Name(), slot)
	}
	kind := a.Spec.Loadout[slot-1]
	if kind == a.combatKind {
		return nil
	}
	return a.Use(kind)
}

// ToggleHover flips between the actor's prefab mover and its point mover.
func (a *Actor) ToggleHover() error {
	if _, ok := a.Spec.Controllers[KindPointMover]; !ok {
		return nil
	}
	if a.movementKind == KindPointMover {
		return a.Use(a.Spec.Movement)
	}
	return a.Use(KindPointMover)
}

func (a *Actor) MovementKind() string { return a.movementKind }

func (a *Actor) CombatKind() string { return a.combatKind }

func (a *Actor) Movement() actor.Machine { return a.movement.Active() }

func (a *Actor) Combat() actor.Machine { return a.combat.Active() }

// Reload adopts a new spec and rebuilds the active controllers from it. A
// kind the new prefab no longer configures falls back to the prefab's default.
// The body keeps its place in the arena.
func (a *Actor) Reload(spec prefabs.ActorSpec) error {
	a.Spec = spec
	movementKind := a.keep(a.movementKind, spec.Movement)
	combatKind := a.keep(a.combatKind, spec.Combat)
	if movementKind != "" {
		if err := a.Use(movementKind); err != nil {
			return err
		}
	}
	if combatKind != "" {
		if err := a.Use(combatKind); err != nil {
			return err
		}
	}
	return nil
}

func (a *Actor) keep(current, fallback string) string {
	if _, ok := a.Spec.Controllers[current]; ok && current != "" {
		return current
	}
	return fallback
}

// Rebuild re-creates the active movement controller, picking up edits to
// its graph or prelude script.
func (a *Actor) Rebuild() error {
	if a.movementKind == "" {
		return nil
	}
	return a.Use(a.movementKind)
}

// Sense adds the prefab's sensors, cast through probe from the body centre in
// the direction the body faces.
func (a *Actor) Sense(probe sensor.Probe, subscribers int) error {
	a.Sensors = sensor.NewSystem(probe, subscribers, a.factory.Logger)
	for _, s := range a.Spec.Sensors {
		dir := cp.Vector{X: s.DirectionX, Y: s.DirectionY}
		behavior := input.Stateful
		if s.Eventful {
			behavior = input.Eventful
		}
		err := a.Sensors.Add(sensor.Definition{
			Name:      s.Name,
			Type:      s.Type,
			Origin:    a.Parts.Body.Position,
			Direction: func() cp.Vector { return a.Parts.Body.Forward(dir) },
			Range:     s.Range,
			Radius:    s.Radius,
			Behavior:  behavior,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// SensorOfType returns the first sensor of the given type.
func (a *Actor) SensorOfType(typ string) string {
	i := slices.IndexFunc(a.Spec.Sensors, func(s prefabs.SensorSpec) bool { return s.Type == typ })
	if i < 0 {
		return ""
	}
	return a.Spec.Sensors[i].Name
}

func (a *Actor) Update() error {
	return a.Character.Update()
}
