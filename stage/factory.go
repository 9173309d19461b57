// Package stage assembles an arena from prefabs and drives it one tick at a
// time: physics bodies, the controllers that move and arm them, the input and
// sensor sources that feed those controllers, and prefab hot reload.
package stage

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/actor"
	"github.com/milk9111/actorfsm/combat"
	"github.com/milk9111/actorfsm/input"
	"github.com/milk9111/actorfsm/movement"
	"github.com/milk9111/actorfsm/physics"
	"github.com/milk9111/actorfsm/prefabs"
)

// Controller kinds as they appear in actor prefabs.
const (
	KindRbMover      = "rb_mover"
	KindBossMover    = "boss_mover"
	KindPointMover   = "point_mover"
	KindRifle        = "rifle"
	KindAutomaticGun = "automatic_gun"
	KindSpear        = "spear"
)

// SystemOf reports which system a controller kind belongs to.
func SystemOf(kind string) input.SystemType {
	switch kind {
	case KindRbMover, KindBossMover, KindPointMover:
		return input.SystemMovement
	case KindRifle, KindAutomaticGun, KindSpear:
		return input.SystemCombat
	}
	return input.SystemNone
}

// Parts are the physical pieces an actor's controllers drive.
type Parts struct {
	Body       *physics.Body
	Feet       *physics.FeetProbe
	Caster     *physics.Caster
	Muzzle     *physics.Muzzle
	Projectile *physics.Projectile
}

// Factory builds bodies and controllers for one arena.
type Factory struct {
	Arena  *physics.Arena
	Clock  actor.Clock
	Audio  actor.Audio
	Logger *log.Logger
}

// Parts adds spec's body to the arena. owner becomes the body's identity in
// casts.
func (f *Factory) Parts(spec prefabs.ActorSpec, owner any) (*Parts, error) {
	if f.Arena == nil {
		return nil, fmt.Errorf("stage: factory has no arena")
	}
	if spec.Body.Width <= 0 || spec.Body.Height <= 0 {
		return nil, fmt.Errorf("stage: %s: body size must be positive", spec.Name)
	}

	body := physics.NewBody(f.Arena, spec.Body, cp.Vector{X: spec.Spawn.X, Y: spec.Spawn.Y}, owner)
	muzzle := physics.NewMuzzle(body, cp.Vector{X: spec.Body.MuzzleOffsetX, Y: spec.Body.MuzzleOffsetY})

	var length float64
	if _, ok := spec.Controllers[KindSpear]; ok {
		s, err := prefabs.Controller[prefabs.SpearSpec](spec, KindSpear)
		if err != nil {
			return nil, err
		}
		length = s.Length
	}

	return &Parts{
		Body:       body,
		Feet:       physics.NewFeetProbe(f.Arena, body, spec.Body.FeetProbeDepth),
		Caster:     physics.NewCaster(f.Arena, body),
		Muzzle:     muzzle,
		Projectile: physics.NewProjectile(f.Arena, body, muzzle, length),
	}, nil
}

func (f *Factory) logger(spec prefabs.ActorSpec, kind string) *log.Logger {
	if f.Logger == nil {
		return nil
	}
	return f.Logger.With("actor", spec.Name, "controller", kind)
}

// Controller builds a fresh, uninitialized controller of the given kind from
// the config spec carries for it.
func (f *Factory) Controller(spec prefabs.ActorSpec, kind string, parts *Parts) (actor.Machine, error) {
	if parts == nil {
		return nil, fmt.Errorf("stage: %s: %s needs parts", spec.Name, kind)
	}
	moveRig := movement.Rig{Body: parts.Body, Ground: parts.Feet, Clock: f.Clock, Logger: f.logger(spec, kind)}
	combatRig := combat.Rig{
		Bullet:  parts.Caster,
		Muzzle:  parts.Muzzle,
		Thrower: parts.Projectile,
		Clock:   f.Clock,
		Audio:   f.Audio,
		Logger:  f.logger(spec, kind),
	}

	switch kind {
	case KindRbMover:
		s, err := prefabs.Controller[prefabs.RbMoverSpec](spec, kind)
		if err != nil {
			return nil, err
		}
		return movement.NewRbMover(movement.RbMoverConfig{
			MoveSpeed:      s.MoveSpeed,
			AirborneSpeed:  s.AirborneSpeed,
			Acceleration:   s.Acceleration,
			DashSpeed:      s.DashSpeed,
			DashDuration:   s.DashDuration,
			JumpHeight:     s.JumpHeight,
			JumpTimeToPeak: s.JumpTimeToPeak,
			FaceDeadzone:   s.FaceDeadzone,
		}, moveRig), nil

	case KindBossMover:
		s, err := prefabs.Controller[prefabs.BossMoverSpec](spec, kind)
		if err != nil {
			return nil, err
		}
		return movement.NewBossMover(movement.BossMoverConfig{
			MaxSpeed:     s.MaxSpeed,
			Acceleration: s.Acceleration,
			FaceDeadzone: s.FaceDeadzone,
		}, moveRig), nil

	case KindPointMover:
		s, err := prefabs.Controller[prefabs.PointMoverSpec](spec, kind)
		if err != nil {
			return nil, err
		}
		if s.Graph == "" {
			return nil, fmt.Errorf("stage: %s: point mover has no graph", spec.Name)
		}
		graph, err := prefabs.LoadSpec[prefabs.GraphSpec](s.Graph)
		if err != nil {
			return nil, err
		}
		return movement.NewPointMover(movement.PointMoverConfig{Graph: graph, MaxSpeed: s.MaxSpeed}, moveRig), nil

	case KindRifle, KindAutomaticGun:
		s, err := prefabs.Controller[prefabs.GunSpec](spec, kind)
		if err != nil {
			return nil, err
		}
		cfg := combat.GunConfig{
			ChargeCapacity: s.ChargeCapacity,
			ReattackTime:   s.ReattackTime,
			ReloadTime:     s.ReloadTime,
			MinAimDistance: s.MinAimDistance,
			Range:          s.Range,
			TracerTicks:    s.TracerTicks,
			ReloadCue:      s.ReloadCue,
			FireCue:        s.FireCue,
		}
		if kind == KindRifle {
			return combat.NewRifle(cfg, combatRig), nil
		}
		return combat.NewAutomaticGun(cfg, combatRig), nil

	case KindSpear:
		s, err := prefabs.Controller[prefabs.SpearSpec](spec, kind)
		if err != nil {
			return nil, err
		}
		return combat.NewSpear(combat.SpearConfig{
			AimDuration:   s.AimDuration,
			PullDistance:  s.PullDistance,
			PullDuration:  s.PullDuration,
			ThrowForce:    s.ThrowForce,
			ResetDuration: s.ResetDuration,
			ThrowCue:      s.ThrowCue,
		}, combatRig), nil
	}
	return nil, fmt.Errorf("stage: %s: unknown controller kind %q", spec.Name, kind)
}

// GraphFile is the graph prefab the actor's point mover runs, if it has one.
func GraphFile(spec prefabs.ActorSpec) string {
	if _, ok := spec.Controllers[KindPointMover]; !ok {
		return ""
	}
	s, err := prefabs.Controller[prefabs.PointMoverSpec](spec, KindPointMover)
	if err != nil {
		return ""
	}
	return s.Graph
}
