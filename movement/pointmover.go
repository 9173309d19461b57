package movement

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/fsm"
	"github.com/milk9111/actorfsm/input"
	"github.com/milk9111/actorfsm/notify"
	"github.com/milk9111/actorfsm/prefabs"
	"github.com/milk9111/actorfsm/scripted"
)

type PointMoverConfig struct {
	Graph        prefabs.GraphSpec
	MaxSpeed     float64
	FaceDeadzone float64
}

// PointMover floats freely. Its vertical rhythm comes from a graph prefab;
// the apply_velocity action turns the graph's direction var into velocity,
// and move input steers it horizontally.
type PointMover struct {
	cfg    PointMoverConfig
	rig    Rig
	facing facing

	machine     *fsm.Machine[string]
	env         *scripted.Env
	transitions *notify.Stream[notify.Unit]
	moveInput   cp.Vector
}

func NewPointMover(cfg PointMoverConfig, rig Rig) *PointMover {
	return &PointMover{cfg: cfg, rig: rig, facing: facing{deadzone: cfg.FaceDeadzone}}
}

// Init builds the graph on first use. A later Init keeps the built graph and
// re-enters its current state.
func (p *PointMover) Init(transitions *notify.Stream[notify.Unit]) error {
	if p.rig.Body == nil || p.rig.Clock == nil {
		return fmt.Errorf("movement: point mover needs a body and clock")
	}
	p.transitions = transitions

	if p.machine == nil {
		registry := scripted.NewRegistry()
		registry.Register("apply_velocity", p.makeApplyVelocity)

		env := &scripted.Env{Clock: p.rig.Clock, Logger: p.rig.Logger}
		machine, err := scripted.Build(p.cfg.Graph, env, registry)
		if err != nil {
			return fmt.Errorf("movement: point mover: %w", err)
		}
		p.env = env
		p.machine = machine
		p.machine.OnTransitionedAutonomously(func() error {
			return p.transitions.Publish(notify.Unit{})
		})
	}

	p.rig.Body.LockVertical(false)
	return p.machine.Current().Enter()
}

// makeApplyVelocity builds the graph action that pushes the current vertical
// direction and horizontal input to the body.
func (p *PointMover) makeApplyVelocity(arg any) (scripted.Action, error) {
	name, ok := arg.(string)
	if !ok {
		return nil, fmt.Errorf("apply_velocity wants a var name, got %T", arg)
	}
	return func(env *scripted.Env) error {
		v := cp.Vector{X: p.moveInput.X, Y: env.Float(name)}.Mult(p.cfg.MaxSpeed)
		p.rig.Body.SetVelocity(v)
		return nil
	}, nil
}

func (p *PointMover) HandleInput(sig input.Signal) error {
	if sig.Action == input.ActionMove {
		p.moveInput = cp.Vector{}
		if sig.HasDirection && sig.Held {
			p.moveInput = sig.Direction
			p.rig.Body.Face(p.facing.update(sig.Direction.X))
		}
	}
	return p.machine.SetState(sig.Action.String())
}

func (p *PointMover) Update() error {
	return p.machine.Update()
}

func (p *PointMover) End() error {
	p.rig.Body.SetVelocity(cp.Vector{})
	return nil
}

func (p *PointMover) State() string { return p.machine.CurrentStateName() }

// Var exposes a graph variable for debug display.
func (p *PointMover) Var(name string) float64 { return p.env.Float(name) }
