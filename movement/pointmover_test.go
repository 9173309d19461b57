package movement

import (
	"testing"

	"github.com/milk9111/actorfsm/actor"
	"github.com/milk9111/actorfsm/input"
	"github.com/milk9111/actorfsm/notify"
	"github.com/milk9111/actorfsm/prefabs"
)

func TestPointMoverHovers(t *testing.T) {
	graph, err := prefabs.LoadSpec[prefabs.GraphSpec]("hover.yaml")
	if err != nil {
		t.Fatalf("load graph: %v", err)
	}

	body := &fakeBody{}
	p := NewPointMover(PointMoverConfig{Graph: graph, MaxSpeed: 100}, Rig{Body: body, Clock: actor.NewFixedClock(10)})

	commits := 0
	stream := notify.NewStream[notify.Unit]("test", 1)
	_ = stream.Subscribe(func(notify.Unit) error {
		commits++
		return nil
	})
	if err := p.Init(stream); err != nil {
		t.Fatalf("init: %v", err)
	}
	if p.State() != "Hold" || body.velocity.Y != 0 {
		t.Fatalf("expected a still Hold, got %s %v", p.State(), body.velocity)
	}

	for i := 0; i < 20 && p.State() == "Hold"; i++ {
		if err := p.Update(); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	if p.State() != "Rise" || commits != 1 {
		t.Fatalf("expected one autonomous commit into Rise, got %s commits=%d", p.State(), commits)
	}

	if err := p.Update(); err != nil {
		t.Fatalf("update: %v", err)
	}
	if body.velocity.Y != 100 {
		t.Fatalf("expected rising at max speed, got %v", body.velocity)
	}
	if p.Var("height") <= 0 {
		t.Fatalf("expected height to grow while rising, got %v", p.Var("height"))
	}

	if err := p.HandleInput(input.Signal{System: input.SystemMovement, Action: input.ActionIdle, Held: true}); err != nil {
		t.Fatalf("idle: %v", err)
	}
	if p.State() != "Hold" || commits != 1 {
		t.Fatalf("expected an intent return to Hold without notification, got %s commits=%d", p.State(), commits)
	}
	if body.velocity.Y != 0 {
		t.Fatalf("expected Hold to stop vertical motion, got %v", body.velocity)
	}
}
