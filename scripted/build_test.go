package scripted

import (
	"errors"
	"strings"
	"testing"

	"github.com/milk9111/actorfsm/actor"
	"github.com/milk9111/actorfsm/prefabs"
)

func counterGraph() prefabs.GraphSpec {
	return prefabs.GraphSpec{
		Name:    "counter",
		Initial: "Count",
		Vars:    map[string]any{"count": 0, "limit": 2},
		States: []prefabs.GraphStateSpec{
			{
				Name:   "Count",
				Update: []map[string]any{{"add": map[string]any{"name": "count", "value": 1}}},
			},
			{
				Name:  "Done",
				Enter: []map[string]any{{"set": map[string]any{"name": "count", "value": 0}}},
			},
		},
		Transitions: []prefabs.GraphEdgeSpec{
			{Channel: "autonomic", From: "Count", To: "Done", When: "count >= limit"},
			{To: "Count", Label: "reset"},
		},
	}
}

func TestBuildRunsGraph(t *testing.T) {
	env := &Env{}
	m, err := Build(counterGraph(), env, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if m.CurrentStateName() != "Count" {
		t.Fatalf("expected Count, got %s", m.CurrentStateName())
	}

	notified := 0
	m.OnTransitionedAutonomously(func() error {
		notified++
		return nil
	})

	if err := m.Update(); err != nil {
		t.Fatalf("update: %v", err)
	}
	if m.CurrentStateName() != "Count" || env.Float("count") != 1 {
		t.Fatalf("expected Count with count 1, got %s %v", m.CurrentStateName(), env.Vars["count"])
	}

	if err := m.Update(); err != nil {
		t.Fatalf("update: %v", err)
	}
	if m.CurrentStateName() != "Done" {
		t.Fatalf("expected Done once count reached limit, got %s", m.CurrentStateName())
	}
	if env.Float("count") != 0 || notified != 1 {
		t.Fatalf("expected Done enter to reset count and one notification, got %v %d", env.Vars["count"], notified)
	}

	if err := m.SetState("reset"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if m.CurrentStateName() != "Count" || notified != 1 {
		t.Fatalf("expected intent reset to Count without notification, got %s %d", m.CurrentStateName(), notified)
	}
}

func TestBuildKeepsHostVars(t *testing.T) {
	env := &Env{Vars: map[string]any{"limit": 1.0}}
	m, err := Build(counterGraph(), env, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := m.Update(); err != nil {
		t.Fatalf("update: %v", err)
	}
	if m.CurrentStateName() != "Done" {
		t.Fatalf("host limit should win over the graph default, got %s", m.CurrentStateName())
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*prefabs.GraphSpec)
		want   string
	}{
		{
			name:   "unknown initial",
			mutate: func(s *prefabs.GraphSpec) { s.Initial = "Nope" },
			want:   "unknown initial state",
		},
		{
			name:   "unknown destination",
			mutate: func(s *prefabs.GraphSpec) { s.Transitions[0].To = "Nope" },
			want:   "unknown destination",
		},
		{
			name:   "bad channel",
			mutate: func(s *prefabs.GraphSpec) { s.Transitions[0].Channel = "sometimes" },
			want:   "unknown channel",
		},
		{
			name:   "guard does not compile",
			mutate: func(s *prefabs.GraphSpec) { s.Transitions[0].When = "count >=" },
			want:   "compile guard",
		},
		{
			name: "duplicate state",
			mutate: func(s *prefabs.GraphSpec) {
				s.States = append(s.States, prefabs.GraphStateSpec{Name: "Done"})
			},
			want: "duplicate state",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := counterGraph()
			tt.mutate(&spec)
			_, err := Build(spec, &Env{}, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestBuildUnknownAction(t *testing.T) {
	spec := counterGraph()
	spec.States[0].Enter = []map[string]any{{"teleport": nil}}
	_, err := Build(spec, &Env{}, nil)
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestGuardPrelude(t *testing.T) {
	vars := map[string]any{"count": 1.0}
	g, err := CompileGuard("twice := func(x) { return x * 2 }", "twice(count) > 3 && math.abs(-1.5) == 1.5", vars)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if g.Eval(vars) {
		t.Fatalf("expected false for count 1")
	}
	vars["count"] = 2
	if !g.Eval(vars) {
		t.Fatalf("guard must see the updated value")
	}
}

func TestGuardRuntimeErrorPanics(t *testing.T) {
	vars := map[string]any{"count": 1.0, "name": "boss"}
	g, err := CompileGuard("", "count < name", vars)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic from a failing guard")
		}
	}()
	g.Eval(vars)
}

func TestAddScaledUsesClock(t *testing.T) {
	clock := actor.NewFixedClock(10)
	env := &Env{Vars: map[string]any{"x": 0.0, "speed": 5.0}, Clock: clock}
	act, err := NewRegistry().Make("add_scaled", map[string]any{"name": "x", "value": 2, "scale": "speed"})
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	if err := act(env); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := env.Float("x"); got != 2*5*0.1 {
		t.Fatalf("expected %v, got %v", 2*5*0.1, got)
	}
}

func TestHoverPrefab(t *testing.T) {
	spec, err := prefabs.LoadSpec[prefabs.GraphSpec]("hover.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var applied []float64
	reg := NewRegistry()
	reg.Register("apply_velocity", func(arg any) (Action, error) {
		return func(env *Env) error {
			applied = append(applied, asFloat(env.value(arg)))
			return nil
		}, nil
	})

	env := &Env{Clock: actor.NewFixedClock(10)}
	m, err := Build(spec, env, reg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for i := 0; i < 20 && m.CurrentStateName() == "Hold"; i++ {
		if err := m.Update(); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	if m.CurrentStateName() != "Rise" {
		t.Fatalf("expected the hover to rise after resting, got %s", m.CurrentStateName())
	}

	if err := m.Update(); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(applied) == 0 || applied[len(applied)-1] != 1 {
		t.Fatalf("expected an upward velocity request, got %v", applied)
	}
}
