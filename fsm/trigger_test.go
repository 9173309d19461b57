package fsm

import (
	"reflect"
	"testing"
)

func TestAnyTransitionTrigger(t *testing.T) {
	cases := []struct {
		name    string
		start   string
		guard   bool
		want    string
		entered bool
	}{
		{"from_idle", "idle", true, "neutral", true},
		{"from_attack", "attack", true, "neutral", true},
		{"already_there", "neutral", true, "neutral", false},
		{"guard_false", "idle", false, "idle", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := &recorder{}
			states := map[string]*State{
				"idle":    traced(r, "idle"),
				"attack":  traced(r, "attack"),
				"neutral": traced(r, "neutral"),
			}
			m := New[string](WithInitial(states[c.start]))
			var released Trigger
			guard := c.guard
			m.AddAnyTransitionTrigger(&released, NewTransition(states["attack"], states["neutral"], "neutral", When(func() bool { return guard })))

			if err := released.Fire(); err != nil {
				t.Fatalf("Fire: %v", err)
			}
			if got := m.CurrentStateName(); got != c.want {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
			entered := len(r.events) > 0 && r.events[len(r.events)-1] == "enter:neutral"
			if entered != c.entered {
				t.Fatalf("entered=%v, want %v (%v)", entered, c.entered, r.events)
			}
		})
	}
}

func TestExactTransitionTrigger(t *testing.T) {
	r := &recorder{}
	idle := traced(r, "idle")
	attack := traced(r, "attack")
	neutral := traced(r, "neutral")
	m := New[string](WithInitial(idle))

	var thrown Trigger
	m.AddExactTransitionTrigger(&thrown, NewTransition(attack, neutral, "neutral"))

	notified := 0
	m.OnTransitionedAutonomously(func() error { notified++; return nil })

	if err := thrown.Fire(); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if !m.Is(idle) {
		t.Fatalf("exact trigger must not fire from idle")
	}

	m.AddIntentTransition(NewTransition(idle, attack, "attack"))
	_ = m.SetState("attack")
	r.events = nil

	if err := thrown.Fire(); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if !m.Is(neutral) {
		t.Fatalf("expected neutral, got %s", m.CurrentStateName())
	}
	if want := []string{"exit:attack", "enter:neutral"}; !reflect.DeepEqual(r.events, want) {
		t.Fatalf("expected %v, got %v", want, r.events)
	}
	if notified != 0 {
		t.Fatalf("trigger commits must not notify")
	}
}

func TestTriggerSubscribersRunInOrder(t *testing.T) {
	var tr Trigger
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		tr.Subscribe(func() error { order = append(order, i); return nil })
	}
	if err := tr.Fire(); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if !reflect.DeepEqual(order, []int{0, 1, 2}) {
		t.Fatalf("unexpected order %v", order)
	}

	var nilTrigger *Trigger
	if err := nilTrigger.Fire(); err != nil {
		t.Fatalf("nil trigger should be a no-op")
	}
}
