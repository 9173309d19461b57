package common

import "testing"

func TestMoveTowards(t *testing.T) {
	cases := []struct {
		name                   string
		current, target, delta float64
		want                   float64
	}{
		{"reach", 0, 0.5, 1, 0.5},
		{"step_up", 0, 10, 2, 2},
		{"step_down", 5, -5, 3, 2},
		{"already_there", 4, 4, 1, 4},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := MoveTowards(c.current, c.target, c.delta); got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(2, 4, 0.5); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
}
