package stage

import (
	"errors"
	"slices"
	"testing"
)

func TestSchedulerRunsInOrder(t *testing.T) {
	var ran []string
	step := func(name string, err error) Step {
		return StepFunc(func() error {
			ran = append(ran, name)
			return err
		})
	}
	boom := errors.New("boom")

	s := NewScheduler()
	s.Add("a", step("a", nil))
	s.Add("nil", nil)
	s.Add("b", step("b", boom))
	s.Add("c", step("c", nil))

	if got := s.Steps(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("Steps() = %v", got)
	}
	err := s.Update()
	if !errors.Is(err, boom) {
		t.Fatalf("expected the step error, got %v", err)
	}
	if err.Error() != "stage: b: boom" {
		t.Fatalf("expected the failing step named, got %q", err)
	}
	if !slices.Equal(ran, []string{"a", "b"}) {
		t.Fatalf("expected to stop at the failure, ran %v", ran)
	}
}
