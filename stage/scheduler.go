package stage

import "fmt"

// Step is one phase of a world tick.
type Step interface {
	Update() error
}

// StepFunc adapts a plain function to Step.
type StepFunc func() error

func (f StepFunc) Update() error { return f() }

type namedStep struct {
	name string
	step Step
}

// Scheduler runs its steps in the order they were added and stops at the
// first failure.
type Scheduler struct {
	steps []namedStep
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Add(name string, step Step) {
	if step == nil {
		return
	}
	s.steps = append(s.steps, namedStep{name: name, step: step})
}

func (s *Scheduler) Update() error {
	for _, st := range s.steps {
		if err := st.step.Update(); err != nil {
			return fmt.Errorf("stage: %s: %w", st.name, err)
		}
	}
	return nil
}

// Steps returns the step names in run order.
func (s *Scheduler) Steps() []string {
	names := make([]string, 0, len(s.steps))
	for _, st := range s.steps {
		names = append(names, st.name)
	}
	return names
}
