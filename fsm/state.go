package fsm

import "fmt"

// Hook is a lifecycle callback bound to a state's Enter, Exit or Update.
// Hooks are the only place gameplay side effects are allowed to happen.
type Hook func() error

// Do adapts a callback that cannot fail into a Hook.
func Do(fn func()) Hook {
	return func() error {
		if fn != nil {
			fn()
		}
		return nil
	}
}

// State is a node in a controller's graph. Identity is the pointer; the name
// is only used for logging and debug display.
//
// Each lifecycle phase holds an ordered hook list. Hooks run in registration
// order and the first hook that returns an error stops the remaining hooks
// for that call (fail-fast). The error is returned to the caller unchanged
// apart from wrapping.
type State struct {
	name     string
	onEnter  []Hook
	onExit   []Hook
	onUpdate []Hook
}

const anonymousStateName = "Concrete State"

func NewState(name string) *State {
	if name == "" {
		name = anonymousStateName
	}
	return &State{name: name}
}

func (s *State) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

func (s *State) String() string { return s.Name() }

// OnEnter appends hooks run after the state becomes current.
func (s *State) OnEnter(hooks ...Hook) *State {
	s.onEnter = appendHooks(s.onEnter, hooks)
	return s
}

// OnExit appends hooks run before the state stops being current.
func (s *State) OnExit(hooks ...Hook) *State {
	s.onExit = appendHooks(s.onExit, hooks)
	return s
}

// OnUpdate appends hooks run once per Machine.Update while the state is current.
func (s *State) OnUpdate(hooks ...Hook) *State {
	s.onUpdate = appendHooks(s.onUpdate, hooks)
	return s
}

func (s *State) Enter() error  { return s.run("enter", s.onEnter) }
func (s *State) Exit() error   { return s.run("exit", s.onExit) }
func (s *State) Update() error { return s.run("update", s.onUpdate) }

func (s *State) run(phase string, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(); err != nil {
			return fmt.Errorf("fsm: %s %s hook %d: %w", s.name, phase, i, err)
		}
	}
	return nil
}

func appendHooks(dst, hooks []Hook) []Hook {
	for _, h := range hooks {
		if h != nil {
			dst = append(dst, h)
		}
	}
	return dst
}
