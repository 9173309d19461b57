package fsm

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Channel identifies which transition list a commit came from.
type Channel string

const (
	ChannelIntent    Channel = "intent"
	ChannelAutonomic Channel = "autonomic"
	ChannelTrigger   Channel = "trigger"
)

// Listener is notified after an autonomic commit completes.
type Listener func() error

// Machine is a dual-channel state machine. Intent transitions are resolved on
// demand by label through SetState; autonomic transitions are polled once per
// Update. Registration order within each channel is the tie-break priority.
//
// Machine is single-threaded and not re-entrant: hooks, guards, actions and
// listeners must not call SetState or Update on the machine that invoked
// them. This is a caller contract and is not checked at runtime.
type Machine[L comparable] struct {
	name      string
	current   *State
	intent    []*Transition[L]
	autonomic []*Transition[L]
	listeners []Listener
	logger    *log.Logger
}

type machineOptions struct {
	name    string
	initial *State
	logger  *log.Logger
}

// Option configures a Machine.
type Option func(*machineOptions)

// WithInitial sets the state the machine starts in. Its Enter hooks are not
// run; controllers usually request their first real state with SetState.
func WithInitial(s *State) Option {
	return func(o *machineOptions) { o.initial = s }
}

// WithLogger enables debug tracing of commits.
func WithLogger(l *log.Logger) Option {
	return func(o *machineOptions) { o.logger = l }
}

// WithName labels the machine in log output.
func WithName(name string) Option {
	return func(o *machineOptions) { o.name = name }
}

func New[L comparable](opts ...Option) *Machine[L] {
	var o machineOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.initial == nil {
		o.initial = NewState("")
	}
	m := &Machine[L]{
		name:    o.name,
		current: o.initial,
	}
	if o.logger != nil {
		m.logger = o.logger.With("fsm", o.name)
	}
	return m
}

func (m *Machine[L]) Current() *State { return m.current }

func (m *Machine[L]) CurrentStateName() string { return m.current.Name() }

// Is reports whether s is the current state.
func (m *Machine[L]) Is(s *State) bool { return m.current == s }

func (m *Machine[L]) AddIntentTransition(t *Transition[L]) {
	if t == nil {
		return
	}
	m.intent = append(m.intent, t)
}

func (m *Machine[L]) AddAutonomicTransition(t *Transition[L]) {
	if t == nil {
		return
	}
	m.autonomic = append(m.autonomic, t)
}

// OnTransitionedAutonomously registers a listener fired after every autonomic
// commit, once the destination's Enter hooks have completed. Intent and
// trigger commits never notify.
func (m *Machine[L]) OnTransitionedAutonomously(fn Listener) {
	if fn == nil {
		return
	}
	m.listeners = append(m.listeners, fn)
}

// SetState performs one intent resolution for label. A label that matches
// nothing is a no-op: the state is unchanged and no hooks run.
func (m *Machine[L]) SetState(label L) error {
	t := m.findIntent(label)
	if t == nil {
		return nil
	}
	return m.commit(t, ChannelIntent)
}

// Update runs the current state's Update hooks, then performs one autonomic
// resolution. At most one transition commits per call.
func (m *Machine[L]) Update() error {
	if err := m.current.Update(); err != nil {
		return err
	}
	t := m.findAutonomic()
	if t == nil {
		return nil
	}
	if err := m.commit(t, ChannelAutonomic); err != nil {
		return err
	}
	for _, fn := range m.listeners {
		if err := fn(); err != nil {
			return fmt.Errorf("fsm: %s autonomous listener: %w", m.name, err)
		}
	}
	return nil
}

// findIntent scans exact-source matches first, then wildcard matches, both in
// registration order.
func (m *Machine[L]) findIntent(label L) *Transition[L] {
	for _, t := range m.intent {
		if t.label != label {
			continue
		}
		if !t.IsWildcard() && t.from == m.current && t.Allowed() {
			return t
		}
	}
	for _, t := range m.intent {
		if t.label != label {
			continue
		}
		if t.IsWildcard() && t.to != m.current && t.Allowed() {
			return t
		}
	}
	return nil
}

// findAutonomic commits the first exact-source match immediately. The first
// wildcard candidate is only used once the whole list has been scanned
// without an exact-source match, so a wildcard registered before an exact
// transition still loses to it.
func (m *Machine[L]) findAutonomic() *Transition[L] {
	var fallback *Transition[L]
	for _, t := range m.autonomic {
		if t.to == m.current {
			continue
		}
		if !t.Allowed() {
			continue
		}
		if !t.IsWildcard() && t.from == m.current {
			return t
		}
		if t.IsWildcard() && fallback == nil {
			fallback = t
		}
	}
	return fallback
}

// commit runs Exit(old), the transition action, the state flip and
// Enter(new), in that order. The first error aborts the remaining steps.
func (m *Machine[L]) commit(t *Transition[L], ch Channel) error {
	old := m.current
	if err := old.Exit(); err != nil {
		return err
	}
	if err := t.run(); err != nil {
		return fmt.Errorf("fsm: %s action %s->%s: %w", m.name, old.Name(), t.to.Name(), err)
	}
	m.current = t.to
	if m.logger != nil {
		m.logger.Debug("commit", "from", old.Name(), "to", t.to.Name(), "label", t.label, "channel", ch)
	}
	return m.current.Enter()
}
