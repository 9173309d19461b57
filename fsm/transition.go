package fsm

// Guard gates a transition. Guards must be free of side effects; they are
// evaluated fresh on every resolution attempt and never cached.
type Guard func() bool

// Action runs between the old state's Exit and the new state's Enter.
type Action func() error

// Transition is an immutable edge of the graph. A nil source is the wildcard:
// the transition is eligible from any current state except its destination.
type Transition[L comparable] struct {
	from   *State
	to     *State
	label  L
	guard  Guard
	action Action
}

type transitionOptions struct {
	guard  Guard
	action Action
}

// TransitionOption configures a Transition at construction.
type TransitionOption func(*transitionOptions)

// When sets the transition guard. Without it the transition is always allowed.
func When(g Guard) TransitionOption {
	return func(o *transitionOptions) { o.guard = g }
}

// Then sets the transition action.
func Then(a Action) TransitionOption {
	return func(o *transitionOptions) { o.action = a }
}

// NewTransition builds a transition from -> to under label. Pass a nil from
// for a wildcard source.
func NewTransition[L comparable](from, to *State, label L, opts ...TransitionOption) *Transition[L] {
	if to == nil {
		panic("fsm: transition destination must not be nil")
	}
	var o transitionOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Transition[L]{
		from:   from,
		to:     to,
		label:  label,
		guard:  o.guard,
		action: o.action,
	}
}

func (t *Transition[L]) From() *State { return t.from }
func (t *Transition[L]) To() *State   { return t.to }
func (t *Transition[L]) Label() L     { return t.label }

// IsWildcard reports whether the transition has no declared source.
func (t *Transition[L]) IsWildcard() bool { return t.from == nil }

// Allowed evaluates the guard.
func (t *Transition[L]) Allowed() bool {
	if t.guard == nil {
		return true
	}
	return t.guard()
}

func (t *Transition[L]) run() error {
	if t.action == nil {
		return nil
	}
	return t.action()
}
