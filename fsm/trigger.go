package fsm

// Trigger is a one-shot event owned outside the machine, such as "spear
// thrown". Transitions bound to a trigger bypass the per-tick and label flows
// and are resolved when the owner calls Fire.
type Trigger struct {
	handlers []func() error
}

func (tr *Trigger) Subscribe(fn func() error) {
	if fn == nil {
		return
	}
	tr.handlers = append(tr.handlers, fn)
}

// Fire runs the subscribed handlers in order and stops at the first error.
func (tr *Trigger) Fire() error {
	if tr == nil {
		return nil
	}
	for _, fn := range tr.handlers {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

// AddAnyTransitionTrigger binds t to tr with any-source semantics: when tr
// fires, t commits if its guard holds and its destination is not current.
// The declared source of t is ignored.
func (m *Machine[L]) AddAnyTransitionTrigger(tr *Trigger, t *Transition[L]) {
	if tr == nil || t == nil {
		return
	}
	tr.Subscribe(func() error {
		if !t.Allowed() {
			return nil
		}
		if m.current == t.to {
			return nil
		}
		return m.commit(t, ChannelTrigger)
	})
}

// AddExactTransitionTrigger binds t to tr with exact-source semantics: when tr
// fires, t commits only if the current state is t's source.
func (m *Machine[L]) AddExactTransitionTrigger(tr *Trigger, t *Transition[L]) {
	if tr == nil || t == nil {
		return
	}
	tr.Subscribe(func() error {
		if !t.Allowed() {
			return nil
		}
		if m.current != t.from || m.current == t.to {
			return nil
		}
		return m.commit(t, ChannelTrigger)
	})
}
