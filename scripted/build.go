package scripted

import (
	"fmt"
	"strings"

	"github.com/milk9111/actorfsm/fsm"
	"github.com/milk9111/actorfsm/prefabs"
)

const (
	channelIntent    = "intent"
	channelAutonomic = "autonomic"
)

// Build compiles spec into a machine labelled by strings. Spec vars are
// merged into env.Vars without overwriting values the host already set.
// The machine starts in spec.Initial without running its Enter hooks.
func Build(spec prefabs.GraphSpec, env *Env, registry *Registry) (*fsm.Machine[string], error) {
	if env == nil {
		return nil, fmt.Errorf("scripted: %s: nil env", spec.Name)
	}
	if registry == nil {
		registry = NewRegistry()
	}
	if env.Vars == nil {
		env.Vars = map[string]any{}
	}
	for k, v := range NormalizeVars(spec.Vars) {
		if _, ok := env.Vars[k]; !ok {
			env.Vars[k] = v
		}
	}

	prelude, err := loadPrelude(spec.Prelude)
	if err != nil {
		return nil, fmt.Errorf("scripted: %s: %w", spec.Name, err)
	}

	states := make(map[string]*fsm.State, len(spec.States))
	for _, ss := range spec.States {
		if ss.Name == "" {
			return nil, fmt.Errorf("scripted: %s: state without a name", spec.Name)
		}
		if _, dup := states[ss.Name]; dup {
			return nil, fmt.Errorf("scripted: %s: duplicate state %q", spec.Name, ss.Name)
		}
		st := fsm.NewState(ss.Name)
		phases := []struct {
			name string
			list []map[string]any
			add  func(...fsm.Hook) *fsm.State
		}{
			{"enter", ss.Enter, st.OnEnter},
			{"update", ss.Update, st.OnUpdate},
			{"exit", ss.Exit, st.OnExit},
		}
		for _, p := range phases {
			hook, err := compileHook(registry, env, p.list)
			if err != nil {
				return nil, fmt.Errorf("scripted: %s: state %s %s: %w", spec.Name, ss.Name, p.name, err)
			}
			if hook != nil {
				p.add(hook)
			}
		}
		states[ss.Name] = st
	}

	initial, ok := states[spec.Initial]
	if !ok {
		return nil, fmt.Errorf("scripted: %s: unknown initial state %q", spec.Name, spec.Initial)
	}

	machine := fsm.New[string](fsm.WithName(spec.Name), fsm.WithInitial(initial), fsm.WithLogger(env.Logger))

	for i, edge := range spec.Transitions {
		t, channel, err := compileEdge(edge, states, prelude, env, registry)
		if err != nil {
			return nil, fmt.Errorf("scripted: %s: transition %d: %w", spec.Name, i, err)
		}
		if channel == channelAutonomic {
			machine.AddAutonomicTransition(t)
		} else {
			machine.AddIntentTransition(t)
		}
	}
	return machine, nil
}

func compileEdge(edge prefabs.GraphEdgeSpec, states map[string]*fsm.State, prelude string, env *Env, registry *Registry) (*fsm.Transition[string], string, error) {
	channel := strings.ToLower(strings.TrimSpace(edge.Channel))
	if channel == "" {
		channel = channelIntent
	}
	if channel != channelIntent && channel != channelAutonomic {
		return nil, "", fmt.Errorf("unknown channel %q", edge.Channel)
	}

	to, ok := states[edge.To]
	if !ok {
		return nil, "", fmt.Errorf("unknown destination %q", edge.To)
	}
	var from *fsm.State
	if edge.From != "" && edge.From != "*" {
		from, ok = states[edge.From]
		if !ok {
			return nil, "", fmt.Errorf("unknown source %q", edge.From)
		}
	}

	label := edge.Label
	if label == "" {
		label = edge.To
	}

	var opts []fsm.TransitionOption
	if strings.TrimSpace(edge.When) != "" {
		guard, err := CompileGuard(prelude, edge.When, env.Vars)
		if err != nil {
			return nil, "", err
		}
		opts = append(opts, fsm.When(func() bool { return guard.Eval(env.Vars) }))
	}
	if len(edge.Do) > 0 {
		actions, err := registry.Compile(edge.Do)
		if err != nil {
			return nil, "", err
		}
		opts = append(opts, fsm.Then(func() error { return run(actions, env) }))
	}
	return fsm.NewTransition(from, to, label, opts...), channel, nil
}

func compileHook(registry *Registry, env *Env, list []map[string]any) (fsm.Hook, error) {
	if len(list) == 0 {
		return nil, nil
	}
	actions, err := registry.Compile(list)
	if err != nil {
		return nil, err
	}
	return func() error { return run(actions, env) }, nil
}

func run(actions []Action, env *Env) error {
	for _, act := range actions {
		if err := act(env); err != nil {
			return err
		}
	}
	return nil
}

// loadPrelude treats a .tengo name as a script prefab and anything else as
// inline source.
func loadPrelude(prelude string) (string, error) {
	if !strings.HasSuffix(prelude, ".tengo") {
		return prelude, nil
	}
	data, err := prefabs.LoadScript(prelude)
	if err != nil {
		return "", fmt.Errorf("load prelude %s: %w", prelude, err)
	}
	return string(data), nil
}
