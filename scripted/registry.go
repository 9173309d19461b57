// Package scripted builds state machines from graph prefabs. Hooks and
// transition actions come from a registry of named actions; guards are tengo
// expressions evaluated against the graph's variables.
package scripted

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/milk9111/actorfsm/actor"
)

var ErrUnknownAction = errors.New("scripted: unknown action")

// Env is the mutable world a graph's actions and guards see. Numeric vars are
// always float64.
type Env struct {
	Vars   map[string]any
	Clock  actor.Clock
	Logger *log.Logger
}

func (e *Env) Float(name string) float64 {
	return asFloat(e.Vars[name])
}

// value resolves an action argument: a string naming a var yields that var,
// anything else is taken literally.
func (e *Env) value(arg any) any {
	if s, ok := arg.(string); ok {
		if v, found := e.Vars[s]; found {
			return v
		}
	}
	return normalize(arg)
}

func (e *Env) delta() float64 {
	if e.Clock == nil {
		return 0
	}
	return e.Clock.Delta()
}

type Action func(env *Env) error

// ActionMaker turns the YAML argument of an action entry into an Action.
type ActionMaker func(arg any) (Action, error)

type Registry struct {
	makers map[string]ActionMaker
}

// NewRegistry returns a registry holding the built-in actions:
//
//	set:        {name, value}         vars[name] = value
//	add:        {name, value}         vars[name] += value
//	add_scaled: {name, value, scale}  vars[name] += value * scale * dt
//	log:        message
func NewRegistry() *Registry {
	r := &Registry{makers: map[string]ActionMaker{}}
	r.Register("set", makeSet)
	r.Register("add", makeAdd(false))
	r.Register("add_scaled", makeAdd(true))
	r.Register("log", makeLog)
	return r
}

// Register adds or replaces the maker for name.
func (r *Registry) Register(name string, mk ActionMaker) {
	r.makers[name] = mk
}

func (r *Registry) Make(name string, arg any) (Action, error) {
	mk, ok := r.makers[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownAction, name)
	}
	act, err := mk(arg)
	if err != nil {
		return nil, fmt.Errorf("scripted: action %s: %w", name, err)
	}
	return act, nil
}

// Compile turns a YAML action list into actions, in list order. Entries with
// several keys are compiled in key order so the result is stable.
func (r *Registry) Compile(list []map[string]any) ([]Action, error) {
	out := make([]Action, 0, len(list))
	for _, entry := range list {
		keys := make([]string, 0, len(entry))
		for k := range entry {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			act, err := r.Make(k, entry[k])
			if err != nil {
				return nil, err
			}
			out = append(out, act)
		}
	}
	return out, nil
}

type varArg struct {
	name  string
	value any
	scale any
}

func parseVarArg(arg any) (varArg, error) {
	m, ok := arg.(map[string]any)
	if !ok {
		return varArg{}, fmt.Errorf("expected a map with name and value, got %T", arg)
	}
	name, _ := m["name"].(string)
	if name == "" {
		return varArg{}, fmt.Errorf("missing var name")
	}
	v := varArg{name: name, value: m["value"], scale: m["scale"]}
	if v.scale == nil {
		v.scale = 1.0
	}
	return v, nil
}

func makeSet(arg any) (Action, error) {
	v, err := parseVarArg(arg)
	if err != nil {
		return nil, err
	}
	return func(env *Env) error {
		env.Vars[v.name] = env.value(v.value)
		return nil
	}, nil
}

func makeAdd(scaled bool) ActionMaker {
	return func(arg any) (Action, error) {
		v, err := parseVarArg(arg)
		if err != nil {
			return nil, err
		}
		return func(env *Env) error {
			step := asFloat(env.value(v.value))
			if scaled {
				step *= asFloat(env.value(v.scale)) * env.delta()
			}
			env.Vars[v.name] = env.Float(v.name) + step
			return nil
		}, nil
	}
}

func makeLog(arg any) (Action, error) {
	msg := fmt.Sprint(arg)
	return func(env *Env) error {
		if env.Logger != nil {
			env.Logger.Info(msg)
		}
		return nil
	}, nil
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float64:
		return t
	case float32:
		return float64(t)
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func normalize(v any) any {
	switch t := v.(type) {
	case int, int64, float32:
		return asFloat(t)
	default:
		return v
	}
}

// NormalizeVars copies vars with every number converted to float64.
func NormalizeVars(vars map[string]any) map[string]any {
	out := make(map[string]any, len(vars))
	for k, v := range vars {
		out[k] = normalize(v)
	}
	return out
}
