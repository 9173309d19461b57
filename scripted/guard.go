package scripted

import (
	"fmt"
	"sort"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

const resultVar = "__result"

// Guard is a boolean tengo expression compiled once against a fixed set of
// variable names. Each evaluation copies the current values in first, so
// guards always see fresh state.
type Guard struct {
	expr     string
	names    []string
	compiled *tengo.Compiled
}

// CompileGuard compiles expr after prelude. vars supplies the names and
// initial types the expression may reference.
func CompileGuard(prelude, expr string, vars map[string]any) (*Guard, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("scripted: empty guard expression")
	}

	var src strings.Builder
	src.WriteString("math := import(\"math\")\n")
	if prelude != "" {
		src.WriteString(prelude)
		src.WriteString("\n")
	}
	fmt.Fprintf(&src, "%s := (%s)\n", resultVar, expr)

	script := tengo.NewScript([]byte(src.String()))
	script.SetImports(stdlib.GetModuleMap("math"))

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := script.Add(name, normalize(vars[name])); err != nil {
			return nil, fmt.Errorf("scripted: guard var %s: %w", name, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scripted: compile guard %q: %w", expr, err)
	}
	return &Guard{expr: expr, names: names, compiled: compiled}, nil
}

// Eval runs the guard against vars. Script runtime errors are programming
// errors in the graph and panic.
func (g *Guard) Eval(vars map[string]any) bool {
	for _, name := range g.names {
		if err := g.compiled.Set(name, normalize(vars[name])); err != nil {
			panic(fmt.Errorf("scripted: guard %q: set %s: %w", g.expr, name, err))
		}
	}
	if err := g.compiled.Run(); err != nil {
		panic(fmt.Errorf("scripted: guard %q: %w", g.expr, err))
	}
	return g.compiled.Get(resultVar).Bool()
}

func (g *Guard) String() string { return g.expr }
