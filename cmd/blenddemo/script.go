package main

import (
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// controllerDispatch is appended to the user script. The script defines
// update(t) returning a map of parameter values; the result lands in __out
// where the game reads it back.
const controllerDispatch = `
__out = update(__time)
`

// controller runs a tengo script that drives the machine's parameters.
type controller struct {
	path     string
	compiled *tengo.Compiled
}

func newController(path string) (*controller, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("controller: load %s: %w", path, err)
	}

	script := tengo.NewScript(append(src, []byte("\n"+controllerDispatch)...))
	_ = script.Add("__time", 0.0)
	_ = script.Add("__out", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("controller: compile %s: %w", path, err)
	}
	return &controller{path: path, compiled: compiled}, nil
}

// update runs the script for the given elapsed time and returns the
// parameter values it produced.
func (c *controller) update(elapsed float64) (map[string]any, error) {
	if err := c.compiled.Set("__time", elapsed); err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}
	if err := c.compiled.Run(); err != nil {
		return nil, fmt.Errorf("controller: run %s: %w", c.path, err)
	}
	out, ok := c.compiled.Get("__out").Value().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("controller: %s: update did not return a map", c.path)
	}
	return out, nil
}
