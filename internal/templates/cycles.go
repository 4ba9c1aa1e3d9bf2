package templates

import (
	"errors"
	"slices"
)

// ErrCircularReference reports templates that extend, include or import
// themselves through a chain of references.
var ErrCircularReference = errors.New("circular template reference")

// findCycle walks the extends/include/import references of sources starting
// from roots and returns the first cycle as a path ending where it started.
// References to unknown templates are ignored here; compiling reports them.
func findCycle(sources map[string]string, roots []string) []string {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(sources))
	var stack []string

	var visit func(name string) []string
	visit = func(name string) []string {
		state[name] = active
		stack = append(stack, name)
		for _, ref := range references(sources[name]) {
			if _, ok := sources[ref]; !ok {
				continue
			}
			switch state[ref] {
			case active:
				i := slices.Index(stack, ref)
				return append(slices.Clone(stack[i:]), ref)
			case unvisited:
				if cycle := visit(ref); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}

	for _, root := range roots {
		if state[root] != unvisited {
			continue
		}
		if cycle := visit(root); cycle != nil {
			return cycle
		}
	}
	return nil
}
