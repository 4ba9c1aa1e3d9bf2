package domain

import "maps"

// Value is the structured data namespace exposed to templates.
// Nested values are maps, slices and scalars as produced by a JSON decoder.
type Value map[string]any

// Clone returns a shallow copy: the top-level map is new, nested values are shared.
// Nested values are never mutated after a load, so sharing them is safe.
func (v Value) Clone() Value {
	if v == nil {
		return Value{}
	}
	return maps.Clone(v)
}

// Merge inserts every top-level key of other into v, overwriting collisions.
func (v Value) Merge(other Value) {
	for k, val := range other {
		v[k] = val
	}
}
