package domain

import (
	"reflect"
	"slices"
)

// ValueDiff lists the top-level keys that differ between two context values.
type ValueDiff struct {
	Added   []string
	Changed []string
	Removed []string
}

// Diff compares old and new key by key. Nested values are compared deeply.
// Every list is sorted.
func Diff(old, new Value) ValueDiff {
	var d ValueDiff
	for k, newVal := range new {
		oldVal, exists := old[k]
		switch {
		case !exists:
			d.Added = append(d.Added, k)
		case !reflect.DeepEqual(oldVal, newVal):
			d.Changed = append(d.Changed, k)
		}
	}
	for k := range old {
		if _, exists := new[k]; !exists {
			d.Removed = append(d.Removed, k)
		}
	}
	slices.Sort(d.Added)
	slices.Sort(d.Changed)
	slices.Sort(d.Removed)
	return d
}

// IsEmpty reports whether the two values had the same keys and contents.
func (d ValueDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Changed) == 0 && len(d.Removed) == 0
}
