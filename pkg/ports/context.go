package ports

import "github.com/aretw0/inkwell/pkg/domain"

// ContextSource provides the data context templates are rendered against.
// Implementations must be safe for concurrent use: Current may be called while
// a background reload swaps the underlying value.
type ContextSource interface {
	// Current returns a snapshot of the context. Callers may modify the returned
	// top-level map; nested values must be treated as read-only.
	Current() domain.Value
}

// Renderer renders a named template against a context.
type Renderer interface {
	Render(name string, ctx domain.Value) (string, error)
}
