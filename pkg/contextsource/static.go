package contextsource

import (
	"github.com/aretw0/inkwell/pkg/domain"
	"github.com/aretw0/inkwell/pkg/ports"
)

var _ ports.ContextSource = (*Static)(nil)

// Static is a context source loaded once and immutable for the process.
type Static struct {
	value domain.Value
}

// NewStatic wraps an in-memory value. A nil value behaves as an empty context.
func NewStatic(value domain.Value) *Static {
	if value == nil {
		value = domain.Value{}
	}
	return &Static{value: value}
}

// NewStaticFromFile loads path once.
func NewStaticFromFile(path string, format Format) (*Static, error) {
	value, err := Load(path, format)
	if err != nil {
		return nil, err
	}
	return NewStatic(value), nil
}

// Current implements ports.ContextSource.
func (s *Static) Current() domain.Value {
	return s.value.Clone()
}
