package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide between aborting, retrying
// or ignoring it. A Kind is itself an error, which makes
// errors.Is(err, domain.KindEval) work through any amount of wrapping.
type Kind int

const (
	KindUnknown        Kind = iota
	KindIo                  // file read failure
	KindParse               // malformed structured source (context file, host input)
	KindInheritance         // template registration failure, e.g. missing parent
	KindEval                // template evaluation failure
	KindInvalidPath         // chapter path not representable as portable text
	KindConfiguration       // conflicting or invalid options
	KindNotFound            // template lookup miss
	KindPatternInvalid      // malformed glob pattern
)

var kindNames = map[Kind]string{
	KindUnknown:        "unknown",
	KindIo:             "io",
	KindParse:          "parse",
	KindInheritance:    "inheritance",
	KindEval:           "eval",
	KindInvalidPath:    "invalid_path",
	KindConfiguration:  "configuration",
	KindNotFound:       "not_found",
	KindPatternInvalid: "pattern_invalid",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) Error() string { return k.String() }

// Error is the annotated failure returned by every inkwell layer.
type Error struct {
	Kind Kind
	// Op names the operation that failed ("read context", "chapter", ...).
	Op string
	// Path is the file path or chapter path involved, when there is one.
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Path)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", msg, e.Kind)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the Kind of this error.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// NewError builds an *Error.
func NewError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf returns the Kind of the outermost *Error in the chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
