package namespace

import (
	"errors"
	"fmt"
)

// ErrNotSerializable is returned when a value has no JSON
// representation and is not callable (symbols, bare undefined inside
// the engine's stringify).
var ErrNotSerializable = errors.New("namespace: value is not serializable")

// PathError reports a shortcut path that failed to resolve at call
// time. Segment names the first missing step.
type PathError struct {
	Path    string
	Segment string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path not found: %q has no %q", e.Path, e.Segment)
}

// DeserializeError wraps a failure to revive one stored row. Bootstrap
// logs it and moves on; the row stays in the store untouched.
type DeserializeError struct {
	Key string
	Err error
}

func (e *DeserializeError) Error() string {
	return fmt.Sprintf("cannot revive %q: %v", e.Key, e.Err)
}

func (e *DeserializeError) Unwrap() error { return e.Err }
