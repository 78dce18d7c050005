package tools

import (
	"errors"
	"fmt"
)

// ErrToolNotFound is matched by every *NotFoundError via errors.Is.
var ErrToolNotFound = errors.New("tool not found")

// NotFoundError is returned by Resolve when no tool is registered under Name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrToolNotFound
}

// ExecutionError wraps a failure raised by a tool while it was running.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
