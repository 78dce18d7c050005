package memory

import (
	"errors"
	"fmt"
)

// ErrInvalidRole is returned by Add for a role outside system/user/assistant.
var ErrInvalidRole = errors.New("invalid role")

// PersistenceError reports a failed read or write of a user's history file.
type PersistenceError struct {
	Op   string // "load", "save" or "lock"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("memory %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
