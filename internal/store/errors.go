package store

import (
	"errors"
	"fmt"
)

// ErrInvalidInteraction is returned by AddInteraction for an empty message list.
var ErrInvalidInteraction = errors.New("invalid interaction: at least one message is required")

// PersistenceError reports a failed snapshot read or write. A failed Load
// leaves the store empty and usable, so callers should surface it as a
// warning rather than abort.
type PersistenceError struct {
	Op     string // "load" or "save"
	Path   string
	Backup string // where a corrupt snapshot was moved, if anywhere
	Err    error
}

func (e *PersistenceError) Error() string {
	if e.Backup != "" {
		return fmt.Sprintf("%s %s: %v (moved to %s)", e.Op, e.Path, e.Err, e.Backup)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
