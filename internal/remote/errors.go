package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrCycleDetected is returned when the server rejects a folder move
	// that would make a folder its own ancestor. Seeing this after client
	// validation passed means the validator ran on a partial tree.
	ErrCycleDetected = errors.New("move rejected: folder cannot become its own descendant")

	// ErrDuplicateName is returned when the destination already holds an
	// entry with the same name.
	ErrDuplicateName = errors.New("an entry with the same name already exists here")

	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError carries enough context to attribute a failure inside a batch to
// one specific remote operation and path.
type APIError struct {
	Op         string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %s (status %d)", e.Op, e.Path, e.Message, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: status %d", e.Op, e.Path, e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }
