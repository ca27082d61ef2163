package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAlreadySpunToday rejects a second wheel spin on the same calendar day.
var ErrAlreadySpunToday = errors.New("already used your daily spin")

var errNoCollector = errors.New("no payment collector configured")

// ValidationError reports malformed or out-of-range input. Fields enumerates
// the offending fields so the client can highlight them.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Fields, ", ")
}

// ExternalCollaboratorError wraps a failure from the payment collaborator.
// These are never retried automatically; the caller decides.
type ExternalCollaboratorError struct {
	Op  string
	Err error
}

func (e *ExternalCollaboratorError) Error() string {
	return fmt.Sprintf("payment collaborator %s failed: %v", e.Op, e.Err)
}

func (e *ExternalCollaboratorError) Unwrap() error { return e.Err }
