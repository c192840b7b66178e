package lifecycle

import (
	"errors"
	"fmt"

	"lapor/internal/domain"
	"lapor/pkg/e"
)

// TransitionError is a rejected status change. Err is one of e.ErrUnauthorized,
// e.ErrTerminalState, e.ErrInvalidTransition, e.ErrResponseRequired or
// e.ErrMalformed.
type TransitionError struct {
	Entity domain.EntityKind
	From   string
	To     string
	// NoOp is set when the requested status equals the current one.
	NoOp bool
	Err  error
}

func (te *TransitionError) Error() string {
	if te.NoOp {
		return fmt.Sprintf("%s %s -> %s: no changes to save: %v", te.Entity, te.From, te.To, te.Err)
	}
	return fmt.Sprintf("%s %s -> %s: %v", te.Entity, te.From, te.To, te.Err)
}

func (te *TransitionError) Unwrap() error { return te.Err }

// IsNoOp reports whether err rejects a transition into the current status.
func IsNoOp(err error) bool {
	var te *TransitionError
	return errors.As(err, &te) && te.NoOp
}

// IsRejection reports whether err is an expected rule violation rather than
// an internal failure.
func IsRejection(err error) bool {
	return errors.Is(err, e.ErrUnauthorized) ||
		errors.Is(err, e.ErrTerminalState) ||
		errors.Is(err, e.ErrInvalidTransition) ||
		errors.Is(err, e.ErrResponseRequired)
}
