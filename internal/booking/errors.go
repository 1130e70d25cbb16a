package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingInformation   = errors.New("missing information")
	ErrInvalidTransition    = errors.New("invalid step transition")
	ErrUnknownService       = errors.New("unknown service")
	ErrSubmissionInProgress = errors.New("order submission in progress")
	ErrNoPendingOrder       = errors.New("no order awaiting completion")
	ErrQuantityLimit        = errors.New("quantity exceeds the per-line limit")
)

// ValidationError reports the required fields that block a transition.
// It matches ErrMissingInformation with errors.Is.
type ValidationError struct {
	Step    Step
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing information: please fill in all required fields (%s: %s)",
		e.Step, strings.Join(e.Missing, ", "))
}

// Is lets errors.Is(err, ErrMissingInformation) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrMissingInformation
}

func missing(step Step, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Step: step, Missing: fields}
}
