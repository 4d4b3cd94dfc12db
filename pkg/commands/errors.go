package commands

import (
	"errors"
	"fmt"
)

// PreconditionError marks a failure that belongs to normal control flow:
// missing configuration or arguments the user got wrong. The dispatcher
// answers these with a 200 and an "error: ..." body.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string {
	return e.Msg
}

func Preconditionf(format string, args ...any) error {
	return &PreconditionError{Msg: fmt.Sprintf(format, args...)}
}

func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}
