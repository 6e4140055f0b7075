package pitch

import (
	"errors"
	"fmt"
)

// ErrParse is matched by every note-name parse failure.
var ErrParse = errors.New("invalid note name")

// ParseError describes a malformed note name.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse note %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}
