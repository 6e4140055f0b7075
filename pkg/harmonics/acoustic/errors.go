package acoustic

import (
	"errors"
	"fmt"
)

// ErrDomain is matched by every DomainError.
var ErrDomain = errors.New("argument out of domain")

// DomainError reports an argument outside the range a computation is
// defined on, such as a harmonic number below 2.
type DomainError struct {
	Field  string
	Value  any
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}
