package harmonics

import (
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/acoustic"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
)

// DomainError reports an argument outside the range a query is defined on.
type DomainError = acoustic.DomainError

// ParseError reports a malformed note name.
type ParseError = pitch.ParseError

var (
	// ErrDomain is matched by every DomainError.
	ErrDomain = acoustic.ErrDomain
	// ErrParse is matched by every ParseError.
	ErrParse = pitch.ErrParse
)

func domainError(field string, value any, reason string) error {
	return &DomainError{Field: field, Value: value, Reason: reason}
}
