package modexp

import "errors"

// Kind classifies a validation failure.
type Kind string

const (
	KindInvalidFormat Kind = "INVALID_FORMAT"
	KindOutOfRange    Kind = "OUT_OF_RANGE"
	KindZeroModulus   Kind = "ZERO_MODULUS"
)

// Sentinels matched by errors.Is against a *ValidationError.
var (
	ErrInvalidFormat = errors.New("invalid format")
	ErrOutOfRange    = errors.New("out of range")
	ErrZeroModulus   = errors.New("zero modulus")
)

// ValidationError is returned by the validator. Message is user facing.
type ValidationError struct {
	Kind    Kind
	Field   string // empty for errors not tied to a single field
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets callers match a kind with errors.Is(err, ErrZeroModulus).
func (e *ValidationError) Is(target error) bool {
	switch e.Kind {
	case KindInvalidFormat:
		return target == ErrInvalidFormat
	case KindOutOfRange:
		return target == ErrOutOfRange
	case KindZeroModulus:
		return target == ErrZeroModulus
	}
	return false
}

// KindOf returns the validation kind carried by err, or "" if err is not a
// *ValidationError.
func KindOf(err error) Kind {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return ""
}
