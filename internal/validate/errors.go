package validate

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is the root of every coercion failure.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrMissingValue is returned when null reaches a non-nullable type.
	ErrMissingValue = errors.New("value is required")
	// ErrUnknownType is returned for type names no scalar or generic handles.
	ErrUnknownType = errors.New("unknown type")
)

// ValidationError reports that the raw value of a parameter could not be
// coerced into its declared type.
type ValidationError struct {
	Param string
	Flag  string
	Type  string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Flag != "" {
		return fmt.Sprintf("argument %s: invalid %s value %s: %v", e.Flag, e.Type, describe(e.Value), e.Err)
	}
	return fmt.Sprintf("parameter %s: invalid %s value %s: %v", e.Param, e.Type, describe(e.Value), e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func mismatch(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTypeMismatch, fmt.Sprintf(format, args...))
}
