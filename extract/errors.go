package extract

import (
	"errors"
	"fmt"

	"github.com/Yamashou/uibindgen/marker"
)

var (
	// ErrMalformedAttributeUsage reports a marker kind applied more than once
	// to the same member.
	ErrMalformedAttributeUsage = errors.New("malformed attribute usage")
	// ErrAttributeArityMismatch reports a marker with the wrong number of
	// arguments.
	ErrAttributeArityMismatch = errors.New("attribute arity mismatch")
	// ErrInvalidAttributeArgument reports an argument of the wrong shape,
	// such as a non-string binding name or an unknown scope.
	ErrInvalidAttributeArgument = errors.New("invalid attribute argument")
)

// UsageError is returned when a member carries a marker kind more than once.
type UsageError struct {
	Member string
	Kind   marker.Kind
	Count  int
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s marker applied %d times, at most 1 allowed", e.Member, e.Kind, e.Count)
}

func (e *UsageError) Is(target error) bool {
	return target == ErrMalformedAttributeUsage
}

// ArityError is returned when a marker has the wrong number of arguments.
type ArityError struct {
	Member string
	Kind   marker.Kind
	Min    int
	Max    int
	Got    int
}

func (e *ArityError) Error() string {
	want := fmt.Sprintf("%d", e.Min)
	if e.Max != e.Min {
		want = fmt.Sprintf("%d to %d", e.Min, e.Max)
	}
	return fmt.Sprintf("%s: %s marker expects %s arguments, got %d", e.Member, e.Kind, want, e.Got)
}

func (e *ArityError) Is(target error) bool {
	return target == ErrAttributeArityMismatch
}

// ArgumentError is returned when an argument cannot be interpreted.
type ArgumentError struct {
	Member string
	Kind   marker.Kind
	Index  int
	Reason string
	Err    error
}

func (e *ArgumentError) Error() string {
	msg := fmt.Sprintf("%s: %s marker argument %d: %s", e.Member, e.Kind, e.Index, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidAttributeArgument
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}
