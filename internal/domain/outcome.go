package domain

import "errors"

// FieldOutcome is either a value of type T or an error
type FieldOutcome[T any] struct {
	value T
	err   error
}

// Ok returns a successful outcome holding v
func Ok[T any](v T) FieldOutcome[T] {
	return FieldOutcome[T]{value: v}
}

// Fail returns a failed outcome. A nil err is replaced with a generic error so a
// failed outcome can never be mistaken for a successful one.
func Fail[T any](err error) FieldOutcome[T] {
	if err == nil {
		err = errors.New("field resolution failed")
	}
	return FieldOutcome[T]{err: err}
}

// Get returns the value and error
func (o FieldOutcome[T]) Get() (T, error) {
	return o.value, o.err
}

// Err returns the error of a failed outcome, nil otherwise
func (o FieldOutcome[T]) Err() error {
	return o.err
}

// Failed reports whether the outcome holds an error
func (o FieldOutcome[T]) Failed() bool {
	return o.err != nil
}

// Erase converts the outcome to an untyped outcome
func Erase[T any](o FieldOutcome[T]) FieldOutcome[any] {
	if o.err != nil {
		return FieldOutcome[any]{err: o.err}
	}
	return FieldOutcome[any]{value: o.value}
}
