package coercez

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrExpectation is matched by every *Error through errors.Is.
var ErrExpectation = errors.New("expectation not met")

// Error is the single failure kind produced by coercers. It records the value
// that was rejected, what was expected of it, and the path of named stages the
// failure passed through on its way out.
//
// Err is set when the failure originated outside the library (a foreign error
// returned by an Apply function, or a recovered panic). In that case Expected
// may be empty and the message is taken from Err.
type Error struct {
	Value    any
	Err      error
	Expected string
	Path     []Name
}

// NewError builds the uniform "expected <value> to be <expected>" failure.
func NewError(value any, expected string) *Error {
	return &Error{Value: value, Expected: expected}
}

// Wrap adapts err into an *Error for value. An *Error is returned as is. Any
// other error, including one that wraps an *Error, becomes the Err of a new
// *Error so it stays reachable through errors.Is and errors.As.
func Wrap(value any, err error) *Error {
	if err == nil {
		return nil
	}
	if coerceErr, ok := err.(*Error); ok {
		return coerceErr
	}
	return &Error{Value: value, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if len(e.Path) > 0 {
		b.WriteString(strings.Join(e.Path, " -> "))
		b.WriteString(": ")
	}
	switch {
	case e.Expected != "" && e.Err != nil:
		fmt.Fprintf(&b, "expected %q to be %s: %v", display(e.Value), e.Expected, e.Err)
	case e.Expected != "":
		fmt.Fprintf(&b, "expected %q to be %s", display(e.Value), e.Expected)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(ErrExpectation.Error())
	}
	return b.String()
}

// Unwrap returns the underlying foreign error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrExpectation.
func (e *Error) Is(target error) bool {
	return target == ErrExpectation
}

// prefix returns a copy of err with name prepended to its path, wrapping
// foreign errors first. err itself is never modified.
func prefix(name Name, value any, err error) error {
	coerceErr := Wrap(value, err)
	if name == "" {
		return coerceErr
	}
	prefixed := *coerceErr
	prefixed.Path = make([]Name, 0, len(coerceErr.Path)+1)
	prefixed.Path = append(append(prefixed.Path, name), coerceErr.Path...)
	return &prefixed
}

// display renders a value for an error message.
func display(value any) string {
	switch v := value.(type) {
	case nil:
		return "<nil>"
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	}
	return fmt.Sprintf("%v", value)
}

// expectationFor describes a Go type the way guard failures do: "a string",
// "an int", "a *big.Int".
func expectationFor[T any]() string {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
		return "defined"
	}
	return article(t.String())
}

func article(noun string) string {
	if noun == "" {
		return noun
	}
	switch noun[0] {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return "an " + noun
	}
	return "a " + noun
}

// recoverFromPanic converts a panic inside a stage into an *Error so a
// misbehaving function cannot take the caller down with it.
func recoverFromPanic[O any](result *O, err *error, name Name, value any) {
	if r := recover(); r != nil {
		var zero O
		*result = zero
		*err = prefix(name, value, fmt.Errorf("panic in %q: %v", name, r))
	}
}

// as asserts value to T. A nil value is accepted for interface types.
func as[T any](value any) (T, bool) {
	if out, ok := value.(T); ok {
		return out, true
	}
	var zero T
	if value == nil && reflect.TypeFor[T]().Kind() == reflect.Interface {
		return zero, true
	}
	return zero, false
}
