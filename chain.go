package coercez

import "slices"

// To composes stages left to right into a Coercer that accepts any value and
// produces an O. Each stage receives the output of the previous one; the
// first failure short-circuits the rest and is returned as is. The value left
// after the last stage is asserted to O.
//
// Stages are captured when To is called, so later changes to the argument
// slice have no effect. Nil stages are skipped.
//
// Example:
//
//	email := coercez.To[string](coercez.String, coercez.Email)
//	phone := coercez.To[string](coercez.Stringify, coercez.Phone10)
//
//	email.Coerce("  Someone@Example.com ")  // "someone@example.com", nil
//	phone.Coerce(5551234567)                // "5551234567", nil
//
// Nesting is associative: To(a, To(b, c)) and To(To(a, b), c) produce the same
// value for every input and fail for the same inputs.
func To[O any](stages ...Stage) Coercer[any, O] {
	stages = slices.DeleteFunc(slices.Clone(stages), func(s Stage) bool {
		return s == nil
	})
	return Coercer[any, O]{
		name: "to",
		fn: func(value any) (O, error) {
			return run[O](stages, value)
		},
	}
}

// Coerce is an alias for To that reads better at call sites which only hold
// the target type in mind:
//
//	age := coercez.Coerce[int](coercez.Numeric, coercez.Integer)
func Coerce[O any](stages ...Stage) Coercer[any, O] {
	return To[O](stages...)
}

// run threads value through stages and asserts the result to O.
func run[O any](stages []Stage, value any) (O, error) {
	var zero O
	current := value
	for _, stage := range stages {
		next, err := stage.coerceAny(current)
		if err != nil {
			return zero, err
		}
		current = next
	}
	out, ok := as[O](current)
	if !ok {
		return zero, NewError(current, expectationFor[O]())
	}
	return out, nil
}

// Pipe composes same-typed coercers left to right with the types checked at
// compile time.
//
//	clean := coercez.Pipe(coercez.Trim, coercez.Spaces, coercez.Quotes)
func Pipe[T any](coercers ...Coercer[T, T]) Coercer[T, T] {
	coercers = slices.Clone(coercers)
	return Coercer[T, T]{
		name: "pipe",
		fn: func(value T) (T, error) {
			current := value
			for _, c := range coercers {
				next, err := c.Coerce(current)
				if err != nil {
					var zero T
					return zero, err
				}
				current = next
			}
			return current, nil
		},
	}
}

// Then composes two coercers whose types line up: A to B, then B to C.
//
//	age := coercez.Then(coercez.Numeric, coercez.Integer)
func Then[A, B, C any](first Coercer[A, B], next Coercer[B, C]) Coercer[A, C] {
	return Coercer[A, C]{
		name: "then",
		fn: func(value A) (C, error) {
			middle, err := first.Coerce(value)
			if err != nil {
				var zero C
				return zero, err
			}
			return next.Coerce(middle)
		},
	}
}
