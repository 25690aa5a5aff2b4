package coercez

// Name is a type alias for coercer, predicate and pipeline names.
// Names appear in Error.Path to identify exactly where a coercion failed.
type Name = string

// Stage is anything that can take part in a dynamic pipeline built by To or
// NewPipeline. It is satisfied by Coercer, Predicate and *Pipeline.
//
// The input of a stage is asserted to the stage's input type before it runs,
// so stages of different static types can be chained as long as the output of
// each one is acceptable to the next.
type Stage interface {
	Name() Name
	coerceAny(value any) (any, error)
}

// Coercer is a named, fallible transformation from I to O.
//
// Coercers are immutable values created by adapter functions (Apply, Guard,
// Transform) or by composition (To, Pipe, Then). The zero Coercer is the
// identity for values that are already of type O.
type Coercer[I, O any] struct {
	fn   func(I) (O, error)
	name Name
}

// Coerce runs the coercer on value. On failure the returned error is an
// *Error unless a fallback replaced it with a custom error.
func (c Coercer[I, O]) Coerce(value I) (result O, err error) {
	defer recoverFromPanic(&result, &err, c.name, value)
	if c.fn == nil {
		out, ok := as[O](value)
		if !ok {
			return result, NewError(value, expectationFor[O]())
		}
		return out, nil
	}
	return c.fn(value)
}

// Name returns the name of the coercer.
func (c Coercer[I, O]) Name() Name {
	return c.name
}

// Test reports whether value would coerce without error. It never fails.
func (c Coercer[I, O]) Test(value I) bool {
	_, err := c.Coerce(value)
	return err == nil
}

// CoerceOr runs the coercer and resolves a failure through fallback.
// A nil fallback propagates the failure.
func (c Coercer[I, O]) CoerceOr(value I, fallback Fallback[O]) (O, error) {
	result, err := c.Coerce(value)
	if err == nil || fallback == nil {
		return result, err
	}
	return fallback(err)
}

// Otherwise returns a copy of the coercer with fallback attached to every call.
func (c Coercer[I, O]) Otherwise(fallback Fallback[O]) Coercer[I, O] {
	return Coercer[I, O]{
		name: c.name,
		fn: func(value I) (O, error) {
			return c.CoerceOr(value, fallback)
		},
	}
}

// Or returns a copy of the coercer that resolves every failure to value.
func (c Coercer[I, O]) Or(value O) Coercer[I, O] {
	return c.Otherwise(Default(value))
}

// Must coerces value and panics on failure. Intended for package-level
// initialization with values known to be valid.
func (c Coercer[I, O]) Must(value I) O {
	result, err := c.Coerce(value)
	if err != nil {
		panic(err)
	}
	return result
}

// Named returns a copy of the coercer reported under name. Failures gain name
// as the first element of their path.
func (c Coercer[I, O]) Named(name Name) Coercer[I, O] {
	return Coercer[I, O]{
		name: name,
		fn: func(value I) (O, error) {
			result, err := c.Coerce(value)
			if err != nil {
				return result, prefix(name, value, err)
			}
			return result, nil
		},
	}
}

// Then returns a coercer that runs next on the result of c. For chains that
// change type use the package-level Then.
func (c Coercer[I, O]) Then(next Coercer[O, O]) Coercer[I, O] {
	return Then(c, next)
}

func (c Coercer[I, O]) coerceAny(value any) (any, error) {
	in, ok := as[I](value)
	if !ok {
		return nil, prefix(c.name, value, NewError(value, expectationFor[I]()))
	}
	out, err := c.Coerce(in)
	if err != nil {
		return nil, err
	}
	return out, nil
}
