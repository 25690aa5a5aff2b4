package coercez

// Predicate is a named boolean test. Predicates never fail: Test returns false
// where the underlying coercer would have returned an error.
//
// Used as a Stage (inside To or a Pipeline) a predicate passes the value
// through unchanged when the test holds, and fails with the expectation
// "something else" when it does not. This lets a negated guard sit in the
// middle of a pipeline:
//
//	coercez.To[string](coercez.String, coercez.Trim, coercez.Not(coercez.Length[string](0)))
type Predicate[T any] struct {
	test func(T) bool
	name Name
}

// NewPredicate wraps test as a Predicate.
func NewPredicate[T any](name Name, test func(T) bool) Predicate[T] {
	return Predicate[T]{name: name, test: test}
}

// Is returns a Predicate that holds when c would coerce the value without error.
//
//	coercez.Is(coercez.String).Test("foo") // true
//	coercez.Is(coercez.String).Test(12345) // false
func Is[I, O any](c Coercer[I, O]) Predicate[I] {
	return Predicate[I]{
		name: "is(" + c.Name() + ")",
		test: c.Test,
	}
}

// Not returns the exact negation of Is(c).
//
//	coercez.Not(coercez.String).Test("foo") // false
//	coercez.Not(coercez.String).Test(12345) // true
func Not[I, O any](c Coercer[I, O]) Predicate[I] {
	return Predicate[I]{
		name: "not(" + c.Name() + ")",
		test: func(value I) bool {
			return !c.Test(value)
		},
	}
}

// Test evaluates the predicate. A nil test or a panicking test yields false.
func (p Predicate[T]) Test(value T) (ok bool) {
	if p.test == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return p.test(value)
}

// Name returns the name of the predicate.
func (p Predicate[T]) Name() Name {
	return p.name
}

// Negate returns the opposite predicate.
func (p Predicate[T]) Negate() Predicate[T] {
	return Predicate[T]{
		name: "not(" + p.name + ")",
		test: func(value T) bool {
			return !p.Test(value)
		},
	}
}

// Guard converts the predicate back into pass-through/failure semantics for
// use in typed pipes.
func (p Predicate[T]) Guard() Coercer[T, T] {
	return Guard(p.name, "something else", p.Test)
}

func (p Predicate[T]) coerceAny(value any) (any, error) {
	return p.Guard().coerceAny(value)
}
