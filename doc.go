// Package coercez provides a small, typed combinator library for building
// fallible value coercions in Go.
//
// # Overview
//
// coercez composes guards (shape checks that pass a value through unchanged),
// mutators (transformations into a target representation) and predicates
// (boolean tests that never fail) into pipelines with uniform failure handling.
// Every failure is an *Error carrying the rejected value and a human-readable
// expectation, and every pipeline can substitute a default value or a custom
// error when it fails.
//
// # Installation
//
//	go get github.com/zoobzio/coercez
//
// # Core Concepts
//
// The library is built around a single value type:
//
//	type Coercer[I, O any] struct { ... }
//	func (c Coercer[I, O]) Coerce(I) (O, error)
//
// Key components:
//   - Guards: String, Number, Date, Array, Defined, Object, Instance, ...
//   - Mutators: Stringify, Numeric, Dateify, Boolean, Arrayify, Trim, Proper, ...
//   - Predicates: Is and Not turn any Coercer into a test that returns bool
//   - To: chains stages of differing types left to right, short-circuiting on
//     the first failure
//   - Pipe and Then: the same composition, checked at compile time
//   - Pipeline: a mutable, observable connector over a list of stages
//
// Design philosophy:
//   - Coercers and predicates are immutable values (functions wrapped with a name)
//   - Pipelines are mutable pointers (configurable containers with observability)
//
// # Building Pipelines
//
//	name := coercez.To[string](coercez.String, coercez.Trim, coercez.NonEmpty)
//
//	v, err := name.Coerce(" foo ")  // "foo", nil
//	_, err = name.Coerce("   ")     // *Error: expected "" to be something else
//
// Predicates never fail, and inside To they pass the value through when true:
//
//	coercez.Is(coercez.String).Test(12345)  // false
//	coercez.Not(coercez.String).Test(12345) // true
//
// # Fallbacks
//
// A failure can be propagated, replaced by a default value or replaced by a
// different error:
//
//	port := coercez.To[int](coercez.Numeric, coercez.Integer)
//
//	port.CoerceOr("x", coercez.Default(8080))            // 8080, nil
//	port.CoerceOr("x", coercez.Raise[int](ErrBadPort))    // 0, ErrBadPort
//	port.Or(8080).Coerce("x")                             // 8080, nil
//
// # Error Handling
//
//	_, err := pipeline.Coerce(value)
//	var coerceErr *coercez.Error
//	if errors.As(err, &coerceErr) {
//	    log.Printf("failed at: %s", strings.Join(coerceErr.Path, " -> "))
//	    log.Printf("expected: %s", coerceErr.Expected)
//	}
//	errors.Is(err, coercez.ErrExpectation) // true for every *Error
//
// # Subpackages
//
//   - cookie: Cookie header parsing and Set-Cookie rendering
//   - mime: file extension and MIME type lookups
//   - httpguard: request guards, response checks and a gin middleware
//   - color, interp, ease: color codes, interpolation and easing curves
//   - config: typed reads of viper settings
//   - testing: mock stages and assertion helpers
package coercez
