package coercez

// Transform creates a Coercer from a transformation that cannot fail.
// Transform suits text cleanup and arithmetic mutators whose whole input domain
// is valid: its input type already restricts what can reach it.
//
// Example:
//
//	upper := coercez.Transform("upper", strings.ToUpper)
func Transform[I, O any](name Name, fn func(I) O) Coercer[I, O] {
	return Coercer[I, O]{
		name: name,
		fn: func(value I) (result O, err error) {
			defer recoverFromPanic(&result, &err, name, value)
			return fn(value), nil
		},
	}
}
