package coercez

// Apply creates a Coercer from a function that transforms a value and may fail.
// Apply is the workhorse adapter - use it for mutators that reject part of
// their input domain, and for wrapping existing functions that return errors.
//
// Failures returned by fn are normalized: an *Error gets name prepended to its
// path, any other error is wrapped into an *Error with Err set. Panics are
// recovered the same way.
//
// Example:
//
//	port := coercez.Apply("port", func(s string) (int, error) {
//	    n, err := strconv.Atoi(s)
//	    if err != nil || n < 1 || n > 65535 {
//	        return 0, coercez.NewError(s, "a TCP port")
//	    }
//	    return n, nil
//	})
func Apply[I, O any](name Name, fn func(I) (O, error)) Coercer[I, O] {
	return Coercer[I, O]{
		name: name,
		fn: func(value I) (result O, err error) {
			defer recoverFromPanic(&result, &err, name, value)
			result, err = fn(value)
			if err != nil {
				var zero O
				return zero, prefix(name, value, err)
			}
			return result, nil
		},
	}
}

// Guard creates a Coercer that passes value through unchanged when check
// returns true, and fails with expected otherwise.
//
// Example:
//
//	even := coercez.Guard("even", "an even number", func(n int) bool {
//	    return n%2 == 0
//	})
func Guard[T any](name Name, expected string, check func(T) bool) Coercer[T, T] {
	return Apply(name, func(value T) (T, error) {
		if check(value) {
			return value, nil
		}
		return value, NewError(value, expected)
	})
}
