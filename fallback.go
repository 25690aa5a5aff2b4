package coercez

// Fallback resolves a failed coercion. It receives the original failure and
// returns either a substitute value with a nil error, or the error the caller
// should see instead.
//
// Three policies cover the common cases:
//   - Default: return a plain value instead of failing
//   - Raise: fail with a specific error instance
//   - RaiseWith: fail with an error built from the original failure
//
// Propagating the original failure needs no fallback at all: call Coerce, or
// pass a nil Fallback to CoerceOr.
//
// Example:
//
//	email := coercez.To[string](coercez.String, coercez.Email)
//
//	email.CoerceOr(input, coercez.Default(""))
//	email.CoerceOr(input, coercez.Raise[string](ErrInvalidEmail))
//	email.CoerceOr(input, coercez.RaiseWith[string](func(err error) error {
//	    return fmt.Errorf("signup: %w", err)
//	}))
type Fallback[O any] func(err error) (O, error)

// Default returns a Fallback that replaces any failure with value.
func Default[O any](value O) Fallback[O] {
	return func(error) (O, error) {
		return value, nil
	}
}

// Raise returns a Fallback that replaces any failure with err. A nil err keeps
// the original failure.
func Raise[O any](err error) Fallback[O] {
	return func(cause error) (O, error) {
		var zero O
		if err == nil {
			return zero, cause
		}
		return zero, err
	}
}

// RaiseWith returns a Fallback that replaces any failure with the error built
// by factory from the original failure. A nil factory, or a factory returning
// nil, keeps the original failure.
func RaiseWith[O any](factory func(error) error) Fallback[O] {
	return func(cause error) (O, error) {
		var zero O
		if factory == nil {
			return zero, cause
		}
		if err := factory(cause); err != nil {
			return zero, err
		}
		return zero, cause
	}
}
