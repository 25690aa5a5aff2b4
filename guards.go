package coercez

import (
	"math"
	"math/big"
	"reflect"
	"time"
)

// Guards check the shape of a value of unknown type and pass it through
// unchanged, typed as what it was found to be.
var (
	// String accepts any value whose kind is string, including named string
	// types, and returns it as a plain string.
	String = Apply("string", func(value any) (string, error) {
		if s, ok := value.(string); ok {
			return s, nil
		}
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.String {
			return rv.String(), nil
		}
		return "", NewError(value, "a string")
	})

	// Number accepts any finite integer or floating point value and returns it
	// as a float64. NaN and ±Inf are rejected.
	Number = Apply("number", func(value any) (float64, error) {
		if f, ok := toFloat(value); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, nil
		}
		return 0, NewError(value, "a number")
	})

	// BigInt accepts a non-nil *big.Int.
	BigInt = Apply("bigint", func(value any) (*big.Int, error) {
		if v, ok := value.(*big.Int); ok && v != nil {
			return v, nil
		}
		return nil, NewError(value, "a bigint")
	})

	// Date accepts a time.Time or non-nil *time.Time that is neither the zero
	// time nor the Unix epoch.
	Date = Apply("date", func(value any) (time.Time, error) {
		var t time.Time
		switch v := value.(type) {
		case time.Time:
			t = v
		case *time.Time:
			if v == nil {
				return time.Time{}, NewError(value, "a date")
			}
			t = *v
		default:
			return time.Time{}, NewError(value, "a date")
		}
		if t.IsZero() || t.Equal(time.Unix(0, 0)) {
			return time.Time{}, NewError(value, "a date")
		}
		return t, nil
	})

	// Array accepts slices and arrays and returns their elements as []any.
	// A nil slice is an empty array.
	Array = Apply("array", func(value any) ([]any, error) {
		if items, ok := value.([]any); ok {
			if items == nil {
				return []any{}, nil
			}
			return items, nil
		}
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			items := make([]any, rv.Len())
			for i := range items {
				items[i] = rv.Index(i).Interface()
			}
			return items, nil
		}
		return nil, NewError(value, "an array")
	})

	// Iterable accepts anything that can be ranged over except strings:
	// slices, arrays, maps, channels and range-over-func iterators.
	Iterable = Guard("iterable", "iterable", func(value any) bool {
		if value == nil {
			return false
		}
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
			return true
		case reflect.Func:
			return isIterFunc(rv.Type())
		}
		return false
	})

	// Defined accepts every value except nil, including typed nil pointers,
	// maps, slices, functions, channels and interfaces.
	Defined = Guard("defined", "defined", func(value any) bool {
		return !isNil(value)
	})

	// Object accepts maps, structs, slices, arrays and non-nil pointers.
	Object = Guard("object", "an object", func(value any) bool {
		if isNil(value) {
			return false
		}
		switch reflect.ValueOf(value).Kind() {
		case reflect.Map, reflect.Struct, reflect.Pointer, reflect.Slice, reflect.Array:
			return true
		}
		return false
	})

	// Func accepts any non-nil function.
	Func = Guard("func", "a function", func(value any) bool {
		return !isNil(value) && reflect.ValueOf(value).Kind() == reflect.Func
	})
)

// Instance returns a guard that asserts a value to T. T may be an interface,
// in which case any implementation is accepted.
//
//	coercez.Instance[error]().Test(io.EOF)  // true
//	coercez.Instance[*url.URL]().Test("x")  // false
func Instance[T any]() Coercer[any, T] {
	typ := reflect.TypeFor[T]()
	return Apply("instance", func(value any) (T, error) {
		if out, ok := value.(T); ok {
			return out, nil
		}
		var zero T
		return zero, NewError(value, "an instance of "+typ.String())
	})
}

// isNil reports whether value is nil or a typed nil.
func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// isIterFunc reports whether t has the shape of iter.Seq or iter.Seq2.
func isIterFunc(t reflect.Type) bool {
	if t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}
	yield := t.In(0)
	if yield.Kind() != reflect.Func || yield.NumOut() != 1 || yield.Out(0).Kind() != reflect.Bool {
		return false
	}
	return yield.NumIn() == 1 || yield.NumIn() == 2
}

// toFloat converts any integer or floating point kind to float64.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case nil:
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
