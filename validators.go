package coercez

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/zoobzio/clockz"
)

// Validators check a value that is already typed and pass it through.
var (
	Finite = Guard("finite", "a finite number", func(value float64) bool {
		return !math.IsNaN(value) && !math.IsInf(value, 0)
	})

	Zero = Guard("zero", "0", func(value float64) bool {
		return value == 0
	})

	Positive = Guard("positive", "a positive number", func(value float64) bool {
		return value > 0
	})

	Negative = Guard("negative", "a negative number", func(value float64) bool {
		return value < 0
	})

	// Future passes times after now.
	Future = FutureAt(clockz.RealClock)

	// Past passes times before now.
	Past = PastAt(clockz.RealClock)

	// Luhn passes strings of digits whose Luhn checksum is valid.
	Luhn = Guard("luhn", "able to pass the Luhn test", luhn)

	// NonEmpty holds for strings, slices, arrays, maps and channels that are
	// not of length 0. Values without a length are not empty.
	NonEmpty = Not(Length[any](0))

	// NonZero holds for every float64 except 0.
	NonZero = Not(Zero)

	// UUID parses a string into a uuid.UUID.
	UUID = Apply("uuid", func(value string) (uuid.UUID, error) {
		id, err := uuid.Parse(value)
		if err != nil {
			return uuid.Nil, &Error{Value: value, Expected: "a valid UUID", Err: err}
		}
		return id, nil
	})

	// RequiredUUID is UUID rejecting the nil UUID.
	RequiredUUID = Then(UUID, Guard("required", "a non-nil UUID", func(id uuid.UUID) bool {
		return id != uuid.Nil
	}))
)

// FutureAt returns a validator passing times after clock.Now().
func FutureAt(clock clockz.Clock) Coercer[time.Time, time.Time] {
	return Guard("future", "in the future", func(value time.Time) bool {
		return value.After(clock.Now())
	})
}

// PastAt returns a validator passing times before clock.Now().
func PastAt(clock clockz.Clock) Coercer[time.Time, time.Time] {
	return Guard("past", "in the past", func(value time.Time) bool {
		return value.Before(clock.Now())
	})
}

// Length returns a validator passing values of exactly size elements.
// Strings are measured in runes. Values that have no length fail.
//
//	coercez.Length[string](3).Test("día") // true
func Length[T any](size int) Coercer[T, T] {
	return Guard("length", "of length: "+strconv.Itoa(size), func(value T) bool {
		n, ok := lengthOf(value)
		return ok && n == size
	})
}

func lengthOf(value any) (int, bool) {
	if s, ok := value.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), true
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len(), true
	}
	return 0, false
}

// Within returns a validator passing members of list.
//
//	sameSite := coercez.Within("none", "lax", "strict")
func Within[T comparable](list ...T) Coercer[T, T] {
	list = slices.Clone(list)
	names := make([]string, len(list))
	for i, item := range list {
		names[i] = fmt.Sprint(item)
	}
	return Guard("within", "one of "+strings.Join(names, ","), func(value T) bool {
		return slices.Contains(list, value)
	})
}

var luhnDoubled = [10]int{0, 2, 4, 6, 8, 1, 3, 5, 7, 9}

func luhn(value string) bool {
	sum := 0
	double := false
	for i := len(value) - 1; i >= 0; i-- {
		c := value[i]
		if c < '0' || c > '9' {
			return false
		}
		digit := int(c - '0')
		if double {
			digit = luhnDoubled[digit]
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Tag returns a validator backed by go-playground/validator tags, such as
// "email", "url", "min=3,max=255" or "oneof=red green".
//
//	site := coercez.To[string](coercez.String, coercez.Trim, coercez.Tag[string]("url"))
func Tag[T any](tag string) Coercer[T, T] {
	return Apply("tag("+tag+")", func(value T) (T, error) {
		err := getValidator().Var(value, tag)
		if err == nil {
			return value, nil
		}
		var fieldErrs validator.ValidationErrors
		if ok := asValidationErrors(err, &fieldErrs); ok && len(fieldErrs) > 0 {
			return value, NewError(value, describeTag(fieldErrs[0]))
		}
		return value, &Error{Value: value, Expected: "valid for " + tag, Err: err}
	})
}

// Struct returns a validator running the `validate` struct tags of T.
func Struct[T any]() Coercer[T, T] {
	return Apply("struct", func(value T) (T, error) {
		err := getValidator().Struct(value)
		if err == nil {
			return value, nil
		}
		var fieldErrs validator.ValidationErrors
		if ok := asValidationErrors(err, &fieldErrs); ok && len(fieldErrs) > 0 {
			parts := make([]string, len(fieldErrs))
			for i, fe := range fieldErrs {
				parts[i] = fe.Field() + " " + describeTag(fe)
			}
			return value, &Error{Value: value, Expected: "valid: " + strings.Join(parts, "; "), Err: err}
		}
		return value, &Error{Value: value, Expected: "a valid struct", Err: err}
	})
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	fieldErrs, ok := err.(validator.ValidationErrors) //nolint:errorlint
	if ok {
		*target = fieldErrs
	}
	return ok
}

// describeTag renders a failed validation tag as an expectation.
func describeTag(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "required"
	case "email":
		return "a valid email address"
	case "min":
		return "at least " + e.Param()
	case "max":
		return "at most " + e.Param()
	case "len":
		return "of length: " + e.Param()
	case "url":
		return "a valid URL"
	case "uuid":
		return "a valid UUID"
	case "oneof":
		return "one of: " + e.Param()
	default:
		return "valid for " + e.Tag()
	}
}
