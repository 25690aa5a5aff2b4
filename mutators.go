package coercez

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Entry is a key/value pair produced by Entries and Pairs.
type Entry struct {
	Key   any
	Value any
}

// Mutators transform a value into a target representation, failing when the
// value is outside their input domain.
var (
	// Stringify renders strings, finite numbers and big integers as a string.
	Stringify = Apply("stringify", func(value any) (string, error) {
		if s, ok := stringify(value); ok {
			return s, nil
		}
		return "", NewError(value, "a string")
	})

	// Numeric converts numbers and numeric text to a finite float64. Text is
	// stripped of everything but digits, signs, dots and the letters o, e and
	// x, so "$1,234.50" becomes 1234.5. Signed hex (0x) and octal (0o)
	// integers such as "0xff" are parsed before any stripping.
	Numeric = Apply("numeric", func(value any) (float64, error) {
		if f, ok := toFloat(value); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, nil
		}
		if f, ok := parseNumeric(value); ok {
			return f, nil
		}
		return 0, NewError(value, "numeric")
	})

	// Dateify converts a time, a number of Unix milliseconds or a date string
	// into a valid time.Time.
	Dateify = Apply("dateify", func(value any) (time.Time, error) {
		candidate, ok := toTime(value)
		if ok {
			if t, err := Date.Coerce(candidate); err == nil {
				return t, nil
			}
		}
		return time.Time{}, NewError(value, "transformable to a Date")
	})

	// Boolean maps values to true or false by truthiness: nil, "", "null",
	// "0", "false", 0, NaN and false are false, everything else is true.
	Boolean = BooleanOf(true, false, false, false)

	// Arrayify turns any iterable into a []any and wraps anything else,
	// including strings, as a single element. Maps become sorted Entry
	// elements. Channels give up the values already buffered in them; an open
	// channel is not waited on.
	Arrayify = Transform("arrayify", arrayify)

	// Entries turns maps, structs and lists of pairs into a []Entry. Maps are
	// sorted by key. A list element that is not a pair fails the coercion.
	Entries = Apply("entries", func(value any) ([]Entry, error) {
		return entries(value, false)
	})

	// Pairs is Entries that drops list elements that are not pairs and
	// truncates longer tuples to their first two elements.
	Pairs = Apply("pairs", func(value any) ([]Entry, error) {
		return entries(value, true)
	})

	// Integer rounds half up. NaN, infinities and values outside the int
	// range fail.
	Integer = Apply("integer", func(value float64) (int, error) {
		rounded := math.Floor(value + 0.5)
		if math.IsNaN(rounded) || rounded < math.MinInt || rounded >= math.MaxInt {
			return 0, NewError(value, "an integer")
		}
		return int(rounded), nil
	})
)

func stringify(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *big.Int:
		if v == nil {
			return "", false
		}
		return v.String(), true
	case nil:
		return "", false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, rv.Type().Bits()), true
	}
	return "", false
}

var nonNumeric = regexp.MustCompile(`[^0-9oex.-]`)

func parseNumeric(value any) (float64, bool) {
	s, ok := stringify(value)
	if !ok {
		return 0, false
	}
	if f, ok := parsePrefixed(strings.TrimSpace(s)); ok {
		return f, true
	}
	s = nonNumeric.ReplaceAllString(s, "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parsePrefixed parses signed 0x and 0o integers. It runs before the strip,
// which would remove hex digits.
func parsePrefixed(s string) (float64, bool) {
	digits := strings.ToLower(strings.TrimLeft(s, "+-"))
	if !strings.HasPrefix(digits, "0x") && !strings.HasPrefix(digits, "0o") {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, false
	}
	return float64(n), true
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
	http.TimeFormat,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"January 2, 2006",
	"Jan 2, 2006",
	"2006/01/02",
	"01/02/2006",
}

func toTime(value any) (any, bool) {
	switch v := value.(type) {
	case time.Time, *time.Time:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return nil, false
	}
	if f, ok := toFloat(value); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return time.UnixMilli(int64(f)), true
	}
	if s, ok := stringify(value); ok {
		return toTime(s)
	}
	return nil, false
}

// BooleanOf returns a mutator mapping values to one of four results by
// truthiness:
//   - undefy for nil
//   - nully for nil pointers, maps, slices, functions and channels, and for
//     "" and "null" (after trimming)
//   - falsy for false, 0, NaN, ±Inf, "0" and "false"
//   - truthy for everything else
//
// Non-nil pointers are dereferenced first. The mutator never fails.
//
//	secure := coercez.BooleanOf("yes", "no", "no", "unset")
func BooleanOf[T any](truthy, falsy, nully, undefy T) Coercer[any, T] {
	return Transform("boolean", func(value any) T {
		if value == nil {
			return undefy
		}
		if b, ok := value.(*big.Int); ok {
			if b == nil {
				return nully
			}
			if b.Sign() == 0 {
				return falsy
			}
			return truthy
		}
		rv := reflect.ValueOf(value)
		for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
			if rv.IsNil() {
				return nully
			}
			rv = rv.Elem()
		}
		switch rv.Kind() {
		case reflect.String:
			switch strings.TrimSpace(rv.String()) {
			case "", "null":
				return nully
			case "0", "false":
				return falsy
			}
		case reflect.Bool:
			if !rv.Bool() {
				return falsy
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if rv.Int() == 0 {
				return falsy
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			if rv.Uint() == 0 {
				return falsy
			}
		case reflect.Float32, reflect.Float64:
			if f := rv.Float(); f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
				return falsy
			}
		case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if rv.IsNil() {
				return nully
			}
		}
		return truthy
	})
}

func arrayify(value any) []any {
	if items, ok := value.([]any); ok && items != nil {
		return items
	}
	if value == nil {
		return []any{nil}
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{value}
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items
	case reflect.Map:
		pairs := mapEntries(rv)
		items := make([]any, len(pairs))
		for i, pair := range pairs {
			items[i] = pair
		}
		return items
	case reflect.Chan:
		if rv.IsNil() || rv.Type().ChanDir()&reflect.RecvDir == 0 {
			return []any{value}
		}
		var items []any
		for {
			item, ok := rv.TryRecv()
			if !ok {
				return items
			}
			items = append(items, item.Interface())
		}
	case reflect.Func:
		if !rv.IsNil() && isIterFunc(rv.Type()) {
			return collect(rv)
		}
	}
	return []any{value}
}

// collect ranges over an iter.Seq or iter.Seq2 through reflection. Seq2
// elements are collected as Entry values.
func collect(fn reflect.Value) []any {
	var items []any
	yieldType := fn.Type().In(0)
	yield := reflect.MakeFunc(yieldType, func(args []reflect.Value) []reflect.Value {
		if len(args) == 2 {
			items = append(items, Entry{Key: args[0].Interface(), Value: args[1].Interface()})
		} else {
			items = append(items, args[0].Interface())
		}
		return []reflect.Value{reflect.ValueOf(true)}
	})
	fn.Call([]reflect.Value{yield})
	return items
}

func mapEntries(rv reflect.Value) []Entry {
	pairs := make([]Entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, Entry{Key: iter.Key().Interface(), Value: iter.Value().Interface()})
	}
	slices.SortFunc(pairs, func(a, b Entry) int {
		return compareKeys(a.Key, b.Key)
	})
	return pairs
}

func compareKeys(a, b any) int {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return cmp.Compare(af, bf)
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func entries(value any, lenient bool) ([]Entry, error) {
	if isNil(value) {
		return nil, NewError(value, "transformable to entries")
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		return mapEntries(rv), nil
	case reflect.Struct:
		t := rv.Type()
		pairs := make([]Entry, 0, t.NumField())
		for i := range t.NumField() {
			if f := t.Field(i); f.IsExported() {
				pairs = append(pairs, Entry{Key: f.Name, Value: rv.Field(i).Interface()})
			}
		}
		return pairs, nil
	case reflect.Slice, reflect.Array, reflect.Chan, reflect.Func:
		if rv.Kind() == reflect.Func && !isIterFunc(rv.Type()) {
			break
		}
		items := arrayify(rv.Interface())
		pairs := make([]Entry, 0, len(items))
		for _, item := range items {
			pair, ok := toEntry(item, lenient)
			if ok {
				pairs = append(pairs, pair)
				continue
			}
			if !lenient {
				return nil, NewError(item, "a key/value pair")
			}
		}
		return pairs, nil
	}
	return nil, NewError(value, "transformable to entries")
}

func toEntry(item any, lenient bool) (Entry, bool) {
	if pair, ok := item.(Entry); ok {
		return pair, true
	}
	if item == nil {
		return Entry{}, false
	}
	rv := reflect.ValueOf(item)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		if n == 2 || (lenient && n > 2) {
			return Entry{Key: rv.Index(0).Interface(), Value: rv.Index(1).Interface()}, true
		}
	}
	return Entry{}, false
}

// Limit returns a mutator capping numbers at n, and truncating strings (in
// runes) and slices to n elements. Other values fail.
//
//	coercez.Limit[int](3).Coerce(5)         // 3
//	coercez.Limit[string](3).Coerce("día!") // "día"
func Limit[T any](n int) Coercer[T, T] {
	expected := "able to be limited to " + strconv.Itoa(n)
	return Apply("limit", func(value T) (T, error) {
		limited, ok := limit(value, n)
		if !ok {
			return value, NewError(value, expected)
		}
		out, ok := limited.(T)
		if !ok {
			return value, NewError(value, expected)
		}
		return out, nil
	})
}

func limit(value any, n int) (any, bool) {
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	out := reflect.New(rv.Type()).Elem()
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out.SetInt(min(rv.Int(), int64(n)))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		out.SetUint(min(rv.Uint(), uint64(max(n, 0))))
	case reflect.Float32, reflect.Float64:
		out.SetFloat(math.Min(rv.Float(), float64(n)))
	case reflect.String:
		out.SetString(runePrefix(rv.String(), n))
	case reflect.Slice:
		if rv.IsNil() {
			return nil, false
		}
		out = rv.Slice(0, min(rv.Len(), max(n, 0)))
	default:
		return nil, false
	}
	return out.Interface(), true
}

func runePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// DefaultSeparator splits on commas, line breaks and whitespace.
var DefaultSeparator = regexp.MustCompile(`[,\r\n\s]+`)

// Split returns a mutator splitting a string into trimmed, non-empty items.
// A nil separator means DefaultSeparator.
//
//	coercez.Split(nil).Coerce("a,b,,,c d e foo") // [a b c d e foo]
func Split(separator *regexp.Regexp) Coercer[string, []string] {
	return SplitN(separator, -1)
}

// SplitN is Split keeping at most the first n pieces before empty ones are
// dropped. A negative n keeps every piece.
func SplitN(separator *regexp.Regexp, n int) Coercer[string, []string] {
	if separator == nil {
		separator = DefaultSeparator
	}
	return Transform("split", func(value string) []string {
		pieces := separator.Split(spaces(value), -1)
		if n >= 0 && len(pieces) > n {
			pieces = pieces[:n]
		}
		items := make([]string, 0, len(pieces))
		for _, piece := range pieces {
			if piece = trim(piece); piece != "" {
				items = append(items, piece)
			}
		}
		return items
	})
}
