package coercez

import (
	"errors"
	"io"
	"iter"
	"maps"
	"math"
	"math/big"
	"reflect"
	"testing"
	"time"
)

type stringKind string

func TestString(t *testing.T) {
	passes := []struct {
		in   any
		want string
	}{
		{"1", "1"},
		{"", ""},
		{stringKind("named"), "named"},
	}
	for _, tt := range passes {
		got, err := String.Coerce(tt.in)
		if err != nil {
			t.Errorf("String(%#v): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("String(%#v): expected %q, got %q", tt.in, tt.want, got)
		}
	}

	fails := []any{
		1, true, errors.New("foo"), []byte("foo"), []string{"1"}, math.Inf(-1),
		nil, struct{}{}, map[string]string{}, new(string),
	}
	for _, in := range fails {
		_, err := String.Coerce(in)
		var coerceErr *Error
		if !errors.As(err, &coerceErr) {
			t.Errorf("String(%#v): expected *Error, got %v", in, err)
			continue
		}
		if coerceErr.Expected != "a string" {
			t.Errorf("String(%#v): expected 'a string', got %q", in, coerceErr.Expected)
		}
	}
}

func TestNumber(t *testing.T) {
	passes := []struct {
		in   any
		want float64
	}{
		{0o10, 8},
		{0xff, 255},
		{2e3, 2000},
		{1.1, 1.1},
		{int8(-3), -3},
		{uint64(7), 7},
		{float32(0.5), 0.5},
		{0, 0},
	}
	for _, tt := range passes {
		got, err := Number.Coerce(tt.in)
		if err != nil {
			t.Errorf("Number(%#v): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Number(%#v): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	for _, in := range []any{math.NaN(), math.Inf(1), "foo", "", "1", nil, true, big.NewInt(1)} {
		if Number.Test(in) {
			t.Errorf("Number(%#v): expected failure", in)
		}
	}
}

func TestBigInt(t *testing.T) {
	n := big.NewInt(42)
	got, err := BigInt.Coerce(n)
	if err != nil || got != n {
		t.Errorf("expected same *big.Int, got %v %v", got, err)
	}
	for _, in := range []any{42, "42", (*big.Int)(nil), nil} {
		if BigInt.Test(in) {
			t.Errorf("BigInt(%#v): expected failure", in)
		}
	}
}

func TestDate(t *testing.T) {
	when := time.UnixMilli(1628623372929)
	got, err := Date.Coerce(when)
	if err != nil || !got.Equal(when) {
		t.Errorf("expected %v, got %v %v", when, got, err)
	}
	got, err = Date.Coerce(&when)
	if err != nil || !got.Equal(when) {
		t.Errorf("expected pointer to be accepted, got %v %v", got, err)
	}

	for _, in := range []any{time.Time{}, time.Unix(0, 0), (*time.Time)(nil), 1628623372929, "2021-08-10", nil} {
		if Date.Test(in) {
			t.Errorf("Date(%#v): expected failure", in)
		}
	}
}

func TestArray(t *testing.T) {
	tests := []struct {
		in   any
		want []any
	}{
		{[]any{"1"}, []any{"1"}},
		{[]string{"1", "2"}, []any{"1", "2"}},
		{[2]int{1, 2}, []any{1, 2}},
		{[]any(nil), []any{}},
	}
	for _, tt := range tests {
		got, err := Array.Coerce(tt.in)
		if err != nil {
			t.Errorf("Array(%#v): unexpected error %v", tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Array(%#v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
	for _, in := range []any{"123", map[int]int{}, 1, nil} {
		if Array.Test(in) {
			t.Errorf("Array(%#v): expected failure", in)
		}
	}
}

func TestIterable(t *testing.T) {
	var seq iter.Seq[int] = func(func(int) bool) {}
	passes := []any{
		[]int{}, [1]int{}, map[string]int{}, make(chan int),
		seq, maps.Keys(map[string]int{}), maps.All(map[string]int{}),
	}
	for _, in := range passes {
		if !Iterable.Test(in) {
			t.Errorf("Iterable(%T): expected pass", in)
		}
	}
	fails := []any{"abc", 1, nil, struct{}{}, func() {}, func(int) bool { return true }}
	for _, in := range fails {
		if Iterable.Test(in) {
			t.Errorf("Iterable(%T): expected failure", in)
		}
	}
}

func TestDefined(t *testing.T) {
	got, err := Defined.Coerce("I am defined")
	if err != nil || got != "I am defined" {
		t.Errorf("expected value through, got %v %v", got, err)
	}
	for _, in := range []any{0, "", false, struct{}{}} {
		if !Defined.Test(in) {
			t.Errorf("Defined(%#v): expected pass", in)
		}
	}
	var nilMap map[string]int
	var nilErr error
	for _, in := range []any{nil, (*int)(nil), nilMap, []int(nil), (func())(nil), nilErr} {
		if Defined.Test(in) {
			t.Errorf("Defined(%#v): expected failure", in)
		}
	}
}

func TestObject(t *testing.T) {
	obj := map[string]string{"is": "object"}
	got, err := Object.Coerce(obj)
	if err != nil || !reflect.DeepEqual(got, obj) {
		t.Errorf("expected map through, got %v %v", got, err)
	}
	for _, in := range []any{struct{}{}, &struct{}{}, []int{}, [0]int{}} {
		if !Object.Test(in) {
			t.Errorf("Object(%#v): expected pass", in)
		}
	}
	for _, in := range []any{"not an object", 1, nil, (*struct{})(nil), func() {}} {
		if Object.Test(in) {
			t.Errorf("Object(%#v): expected failure", in)
		}
	}
}

func TestFunc(t *testing.T) {
	if !Func.Test(func() {}) {
		t.Error("expected func to pass")
	}
	if Func.Test((func())(nil)) || Func.Test("func") {
		t.Error("expected nil func and string to fail")
	}
}

func TestInstance(t *testing.T) {
	when := time.UnixMilli(1)
	got, err := Instance[time.Time]().Coerce(when)
	if err != nil || !got.Equal(when) {
		t.Errorf("expected time through, got %v %v", got, err)
	}

	if !Instance[error]().Test(io.EOF) {
		t.Error("expected io.EOF to be an instance of error")
	}

	_, err = Instance[error]().Coerce(when)
	var coerceErr *Error
	if !errors.As(err, &coerceErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if coerceErr.Expected != "an instance of error" {
		t.Errorf("unexpected expectation %q", coerceErr.Expected)
	}
	if Instance[error]().Test(nil) {
		t.Error("expected nil not to be an instance of error")
	}
}
