// Package interp maps fractions onto ranges and back.
//
// A fraction outside 0..1 yields a value outside the range; clamp first when
// that matters:
//
//	fraction := coercez.To[float64](coercez.Numeric, interp.Clamp01)
package interp

import (
	"math"
	"math/rand/v2"

	"github.com/zoobzio/coercez"
)

// Range returns a function mapping a fraction onto from..to.
//
//	interp.Range(0, 10)(0.5)  // 5
//	interp.Range(0, 10)(-0.5) // -5
func Range(from, to float64) func(fraction float64) float64 {
	return func(fraction float64) float64 {
		return from + (to-from)*fraction
	}
}

// Scale returns a function giving the fraction of value within from..to. It is
// the inverse of Range.
//
//	interp.Scale(0, 10)(15) // 1.5
func Scale(from, to float64) func(value float64) float64 {
	return func(value float64) float64 {
		return (value - from) / (to - from)
	}
}

// Clamp returns a mutator bounding a number to lo..hi.
func Clamp(lo, hi float64) coercez.Coercer[float64, float64] {
	return coercez.Transform("clamp", func(value float64) float64 {
		return math.Min(hi, math.Max(lo, value))
	})
}

// Clamp01 bounds a number to 0..1.
var Clamp01 = Clamp(0, 1)

// Divide splits 0..1 into n equal segments and returns a Scale for each. An
// overlap above 1 stretches every segment past the start of the next one.
//
//	scales := interp.Divide(3, 1)
//	scales[1](1.0 / 3) // 0
//	scales[1](2.0 / 3) // 1
func Divide(n int, overlap float64) []func(float64) float64 {
	if n <= 0 {
		return nil
	}
	unit := 1 / float64(n)
	scales := make([]func(float64) float64, n)
	for i := range scales {
		start := float64(i) * unit
		scales[i] = Scale(start, start+unit*overlap)
	}
	return scales
}

// RandomIntInclusive returns a random integer in [lo, hi].
func RandomIntInclusive(lo, hi int) int {
	return int(math.Floor(rand.Float64()*float64(hi-lo+1) + float64(lo)))
}

// RandomIntExclusive returns a random integer in [lo, hi).
func RandomIntExclusive(lo, hi int) int {
	return int(math.Floor(rand.Float64()*float64(hi-lo) + float64(lo)))
}
