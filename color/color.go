// Package color converts colors between hex codes, RGB triples and 24-bit
// integers, and blends between two colors.
package color

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/zoobzio/coercez"
	"github.com/zoobzio/coercez/interp"
)

var shortHex = regexp.MustCompile(`(?i)^([a-f\d])([a-f\d])([a-f\d])$`)

// Hex converts a hex color code, "#0033FF" or the shorthand "#03F", to an
// integer.
var Hex = coercez.Apply("hex", func(value string) (int, error) {
	cleaned := shortHex.ReplaceAllString(strings.TrimPrefix(value, "#"), "$1$1$2$2$3$3")
	if len(cleaned) != 6 {
		return 0, coercez.NewError(value, "a hex color code")
	}
	n, err := strconv.ParseUint(cleaned, 16, 24)
	if err != nil {
		return 0, &coercez.Error{Value: value, Expected: "a hex color code", Err: err}
	}
	return int(n), nil
})

// Parse converts an integer, a hex color code, or an RGB triple given as a
// []int or [3]int to an integer.
var Parse = coercez.Apply("color", func(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case string:
		return Hex.Coerce(v)
	case []int:
		if len(v) == 3 {
			return FromRGB(v[0], v[1], v[2]), nil
		}
	case [3]int:
		return FromRGB(v[0], v[1], v[2]), nil
	}
	if rv := reflect.ValueOf(value); value != nil && rv.CanInt() {
		return int(rv.Int()), nil
	}
	return 0, coercez.NewError(value, "a color")
})

// FromHex converts a hex color code to an integer.
//
//	color.FromHex("#f00") // 0xff0000
func FromHex(hex string) (int, error) {
	return Hex.Coerce(hex)
}

// FromRGB packs red, green and blue channels into an integer.
func FromRGB(r, g, b int) int {
	return r<<16 | g<<8 | b
}

// ToHex formats a color as a six digit hex code.
//
//	color.ToHex(0xff0000) // "#ff0000"
func ToHex(c int) string {
	return fmt.Sprintf("#%06x", c&0xffffff)
}

// ToRGB unpacks a color into red, green and blue channels.
func ToRGB(c int) [3]int {
	return [3]int{c >> 16, (c >> 8) & 0xff, c & 0xff}
}

// Blend returns a function blending from a to b by a fraction. Clamp the
// fraction first to stay between the two colors.
//
//	blender, _ := color.Blend("#000", "#888")
//	color.ToHex(blender(0.5)) // "#444444"
func Blend(a, b any) (func(fraction float64) int, error) {
	from, err := Parse.Coerce(a)
	if err != nil {
		return nil, err
	}
	to, err := Parse.Coerce(b)
	if err != nil {
		return nil, err
	}
	start, end := ToRGB(from), ToRGB(to)
	var channels [3]func(float64) float64
	for i := range channels {
		channels[i] = interp.Range(float64(start[i]), float64(end[i]))
	}
	return func(fraction float64) int {
		return FromRGB(
			int(channels[0](fraction)),
			int(channels[1](fraction)),
			int(channels[2](fraction)),
		)
	}, nil
}
