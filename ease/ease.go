// Package ease provides the standard easing curves. Each maps progress in 0..1
// to an eased value that starts at 0 and ends at 1; the back and elastic
// curves overshoot in between.
package ease

import (
	"math"
	"slices"
	"strings"

	"github.com/zoobzio/coercez"
)

// Func is an easing curve.
type Func func(x float64) float64

const (
	c1 = 1.70158
	c2 = c1 * 1.525
	c3 = c1 + 1
	c4 = (2 * math.Pi) / 3
	c5 = (2 * math.Pi) / 4.5
)

// Polynomial curves.
var (
	InQuad    Func = func(x float64) float64 { return x * x }
	OutQuad   Func = func(x float64) float64 { return 1 - (1-x)*(1-x) }
	InOutQuad Func = func(x float64) float64 {
		if x < 0.5 {
			return 2 * x * x
		}
		return 1 - math.Pow(-2*x+2, 2)/2
	}

	InCubic    Func = func(x float64) float64 { return x * x * x }
	OutCubic   Func = func(x float64) float64 { return 1 - math.Pow(1-x, 3) }
	InOutCubic Func = func(x float64) float64 {
		if x < 0.5 {
			return 4 * x * x * x
		}
		return 1 - math.Pow(-2*x+2, 3)/2
	}

	InQuart    Func = func(x float64) float64 { return x * x * x * x }
	OutQuart   Func = func(x float64) float64 { return 1 - math.Pow(1-x, 4) }
	InOutQuart Func = func(x float64) float64 {
		if x < 0.5 {
			return 8 * x * x * x * x
		}
		return 1 - math.Pow(-2*x+2, 4)/2
	}

	InQuint    Func = func(x float64) float64 { return x * x * x * x * x }
	OutQuint   Func = func(x float64) float64 { return 1 - math.Pow(1-x, 5) }
	InOutQuint Func = func(x float64) float64 {
		if x < 0.5 {
			return 16 * x * x * x * x * x
		}
		return 1 - math.Pow(-2*x+2, 5)/2
	}
)

// Trigonometric, exponential and circular curves.
var (
	InSine    Func = func(x float64) float64 { return 1 - math.Cos((x*math.Pi)/2) }
	OutSine   Func = func(x float64) float64 { return math.Sin((x * math.Pi) / 2) }
	InOutSine Func = func(x float64) float64 { return -(math.Cos(math.Pi*x) - 1) / 2 }

	InExpo Func = func(x float64) float64 {
		if x == 0 {
			return 0
		}
		return math.Pow(2, 10*x-10)
	}
	OutExpo Func = func(x float64) float64 {
		if x == 1 {
			return 1
		}
		return 1 - math.Pow(2, -10*x)
	}
	InOutExpo Func = func(x float64) float64 {
		switch {
		case x == 0:
			return 0
		case x == 1:
			return 1
		case x < 0.5:
			return math.Pow(2, 20*x-10) / 2
		}
		return (2 - math.Pow(2, -20*x+10)) / 2
	}

	InCirc    Func = func(x float64) float64 { return 1 - math.Sqrt(1-math.Pow(x, 2)) }
	OutCirc   Func = func(x float64) float64 { return math.Sqrt(1 - math.Pow(x-1, 2)) }
	InOutCirc Func = func(x float64) float64 {
		if x < 0.5 {
			return (1 - math.Sqrt(1-math.Pow(2*x, 2))) / 2
		}
		return (math.Sqrt(1-math.Pow(-2*x+2, 2)) + 1) / 2
	}
)

// Overshooting curves.
var (
	InBack    Func = func(x float64) float64 { return c3*x*x*x - c1*x*x }
	OutBack   Func = func(x float64) float64 { return 1 + c3*math.Pow(x-1, 3) + c1*math.Pow(x-1, 2) }
	InOutBack Func = func(x float64) float64 {
		if x < 0.5 {
			return (math.Pow(2*x, 2) * ((c2+1)*2*x - c2)) / 2
		}
		return (math.Pow(2*x-2, 2)*((c2+1)*(x*2-2)+c2) + 2) / 2
	}

	InElastic Func = func(x float64) float64 {
		if x == 0 || x == 1 {
			return x
		}
		return -math.Pow(2, 10*x-10) * math.Sin((x*10-10.75)*c4)
	}
	OutElastic Func = func(x float64) float64 {
		if x == 0 || x == 1 {
			return x
		}
		return math.Pow(2, -10*x)*math.Sin((x*10-0.75)*c4) + 1
	}
	InOutElastic Func = func(x float64) float64 {
		switch {
		case x == 0 || x == 1:
			return x
		case x < 0.5:
			return -(math.Pow(2, 20*x-10) * math.Sin((20*x-11.125)*c5)) / 2
		}
		return (math.Pow(2, -20*x+10)*math.Sin((20*x-11.125)*c5))/2 + 1
	}

	InBounce    Func = func(x float64) float64 { return 1 - OutBounce(1-x) }
	OutBounce   Func = outBounce
	InOutBounce Func = func(x float64) float64 {
		if x < 0.5 {
			return (1 - OutBounce(1-2*x)) / 2
		}
		return (1 + OutBounce(2*x-1)) / 2
	}
)

func outBounce(x float64) float64 {
	const (
		n1 = 7.5625
		d1 = 2.75
	)
	switch {
	case x < 1/d1:
		return n1 * x * x
	case x < 2/d1:
		x -= 1.5 / d1
		return n1*x*x + 0.75
	case x < 2.5/d1:
		x -= 2.25 / d1
		return n1*x*x + 0.9375
	}
	x -= 2.625 / d1
	return n1*x*x + 0.984375
}

var curves = map[string]Func{
	"inquad": InQuad, "outquad": OutQuad, "inoutquad": InOutQuad,
	"incubic": InCubic, "outcubic": OutCubic, "inoutcubic": InOutCubic,
	"inquart": InQuart, "outquart": OutQuart, "inoutquart": InOutQuart,
	"inquint": InQuint, "outquint": OutQuint, "inoutquint": InOutQuint,
	"insine": InSine, "outsine": OutSine, "inoutsine": InOutSine,
	"inexpo": InExpo, "outexpo": OutExpo, "inoutexpo": InOutExpo,
	"incirc": InCirc, "outcirc": OutCirc, "inoutcirc": InOutCirc,
	"inback": InBack, "outback": OutBack, "inoutback": InOutBack,
	"inelastic": InElastic, "outelastic": OutElastic, "inoutelastic": InOutElastic,
	"inbounce": InBounce, "outbounce": OutBounce, "inoutbounce": InOutBounce,
}

// Names lists every curve name accepted by Lookup, sorted.
func Names() []string {
	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var nameNoise = strings.NewReplacer("-", "", "_", "", " ", "")

// Curve resolves a curve by name. Names are case-insensitive, may carry an
// "ease" prefix and may be separated by dashes or underscores, so "InOutQuad",
// "easeInOutQuad" and "in-out-quad" are the same curve.
var Curve = coercez.Apply("ease", func(name string) (Func, error) {
	key := strings.TrimPrefix(nameNoise.Replace(strings.ToLower(strings.TrimSpace(name))), "ease")
	if fn, ok := curves[key]; ok {
		return fn, nil
	}
	return nil, coercez.NewError(name, "an easing curve name")
})

// Lookup returns the curve called name.
func Lookup(name string) (Func, error) {
	return Curve.Coerce(name)
}
