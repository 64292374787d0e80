// Package window provides the analysis windows an estimator may apply to a
// block before correlating it.
package window

import (
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

var names = map[Type]string{
	TypeRectangular: "rectangular",
	TypeHann:        "hann",
	TypeHamming:     "hamming",
	TypeBlackman:    "blackman",
}

// String returns the lower-case name used in configuration files.
func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "unknown"
}

// ParseType resolves a window name. The empty string means rectangular.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "none" {
		return TypeRectangular, nil
	}
	for t, n := range names {
		if n == name {
			return t, nil
		}
	}
	return TypeRectangular, unknownName(name)
}

// Generate returns symmetric window coefficients of the given length.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out
	}

	den := float64(length - 1)
	for i := range out {
		out[i] = eval(t, float64(i)/den)
	}

	return out
}

// Apply multiplies buf in-place by the selected window.
// Rectangular is a no-op.
func Apply(t Type, buf []float64) {
	if len(buf) == 0 || t == TypeRectangular {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf)))
}

// Cache keeps the most recently generated coefficients so a stream of
// equally sized blocks pays for the cosines once. Not safe for concurrent use.
type Cache struct {
	typ    Type
	coeffs []float64
}

// Apply multiplies buf in-place by the window of type t, regenerating the
// coefficients only when the type or length changes.
func (c *Cache) Apply(t Type, buf []float64) {
	if len(buf) == 0 || t == TypeRectangular {
		return
	}

	if c.typ != t || len(c.coeffs) != len(buf) {
		c.typ = t
		c.coeffs = Generate(t, len(buf))
	}

	vecmath.MulBlockInPlace(buf, c.coeffs)
}

// eval evaluates the window at normalised position x in [0, 1].
func eval(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	case TypeHamming:
		return 0.54 - 0.46*math.Cos(2*math.Pi*x)
	case TypeBlackman:
		return 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	default:
		return 1
	}
}
