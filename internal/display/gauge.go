package display

import (
	"math"
	"strings"

	"github.com/cwbudde/algo-tuner/measure/tuning"
)

// Gauge draws a horizontal deviation meter of the given width. The needle
// sits at the centre for 0 cents and at either end for ±limit or beyond.
// NaN draws no needle.
//
//	Gauge(0, 50, 11)   == "[-----*-----]"
//	Gauge(-50, 50, 11) == "[*----|-----]"
func Gauge(cents, limit float64, width int) string {
	if width < 3 {
		width = 3
	}
	if width%2 == 0 {
		width++
	}

	mid := width / 2
	pos := -1
	if limit > 0 && !math.IsNaN(cents) {
		c := tuning.ClampCents(cents, limit)
		pos = mid + int(math.Round(c/limit*float64(mid)))
	}

	var b strings.Builder
	b.Grow(width + 2)
	b.WriteByte('[')
	for i := range width {
		switch {
		case i == pos:
			b.WriteByte('*')
		case i == mid:
			b.WriteByte('|')
		default:
			b.WriteByte('-')
		}
	}
	b.WriteByte(']')

	return b.String()
}
