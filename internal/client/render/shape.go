package render

import (
	"math"

	"github.com/dmitrijs2005/quickqr/internal/qr"
)

// shapeFn reports whether the unit-square point (u, v) is covered.
type shapeFn func(u, v float64) bool

func full(u, v float64) bool { return u >= 0 && v >= 0 && u < 1 && v < 1 }

func circle(u, v float64) bool {
	return math.Hypot(u-0.5, v-0.5) <= 0.5
}

// roundedRect covers the unit square with corner radii r in the order
// top-left, top-right, bottom-right, bottom-left.
func roundedRect(r [4]float64) shapeFn {
	return func(u, v float64) bool {
		if !full(u, v) {
			return false
		}
		switch {
		case r[0] > 0 && u < r[0] && v < r[0]:
			return math.Hypot(u-r[0], v-r[0]) <= r[0]
		case r[1] > 0 && u > 1-r[1] && v < r[1]:
			return math.Hypot(u-(1-r[1]), v-r[1]) <= r[1]
		case r[2] > 0 && u > 1-r[2] && v > 1-r[2]:
			return math.Hypot(u-(1-r[2]), v-(1-r[2])) <= r[2]
		case r[3] > 0 && u < r[3] && v > 1-r[3]:
			return math.Hypot(u-r[3], v-(1-r[3])) <= r[3]
		}
		return true
	}
}

type neighbors struct {
	top, right, bottom, left bool
}

func (l *layout) neighbors(r, c int) neighbors {
	return neighbors{
		top:    l.isDark(r-1, c) && !l.isFinder(r-1, c),
		right:  l.isDark(r, c+1) && !l.isFinder(r, c+1),
		bottom: l.isDark(r+1, c) && !l.isFinder(r+1, c),
		left:   l.isDark(r, c-1) && !l.isFinder(r, c-1),
	}
}

func freeCorner(a, b bool, rad float64) float64 {
	if !a && !b {
		return rad
	}
	return 0
}

// dotShape picks the module outline. Rounded variants only round corners
// whose two adjacent sides have no dark neighbour, so runs of modules merge
// into smooth bars.
func dotShape(t qr.DotType, nb neighbors) shapeFn {
	switch t {
	case qr.DotsSquare:
		return full
	case qr.DotsDots:
		return circle
	case qr.DotsClassy:
		return roundedRect([4]float64{
			freeCorner(nb.top, nb.left, 0.5), 0,
			freeCorner(nb.bottom, nb.right, 0.5), 0,
		})
	case qr.DotsClassyRounded:
		return roundedRect([4]float64{
			freeCorner(nb.top, nb.left, 0.5),
			freeCorner(nb.top, nb.right, 0.2),
			freeCorner(nb.bottom, nb.right, 0.5),
			freeCorner(nb.bottom, nb.left, 0.2),
		})
	case qr.DotsExtraRounded:
		return cornerRounded(nb, 0.5)
	default:
		return cornerRounded(nb, 0.3)
	}
}

func cornerRounded(nb neighbors, rad float64) shapeFn {
	return roundedRect([4]float64{
		freeCorner(nb.top, nb.left, rad),
		freeCorner(nb.top, nb.right, rad),
		freeCorner(nb.bottom, nb.right, rad),
		freeCorner(nb.bottom, nb.left, rad),
	})
}

// ring cuts shape inner, scaled into the centre 5/7 of the box, out of
// shape outer.
func ring(outer, inner shapeFn) shapeFn {
	const lo, span = 1.0 / finderSize, 5.0 / finderSize
	return func(u, v float64) bool {
		if !outer(u, v) {
			return false
		}
		return !inner((u-lo)/span, (v-lo)/span)
	}
}

func cornerSquareShape(t qr.CornerSquareType) shapeFn {
	switch t {
	case qr.CornerSquareSquare:
		return ring(full, full)
	case qr.CornerSquareDot:
		return ring(circle, circle)
	default:
		const outer, inner = 2.5 / finderSize, 1.5 / 5
		return ring(
			roundedRect([4]float64{outer, outer, outer, outer}),
			roundedRect([4]float64{inner, inner, inner, inner}),
		)
	}
}

func cornerDotShape(t qr.CornerDotType) shapeFn {
	if t == qr.CornerDotSquare {
		return full
	}
	return circle
}
