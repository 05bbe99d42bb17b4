package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/dmitrijs2005/quickqr/internal/qr"
)

// paint is a solid color or a two stop gradient laid over box.
type paint struct {
	solid color.NRGBA
	grad  *gradient
}

type gradient struct {
	radial     bool
	start, end color.NRGBA
	cx, cy     float64
	dx, dy     float64
	half       float64
	radius     float64
}

func newPaint(solid string, useGradient bool, g qr.Gradient, box rectF) (paint, error) {
	if !useGradient {
		c, err := parseColor(solid)
		if err != nil {
			return paint{}, err
		}
		return paint{solid: c}, nil
	}

	start, err := parseColor(g.StartColor)
	if err != nil {
		return paint{}, fmt.Errorf("gradient start: %w", err)
	}
	end, err := parseColor(g.EndColor)
	if err != nil {
		return paint{}, fmt.Errorf("gradient end: %w", err)
	}
	dx, dy := math.Cos(g.Rotation), math.Sin(g.Rotation)
	gr := &gradient{
		radial: g.Type == qr.GradientRadial,
		start:  start,
		end:    end,
		cx:     box.x + box.w/2,
		cy:     box.y + box.h/2,
		dx:     dx,
		dy:     dy,
		// projection of the box corners on the gradient axis
		half:   (box.w*math.Abs(dx) + box.h*math.Abs(dy)) / 2,
		radius: math.Hypot(box.w, box.h) / 2,
	}
	return paint{grad: gr}, nil
}

func (p paint) at(x, y float64) color.NRGBA {
	g := p.grad
	if g == nil {
		return p.solid
	}
	var t float64
	if g.radial {
		t = math.Hypot(x-g.cx, y-g.cy) / g.radius
	} else if g.half > 0 {
		t = 0.5 + ((x-g.cx)*g.dx+(y-g.cy)*g.dy)/(2*g.half)
	}
	return lerpColor(g.start, g.end, t)
}

// fill paints the part of box covered by shape, sampling pixel centres.
func fill(img *image.RGBA, box rectF, shape shapeFn, p paint) {
	bounds := img.Bounds()
	minX, maxX := int(math.Floor(box.x)), int(math.Ceil(box.x+box.w))
	minY, maxY := int(math.Floor(box.y)), int(math.Ceil(box.y+box.h))
	for py := minY; py < maxY; py++ {
		for px := minX; px < maxX; px++ {
			if !image.Pt(px, py).In(bounds) {
				continue
			}
			cx, cy := float64(px)+0.5, float64(py)+0.5
			if shape((cx-box.x)/box.w, (cy-box.y)/box.h) {
				blendOver(img, px, py, p.at(cx, cy))
			}
		}
	}
}

func blendOver(img *image.RGBA, x, y int, src color.NRGBA) {
	if src.A == 0xff {
		img.SetRGBA(x, y, color.RGBA{src.R, src.G, src.B, 0xff})
		return
	}
	if src.A == 0 {
		return
	}
	dst := img.RGBAAt(x, y)
	a := float64(src.A) / 255
	mix := func(s, d uint8) uint8 { return uint8(float64(s)*a + float64(d)*(1-a) + 0.5) }
	img.SetRGBA(x, y, color.RGBA{
		R: mix(src.R, dst.R),
		G: mix(src.G, dst.G),
		B: mix(src.B, dst.B),
		A: uint8(float64(src.A) + float64(dst.A)*(1-a) + 0.5),
	})
}

// flatten composites img over an opaque background, for formats without
// alpha.
func flatten(img image.Image, bg color.Color) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, bg)
		}
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			blendOver(out, x, y, color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA))
		}
	}
	return out
}
