package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/quickqr/internal/qr"
)

// SVG renders opts as a vector document. Module outlines are simplified to
// rects, rounded rects and circles; the logo is referenced by URL.
func (r *Raster) SVG(opts qr.RenderOptions) ([]byte, error) {
	st := opts.Style
	bits, err := buildMatrix(opts.Data, st.ErrorCorrectionLevel)
	if err != nil {
		return nil, err
	}
	l, err := newLayout(bits, st)
	if err != nil {
		return nil, err
	}
	for _, c := range []string{st.Background.Color, st.Dots.Color, st.CornersSquare.Color, st.CornersDot.Color} {
		if _, err := parseColor(c); err != nil {
			return nil, err
		}
	}

	var logoBox rectF
	if st.Image.URL != "" {
		logoBox = l.logoBox(st.LogoRatio())
		if st.Image.HideBackgroundDots {
			l.hide = logoBox.grow(float64(st.Image.Margin))
		}
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%d" height="%d" viewBox="0 0 %d %d">`, st.Size, st.Size, st.Size, st.Size)
	b.WriteString("<defs>")
	dotsFill := svgFill(&b, "dots-fill", st.Dots.Color, st.Dots.UseGradient, st.Dots.Gradient, l.inner())
	cornerFills := make([]string, 0, 3)
	for i, o := range l.finderOrigins() {
		box := l.module(o[0], o[1])
		box.w, box.h = l.cell*finderSize, l.cell*finderSize
		cornerFills = append(cornerFills,
			svgFill(&b, fmt.Sprintf("corner-fill-%d", i), st.CornersSquare.Color, st.CornersSquare.UseGradient, st.CornersSquare.Gradient, box))
	}
	b.WriteString("</defs>")

	rx := st.Background.Round * l.size / 2
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%s" height="%s" rx="%s" fill="%s"/>`, num(l.size), num(l.size), num(rx), attr(st.Background.Color))

	fmt.Fprintf(&b, `<g fill="%s">`, dotsFill)
	for row := 0; row < l.n; row++ {
		for col := 0; col < l.n; col++ {
			if !l.dark[row][col] || l.isFinder(row, col) || l.hidden(row, col) {
				continue
			}
			writeModule(&b, st.Dots.Type, l.module(row, col))
		}
	}
	b.WriteString("</g>")

	for i, o := range l.finderOrigins() {
		box := l.module(o[0], o[1])
		box.w, box.h = l.cell*finderSize, l.cell*finderSize
		writeCornerSquare(&b, st.CornersSquare.Type, box, l.cell, cornerFills[i])

		dot := l.module(o[0]+2, o[1]+2)
		dot.w, dot.h = l.cell*3, l.cell*3
		if st.CornersDot.Type == qr.CornerDotSquare {
			fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`, num(dot.x), num(dot.y), num(dot.w), num(dot.h), attr(st.CornersDot.Color))
		} else {
			fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`, num(dot.x+dot.w/2), num(dot.y+dot.h/2), num(dot.w/2), attr(st.CornersDot.Color))
		}
	}

	if logoBox.w > 0 {
		fmt.Fprintf(&b, `<image x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid meet" xlink:href="%s"/>`,
			num(logoBox.x), num(logoBox.y), num(logoBox.w), num(logoBox.h), attr(st.Image.URL))
	}
	b.WriteString("</svg>")
	return b.Bytes(), nil
}

// svgFill writes a gradient definition when needed and returns the fill
// attribute value.
func svgFill(b *bytes.Buffer, id, solid string, useGradient bool, g qr.Gradient, box rectF) string {
	if !useGradient {
		return attr(solid)
	}
	cx, cy := box.x+box.w/2, box.y+box.h/2
	stops := fmt.Sprintf(`<stop offset="0" stop-color="%s"/><stop offset="1" stop-color="%s"/>`, attr(g.StartColor), attr(g.EndColor))
	if g.Type == qr.GradientRadial {
		fmt.Fprintf(b, `<radialGradient id="%s" gradientUnits="userSpaceOnUse" cx="%s" cy="%s" r="%s">%s</radialGradient>`,
			id, num(cx), num(cy), num(math.Hypot(box.w, box.h)/2), stops)
	} else {
		dx, dy := math.Cos(g.Rotation), math.Sin(g.Rotation)
		half := (box.w*math.Abs(dx) + box.h*math.Abs(dy)) / 2
		fmt.Fprintf(b, `<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%s" y1="%s" x2="%s" y2="%s">%s</linearGradient>`,
			id, num(cx-dx*half), num(cy-dy*half), num(cx+dx*half), num(cy+dy*half), stops)
	}
	return "url(#" + id + ")"
}

func writeModule(b *bytes.Buffer, t qr.DotType, m rectF) {
	switch t {
	case qr.DotsDots:
		fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="%s"/>`, num(m.x+m.w/2), num(m.y+m.h/2), num(m.w/2))
	case qr.DotsSquare:
		fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s"/>`, num(m.x), num(m.y), num(m.w), num(m.h))
	default:
		radius := 0.3
		if t == qr.DotsExtraRounded {
			radius = 0.5
		}
		fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s"/>`, num(m.x), num(m.y), num(m.w), num(m.h), num(m.w*radius))
	}
}

// writeCornerSquare draws the finder ring as one even-odd path.
func writeCornerSquare(b *bytes.Buffer, t qr.CornerSquareType, box rectF, cell float64, fill string) {
	in := rectF{box.x + cell, box.y + cell, box.w - 2*cell, box.h - 2*cell}
	var d string
	switch t {
	case qr.CornerSquareSquare:
		d = rectPath(box, 0) + rectPath(in, 0)
	case qr.CornerSquareDot:
		d = circlePath(box) + circlePath(in)
	default:
		d = rectPath(box, 2.5*cell) + rectPath(in, 1.5*cell)
	}
	fmt.Fprintf(b, `<path fill-rule="evenodd" fill="%s" d="%s"/>`, fill, d)
}

func rectPath(r rectF, rad float64) string {
	if rad <= 0 {
		return fmt.Sprintf("M%s %sh%sv%sh%sz", num(r.x), num(r.y), num(r.w), num(r.h), num(-r.w))
	}
	return fmt.Sprintf("M%s %sh%sa%s %s 0 0 1 %s %sv%sa%s %s 0 0 1 %s %sh%sa%s %s 0 0 1 %s %sv%sa%s %s 0 0 1 %s %sz",
		num(r.x+rad), num(r.y),
		num(r.w-2*rad), num(rad), num(rad), num(rad), num(rad),
		num(r.h-2*rad), num(rad), num(rad), num(-rad), num(rad),
		num(-(r.w - 2*rad)), num(rad), num(rad), num(-rad), num(-rad),
		num(-(r.h - 2*rad)), num(rad), num(rad), num(rad), num(-rad),
	)
}

func circlePath(r rectF) string {
	rad := r.w / 2
	cx, cy := r.x+rad, r.y+rad
	return fmt.Sprintf("M%s %sa%s %s 0 1 0 %s 0a%s %s 0 1 0 %s 0z",
		num(cx-rad), num(cy), num(rad), num(rad), num(2*rad), num(rad), num(rad), num(-2*rad))
}

func num(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "" || s == "-0" {
		return "0"
	}
	return s
}

func attr(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
