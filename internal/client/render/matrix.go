package render

import (
	"fmt"
	"image"
	"math"

	"github.com/dmitrijs2005/quickqr/internal/qr"
	qrcode "github.com/skip2/go-qrcode"
)

// finderSize is the side of a finder pattern in modules.
const finderSize = 7

func recoveryLevel(l qr.ECLevel) qrcode.RecoveryLevel {
	switch l {
	case qr.ECLow:
		return qrcode.Low
	case qr.ECMedium:
		return qrcode.Medium
	case qr.ECQuartile:
		return qrcode.High
	default:
		return qrcode.Highest
	}
}

// buildMatrix returns the dark/light module grid without quiet zone; the
// margin is painted by the layout instead.
func buildMatrix(data string, level qr.ECLevel) ([][]bool, error) {
	if data == "" {
		return nil, ErrEmptyPayload
	}
	q, err := qrcode.New(data, recoveryLevel(level))
	if err != nil {
		return nil, fmt.Errorf("encode symbol: %w", err)
	}
	q.DisableBorder = true
	return q.Bitmap(), nil
}

type rectF struct {
	x, y, w, h float64
}

func (r rectF) intersects(o rectF) bool {
	return r.x < o.x+o.w && o.x < r.x+r.w && r.y < o.y+o.h && o.y < r.y+r.h
}

func (r rectF) grow(d float64) rectF {
	return rectF{r.x - d, r.y - d, r.w + 2*d, r.h + 2*d}
}

// layout maps modules to pixel space.
type layout struct {
	n      int
	dark   [][]bool
	size   float64
	margin float64
	cell   float64
	// hide is the area in which data modules are not drawn; zero when the
	// logo does not hide dots.
	hide rectF
}

func newLayout(bits [][]bool, st qr.Style) (*layout, error) {
	n := len(bits)
	if st.Size > qr.MaxSize {
		return nil, fmt.Errorf("%w: %dpx, at most %dpx", ErrTooLarge, st.Size, qr.MaxSize)
	}
	margin := st.Margin
	if margin < 0 {
		margin = 0
	}
	inner := st.Size - 2*margin
	if n == 0 || inner < n {
		return nil, fmt.Errorf("%w: %dpx for %d modules", ErrTooSmall, st.Size, n)
	}
	return &layout{
		n:      n,
		dark:   bits,
		size:   float64(st.Size),
		margin: float64(margin),
		cell:   float64(inner) / float64(n),
	}, nil
}

func (l *layout) isDark(r, c int) bool {
	if r < 0 || c < 0 || r >= l.n || c >= l.n {
		return false
	}
	return l.dark[r][c]
}

func (l *layout) module(r, c int) rectF {
	return rectF{l.margin + float64(c)*l.cell, l.margin + float64(r)*l.cell, l.cell, l.cell}
}

func (l *layout) inner() rectF {
	return rectF{l.margin, l.margin, l.cell * float64(l.n), l.cell * float64(l.n)}
}

// finderOrigins are the top-left modules of the three finder patterns.
func (l *layout) finderOrigins() [][2]int {
	return [][2]int{{0, 0}, {0, l.n - finderSize}, {l.n - finderSize, 0}}
}

func (l *layout) isFinder(r, c int) bool {
	for _, o := range l.finderOrigins() {
		if r >= o[0] && r < o[0]+finderSize && c >= o[1] && c < o[1]+finderSize {
			return true
		}
	}
	return false
}

// logoBox is the square reserved for the logo, centred on the symbol.
func (l *layout) logoBox(ratio float64) rectF {
	in := l.inner()
	side := in.w * ratio
	return rectF{in.x + (in.w-side)/2, in.y + (in.h-side)/2, side, side}
}

// fitRect places an image of bounds b inside box keeping its aspect ratio.
func fitRect(box rectF, b image.Rectangle) image.Rectangle {
	w, h := float64(b.Dx()), float64(b.Dy())
	if w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	scale := math.Min(box.w/w, box.h/h)
	dw, dh := w*scale, h*scale
	x := box.x + (box.w-dw)/2
	y := box.y + (box.h-dh)/2
	return image.Rect(int(math.Round(x)), int(math.Round(y)), int(math.Round(x+dw)), int(math.Round(y+dh)))
}

func (l *layout) hidden(r, c int) bool {
	if l.hide.w <= 0 {
		return false
	}
	return l.module(r, c).intersects(l.hide)
}
