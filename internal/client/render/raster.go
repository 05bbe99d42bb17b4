package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sync"

	"github.com/HugoSmits86/nativewebp"
	"github.com/dmitrijs2005/quickqr/internal/logging"
	"github.com/dmitrijs2005/quickqr/internal/qr"
	xdraw "golang.org/x/image/draw"
)

const jpegQuality = 92

// Raster is the built-in Renderer. It paints symbols into RGBA images.
type Raster struct {
	logos  LogoLoader
	logger logging.Logger
}

// NewRaster returns a renderer; logos may be nil to ignore logo URLs.
func NewRaster(logos LogoLoader, logger logging.Logger) *Raster {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Raster{logos: logos, logger: logger}
}

func (r *Raster) Mount(ctx context.Context, s Surface, opts qr.RenderOptions) (Handle, error) {
	if s == nil || !s.Attached() {
		return nil, ErrSurfaceDetached
	}
	h := &rasterHandle{r: r, surface: s}
	if err := h.Update(ctx, opts); err != nil {
		_ = s.Clear()
		return h, err
	}
	return h, nil
}

// Render paints opts into a new image.
func (r *Raster) Render(ctx context.Context, opts qr.RenderOptions) (*image.RGBA, error) {
	st := opts.Style
	bits, err := buildMatrix(opts.Data, st.ErrorCorrectionLevel)
	if err != nil {
		return nil, err
	}
	l, err := newLayout(bits, st)
	if err != nil {
		return nil, err
	}

	bg, err := parseColor(st.Background.Color)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	dots, err := newPaint(st.Dots.Color, st.Dots.UseGradient, st.Dots.Gradient, l.inner())
	if err != nil {
		return nil, fmt.Errorf("dots: %w", err)
	}
	eye, err := parseColor(st.CornersDot.Color)
	if err != nil {
		return nil, fmt.Errorf("corner dots: %w", err)
	}

	logo := r.loadLogo(ctx, st)
	var logoBox rectF
	if logo != nil {
		logoBox = l.logoBox(st.LogoRatio())
		if st.Image.HideBackgroundDots {
			l.hide = logoBox.grow(float64(st.Image.Margin))
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, st.Size, st.Size))
	round := st.Background.Round * 0.5
	fill(img, rectF{0, 0, l.size, l.size}, roundedRect([4]float64{round, round, round, round}), paint{solid: bg})

	for row := 0; row < l.n; row++ {
		for col := 0; col < l.n; col++ {
			if !l.dark[row][col] || l.isFinder(row, col) || l.hidden(row, col) {
				continue
			}
			fill(img, l.module(row, col), dotShape(st.Dots.Type, l.neighbors(row, col)), dots)
		}
	}

	for _, o := range l.finderOrigins() {
		box := l.module(o[0], o[1])
		box.w, box.h = l.cell*finderSize, l.cell*finderSize
		corner, err := newPaint(st.CornersSquare.Color, st.CornersSquare.UseGradient, st.CornersSquare.Gradient, box)
		if err != nil {
			return nil, fmt.Errorf("corner squares: %w", err)
		}
		fill(img, box, cornerSquareShape(st.CornersSquare.Type), corner)

		dot := l.module(o[0]+2, o[1]+2)
		dot.w, dot.h = l.cell*3, l.cell*3
		fill(img, dot, cornerDotShape(st.CornersDot.Type), paint{solid: eye})
	}

	if logo != nil {
		xdraw.CatmullRom.Scale(img, fitRect(logoBox, logo.Bounds()), logo, logo.Bounds(), xdraw.Over, nil)
	}

	return img, nil
}

// loadLogo never fails the render: a missing logo only drops the overlay.
func (r *Raster) loadLogo(ctx context.Context, st qr.Style) image.Image {
	if st.Image.URL == "" || r.logos == nil {
		return nil
	}
	logo, err := r.logos.Load(ctx, st.Image.URL)
	if err != nil {
		r.logger.Warn(ctx, "logo unavailable, rendering without it", "url", st.Image.URL, "error", err)
		return nil
	}
	return logo
}

// Export renders opts and encodes the result in format f.
func (r *Raster) Export(ctx context.Context, opts qr.RenderOptions, f Format) ([]byte, error) {
	if f == FormatSVG {
		return r.SVG(opts)
	}
	img, err := r.Render(ctx, opts)
	if err != nil {
		return nil, err
	}
	return encodeImage(img, f)
}

func encodeImage(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatJPEG:
		err = jpeg.Encode(&buf, flatten(img, color.White), &jpeg.Options{Quality: jpegQuality})
	case FormatWebP:
		err = nativewebp.Encode(&buf, img, nil)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

type rasterHandle struct {
	r       *Raster
	surface Surface

	mu        sync.Mutex
	opts      qr.RenderOptions
	frame     image.Image
	destroyed bool
}

func (h *rasterHandle) Update(ctx context.Context, opts qr.RenderOptions) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return ErrDestroyed
	}
	h.opts = opts

	img, err := h.r.Render(ctx, opts)
	if err != nil {
		return err
	}
	h.frame = img
	return h.surface.Show(img)
}

func (h *rasterHandle) Export(ctx context.Context, f Format) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return nil, ErrDestroyed
	}
	if f == FormatSVG {
		return h.r.SVG(h.opts)
	}
	if h.frame == nil {
		img, err := h.r.Render(ctx, h.opts)
		if err != nil {
			return nil, err
		}
		h.frame = img
	}
	return encodeImage(h.frame, f)
}

func (h *rasterHandle) Destroy() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = true
	h.frame = nil
}
