// Package render turns render options into pictures. A Renderer mounts a
// Handle on a Surface; the handle redraws on Update and exports the current
// symbol in any supported Format.
//
// The QR module matrix comes from github.com/skip2/go-qrcode; everything
// visual (shapes, gradients, logo, background) is painted here.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/dmitrijs2005/quickqr/internal/qr"
)

var (
	ErrSurfaceDetached = errors.New("surface is not attached")
	ErrDestroyed       = errors.New("handle destroyed")
	ErrEmptyPayload    = errors.New("nothing to encode")
	ErrTooSmall        = errors.New("size too small for symbol")
	ErrTooLarge        = errors.New("size too large")
	ErrUnknownFormat   = errors.New("unknown export format")
)

// Surface is a place a rendered frame can be shown.
type Surface interface {
	// Attached reports whether the surface exists and can take frames.
	Attached() bool
	Show(img image.Image) error
	Clear() error
}

// Renderer constructs handles bound to surfaces.
type Renderer interface {
	Mount(ctx context.Context, s Surface, opts qr.RenderOptions) (Handle, error)
}

// Handle is one live rendering on one surface.
type Handle interface {
	// Update redraws with the complete options. On failure the previous
	// frame stays on the surface.
	Update(ctx context.Context, opts qr.RenderOptions) error
	// Export encodes the current options in format f.
	Export(ctx context.Context, f Format) ([]byte, error)
	// Destroy releases the handle. It is safe to call more than once.
	Destroy()
}

// Format is an export file format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
	FormatSVG  Format = "svg"
)

var Formats = []Format{FormatPNG, FormatSVG, FormatJPEG, FormatWebP}

// ParseFormat accepts format names and common file extensions.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png", "":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	case "svg":
		return FormatSVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) Extension() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + string(f)
}

func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "image/png"
	}
}
