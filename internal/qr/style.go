package qr

import (
	"regexp"
)

// DotType is the shape of data modules.
type DotType string

const (
	DotsRounded       DotType = "rounded"
	DotsDots          DotType = "dots"
	DotsClassy        DotType = "classy"
	DotsClassyRounded DotType = "classy-rounded"
	DotsSquare        DotType = "square"
	DotsExtraRounded  DotType = "extra-rounded"
)

// CornerSquareType is the shape of the outer 7x7 finder ring.
type CornerSquareType string

const (
	CornerSquareDot          CornerSquareType = "dot"
	CornerSquareSquare       CornerSquareType = "square"
	CornerSquareExtraRounded CornerSquareType = "extra-rounded"
)

// CornerDotType is the shape of the inner 3x3 finder eye.
type CornerDotType string

const (
	CornerDotDot    CornerDotType = "dot"
	CornerDotSquare CornerDotType = "square"
)

type GradientType string

const (
	GradientLinear GradientType = "linear"
	GradientRadial GradientType = "radial"
)

// ECLevel is the error correction level of the symbol.
type ECLevel string

const (
	ECLow      ECLevel = "L"
	ECMedium   ECLevel = "M"
	ECQuartile ECLevel = "Q"
	ECHigh     ECLevel = "H"
)

// Recovery returns the share of the symbol, in percent, that can be
// restored after damage.
func (l ECLevel) Recovery() int {
	switch l {
	case ECLow:
		return 7
	case ECMedium:
		return 15
	case ECQuartile:
		return 25
	case ECHigh:
		return 30
	}
	return 0
}

// Default style values.
const (
	DefaultSize               = 300
	MaxSize                   = 4096
	DefaultMargin             = 10
	DefaultDotsColor          = "#212529"
	DefaultCornersColor       = "#20c997"
	DefaultBackgroundColor    = "#ffffff"
	DefaultImageSize          = 0.4
	DefaultImageMargin        = 5
	DefaultGradientRotation   = 0
	DefaultErrorCorrection    = ECHigh
	MinImageSize              = 0.1
	MaxImageSize              = 0.5
	defaultGradientEndColor   = DefaultCornersColor
	defaultGradientStartColor = DefaultDotsColor
)

// Gradient is a two stop fill. Rotation is in radians.
type Gradient struct {
	Type       GradientType `json:"type" toml:"type"`
	Rotation   float64      `json:"rotation" toml:"rotation"`
	StartColor string       `json:"startColor" toml:"startColor"`
	EndColor   string       `json:"endColor" toml:"endColor"`
}

type DotsOptions struct {
	Type        DotType  `json:"type" toml:"type"`
	Color       string   `json:"color" toml:"color"`
	UseGradient bool     `json:"useGradient" toml:"useGradient"`
	Gradient    Gradient `json:"gradient" toml:"gradient"`
}

type CornersSquareOptions struct {
	Type        CornerSquareType `json:"type" toml:"type"`
	Color       string           `json:"color" toml:"color"`
	UseGradient bool             `json:"useGradient" toml:"useGradient"`
	Gradient    Gradient         `json:"gradient" toml:"gradient"`
}

type CornersDotOptions struct {
	Type  CornerDotType `json:"type" toml:"type"`
	Color string        `json:"color" toml:"color"`
}

type BackgroundOptions struct {
	Color string `json:"color" toml:"color"`
	// Round is the corner radius as a share of half the image side.
	Round float64 `json:"round" toml:"round"`
}

// ImageOptions describe the logo drawn over the centre of the symbol.
type ImageOptions struct {
	URL                string  `json:"url" toml:"url"`
	ImageSize          float64 `json:"imageSize" toml:"imageSize"`
	Margin             int     `json:"margin" toml:"margin"`
	HideBackgroundDots bool    `json:"hideBackgroundDots" toml:"hideBackgroundDots"`
}

// Style is everything that controls how a symbol looks. The zero value is
// not useful; start from DefaultStyle.
type Style struct {
	Size                 int                  `json:"size" toml:"size"`
	Margin               int                  `json:"margin" toml:"margin"`
	ErrorCorrectionLevel ECLevel              `json:"errorCorrectionLevel" toml:"errorCorrectionLevel"`
	Dots                 DotsOptions          `json:"dotsOptions" toml:"dotsOptions"`
	CornersSquare        CornersSquareOptions `json:"cornersSquareOptions" toml:"cornersSquareOptions"`
	CornersDot           CornersDotOptions    `json:"cornersDotOptions" toml:"cornersDotOptions"`
	Background           BackgroundOptions    `json:"backgroundOptions" toml:"backgroundOptions"`
	Image                ImageOptions         `json:"imageOptions" toml:"imageOptions"`
}

func defaultGradient() Gradient {
	return Gradient{
		Type:       GradientLinear,
		Rotation:   DefaultGradientRotation,
		StartColor: defaultGradientStartColor,
		EndColor:   defaultGradientEndColor,
	}
}

// DefaultStyle returns the documented default style.
func DefaultStyle() Style {
	return Style{
		Size:                 DefaultSize,
		Margin:               DefaultMargin,
		ErrorCorrectionLevel: DefaultErrorCorrection,
		Dots: DotsOptions{
			Type:     DotsRounded,
			Color:    DefaultDotsColor,
			Gradient: defaultGradient(),
		},
		CornersSquare: CornersSquareOptions{
			Type:     CornerSquareExtraRounded,
			Color:    DefaultCornersColor,
			Gradient: defaultGradient(),
		},
		CornersDot: CornersDotOptions{
			Type:  CornerDotDot,
			Color: DefaultCornersColor,
		},
		Background: BackgroundOptions{Color: DefaultBackgroundColor},
		Image: ImageOptions{
			ImageSize:          DefaultImageSize,
			Margin:             DefaultImageMargin,
			HideBackgroundDots: true,
		},
	}
}

var bareHex = regexp.MustCompile(`^(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// NormalizeColor prefixes '#' to a bare 3 or 6 digit hex string. Anything
// else is returned unchanged.
func NormalizeColor(s string) string {
	if bareHex.MatchString(s) {
		return "#" + s
	}
	return s
}

func (s *Style) SetSize(px int)                          { s.Size = px }
func (s *Style) SetMargin(px int)                        { s.Margin = px }
func (s *Style) SetErrorCorrection(l ECLevel)            { s.ErrorCorrectionLevel = l }
func (s *Style) SetDotsType(t DotType)                   { s.Dots.Type = t }
func (s *Style) SetCornersSquareType(t CornerSquareType) { s.CornersSquare.Type = t }
func (s *Style) SetCornersDotType(t CornerDotType)       { s.CornersDot.Type = t }

// SetDotsColor sets a solid module color and turns the dots gradient off.
func (s *Style) SetDotsColor(c string) {
	s.Dots.Color = NormalizeColor(c)
	s.Dots.UseGradient = false
}

func (s *Style) EnableDotsGradient(on bool) { s.Dots.UseGradient = on }

func (s *Style) SetDotsGradient(g Gradient) {
	g.StartColor = NormalizeColor(g.StartColor)
	g.EndColor = NormalizeColor(g.EndColor)
	s.Dots.Gradient = g
}

// SetCornersSquareColor sets a solid finder color and turns the corner
// gradient off.
func (s *Style) SetCornersSquareColor(c string) {
	s.CornersSquare.Color = NormalizeColor(c)
	s.CornersSquare.UseGradient = false
}

func (s *Style) EnableCornersSquareGradient(on bool) { s.CornersSquare.UseGradient = on }

func (s *Style) SetCornersSquareGradient(g Gradient) {
	g.StartColor = NormalizeColor(g.StartColor)
	g.EndColor = NormalizeColor(g.EndColor)
	s.CornersSquare.Gradient = g
}

func (s *Style) SetCornersDotColor(c string)  { s.CornersDot.Color = NormalizeColor(c) }
func (s *Style) SetBackgroundColor(c string)  { s.Background.Color = NormalizeColor(c) }
func (s *Style) SetBackgroundRound(r float64) { s.Background.Round = r }

func (s *Style) SetLogo(url string)            { s.Image.URL = url }
func (s *Style) SetLogoSize(ratio float64)     { s.Image.ImageSize = ratio }
func (s *Style) SetLogoMargin(px int)          { s.Image.Margin = px }
func (s *Style) SetHideBackgroundDots(on bool) { s.Image.HideBackgroundDots = on }

// LogoRatio returns the logo size clamped to the supported range.
func (s Style) LogoRatio() float64 {
	r := s.Image.ImageSize
	if r < MinImageSize {
		return MinImageSize
	}
	if r > MaxImageSize {
		return MaxImageSize
	}
	return r
}
