package qr

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrUnknownStyleKey = errors.New("unknown style key")

// MarshalStyle serializes s for persistence.
func MarshalStyle(s Style) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal style: %w", err)
	}
	return b, nil
}

// LoadStyle decodes a persisted style. Absent, null or malformed JSON gives
// exactly DefaultStyle(); otherwise keys that are missing, empty, mistyped or
// out of their enum are back-filled from the defaults.
func LoadStyle(raw []byte) Style {
	s := DefaultStyle()
	if isBlankJSON(raw) {
		return s
	}
	if !json.Valid(raw) {
		return s
	}
	// mistyped keys are skipped by encoding/json, the rest is kept
	_ = json.Unmarshal(raw, &s)
	s.backfill()
	return s
}

func (s *Style) backfill() {
	d := DefaultStyle()

	if s.Size <= 0 || s.Size > MaxSize {
		s.Size = d.Size
	}
	if s.Margin < 0 {
		s.Margin = d.Margin
	}
	if s.ErrorCorrectionLevel.Recovery() == 0 {
		s.ErrorCorrectionLevel = d.ErrorCorrectionLevel
	}

	if !validDotType(s.Dots.Type) {
		s.Dots.Type = d.Dots.Type
	}
	fillColor(&s.Dots.Color, d.Dots.Color)
	s.Dots.Gradient.backfill()

	if !validCornerSquareType(s.CornersSquare.Type) {
		s.CornersSquare.Type = d.CornersSquare.Type
	}
	fillColor(&s.CornersSquare.Color, d.CornersSquare.Color)
	s.CornersSquare.Gradient.backfill()

	if !validCornerDotType(s.CornersDot.Type) {
		s.CornersDot.Type = d.CornersDot.Type
	}
	fillColor(&s.CornersDot.Color, d.CornersDot.Color)
	fillColor(&s.Background.Color, d.Background.Color)

	if s.Image.ImageSize <= 0 {
		s.Image.ImageSize = d.Image.ImageSize
	}
	if s.Image.Margin < 0 {
		s.Image.Margin = d.Image.Margin
	}
}

func (g *Gradient) backfill() {
	d := defaultGradient()
	if g.Type != GradientLinear && g.Type != GradientRadial {
		g.Type = d.Type
	}
	fillColor(&g.StartColor, d.StartColor)
	fillColor(&g.EndColor, d.EndColor)
}

func fillColor(c *string, def string) {
	if strings.TrimSpace(*c) == "" {
		*c = def
		return
	}
	*c = NormalizeColor(*c)
}

func validDotType(t DotType) bool {
	switch t {
	case DotsRounded, DotsDots, DotsClassy, DotsClassyRounded, DotsSquare, DotsExtraRounded:
		return true
	}
	return false
}

func validCornerSquareType(t CornerSquareType) bool {
	switch t {
	case CornerSquareDot, CornerSquareSquare, CornerSquareExtraRounded:
		return true
	}
	return false
}

func validCornerDotType(t CornerDotType) bool {
	return t == CornerDotDot || t == CornerDotSquare
}

type styleSetter func(s *Style, v string) error

func intSetter(set func(*Style, int)) styleSetter {
	return func(s *Style, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("expected integer: %w", err)
		}
		set(s, n)
		return nil
	}
}

func floatSetter(set func(*Style, float64)) styleSetter {
	return func(s *Style, v string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("expected number: %w", err)
		}
		set(s, f)
		return nil
	}
}

func boolSetter(set func(*Style, bool)) styleSetter {
	return func(s *Style, v string) error {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "on", "yes":
			set(s, true)
			return nil
		case "off", "no":
			set(s, false)
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("expected on/off: %w", err)
		}
		set(s, b)
		return nil
	}
}

func stringSetter(set func(*Style, string)) styleSetter {
	return func(s *Style, v string) error {
		set(s, strings.TrimSpace(v))
		return nil
	}
}

// styleSetters backs Style.Set. Enum values are stored as given; the
// renderer falls back to defaults for shapes it does not know.
var styleSetters = map[string]styleSetter{
	"size":   intSetter((*Style).SetSize),
	"margin": intSetter((*Style).SetMargin),
	"ecc":    stringSetter(func(s *Style, v string) { s.SetErrorCorrection(ECLevel(strings.ToUpper(v))) }),

	"dots.type":              stringSetter(func(s *Style, v string) { s.SetDotsType(DotType(v)) }),
	"dots.color":             stringSetter((*Style).SetDotsColor),
	"dots.gradient":          boolSetter((*Style).EnableDotsGradient),
	"dots.gradient.type":     stringSetter(func(s *Style, v string) { s.Dots.Gradient.Type = GradientType(v) }),
	"dots.gradient.rotation": floatSetter(func(s *Style, f float64) { s.Dots.Gradient.Rotation = f }),
	"dots.gradient.start":    stringSetter(func(s *Style, v string) { s.Dots.Gradient.StartColor = NormalizeColor(v) }),
	"dots.gradient.end":      stringSetter(func(s *Style, v string) { s.Dots.Gradient.EndColor = NormalizeColor(v) }),

	"corners.type":              stringSetter(func(s *Style, v string) { s.SetCornersSquareType(CornerSquareType(v)) }),
	"corners.color":             stringSetter((*Style).SetCornersSquareColor),
	"corners.gradient":          boolSetter((*Style).EnableCornersSquareGradient),
	"corners.gradient.type":     stringSetter(func(s *Style, v string) { s.CornersSquare.Gradient.Type = GradientType(v) }),
	"corners.gradient.rotation": floatSetter(func(s *Style, f float64) { s.CornersSquare.Gradient.Rotation = f }),
	"corners.gradient.start":    stringSetter(func(s *Style, v string) { s.CornersSquare.Gradient.StartColor = NormalizeColor(v) }),
	"corners.gradient.end":      stringSetter(func(s *Style, v string) { s.CornersSquare.Gradient.EndColor = NormalizeColor(v) }),

	"cornerdot.type":  stringSetter(func(s *Style, v string) { s.SetCornersDotType(CornerDotType(v)) }),
	"cornerdot.color": stringSetter((*Style).SetCornersDotColor),

	"background.color": stringSetter((*Style).SetBackgroundColor),
	"background.round": floatSetter((*Style).SetBackgroundRound),

	"logo.url":      stringSetter((*Style).SetLogo),
	"logo.size":     floatSetter((*Style).SetLogoSize),
	"logo.margin":   intSetter((*Style).SetLogoMargin),
	"logo.hidedots": boolSetter((*Style).SetHideBackgroundDots),
}

// Set applies a string-keyed edit such as ("dots.color", "000"). Only
// unknown keys and unparsable numbers or booleans are errors.
func (s *Style) Set(key, value string) error {
	set, ok := styleSetters[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStyleKey, key)
	}
	if err := set(s, value); err != nil {
		return fmt.Errorf("style %s: %w", key, err)
	}
	return nil
}

// StyleKeys lists the keys accepted by Style.Set, sorted.
func StyleKeys() []string {
	keys := make([]string, 0, len(styleSetters))
	for k := range styleSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
