package booth

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned for colors that are not #RRGGBB or #RGB
var ErrInvalidColor = errors.New("invalid hex color")

// ErrInvalidGradient is returned for unsupported gradient descriptors
var ErrInvalidGradient = errors.New("invalid gradient")

// BackgroundKind tells solid and gradient backgrounds apart
type BackgroundKind int

const (
	BackgroundSolid BackgroundKind = iota
	BackgroundGradient
)

// GradientDirection is the axis a linear gradient runs along
type GradientDirection string

const (
	ToRight  GradientDirection = "to right"
	ToBottom GradientDirection = "to bottom"
)

// Gradient is a linear gradient with evenly spaced color stops
type Gradient struct {
	Name      string
	Direction GradientDirection
	Stops     []color.RGBA
}

// At returns the gradient color at position t in [0, 1]
func (g Gradient) At(t float64) color.RGBA {
	switch len(g.Stops) {
	case 0:
		return color.RGBA{A: 0xff}
	case 1:
		return g.Stops[0]
	}
	if t <= 0 {
		return g.Stops[0]
	}
	if t >= 1 {
		return g.Stops[len(g.Stops)-1]
	}
	span := 1.0 / float64(len(g.Stops)-1)
	i := int(t / span)
	local := (t - float64(i)*span) / span
	a, _ := colorful.MakeColor(g.Stops[i])
	b, _ := colorful.MakeColor(g.Stops[i+1])
	r, gg, bb := a.BlendRgb(b, local).Clamped().RGB255()
	return color.RGBA{R: r, G: gg, B: bb, A: 0xff}
}

// CSS renders the gradient as a CSS linear-gradient value
func (g Gradient) CSS() string {
	parts := make([]string, 0, len(g.Stops)+1)
	parts = append(parts, string(g.Direction))
	for _, stop := range g.Stops {
		parts = append(parts, HexColor(stop))
	}
	return "linear-gradient(" + strings.Join(parts, ", ") + ")"
}

// Background is either a solid color or a gradient; the last one set wins
type Background struct {
	Kind     BackgroundKind
	Color    color.RGBA
	Gradient Gradient
}

// DefaultBackground is solid white
func DefaultBackground() Background {
	return SolidBackground(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
}

// SolidBackground builds a solid color background
func SolidBackground(c color.RGBA) Background {
	return Background{Kind: BackgroundSolid, Color: c}
}

// GradientBackground builds a gradient background
func GradientBackground(g Gradient) Background {
	return Background{Kind: BackgroundGradient, Gradient: g}
}

// IsGradient reports whether the background is a gradient
func (b Background) IsGradient() bool {
	return b.Kind == BackgroundGradient
}

// String describes the background the way the layout screen labels it
func (b Background) String() string {
	if b.IsGradient() {
		name := b.Gradient.Name
		if name == "" {
			name = "Custom"
		}
		return "Gradient: " + name
	}
	return "Color: " + HexColor(b.Color)
}

// ParseHexColor parses #RRGGBB or #RGB
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if len(s) == 4 && s[0] == '#' {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// HexColor formats a color as #RRGGBB
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseGradient parses "linear-gradient(to right, #A, #B, ...)". The
// direction may be omitted, in which case the gradient runs to the bottom.
func ParseGradient(s string) (Gradient, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "linear-gradient(") || !strings.HasSuffix(s, ")") {
		return Gradient{}, fmt.Errorf("%w: %q", ErrInvalidGradient, s)
	}
	body := strings.TrimSuffix(strings.TrimPrefix(s, "linear-gradient("), ")")
	parts := strings.Split(body, ",")

	g := Gradient{Direction: ToBottom}
	if dir := GradientDirection(strings.TrimSpace(parts[0])); dir == ToRight || dir == ToBottom {
		g.Direction = dir
		parts = parts[1:]
	}
	if len(parts) < 2 {
		return Gradient{}, fmt.Errorf("%w: need at least two color stops", ErrInvalidGradient)
	}
	for _, part := range parts {
		c, err := ParseHexColor(part)
		if err != nil {
			return Gradient{}, fmt.Errorf("%w: %v", ErrInvalidGradient, err)
		}
		g.Stops = append(g.Stops, c)
	}
	return g, nil
}
