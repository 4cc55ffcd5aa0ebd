package components

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// halfBlock paints the top pixel as foreground and the bottom as background
const halfBlock = "▀"

// asciiRamp maps luminance to glyphs, darkest first
const asciiRamp = " .:-=+*#%@"

// Picture renders images into terminal cells. With color on each cell
// carries two vertical pixels; without color it falls back to an ASCII ramp.
type Picture struct {
	Color bool
}

// NewPicture creates a picture renderer
func NewPicture(color bool) *Picture {
	return &Picture{Color: color}
}

// Fit returns the largest cols x rows that keeps the aspect ratio of a
// w x h source within the given cell budget
func Fit(w, h, maxCols, maxRows int) (int, int) {
	if w <= 0 || h <= 0 || maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}
	cols := maxCols
	rows := (cols*h/w + 1) / 2
	if rows > maxRows {
		rows = maxRows
		cols = rows * 2 * w / h
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// Render draws img into cols x rows cells, scaling it to fill them
func (p *Picture) Render(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	px := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(px, px.Bounds(), img, img.Bounds(), draw.Src, nil)

	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := px.RGBAAt(x, y*2)
			bottom := px.RGBAAt(x, y*2+1)
			if p.Color {
				b.WriteString(lipgloss.NewStyle().
					Foreground(lipgloss.Color(hex(top))).
					Background(lipgloss.Color(hex(bottom))).
					Render(halfBlock))
				continue
			}
			b.WriteByte(glyph((luminance(top) + luminance(bottom)) / 2))
		}
		if y < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Placeholder draws an empty cols x rows box with a centered label
func (p *Picture) Placeholder(label string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	style := lipgloss.NewStyle().Width(cols).Height(rows).
		Align(lipgloss.Center, lipgloss.Center)
	if p.Color {
		style = style.Foreground(lipgloss.Color("#9CA3AF")).Background(lipgloss.Color("#F3F4F6"))
	}
	return style.Render(label)
}

func hex(c color.RGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

func luminance(c color.RGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}

func glyph(l float64) byte {
	i := int(math.Round(l * float64(len(asciiRamp)-1)))
	if i < 0 {
		i = 0
	}
	if i >= len(asciiRamp) {
		i = len(asciiRamp) - 1
	}
	return asciiRamp[i]
}
