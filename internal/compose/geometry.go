package compose

import (
	"image"
	"math"

	"github.com/yildizm/chinchinbooth/internal/booth"
)

// Geometry describes the strip layout in layout pixels. Every dimension is
// multiplied by Scale when rasterizing.
type Geometry struct {
	CellWidth     int     `yaml:"cell_width" json:"cell_width"`
	PaddingTop    int     `yaml:"padding_top" json:"padding_top"`
	PaddingSide   int     `yaml:"padding_side" json:"padding_side"`
	PaddingBottom int     `yaml:"padding_bottom" json:"padding_bottom"`
	Gap           int     `yaml:"gap" json:"gap"`
	Scale         float64 `yaml:"scale" json:"scale"`
}

// Rows is the number of cells per column
const Rows = 4

// DefaultGeometry is the strip used for downloads
func DefaultGeometry() Geometry {
	return Geometry{
		CellWidth:     200,
		PaddingTop:    16,
		PaddingSide:   16,
		PaddingBottom: 80,
		Gap:           8,
		Scale:         2,
	}
}

// WithScale returns a copy of g at another scale
func (g Geometry) WithScale(scale float64) Geometry {
	g.Scale = scale
	return g
}

// Columns returns the number of columns for an arity
func Columns(arity int) int {
	if arity == booth.ArityDouble {
		return 2
	}
	return 1
}

func (g Geometry) px(v float64) int {
	scale := g.Scale
	if scale <= 0 {
		scale = 1
	}
	return int(math.Round(v * scale))
}

func (g Geometry) cellHeight() float64 {
	return float64(g.CellWidth) * 3 / 4
}

// Size returns the rasterized strip size for an arity
func (g Geometry) Size(arity int) image.Point {
	cols := float64(Columns(arity))
	w := 2*float64(g.PaddingSide) + cols*float64(g.CellWidth) + (cols-1)*float64(g.Gap)
	h := float64(g.PaddingTop+g.PaddingBottom) + Rows*g.cellHeight() + (Rows-1)*float64(g.Gap)
	return image.Pt(g.px(w), g.px(h))
}

// Cell returns the rectangle of a slot. Slots fill the first column top to
// bottom, then the second.
func (g Geometry) Cell(arity, slot int) image.Rectangle {
	col := slot / Rows
	row := slot % Rows
	x := float64(g.PaddingSide) + float64(col)*float64(g.CellWidth+g.Gap)
	y := float64(g.PaddingTop) + float64(row)*(g.cellHeight()+float64(g.Gap))
	return image.Rect(g.px(x), g.px(y), g.px(x+float64(g.CellWidth)), g.px(y+g.cellHeight()))
}

// Cells returns every slot rectangle for an arity
func (g Geometry) Cells(arity int) []image.Rectangle {
	n := Rows * Columns(arity)
	cells := make([]image.Rectangle, n)
	for i := range cells {
		cells[i] = g.Cell(arity, i)
	}
	return cells
}

// Cover returns the centered crop of src with the aspect ratio of dst
func Cover(src, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	if sw == 0 || sh == 0 || dw == 0 || dh == 0 {
		return src
	}
	// Compare sw/sh against dw/dh without floats
	if sw*dh > dw*sh {
		w := sh * dw / dh
		x := src.Min.X + (sw-w)/2
		return image.Rect(x, src.Min.Y, x+w, src.Max.Y)
	}
	h := sw * dh / dw
	y := src.Min.Y + (sh-h)/2
	return image.Rect(src.Min.X, y, src.Max.X, y+h)
}
