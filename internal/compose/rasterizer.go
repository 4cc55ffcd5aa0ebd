// Package compose renders photo strips and writes them to disk.
package compose

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/yildizm/chinchinbooth/internal/booth"
)

var (
	// ErrIncomplete is returned when a composition does not fill every slot
	ErrIncomplete = errors.New("composition incomplete")
	// ErrInvalidArity is returned for arities other than 4 and 8
	ErrInvalidArity = errors.New("invalid arity")
)

// emptyCell is the placeholder fill for unassigned slots in previews
var emptyCell = color.RGBA{R: 0xF3, G: 0xF4, B: 0xF6, A: 0xff}

// Overlay draws a decoration over the finished strip
type Overlay interface {
	Render(w, h int) *image.RGBA
}

// Composition is everything that goes into one strip
type Composition struct {
	Arity      int
	Frames     []booth.Frame
	Background booth.Background
	Overlay    Overlay
}

// Rasterizer turns a composition into pixels
type Rasterizer interface {
	Rasterize(ctx context.Context, c Composition) (*image.RGBA, error)
}

// StripRasterizer draws compositions with a fixed geometry
type StripRasterizer struct {
	Geometry Geometry
	Scaler   draw.Scaler
}

// NewStripRasterizer creates a rasterizer with high quality scaling
func NewStripRasterizer(g Geometry) *StripRasterizer {
	return &StripRasterizer{Geometry: g, Scaler: draw.CatmullRom}
}

// Rasterize renders a complete composition. Every slot must hold a frame.
func (r *StripRasterizer) Rasterize(ctx context.Context, c Composition) (*image.RGBA, error) {
	if !booth.ValidArity(c.Arity) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidArity, c.Arity)
	}
	if len(c.Frames) != c.Arity {
		return nil, fmt.Errorf("%w: %d of %d slots filled", ErrIncomplete, len(c.Frames), c.Arity)
	}
	return r.draw(ctx, c)
}

// Preview renders a possibly partial composition; empty slots get a
// placeholder fill
func (r *StripRasterizer) Preview(c Composition) *image.RGBA {
	if !booth.ValidArity(c.Arity) {
		c.Arity = booth.ArityStrip
	}
	if len(c.Frames) > c.Arity {
		c.Frames = c.Frames[:c.Arity]
	}
	img, _ := r.draw(context.Background(), c)
	return img
}

func (r *StripRasterizer) draw(ctx context.Context, c Composition) (*image.RGBA, error) {
	g := r.Geometry
	size := g.Size(c.Arity)
	dst := image.NewRGBA(image.Rectangle{Max: size})
	FillBackground(dst, c.Background)

	scaler := r.Scaler
	if scaler == nil {
		scaler = draw.ApproxBiLinear
	}

	for slot, cell := range g.Cells(c.Arity) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if slot >= len(c.Frames) || c.Frames[slot].Image() == nil {
			draw.Draw(dst, cell, image.NewUniform(emptyCell), image.Point{}, draw.Src)
			continue
		}
		src := c.Frames[slot].Image()
		scaler.Scale(dst, cell, src, Cover(src.Bounds(), cell), draw.Src, nil)
	}

	if c.Overlay != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ov := c.Overlay.Render(size.X, size.Y)
		draw.Draw(dst, dst.Bounds(), ov, ov.Bounds().Min, draw.Over)
	}
	return dst, nil
}

// FillBackground paints the strip background
func FillBackground(dst *image.RGBA, bg booth.Background) {
	b := dst.Bounds()
	if !bg.IsGradient() {
		draw.Draw(dst, b, image.NewUniform(bg.Color), image.Point{}, draw.Src)
		return
	}

	grad := bg.Gradient
	if grad.Direction == booth.ToRight {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := grad.At(position(x-b.Min.X, b.Dx()))
			for y := b.Min.Y; y < b.Max.Y; y++ {
				dst.SetRGBA(x, y, c)
			}
		}
		return
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		line := image.Rect(b.Min.X, y, b.Max.X, y+1)
		draw.Draw(dst, line, image.NewUniform(grad.At(position(y-b.Min.Y, b.Dy()))), image.Point{}, draw.Src)
	}
}

func position(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
