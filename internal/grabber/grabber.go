package grabber

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/yildizm/chinchinbooth/internal/booth"
)

// ErrEmptyFrame is returned when the source has no pixels
var ErrEmptyFrame = errors.New("empty frame")

// Options controls grabbed frame size
type Options struct {
	// MaxWidth downscales wider sources; zero keeps the source size
	MaxWidth int
}

// Grabber bakes the filter chain and mirror into a still frame
type Grabber struct {
	opts Options
}

// New creates a grabber
func New(opts Options) *Grabber {
	return &Grabber{opts: opts}
}

// Grab draws src into a new RGBA image with the filters applied in the
// order brightness, contrast, grayscale, sepia, saturate, then mirrored.
func (g *Grabber) Grab(src image.Image, f booth.Filters) (*image.RGBA, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrEmptyFrame
	}

	dst := g.resize(src)
	apply(dst, f)
	if f.Mirror {
		mirror(dst)
	}
	return dst, nil
}

// Preview renders src at exactly width x height with the filters applied.
// It is used for the live view and does not enforce MaxWidth.
func (g *Grabber) Preview(src image.Image, f booth.Filters, width, height int) (*image.RGBA, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrEmptyFrame
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", width, height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	apply(dst, f)
	if f.Mirror {
		mirror(dst)
	}
	return dst, nil
}

func (g *Grabber) resize(src image.Image) *image.RGBA {
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if g.opts.MaxWidth > 0 && w > g.opts.MaxWidth {
		h = h * g.opts.MaxWidth / w
		w = g.opts.MaxWidth
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
		return dst
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
	return dst
}

// apply runs the color filters over img in place
func apply(img *image.RGBA, f booth.Filters) {
	if f.IsNeutral() {
		return
	}
	p := compile(f)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			row[i], row[i+1], row[i+2] = p.pixel(row[i], row[i+1], row[i+2])
		}
	}
}

// mirror flips img horizontally in place
func mirror(img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for l, r := 0, len(row)-4; l < r; l, r = l+4, r-4 {
			for k := 0; k < 4; k++ {
				row[l+k], row[r+k] = row[r+k], row[l+k]
			}
		}
	}
}
