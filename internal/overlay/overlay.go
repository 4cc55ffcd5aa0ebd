// Package overlay manages the decorative frames drawn over a photo strip.
package overlay

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// None is the name that clears the overlay
const None = "none"

// Source tells built-in and file overlays apart
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceFile    Source = "file"
)

// Overlay is one decorative frame
type Overlay struct {
	Name   string `yaml:"name" json:"name"`
	Title  string `yaml:"title" json:"title"`
	Source Source `yaml:"-" json:"source"`
	Path   string `yaml:"file,omitempty" json:"path,omitempty"`

	img    image.Image
	render func(w, h int) *image.RGBA
}

// Render draws the overlay onto a transparent w x h canvas. File overlays
// are scaled to fit inside the canvas and centered, keeping their aspect
// ratio.
func (o Overlay) Render(w, h int) *image.RGBA {
	if o.render != nil {
		return o.render(w, h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if o.img == nil {
		return dst
	}
	draw.CatmullRom.Scale(dst, Contain(o.img.Bounds(), dst.Bounds()), o.img, o.img.Bounds(), draw.Over, nil)
	return dst
}

// Contain returns the largest rectangle with src's aspect ratio that fits
// centered inside dst
func Contain(src, dst image.Rectangle) image.Rectangle {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	dw, dh := float64(dst.Dx()), float64(dst.Dy())
	if sw == 0 || sh == 0 || dw == 0 || dh == 0 {
		return image.Rectangle{}
	}
	scale := math.Min(dw/sw, dh/sh)
	w, h := int(math.Round(sw*scale)), int(math.Round(sh*scale))
	x := dst.Min.X + (dst.Dx()-w)/2
	y := dst.Min.Y + (dst.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

func builtins() []Overlay {
	return []Overlay{
		{Name: "birthday", Title: "Birthday", Source: SourceBuiltin, render: bunting},
		{Name: "party", Title: "Party", Source: SourceBuiltin, render: confetti},
		{Name: "hearts", Title: "Hearts", Source: SourceBuiltin, render: hearts},
	}
}

var (
	pink   = color.RGBA{R: 0xEC, G: 0x48, B: 0x99, A: 0xff}
	teal   = color.RGBA{R: 0x14, G: 0xB8, B: 0xA6, A: 0xff}
	amber  = color.RGBA{R: 0xF5, G: 0x9E, B: 0x0B, A: 0xff}
	violet = color.RGBA{R: 0x8B, G: 0x5C, B: 0xF6, A: 0xff}
)

// bunting hangs triangular flags along the top edge
func bunting(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	flag := w / 12
	if flag < 4 {
		flag = 4
	}
	colors := []color.RGBA{pink, teal, amber, violet}
	for i, x0 := 0, 0; x0 < w; i, x0 = i+1, x0+flag {
		c := colors[i%len(colors)]
		for y := 0; y < flag; y++ {
			inset := y / 2
			for x := x0 + inset; x < x0+flag-inset && x < w; x++ {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}

// confetti scatters small squares near the strip border
func confetti(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	size := w / 60
	if size < 2 {
		size = 2
	}
	band := w / 20
	if band < size {
		band = size
	}
	colors := []color.RGBA{pink, teal, amber, violet}
	// Deterministic so exports are reproducible
	seed := uint32(2463534242)
	next := func() uint32 {
		seed ^= seed << 13
		seed ^= seed >> 17
		seed ^= seed << 5
		return seed
	}
	count := (w + h) / 6
	for i := 0; i < count; i++ {
		x := int(next() % uint32(max(w-size, 1)))
		y := int(next() % uint32(max(h-size, 1)))
		if x > band && x < w-band-size && y > band && y < h-band-size {
			continue
		}
		c := colors[i%len(colors)]
		for dy := 0; dy < size; dy++ {
			for dx := 0; dx < size; dx++ {
				img.SetRGBA(x+dx, y+dy, c)
			}
		}
	}
	return img
}

// hearts places a heart in each corner
func hearts(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	r := float64(min(w, h)) / 10
	if r < 3 {
		r = 3
	}
	pad := r * 1.4
	centers := [][2]float64{
		{pad, pad}, {float64(w) - pad, pad},
		{pad, float64(h) - pad}, {float64(w) - pad, float64(h) - pad},
	}
	for _, c := range centers {
		drawHeart(img, c[0], c[1], r, pink)
	}
	return img
}

// drawHeart fills the implicit heart curve (x²+y²-1)³ - x²y³ <= 0
func drawHeart(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	b := img.Bounds()
	for y := int(cy - r*1.3); y <= int(cy+r*1.3); y++ {
		for x := int(cx - r*1.3); x <= int(cx+r*1.3); x++ {
			if !(image.Point{X: x, Y: y}).In(b) {
				continue
			}
			nx := (float64(x) - cx) / r
			ny := -(float64(y) - cy) / r
			v := nx*nx + ny*ny - 1
			if v*v*v-nx*nx*ny*ny*ny <= 0 {
				img.SetRGBA(x, y, c)
			}
		}
	}
}
