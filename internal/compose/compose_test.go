package compose

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yildizm/chinchinbooth/internal/booth"
	"github.com/yildizm/chinchinbooth/internal/monitor"
	"github.com/yildizm/chinchinbooth/internal/overlay"
)

func frame(c color.RGBA, w, h int) booth.Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return booth.NewFrame(img, 1, time.Unix(0, 0))
}

func frames(n int) []booth.Frame {
	palette := []color.RGBA{
		{R: 255, A: 255}, {G: 255, A: 255}, {B: 255, A: 255}, {R: 255, G: 255, A: 255},
	}
	out := make([]booth.Frame, n)
	for i := range out {
		out[i] = frame(palette[i%len(palette)], 40, 30)
	}
	return out
}

func near(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	diff := func(x, y uint32) bool {
		if x > y {
			return x-y <= 0x200
		}
		return y-x <= 0x200
	}
	return diff(ar, br) && diff(ag, bg) && diff(ab, bb) && diff(aa, ba)
}

func TestGeometrySize(t *testing.T) {
	g := DefaultGeometry().WithScale(1)
	tests := []struct {
		arity    int
		expected image.Point
	}{
		// 16 + 200 + 16 wide; 16 + 4*150 + 3*8 + 80 high
		{booth.ArityStrip, image.Pt(232, 720)},
		// 16 + 200 + 8 + 200 + 16 wide
		{booth.ArityDouble, image.Pt(440, 720)},
	}

	for _, tt := range tests {
		if got := g.Size(tt.arity); got != tt.expected {
			t.Errorf("Arity %d: expected %v, got %v", tt.arity, tt.expected, got)
		}
	}

	if got := DefaultGeometry().Size(booth.ArityStrip); got != image.Pt(464, 1440) {
		t.Errorf("Expected default scale of 2, got %v", got)
	}
}

func TestGeometryCells(t *testing.T) {
	g := DefaultGeometry().WithScale(1)
	tests := []struct {
		slot     int
		expected image.Rectangle
	}{
		{0, image.Rect(16, 16, 216, 166)},
		{1, image.Rect(16, 174, 216, 324)},
		{3, image.Rect(16, 490, 216, 640)},
		{4, image.Rect(224, 16, 424, 166)},
		{7, image.Rect(224, 490, 424, 640)},
	}

	for _, tt := range tests {
		if got := g.Cell(booth.ArityDouble, tt.slot); got != tt.expected {
			t.Errorf("Slot %d: expected %v, got %v", tt.slot, tt.expected, got)
		}
	}
	if n := len(g.Cells(booth.ArityStrip)); n != 4 {
		t.Errorf("Expected 4 cells, got %d", n)
	}
	if n := len(g.Cells(booth.ArityDouble)); n != 8 {
		t.Errorf("Expected 8 cells, got %d", n)
	}
}

func TestCover(t *testing.T) {
	tests := []struct {
		name          string
		src, dst, out image.Rectangle
	}{
		{"wide source", image.Rect(0, 0, 160, 90), image.Rect(0, 0, 40, 30), image.Rect(20, 0, 140, 90)},
		{"tall source", image.Rect(0, 0, 40, 60), image.Rect(0, 0, 40, 30), image.Rect(0, 15, 40, 45)},
		{"same aspect", image.Rect(0, 0, 80, 60), image.Rect(0, 0, 40, 30), image.Rect(0, 0, 80, 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cover(tt.src, tt.dst); got != tt.out {
				t.Errorf("Expected %v, got %v", tt.out, got)
			}
		})
	}
}

func TestRasterizeFillsSlotsInOrder(t *testing.T) {
	r := NewStripRasterizer(DefaultGeometry().WithScale(1))
	c := Composition{Arity: booth.ArityDouble, Frames: frames(8), Background: booth.DefaultBackground()}

	img, err := r.Rasterize(context.Background(), c)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for slot, cell := range r.Geometry.Cells(c.Arity) {
		center := image.Pt((cell.Min.X+cell.Max.X)/2, (cell.Min.Y+cell.Max.Y)/2)
		want := c.Frames[slot].Image().At(0, 0)
		if got := img.At(center.X, center.Y); !near(got, want) {
			t.Errorf("Slot %d: expected %v, got %v", slot, want, got)
		}
	}
	if got := img.RGBAAt(2, 2); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("Expected white padding, got %v", got)
	}
}

func TestRasterizeIncomplete(t *testing.T) {
	r := NewStripRasterizer(DefaultGeometry())
	_, err := r.Rasterize(context.Background(), Composition{Arity: booth.ArityStrip, Frames: frames(3)})
	if !errors.Is(err, ErrIncomplete) {
		t.Errorf("Expected ErrIncomplete, got %v", err)
	}
	_, err = r.Rasterize(context.Background(), Composition{Arity: 6, Frames: frames(6)})
	if !errors.Is(err, ErrInvalidArity) {
		t.Errorf("Expected ErrInvalidArity, got %v", err)
	}
}

func TestRasterizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewStripRasterizer(DefaultGeometry())
	_, err := r.Rasterize(ctx, Composition{Arity: booth.ArityStrip, Frames: frames(4)})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPreviewAllowsEmptySlots(t *testing.T) {
	r := NewStripRasterizer(DefaultGeometry().WithScale(0.5))
	img := r.Preview(Composition{Arity: booth.ArityStrip, Frames: frames(1)})

	cell := r.Geometry.Cell(booth.ArityStrip, 2)
	if got := img.RGBAAt(cell.Min.X+2, cell.Min.Y+2); got != emptyCell {
		t.Errorf("Expected placeholder fill, got %v", got)
	}
	if img.Bounds().Size() != r.Geometry.Size(booth.ArityStrip) {
		t.Errorf("Unexpected preview size %v", img.Bounds())
	}
}

func TestFillBackgroundGradient(t *testing.T) {
	black := color.RGBA{A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	tests := []struct {
		name      string
		direction booth.GradientDirection
		first     image.Point
		last      image.Point
	}{
		{"to right", booth.ToRight, image.Pt(0, 5), image.Pt(9, 5)},
		{"to bottom", booth.ToBottom, image.Pt(5, 0), image.Pt(5, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 10, 10))
			FillBackground(img, booth.GradientBackground(booth.Gradient{
				Direction: tt.direction,
				Stops:     []color.RGBA{black, white},
			}))
			if got := img.RGBAAt(tt.first.X, tt.first.Y); got != black {
				t.Errorf("Expected black at start, got %v", got)
			}
			if got := img.RGBAAt(tt.last.X, tt.last.Y); got != white {
				t.Errorf("Expected white at end, got %v", got)
			}
		})
	}
}

type paintAll struct{ c color.RGBA }

func (p paintAll) Render(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = p.c.R, p.c.G, p.c.B, p.c.A
	}
	return img
}

func TestRasterizeDrawsOverlayLast(t *testing.T) {
	r := NewStripRasterizer(DefaultGeometry().WithScale(0.25))
	violet := color.RGBA{R: 0x8B, G: 0x5C, B: 0xF6, A: 255}
	img, err := r.Rasterize(context.Background(), Composition{
		Arity:   booth.ArityStrip,
		Frames:  frames(4),
		Overlay: paintAll{c: violet},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	cell := r.Geometry.Cell(booth.ArityStrip, 0)
	if got := img.RGBAAt(cell.Min.X+1, cell.Min.Y+1); got != violet {
		t.Errorf("Expected overlay on top of photos, got %v", got)
	}
}

func TestExporterWritesPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	e := NewExporter(dir, NewStripRasterizer(DefaultGeometry().WithScale(0.5)))
	e.Overlays = overlay.NewLibrary("", nil)
	e.Stats = monitor.NewStats()

	job := booth.ExportJob{
		Arity:      booth.ArityStrip,
		Frames:     frames(4),
		Background: booth.DefaultBackground(),
		Overlay:    "hearts",
	}
	path, err := e.Export(context.Background(), job)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if filepath.Base(path) != DefaultFilename {
		t.Errorf("Expected %s, got %s", DefaultFilename, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open export: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Failed to decode export: %v", err)
	}
	if img.Bounds().Size() != e.Rasterizer.(*StripRasterizer).Geometry.Size(booth.ArityStrip) {
		t.Errorf("Unexpected export size %v", img.Bounds())
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only the export in the directory, got %d entries", len(entries))
	}
	if e.Stats.Exports.Get() != 1 {
		t.Errorf("Expected 1 export counted, got %d", e.Stats.Exports.Get())
	}
}

func TestExporterOverwritesFixedName(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir, NewStripRasterizer(DefaultGeometry().WithScale(0.25)))
	job := booth.ExportJob{Arity: booth.ArityStrip, Frames: frames(4), Background: booth.DefaultBackground()}

	for i := 0; i < 2; i++ {
		if _, err := e.Export(context.Background(), job); err != nil {
			t.Fatalf("Export %d failed: %v", i, err)
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected a single file, got %d", len(entries))
	}
}

func TestExporterFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir, NewStripRasterizer(DefaultGeometry()))
	e.Stats = monitor.NewStats()

	_, err := e.Export(context.Background(), booth.ExportJob{Arity: booth.ArityStrip, Frames: frames(2)})
	if !errors.Is(err, ErrIncomplete) {
		t.Errorf("Expected ErrIncomplete, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected no files after a failed export, got %d", len(entries))
	}
	if e.Stats.Timer(monitor.OperationExport).Errors() != 1 {
		t.Error("Expected failed export to be counted")
	}
}

func TestExporterUnknownOverlay(t *testing.T) {
	e := NewExporter(t.TempDir(), NewStripRasterizer(DefaultGeometry()))
	e.Overlays = overlay.NewLibrary("", nil)
	c := e.Composition(booth.ExportJob{Arity: booth.ArityStrip, Overlay: "stars"})
	if c.Overlay != nil {
		t.Error("Expected unknown overlay to be dropped")
	}
	c = e.Composition(booth.ExportJob{Arity: booth.ArityStrip, Overlay: overlay.None})
	if c.Overlay != nil {
		t.Error("Expected none to clear the overlay")
	}
}
