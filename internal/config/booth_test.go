package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yildizm/chinchinbooth/internal/booth"
	"github.com/yildizm/chinchinbooth/internal/camera"
)

func TestSessionOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capture.TimerOptions = []int{2, 4}
	cfg.Capture.DefaultTimer = 4
	cfg.Capture.AutoPause = 300 * time.Millisecond
	cfg.Capture.AutoMode = true
	cfg.Layout.DefaultArity = 8
	cfg.Layout.DefaultColor = "#EC4899"

	opts := cfg.SessionOptions()
	s := booth.NewSession(opts)

	if s.Timer.Seconds() != 4 {
		t.Errorf("Expected timer 4s, got %d", s.Timer.Seconds())
	}
	if !s.Timer.AutoMode {
		t.Error("Expected auto mode to carry over")
	}
	if opts.AutoPause != 300*time.Millisecond {
		t.Errorf("Expected auto pause 300ms, got %v", opts.AutoPause)
	}
	if s.Layout.Arity != 8 {
		t.Errorf("Expected arity 8, got %d", s.Layout.Arity)
	}
	want := color.RGBA{R: 0xEC, G: 0x48, B: 0x99, A: 0xff}
	if s.Background.IsGradient() || s.Background.Color != want {
		t.Errorf("Expected solid %v background, got %s", want, s.Background)
	}
}

func TestGradientPresets(t *testing.T) {
	presets, err := DefaultConfig().GradientPresets()
	if err != nil {
		t.Fatalf("Failed to parse presets: %v", err)
	}
	if len(presets) != 6 {
		t.Fatalf("Expected 6 presets, got %d", len(presets))
	}
	if presets[0].Name != "Rose Teal" {
		t.Errorf("Expected first preset Rose Teal, got %s", presets[0].Name)
	}
	for _, g := range presets {
		if g.Direction != booth.ToRight {
			t.Errorf("Expected %s to run to the right, got %s", g.Name, g.Direction)
		}
		if len(g.Stops) != 2 {
			t.Errorf("Expected %s to have 2 stops, got %d", g.Name, len(g.Stops))
		}
	}
}

func TestPaletteColors(t *testing.T) {
	colors, err := DefaultConfig().PaletteColors()
	if err != nil {
		t.Fatalf("Failed to parse palette: %v", err)
	}
	if len(colors) != len(DefaultPalette) {
		t.Fatalf("Expected %d colors, got %d", len(DefaultPalette), len(colors))
	}
	if colors[len(colors)-1] != (color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}) {
		t.Errorf("Expected last swatch #111827, got %v", colors[len(colors)-1])
	}
}

func TestGeometry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Export.Scale = 1
	cfg.Export.CellWidth = 100

	g := cfg.Geometry()
	if g.Scale != 1 || g.CellWidth != 100 {
		t.Errorf("Expected scale 1 and cell width 100, got %v and %d", g.Scale, g.CellWidth)
	}
	if g.PaddingBottom != 80 {
		t.Errorf("Expected default bottom padding 80, got %d", g.PaddingBottom)
	}
}

func TestCameraOptions(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg := DefaultConfig()
	cfg.Camera.Directory = "~/frames"
	cfg.Camera.Interval = time.Second
	cfg.Camera.Facing = "environment"

	opts := cfg.CameraOptions()
	if opts.Directory != filepath.Join(home, "frames") {
		t.Errorf("Expected expanded directory, got %s", opts.Directory)
	}
	if opts.Interval != time.Second {
		t.Errorf("Expected interval 1s, got %v", opts.Interval)
	}

	req := cfg.CameraRequest()
	if req.Facing != camera.FacingEnvironment {
		t.Errorf("Expected environment facing, got %s", req.Facing)
	}
	if req.Width != 1280 || req.Height != 720 {
		t.Errorf("Expected 1280x720, got %dx%d", req.Width, req.Height)
	}
}
