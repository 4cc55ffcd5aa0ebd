package config

import (
	"image/color"

	"github.com/yildizm/chinchinbooth/internal/booth"
	"github.com/yildizm/chinchinbooth/internal/camera"
	"github.com/yildizm/chinchinbooth/internal/compose"
)

// BackgroundColor parses the default strip color
func (c *Config) BackgroundColor() (color.RGBA, error) {
	return booth.ParseHexColor(c.Layout.DefaultColor)
}

// PaletteColors parses the swatch palette
func (c *Config) PaletteColors() ([]color.RGBA, error) {
	out := make([]color.RGBA, 0, len(c.Layout.Palette))
	for _, hex := range c.Layout.Palette {
		col, err := booth.ParseHexColor(hex)
		if err != nil {
			return nil, err
		}
		out = append(out, col)
	}
	return out, nil
}

// GradientPresets parses the gradient presets
func (c *Config) GradientPresets() ([]booth.Gradient, error) {
	out := make([]booth.Gradient, 0, len(c.Layout.Gradients))
	for _, gc := range c.Layout.Gradients {
		g, err := booth.ParseGradient(gc.CSS)
		if err != nil {
			return nil, err
		}
		g.Name = gc.Name
		out = append(out, g)
	}
	return out, nil
}

// SessionOptions converts the capture and layout sections for booth.NewSession.
// The config is expected to be valid.
func (c *Config) SessionOptions() booth.Options {
	opts := booth.DefaultOptions()
	opts.TimerOptions = c.Capture.TimerOptions
	opts.DefaultTimer = c.Capture.DefaultTimer
	opts.AutoPause = c.Capture.AutoPause
	opts.AutoMode = c.Capture.AutoMode
	opts.Arity = c.Layout.DefaultArity
	if col, err := c.BackgroundColor(); err == nil {
		opts.Background = booth.SolidBackground(col)
	}
	return opts
}

// CameraOptions converts the camera section for camera.New
func (c *Config) CameraOptions() camera.Options {
	return camera.Options{
		Directory: expandPath(c.Camera.Directory),
		Interval:  c.Camera.Interval,
	}
}

// CameraRequest is the stream the booth asks the provider for
func (c *Config) CameraRequest() camera.Request {
	return camera.Request{
		Facing: camera.Facing(c.Camera.Facing),
		Width:  c.Camera.Width,
		Height: c.Camera.Height,
	}
}

// Geometry converts the export section for the strip rasterizer
func (c *Config) Geometry() compose.Geometry {
	g := compose.DefaultGeometry()
	g.Scale = c.Export.Scale
	g.CellWidth = c.Export.CellWidth
	return g
}

// OutputDir returns the export directory with ~ expanded
func (c *Config) OutputDir() string {
	return expandPath(c.Export.OutputDir)
}

// OverlayDir returns the overlay directory with ~ expanded
func (c *Config) OverlayDir() string {
	return expandPath(c.Overlays.Directory)
}

// LogFile returns the session log path with ~ expanded
func (c *Config) LogFile() string {
	return expandPath(c.Logging.File)
}
