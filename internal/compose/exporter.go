package compose

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/yildizm/chinchinbooth/internal/booth"
	"github.com/yildizm/chinchinbooth/internal/logger"
	"github.com/yildizm/chinchinbooth/internal/monitor"
	"github.com/yildizm/chinchinbooth/internal/overlay"
)

// DefaultFilename is the fixed name of every download
const DefaultFilename = "chinchinbooth_photo.png"

// OverlaySource resolves overlay names
type OverlaySource interface {
	Get(name string) (overlay.Overlay, bool)
}

// Exporter rasterizes export jobs and writes them as PNG
type Exporter struct {
	Dir        string
	Filename   string
	Timeout    time.Duration
	Rasterizer Rasterizer
	Overlays   OverlaySource
	Stats      *monitor.Stats
	Log        *logger.Logger
}

// NewExporter creates an exporter writing DefaultFilename into dir
func NewExporter(dir string, r Rasterizer) *Exporter {
	return &Exporter{
		Dir:        dir,
		Filename:   DefaultFilename,
		Rasterizer: r,
		Log:        logger.Nop(),
	}
}

// Composition builds the composition for a job, resolving its overlay
func (e *Exporter) Composition(job booth.ExportJob) Composition {
	c := Composition{
		Arity:      job.Arity,
		Frames:     job.Frames,
		Background: job.Background,
	}
	if e.Overlays != nil && job.Overlay != "" && job.Overlay != overlay.None {
		if ov, ok := e.Overlays.Get(job.Overlay); ok {
			c.Overlay = ov
		} else {
			e.logger().Warn("unknown overlay %q, exporting without it", job.Overlay)
		}
	}
	return c
}

// Export renders the job and writes it, returning the written path
func (e *Exporter) Export(ctx context.Context, job booth.ExportJob) (string, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	var path string
	run := func() error {
		img, err := e.Rasterizer.Rasterize(ctx, e.Composition(job))
		if err != nil {
			return fmt.Errorf("failed to rasterize strip: %w", err)
		}
		path, err = e.write(img)
		return err
	}

	var err error
	if e.Stats != nil {
		err = e.Stats.Track(monitor.OperationExport, run)
	} else {
		err = run()
	}
	if err != nil {
		e.logger().ErrorWithFields("export failed", []logger.Field{logger.Error(err), logger.F("arity", job.Arity)})
		return "", err
	}
	if e.Stats != nil {
		e.Stats.Exports.Inc()
	}
	return path, nil
}

// write encodes into a temporary file and renames it over the target, so a
// failed export never leaves a truncated image behind
func (e *Exporter) write(img image.Image) (string, error) {
	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	name := e.Filename
	if name == "" {
		name = DefaultFilename
	}
	target := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, ".chinchinbooth-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	if err := png.Encode(tmp, img); err != nil {
		cleanup()
		return "", fmt.Errorf("failed to encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write png: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save %s: %w", target, err)
	}
	return target, nil
}

func (e *Exporter) logger() *logger.Logger {
	if e.Log == nil {
		return logger.Nop()
	}
	return e.Log
}
