// Package formatter renders history reports and palette listings for the
// terminal or as JSON.
package formatter

import (
	"fmt"

	"github.com/yildizm/chinchinbooth/internal/history"
)

// Palette is what the compose screen can put behind and over a strip
type Palette struct {
	Colors    []string        `json:"colors"`
	Gradients []GradientEntry `json:"gradients"`
	Overlays  []OverlayEntry  `json:"overlays"`
}

// GradientEntry is one named gradient preset
type GradientEntry struct {
	Name string `json:"name"`
	CSS  string `json:"css"`
}

// OverlayEntry is one available overlay
type OverlayEntry struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

// Formatter defines the interface for output formatting
type Formatter interface {
	FormatHistory(h *history.History) ([]byte, error)
	FormatPalette(p *Palette) ([]byte, error)
}

// New returns the formatter for an output format
func New(format string, color, useEmoji bool) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(color, useEmoji), nil
	case "json":
		return NewJSON(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use text or json)", format)
	}
}
