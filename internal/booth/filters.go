package booth

import "fmt"

// FilterID identifies a toggleable camera filter
type FilterID string

const (
	FilterMirror     FilterID = "mirror"
	FilterBrightness FilterID = "brightness"
	FilterContrast   FilterID = "contrast"
	FilterGrayscale  FilterID = "grayscale"
	FilterSepia      FilterID = "sepia"
	FilterSaturate   FilterID = "saturate"
)

// FilterOrder is the display order of the filter controls
var FilterOrder = []FilterID{
	FilterMirror,
	FilterBrightness,
	FilterContrast,
	FilterGrayscale,
	FilterSepia,
	FilterSaturate,
}

// Alternate values used when a filter is switched on
const (
	brightnessOn = 130
	contrastOn   = 130
	saturateOn   = 150
	toneOn       = 100
)

// Filters holds the live filter parameters as CSS-style percentages.
// Grayscale and Sepia are never both non-zero.
type Filters struct {
	Brightness int  `json:"brightness"`
	Contrast   int  `json:"contrast"`
	Grayscale  int  `json:"grayscale"`
	Sepia      int  `json:"sepia"`
	Saturate   int  `json:"saturate"`
	Mirror     bool `json:"mirror"`
}

// DefaultFilters returns the neutral filter set with mirroring enabled
func DefaultFilters() Filters {
	return Filters{
		Brightness: 100,
		Contrast:   100,
		Grayscale:  0,
		Sepia:      0,
		Saturate:   100,
		Mirror:     true,
	}
}

// Toggle returns the filter set with the given filter switched
func (f Filters) Toggle(id FilterID) Filters {
	switch id {
	case FilterMirror:
		f.Mirror = !f.Mirror
	case FilterBrightness:
		f.Brightness = flip(f.Brightness, 100, brightnessOn)
	case FilterContrast:
		f.Contrast = flip(f.Contrast, 100, contrastOn)
	case FilterSaturate:
		f.Saturate = flip(f.Saturate, 100, saturateOn)
	case FilterGrayscale:
		f.Grayscale = flip(f.Grayscale, 0, toneOn)
		f.Sepia = 0
	case FilterSepia:
		f.Sepia = flip(f.Sepia, 0, toneOn)
		f.Grayscale = 0
	}
	return f
}

func flip(current, off, on int) int {
	if current == off {
		return on
	}
	return off
}

// Active reports whether a filter is currently switched on
func (f Filters) Active(id FilterID) bool {
	switch id {
	case FilterMirror:
		return f.Mirror
	case FilterBrightness:
		return f.Brightness != 100
	case FilterContrast:
		return f.Contrast != 100
	case FilterGrayscale:
		return f.Grayscale != 0
	case FilterSepia:
		return f.Sepia != 0
	case FilterSaturate:
		return f.Saturate != 100
	default:
		return false
	}
}

// ActiveSet returns the active filters in display order
func (f Filters) ActiveSet() []FilterID {
	active := make([]FilterID, 0, len(FilterOrder))
	for _, id := range FilterOrder {
		if f.Active(id) {
			active = append(active, id)
		}
	}
	return active
}

// IsNeutral reports whether applying the filters leaves colors untouched
func (f Filters) IsNeutral() bool {
	return f.Brightness == 100 && f.Contrast == 100 && f.Grayscale == 0 &&
		f.Sepia == 0 && f.Saturate == 100
}

// CSS renders the color filters as a CSS filter chain
func (f Filters) CSS() string {
	return fmt.Sprintf("brightness(%d%%) contrast(%d%%) grayscale(%d%%) sepia(%d%%) saturate(%d%%)",
		f.Brightness, f.Contrast, f.Grayscale, f.Sepia, f.Saturate)
}

// ParseFilterID maps a filter name to its identifier
func ParseFilterID(name string) (FilterID, bool) {
	for _, id := range FilterOrder {
		if string(id) == name {
			return id, true
		}
	}
	return "", false
}
