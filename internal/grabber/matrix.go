package grabber

import "github.com/yildizm/chinchinbooth/internal/booth"

// matrix is a 3x3 color matrix applied to linear RGB in [0, 1]
type matrix [3][3]float64

func (m matrix) apply(r, g, b float64) (float64, float64, float64) {
	return clamp(m[0][0]*r + m[0][1]*g + m[0][2]*b),
		clamp(m[1][0]*r + m[1][1]*g + m[1][2]*b),
		clamp(m[2][0]*r + m[2][1]*g + m[2][2]*b)
}

// Filter Effects Module Level 1, section 15.7 shorthand equivalents.

func grayscaleMatrix(amount float64) matrix {
	a := 1 - clamp(amount)
	return matrix{
		{0.2126 + 0.7874*a, 0.7152 - 0.7152*a, 0.0722 - 0.0722*a},
		{0.2126 - 0.2126*a, 0.7152 + 0.2848*a, 0.0722 - 0.0722*a},
		{0.2126 - 0.2126*a, 0.7152 - 0.7152*a, 0.0722 + 0.9278*a},
	}
}

func sepiaMatrix(amount float64) matrix {
	a := 1 - clamp(amount)
	return matrix{
		{0.393 + 0.607*a, 0.769 - 0.769*a, 0.189 - 0.189*a},
		{0.349 - 0.349*a, 0.686 + 0.314*a, 0.168 - 0.168*a},
		{0.272 - 0.272*a, 0.534 - 0.534*a, 0.131 + 0.869*a},
	}
}

func saturateMatrix(s float64) matrix {
	if s < 0 {
		s = 0
	}
	return matrix{
		{0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s},
		{0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s},
		{0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s},
	}
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// pipeline is the compiled filter chain. Brightness and contrast act on each
// channel independently and fold into a lookup table; the color matrices run
// per pixel in chain order, clamping after every stage.
type pipeline struct {
	lut      [256]float64
	matrices []matrix
}

func compile(f booth.Filters) pipeline {
	var p pipeline

	brightness := float64(f.Brightness) / 100
	contrast := float64(f.Contrast) / 100
	intercept := -0.5*contrast + 0.5
	for i := range p.lut {
		v := clamp(float64(i) / 255 * brightness)
		p.lut[i] = clamp(v*contrast + intercept)
	}

	if f.Grayscale != 0 {
		p.matrices = append(p.matrices, grayscaleMatrix(float64(f.Grayscale)/100))
	}
	if f.Sepia != 0 {
		p.matrices = append(p.matrices, sepiaMatrix(float64(f.Sepia)/100))
	}
	if f.Saturate != 100 {
		p.matrices = append(p.matrices, saturateMatrix(float64(f.Saturate)/100))
	}
	return p
}

func (p pipeline) pixel(r, g, b uint8) (uint8, uint8, uint8) {
	rf, gf, bf := p.lut[r], p.lut[g], p.lut[b]
	for _, m := range p.matrices {
		rf, gf, bf = m.apply(rf, gf, bf)
	}
	return to8(rf), to8(gf), to8(bf)
}

func to8(v float64) uint8 {
	return uint8(clamp(v)*255 + 0.5)
}
