package camera

import (
	"context"
	"image"
	"image/color"
	"sync"
	"time"
)

// barColors are the classic test card bars
var barColors = []color.RGBA{
	{R: 0xC0, G: 0xC0, B: 0xC0, A: 0xff},
	{R: 0xC0, G: 0xC0, B: 0x00, A: 0xff},
	{R: 0x00, G: 0xC0, B: 0xC0, A: 0xff},
	{R: 0x00, G: 0xC0, B: 0x00, A: 0xff},
	{R: 0xC0, G: 0x00, B: 0xC0, A: 0xff},
	{R: 0xC0, G: 0x00, B: 0x00, A: 0xff},
	{R: 0x00, G: 0x00, B: 0xC0, A: 0xff},
}

// Synthetic generates an animated test pattern
type Synthetic struct {
	now func() time.Time
}

// NewSynthetic creates the test pattern provider
func NewSynthetic() *Synthetic {
	return &Synthetic{now: time.Now}
}

func (s *Synthetic) Name() string { return "synthetic" }

// Open starts a pattern stream at the requested resolution
func (s *Synthetic) Open(ctx context.Context, req Request) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req = normalize(req)
	return &syntheticStream{
		width:  req.Width,
		height: req.Height,
		start:  s.now(),
		now:    s.now,
	}, nil
}

type syntheticStream struct {
	width, height int
	start         time.Time
	now           func() time.Time

	mu     sync.Mutex
	closed bool
}

func (s *syntheticStream) Size() (int, int) { return s.width, s.height }

// Frame draws color bars with a white sweep bar whose position follows the
// time since the stream opened
func (s *syntheticStream) Frame() (image.Image, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	barWidth := (s.width + len(barColors) - 1) / len(barColors)
	elapsed := s.now().Sub(s.start)
	sweep := int(elapsed/(40*time.Millisecond)) % s.width
	sweepWidth := s.width/40 + 1

	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			c := barColors[x/barWidth]
			if x >= sweep && x < sweep+sweepWidth {
				c = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img, nil
}

func (s *syntheticStream) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
