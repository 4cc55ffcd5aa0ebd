package camera

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/webp"
)

// ImageExtensions are the file types decoded by DecodeDir
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// Directory replays still images from a folder, one after another
type Directory struct {
	dir      string
	interval time.Duration
	now      func() time.Time
}

// NewDirectory creates a provider over the images in dir. Each image is
// shown for interval; zero shows the first image forever.
func NewDirectory(dir string, interval time.Duration) *Directory {
	return &Directory{dir: dir, interval: interval, now: time.Now}
}

func (d *Directory) Name() string { return "directory" }

// Open decodes every image in the folder. An empty or unreadable folder is
// reported as ErrUnavailable.
func (d *Directory) Open(ctx context.Context, _ Request) (Stream, error) {
	if d.dir == "" {
		return nil, fmt.Errorf("%w: no directory configured", ErrUnavailable)
	}
	images, err := DecodeDir(ctx, d.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	b := images[0].Bounds()
	return &directoryStream{
		images:   images,
		interval: d.interval,
		start:    d.now(),
		now:      d.now,
		width:    b.Dx(),
		height:   b.Dy(),
	}, nil
}

// DecodeDir decodes the images in dir in file name order. Files that fail
// to decode are skipped; ErrNoFrames is returned if nothing remains.
func DecodeDir(ctx context.Context, dir string) ([]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	images := make([]image.Image, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := DecodeFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		images = append(images, img)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFrames, dir)
	}
	return images, nil
}

// DecodeFile decodes one image file
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

type directoryStream struct {
	images        []image.Image
	interval      time.Duration
	start         time.Time
	now           func() time.Time
	width, height int

	mu     sync.Mutex
	closed bool
}

func (s *directoryStream) Size() (int, int) { return s.width, s.height }

func (s *directoryStream) Frame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.interval <= 0 {
		return s.images[0], nil
	}
	idx := int(s.now().Sub(s.start)/s.interval) % len(s.images)
	return s.images[idx], nil
}

func (s *directoryStream) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
