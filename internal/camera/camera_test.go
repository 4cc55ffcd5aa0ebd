package camera

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writePNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		wantErr  bool
	}{
		{"synthetic", "synthetic", false},
		{" Directory ", "directory", false},
		{"fail", "fail", false},
		{"webcam", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.name, Options{})
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownProvider) {
					t.Errorf("Expected ErrUnknownProvider, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if p.Name() != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, p.Name())
			}
		})
	}
}

func TestNames(t *testing.T) {
	expected := []string{"directory", "fail", "synthetic"}
	if got := Names(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestSyntheticStream(t *testing.T) {
	stream, err := NewSynthetic().Open(context.Background(), Request{Width: 64, Height: 48})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	w, h := stream.Size()
	if w != 64 || h != 48 {
		t.Errorf("Expected 64x48, got %dx%d", w, h)
	}
	frame, err := stream.Frame()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if frame.Bounds().Dx() != 64 || frame.Bounds().Dy() != 48 {
		t.Errorf("Expected 64x48 frame, got %v", frame.Bounds())
	}

	if err := stream.Close(); err != nil {
		t.Fatalf("Unexpected close error: %v", err)
	}
	if _, err := stream.Frame(); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestSyntheticDefaultsResolution(t *testing.T) {
	stream, err := NewSynthetic().Open(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if w, h := stream.Size(); w != 1280 || h != 720 {
		t.Errorf("Expected 1280x720, got %dx%d", w, h)
	}
}

func TestSyntheticCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSynthetic().Open(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestDirectoryCyclesImages(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	writePNG(t, filepath.Join(dir, "b.png"), blue)
	writePNG(t, filepath.Join(dir, "a.png"), red)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o600); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("nope"), 0o600); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	now := time.Unix(0, 0)
	p := NewDirectory(dir, time.Second)
	p.now = func() time.Time { return now }

	stream, err := p.Open(context.Background(), DefaultRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if w, h := stream.Size(); w != 8 || h != 6 {
		t.Errorf("Expected 8x6, got %dx%d", w, h)
	}

	expected := []color.RGBA{red, blue, red}
	for i, want := range expected {
		now = time.Unix(int64(i), 0)
		frame, err := stream.Frame()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		r, g, b, a := frame.At(0, 0).RGBA()
		got := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
		if got != want {
			t.Errorf("Second %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestDirectoryEmpty(t *testing.T) {
	_, err := NewDirectory(t.TempDir(), time.Second).Open(context.Background(), Request{})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}

	_, err = DecodeDir(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNoFrames) {
		t.Errorf("Expected ErrNoFrames, got %v", err)
	}

	if _, err := NewDirectory("", 0).Open(context.Background(), Request{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable without a directory, got %v", err)
	}
}

func TestFailingProvider(t *testing.T) {
	_, err := NewFailing("").Open(context.Background(), Request{})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
	if err.Error() != "camera unavailable: permission denied" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}
