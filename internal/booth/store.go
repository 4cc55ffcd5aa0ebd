package booth

import (
	"image"
	"time"

	"github.com/google/uuid"
)

// MaxCapture is the number of frames a session can hold
const MaxCapture = 8

// Frame is one captured still with its filters already applied to the pixels.
// A Frame is never modified after creation.
type Frame struct {
	id         string
	seq        int
	capturedAt time.Time
	img        *image.RGBA
}

// NewFrame wraps a grabbed image as a frame
func NewFrame(img *image.RGBA, seq int, capturedAt time.Time) Frame {
	return Frame{
		id:         uuid.NewString(),
		seq:        seq,
		capturedAt: capturedAt,
		img:        img,
	}
}

// ID returns the unique frame identifier
func (f Frame) ID() string { return f.id }

// Seq returns the capture sequence number within the session
func (f Frame) Seq() int { return f.seq }

// CapturedAt returns the capture time
func (f Frame) CapturedAt() time.Time { return f.capturedAt }

// Image returns the frame pixels. Callers must not draw into it.
func (f Frame) Image() image.Image { return f.img }

// Bounds returns the frame bounds, empty for a zero frame
func (f Frame) Bounds() image.Rectangle {
	if f.img == nil {
		return image.Rectangle{}
	}
	return f.img.Bounds()
}

// Store is the ordered, bounded capture sequence shared by the capture and
// compose controllers. Operations return a new Store and never modify the
// receiver's backing array.
type Store struct {
	frames []Frame
}

// Len returns the number of captured frames
func (s Store) Len() int { return len(s.frames) }

// Empty reports whether no frame was captured yet
func (s Store) Empty() bool { return len(s.frames) == 0 }

// Full reports whether the store reached MaxCapture
func (s Store) Full() bool { return len(s.frames) >= MaxCapture }

// At returns the frame at index i
func (s Store) At(i int) (Frame, bool) {
	if i < 0 || i >= len(s.frames) {
		return Frame{}, false
	}
	return s.frames[i], true
}

// Last returns the most recent frame
func (s Store) Last() (Frame, bool) {
	return s.At(len(s.frames) - 1)
}

// Frames returns a copy of the captured frames in capture order
func (s Store) Frames() []Frame {
	out := make([]Frame, len(s.frames))
	copy(out, s.frames)
	return out
}

// Append adds a frame at the end. It is refused once the store is full.
func (s Store) Append(f Frame) (Store, bool) {
	if s.Full() {
		return s, false
	}
	frames := make([]Frame, len(s.frames), len(s.frames)+1)
	copy(frames, s.frames)
	return Store{frames: append(frames, f)}, true
}

// DropLast removes the most recent frame. It is refused when empty.
func (s Store) DropLast() (Store, bool) {
	if s.Empty() {
		return s, false
	}
	if len(s.frames) == 1 {
		return Store{}, true
	}
	frames := make([]Frame, len(s.frames)-1)
	copy(frames, s.frames)
	return Store{frames: frames}, true
}

// Clear returns an empty store
func (s Store) Clear() Store {
	return Store{}
}
