package booth

import (
	"errors"
	"image"
	"reflect"
	"testing"
	"time"
)

// runner interprets effects synchronously so whole countdowns run in a test
type runner struct {
	s       Session
	grabs   int
	exports []ExportJob
	ticks   int
	grabErr error
	// holdExports leaves RunExport effects unanswered
	holdExports bool
}

func newRunner(t *testing.T) *runner {
	t.Helper()
	opts := DefaultOptions()
	opts.TickInterval = time.Millisecond
	opts.AutoPause = time.Millisecond
	s, _ := NewSession(opts).Apply(CameraOpened{})
	return &runner{s: s}
}

func (r *runner) send(ev Event) {
	queue := []Event{ev}
	for len(queue) > 0 {
		next, effects := r.s.Apply(queue[0])
		r.s = next
		queue = queue[1:]
		for _, eff := range effects {
			switch eff := eff.(type) {
			case ScheduleTick:
				r.ticks++
				queue = append(queue, Tick{Gen: eff.Gen})
			case ScheduleRestart:
				queue = append(queue, Restart{Gen: eff.Gen})
			case Grab:
				r.grabs++
				if r.grabErr != nil {
					queue = append(queue, CaptureFailed{Err: r.grabErr})
					continue
				}
				img := image.NewRGBA(image.Rect(0, 0, 4, 3))
				queue = append(queue, FrameCaptured{Frame: NewFrame(img, eff.Seq, time.Unix(int64(eff.Seq), 0))})
			case RunExport:
				r.exports = append(r.exports, eff.Job)
				if !r.holdExports {
					queue = append(queue, ExportFinished{Path: "chinchinbooth_photo.png"})
				}
			}
		}
	}
}

func (r *runner) fill(n int) {
	for i := 0; i < n; i++ {
		r.send(StartCapture{})
	}
}

func TestSingleCaptureAppendsOneFrame(t *testing.T) {
	r := newRunner(t)
	r.send(StartCapture{})

	if r.s.Store.Len() != 1 {
		t.Fatalf("Expected 1 frame, got %d", r.s.Store.Len())
	}
	if r.grabs != 1 {
		t.Errorf("Expected 1 grab, got %d", r.grabs)
	}
	if r.ticks != 5 {
		t.Errorf("Expected 5 ticks for the default timer, got %d", r.ticks)
	}
	if r.s.Timer.Busy() || r.s.Capturing {
		t.Error("Expected timer to be idle after capture")
	}
	if f, _ := r.s.Store.Last(); f.Seq() != 1 {
		t.Errorf("Expected sequence 1, got %d", f.Seq())
	}
}

func TestStoreNeverExceedsMax(t *testing.T) {
	r := newRunner(t)
	r.fill(MaxCapture + 3)

	if r.s.Store.Len() != MaxCapture {
		t.Errorf("Expected %d frames, got %d", MaxCapture, r.s.Store.Len())
	}
	if r.grabs != MaxCapture {
		t.Errorf("Expected %d grabs, got %d", MaxCapture, r.grabs)
	}
	if r.s.Phase() != PhaseComplete {
		t.Errorf("Expected phase complete, got %s", r.s.Phase())
	}
}

func TestStartRefusedWhileCounting(t *testing.T) {
	r := newRunner(t)
	s, effects := r.s.Apply(StartCapture{})
	if len(effects) != 1 {
		t.Fatalf("Expected 1 effect, got %d", len(effects))
	}
	again, more := s.Apply(StartCapture{})
	if len(more) != 0 {
		t.Errorf("Expected second start to be refused, got %d effects", len(more))
	}
	if again.Timer.Gen != s.Timer.Gen {
		t.Error("Expected generation to stay unchanged")
	}
}

func TestStaleTickIgnored(t *testing.T) {
	r := newRunner(t)
	s, effects := r.s.Apply(StartCapture{})
	tick := effects[0].(ScheduleTick)

	s, _ = s.Apply(Cancel{})
	s, _ = s.Apply(StartCapture{})
	before := s.Timer.Countdown

	after, out := s.Apply(Tick{Gen: tick.Gen})
	if len(out) != 0 {
		t.Errorf("Expected stale tick to produce no effects, got %d", len(out))
	}
	if after.Timer.Countdown != before {
		t.Errorf("Expected countdown %d, got %d", before, after.Timer.Countdown)
	}
}

func TestExactlyOneGrabPerCountdown(t *testing.T) {
	r := newRunner(t)
	s, effects := r.s.Apply(StartCapture{})
	gen := effects[0].(ScheduleTick).Gen

	grabs := 0
	for i := 0; i < 10; i++ {
		var out []Effect
		s, out = s.Apply(Tick{Gen: gen})
		for _, eff := range out {
			if _, ok := eff.(Grab); ok {
				grabs++
			}
		}
	}
	if grabs != 1 {
		t.Errorf("Expected exactly 1 grab, got %d", grabs)
	}
	if !s.Capturing {
		t.Error("Expected session to wait for the grabbed frame")
	}
}

func TestUndoIsInverseOfCapture(t *testing.T) {
	tests := []struct {
		name  string
		start int
	}{
		{"empty", 0},
		{"partial", 3},
		{"one short of full", MaxCapture - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRunner(t)
			r.fill(tt.start)
			before := r.s.Store

			r.send(StartCapture{})
			r.send(Undo{})

			if !reflect.DeepEqual(r.s.Store, before) {
				t.Errorf("Expected store of %d frames to be restored, got %d", before.Len(), r.s.Store.Len())
			}
		})
	}
}

func TestUndoRefusedWhileBusy(t *testing.T) {
	r := newRunner(t)
	r.fill(2)
	s, _ := r.s.Apply(StartCapture{})
	s, _ = s.Apply(Undo{})
	if s.Store.Len() != 2 {
		t.Errorf("Expected undo to be refused during countdown, got %d frames", s.Store.Len())
	}
}

func TestResetClearsStoreAndCancels(t *testing.T) {
	r := newRunner(t)
	r.fill(3)
	s, _ := r.s.Apply(StartCapture{})
	s, _ = s.Apply(Reset{})

	if !s.Store.Empty() {
		t.Errorf("Expected empty store, got %d", s.Store.Len())
	}
	if s.Timer.Busy() {
		t.Error("Expected reset to cancel the countdown")
	}
}

func TestGrayscaleSepiaExclusive(t *testing.T) {
	sequences := [][]FilterID{
		{FilterGrayscale, FilterSepia},
		{FilterSepia, FilterGrayscale},
		{FilterGrayscale, FilterSepia, FilterGrayscale},
		{FilterSepia, FilterSepia, FilterGrayscale, FilterBrightness},
	}

	for _, seq := range sequences {
		r := newRunner(t)
		for _, id := range seq {
			r.send(ToggleFilter{ID: id})
			if r.s.Filters.Grayscale != 0 && r.s.Filters.Sepia != 0 {
				t.Fatalf("Expected grayscale and sepia to be exclusive after %v", seq)
			}
		}
	}
}

func TestFiltersLockedWhileCounting(t *testing.T) {
	r := newRunner(t)
	s, _ := r.s.Apply(StartCapture{})
	s, _ = s.Apply(ToggleFilter{ID: FilterSepia})
	if s.Filters.Sepia != 0 {
		t.Error("Expected filter toggle to be refused during countdown")
	}
	s, _ = s.Apply(ResetFilters{})
	if !reflect.DeepEqual(s.Filters, DefaultFilters()) {
		t.Error("Expected filters to stay at defaults")
	}
}

func TestAutoSequence(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		wantGrabs int
	}{
		{"from empty", 0, MaxCapture},
		{"from six", 6, 2},
		{"from seven", 7, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRunner(t)
			r.fill(tt.start)
			r.grabs = 0

			r.send(ToggleAutoMode{})
			if !r.s.Timer.AutoMode {
				t.Fatal("Expected auto mode to be enabled")
			}
			r.send(StartCapture{})

			if r.grabs != tt.wantGrabs {
				t.Errorf("Expected %d grabs, got %d", tt.wantGrabs, r.grabs)
			}
			if r.s.Store.Len() != MaxCapture {
				t.Errorf("Expected %d frames, got %d", MaxCapture, r.s.Store.Len())
			}
			if r.s.Timer.Busy() {
				t.Error("Expected auto-sequence to stop at capacity")
			}
		})
	}
}

func TestAutoSequenceCancelledDuringPause(t *testing.T) {
	r := newRunner(t)
	r.send(ToggleAutoMode{})

	s, effects := r.s.Apply(StartCapture{})
	gen := effects[0].(ScheduleTick).Gen
	for s.Timer.Countdown > 0 {
		s, _ = s.Apply(Tick{Gen: gen})
	}
	s, effects = s.Apply(FrameCaptured{Frame: NewFrame(image.NewRGBA(image.Rect(0, 0, 4, 3)), 1, time.Now())})
	restart, ok := effects[0].(ScheduleRestart)
	if !ok {
		t.Fatalf("Expected ScheduleRestart, got %T", effects[0])
	}
	if !s.Timer.AutoActive {
		t.Error("Expected auto-sequence to stay active during the pause")
	}

	s, _ = s.Apply(Cancel{})
	s, effects = s.Apply(Restart{Gen: restart.Gen})
	if len(effects) != 0 || s.Timer.Counting {
		t.Error("Expected stale restart to be ignored after cancel")
	}
	if s.Store.Len() != 1 {
		t.Errorf("Expected 1 frame, got %d", s.Store.Len())
	}
}

func TestAdvanceIsContextSensitive(t *testing.T) {
	r := newRunner(t)

	s, effects := r.s.Apply(Advance{})
	if !s.Timer.Counting || len(effects) != 1 {
		t.Fatal("Expected advance to start a countdown")
	}
	s, _ = s.Apply(Advance{})
	if s.Timer.Busy() {
		t.Error("Expected advance to cancel a running countdown")
	}

	r.fill(MaxCapture)
	r.send(Advance{})
	if r.s.Screen != ScreenLayout {
		t.Errorf("Expected layout screen, got %s", r.s.Screen)
	}
}

func TestCameraFailureBlocksCapture(t *testing.T) {
	opts := DefaultOptions()
	s := NewSession(opts)

	if _, effects := s.Apply(StartCapture{}); len(effects) != 0 {
		t.Error("Expected capture to be refused before the camera opens")
	}

	s, _ = s.Apply(CameraFailed{Err: errors.New("permission denied")})
	if s.Phase() != PhaseFailed {
		t.Errorf("Expected phase failed, got %s", s.Phase())
	}
	if s.CameraErr != "permission denied" {
		t.Errorf("Expected camera error to be kept, got %q", s.CameraErr)
	}
	if _, effects := s.Apply(StartCapture{}); len(effects) != 0 {
		t.Error("Expected capture to be refused after camera failure")
	}
	s, _ = s.Apply(CameraOpened{})
	if s.Camera != CameraDown {
		t.Error("Expected failed camera to stay failed")
	}
}

func TestCameraFailureDuringGrab(t *testing.T) {
	s, _ := NewSession(DefaultOptions()).Apply(CameraOpened{})
	s, _ = s.Apply(StartCapture{})
	for i := 0; i < 20 && !s.Capturing; i++ {
		s, _ = s.Apply(Tick{Gen: s.Timer.Gen})
	}
	if !s.Capturing {
		t.Fatal("Expected a grab to be pending after the countdown")
	}

	s, _ = s.Apply(CameraFailed{Err: errors.New("unplugged")})
	if s.Capturing || s.Timer.Busy() {
		t.Error("Expected camera failure to clear the pending grab and countdown")
	}
	if s.Phase() != PhaseFailed {
		t.Errorf("Expected phase failed, got %s", s.Phase())
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	s, _ = s.Apply(FrameCaptured{Frame: NewFrame(img, 1, time.Unix(1, 0))})
	if !s.Store.Empty() {
		t.Error("Expected a late frame to be dropped after camera failure")
	}
}

func TestCaptureFailureStopsSequence(t *testing.T) {
	r := newRunner(t)
	r.grabErr = errors.New("no frame")
	r.send(ToggleAutoMode{})
	r.send(StartCapture{})

	if r.grabs != 1 {
		t.Errorf("Expected 1 grab attempt, got %d", r.grabs)
	}
	if !r.s.Store.Empty() {
		t.Error("Expected no frames after a failed grab")
	}
	if r.s.Timer.Busy() || r.s.Capturing {
		t.Error("Expected the sequence to stop")
	}
}

func TestProceedRequiresFullStore(t *testing.T) {
	r := newRunner(t)
	r.fill(MaxCapture - 1)
	r.send(Proceed{})
	if r.s.Screen != ScreenCapture {
		t.Error("Expected proceed to be refused with 7 frames")
	}
	r.fill(1)
	r.send(Proceed{})
	if r.s.Screen != ScreenLayout {
		t.Error("Expected layout screen with a full store")
	}
}

func layoutRunner(t *testing.T) *runner {
	t.Helper()
	r := newRunner(t)
	r.fill(MaxCapture)
	r.send(Proceed{})
	return r
}

func TestSelectArityClearsSelection(t *testing.T) {
	r := layoutRunner(t)
	r.send(ToggleSlot{Index: 2})
	r.send(ToggleSlot{Index: 5})

	for _, n := range []int{ArityStrip, ArityDouble, ArityStrip} {
		r.send(SelectArity{N: n})
		if len(r.s.Layout.Selected) != 0 {
			t.Errorf("Expected empty selection after selecting arity %d", n)
		}
		if r.s.Layout.Arity != n {
			t.Errorf("Expected arity %d, got %d", n, r.s.Layout.Arity)
		}
		r.send(ToggleSlot{Index: 1})
	}

	r.send(SelectArity{N: 6})
	if r.s.Layout.Arity != ArityStrip || len(r.s.Layout.Selected) != 1 {
		t.Error("Expected invalid arity to be refused")
	}

	r.send(SelectArity{N: ArityDouble})
	for _, i := range []int{0, 2, 3, 6, 7} {
		r.send(ToggleSlot{Index: i})
	}
	if len(r.s.Layout.Selected) != 5 {
		t.Fatalf("Expected 5 selected under arity 8, got %d", len(r.s.Layout.Selected))
	}
	r.send(SelectArity{N: ArityStrip})
	if len(r.s.Layout.Selected) != 0 || r.s.Layout.Arity != ArityStrip {
		t.Errorf("Expected arity 4 with empty selection, got arity %d with %v", r.s.Layout.Arity, r.s.Layout.Selected)
	}
}

func TestToggleSlotCompacts(t *testing.T) {
	r := layoutRunner(t)
	for _, i := range []int{2, 5, 7} {
		r.send(ToggleSlot{Index: i})
	}
	r.send(ToggleSlot{Index: 5})

	expected := []int{2, 7}
	if !reflect.DeepEqual(r.s.Layout.Selected, expected) {
		t.Errorf("Expected %v, got %v", expected, r.s.Layout.Selected)
	}
}

func TestToggleSlotBounded(t *testing.T) {
	r := layoutRunner(t)
	for i := 0; i < MaxCapture; i++ {
		r.send(ToggleSlot{Index: i})
	}
	if len(r.s.Layout.Selected) != ArityStrip {
		t.Errorf("Expected %d selected, got %d", ArityStrip, len(r.s.Layout.Selected))
	}
	r.send(ToggleSlot{Index: 99})
	if len(r.s.Layout.Selected) != ArityStrip {
		t.Error("Expected out of range index to be ignored")
	}
}

func TestExportRequiresCompleteSelection(t *testing.T) {
	r := layoutRunner(t)
	r.send(ToggleSlot{Index: 0})
	r.send(Export{})
	if len(r.exports) != 0 {
		t.Error("Expected export to be refused with an incomplete selection")
	}
}

func TestDoubleExportRunsOnce(t *testing.T) {
	r := layoutRunner(t)
	r.holdExports = true
	for _, i := range []int{3, 1, 0, 2} {
		r.send(ToggleSlot{Index: i})
	}
	r.send(Export{})
	r.send(Export{})

	if len(r.exports) != 1 {
		t.Fatalf("Expected 1 export, got %d", len(r.exports))
	}
	if !r.s.Exporting {
		t.Error("Expected export to be in flight")
	}

	job := r.exports[0]
	for slot, idx := range []int{3, 1, 0, 2} {
		want, _ := r.s.Store.At(idx)
		if job.Frames[slot].ID() != want.ID() {
			t.Errorf("Expected slot %d to hold frame %d", slot, idx)
		}
	}

	r.send(ExportFinished{Path: "out.png"})
	if r.s.Exporting || r.s.LastExport != "out.png" {
		t.Error("Expected export to complete")
	}
	r.send(Export{})
	if len(r.exports) != 2 {
		t.Error("Expected a new export once the previous one finished")
	}
}

func TestExportFailureRecorded(t *testing.T) {
	r := layoutRunner(t)
	r.holdExports = true
	for i := 0; i < ArityStrip; i++ {
		r.send(ToggleSlot{Index: i})
	}
	r.send(Export{})
	r.send(ExportFinished{Err: errors.New("disk full")})

	if r.s.Exporting {
		t.Error("Expected exporting flag to clear on failure")
	}
	if r.s.ExportErr != "disk full" {
		t.Errorf("Expected export error, got %q", r.s.ExportErr)
	}
}

func TestRetake(t *testing.T) {
	r := newRunner(t)
	r.send(ToggleFilter{ID: FilterSepia})
	r.send(ToggleFilter{ID: FilterMirror})
	r.send(CycleTimer{})
	r.fill(MaxCapture)
	r.send(Proceed{})
	r.send(ToggleSlot{Index: 0})
	gen := r.s.Timer.Gen
	r.send(Retake{})

	if r.s.Screen != ScreenCapture {
		t.Errorf("Expected capture screen, got %s", r.s.Screen)
	}
	if !r.s.Store.Empty() || len(r.s.Layout.Selected) != 0 {
		t.Error("Expected captures and selection to be cleared")
	}
	if r.s.Layout.Arity != ArityStrip {
		t.Error("Expected arity to be kept")
	}
	if r.s.Filters != DefaultFilters() {
		t.Errorf("Expected default filters after retake, got %+v", r.s.Filters)
	}
	if r.s.Timer.Seconds() != DefaultOptions().DefaultTimer {
		t.Errorf("Expected default timer %ds, got %ds", DefaultOptions().DefaultTimer, r.s.Timer.Seconds())
	}
	if r.s.Timer.AutoMode || r.s.Timer.Busy() {
		t.Error("Expected auto mode off and no countdown after retake")
	}
	if r.s.Timer.Gen <= gen {
		t.Errorf("Expected generation to move past %d, got %d", gen, r.s.Timer.Gen)
	}
}

func TestSetBackgroundLastWins(t *testing.T) {
	r := layoutRunner(t)
	g, err := ParseGradient("linear-gradient(to right, #FBCFE8, #99F6E4)")
	if err != nil {
		t.Fatalf("Failed to parse gradient: %v", err)
	}
	r.send(SetBackground{Background: GradientBackground(g)})
	red, _ := ParseHexColor("#EF4444")
	r.send(SetBackground{Background: SolidBackground(red)})

	if r.s.Background.IsGradient() {
		t.Error("Expected solid color to replace the gradient")
	}
	if r.s.Background.String() != "Color: #EF4444" {
		t.Errorf("Expected 'Color: #EF4444', got %q", r.s.Background.String())
	}
}
