package booth

// Screen is the active half of the booth
type Screen int

const (
	ScreenCapture Screen = iota
	ScreenLayout
)

func (s Screen) String() string {
	if s == ScreenLayout {
		return "layout"
	}
	return "capture"
}

// CameraStatus tracks camera acquisition
type CameraStatus int

const (
	CameraIdle CameraStatus = iota
	CameraLive
	CameraDown
)

// Phase is the capture controller state derived from the session
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLive     Phase = "live"
	PhaseCounting Phase = "counting"
	PhaseComplete Phase = "complete"
	PhaseFailed   Phase = "failed"
)

// Session is the whole booth state. It is a value: Apply never mutates the
// receiver and returns the next state along with the effects to run.
type Session struct {
	Screen     Screen
	Camera     CameraStatus
	CameraErr  string
	Filters    Filters
	Store      Store
	Timer      Timer
	Capturing  bool
	Layout     Layout
	Background Background
	Overlay    string
	Exporting  bool
	LastExport string
	ExportErr  string

	opts Options
}

// NewSession returns a session waiting for the camera
func NewSession(opts Options) Session {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultOptions().TickInterval
	}
	if opts.AutoPause < 0 {
		opts.AutoPause = 0
	}
	timer := NewTimer(opts.TimerOptions, opts.DefaultTimer)
	timer.AutoMode = opts.AutoMode
	return Session{
		Screen:     ScreenCapture,
		Camera:     CameraIdle,
		Filters:    DefaultFilters(),
		Timer:      timer,
		Layout:     NewLayout(opts.Arity),
		Background: opts.Background,
		opts:       opts,
	}
}

// Phase reports the capture controller state
func (s Session) Phase() Phase {
	switch {
	case s.Camera == CameraDown:
		return PhaseFailed
	case s.Camera == CameraIdle:
		return PhaseIdle
	case s.Store.Full():
		return PhaseComplete
	case s.Timer.Busy() || s.Capturing:
		return PhaseCounting
	default:
		return PhaseLive
	}
}

// CanProceed reports whether the layout screen is reachable
func (s Session) CanProceed() bool {
	return s.Screen == ScreenCapture && s.Store.Full()
}

// CanExport reports whether an export request would be accepted
func (s Session) CanExport() bool {
	return s.Screen == ScreenLayout && s.Layout.Complete() && !s.Exporting
}

// SelectedFrames returns the frames in slot order
func (s Session) SelectedFrames() []Frame {
	frames := make([]Frame, 0, len(s.Layout.Selected))
	for _, idx := range s.Layout.Selected {
		if f, ok := s.Store.At(idx); ok {
			frames = append(frames, f)
		}
	}
	return frames
}

// Apply runs one transition. Refused actions return the session unchanged
// and no effects.
func (s Session) Apply(ev Event) (Session, []Effect) {
	switch ev := ev.(type) {
	case CameraOpened:
		if s.Camera == CameraIdle {
			s.Camera = CameraLive
		}
		return s, nil
	case CameraFailed:
		s.Camera = CameraDown
		if ev.Err != nil {
			s.CameraErr = ev.Err.Error()
		}
		s.Timer = s.Timer.stop()
		s.Capturing = false
		return s, nil
	case Advance:
		return s.advance()
	case StartCapture:
		return s.startCapture()
	case Tick:
		return s.tick(ev.Gen)
	case Restart:
		return s.restart(ev.Gen)
	case FrameCaptured:
		return s.frameCaptured(ev.Frame)
	case CaptureFailed:
		if !s.Capturing {
			return s, nil
		}
		s.Capturing = false
		s.Timer = s.Timer.stop()
		return s, nil
	case Cancel:
		s.Timer = s.Timer.stop()
		return s, nil
	case Undo:
		return s.undo(), nil
	case Reset:
		if s.Screen != ScreenCapture {
			return s, nil
		}
		s.Store = s.Store.Clear()
		s.Timer = s.Timer.stop()
		return s, nil
	case ToggleFilter:
		if s.filtersLocked() {
			return s, nil
		}
		s.Filters = s.Filters.Toggle(ev.ID)
		return s, nil
	case ResetFilters:
		if s.filtersLocked() {
			return s, nil
		}
		s.Filters = DefaultFilters()
		return s, nil
	case CycleTimer:
		if s.Timer.Busy() {
			return s, nil
		}
		s.Timer = s.Timer.Cycle()
		return s, nil
	case ToggleAutoMode:
		if s.Camera != CameraLive || s.Store.Full() || s.Capturing || s.Timer.Busy() {
			return s, nil
		}
		s.Timer.AutoMode = !s.Timer.AutoMode
		return s, nil
	case Proceed:
		return s.proceed(), nil
	case SelectArity:
		if s.Screen != ScreenLayout {
			return s, nil
		}
		if layout, ok := s.Layout.SelectArity(ev.N); ok {
			s.Layout = layout
		}
		return s, nil
	case ToggleSlot:
		if s.Screen != ScreenLayout {
			return s, nil
		}
		if _, ok := s.Store.At(ev.Index); !ok {
			return s, nil
		}
		if layout, ok := s.Layout.Toggle(ev.Index); ok {
			s.Layout = layout
		}
		return s, nil
	case SetBackground:
		s.Background = ev.Background
		return s, nil
	case SetOverlay:
		s.Overlay = ev.Name
		return s, nil
	case Export:
		return s.export()
	case ExportFinished:
		if !s.Exporting {
			return s, nil
		}
		s.Exporting = false
		if ev.Err != nil {
			s.ExportErr = ev.Err.Error()
			return s, nil
		}
		s.ExportErr = ""
		s.LastExport = ev.Path
		return s, nil
	case Retake:
		if s.Screen != ScreenLayout {
			return s, nil
		}
		s.Store = s.Store.Clear()
		s.Layout = s.Layout.Clear()
		s.Filters = DefaultFilters()
		s.Timer = s.freshTimer()
		s.Screen = ScreenCapture
		return s, nil
	}
	return s, nil
}

// freshTimer restores the configured timer while keeping the generation
// moving forward so nothing scheduled earlier can fire
func (s Session) freshTimer() Timer {
	gen := s.Timer.stop().Gen + 1
	t := NewTimer(s.opts.TimerOptions, s.opts.DefaultTimer)
	t.AutoMode = s.opts.AutoMode
	t.Gen = gen
	return t
}

func (s Session) advance() (Session, []Effect) {
	switch {
	case s.Screen != ScreenCapture:
		return s, nil
	case s.CanProceed():
		return s.proceed(), nil
	case s.Timer.AutoActive, s.Timer.Counting:
		s.Timer = s.Timer.stop()
		return s, nil
	default:
		return s.startCapture()
	}
}

func (s Session) startCapture() (Session, []Effect) {
	if s.Screen != ScreenCapture || s.Camera != CameraLive || s.Store.Full() ||
		s.Capturing || s.Timer.Busy() {
		return s, nil
	}
	s.Timer = s.Timer.begin()
	s.Timer.AutoActive = s.Timer.AutoMode
	return s.countdown()
}

// countdown schedules the next tick, or requests the capture at zero
func (s Session) countdown() (Session, []Effect) {
	if s.Timer.Countdown > 0 {
		return s, []Effect{ScheduleTick{Gen: s.Timer.Gen, After: s.opts.TickInterval}}
	}
	if s.Timer.fired {
		return s, nil
	}
	s.Timer.fired = true
	s.Capturing = true
	return s, []Effect{Grab{Filters: s.Filters, Seq: s.Store.Len() + 1}}
}

func (s Session) tick(gen uint64) (Session, []Effect) {
	if !s.Timer.Counting || gen != s.Timer.Gen || s.Timer.fired {
		return s, nil
	}
	if s.Timer.Countdown > 0 {
		s.Timer.Countdown--
	}
	return s.countdown()
}

func (s Session) restart(gen uint64) (Session, []Effect) {
	if !s.Timer.AutoActive || s.Timer.Counting || gen != s.Timer.Gen {
		return s, nil
	}
	if s.Store.Full() || s.Camera != CameraLive {
		s.Timer = s.Timer.stop()
		return s, nil
	}
	s.Timer = s.Timer.begin()
	return s.countdown()
}

func (s Session) frameCaptured(f Frame) (Session, []Effect) {
	if !s.Capturing {
		return s, nil
	}
	s.Capturing = false
	before := s.Store.Len()
	store, ok := s.Store.Append(f)
	if !ok {
		s.Timer = s.Timer.stop()
		return s, nil
	}
	s.Store = store

	if s.Timer.AutoActive && before < MaxCapture-1 {
		// Between countdowns the auto-sequence stays active, which keeps
		// filters and undo locked during the pause.
		s.Timer.Counting = false
		s.Timer.Countdown = 0
		s.Timer.fired = false
		return s, []Effect{ScheduleRestart{Gen: s.Timer.Gen, After: s.opts.AutoPause}}
	}
	s.Timer = s.Timer.stop()
	return s, nil
}

func (s Session) undo() Session {
	if s.Screen != ScreenCapture || s.Timer.Busy() || s.Capturing {
		return s
	}
	if store, ok := s.Store.DropLast(); ok {
		s.Store = store
	}
	return s
}

func (s Session) proceed() Session {
	if !s.CanProceed() {
		return s
	}
	s.Timer = s.Timer.stop()
	s.Screen = ScreenLayout
	return s
}

func (s Session) export() (Session, []Effect) {
	if !s.CanExport() {
		return s, nil
	}
	s.Exporting = true
	s.ExportErr = ""
	job := ExportJob{
		Arity:      s.Layout.Arity,
		Frames:     s.SelectedFrames(),
		Background: s.Background,
		Overlay:    s.Overlay,
	}
	return s, []Effect{RunExport{Job: job}}
}

func (s Session) filtersLocked() bool {
	return s.Camera != CameraLive || s.Timer.Busy() || s.Capturing
}
