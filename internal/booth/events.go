package booth

import "time"

// Event is an input to Session.Apply
type Event interface {
	isEvent()
}

// Camera lifecycle
type (
	// CameraOpened reports that the stream is live
	CameraOpened struct{}
	// CameraFailed reports that the camera could not be acquired
	CameraFailed struct{ Err error }
)

// Capture controller events
type (
	// Advance is the context-sensitive space/enter action
	Advance struct{}
	// StartCapture begins a countdown, or an auto-sequence in auto mode
	StartCapture struct{}
	// Tick is a countdown tick scheduled under generation Gen
	Tick struct{ Gen uint64 }
	// Restart begins the next auto-sequence countdown after the pause
	Restart struct{ Gen uint64 }
	// FrameCaptured delivers the grabbed frame for a Grab effect
	FrameCaptured struct{ Frame Frame }
	// CaptureFailed reports a grabber error for a Grab effect
	CaptureFailed struct{ Err error }
	// Cancel stops the countdown and auto-sequence
	Cancel struct{}
	// Undo drops the last capture
	Undo struct{}
	// Reset drops every capture
	Reset struct{}
	// ToggleFilter flips one filter
	ToggleFilter struct{ ID FilterID }
	// ResetFilters restores the default filters
	ResetFilters struct{}
	// CycleTimer selects the next countdown length
	CycleTimer struct{}
	// ToggleAutoMode switches auto-sequence mode
	ToggleAutoMode struct{}
	// Proceed moves to the layout screen once the store is full
	Proceed struct{}
)

// Selection and compose controller events
type (
	// SelectArity picks a 4 or 8 slot layout
	SelectArity struct{ N int }
	// ToggleSlot selects or deselects a captured frame by store index
	ToggleSlot struct{ Index int }
	// SetBackground replaces the strip background
	SetBackground struct{ Background Background }
	// SetOverlay picks a decorative overlay by name; empty clears it
	SetOverlay struct{ Name string }
	// Export requests a rasterized download of the strip
	Export struct{}
	// ExportFinished reports the outcome of a RunExport effect
	ExportFinished struct {
		Path string
		Err  error
	}
	// Retake clears captures and selection and returns to capture
	Retake struct{}
)

func (CameraOpened) isEvent()   {}
func (CameraFailed) isEvent()   {}
func (Advance) isEvent()        {}
func (StartCapture) isEvent()   {}
func (Tick) isEvent()           {}
func (Restart) isEvent()        {}
func (FrameCaptured) isEvent()  {}
func (CaptureFailed) isEvent()  {}
func (Cancel) isEvent()         {}
func (Undo) isEvent()           {}
func (Reset) isEvent()          {}
func (ToggleFilter) isEvent()   {}
func (ResetFilters) isEvent()   {}
func (CycleTimer) isEvent()     {}
func (ToggleAutoMode) isEvent() {}
func (Proceed) isEvent()        {}
func (SelectArity) isEvent()    {}
func (ToggleSlot) isEvent()     {}
func (SetBackground) isEvent()  {}
func (SetOverlay) isEvent()     {}
func (Export) isEvent()         {}
func (ExportFinished) isEvent() {}
func (Retake) isEvent()         {}

// Effect is work the caller must perform on behalf of a transition
type Effect interface {
	isEffect()
}

type (
	// ScheduleTick asks for a Tick{Gen} after the delay
	ScheduleTick struct {
		Gen   uint64
		After time.Duration
	}
	// ScheduleRestart asks for a Restart{Gen} after the delay
	ScheduleRestart struct {
		Gen   uint64
		After time.Duration
	}
	// Grab asks for one frame with the filters baked in, answered by
	// FrameCaptured or CaptureFailed
	Grab struct {
		Filters Filters
		Seq     int
	}
	// RunExport asks for the strip to be rasterized and saved, answered
	// by ExportFinished
	RunExport struct{ Job ExportJob }
)

func (ScheduleTick) isEffect()    {}
func (ScheduleRestart) isEffect() {}
func (Grab) isEffect()            {}
func (RunExport) isEffect()       {}

// ExportJob is a snapshot of everything needed to render the strip
type ExportJob struct {
	Arity      int
	Frames     []Frame
	Background Background
	Overlay    string
}
