package booth

import "time"

// DefaultTimerOptions are the selectable countdown lengths in seconds
var DefaultTimerOptions = []int{3, 5, 10}

// Timer holds the countdown and auto-sequence state.
//
// Gen is bumped whenever a countdown starts or is abandoned; scheduled
// ticks and restarts carry the generation they were issued under and are
// discarded when it no longer matches.
type Timer struct {
	Options    []int
	Selected   int
	Countdown  int
	Counting   bool
	AutoMode   bool
	AutoActive bool
	Gen        uint64

	// fired is set when the countdown reached zero and a capture was
	// requested for this generation.
	fired bool
}

// NewTimer builds a timer preselecting the given duration when available
func NewTimer(options []int, defaultSeconds int) Timer {
	if len(options) == 0 {
		options = DefaultTimerOptions
	}
	opts := make([]int, len(options))
	copy(opts, options)

	t := Timer{Options: opts}
	for i, sec := range opts {
		if sec == defaultSeconds {
			t.Selected = i
		}
	}
	return t
}

// Seconds returns the selected countdown length
func (t Timer) Seconds() int {
	return t.Options[t.Selected]
}

// Busy reports whether a countdown is pending or an auto-sequence runs
func (t Timer) Busy() bool {
	return t.Counting || t.AutoActive
}

// Cycle selects the next countdown length
func (t Timer) Cycle() Timer {
	t.Selected = (t.Selected + 1) % len(t.Options)
	return t
}

// begin starts a fresh countdown under a new generation
func (t Timer) begin() Timer {
	t.Gen++
	t.Countdown = t.Seconds()
	t.Counting = true
	t.fired = false
	return t
}

// stop abandons any countdown and auto-sequence
func (t Timer) stop() Timer {
	if t.Counting || t.AutoActive {
		t.Gen++
	}
	t.Countdown = 0
	t.Counting = false
	t.AutoActive = false
	t.fired = false
	return t
}

// Options tunes session timing
type Options struct {
	TimerOptions []int
	DefaultTimer int
	TickInterval time.Duration
	AutoPause    time.Duration
	AutoMode     bool
	Arity        int
	Background   Background
}

// DefaultOptions returns the timings used by the booth
func DefaultOptions() Options {
	return Options{
		TimerOptions: DefaultTimerOptions,
		DefaultTimer: 5,
		TickInterval: time.Second,
		AutoPause:    time.Second,
		Arity:        ArityStrip,
		Background:   DefaultBackground(),
	}
}
