// Package monitor keeps in-process counters and timings for a booth session.
package monitor

import "time"

// Stats collects the metrics of one session
type Stats struct {
	started time.Time

	Captures *Counter
	Undos    *Counter
	Resets   *Counter
	Retakes  *Counter
	Exports  *Counter
	Frames   *Gauge

	timers map[Operation]*Timer
}

// OperationMetrics summarizes one timed operation
type OperationMetrics struct {
	Operation Operation     `json:"operation"`
	Count     int64         `json:"count"`
	Errors    int64         `json:"errors"`
	Total     time.Duration `json:"total_ns"`
	Min       time.Duration `json:"min_ns"`
	Max       time.Duration `json:"max_ns"`
	Avg       time.Duration `json:"avg_ns"`
}

// Snapshot is a point-in-time copy of the session metrics
type Snapshot struct {
	Started    time.Time          `json:"started"`
	Uptime     time.Duration      `json:"uptime_ns"`
	Captures   int64              `json:"captures"`
	Undos      int64              `json:"undos"`
	Resets     int64              `json:"resets"`
	Retakes    int64              `json:"retakes"`
	Exports    int64              `json:"exports"`
	Frames     int                `json:"frames"`
	Operations []OperationMetrics `json:"operations"`
	Memory     MemoryMetrics      `json:"memory"`
}

// NewStats creates an empty metrics set
func NewStats() *Stats {
	s := &Stats{
		started:  time.Now(),
		Captures: NewCounter("captures"),
		Undos:    NewCounter("undos"),
		Resets:   NewCounter("resets"),
		Retakes:  NewCounter("retakes"),
		Exports:  NewCounter("exports"),
		Frames:   NewGauge("frames"),
		timers:   make(map[Operation]*Timer, len(Operations)),
	}
	for _, op := range Operations {
		s.timers[op] = NewTimer(string(op))
	}
	return s
}

// Timer returns the timer for an operation
func (s *Stats) Timer(op Operation) *Timer {
	if t, ok := s.timers[op]; ok {
		return t
	}
	return NewTimer(string(op))
}

// Track times fn under op and counts its failure
func (s *Stats) Track(op Operation, fn func() error) error {
	start := time.Now()
	err := fn()
	t := s.Timer(op)
	t.Record(time.Since(start))
	if err != nil {
		t.RecordError()
	}
	return err
}

// Snapshot copies the current metrics
func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Started:  s.started,
		Uptime:   time.Since(s.started),
		Captures: s.Captures.Get(),
		Undos:    s.Undos.Get(),
		Resets:   s.Resets.Get(),
		Retakes:  s.Retakes.Get(),
		Exports:  s.Exports.Get(),
		Frames:   int(s.Frames.Get()),
		Memory:   CollectMemory(),
	}
	for _, op := range Operations {
		t := s.timers[op]
		snap.Operations = append(snap.Operations, OperationMetrics{
			Operation: op,
			Count:     t.Count(),
			Errors:    t.Errors(),
			Total:     t.TotalTime(),
			Min:       t.MinTime(),
			Max:       t.MaxTime(),
			Avg:       t.AvgTime(),
		})
	}
	return snap
}
