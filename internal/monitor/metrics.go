package monitor

import (
	"math"
	"runtime"
	"sync/atomic"
	"time"
)

// Operation names a timed booth operation
type Operation string

const (
	OperationCameraOpen Operation = "camera_open"
	OperationGrab       Operation = "grab"
	OperationExport     Operation = "export"
	OperationCompose    Operation = "compose"
)

// Operations lists every tracked operation in report order
var Operations = []Operation{OperationCameraOpen, OperationGrab, OperationExport, OperationCompose}

// Counter is a thread-safe counter metric
type Counter struct {
	value atomic.Int64
	name  string
}

// NewCounter creates a new counter metric
func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

// Inc increments the counter by 1
func (c *Counter) Inc() { c.value.Add(1) }

// Add adds the given value to the counter
func (c *Counter) Add(value int64) { c.value.Add(value) }

// Get returns the current counter value
func (c *Counter) Get() int64 { return c.value.Load() }

// Reset resets the counter to 0
func (c *Counter) Reset() { c.value.Store(0) }

// Name returns the counter name
func (c *Counter) Name() string { return c.name }

// Gauge is a thread-safe gauge metric that can go up and down
type Gauge struct {
	bits atomic.Uint64
	name string
}

// NewGauge creates a new gauge metric
func NewGauge(name string) *Gauge {
	return &Gauge{name: name}
}

// Set sets the gauge to the given value
func (g *Gauge) Set(value float64) { g.bits.Store(math.Float64bits(value)) }

// Get returns the current gauge value
func (g *Gauge) Get() float64 { return math.Float64frombits(g.bits.Load()) }

// Add adds the given value to the gauge
func (g *Gauge) Add(value float64) {
	for {
		old := g.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + value)
		if g.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

// Name returns the gauge name
func (g *Gauge) Name() string { return g.name }

const noMin = math.MaxInt64

// Timer is a thread-safe timer for measuring operation durations
type Timer struct {
	count  atomic.Int64
	errors atomic.Int64
	total  atomic.Int64
	min    atomic.Int64
	max    atomic.Int64
	name   string
}

// NewTimer creates a new timer metric
func NewTimer(name string) *Timer {
	t := &Timer{name: name}
	t.min.Store(noMin)
	return t
}

// Record records a duration measurement
func (t *Timer) Record(d time.Duration) {
	nanos := d.Nanoseconds()
	t.count.Add(1)
	t.total.Add(nanos)

	for {
		current := t.min.Load()
		if nanos >= current || t.min.CompareAndSwap(current, nanos) {
			break
		}
	}
	for {
		current := t.max.Load()
		if nanos <= current || t.max.CompareAndSwap(current, nanos) {
			break
		}
	}
}

// RecordError counts a failed operation
func (t *Timer) RecordError() { t.errors.Add(1) }

// Count returns the number of recorded measurements
func (t *Timer) Count() int64 { return t.count.Load() }

// Errors returns the number of failed operations
func (t *Timer) Errors() int64 { return t.errors.Load() }

// TotalTime returns the total time of all measurements
func (t *Timer) TotalTime() time.Duration { return time.Duration(t.total.Load()) }

// MinTime returns the minimum recorded time
func (t *Timer) MinTime() time.Duration {
	if v := t.min.Load(); v != noMin {
		return time.Duration(v)
	}
	return 0
}

// MaxTime returns the maximum recorded time
func (t *Timer) MaxTime() time.Duration { return time.Duration(t.max.Load()) }

// AvgTime returns the average time of all measurements
func (t *Timer) AvgTime() time.Duration {
	count := t.count.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(t.total.Load() / count)
}

// Reset resets all timer metrics
func (t *Timer) Reset() {
	t.count.Store(0)
	t.errors.Store(0)
	t.total.Store(0)
	t.min.Store(noMin)
	t.max.Store(0)
}

// Name returns the timer name
func (t *Timer) Name() string { return t.name }

// MemoryMetrics is the heap footprint, dominated by held frames
type MemoryMetrics struct {
	HeapAlloc uint64 `json:"heap_alloc"`
	HeapInuse uint64 `json:"heap_inuse"`
	Sys       uint64 `json:"sys"`
	NumGC     uint32 `json:"num_gc"`
}

// CollectMemory reads memory metrics from the Go runtime
func CollectMemory() MemoryMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryMetrics{
		HeapAlloc: m.HeapAlloc,
		HeapInuse: m.HeapInuse,
		Sys:       m.Sys,
		NumGC:     m.NumGC,
	}
}
