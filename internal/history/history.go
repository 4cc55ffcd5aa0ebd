// Package history rebuilds past booth sessions from the JSON session log.
package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yildizm/go-logparser"
)

// Messages written by the booth for session events
const (
	EventSessionStarted = "session started"
	EventSessionEnded   = "session ended"
	EventCameraOpened   = "camera opened"
	EventCameraFailed   = "camera failed"
	EventFrameCaptured  = "frame captured"
	EventCaptureFailed  = "capture failed"
	EventUndo           = "capture undone"
	EventReset          = "captures reset"
	EventRetake         = "retake"
	EventExported       = "strip exported"
	EventExportFailed   = "export failed"
)

// Field keys carried by session events
const (
	FieldSession  = "session"
	FieldProvider = "provider"
	FieldSeq      = "seq"
	FieldFilters  = "filters"
	FieldArity    = "arity"
	FieldPath     = "path"
	FieldDuration = "duration"
	FieldError    = "error"
	FieldOverlay  = "overlay"
)

// ErrNoSessions is returned when a log holds no booth events
var ErrNoSessions = errors.New("no sessions found")

// Session summarizes one run of the booth
type Session struct {
	ID          string         `json:"id"`
	Started     time.Time      `json:"started"`
	Ended       time.Time      `json:"ended,omitempty"`
	Provider    string         `json:"provider,omitempty"`
	CameraError string         `json:"camera_error,omitempty"`
	Captures    int            `json:"captures"`
	Undos       int            `json:"undos"`
	Resets      int            `json:"resets"`
	Retakes     int            `json:"retakes"`
	Exports     int            `json:"exports"`
	Failures    int            `json:"failures"`
	Arities     map[int]int    `json:"arities,omitempty"`
	Filters     map[string]int `json:"filters,omitempty"`
	Overlays    map[string]int `json:"overlays,omitempty"`
	Files       []string       `json:"files,omitempty"`
	GrabTime    time.Duration  `json:"grab_time_ns"`
	ExportTime  time.Duration  `json:"export_time_ns"`
}

// Duration is the wall time between the first and last event
func (s *Session) Duration() time.Duration {
	if s.Ended.IsZero() || s.Ended.Before(s.Started) {
		return 0
	}
	return s.Ended.Sub(s.Started)
}

// History is every session found in a log
type History struct {
	Sessions []*Session `json:"sessions"`
	Entries  int        `json:"entries"`
	Ignored  int        `json:"ignored"`
}

// Totals sums the counters of every session
func (h *History) Totals() Session {
	var t Session
	t.ID = "total"
	for _, s := range h.Sessions {
		if t.Started.IsZero() || s.Started.Before(t.Started) {
			t.Started = s.Started
		}
		if s.Ended.After(t.Ended) {
			t.Ended = s.Ended
		}
		t.Captures += s.Captures
		t.Undos += s.Undos
		t.Resets += s.Resets
		t.Retakes += s.Retakes
		t.Exports += s.Exports
		t.Failures += s.Failures
		t.GrabTime += s.GrabTime
		t.ExportTime += s.ExportTime
		t.Files = append(t.Files, s.Files...)
	}
	return t
}

// Load reads and parses a session log file
func Load(path string) (*History, error) {
	// #nosec G304 - the path is the configured session log or a user argument
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session log: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse reads JSON log lines and groups booth events into sessions
func Parse(r io.Reader) (*History, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session log: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrNoSessions
	}

	p := logparser.NewWithFormat(logparser.FormatJSON)
	entries, err := p.ParseString(strings.Join(lines, "\n"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse session log: %w", err)
	}

	h := FromEntries(entries)
	if len(h.Sessions) == 0 {
		return nil, ErrNoSessions
	}
	return h, nil
}

// FromEntries groups parsed entries by session id. Entries without a
// session id are counted as ignored.
func FromEntries(entries []logparser.LogEntry) *History {
	h := &History{Entries: len(entries)}
	byID := make(map[string]*Session)

	for i := range entries {
		e := &entries[i]
		id := stringField(e, FieldSession)
		if id == "" {
			h.Ignored++
			continue
		}
		s, ok := byID[id]
		if !ok {
			s = &Session{
				ID:       id,
				Started:  e.Timestamp,
				Arities:  make(map[int]int),
				Filters:  make(map[string]int),
				Overlays: make(map[string]int),
			}
			byID[id] = s
			h.Sessions = append(h.Sessions, s)
		}
		if !e.Timestamp.IsZero() {
			if s.Started.IsZero() || e.Timestamp.Before(s.Started) {
				s.Started = e.Timestamp
			}
			if e.Timestamp.After(s.Ended) {
				s.Ended = e.Timestamp
			}
		}
		if !apply(s, e) {
			h.Ignored++
		}
	}

	sort.SliceStable(h.Sessions, func(i, j int) bool {
		return h.Sessions[i].Started.Before(h.Sessions[j].Started)
	})
	return h
}

// apply folds one event into the session and reports whether it was a
// booth event
func apply(s *Session, e *logparser.LogEntry) bool {
	switch message(e) {
	case EventSessionStarted:
		s.Provider = stringField(e, FieldProvider)
	case EventSessionEnded:
	case EventCameraOpened:
		if p := stringField(e, FieldProvider); p != "" {
			s.Provider = p
		}
	case EventCameraFailed:
		s.CameraError = stringField(e, FieldError)
		s.Failures++
	case EventFrameCaptured:
		s.Captures++
		s.GrabTime += durationField(e, FieldDuration)
		for _, f := range strings.Fields(stringField(e, FieldFilters)) {
			s.Filters[filterName(f)]++
		}
	case EventCaptureFailed, EventExportFailed:
		s.Failures++
	case EventUndo:
		s.Undos++
	case EventReset:
		s.Resets++
	case EventRetake:
		s.Retakes++
	case EventExported:
		s.Exports++
		s.ExportTime += durationField(e, FieldDuration)
		if n, ok := intField(e, FieldArity); ok {
			s.Arities[n]++
		}
		if ov := stringField(e, FieldOverlay); ov != "" {
			s.Overlays[ov]++
		}
		if p := stringField(e, FieldPath); p != "" {
			s.Files = append(s.Files, p)
		}
	default:
		return false
	}
	return true
}

// filterName turns "sepia(100%)" into "sepia"
func filterName(css string) string {
	if i := strings.IndexByte(css, '('); i > 0 {
		return css[:i]
	}
	return css
}

func message(e *logparser.LogEntry) string {
	if e.Message != "" {
		return e.Message
	}
	return stringField(e, "message")
}

func stringField(e *logparser.LogEntry, key string) string {
	v, ok := e.Fields[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func intField(e *logparser.LogEntry, key string) (int, bool) {
	switch val := e.Fields[key].(type) {
	case float64:
		return int(val), true
	case int:
		return val, true
	case int64:
		return int(val), true
	case string:
		n, err := strconv.Atoi(val)
		return n, err == nil
	default:
		return 0, false
	}
}

func durationField(e *logparser.LogEntry, key string) time.Duration {
	switch val := e.Fields[key].(type) {
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0
		}
		return d
	case float64:
		return time.Duration(val)
	default:
		return 0
	}
}
