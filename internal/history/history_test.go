package history

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/go-logparser"
)

var base = time.Date(2026, 2, 14, 18, 0, 0, 0, time.UTC)

func entry(offset time.Duration, msg string, fields map[string]interface{}) logparser.LogEntry {
	return logparser.LogEntry{
		Timestamp: base.Add(offset),
		Level:     "INFO",
		Message:   msg,
		Fields:    fields,
	}
}

func sessionEntries(id string, start time.Duration) []logparser.LogEntry {
	f := func(extra map[string]interface{}) map[string]interface{} {
		m := map[string]interface{}{FieldSession: id}
		for k, v := range extra {
			m[k] = v
		}
		return m
	}
	return []logparser.LogEntry{
		entry(start, EventSessionStarted, f(map[string]interface{}{FieldProvider: "synthetic"})),
		entry(start+time.Second, EventCameraOpened, f(nil)),
		entry(start+2*time.Second, EventFrameCaptured, f(map[string]interface{}{FieldSeq: 1.0, FieldFilters: "mirror sepia", FieldDuration: "20ms"})),
		entry(start+3*time.Second, EventFrameCaptured, f(map[string]interface{}{FieldSeq: 2.0, FieldFilters: "mirror", FieldDuration: "30ms"})),
		entry(start+4*time.Second, EventUndo, f(nil)),
		entry(start+5*time.Second, EventExportFailed, f(map[string]interface{}{FieldError: "disk full"})),
		entry(start+6*time.Second, EventExported, f(map[string]interface{}{FieldArity: 4.0, FieldPath: "/tmp/chinchinbooth_photo.png", FieldDuration: "1.5s", FieldOverlay: "party"})),
		entry(start+7*time.Second, EventSessionEnded, f(nil)),
	}
}

func TestFromEntriesSummarizesSession(t *testing.T) {
	h := FromEntries(sessionEntries("s1", 0))

	if len(h.Sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(h.Sessions))
	}
	s := h.Sessions[0]

	if s.ID != "s1" {
		t.Errorf("Expected id s1, got %s", s.ID)
	}
	if s.Provider != "synthetic" {
		t.Errorf("Expected provider synthetic, got %s", s.Provider)
	}
	if s.Captures != 2 {
		t.Errorf("Expected 2 captures, got %d", s.Captures)
	}
	if s.Undos != 1 {
		t.Errorf("Expected 1 undo, got %d", s.Undos)
	}
	if s.Exports != 1 {
		t.Errorf("Expected 1 export, got %d", s.Exports)
	}
	if s.Failures != 1 {
		t.Errorf("Expected 1 failure, got %d", s.Failures)
	}
	if s.GrabTime != 50*time.Millisecond {
		t.Errorf("Expected grab time 50ms, got %v", s.GrabTime)
	}
	if s.ExportTime != 1500*time.Millisecond {
		t.Errorf("Expected export time 1.5s, got %v", s.ExportTime)
	}
	if s.Filters["mirror"] != 2 || s.Filters["sepia"] != 1 {
		t.Errorf("Expected mirror 2 and sepia 1, got %v", s.Filters)
	}
	if s.Arities[4] != 1 {
		t.Errorf("Expected one 4-slot export, got %v", s.Arities)
	}
	if s.Overlays["party"] != 1 {
		t.Errorf("Expected one party overlay, got %v", s.Overlays)
	}
	if len(s.Files) != 1 || s.Files[0] != "/tmp/chinchinbooth_photo.png" {
		t.Errorf("Expected exported file recorded, got %v", s.Files)
	}
	if s.Duration() != 7*time.Second {
		t.Errorf("Expected duration 7s, got %v", s.Duration())
	}
}

func TestFromEntriesGroupsAndOrdersSessions(t *testing.T) {
	later := sessionEntries("later", time.Hour)
	earlier := sessionEntries("earlier", 0)

	// Interleave the two sessions
	var entries []logparser.LogEntry
	for i := range later {
		entries = append(entries, later[i], earlier[i])
	}

	h := FromEntries(entries)
	if len(h.Sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(h.Sessions))
	}
	if h.Sessions[0].ID != "earlier" || h.Sessions[1].ID != "later" {
		t.Errorf("Expected sessions ordered by start, got %s then %s", h.Sessions[0].ID, h.Sessions[1].ID)
	}

	total := h.Totals()
	if total.Captures != 4 {
		t.Errorf("Expected 4 captures in total, got %d", total.Captures)
	}
	if total.Exports != 2 {
		t.Errorf("Expected 2 exports in total, got %d", total.Exports)
	}
	if !total.Started.Equal(base) {
		t.Errorf("Expected total to start at %v, got %v", base, total.Started)
	}
}

func TestFromEntriesIgnoresForeignLines(t *testing.T) {
	entries := []logparser.LogEntry{
		entry(0, "unrelated", map[string]interface{}{"component": "main"}),
		entry(time.Second, "overlay library reloaded", map[string]interface{}{FieldSession: "s1"}),
		entry(2*time.Second, EventFrameCaptured, map[string]interface{}{FieldSession: "s1"}),
	}

	h := FromEntries(entries)
	if h.Entries != 3 {
		t.Errorf("Expected 3 entries, got %d", h.Entries)
	}
	if h.Ignored != 2 {
		t.Errorf("Expected 2 ignored entries, got %d", h.Ignored)
	}
	if len(h.Sessions) != 1 || h.Sessions[0].Captures != 1 {
		t.Errorf("Expected one session with one capture, got %+v", h.Sessions)
	}
}

func TestCameraFailureRecorded(t *testing.T) {
	h := FromEntries([]logparser.LogEntry{
		entry(0, EventSessionStarted, map[string]interface{}{FieldSession: "s1", FieldProvider: "fail"}),
		entry(time.Second, EventCameraFailed, map[string]interface{}{FieldSession: "s1", FieldError: "camera unavailable: permission denied"}),
	})

	s := h.Sessions[0]
	if s.CameraError != "camera unavailable: permission denied" {
		t.Errorf("Expected camera error recorded, got %q", s.CameraError)
	}
	if s.Failures != 1 {
		t.Errorf("Expected 1 failure, got %d", s.Failures)
	}
}

func TestFieldConversions(t *testing.T) {
	e := entry(0, "", map[string]interface{}{
		"message": EventRetake,
		"float":   8.0,
		"string":  "4",
		"bad":     "x",
		"dur":     "250ms",
		"nanos":   float64(time.Second),
	})

	if message(&e) != EventRetake {
		t.Errorf("Expected message from fields, got %q", message(&e))
	}
	if n, ok := intField(&e, "float"); !ok || n != 8 {
		t.Errorf("Expected 8, got %d (%v)", n, ok)
	}
	if n, ok := intField(&e, "string"); !ok || n != 4 {
		t.Errorf("Expected 4, got %d (%v)", n, ok)
	}
	if _, ok := intField(&e, "bad"); ok {
		t.Error("Expected non-numeric string to fail")
	}
	if d := durationField(&e, "dur"); d != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %v", d)
	}
	if d := durationField(&e, "nanos"); d != time.Second {
		t.Errorf("Expected 1s, got %v", d)
	}
	if d := durationField(&e, "missing"); d != 0 {
		t.Errorf("Expected 0, got %v", d)
	}
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader("\n\n"))
	if !errors.Is(err, ErrNoSessions) {
		t.Errorf("Expected ErrNoSessions, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.log"))
	if err == nil {
		t.Error("Expected error for missing log file")
	}
}
