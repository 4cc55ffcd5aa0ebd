package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/chinchinbooth/internal/history"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// HistoryOutput is the JSON shape of a history report
type HistoryOutput struct {
	Summary  *SummaryOutput     `json:"summary"`
	Sessions []*history.Session `json:"sessions"`
}

// SummaryOutput represents the summary section
type SummaryOutput struct {
	Sessions  int        `json:"sessions"`
	Entries   int        `json:"entries"`
	Ignored   int        `json:"ignored"`
	Captures  int        `json:"captures"`
	Exports   int        `json:"exports"`
	Failures  int        `json:"failures"`
	TimeRange *TimeRange `json:"time_range,omitempty"`
}

// TimeRange represents a time range
type TimeRange struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration string    `json:"duration"`
}

func (f *jsonFormatter) FormatHistory(h *history.History) ([]byte, error) {
	output := &HistoryOutput{
		Summary:  createSummary(h),
		Sessions: h.Sessions,
	}
	if output.Sessions == nil {
		output.Sessions = []*history.Session{}
	}
	return json.MarshalIndent(output, "", "  ")
}

func (f *jsonFormatter) FormatPalette(p *Palette) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// createSummary totals every session
func createSummary(h *history.History) *SummaryOutput {
	total := h.Totals()
	summary := &SummaryOutput{
		Sessions: len(h.Sessions),
		Entries:  h.Entries,
		Ignored:  h.Ignored,
		Captures: total.Captures,
		Exports:  total.Exports,
		Failures: total.Failures,
	}

	if !total.Started.IsZero() && !total.Ended.IsZero() {
		summary.TimeRange = &TimeRange{
			Start:    total.Started,
			End:      total.Ended,
			Duration: total.Ended.Sub(total.Started).String(),
		}
	}

	return summary
}
