package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/chinchinbooth/internal/emoji"
	"github.com/yildizm/chinchinbooth/internal/history"
)

// maxSessions caps the per-session section of the text report
const maxSessions = 10

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color, useEmoji bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = useEmoji
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) FormatHistory(h *history.History) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, "Booth Session History")
	f.writeStatistics(&b, h)

	if len(h.Sessions) > 0 {
		f.writeSessions(&b, h.Sessions)
	}

	return []byte(b.String()), nil
}

func (f *terminalFormatter) FormatPalette(p *Palette) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, "Backgrounds & Overlays")
	f.writeColors(&b, p.Colors)
	f.writeGradients(&b, p.Gradients)
	f.writeOverlays(&b, p.Overlays)

	return []byte(b.String()), nil
}

// symbol returns the emoji for key, or its fallback when emoji are off
func (f *terminalFormatter) symbol(key string) string {
	return emoji.Get(key, f.options().Emoji && !emoji.IsEmojiDisabled())
}

func (f *terminalFormatter) options() *termfmt.TerminalOptions {
	if f.opts == nil {
		return termfmt.DefaultOptions()
	}
	return f.opts
}

// writeStatistics writes totals with tree-style formatting using go-termfmt
func (f *terminalFormatter) writeStatistics(b *strings.Builder, h *history.History) {
	b.WriteString(f.symbol("statistics") + " Statistics\n")

	total := h.Totals()
	items := []termfmt.TreeItem{
		{Label: "Sessions", Value: formatNumber(len(h.Sessions))},
		{Label: "Captures", Value: formatNumber(total.Captures)},
		{Label: "Exports", Value: formatNumber(total.Exports)},
		{Label: "Failures", Value: formatNumber(total.Failures)},
		{Label: "Avg Grab", Value: average(total.GrabTime, total.Captures)},
		{Label: "Avg Export", Value: average(total.ExportTime, total.Exports)},
	}

	if !total.Started.IsZero() && total.Ended.After(total.Started) {
		items = append(items, termfmt.TreeItem{Label: "Time Range", Value: total.Ended.Sub(total.Started).String(), Last: true})
	} else {
		items = append(items, termfmt.TreeItem{Label: "Time Range", Value: "N/A", Last: true})
	}

	tree := termfmt.TreeViewWithOptions(items, f.options())
	b.WriteString(tree + "\n\n")
}

// writeSessions lists the most recent sessions, newest first
func (f *terminalFormatter) writeSessions(b *strings.Builder, sessions []*history.Session) {
	b.WriteString(f.symbol("camera") + " Sessions\n")

	start := 0
	if len(sessions) > maxSessions {
		start = len(sessions) - maxSessions
	}
	recent := sessions[start:]

	items := make([]termfmt.TreeItem, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		s := recent[i]
		items = append(items, termfmt.TreeItem{
			Label:    fmt.Sprintf("%s %s", s.Started.Local().Format("2006-01-02 15:04"), shortID(s.ID)),
			Value:    fmt.Sprintf("%d captures, %d exports", s.Captures, s.Exports),
			Children: f.sessionDetails(s),
			Last:     i == 0,
		})
	}

	tree := termfmt.TreeViewWithOptions(items, f.options())
	b.WriteString(tree + "\n")
	if start > 0 {
		fmt.Fprintf(b, "… %d older session(s) not shown\n", start)
	}
	b.WriteString("\n")
}

func (f *terminalFormatter) sessionDetails(s *history.Session) []termfmt.TreeItem {
	var children []termfmt.TreeItem
	if s.Provider != "" {
		children = append(children, termfmt.TreeItem{Label: "Camera", Value: s.Provider})
	}
	if s.CameraError != "" {
		children = append(children, termfmt.TreeItem{Label: f.symbol("error") + " Camera Error", Value: s.CameraError})
	}
	if d := s.Duration(); d > 0 {
		children = append(children, termfmt.TreeItem{Label: "Duration", Value: d.String()})
	}
	if s.Undos+s.Resets+s.Retakes > 0 {
		children = append(children, termfmt.TreeItem{
			Label: "Do-overs",
			Value: fmt.Sprintf("%d undo, %d reset, %d retake", s.Undos, s.Resets, s.Retakes),
		})
	}
	if len(s.Filters) > 0 {
		children = append(children, termfmt.TreeItem{Label: "Filters", Value: rankCounts(s.Filters, func(k string) string { return k })})
	}
	if len(s.Arities) > 0 {
		children = append(children, termfmt.TreeItem{Label: "Layouts", Value: rankCounts(s.Arities, func(n int) string { return strconv.Itoa(n) + "-up" })})
	}
	if len(s.Overlays) > 0 {
		children = append(children, termfmt.TreeItem{Label: "Overlays", Value: rankCounts(s.Overlays, func(k string) string { return k })})
	}
	if s.Exports+s.Failures > 0 {
		rate := successRate(s.Exports, s.Failures)
		children = append(children, termfmt.TreeItem{
			Label: "Success",
			Value: termfmt.CreateConfidenceBar(rate, f.options()) + fmt.Sprintf(" %.0f%%", rate*100),
		})
	}
	if len(children) > 0 {
		children[len(children)-1].Last = true
	}
	return children
}

// writeColors writes the swatch palette, with a color block when color is on
func (f *terminalFormatter) writeColors(b *strings.Builder, colors []string) {
	b.WriteString(f.symbol("palette") + " Colors\n")
	for i, hex := range colors {
		branch := "├─"
		if i == len(colors)-1 {
			branch = "└─"
		}
		fmt.Fprintf(b, "%s %s%s\n", branch, f.swatch(hex), hex)
	}
	b.WriteString("\n")
}

func (f *terminalFormatter) writeGradients(b *strings.Builder, gradients []GradientEntry) {
	if len(gradients) == 0 {
		return
	}
	b.WriteString(f.symbol("rainbow") + " Gradients\n")
	items := make([]termfmt.TreeItem, 0, len(gradients))
	for i, g := range gradients {
		items = append(items, termfmt.TreeItem{Label: g.Name, Value: g.CSS, Last: i == len(gradients)-1})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.options()) + "\n\n")
}

func (f *terminalFormatter) writeOverlays(b *strings.Builder, overlays []OverlayEntry) {
	if len(overlays) == 0 {
		return
	}
	b.WriteString(f.symbol("sparkles") + " Overlays\n")
	items := make([]termfmt.TreeItem, 0, len(overlays))
	for i, o := range overlays {
		items = append(items, termfmt.TreeItem{
			Label: o.Name,
			Value: fmt.Sprintf("%s (%s)", o.Title, o.Source),
			Last:  i == len(overlays)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.options()) + "\n")
}

func (f *terminalFormatter) swatch(hex string) string {
	if !f.options().Color {
		return ""
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("   ") + " "
}

// writeHeader writes a header with box drawing
func (f *terminalFormatter) writeHeader(b *strings.Builder, header string) {
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
