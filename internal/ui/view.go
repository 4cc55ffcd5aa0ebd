package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/chinchinbooth/internal/booth"
	"github.com/yildizm/chinchinbooth/internal/compose"
	"github.com/yildizm/chinchinbooth/internal/emoji"
	"github.com/yildizm/chinchinbooth/internal/overlay"
	"github.com/yildizm/chinchinbooth/internal/ui/components"
)

// Thumbnail size on the layout screen, in cells
const (
	thumbCols    = 14
	thumbRows    = 4
	thumbPerLine = 4
)

// View renders the active screen
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.session.Screen == booth.ScreenLayout {
		return m.layoutView()
	}
	return m.captureView()
}

func (m *Model) picture() *components.Picture {
	return components.NewPicture(!IsColorDisabled())
}

func (m *Model) header(subtitle string) string {
	s := GetStyles()
	title := s.Title.Render(emoji.Prefix("camera") + "chinchinbooth")
	return lipgloss.JoinHorizontal(lipgloss.Center, title, s.Muted.Render(subtitle))
}

// refreshLive renders the current camera frame with the live filters
func (m *Model) refreshLive() {
	if m.stream == nil {
		return
	}
	src, err := m.stream.Frame()
	if err != nil {
		m.liveErr = err.Error()
		return
	}
	w, h := m.stream.Size()
	cols, rows := components.Fit(w, h, min(m.width-4, 96), max(m.height-14, 4))
	img, err := m.opts.Grabber.Preview(src, m.session.Filters, cols, rows*2)
	if err != nil {
		m.liveErr = err.Error()
		return
	}
	m.liveErr = ""
	m.live = m.picture().Render(img, cols, rows)
}

func (m *Model) captureView() string {
	s := GetStyles()
	sess := m.session
	var b strings.Builder

	b.WriteString(m.header(fmt.Sprintf("%d/%d photos", sess.Store.Len(), booth.MaxCapture)))
	b.WriteString("\n\n")

	switch sess.Phase() {
	case booth.PhaseIdle:
		b.WriteString(m.spinner.View() + " Starting camera...\n")
	case booth.PhaseFailed:
		msg := fmt.Sprintf("%s Camera unavailable: %s", emoji.GetEmoji("error"), sess.CameraErr)
		b.WriteString(s.Error.Render(msg) + "\n")
		b.WriteString(s.Muted.Render("Check camera.provider in your config, or run with --camera synthetic.") + "\n")
	default:
		if m.liveErr != "" {
			b.WriteString(s.Warning.Render(m.liveErr) + "\n")
		} else {
			b.WriteString(s.Frame.Render(m.live) + "\n")
		}
	}

	b.WriteString(m.captureStatus() + "\n")

	bar := components.NewProgressBar(24)
	bar.Color = !IsColorDisabled()
	bar.SetProgress(sess.Store.Len(), booth.MaxCapture)
	bar.SetLabel("Photos")
	b.WriteString(bar.Render() + "  " + components.Dots(sess.Store.Len(), booth.MaxCapture) + "\n")

	b.WriteString(m.filterLine() + "\n")
	b.WriteString(m.timerLine() + "\n")

	if m.notice != "" {
		b.WriteString(s.Warning.Render(m.notice) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.captureKeys))
	return b.String()
}

func (m *Model) captureStatus() string {
	s := GetStyles()
	sess := m.session
	switch {
	case sess.Capturing:
		return s.Countdown.Render(emoji.Prefix("flash") + "Smile!")
	case sess.Timer.Counting:
		return s.Countdown.Render(fmt.Sprintf("%s%d", emoji.Prefix("countdown"), sess.Timer.Countdown))
	case sess.Timer.AutoActive:
		return s.Active.Render(emoji.Prefix("auto") + "Next photo coming up...")
	case sess.Phase() == booth.PhaseComplete:
		return s.Success.Render(emoji.Prefix("sparkles") + "All photos taken! Press space to pick your layout.")
	case sess.Phase() == booth.PhaseLive:
		return s.Body.Render("Press space to take a photo.")
	default:
		return ""
	}
}

func (m *Model) filterLine() string {
	s := GetStyles()
	keys := map[booth.FilterID]string{
		booth.FilterMirror:     "m",
		booth.FilterBrightness: "b",
		booth.FilterContrast:   "c",
		booth.FilterGrayscale:  "g",
		booth.FilterSepia:      "s",
		booth.FilterSaturate:   "t",
	}
	parts := make([]string, 0, len(booth.FilterOrder))
	for _, id := range booth.FilterOrder {
		label := fmt.Sprintf("[%s] %s", keys[id], id)
		if m.session.Filters.Active(id) {
			parts = append(parts, s.Active.Render("● "+label))
		} else {
			parts = append(parts, s.Muted.Render("○ "+label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m *Model) timerLine() string {
	s := GetStyles()
	t := m.session.Timer
	auto := "off"
	if t.AutoMode {
		auto = "on"
	}
	if t.AutoActive {
		auto = "running"
	}
	return s.Muted.Render(fmt.Sprintf("Timer %ds   Auto %s", t.Seconds(), auto))
}

func (m *Model) layoutView() string {
	s := GetStyles()
	sess := m.session
	var b strings.Builder

	b.WriteString(m.header(fmt.Sprintf("%d-up layout", sess.Layout.Arity)))
	b.WriteString("\n\n")

	right := lipgloss.JoinVertical(lipgloss.Left, m.thumbnailGrid(), "", m.layoutInfo())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, s.Frame.Render(m.stripView()), "  ", right))
	b.WriteString("\n")

	if m.editingHex {
		b.WriteString(m.hex.View() + "\n")
	}
	if m.notice != "" {
		b.WriteString(s.Warning.Render(m.notice) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.layoutKeys))
	return b.String()
}

// stripView renders the strip preview, reusing the last rendering while
// nothing it depends on changed
func (m *Model) stripView() string {
	sess := m.session
	frames := sess.SelectedFrames()
	ids := make([]string, len(frames))
	for i, f := range frames {
		ids[i] = f.ID()
	}
	cacheKey := fmt.Sprintf("%d|%s|%s|%s", sess.Layout.Arity, strings.Join(ids, ","), sess.Background, sess.Overlay)
	if cacheKey == m.stripKey {
		return m.strip
	}

	c := compose.Composition{
		Arity:      sess.Layout.Arity,
		Frames:     frames,
		Background: sess.Background,
	}
	if m.opts.Overlays != nil && sess.Overlay != "" && sess.Overlay != overlay.None {
		if ov, ok := m.opts.Overlays.Get(sess.Overlay); ok {
			c.Overlay = ov
		}
	}
	img := m.opts.Rasterizer.Preview(c)
	b := img.Bounds()
	cols, rows := components.Fit(b.Dx(), b.Dy(), max(m.width/3, 12), max(m.height-8, 8))

	m.strip = m.picture().Render(img, cols, rows)
	m.stripKey = cacheKey
	return m.strip
}

func (m *Model) thumbnailGrid() string {
	s := GetStyles()
	frames := m.session.Store.Frames()
	var lines []string
	var row []string
	for i, f := range frames {
		thumb, ok := m.thumbs[f.ID()]
		if !ok {
			b := f.Bounds()
			cols, rows := components.Fit(b.Dx(), b.Dy(), thumbCols, thumbRows)
			thumb = m.picture().Render(f.Image(), cols, rows)
			m.thumbs[f.ID()] = thumb
		}

		label := fmt.Sprintf("%d", i+1)
		if slot := m.session.Layout.SlotOf(i); slot >= 0 {
			label = s.Selected.Render(fmt.Sprintf("%d → #%d", i+1, slot+1))
		}
		frame := s.Frame
		if i == m.cursor {
			frame = s.Focused
		}
		row = append(row, lipgloss.JoinVertical(lipgloss.Center, frame.Render(thumb), label))

		if len(row) == thumbPerLine || i == len(frames)-1 {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) layoutInfo() string {
	s := GetStyles()
	sess := m.session
	var lines []string

	if remaining := sess.Layout.Remaining(); remaining > 0 {
		lines = append(lines, s.Body.Render(fmt.Sprintf("%sPick %d more photo(s) for the %d-up strip", emoji.Prefix("frame"), remaining, sess.Layout.Arity)))
	} else {
		lines = append(lines, s.Success.Render(emoji.Prefix("sparkles")+"Strip ready, press d to download"))
	}

	lines = append(lines, s.Body.Render(emoji.Prefix("palette")+sess.Background.String()))
	lines = append(lines, m.swatches())

	ov := sess.Overlay
	if ov == "" {
		ov = overlay.None
	}
	lines = append(lines, s.Body.Render(emoji.Prefix("sparkles")+"Overlay: "+ov))

	switch {
	case sess.Exporting:
		lines = append(lines, m.spinner.View()+" Saving strip...")
	case sess.ExportErr != "":
		lines = append(lines, s.Error.Render(emoji.Prefix("error")+"Export failed: "+sess.ExportErr))
	case sess.LastExport != "":
		lines = append(lines, s.Success.Render(emoji.Prefix("download")+"Saved to "+sess.LastExport))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// swatches shows the palette with the active color marked
func (m *Model) swatches() string {
	if len(m.opts.Palette) == 0 {
		return ""
	}
	colorOn := !IsColorDisabled()
	current := ""
	if !m.session.Background.IsGradient() {
		current = booth.HexColor(m.session.Background.Color)
	}
	var b strings.Builder
	for _, c := range m.opts.Palette {
		hex := booth.HexColor(c)
		cell := "  "
		if hex == current {
			cell = "<>"
		}
		if colorOn {
			b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(hex)).Foreground(lipgloss.Color("#111827")).Render(cell))
		} else if hex == current {
			b.WriteString("[x]")
		} else {
			b.WriteString("[ ]")
		}
	}
	return b.String()
}
