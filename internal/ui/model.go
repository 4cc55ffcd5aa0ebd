package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/yildizm/chinchinbooth/internal/booth"
	"github.com/yildizm/chinchinbooth/internal/camera"
	"github.com/yildizm/chinchinbooth/internal/compose"
	"github.com/yildizm/chinchinbooth/internal/grabber"
	"github.com/yildizm/chinchinbooth/internal/history"
	"github.com/yildizm/chinchinbooth/internal/logger"
	"github.com/yildizm/chinchinbooth/internal/monitor"
	"github.com/yildizm/chinchinbooth/internal/overlay"
)

// overlayDebounce coalesces bursts of file events in the overlay directory
const overlayDebounce = 250 * time.Millisecond

// Options wires the booth to its camera, renderer and outputs
type Options struct {
	Provider camera.Provider
	Request  camera.Request
	Session  booth.Options

	Grabber    *grabber.Grabber
	Exporter   *compose.Exporter
	Rasterizer *compose.StripRasterizer
	Overlays   *overlay.Library

	Palette    []color.RGBA
	Gradients  []booth.Gradient
	Overlay    string
	PreviewFPS int
	AutoReload bool

	Stats *monitor.Stats
	Log   *logger.Logger
}

// Model is the bubbletea model of the booth. All session state lives in
// booth.Session; the model only interprets its effects.
type Model struct {
	opts    Options
	id      string
	session booth.Session
	stream  camera.Stream

	ctx       context.Context
	cancel    context.CancelFunc
	overlayCh chan struct{}

	captureKeys captureKeys
	layoutKeys  layoutKeys
	help        help.Model
	spinner     spinner.Model
	hex         textinput.Model
	editingHex  bool

	width    int
	height   int
	cursor   int
	colorIdx int
	gradIdx  int
	notice   string
	quitting bool

	// Rendering caches
	live     string
	liveErr  string
	strip    string
	stripKey string
	thumbs   map[string]string

	// Bookkeeping for session events
	lastGrab    time.Duration
	lastFilters booth.Filters
	job         booth.ExportJob

	log *logger.Logger
}

// NewModel creates a booth model for one session
func NewModel(opts Options) *Model {
	if opts.Stats == nil {
		opts.Stats = monitor.NewStats()
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.Grabber == nil {
		opts.Grabber = grabber.New(grabber.Options{})
	}
	if opts.Rasterizer == nil {
		opts.Rasterizer = compose.NewStripRasterizer(compose.DefaultGeometry().WithScale(0.5))
	}
	if opts.Exporter == nil {
		opts.Exporter = compose.NewExporter(".", compose.NewStripRasterizer(compose.DefaultGeometry()))
	}
	if opts.Exporter.Overlays == nil && opts.Overlays != nil {
		opts.Exporter.Overlays = opts.Overlays
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())

	hex := textinput.New()
	hex.Placeholder = "#RRGGBB"
	hex.CharLimit = 7
	hex.Width = 10
	hex.Prompt = "hex: "

	m := &Model{
		opts:        opts,
		id:          id,
		session:     booth.NewSession(opts.Session),
		ctx:         ctx,
		cancel:      cancel,
		overlayCh:   make(chan struct{}, 1),
		captureKeys: newCaptureKeys(),
		layoutKeys:  newLayoutKeys(),
		help:        help.New(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		hex:         hex,
		width:       80,
		height:      24,
		thumbs:      make(map[string]string),
		log:         opts.Log.WithComponent("booth").With(logger.F(history.FieldSession, id)),
	}
	if opts.Overlay != "" && opts.Overlay != overlay.None {
		m.session, _ = m.session.Apply(booth.SetOverlay{Name: opts.Overlay})
	}
	return m
}

// ID returns the session identifier written to the session log
func (m *Model) ID() string {
	return m.id
}

// Session returns the current booth state
func (m *Model) Session() booth.Session {
	return m.session
}

// Init starts the camera and the overlay watcher
func (m *Model) Init() tea.Cmd {
	m.log.Event(history.EventSessionStarted, logger.F(history.FieldProvider, m.opts.Provider.Name()))

	cmds := []tea.Cmd{
		CreateOpenCameraCommand(m.ctx, m.opts.Provider, m.opts.Request, m.opts.Stats),
		m.spinner.Tick,
	}
	if m.opts.AutoReload && m.opts.Overlays != nil {
		cmds = append(cmds, m.watchOverlays(), waitForOverlays(m.ctx, m.overlayCh))
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.invalidate()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case cameraOpenedMsg:
		if m.quitting {
			_ = msg.stream.Close()
			return m, nil
		}
		m.stream = msg.stream
		w, h := msg.stream.Size()
		m.log.Event(history.EventCameraOpened,
			logger.F(history.FieldProvider, m.opts.Provider.Name()),
			logger.F("resolution", fmt.Sprintf("%dx%d", w, h)))
		cmd := m.apply(booth.CameraOpened{})
		m.refreshLive()
		return m, tea.Batch(cmd, previewTick(m.opts.PreviewFPS))

	case cameraFailedMsg:
		m.log.Event(history.EventCameraFailed,
			logger.F(history.FieldProvider, m.opts.Provider.Name()),
			logger.Error(msg.err))
		return m, m.apply(booth.CameraFailed{Err: msg.err})

	case tickMsg:
		return m, m.apply(booth.Tick{Gen: msg.gen})

	case restartMsg:
		return m, m.apply(booth.Restart{Gen: msg.gen})

	case previewTickMsg:
		if m.stream == nil || m.quitting {
			return m, nil
		}
		if m.session.Screen == booth.ScreenCapture {
			m.refreshLive()
		}
		return m, previewTick(m.opts.PreviewFPS)

	case exportDoneMsg:
		return m, m.finishExport(msg)

	case overlaysChangedMsg:
		m.overlaysChanged()
		return m, waitForOverlays(m.ctx, m.overlayCh)

	case overlayWatchFailedMsg:
		m.log.Warn("overlay watcher stopped: %v", msg.err)
		m.notice = "overlay auto-reload stopped"
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.editingHex {
		var cmd tea.Cmd
		m.hex, cmd = m.hex.Update(msg)
		return m, cmd
	}
	return m, nil
}

// apply runs one transition, records it and interprets its effects
func (m *Model) apply(ev booth.Event) tea.Cmd {
	prev := m.session
	next, effects := prev.Apply(ev)
	m.session = next
	m.record(ev, prev, next)
	m.opts.Stats.Frames.Set(float64(next.Store.Len()))
	if next.Store.Len() != prev.Store.Len() || next.Screen != prev.Screen {
		m.invalidate()
		if m.cursor >= next.Store.Len() {
			m.cursor = 0
		}
	}
	return m.run(effects)
}

// run turns effects into commands. Grabs are answered synchronously so the
// captured frame matches what the preview showed at zero.
func (m *Model) run(effects []booth.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, eff := range effects {
		switch e := eff.(type) {
		case booth.ScheduleTick:
			cmds = append(cmds, scheduleTick(e))
		case booth.ScheduleRestart:
			cmds = append(cmds, scheduleRestart(e))
		case booth.Grab:
			cmds = append(cmds, m.apply(m.grab(e)))
		case booth.RunExport:
			m.job = e.Job
			cmds = append(cmds, CreateExportCommand(m.ctx, m.opts.Exporter, e.Job))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) grab(g booth.Grab) booth.Event {
	if m.stream == nil {
		return booth.CaptureFailed{Err: camera.ErrUnavailable}
	}
	var img *image.RGBA
	start := time.Now()
	err := m.opts.Stats.Track(monitor.OperationGrab, func() error {
		src, err := m.stream.Frame()
		if err != nil {
			return err
		}
		img, err = m.opts.Grabber.Grab(src, g.Filters)
		return err
	})
	m.lastGrab = time.Since(start)
	m.lastFilters = g.Filters
	if err != nil {
		return booth.CaptureFailed{Err: err}
	}
	return booth.FrameCaptured{Frame: booth.NewFrame(img, g.Seq, time.Now())}
}

// record writes session events for transitions that changed something
func (m *Model) record(ev booth.Event, prev, next booth.Session) {
	switch ev := ev.(type) {
	case booth.FrameCaptured:
		if next.Store.Len() > prev.Store.Len() {
			m.opts.Stats.Captures.Inc()
			m.log.Event(history.EventFrameCaptured,
				logger.F(history.FieldSeq, ev.Frame.Seq()),
				logger.F(history.FieldFilters, filterList(m.lastFilters)),
				logger.Duration(m.lastGrab))
		}
	case booth.CaptureFailed:
		if prev.Capturing {
			m.log.Event(history.EventCaptureFailed, logger.Error(ev.Err))
			m.notice = "capture failed: " + ev.Err.Error()
		}
	case booth.Undo:
		if next.Store.Len() < prev.Store.Len() {
			m.opts.Stats.Undos.Inc()
			m.log.Event(history.EventUndo, logger.Count(next.Store.Len()))
		}
	case booth.Reset:
		if prev.Screen == booth.ScreenCapture && !prev.Store.Empty() {
			m.opts.Stats.Resets.Inc()
			m.log.Event(history.EventReset, logger.Count(prev.Store.Len()))
		}
	case booth.Retake:
		if prev.Screen == booth.ScreenLayout && next.Screen == booth.ScreenCapture {
			m.opts.Stats.Retakes.Inc()
			m.log.Event(history.EventRetake)
		}
	}
}

func (m *Model) finishExport(msg exportDoneMsg) tea.Cmd {
	wasExporting := m.session.Exporting
	cmd := m.apply(booth.ExportFinished{Path: msg.path, Err: msg.err})
	if !wasExporting {
		return cmd
	}
	overlayName := m.job.Overlay
	if overlayName == "" {
		overlayName = overlay.None
	}
	if msg.err != nil {
		m.log.Event(history.EventExportFailed,
			logger.F(history.FieldArity, m.job.Arity),
			logger.Error(msg.err))
		return cmd
	}
	m.log.Event(history.EventExported,
		logger.F(history.FieldArity, m.job.Arity),
		logger.F(history.FieldOverlay, overlayName),
		logger.F(history.FieldPath, msg.path),
		logger.Duration(msg.duration))
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingHex {
		return m, m.handleHexKey(msg)
	}

	switch {
	case key.Matches(msg, m.captureKeys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.captureKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	m.notice = ""
	if m.session.Screen == booth.ScreenLayout {
		return m, m.handleLayoutKey(msg)
	}
	return m, m.handleCaptureKey(msg)
}

func (m *Model) handleCaptureKey(msg tea.KeyMsg) tea.Cmd {
	k := m.captureKeys
	switch {
	case key.Matches(msg, k.Advance):
		return m.apply(booth.Advance{})
	case key.Matches(msg, k.Cancel):
		return m.apply(booth.Cancel{})
	case key.Matches(msg, k.Undo):
		return m.apply(booth.Undo{})
	case key.Matches(msg, k.Reset):
		return m.apply(booth.Reset{})
	case key.Matches(msg, k.ResetFilters):
		return m.apply(booth.ResetFilters{})
	case key.Matches(msg, k.Timer):
		return m.apply(booth.CycleTimer{})
	case key.Matches(msg, k.Auto):
		return m.apply(booth.ToggleAutoMode{})
	}
	if id, ok := m.filterFor(msg); ok {
		return m.apply(booth.ToggleFilter{ID: id})
	}
	return nil
}

func (m *Model) filterFor(msg tea.KeyMsg) (booth.FilterID, bool) {
	k := m.captureKeys
	bindings := []struct {
		binding key.Binding
		id      booth.FilterID
	}{
		{k.Mirror, booth.FilterMirror},
		{k.Brightness, booth.FilterBrightness},
		{k.Contrast, booth.FilterContrast},
		{k.Grayscale, booth.FilterGrayscale},
		{k.Sepia, booth.FilterSepia},
		{k.Saturate, booth.FilterSaturate},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			return b.id, true
		}
	}
	return "", false
}

func (m *Model) handleLayoutKey(msg tea.KeyMsg) tea.Cmd {
	k := m.layoutKeys
	count := m.session.Store.Len()
	switch {
	case key.Matches(msg, k.Retake):
		return m.apply(booth.Retake{})
	case key.Matches(msg, k.Export):
		if !m.session.CanExport() && !m.session.Exporting {
			m.notice = fmt.Sprintf("pick %d more photo(s) first", m.session.Layout.Remaining())
		}
		return m.apply(booth.Export{})
	case key.Matches(msg, k.Arity):
		n := booth.ArityDouble
		if m.session.Layout.Arity == booth.ArityDouble {
			n = booth.ArityStrip
		}
		return m.apply(booth.SelectArity{N: n})
	case key.Matches(msg, k.Slot):
		idx := int(msg.String()[0]-'1')
		if idx < count {
			m.cursor = idx
		}
		return m.apply(booth.ToggleSlot{Index: idx})
	case key.Matches(msg, k.Left):
		if count > 0 {
			m.cursor = (m.cursor - 1 + count) % count
		}
	case key.Matches(msg, k.Right):
		if count > 0 {
			m.cursor = (m.cursor + 1) % count
		}
	case key.Matches(msg, k.Toggle):
		return m.apply(booth.ToggleSlot{Index: m.cursor})
	case key.Matches(msg, k.NextColor):
		return m.cycleColor(1)
	case key.Matches(msg, k.PrevColor):
		return m.cycleColor(-1)
	case key.Matches(msg, k.NextGradient):
		return m.cycleGradient()
	case key.Matches(msg, k.NextOverlay):
		if m.opts.Overlays == nil {
			return nil
		}
		return m.apply(booth.SetOverlay{Name: m.opts.Overlays.Next(m.session.Overlay)})
	case key.Matches(msg, k.HexColor):
		m.editingHex = true
		m.hex.SetValue("#")
		m.hex.CursorEnd()
		return tea.Batch(m.hex.Focus(), textinput.Blink)
	}
	return nil
}

// handleHexKey edits the custom color; shortcuts are off while it has focus
func (m *Model) handleHexKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopHex()
		return nil
	case tea.KeyEnter:
		c, err := booth.ParseHexColor(m.hex.Value())
		if err != nil {
			m.notice = err.Error()
			return nil
		}
		m.stopHex()
		return m.apply(booth.SetBackground{Background: booth.SolidBackground(c)})
	case tea.KeyCtrlC:
		return m.quit()
	}
	var cmd tea.Cmd
	m.hex, cmd = m.hex.Update(msg)
	return cmd
}

func (m *Model) stopHex() {
	m.editingHex = false
	m.notice = ""
	m.hex.Blur()
	m.hex.Reset()
}

func (m *Model) cycleColor(step int) tea.Cmd {
	n := len(m.opts.Palette)
	if n == 0 {
		return nil
	}
	m.colorIdx = ((m.colorIdx+step)%n + n) % n
	return m.apply(booth.SetBackground{Background: booth.SolidBackground(m.opts.Palette[m.colorIdx])})
}

func (m *Model) cycleGradient() tea.Cmd {
	n := len(m.opts.Gradients)
	if n == 0 {
		return nil
	}
	if m.session.Background.IsGradient() {
		m.gradIdx = (m.gradIdx + 1) % n
	}
	return m.apply(booth.SetBackground{Background: booth.GradientBackground(m.opts.Gradients[m.gradIdx])})
}

// overlaysChanged drops a selected overlay that disappeared from disk
func (m *Model) overlaysChanged() {
	m.stripKey = ""
	name := m.session.Overlay
	if name == "" || name == overlay.None {
		return
	}
	if _, ok := m.opts.Overlays.Get(name); !ok {
		m.session, _ = m.session.Apply(booth.SetOverlay{Name: ""})
		m.notice = fmt.Sprintf("overlay %q was removed", name)
	}
}

func (m *Model) watchOverlays() tea.Cmd {
	lib := m.opts.Overlays
	ctx := m.ctx
	ch := m.overlayCh
	return func() tea.Msg {
		err := lib.Watch(ctx, overlayDebounce, func() {
			select {
			case ch <- struct{}{}:
			default:
			}
		})
		if err != nil {
			return overlayWatchFailedMsg{err: err}
		}
		return nil
	}
}

func (m *Model) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}

// Close ends the session: it releases the camera, stops background work
// and writes the closing event. It is safe to call more than once.
func (m *Model) Close() {
	if m.quitting {
		return
	}
	m.quitting = true
	m.cancel()
	if m.stream != nil {
		if err := m.stream.Close(); err != nil {
			m.log.Warn("failed to close camera: %v", err)
		}
	}
	snap := m.opts.Stats.Snapshot()
	m.log.Event(history.EventSessionEnded,
		logger.F("captures", snap.Captures),
		logger.F("exports", snap.Exports),
		logger.Duration(snap.Uptime))
}

// invalidate drops cached renderings that depend on size or frames
func (m *Model) invalidate() {
	m.stripKey = ""
	m.thumbs = make(map[string]string)
}

func filterList(f booth.Filters) string {
	active := f.ActiveSet()
	names := make([]string, len(active))
	for i, id := range active {
		names[i] = string(id)
	}
	return strings.Join(names, " ")
}
