package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/chinchinbooth/internal/booth"
	"github.com/yildizm/chinchinbooth/internal/camera"
	"github.com/yildizm/chinchinbooth/internal/compose"
	"github.com/yildizm/chinchinbooth/internal/monitor"
)

// Countdown and auto-sequence timers, tagged with their generation
type tickMsg struct{ gen uint64 }

type restartMsg struct{ gen uint64 }

// Camera lifecycle
type cameraOpenedMsg struct {
	stream camera.Stream
}

type cameraFailedMsg struct {
	err error
}

// previewTickMsg refreshes the live view
type previewTickMsg struct{}

type exportDoneMsg struct {
	path     string
	err      error
	duration time.Duration
}

// overlaysChangedMsg reports a reload of the overlay directory
type overlaysChangedMsg struct{}

type overlayWatchFailedMsg struct {
	err error
}

// CreateOpenCameraCommand acquires a stream without blocking the UI
func CreateOpenCameraCommand(ctx context.Context, p camera.Provider, req camera.Request, stats *monitor.Stats) tea.Cmd {
	return func() tea.Msg {
		var stream camera.Stream
		err := stats.Track(monitor.OperationCameraOpen, func() error {
			var err error
			stream, err = p.Open(ctx, req)
			return err
		})
		if err != nil {
			return cameraFailedMsg{err: err}
		}
		return cameraOpenedMsg{stream: stream}
	}
}

// CreateExportCommand rasterizes and saves a strip off the UI goroutine
func CreateExportCommand(ctx context.Context, e *compose.Exporter, job booth.ExportJob) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		path, err := e.Export(ctx, job)
		return exportDoneMsg{path: path, err: err, duration: time.Since(start)}
	}
}

func scheduleTick(e booth.ScheduleTick) tea.Cmd {
	return tea.Tick(e.After, func(time.Time) tea.Msg { return tickMsg{gen: e.Gen} })
}

func scheduleRestart(e booth.ScheduleRestart) tea.Cmd {
	return tea.Tick(e.After, func(time.Time) tea.Msg { return restartMsg{gen: e.Gen} })
}

func previewTick(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 12
	}
	return tea.Tick(time.Second/time.Duration(fps), func(time.Time) tea.Msg { return previewTickMsg{} })
}

// waitForOverlays turns one reload notification into a message
func waitForOverlays(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
			return overlaysChangedMsg{}
		}
	}
}
