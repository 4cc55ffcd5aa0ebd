package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/chinchinbooth/internal/camera"
	"github.com/yildizm/chinchinbooth/internal/compose"
	"github.com/yildizm/chinchinbooth/internal/config"
	"github.com/yildizm/chinchinbooth/internal/emoji"
	"github.com/yildizm/chinchinbooth/internal/grabber"
	"github.com/yildizm/chinchinbooth/internal/logger"
	"github.com/yildizm/chinchinbooth/internal/monitor"
	"github.com/yildizm/chinchinbooth/internal/overlay"
	"github.com/yildizm/chinchinbooth/internal/ui"
)

// shootOptions are the booth flags; each overrides its config value only
// when set
type shootOptions struct {
	camera    string
	directory string
	auto      bool
	timer     int
	arity     int
	outputDir string
	overlay   string
	theme     string
}

func newShootCommand() *cobra.Command {
	opts := &shootOptions{}

	shootCmd := &cobra.Command{
		Use:   "shoot",
		Short: "Start the photo booth",
		Long: `Start the interactive photo booth.

Take eight photos with a countdown, then pick four or eight of them for
your strip, choose a background and an overlay, and press d to download.
The strip is saved as a PNG in the configured output directory.`,
		Example: `  # Start the booth with the configured camera
  chinchinbooth shoot

  # Use a folder of photos as the camera
  chinchinbooth shoot --dir ~/Pictures/party

  # Hands-free: take all eight photos with a 3 second timer
  chinchinbooth shoot --auto --timer 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShoot(cmd, opts)
		},
	}
	addShootFlags(shootCmd, opts)
	return shootCmd
}

func addShootFlags(cmd *cobra.Command, opts *shootOptions) {
	cmd.Flags().StringVar(&opts.camera, "camera", "", fmt.Sprintf("camera provider (%s)", strings.Join(camera.Names(), ", ")))
	cmd.Flags().StringVar(&opts.directory, "dir", "", "folder of images to use as the camera")
	cmd.Flags().BoolVar(&opts.auto, "auto", false, "start in auto-sequence mode")
	cmd.Flags().IntVar(&opts.timer, "timer", 0, "countdown seconds (one of the configured timer options)")
	cmd.Flags().IntVar(&opts.arity, "arity", 0, "initial strip layout (4 or 8)")
	cmd.Flags().StringVar(&opts.outputDir, "out-dir", "", "directory for downloaded strips")
	cmd.Flags().StringVar(&opts.overlay, "overlay", "", "initial overlay name")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "color theme (rose-teal, high-contrast, minimal)")
}

// apply copies the changed flags onto the configuration
func (o *shootOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Camera.Directory = o.directory
		if !flags.Changed("camera") {
			cfg.Camera.Provider = "directory"
		}
	}
	if flags.Changed("camera") {
		cfg.Camera.Provider = o.camera
	}
	if flags.Changed("auto") {
		cfg.Capture.AutoMode = o.auto
	}
	if flags.Changed("timer") {
		cfg.Capture.DefaultTimer = o.timer
	}
	if flags.Changed("arity") {
		cfg.Layout.DefaultArity = o.arity
	}
	if flags.Changed("out-dir") {
		cfg.Export.OutputDir = o.outputDir
	}
	if flags.Changed("overlay") {
		cfg.Overlays.Default = o.overlay
	}
	if flags.Changed("theme") {
		cfg.Output.Theme = o.theme
	}
}

func runShoot(cmd *cobra.Command, opts *shootOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	closeLog, err := openSessionLog(cfg.LogFile())
	if err != nil {
		return err
	}
	defer closeLog()

	log := logger.NewWithCallback("shoot", func() bool { return cfg.Logging.Verbose })

	provider, err := camera.New(cfg.Camera.Provider, cfg.CameraOptions())
	if err != nil {
		return err
	}
	palette, err := cfg.PaletteColors()
	if err != nil {
		return fmt.Errorf("invalid palette: %w", err)
	}
	gradients, err := cfg.GradientPresets()
	if err != nil {
		return fmt.Errorf("invalid gradients: %w", err)
	}

	library := loadOverlays(cfg, log)
	if cfg.Overlays.Default != "" && cfg.Overlays.Default != overlay.None {
		if _, err := library.Lookup(cfg.Overlays.Default); err != nil {
			return err
		}
	}

	if !ui.SetThemeByName(cfg.Output.Theme) {
		log.Warn("unknown theme %q, using the default", cfg.Output.Theme)
	}
	ui.SetColorDisabled(!colorEnabled(cfg))

	stats := monitor.NewStats()
	err = ui.Run(ui.Options{
		Provider:   provider,
		Request:    cfg.CameraRequest(),
		Session:    cfg.SessionOptions(),
		Grabber:    grabber.New(grabber.Options{MaxWidth: cfg.Camera.MaxWidth}),
		Exporter:   newExporter(cfg, library, stats, log),
		Overlays:   library,
		Palette:    palette,
		Gradients:  gradients,
		Overlay:    cfg.Overlays.Default,
		PreviewFPS: cfg.Camera.PreviewFPS,
		AutoReload: cfg.Overlays.AutoReload,
		Stats:      stats,
		Log:        log,
	})
	if err != nil {
		return fmt.Errorf("booth failed: %w", err)
	}

	printSummary(cmd.OutOrStdout(), stats.Snapshot(), cfg.OutputDir())
	return nil
}

// openSessionLog sends all log output to the session log so the TUI is
// never written over. The returned func restores stderr.
func openSessionLog(path string) (func(), error) {
	if path == "" {
		logger.SetOutput(io.Discard)
		return func() { logger.SetOutput(os.Stderr) }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	// #nosec G304 - the path comes from the user's configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open session log: %w", err)
	}
	logger.SetOutput(f)
	return func() {
		logger.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

func loadOverlays(cfg *config.Config, log *logger.Logger) *overlay.Library {
	library := overlay.NewLibrary(cfg.OverlayDir(), log.WithComponent("overlay"))
	if err := library.Load(); err != nil {
		log.Warn("failed to load overlays from %s: %v", cfg.OverlayDir(), err)
	}
	return library
}

func newExporter(cfg *config.Config, library *overlay.Library, stats *monitor.Stats, log *logger.Logger) *compose.Exporter {
	exporter := compose.NewExporter(cfg.OutputDir(), compose.NewStripRasterizer(cfg.Geometry()))
	exporter.Filename = cfg.Export.Filename
	exporter.Timeout = cfg.Export.Timeout
	exporter.Overlays = library
	exporter.Stats = stats
	exporter.Log = log.WithComponent("export")
	return exporter
}

func printSummary(w io.Writer, snap monitor.Snapshot, outputDir string) {
	if snap.Captures == 0 && snap.Exports == 0 {
		return
	}
	fmt.Fprintf(w, "%s %d photo(s) taken, %d strip(s) saved", emoji.GetEmoji("flash"), snap.Captures, snap.Exports)
	if snap.Exports > 0 {
		fmt.Fprintf(w, " to %s", outputDir)
	}
	fmt.Fprintln(w)
	if snap.Exports > 0 {
		fmt.Fprintf(w, "%s See you next time!\n", emoji.GetEmoji("party"))
	}
}
