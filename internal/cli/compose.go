package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/chinchinbooth/internal/booth"
	"github.com/yildizm/chinchinbooth/internal/camera"
	"github.com/yildizm/chinchinbooth/internal/compose"
	"github.com/yildizm/chinchinbooth/internal/config"
	"github.com/yildizm/chinchinbooth/internal/emoji"
	"github.com/yildizm/chinchinbooth/internal/grabber"
	"github.com/yildizm/chinchinbooth/internal/logger"
	"github.com/yildizm/chinchinbooth/internal/monitor"
	"github.com/yildizm/chinchinbooth/internal/overlay"
)

// composeResult is the JSON report of a headless compose
type composeResult struct {
	Path       string `json:"path"`
	Arity      int    `json:"arity"`
	Frames     int    `json:"frames"`
	Background string `json:"background"`
	Overlay    string `json:"overlay"`
	Filters    string `json:"filters"`
	Duration   string `json:"duration"`
}

func newComposeCommand() *cobra.Command {
	var (
		arity     int
		colorHex  string
		gradient  string
		overlayID string
		filters   []string
		outputDir string
		filename  string
		scale     float64
	)

	composeCmd := &cobra.Command{
		Use:   "compose <folder>",
		Short: "Build a photo strip from a folder of images",
		Long: `Build a photo strip without the booth.

The first 4 (or 8) images of the folder, in file name order, fill the slots
of the strip. Filters are applied the same way the booth applies them.`,
		Example: `  # 4-up strip on the default background
  chinchinbooth compose ./photos

  # 8-up strip on a gradient with sepia photos
  chinchinbooth compose ./photos --arity 8 --gradient Sunset --filter sepia

  # Custom color and overlay, written to another directory
  chinchinbooth compose ./photos --color "#F9A8D4" --overlay hearts --out-dir ./strips`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("out-dir") {
				cfg.Export.OutputDir = outputDir
			}
			if flags.Changed("filename") {
				cfg.Export.Filename = filename
			}
			if flags.Changed("scale") {
				cfg.Export.Scale = scale
			}
			if !flags.Changed("arity") {
				arity = cfg.Layout.DefaultArity
			}
			if !flags.Changed("overlay") {
				overlayID = cfg.Overlays.Default
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if !booth.ValidArity(arity) {
				return fmt.Errorf("%w: %d (must be 4 or 8)", compose.ErrInvalidArity, arity)
			}

			bg, err := resolveBackground(cfg, colorHex, gradient)
			if err != nil {
				return err
			}
			fs, err := parseFilters(filters)
			if err != nil {
				return err
			}

			log := logger.NewWithCallback("compose", func() bool { return cfg.Logging.Verbose })
			library := loadOverlays(cfg, log)
			if overlayID != "" && overlayID != overlay.None {
				if _, ok := library.Get(overlayID); !ok {
					return fmt.Errorf("unknown overlay %q (available: %s)", overlayID, strings.Join(library.Names(), ", "))
				}
			}

			stats := monitor.NewStats()
			exporter := newExporter(cfg, library, stats, log)
			g := grabber.New(grabber.Options{MaxWidth: cfg.Camera.MaxWidth})

			start := time.Now()
			var path string
			err = stats.Track(monitor.OperationCompose, func() error {
				job, err := buildJob(cmd.Context(), args[0], g, fs, arity, bg, overlayID)
				if err != nil {
					return err
				}
				path, err = exporter.Export(cmd.Context(), job)
				return err
			})
			if err != nil {
				return err
			}

			result := composeResult{
				Path:       path,
				Arity:      arity,
				Frames:     arity,
				Background: bg.String(),
				Overlay:    overlayID,
				Filters:    strings.Join(filterNames(fs), " "),
				Duration:   time.Since(start).Round(time.Millisecond).String(),
			}
			return printComposeResult(cmd, cfg, result)
		},
	}

	composeCmd.Flags().IntVar(&arity, "arity", 0, "number of slots (4 or 8, default from config)")
	composeCmd.Flags().StringVar(&colorHex, "color", "", "background color as #RRGGBB")
	composeCmd.Flags().StringVar(&gradient, "gradient", "", "gradient preset name or linear-gradient(...)")
	composeCmd.Flags().StringVar(&overlayID, "overlay", "", "overlay name")
	composeCmd.Flags().StringSliceVar(&filters, "filter", nil, "filters to switch on (mirror, brightness, contrast, grayscale, sepia, saturate)")
	composeCmd.Flags().StringVar(&outputDir, "out-dir", "", "directory for the strip")
	composeCmd.Flags().StringVar(&filename, "filename", "", "file name of the strip")
	composeCmd.Flags().Float64Var(&scale, "scale", 0, "export scale")

	return composeCmd
}

// buildJob decodes the folder and grabs the first arity images
func buildJob(ctx context.Context, dir string, g *grabber.Grabber, fs booth.Filters, arity int, bg booth.Background, overlayID string) (booth.ExportJob, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	images, err := camera.DecodeDir(ctx, dir)
	if err != nil {
		return booth.ExportJob{}, err
	}
	if len(images) < arity {
		return booth.ExportJob{}, fmt.Errorf("%w: need %d images in %s, found %d", compose.ErrIncomplete, arity, dir, len(images))
	}

	frames := make([]booth.Frame, 0, arity)
	for i, img := range images[:arity] {
		rgba, err := g.Grab(img, fs)
		if err != nil {
			return booth.ExportJob{}, fmt.Errorf("failed to process image %d: %w", i+1, err)
		}
		frames = append(frames, booth.NewFrame(rgba, i+1, time.Now()))
	}
	return booth.ExportJob{
		Arity:      arity,
		Frames:     frames,
		Background: bg,
		Overlay:    overlayID,
	}, nil
}

// resolveBackground picks the gradient flag, then the color flag, then
// the configured default color
func resolveBackground(cfg *config.Config, colorHex, gradient string) (booth.Background, error) {
	if gradient != "" {
		presets, err := cfg.GradientPresets()
		if err != nil {
			return booth.Background{}, err
		}
		for _, g := range presets {
			if strings.EqualFold(g.Name, gradient) {
				return booth.GradientBackground(g), nil
			}
		}
		g, err := booth.ParseGradient(gradient)
		if err != nil {
			return booth.Background{}, fmt.Errorf("unknown gradient %q: %w", gradient, err)
		}
		return booth.GradientBackground(g), nil
	}
	if colorHex != "" {
		c, err := booth.ParseHexColor(colorHex)
		if err != nil {
			return booth.Background{}, err
		}
		return booth.SolidBackground(c), nil
	}
	c, err := cfg.BackgroundColor()
	if err != nil {
		return booth.Background{}, err
	}
	return booth.SolidBackground(c), nil
}

// parseFilters switches on the named filters. Photos from disk are not
// mirrored unless asked.
func parseFilters(names []string) (booth.Filters, error) {
	fs := booth.DefaultFilters()
	fs.Mirror = false
	for _, name := range names {
		id, ok := booth.ParseFilterID(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return fs, fmt.Errorf("unknown filter %q", name)
		}
		if !fs.Active(id) {
			fs = fs.Toggle(id)
		}
	}
	return fs, nil
}

func filterNames(fs booth.Filters) []string {
	active := fs.ActiveSet()
	names := make([]string, len(active))
	for i, id := range active {
		names[i] = string(id)
	}
	return names
}

func printComposeResult(cmd *cobra.Command, cfg *config.Config, r composeResult) error {
	out := cmd.OutOrStdout()
	if getOutputFormat(cfg) == "json" {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	fmt.Fprintf(out, "%s Saved %d-up strip to %s\n", emoji.GetEmoji("download"), r.Arity, r.Path)
	fmt.Fprintf(out, "   %s\n", r.Background)
	if r.Filters != "" {
		fmt.Fprintf(out, "   Filters: %s\n", r.Filters)
	}
	if r.Overlay != "" && r.Overlay != overlay.None {
		fmt.Fprintf(out, "   Overlay: %s\n", r.Overlay)
	}
	return nil
}
