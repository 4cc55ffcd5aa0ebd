package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yildizm/chinchinbooth/internal/booth"
	"github.com/yildizm/chinchinbooth/internal/config"
	"github.com/yildizm/chinchinbooth/internal/formatter"
	"github.com/yildizm/chinchinbooth/internal/logger"
	"github.com/yildizm/chinchinbooth/internal/overlay"
)

func newPaletteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "palette",
		Short: "List background colors, gradients and overlays",
		Long: `List everything the compose screen can put behind and over a strip:
the swatch colors, the gradient presets and the available overlays.`,
		Example: `  # Show the palette with color swatches
  chinchinbooth palette

  # Machine-readable listing
  chinchinbooth palette -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			log := logger.NewWithCallback("palette", func() bool { return cfg.Logging.Verbose })
			p, err := buildPalette(cfg, loadOverlays(cfg, log))
			if err != nil {
				return err
			}

			f, err := formatter.New(getOutputFormat(cfg), colorEnabled(cfg), !cfg.Output.NoEmoji)
			if err != nil {
				return err
			}
			data, err := f.FormatPalette(p)
			if err != nil {
				return fmt.Errorf("failed to format palette: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// buildPalette normalizes the configured colors and gradients
func buildPalette(cfg *config.Config, library *overlay.Library) (*formatter.Palette, error) {
	colors, err := cfg.PaletteColors()
	if err != nil {
		return nil, fmt.Errorf("invalid palette: %w", err)
	}
	gradients, err := cfg.GradientPresets()
	if err != nil {
		return nil, fmt.Errorf("invalid gradients: %w", err)
	}

	p := &formatter.Palette{
		Colors:    make([]string, 0, len(colors)),
		Gradients: make([]formatter.GradientEntry, 0, len(gradients)),
	}
	for _, c := range colors {
		p.Colors = append(p.Colors, booth.HexColor(c))
	}
	for _, g := range gradients {
		p.Gradients = append(p.Gradients, formatter.GradientEntry{Name: g.Name, CSS: g.CSS()})
	}
	for _, o := range library.All() {
		p.Overlays = append(p.Overlays, formatter.OverlayEntry{
			Name:   o.Name,
			Title:  o.Title,
			Source: string(o.Source),
		})
	}
	return p, nil
}
