package config

import (
	"fmt"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Camera   CameraConfig   `yaml:"camera" json:"camera"`
	Capture  CaptureConfig  `yaml:"capture" json:"capture"`
	Layout   LayoutConfig   `yaml:"layout" json:"layout"`
	Export   ExportConfig   `yaml:"export" json:"export"`
	Overlays OverlayConfig  `yaml:"overlays" json:"overlays"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
}

// CameraConfig selects and tunes the frame source
type CameraConfig struct {
	Provider   string        `yaml:"provider" json:"provider" env:"CHINCHINBOOTH_CAMERA_PROVIDER"`    // synthetic|directory|fail
	Directory  string        `yaml:"directory" json:"directory" env:"CHINCHINBOOTH_CAMERA_DIRECTORY"` // images for the directory provider
	Interval   time.Duration `yaml:"interval" json:"interval" env:"CHINCHINBOOTH_CAMERA_INTERVAL"`    // how long each directory image shows
	Facing     string        `yaml:"facing" json:"facing" env:"CHINCHINBOOTH_CAMERA_FACING"`          // user|environment
	Width      int           `yaml:"width" json:"width" env:"CHINCHINBOOTH_CAMERA_WIDTH"`
	Height     int           `yaml:"height" json:"height" env:"CHINCHINBOOTH_CAMERA_HEIGHT"`
	PreviewFPS int           `yaml:"preview_fps" json:"preview_fps" env:"CHINCHINBOOTH_CAMERA_PREVIEW_FPS"`
	MaxWidth   int           `yaml:"max_width" json:"max_width" env:"CHINCHINBOOTH_CAMERA_MAX_WIDTH"` // grabbed frames are downscaled beyond this
}

// CaptureConfig configures the countdown
type CaptureConfig struct {
	TimerOptions []int         `yaml:"timer_options" json:"timer_options" env:"CHINCHINBOOTH_CAPTURE_TIMER_OPTIONS" envSeparator:","`
	DefaultTimer int           `yaml:"default_timer" json:"default_timer" env:"CHINCHINBOOTH_CAPTURE_DEFAULT_TIMER"`
	AutoPause    time.Duration `yaml:"auto_pause" json:"auto_pause" env:"CHINCHINBOOTH_CAPTURE_AUTO_PAUSE"`
	AutoMode     bool          `yaml:"auto_mode" json:"auto_mode" env:"CHINCHINBOOTH_CAPTURE_AUTO_MODE"`
}

// GradientConfig is a named gradient preset
type GradientConfig struct {
	Name string `yaml:"name" json:"name"`
	CSS  string `yaml:"css" json:"css"`
}

// LayoutConfig configures the compose screen
type LayoutConfig struct {
	DefaultArity int              `yaml:"default_arity" json:"default_arity" env:"CHINCHINBOOTH_LAYOUT_DEFAULT_ARITY"`
	DefaultColor string           `yaml:"default_color" json:"default_color" env:"CHINCHINBOOTH_LAYOUT_DEFAULT_COLOR"`
	Palette      []string         `yaml:"palette" json:"palette" env:"CHINCHINBOOTH_LAYOUT_PALETTE" envSeparator:","`
	Gradients    []GradientConfig `yaml:"gradients" json:"gradients"`
}

// ExportConfig configures strip rendering and output
type ExportConfig struct {
	OutputDir string        `yaml:"output_dir" json:"output_dir" env:"CHINCHINBOOTH_EXPORT_OUTPUT_DIR"`
	Filename  string        `yaml:"filename" json:"filename" env:"CHINCHINBOOTH_EXPORT_FILENAME"`
	Scale     float64       `yaml:"scale" json:"scale" env:"CHINCHINBOOTH_EXPORT_SCALE"`
	CellWidth int           `yaml:"cell_width" json:"cell_width" env:"CHINCHINBOOTH_EXPORT_CELL_WIDTH"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" env:"CHINCHINBOOTH_EXPORT_TIMEOUT"`
}

// OverlayConfig configures the decorative overlay library
type OverlayConfig struct {
	Directory  string `yaml:"directory" json:"directory" env:"CHINCHINBOOTH_OVERLAYS_DIRECTORY"`
	AutoReload bool   `yaml:"auto_reload" json:"auto_reload" env:"CHINCHINBOOTH_OVERLAYS_AUTO_RELOAD"`
	Default    string `yaml:"default" json:"default" env:"CHINCHINBOOTH_OVERLAYS_DEFAULT"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat   string `yaml:"default_format" json:"default_format" env:"CHINCHINBOOTH_OUTPUT_DEFAULT_FORMAT"` // text|json
	ColorMode       string `yaml:"color_mode" json:"color_mode" env:"CHINCHINBOOTH_OUTPUT_COLOR_MODE"`             // auto|always|never
	Theme           string `yaml:"theme" json:"theme" env:"CHINCHINBOOTH_OUTPUT_THEME"`
	NoEmoji         bool   `yaml:"no_emoji" json:"no_emoji" env:"CHINCHINBOOTH_OUTPUT_NO_EMOJI"`
	TimestampFormat string `yaml:"timestamp_format" json:"timestamp_format" env:"CHINCHINBOOTH_OUTPUT_TIMESTAMP_FORMAT"`
}

// LoggingConfig configures the session log
type LoggingConfig struct {
	File    string `yaml:"file" json:"file" env:"CHINCHINBOOTH_LOGGING_FILE"`
	Verbose bool   `yaml:"verbose" json:"verbose" env:"CHINCHINBOOTH_LOGGING_VERBOSE"`
}

// DefaultPalette is the swatch row of the compose screen
var DefaultPalette = []string{
	"#F9A8D4", "#F472B6", "#EC4899", "#DB2777",
	"#5EEAD4", "#2DD4BF", "#14B8A6", "#0D9488",
	"#EF4444", "#F59E0B", "#10B981", "#3B82F6", "#8B5CF6",
	"#FFFFFF", "#F3F4F6", "#9CA3AF", "#111827",
}

// DefaultGradients are the gradient presets of the compose screen
var DefaultGradients = []GradientConfig{
	{Name: "Rose Teal", CSS: "linear-gradient(to right, #FBCFE8, #99F6E4)"},
	{Name: "Sunset", CSS: "linear-gradient(to right, #FEF3C7, #FECACA)"},
	{Name: "Ocean", CSS: "linear-gradient(to right, #BFDBFE, #A5F3FC)"},
	{Name: "Candy", CSS: "linear-gradient(to right, #FBD0E8, #DDD6FE)"},
	{Name: "Mint", CSS: "linear-gradient(to right, #A7F3D0, #BAE6FD)"},
	{Name: "Peach", CSS: "linear-gradient(to right, #FED7AA, #FEE2E2)"},
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	palette := make([]string, len(DefaultPalette))
	copy(palette, DefaultPalette)
	gradients := make([]GradientConfig, len(DefaultGradients))
	copy(gradients, DefaultGradients)

	return &Config{
		Version: "1.0",
		Camera: CameraConfig{
			Provider:   "synthetic",
			Interval:   2 * time.Second,
			Facing:     "user",
			Width:      1280,
			Height:     720,
			PreviewFPS: 12,
			MaxWidth:   1280,
		},
		Capture: CaptureConfig{
			TimerOptions: []int{3, 5, 10},
			DefaultTimer: 5,
			AutoPause:    time.Second,
			AutoMode:     false,
		},
		Layout: LayoutConfig{
			DefaultArity: 4,
			DefaultColor: "#FFFFFF",
			Palette:      palette,
			Gradients:    gradients,
		},
		Export: ExportConfig{
			OutputDir: ".",
			Filename:  "chinchinbooth_photo.png",
			Scale:     2,
			CellWidth: 200,
			Timeout:   30 * time.Second,
		},
		Overlays: OverlayConfig{
			Directory:  "",
			AutoReload: true,
			Default:    "none",
		},
		Output: OutputConfig{
			DefaultFormat:   "text",
			ColorMode:       "auto",
			Theme:           "rose-teal",
			NoEmoji:         false,
			TimestampFormat: "2006-01-02 15:04:05",
		},
		Logging: LoggingConfig{
			File:    "~/.cache/chinchinbooth/session.log",
			Verbose: false,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateCameraConfig(); err != nil {
		return err
	}
	if err := c.validateCaptureConfig(); err != nil {
		return err
	}
	if err := c.validateLayoutConfig(); err != nil {
		return err
	}
	if err := c.validateExportConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return nil
}

// validateCameraConfig validates camera-related configuration
func (c *Config) validateCameraConfig() error {
	validProviders := map[string]bool{
		"synthetic": true,
		"directory": true,
		"fail":      true,
	}
	if !validProviders[c.Camera.Provider] {
		return fmt.Errorf("invalid camera provider: %s (must be one of: synthetic, directory, fail)", c.Camera.Provider)
	}
	if c.Camera.Provider == "directory" && c.Camera.Directory == "" {
		return fmt.Errorf("camera.directory is required for the directory provider")
	}
	if c.Camera.Facing != "" && c.Camera.Facing != "user" && c.Camera.Facing != "environment" {
		return fmt.Errorf("invalid camera facing: %s (must be one of: user, environment)", c.Camera.Facing)
	}
	if c.Camera.Width < 0 || c.Camera.Height < 0 || c.Camera.MaxWidth < 0 {
		return fmt.Errorf("camera dimensions must be non-negative")
	}
	if c.Camera.PreviewFPS < 1 || c.Camera.PreviewFPS > 60 {
		return fmt.Errorf("preview_fps must be between 1 and 60")
	}
	if c.Camera.Interval < 0 {
		return fmt.Errorf("camera interval must be non-negative")
	}
	return nil
}

// validateCaptureConfig validates countdown configuration
func (c *Config) validateCaptureConfig() error {
	if len(c.Capture.TimerOptions) == 0 {
		return fmt.Errorf("timer_options must not be empty")
	}
	found := false
	for _, sec := range c.Capture.TimerOptions {
		if sec < 1 {
			return fmt.Errorf("timer_options must be positive, got %d", sec)
		}
		if sec == c.Capture.DefaultTimer {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("default_timer %d is not one of timer_options %v", c.Capture.DefaultTimer, c.Capture.TimerOptions)
	}
	if c.Capture.AutoPause < 0 {
		return fmt.Errorf("auto_pause must be non-negative")
	}
	return nil
}

// validateLayoutConfig validates compose configuration
func (c *Config) validateLayoutConfig() error {
	if c.Layout.DefaultArity != 4 && c.Layout.DefaultArity != 8 {
		return fmt.Errorf("invalid default_arity: %d (must be 4 or 8)", c.Layout.DefaultArity)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return fmt.Errorf("invalid default_color: %w", err)
	}
	if _, err := c.PaletteColors(); err != nil {
		return fmt.Errorf("invalid palette: %w", err)
	}
	if _, err := c.GradientPresets(); err != nil {
		return fmt.Errorf("invalid gradients: %w", err)
	}
	return nil
}

// validateExportConfig validates export configuration
func (c *Config) validateExportConfig() error {
	if c.Export.Scale <= 0 || c.Export.Scale > 8 {
		return fmt.Errorf("export scale must be in (0, 8]")
	}
	if c.Export.CellWidth < 16 {
		return fmt.Errorf("cell_width must be at least 16")
	}
	if c.Export.Timeout < 0 {
		return fmt.Errorf("export timeout must be non-negative")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json": true,
			"text": true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}
