package config

// SampleConfig returns a documented configuration with every option
func SampleConfig() string {
	return `# ChinChinBooth configuration
version: "1.0"

camera:
  # synthetic (test pattern), directory (cycle through images) or fail
  provider: synthetic
  # images used by the directory provider
  directory: ""
  # how long each directory image stays on screen
  interval: 2s
  # user (front) or environment (rear)
  facing: user
  width: 1280
  height: 720
  # live preview refresh rate
  preview_fps: 12
  # grabbed frames wider than this are downscaled
  max_width: 1280

capture:
  # countdown lengths in seconds, cycled with the timer key
  timer_options: [3, 5, 10]
  default_timer: 5
  # pause between shots of an auto sequence
  auto_pause: 1s
  auto_mode: false

layout:
  # 4 (strip) or 8 (double strip)
  default_arity: 4
  default_color: "#FFFFFF"
  palette:
    - "#F9A8D4"
    - "#F472B6"
    - "#EC4899"
    - "#DB2777"
    - "#5EEAD4"
    - "#2DD4BF"
    - "#14B8A6"
    - "#0D9488"
    - "#EF4444"
    - "#F59E0B"
    - "#10B981"
    - "#3B82F6"
    - "#8B5CF6"
    - "#FFFFFF"
    - "#F3F4F6"
    - "#9CA3AF"
    - "#111827"
  gradients:
    - name: Rose Teal
      css: "linear-gradient(to right, #FBCFE8, #99F6E4)"
    - name: Sunset
      css: "linear-gradient(to right, #FEF3C7, #FECACA)"
    - name: Ocean
      css: "linear-gradient(to right, #BFDBFE, #A5F3FC)"
    - name: Candy
      css: "linear-gradient(to right, #FBD0E8, #DDD6FE)"
    - name: Mint
      css: "linear-gradient(to right, #A7F3D0, #BAE6FD)"
    - name: Peach
      css: "linear-gradient(to right, #FED7AA, #FEE2E2)"

export:
  output_dir: "."
  filename: chinchinbooth_photo.png
  # pixel density of the exported strip
  scale: 2
  cell_width: 200
  timeout: 30s

overlays:
  # extra overlays: images plus an optional overlays.yaml manifest
  directory: ""
  auto_reload: true
  default: none

output:
  default_format: text  # text or json
  color_mode: auto      # auto, always or never
  theme: rose-teal
  no_emoji: false
  timestamp_format: "2006-01-02 15:04:05"

logging:
  file: ~/.cache/chinchinbooth/session.log
  verbose: false
`
}

// MinimalSampleConfig returns a compact configuration with the common options
func MinimalSampleConfig() string {
	return `version: "1.0"

camera:
  provider: synthetic

capture:
  default_timer: 5

layout:
  default_arity: 4
  default_color: "#FFFFFF"

export:
  output_dir: "."
`
}
