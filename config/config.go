package config

// RenderConfig contains renderer tuning values.
type RenderConfig struct {
	// DefaultScale is the display scale applied on top of the animation's
	// own index scale.
	DefaultScale float64

	// InflateMargin is the padding in pixels added around the measured
	// bounding box of a still render.
	InflateMargin float64

	// MaxCanvasDim caps still-render canvas dimensions against corrupt
	// transform tables.
	MaxCanvasDim int
}

// VideoConfig contains video export configuration.
type VideoConfig struct {
	FFmpegPath  string
	Codec       string
	PixelFormat string // alpha-preserving
	CRF         int
}

// OverlayConfig contains debug overlay configuration.
type OverlayConfig struct {
	TextColor [4]uint8
	BoxColor  [4]uint8
	FontSize  float64
	Margin    float64
}

// DebugConfig contains debug/testing command-line options.
type DebugConfig struct {
	Overlay bool // draw the frame banner and bounding box onto renders
}

// Global configuration instances
var Render RenderConfig
var Video VideoConfig
var Overlay OverlayConfig
var Debug DebugConfig

// Environment variable names picked up by the mains (via .env or the
// process environment).
const (
	EnvRoot   = "ANMVIEW_ROOT"
	EnvFFmpeg = "ANMVIEW_FFMPEG"
)

func init() {
	Render = RenderConfig{
		DefaultScale:  2.0,
		InflateMargin: 16.0,
		MaxCanvasDim:  8192,
	}

	Video = VideoConfig{
		FFmpegPath:  "ffmpeg",
		Codec:       "libvpx-vp9",
		PixelFormat: "yuva420p",
		CRF:         30,
	}

	Overlay = OverlayConfig{
		TextColor: [4]uint8{255, 255, 255, 255},
		BoxColor:  [4]uint8{255, 140, 0, 255},
		FontSize:  12,
		Margin:    2,
	}

	Debug = DebugConfig{
		Overlay: false,
	}
}
