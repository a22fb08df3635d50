package sakura

import (
	"fmt"
	"image"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ScriptConfig is the greeting text and its timing.
type ScriptConfig struct {
	Text           string `yaml:"text"`
	PauseMarker    string `yaml:"pause_marker"`
	LineBreak      string `yaml:"line_break_marker"`
	CharIntervalMs int    `yaml:"char_interval_ms"`
	PauseMs        int    `yaml:"pause_ms"`
}

// DisplayConfig is the window and device-class selection.
type DisplayConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// Device is "auto", "desktop" or "mobile". Auto picks mobile when the
	// window is at most MobileMaxWidth pixels wide.
	Device         string `yaml:"device"`
	MobileMaxWidth int    `yaml:"mobile_max_width"`
	// Background is the top and bottom of the vertical gradient.
	BackgroundTop    string `yaml:"background_top"`
	BackgroundBottom string `yaml:"background_bottom"`
}

// Preset is everything that differs between desktop and mobile.
type Preset struct {
	FontSize   float64 `yaml:"font_size"`
	LineHeight float64 `yaml:"line_height"`
	FontScale  float64 `yaml:"font_scale"`
	// Thicken lists extra draw offsets as [x, y] pairs.
	Thicken      [][2]int      `yaml:"thicken"`
	Camera       CameraConfig  `yaml:"camera"`
	Ambient      AmbientConfig `yaml:"ambient"`
	PrimarySpan  float64       `yaml:"primary_max_scale_span"`
	PrimaryBias  float64       `yaml:"primary_max_scale_bias"`
	HintText     string        `yaml:"hint_text"`
	HintFontSize float64       `yaml:"hint_font_size"`
}

// PresetsConfig holds one Preset per device class.
type PresetsConfig struct {
	Desktop Preset `yaml:"desktop"`
	Mobile  Preset `yaml:"mobile"`
}

// FontConfig selects the glyph font. An empty path uses Go Bold.
type FontConfig struct {
	Path string `yaml:"path"`
}

// AudioConfig is the background track.
type AudioConfig struct {
	Path     string  `yaml:"path"`
	Volume   float64 `yaml:"volume"`
	Muted    bool    `yaml:"muted"`
	Autoplay bool    `yaml:"autoplay"`
	FadeInMs int     `yaml:"fade_in_ms"`
}

// LoggingConfig is consumed by the binary to build its slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Config is the full application configuration.
type Config struct {
	ConfigVersion int           `yaml:"config_version"`
	Script        ScriptConfig  `yaml:"script"`
	Display       DisplayConfig `yaml:"display"`
	Presets       PresetsConfig `yaml:"presets"`
	Petals        PetalConfig   `yaml:"petals"`
	Cursor        CursorConfig  `yaml:"cursor"`
	Font          FontConfig    `yaml:"font"`
	Audio         AudioConfig   `yaml:"audio"`
	Logging       LoggingConfig `yaml:"logging"`
	ScreenshotDir string        `yaml:"screenshot_dir"`
	Seed          uint64        `yaml:"seed"`
	Debug         bool          `yaml:"debug"`
}

// DefaultConfig returns the stock greeting with the tuned visual constants.
func DefaultConfig() Config {
	ambient := AmbientConfig{
		Count:      30,
		Spread:     40,
		Depth:      Range{Min: -15, Max: -5},
		Scale:      Range{Min: 1, Max: 3},
		FallSpeed:  Range{Min: 0.01, Max: 0.03},
		DriftSpeed: Range{Min: -0.0025, Max: 0.0025},
		RotSpeed:   Range{Min: 0.001, Max: 0.011},
		Floor:      -15,
		Ceiling:    15,
		WrapSpread: 40,
		Color:      "#ffcce0",
		Opacity:    0.3,
		QuadSize:   0.8,
	}
	mobileAmbient := ambient
	mobileAmbient.Count = 15
	mobileAmbient.Spread = 30

	return Config{
		ConfigVersion: 1,
		Script: ScriptConfig{
			Text:           "520/I love you/。Sakura ❤ forever",
			PauseMarker:    "/",
			LineBreak:      "。",
			CharIntervalMs: 200,
			PauseMs:        1000,
		},
		Display: DisplayConfig{
			Title:            "Sakura",
			Width:            1280,
			Height:           720,
			Device:           "auto",
			MobileMaxWidth:   768,
			BackgroundTop:    "#fdf2f8",
			BackgroundBottom: "#fce7f3",
		},
		Presets: PresetsConfig{
			Desktop: Preset{
				FontSize:     90,
				LineHeight:   1.1,
				FontScale:    0.075,
				Thicken:      [][2]int{{1, 0}, {0, 1}},
				Camera:       CameraConfig{FOV: 45, Distance: 18, FitFraction: 0.55, FitSeconds: 0.6, RotateSpeed: 1},
				Ambient:      ambient,
				PrimarySpan:  0.7,
				PrimaryBias:  15,
				HintText:     "Click anywhere to skip",
				HintFontSize: 14,
			},
			Mobile: Preset{
				FontSize:     60,
				LineHeight:   1.1,
				FontScale:    0.09,
				Thicken:      [][2]int{{1, 0}, {0, 1}, {1, 1}},
				Camera:       CameraConfig{FOV: 60, Distance: 22, FitFraction: 0.55, FitSeconds: 0.6, RotateSpeed: 1},
				Ambient:      mobileAmbient,
				PrimarySpan:  0.8,
				PrimaryBias:  12,
				HintText:     "Tap to skip",
				HintFontSize: 16,
			},
		},
		Petals: PetalConfig{
			SmallRatio:        0.15,
			GrowthDecay:       0.99,
			DecayAcceleration: 1.1,
			MinDecayRate:      0.001,
			FlutterSpin:       0.001,
			Primary: VariantConfig{
				MaxScaleSpan:     0.7,
				MaxScaleBias:     15,
				GrowthRate:       Range{Min: 0.03, Max: 0.13},
				AgeRate:          Range{Min: 0.01, Max: 0.03},
				Rotation:         Range{Min: 0, Max: 0.5 * math.Pi},
				Jitter:           0.2,
				QuadSize:         1.2,
				FlutterAmplitude: 0.2,
				Hue:              Range{Min: 340, Max: 360},
				Saturation:       0.9,
				Lightness:        0.8,
				Opacity:          0.8,
			},
			Small: VariantConfig{
				MaxScaleMin:  0.1,
				MaxScaleSpan: 0.7,
				MaxScaleBias: 7,
				GrowthRate:   Range{Min: 0.03, Max: 0.06},
				Rotation:     Range{Min: -0.3 * math.Pi, Max: 0.3 * math.Pi},
				Lift:         0.5,
				QuadSize:     1.2,
				Hue:          Range{Min: 330, Max: 350},
				Saturation:   0.85,
				Lightness:    0.85,
				Opacity:      0.7,
			},
		},
		Cursor: CursorConfig{
			Color:     "#ff9ec3",
			Size:      Vec2{X: 0.1, Y: 4.5},
			Offset:    Vec2{X: 0.2, Y: -2.9},
			BlinkRate: 2,
		},
		Audio: AudioConfig{
			Volume:   0.7,
			Autoplay: true,
			FadeInMs: 1500,
		},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
		ScreenshotDir: "screenshots",
	}
}

// Env var names used as overrides.
const (
	EnvScriptText  = "SAKURA_TEXT"
	EnvCharMs      = "SAKURA_CHAR_INTERVAL_MS"
	EnvPauseMs     = "SAKURA_PAUSE_MS"
	EnvDevice      = "SAKURA_DEVICE"
	EnvFontPath    = "SAKURA_FONT"
	EnvAudioPath   = "SAKURA_AUDIO"
	EnvAudioVolume = "SAKURA_VOLUME"
	EnvAudioMuted  = "SAKURA_MUTED"
	EnvDebug       = "SAKURA_DEBUG"
	EnvLogLevel    = "SAKURA_LOG_LEVEL"
	EnvLogFormat   = "SAKURA_LOG_FORMAT"
	EnvLogFile     = "SAKURA_LOG_FILE"
)

// LoadConfig reads the YAML file at path over DefaultConfig and applies
// environment overrides. An empty path skips the file; a missing file is an
// error only when path was given explicitly.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("sakura: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("sakura: parse config %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML, e.g. to write a starter config file.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate rejects settings the loop cannot run with.
func (c Config) Validate() error {
	if c.Script.CharIntervalMs < 0 || c.Script.PauseMs < 0 {
		return fmt.Errorf("sakura: negative script timing")
	}
	if utf8.RuneCountInString(c.Script.PauseMarker) > 1 || utf8.RuneCountInString(c.Script.LineBreak) > 1 {
		return fmt.Errorf("sakura: directive markers must be a single character")
	}
	d := c.Directives()
	if d.Pause == d.LineBreak {
		return fmt.Errorf("sakura: pause and line break markers are both %q", d.Pause)
	}
	for _, r := range []rune{d.Escape, d.GroupOpen, d.GroupClose} {
		if d.Pause == r || d.LineBreak == r {
			return fmt.Errorf("sakura: directive marker %q is reserved", r)
		}
	}
	switch c.Display.Device {
	case "auto", "desktop", "mobile":
	default:
		return fmt.Errorf("sakura: unknown display.device %q", c.Display.Device)
	}
	for _, p := range []Preset{c.Presets.Desktop, c.Presets.Mobile} {
		if p.FontSize <= 0 || p.FontScale <= 0 {
			return fmt.Errorf("sakura: preset font size and scale must be positive")
		}
		if p.Camera.FOV <= 0 || p.Camera.FOV >= 180 || p.Camera.Distance <= 0 {
			return fmt.Errorf("sakura: preset camera fov/distance out of range")
		}
		if p.Camera.RotateSpeed < 0 {
			return fmt.Errorf("sakura: preset camera rotate_speed must not be negative")
		}
		if p.Ambient.QuadSize <= 0 {
			return fmt.Errorf("sakura: preset ambient quad_size must be positive")
		}
	}
	if c.Petals.Primary.QuadSize <= 0 || c.Petals.Small.QuadSize <= 0 {
		return fmt.Errorf("sakura: petal quad_size must be positive")
	}
	if c.Petals.SmallRatio < 0 || c.Petals.SmallRatio > 1 {
		return fmt.Errorf("sakura: petals.small_ratio %v outside [0, 1]", c.Petals.SmallRatio)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvScriptText); v != "" {
		cfg.Script.Text = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCharMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Script.CharIntervalMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvPauseMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Script.PauseMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvDevice)); v != "" {
		cfg.Display.Device = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontPath)); v != "" {
		cfg.Font.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAudioPath)); v != "" {
		cfg.Audio.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAudioVolume)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Audio.Volume = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvAudioMuted)); v != "" {
		cfg.Audio.Muted = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDebug)); v != "" {
		cfg.Debug = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// Preset returns the preset for the device class.
func (c *Config) Preset(mobile bool) Preset {
	if mobile {
		return c.Presets.Mobile
	}
	return c.Presets.Desktop
}

// Directives returns the script markers, keeping the defaults for empty fields.
func (c *Config) Directives() Directives {
	d := DefaultDirectives()
	if r, _ := utf8.DecodeRuneInString(c.Script.PauseMarker); r != utf8.RuneError {
		d.Pause = r
	}
	if r, _ := utf8.DecodeRuneInString(c.Script.LineBreak); r != utf8.RuneError {
		d.LineBreak = r
	}
	return d
}

// Typing returns the reveal timing.
func (c *Config) Typing() TypingConfig {
	return TypingConfig{
		CharInterval:  time.Duration(c.Script.CharIntervalMs) * time.Millisecond,
		PauseDuration: time.Duration(c.Script.PauseMs) * time.Millisecond,
	}
}

// RasterOptions returns the offscreen text settings for the device class.
func (c *Config) RasterOptions(mobile bool) RasterOptions {
	p := c.Preset(mobile)
	opts := RasterOptions{SizePx: p.FontSize, LineHeight: p.LineHeight}
	for _, o := range p.Thicken {
		opts.Offsets = append(opts.Offsets, image.Pt(o[0], o[1]))
	}
	return opts
}

// Composer returns the composer settings for the device class. The preset's
// primary size distribution overrides the shared petal config.
func (c *Config) Composer(mobile bool) ComposerConfig {
	p := c.Preset(mobile)
	petals := c.Petals
	if p.PrimarySpan > 0 {
		petals.Primary.MaxScaleSpan = p.PrimarySpan
	}
	if p.PrimaryBias > 0 {
		petals.Primary.MaxScaleBias = p.PrimaryBias
	}
	return ComposerConfig{
		FontScale: p.FontScale,
		Camera:    p.Camera,
		Petals:    petals,
		Ambient:   p.Ambient,
		Cursor:    c.Cursor,
	}
}
