package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"media-viewer-core/internal/logging"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// VIEWER_TRANSFORM_PAN_AT_FIT=true.
const EnvPrefix = "VIEWER"

var log = logging.For("config")

// Settings holds every tunable the engine reads from the settings layer.
type Settings struct {
	LogLevel  string            `mapstructure:"log_level" yaml:"log_level"`
	Transform TransformSettings `mapstructure:"transform" yaml:"transform"`
	Transport TransportSettings `mapstructure:"transport" yaml:"transport"`
	Compare   CompareSettings   `mapstructure:"compare" yaml:"compare"`
	Viewport  ViewportSettings  `mapstructure:"viewport" yaml:"viewport"`
	Probe     ProbeSettings     `mapstructure:"probe" yaml:"probe"`
}

// TransformSettings configures zoom and pan.
type TransformSettings struct {
	// PanAtFit permits panning overflowing content at zoom=1.
	PanAtFit bool    `mapstructure:"pan_at_fit" yaml:"pan_at_fit"`
	ZoomMin  float64 `mapstructure:"zoom_min" yaml:"zoom_min"`
	ZoomMax  float64 `mapstructure:"zoom_max" yaml:"zoom_max"`
	// ZoomStep is the multiplicative step for wheel and keyboard zoom.
	ZoomStep float64 `mapstructure:"zoom_step" yaml:"zoom_step"`
}

// TransportSettings configures playback defaults.
type TransportSettings struct {
	DefaultRate float64 `mapstructure:"default_rate" yaml:"default_rate"`
	DefaultFPS  float64 `mapstructure:"default_fps" yaml:"default_fps"`
	Step        int     `mapstructure:"step" yaml:"step"`
}

// CompareSettings configures the compare compositor.
type CompareSettings struct {
	// RefreshCap bounds math-mode recomputation while media plays (frames/sec).
	RefreshCap float64 `mapstructure:"refresh_cap" yaml:"refresh_cap"`
	// MaxMathPixels is the pixel count above which buffer arithmetic
	// degrades to the difference blend.
	MaxMathPixels int     `mapstructure:"max_math_pixels" yaml:"max_math_pixels"`
	Gain          float64 `mapstructure:"gain" yaml:"gain"`
}

// ViewportSettings configures viewport measurement.
type ViewportSettings struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// ProbeSettings configures frame-rate probing.
type ProbeSettings struct {
	FFprobePath string        `mapstructure:"ffprobe_path" yaml:"ffprobe_path"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		LogLevel: "info",
		Transform: TransformSettings{
			PanAtFit: false,
			ZoomMin:  0.1,
			ZoomMax:  8,
			ZoomStep: 1.25,
		},
		Transport: TransportSettings{
			DefaultRate: 1,
			DefaultFPS:  30,
			Step:        1,
		},
		Compare: CompareSettings{
			RefreshCap:    30,
			MaxMathPixels: 4_000_000,
			Gain:          4,
		},
		Viewport: ViewportSettings{
			CacheTTL: 250 * time.Millisecond,
		},
		Probe: ProbeSettings{
			FFprobePath: "ffprobe",
			Timeout:     10 * time.Second,
			CacheTTL:    30 * time.Minute,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("transform.pan_at_fit", d.Transform.PanAtFit)
	v.SetDefault("transform.zoom_min", d.Transform.ZoomMin)
	v.SetDefault("transform.zoom_max", d.Transform.ZoomMax)
	v.SetDefault("transform.zoom_step", d.Transform.ZoomStep)
	v.SetDefault("transport.default_rate", d.Transport.DefaultRate)
	v.SetDefault("transport.default_fps", d.Transport.DefaultFPS)
	v.SetDefault("transport.step", d.Transport.Step)
	v.SetDefault("compare.refresh_cap", d.Compare.RefreshCap)
	v.SetDefault("compare.max_math_pixels", d.Compare.MaxMathPixels)
	v.SetDefault("compare.gain", d.Compare.Gain)
	v.SetDefault("viewport.cache_ttl", d.Viewport.CacheTTL)
	v.SetDefault("probe.ffprobe_path", d.Probe.FFprobePath)
	v.SetDefault("probe.timeout", d.Probe.Timeout)
	v.SetDefault("probe.cache_ttl", d.Probe.CacheTTL)
}

// Load reads settings from defaults, the optional YAML file at path and
// VIEWER_* environment variables, in increasing precedence. A missing file
// is not an error. Out-of-range values are coerced by Normalize.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
				log.Warn("config file %s not found, using defaults", path)
			} else {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	s.Normalize()
	return &s, nil
}

// Normalize coerces invalid values to the nearest valid ones. Settings
// are never rejected.
func (s *Settings) Normalize() {
	d := Defaults()

	if _, ok := logging.ParseLevel(s.LogLevel); !ok {
		s.LogLevel = d.LogLevel
	}

	t := &s.Transform
	if t.ZoomMin <= 0 {
		t.ZoomMin = d.Transform.ZoomMin
	}
	if t.ZoomMax <= 0 {
		t.ZoomMax = d.Transform.ZoomMax
	}
	if t.ZoomMin > t.ZoomMax {
		t.ZoomMin, t.ZoomMax = t.ZoomMax, t.ZoomMin
	}
	// Fit (zoom=1) must always be reachable.
	t.ZoomMin = min(t.ZoomMin, 1)
	t.ZoomMax = max(t.ZoomMax, 1)
	if t.ZoomStep <= 1 {
		t.ZoomStep = d.Transform.ZoomStep
	}

	p := &s.Transport
	p.DefaultRate = min(max(p.DefaultRate, 0.25), 2)
	if p.DefaultFPS <= 0 {
		p.DefaultFPS = d.Transport.DefaultFPS
	}
	if p.Step < 1 {
		p.Step = 1
	}

	c := &s.Compare
	if c.RefreshCap <= 0 {
		c.RefreshCap = d.Compare.RefreshCap
	}
	if c.MaxMathPixels <= 0 {
		c.MaxMathPixels = d.Compare.MaxMathPixels
	}
	if c.Gain < 1 {
		c.Gain = d.Compare.Gain
	}

	if s.Viewport.CacheTTL <= 0 {
		s.Viewport.CacheTTL = d.Viewport.CacheTTL
	}

	if s.Probe.FFprobePath == "" {
		s.Probe.FFprobePath = d.Probe.FFprobePath
	}
	if s.Probe.Timeout <= 0 {
		s.Probe.Timeout = d.Probe.Timeout
	}
	if s.Probe.CacheTTL <= 0 {
		s.Probe.CacheTTL = d.Probe.CacheTTL
	}
}

// LogSettings writes the effective settings at info level.
func (s *Settings) LogSettings() {
	log.Info("------------------------------------------------------------")
	log.Info("SETTINGS")
	log.Info("------------------------------------------------------------")
	log.Info("  log_level:                 %s", s.LogLevel)
	log.Info("  transform.pan_at_fit:      %v", s.Transform.PanAtFit)
	log.Info("  transform.zoom:            %.2f - %.2f (step %.2f)", s.Transform.ZoomMin, s.Transform.ZoomMax, s.Transform.ZoomStep)
	log.Info("  transport.default_rate:    %.2f", s.Transport.DefaultRate)
	log.Info("  transport.default_fps:     %.3f", s.Transport.DefaultFPS)
	log.Info("  transport.step:            %d", s.Transport.Step)
	log.Info("  compare.refresh_cap:       %.1f fps", s.Compare.RefreshCap)
	log.Info("  compare.max_math_pixels:   %d", s.Compare.MaxMathPixels)
	log.Info("  compare.gain:              %.1f", s.Compare.Gain)
	log.Info("  viewport.cache_ttl:        %v", s.Viewport.CacheTTL)
	log.Info("  probe.ffprobe_path:        %s", s.Probe.FFprobePath)
	log.Info("  probe.timeout:             %v", s.Probe.Timeout)
	log.Info("  probe.cache_ttl:           %v", s.Probe.CacheTTL)
}
