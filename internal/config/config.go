// Package config loads the application configuration with viper.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/olivierh59500/gauss-field/internal/field"
	"github.com/olivierh59500/gauss-field/internal/render"
	"github.com/olivierh59500/gauss-field/internal/scene"
)

// EnvPrefix namespaces environment overrides, e.g. GAUSS_RENDER_MAX_STEPS.
const EnvPrefix = "GAUSS"

// Config is the whole application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Grid   GridConfig   `mapstructure:"grid" yaml:"grid"`
	Render RenderConfig `mapstructure:"render" yaml:"render"`
	Scene  SceneConfig  `mapstructure:"scene" yaml:"scene"`
	Viewer ViewerConfig `mapstructure:"viewer" yaml:"viewer"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// GridConfig is either a symmetric radius or explicit bounds. Explicit
// bounds win when XMax > XMin.
type GridConfig struct {
	Radius int `mapstructure:"radius" yaml:"radius"`
	XMin   int `mapstructure:"xmin" yaml:"xmin"`
	XMax   int `mapstructure:"xmax" yaml:"xmax"`
	YMin   int `mapstructure:"ymin" yaml:"ymin"`
	YMax   int `mapstructure:"ymax" yaml:"ymax"`
}

// PaletteConfig holds colors as "#rrggbb" or "#rrggbbaa".
type PaletteConfig struct {
	Background    string `mapstructure:"background" yaml:"background"`
	Line          string `mapstructure:"line" yaml:"line"`
	Equipotential string `mapstructure:"equipotential" yaml:"equipotential"`
	Positive      string `mapstructure:"positive" yaml:"positive"`
	Negative      string `mapstructure:"negative" yaml:"negative"`
}

// RenderConfig is the file form of render.Config.
type RenderConfig struct {
	FieldLines      bool          `mapstructure:"field_lines" yaml:"field_lines"`
	Equipotentials  bool          `mapstructure:"equipotentials" yaml:"equipotentials"`
	FieldColor      bool          `mapstructure:"field_color" yaml:"field_color"`
	Arrows          bool          `mapstructure:"arrows" yaml:"arrows"`
	SymmetryCulling bool          `mapstructure:"symmetry_culling" yaml:"symmetry_culling"`
	Equipotential   string        `mapstructure:"equipotential" yaml:"equipotential"`
	LinesPerCharge  int           `mapstructure:"lines_per_charge" yaml:"lines_per_charge"`
	SeedDistance    float64       `mapstructure:"seed_distance" yaml:"seed_distance"`
	SeedTolerance   float64       `mapstructure:"seed_tolerance" yaml:"seed_tolerance"`
	StepSize        float64       `mapstructure:"step_size" yaml:"step_size"`
	MaxSteps        int           `mapstructure:"max_steps" yaml:"max_steps"`
	RingCount       int           `mapstructure:"ring_count" yaml:"ring_count"`
	FirstRing       float64       `mapstructure:"first_ring" yaml:"first_ring"`
	Epsilon         float64       `mapstructure:"epsilon" yaml:"epsilon"`
	RingSpacing     float64       `mapstructure:"ring_spacing" yaml:"ring_spacing"`
	WalkSteps       int           `mapstructure:"walk_steps" yaml:"walk_steps"`
	WalkScale       float64       `mapstructure:"walk_scale" yaml:"walk_scale"`
	ArrowStep       int           `mapstructure:"arrow_step" yaml:"arrow_step"`
	ArrowLength     int           `mapstructure:"arrow_length" yaml:"arrow_length"`
	ArrowThickness  int           `mapstructure:"arrow_thickness" yaml:"arrow_thickness"`
	ColorScale      float64       `mapstructure:"color_scale" yaml:"color_scale"`
	Overflow        string        `mapstructure:"overflow" yaml:"overflow"`
	Workers         int           `mapstructure:"workers" yaml:"workers"`
	Palette         PaletteConfig `mapstructure:"palette" yaml:"palette"`
}

// SceneConfig chooses where the charges come from. Source is one of
// "preset", "file", "perlin" or "inline".
type SceneConfig struct {
	Source  string            `mapstructure:"source" yaml:"source"`
	Preset  string            `mapstructure:"preset" yaml:"preset"`
	File    string            `mapstructure:"file" yaml:"file"`
	Noise   scene.NoiseParams `mapstructure:"noise" yaml:"noise"`
	Charges field.ChargeSet   `mapstructure:"charges" yaml:"charges"`
}

// ViewerConfig tunes the interactive window.
type ViewerConfig struct {
	Title      string  `mapstructure:"title" yaml:"title"`
	PixelScale int     `mapstructure:"pixel_scale" yaml:"pixel_scale"`
	Live       bool    `mapstructure:"live" yaml:"live"`
	LiveRate   float64 `mapstructure:"live_rate" yaml:"live_rate"`
	TPS        int     `mapstructure:"tps" yaml:"tps"`
}

// OutputConfig names export targets.
type OutputConfig struct {
	PNG   string `mapstructure:"png" yaml:"png"`
	Scene string `mapstructure:"scene" yaml:"scene"`
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "gauss")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)

	// -- Grid --
	v.SetDefault("grid.radius", field.DefaultRadius)

	// -- Render --
	d := render.DefaultConfig()
	v.SetDefault("render.field_lines", d.DrawFieldLines)
	v.SetDefault("render.equipotentials", d.DrawEquipotential)
	v.SetDefault("render.field_color", d.ColorizeField)
	v.SetDefault("render.arrows", d.DrawArrows)
	v.SetDefault("render.symmetry_culling", d.SymmetryCulling)
	v.SetDefault("render.equipotential", string(d.Equipotential))
	v.SetDefault("render.lines_per_charge", d.LinesPerCharge)
	v.SetDefault("render.seed_distance", d.SeedDistance)
	v.SetDefault("render.seed_tolerance", d.SeedTolerance)
	v.SetDefault("render.step_size", d.StepSize)
	v.SetDefault("render.max_steps", d.MaxSteps)
	v.SetDefault("render.ring_count", d.RingCount)
	v.SetDefault("render.first_ring", d.FirstRing)
	v.SetDefault("render.epsilon", d.Epsilon)
	v.SetDefault("render.ring_spacing", d.RingSpacing)
	v.SetDefault("render.walk_steps", d.WalkSteps)
	v.SetDefault("render.walk_scale", d.WalkScale)
	v.SetDefault("render.arrow_step", d.ArrowStep)
	v.SetDefault("render.arrow_length", d.ArrowLength)
	v.SetDefault("render.arrow_thickness", d.ArrowThickness)
	v.SetDefault("render.color_scale", d.ColorScale)
	v.SetDefault("render.overflow", string(d.Overflow))
	v.SetDefault("render.workers", d.Workers)
	v.SetDefault("render.palette.background", Hex(d.Palette.Background))
	v.SetDefault("render.palette.line", Hex(d.Palette.Line))
	v.SetDefault("render.palette.equipotential", Hex(d.Palette.Equipotential))
	v.SetDefault("render.palette.positive", Hex(d.Palette.Positive))
	v.SetDefault("render.palette.negative", Hex(d.Palette.Negative))

	// -- Scene --
	n := scene.DefaultNoiseParams()
	v.SetDefault("scene.source", "preset")
	v.SetDefault("scene.preset", scene.DefaultPreset)
	v.SetDefault("scene.noise.count", n.Count)
	v.SetDefault("scene.noise.seed", n.Seed)
	v.SetDefault("scene.noise.alpha", n.Alpha)
	v.SetDefault("scene.noise.beta", n.Beta)
	v.SetDefault("scene.noise.octaves", n.Octaves)
	v.SetDefault("scene.noise.frequency", n.Frequency)
	v.SetDefault("scene.noise.spread", n.Spread)
	v.SetDefault("scene.noise.max_strength", n.MaxStrength)

	// -- Viewer --
	v.SetDefault("viewer.title", "Gauss' law")
	v.SetDefault("viewer.pixel_scale", 4)
	v.SetDefault("viewer.live", false)
	v.SetDefault("viewer.live_rate", 30.0)
	v.SetDefault("viewer.tps", 60)

	// -- Output --
	v.SetDefault("output.png", "out.png")
	v.SetDefault("output.scene", "scene.json")
}

// Configure points v at a config file (or ./gauss.yaml when path is empty)
// and enables GAUSS_* environment overrides.
func Configure(v *viper.Viper, path string) {
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("gauss")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Read loads the file configured on v. A missing default file is not an
// error; a missing explicit file is.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// FromViper unmarshals and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewDefaultConfig returns the configuration with only defaults applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// expandPaths resolves a leading ~ in every file path.
func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Output.PNG, &c.Output.Scene, &c.Scene.File, &c.Logger.LogFile} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand path %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// FieldGrid resolves the grid section.
func (c *Config) FieldGrid() field.Grid {
	g := c.Grid
	if g.XMax > g.XMin && g.YMax > g.YMin {
		return field.Grid{XMin: g.XMin, XMax: g.XMax, YMin: g.YMin, YMax: g.YMax}
	}
	return field.Square(g.Radius)
}

// RenderConfig converts the render section to the renderer's record.
func (c *Config) RenderConfig() (render.Config, error) {
	r := c.Render
	mode, err := render.ParseEquipotentialMode(r.Equipotential)
	if err != nil {
		return render.Config{}, err
	}
	overflow, err := render.ParseOverflowPolicy(r.Overflow)
	if err != nil {
		return render.Config{}, err
	}
	pal, err := r.Palette.palette()
	if err != nil {
		return render.Config{}, err
	}
	return render.Config{
		DrawFieldLines:    r.FieldLines,
		DrawEquipotential: r.Equipotentials,
		ColorizeField:     r.FieldColor,
		DrawArrows:        r.Arrows,
		SymmetryCulling:   r.SymmetryCulling,
		Equipotential:     mode,
		LinesPerCharge:    r.LinesPerCharge,
		SeedDistance:      r.SeedDistance,
		SeedTolerance:     r.SeedTolerance,
		StepSize:          r.StepSize,
		MaxSteps:          r.MaxSteps,
		RingCount:         r.RingCount,
		FirstRing:         r.FirstRing,
		Epsilon:           r.Epsilon,
		RingSpacing:       r.RingSpacing,
		WalkSteps:         r.WalkSteps,
		WalkScale:         r.WalkScale,
		ArrowStep:         r.ArrowStep,
		ArrowLength:       r.ArrowLength,
		ArrowThickness:    r.ArrowThickness,
		ColorScale:        r.ColorScale,
		Overflow:          overflow,
		Workers:           r.Workers,
		Palette:           pal,
	}, nil
}

// Charges resolves the scene section into a charge set.
func (c *Config) Charges() (field.ChargeSet, error) {
	s := c.Scene
	switch strings.ToLower(s.Source) {
	case "", "preset":
		return scene.Preset(s.Preset)
	case "file":
		sc, err := scene.Load(s.File)
		if err != nil {
			return nil, err
		}
		return sc.Charges, nil
	case "perlin":
		return scene.Perlin(s.Noise), nil
	case "inline":
		return s.Charges.Clone(), nil
	}
	return nil, fmt.Errorf("scene.source must be preset, file, perlin or inline, got %q", s.Source)
}

// Validate checks every section.
func (c *Config) Validate() error {
	var errs []error
	if g := c.FieldGrid(); g.Empty() || g.Len() == 0 {
		errs = append(errs, errors.New("grid must contain at least one cell"))
	}
	rc, err := c.RenderConfig()
	if err != nil {
		errs = append(errs, err)
	} else if err := rc.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("render: %w", err))
	}
	switch strings.ToLower(c.Scene.Source) {
	case "", "preset", "perlin", "inline":
	case "file":
		if c.Scene.File == "" {
			errs = append(errs, errors.New("scene.file is required when scene.source is file"))
		}
	default:
		errs = append(errs, fmt.Errorf("scene.source must be preset, file, perlin or inline, got %q", c.Scene.Source))
	}
	if c.Viewer.LiveRate < 0 {
		errs = append(errs, errors.New("viewer.live_rate must be non-negative"))
	}
	if c.Viewer.PixelScale <= 0 {
		errs = append(errs, errors.New("viewer.pixel_scale must be a positive integer"))
	}
	return errors.Join(errs...)
}

func (p PaletteConfig) palette() (render.Palette, error) {
	d := render.DefaultPalette()
	var errs []error
	parse := func(name, s string, dst *color.RGBA) {
		if s == "" {
			return
		}
		c, err := ParseHex(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("render.palette.%s: %w", name, err))
			return
		}
		*dst = c
	}
	parse("background", p.Background, &d.Background)
	parse("line", p.Line, &d.Line)
	parse("equipotential", p.Equipotential, &d.Equipotential)
	parse("positive", p.Positive, &d.Positive)
	parse("negative", p.Negative, &d.Negative)
	return d, errors.Join(errs...)
}

// ParseHex reads "#rgb", "#rrggbb" (opaque) or "#rrggbbaa". The leading
// '#' is optional.
func ParseHex(s string) (color.RGBA, error) {
	s = "#" + strings.TrimPrefix(strings.TrimSpace(s), "#")
	a := uint8(255)
	if len(s) == 9 {
		v, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		a, s = uint8(v), s[:7]
	}
	if len(s) != 4 && len(s) != 7 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #rgb, #rrggbb or #rrggbbaa", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// Hex formats c as "#rrggbb", adding alpha only when it is not opaque.
func Hex(c color.RGBA) string {
	s := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
	if c.A == 255 {
		return s
	}
	return fmt.Sprintf("%s%02x", s, c.A)
}
