// Package config collects render settings from a .env file, RAYTRACER_*
// environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/image/colornames"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
	"github.com/df07/go-tile-raytracer/pkg/scene"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "RAYTRACER_"

// ErrInvalidValue is returned for settings that cannot be parsed
var ErrInvalidValue = errors.New("invalid configuration value")

// Config holds everything needed to set up a render
type Config struct {
	Scene     string // Built-in scene id
	Width     int
	Height    int
	TileSize  int
	Samples   int // Samples per pixel
	MaxDepth  int
	Workers   int // 0 = one per logical CPU
	Seed      int64
	Output    string // PNG path for the CLI
	Port      int    // HTTP port for the web server
	SkyTop    string // Color name or "r,g,b"; empty keeps the scene's sky
	SkyBottom string
}

// Default returns the built-in settings
func Default() Config {
	sampling := renderer.DefaultSamplingConfig()
	scheduler := renderer.DefaultSchedulerConfig()
	return Config{
		Scene:    "random",
		Width:    384,
		Height:   256,
		TileSize: scheduler.TileSize,
		Samples:  sampling.SamplesPerPixel,
		MaxDepth: sampling.MaxDepth,
		Workers:  scheduler.NumWorkers,
		Seed:     scheduler.Seed,
		Output:   "output/render.png",
		Port:     8080,
	}
}

// Load starts from Default, applies envFile (a missing file is fine) and
// then the process environment
func Load(envFile string) (Config, error) {
	cfg := Default()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides fields from RAYTRACER_* variables
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	stringFields := map[string]*string{
		"SCENE":      &c.Scene,
		"OUTPUT":     &c.Output,
		"SKY_TOP":    &c.SkyTop,
		"SKY_BOTTOM": &c.SkyBottom,
	}
	for key, field := range stringFields {
		if value, ok := lookup(EnvPrefix + key); ok {
			*field = value
		}
	}

	intFields := map[string]*int{
		"WIDTH":     &c.Width,
		"HEIGHT":    &c.Height,
		"TILE_SIZE": &c.TileSize,
		"SAMPLES":   &c.Samples,
		"MAX_DEPTH": &c.MaxDepth,
		"WORKERS":   &c.Workers,
		"PORT":      &c.Port,
	}
	for key, field := range intFields {
		if value, ok := lookup(EnvPrefix + key); ok {
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s%s=%q: %w", EnvPrefix, key, value, ErrInvalidValue)
			}
			*field = parsed
		}
	}

	if value, ok := lookup(EnvPrefix + "SEED"); ok {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED=%q: %w", EnvPrefix, value, ErrInvalidValue)
		}
		c.Seed = parsed
	}
	return nil
}

// RegisterFlags binds command-line flags to c, using the current values as
// defaults. Call after Load so flags win over the environment.
func (c *Config) RegisterFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.Scene, "scene", c.Scene, "Scene id (random, three-spheres, single-sphere, empty)")
	flags.IntVar(&c.Width, "width", c.Width, "Image width in pixels (multiple of -tile)")
	flags.IntVar(&c.Height, "height", c.Height, "Image height in pixels (multiple of -tile)")
	flags.IntVar(&c.TileSize, "tile", c.TileSize, "Tile edge in pixels")
	flags.IntVar(&c.Samples, "samples", c.Samples, "Samples per pixel")
	flags.IntVar(&c.MaxDepth, "depth", c.MaxDepth, "Maximum bounces per path")
	flags.IntVar(&c.Workers, "workers", c.Workers, "Parallel workers (0 = one per logical CPU)")
	flags.Int64Var(&c.Seed, "seed", c.Seed, "Random seed for scenes and sampling")
	flags.StringVar(&c.Output, "out", c.Output, "Output PNG path")
	flags.StringVar(&c.SkyTop, "sky-top", c.SkyTop, "Sky color overhead: CSS name or r,g,b in [0,1]")
	flags.StringVar(&c.SkyBottom, "sky-bottom", c.SkyBottom, "Sky color looking straight down: CSS name or r,g,b in [0,1]")
}

// Sampling returns the per-pixel settings
func (c Config) Sampling() renderer.SamplingConfig {
	return renderer.SamplingConfig{
		SamplesPerPixel: c.Samples,
		MaxDepth:        c.MaxDepth,
	}
}

// Scheduler returns the tiling settings
func (c Config) Scheduler() renderer.SchedulerConfig {
	return renderer.SchedulerConfig{
		TileSize:   c.TileSize,
		NumWorkers: c.Workers,
		Seed:       c.Seed,
	}
}

// AspectRatio returns width / height
func (c Config) AspectRatio() float64 {
	if c.Height == 0 {
		return 0
	}
	return float64(c.Width) / float64(c.Height)
}

// Background returns a sky gradient when either sky color is set, or nil
// to keep the scene's own background
func (c Config) Background() (core.Background, error) {
	if c.SkyTop == "" && c.SkyBottom == "" {
		return nil, nil
	}

	top, bottom := scene.SkyZenith, scene.SkyHorizon
	var err error
	if c.SkyTop != "" {
		if top, err = ParseColor(c.SkyTop); err != nil {
			return nil, err
		}
	}
	if c.SkyBottom != "" {
		if bottom, err = ParseColor(c.SkyBottom); err != nil {
			return nil, err
		}
	}
	return scene.SkyGradient(bottom, top), nil
}

// SceneOptions returns the options for building the configured scene
func (c Config) SceneOptions() (scene.Options, error) {
	background, err := c.Background()
	if err != nil {
		return scene.Options{}, err
	}
	return scene.Options{
		AspectRatio: c.AspectRatio(),
		Seed:        c.Seed,
		Background:  background,
	}, nil
}

// ParseColor accepts a CSS/SVG color name ("skyblue") or three comma
// separated components in [0,1] ("0.5,0.7,1")
func ParseColor(s string) (core.Vec3, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if rgba, ok := colornames.Map[name]; ok {
		return core.NewColor(float64(rgba.R)/255, float64(rgba.G)/255, float64(rgba.B)/255), nil
	}

	parts := strings.Split(name, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("color %q: %w", s, ErrInvalidValue)
	}
	var components [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || v < 0 || v > 1 {
			return core.Vec3{}, fmt.Errorf("color %q: %w", s, ErrInvalidValue)
		}
		components[i] = v
	}
	return core.NewColor(components[0], components[1], components[2]), nil
}
