package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/parched/internal/sim"
)

const (
	DefaultDt       = 0.017
	DefaultFrames   = 600
	DefaultSubSteps = 2
	DefaultGravity  = -1.0
	DefaultArena    = 0.95
	DefaultFPS      = 60
	DefaultStore    = "parched.db"
)

var ErrUnknownFormat = errors.New("config: unknown file format")

type Config struct {
	Scene   string        `yaml:"scene" toml:"scene"`
	Seed    int64         `yaml:"seed" toml:"seed"`
	World   WorldConfig   `yaml:"world" toml:"world"`
	Run     RunConfig     `yaml:"run" toml:"run"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Live    LiveConfig    `yaml:"live" toml:"live"`
	Wind    WindConfig    `yaml:"wind" toml:"wind"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
}

type WorldConfig struct {
	SubSteps    int        `yaml:"sub_steps" toml:"sub_steps"`
	Gravity     [2]float32 `yaml:"gravity" toml:"gravity"`
	Correction  float32    `yaml:"correction" toml:"correction"`
	Capacity    int        `yaml:"capacity" toml:"capacity"`
	ArenaRadius float32    `yaml:"arena_radius" toml:"arena_radius"`
	ArenaColour [3]float32 `yaml:"arena_colour" toml:"arena_colour"`
}

type RunConfig struct {
	Dt     float64 `yaml:"dt" toml:"dt"`
	Frames int     `yaml:"frames" toml:"frames"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // console or json
}

type LiveConfig struct {
	FPS    int `yaml:"fps" toml:"fps"`
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

type WindConfig struct {
	Enabled  bool    `yaml:"enabled" toml:"enabled"`
	Strength float64 `yaml:"strength" toml:"strength"`
	Scale    float64 `yaml:"scale" toml:"scale"`
	Speed    float64 `yaml:"speed" toml:"speed"`
}

type StorageConfig struct {
	Path string `yaml:"path" toml:"path"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene: "sandbox",
		World: WorldConfig{
			SubSteps:    DefaultSubSteps,
			Gravity:     [2]float32{0, DefaultGravity},
			Correction:  0.5,
			Capacity:    8096,
			ArenaRadius: DefaultArena,
		},
		Run: RunConfig{
			Dt:     DefaultDt,
			Frames: DefaultFrames,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Live: LiveConfig{
			FPS:    DefaultFPS,
			Width:  80,
			Height: 40,
		},
		Wind: WindConfig{
			Strength: 0.5,
			Scale:    2.0,
			Speed:    0.3,
		},
		Storage: StorageConfig{
			Path: DefaultStore,
		},
	}
}

type format int

const (
	formatYAML format = iota
	formatTOML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads a YAML or TOML file over the defaults, picking the decoder by extension.
func Load(path string) (*Config, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	switch f {
	case formatTOML:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatTOML:
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
			return err
		}
		data = []byte(sb.String())
	default:
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Run.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Run.Dt)
	}
	if c.Run.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", c.Run.Frames)
	}
	if c.Live.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Live.FPS)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging format must be console or json, got %q", c.Logging.Format)
	}
	return c.WorldConfig().Validate()
}

// WorldConfig converts the world section into the simulator's own config.
func (c *Config) WorldConfig() sim.Config {
	w := c.World
	return sim.Config{
		SubSteps:    w.SubSteps,
		Gravity:     mgl32.Vec2{w.Gravity[0], w.Gravity[1]},
		Correction:  w.Correction,
		Capacity:    w.Capacity,
		ArenaRadius: w.ArenaRadius,
		ArenaColour: mgl32.Vec3{w.ArenaColour[0], w.ArenaColour[1], w.ArenaColour[2]},
	}
}
