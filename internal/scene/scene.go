// Package scene describes the initial contents of a world and the emitters that
// keep adding to it.
//
// Scenes are YAML or TOML files:
//
//	name: purge
//	balls:
//	  - {x: 0, y: 0, radius: 0.1, colour: [0.2, 0.2, 0.2], behavior: trigger, hook: purge}
//	  - {x: 0, y: 0.5, radius: 0.03, count: 40, spread: 0.3}
//	emitters:
//	  - {x: 0, y: 0.8, radius: 0.02, every: 3, limit: 300}
//
// Trigger and selective balls name a hook. Built-in hooks are purge, paint_blue
// and block_blue; a "lua:" prefix resolves the rest of the name in the loaded
// scripts.
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/parched/internal/ball"
)

var (
	ErrUnknownScene  = errors.New("scene: unknown scene")
	ErrUnknownFormat = errors.New("scene: unknown file format")
)

type Scene struct {
	Name        string     `yaml:"name" toml:"name"`
	Description string     `yaml:"description" toml:"description"`
	Balls       []BallSpec `yaml:"balls" toml:"balls"`
	Emitters    []Emitter  `yaml:"emitters" toml:"emitters"`
	Scripts     []string   `yaml:"scripts" toml:"scripts"`

	// Dir is the directory script paths are relative to.
	Dir string `yaml:"-" toml:"-"`
}

// BallSpec places one ball, or Count balls scattered within Spread of (X, Y).
type BallSpec struct {
	X        float32    `yaml:"x" toml:"x"`
	Y        float32    `yaml:"y" toml:"y"`
	Radius   float32    `yaml:"radius" toml:"radius"`
	Colour   [3]float32 `yaml:"colour" toml:"colour"`
	Behavior string     `yaml:"behavior" toml:"behavior"`
	Hook     string     `yaml:"hook" toml:"hook"`
	Count    int        `yaml:"count" toml:"count"`
	Spread   float32    `yaml:"spread" toml:"spread"`
}

func (b *BallSpec) Kind() (ball.Kind, error) {
	k, ok := ball.ParseKind(strings.ToLower(b.Behavior))
	if !ok {
		return ball.Normal, fmt.Errorf("unknown behavior %q", b.Behavior)
	}
	return k, nil
}

func (s *Scene) Validate() error {
	for i := range s.Balls {
		b := &s.Balls[i]
		if b.Radius <= 0 {
			return fmt.Errorf("ball %d: radius must be positive, got %f", i, b.Radius)
		}
		if b.Count < 0 {
			return fmt.Errorf("ball %d: count must not be negative, got %d", i, b.Count)
		}
		k, err := b.Kind()
		if err != nil {
			return fmt.Errorf("ball %d: %w", i, err)
		}
		if (k == ball.Trigger || k == ball.Selective) && b.Hook == "" {
			return fmt.Errorf("ball %d: %s ball needs a hook", i, k)
		}
	}
	for i := range s.Emitters {
		e := &s.Emitters[i]
		if e.Radius <= 0 {
			return fmt.Errorf("emitter %d: radius must be positive, got %f", i, e.Radius)
		}
		if e.Every <= 0 {
			return fmt.Errorf("emitter %d: every must be positive, got %d", i, e.Every)
		}
	}
	return nil
}

// Load reads a scene file, choosing the decoder by extension.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Scene
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	case ".toml":
		_, err = toml.Decode(string(data), &s)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}

	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	s.Dir = filepath.Dir(path)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.Name, err)
	}
	return &s, nil
}

// Resolve returns the named preset, or loads name as a file path.
func Resolve(name string) (*Scene, error) {
	if s := Get(name); s != nil {
		return s, nil
	}
	if _, err := os.Stat(name); err == nil {
		return Load(name)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownScene, name)
}
