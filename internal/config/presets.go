package config

import "sort"

// Presets are named world tunings layered over the defaults.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"zero_g": func(c *Config) {
		c.World.Gravity = [2]float32{0, 0}
	},
	"heavy": func(c *Config) {
		c.World.Gravity = [2]float32{0, -4}
		c.World.SubSteps = 4
	},
	"precise": func(c *Config) {
		c.World.SubSteps = 8
		c.World.Correction = 0.4
	},
	"soft": func(c *Config) {
		c.World.Correction = 0.2
	},
	"windy": func(c *Config) {
		c.Wind.Enabled = true
		c.Wind.Strength = 1.5
	},
	"tiny": func(c *Config) {
		c.World.Capacity = 512
		c.Run.Frames = 120
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// Apply layers the named preset over cfg.
func (c *Config) Apply(name string) bool {
	apply, ok := Presets[name]
	if ok {
		apply(c)
	}
	return ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
