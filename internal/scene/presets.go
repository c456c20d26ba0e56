package scene

import "sort"

var (
	grey   = [3]float32{0.2, 0.2, 0.2}
	blue   = [3]float32{0, 0, 1}
	yellow = [3]float32{1, 1, 0}
)

var presets = map[string]Scene{
	"sandbox": {
		Name:        "sandbox",
		Description: "empty arena",
	},
	"rain": {
		Name:        "rain",
		Description: "balls drop in from the top of the arena",
		Emitters: []Emitter{
			{X: -0.3, Y: 0.8, Radius: 0.02, Every: 4, Limit: 250},
			{X: 0.3, Y: 0.8, Radius: 0.015, Every: 5, Limit: 250},
		},
	},
	"purge": {
		Name:        "purge",
		Description: "a purge trigger eats everything that falls on it",
		Balls: []BallSpec{
			{X: 0, Y: -0.3, Radius: 0.1, Colour: grey, Behavior: "trigger", Hook: "purge"},
			{X: 0, Y: 0.4, Radius: 0.03, Count: 60, Spread: 0.35},
		},
		Emitters: []Emitter{
			{X: 0, Y: 0.8, Radius: 0.03, Every: 6, Limit: 400},
		},
	},
	"sorting": {
		Name:        "sorting",
		Description: "blue triggers paint balls that a selective wall then pushes away",
		Balls: []BallSpec{
			{X: -0.2, Y: 0.2, Radius: 0.02, Colour: blue, Behavior: "trigger", Hook: "paint_blue"},
			{X: 0.2, Y: 0.2, Radius: 0.02, Colour: blue, Behavior: "trigger", Hook: "paint_blue"},
			{X: -0.1, Y: -0.4, Radius: 0.02, Colour: yellow, Behavior: "selective", Hook: "block_blue"},
			{X: 0, Y: -0.4, Radius: 0.02, Colour: yellow, Behavior: "selective", Hook: "block_blue"},
			{X: 0.1, Y: -0.4, Radius: 0.02, Colour: yellow, Behavior: "selective", Hook: "block_blue"},
		},
		Emitters: []Emitter{
			{X: 0, Y: 0.8, Radius: 0.02, Every: 5, Limit: 300},
		},
	},
}

// Get returns a copy of the named preset, or nil.
func Get(name string) *Scene {
	s, ok := presets[name]
	if !ok {
		return nil
	}
	s.Balls = append([]BallSpec(nil), s.Balls...)
	s.Emitters = append([]Emitter(nil), s.Emitters...)
	return &s
}

func List() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
