package experiment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/parched/internal/scene"
	"github.com/san-kum/parched/internal/sim"
)

func baseConfig(t *testing.T, name string, frames int) Config {
	t.Helper()
	s := scene.Get(name)
	if s == nil {
		t.Fatalf("missing preset %s", name)
	}
	w := sim.DefaultConfig()
	w.Capacity = 2048
	return Config{Scene: s, World: w, Dt: 0.017, Frames: frames, Seed: 1}
}

func TestRun(t *testing.T) {
	cfg := baseConfig(t, "rain", 40)
	exp := New(cfg, nil)
	if err := exp.Setup(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(res.Samples) != 40 {
		t.Errorf("expected 40 samples, got %d", len(res.Samples))
	}
	if res.Frames != 40 {
		t.Errorf("expected 40 frames, got %d", res.Frames)
	}
	// arena plus two emitters firing every 4th and 5th frame
	if want := 1 + 10 + 8; res.Balls != want {
		t.Errorf("expected %d balls, got %d", want, res.Balls)
	}
	for _, name := range []string{"kinetic_energy", "penetration", "containment", "population", "stability"} {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if res.Metrics["stability"] != 1 {
		t.Errorf("expected a stable run, got stability %f", res.Metrics["stability"])
	}
	if res.Metrics["population"] != float64(res.Balls) {
		t.Errorf("population %f does not match %d balls", res.Metrics["population"], res.Balls)
	}
}

func TestRunSamplingInterval(t *testing.T) {
	cfg := baseConfig(t, "sandbox", 10)
	cfg.Every = 4
	exp := New(cfg, nil)
	if err := exp.Setup(); err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	want := []int{0, 4, 8, 9}
	if len(res.Samples) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(res.Samples))
	}
	for i, f := range want {
		if res.Samples[i].Frame != f {
			t.Errorf("sample %d: expected frame %d, got %d", i, f, res.Samples[i].Frame)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	exp := New(baseConfig(t, "sandbox", 100), nil)
	if err := exp.Setup(); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := exp.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.Frames != 0 {
		t.Errorf("expected no frames, got %d", res.Frames)
	}
}

func TestRunNotSetup(t *testing.T) {
	if _, err := New(baseConfig(t, "sandbox", 1), nil).Run(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestSetupErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no scene", func(c *Config) { c.Scene = nil }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"bad world", func(c *Config) { c.World.SubSteps = 0 }},
		{"missing script", func(c *Config) { c.Scene.Scripts = []string{"/nope/missing.lua"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig(t, "sandbox", 1)
			tt.mutate(&cfg)
			if err := New(cfg, nil).Setup(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunWithLuaScene(t *testing.T) {
	dir := t.TempDir()
	script := `
function shrink_enter(self, other)
  if world.kind(other) == "normal" then
    world.erase(other)
  end
end
`
	if err := os.WriteFile(filepath.Join(dir, "shrink.lua"), []byte(script), 0644); err != nil {
		t.Fatal(err)
	}
	body := `
balls:
  - {x: 0, y: -0.5, radius: 0.2, behavior: trigger, hook: "lua:shrink"}
  - {x: 0, y: -0.5, radius: 0.02, count: 10, spread: 0.1}
scripts: [shrink.lua]
`
	path := filepath.Join(dir, "lua.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := scene.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg := baseConfig(t, "sandbox", 5)
	cfg.Scene = s
	exp := New(cfg, nil)
	if err := exp.Setup(); err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Balls != 2 {
		t.Errorf("expected the script to erase every normal ball, %d balls left", res.Balls)
	}
}

func TestRunWithWind(t *testing.T) {
	cfg := baseConfig(t, "purge", 20)
	cfg.Wind = &WindConfig{Strength: 1, Scale: 2, Speed: 0.5}
	exp := New(cfg, nil)
	if err := exp.Setup(); err != nil {
		t.Fatal(err)
	}
	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{
		Base:      baseConfig(t, "rain", 30),
		ParamName: "sub_steps",
		ParamMin:  1,
		ParamMax:  4,
		NumSteps:  4,
		Workers:   2,
	}
	results, err := RunSweep(context.Background(), sweep, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.ParamValue != float64(i+1) {
			t.Errorf("result %d: expected value %d, got %f", i, i+1, r.ParamValue)
		}
		if r.Balls != results[0].Balls {
			t.Errorf("emitters should spawn the same count regardless of sub-steps")
		}
	}

	sweep.ParamName = "viscosity"
	if _, err := RunSweep(context.Background(), sweep, nil); err == nil {
		t.Error("expected unknown parameter error")
	}
}

func TestEnsemble(t *testing.T) {
	results, err := NewEnsemble(baseConfig(t, "purge", 10), 3, 100).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r == nil || r.Frames != 10 {
			t.Errorf("run %d incomplete: %+v", i, r)
		}
	}
}

func TestSetWind(t *testing.T) {
	exp := New(baseConfig(t, "sandbox", 1), nil)
	if err := exp.Setup(); err != nil {
		t.Fatal(err)
	}
	if exp.WindEnabled() {
		t.Error("wind should start disabled")
	}
	exp.SetWind(&WindConfig{Strength: 1, Scale: 1, Speed: 1})
	if !exp.WindEnabled() {
		t.Error("expected wind enabled")
	}
	exp.SetWind(nil)
	if exp.WindEnabled() {
		t.Error("expected wind disabled")
	}
	exp.Close()
	exp.Close()
}
