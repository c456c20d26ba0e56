// Package experiment runs worlds headless and records metric samples.
package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/parched/internal/field"
	"github.com/san-kum/parched/internal/metrics"
	"github.com/san-kum/parched/internal/scene"
	"github.com/san-kum/parched/internal/scripting"
	"github.com/san-kum/parched/internal/sim"
)

type Config struct {
	Scene  *scene.Scene
	World  sim.Config
	Dt     float64
	Frames int
	Seed   int64
	Wind   *WindConfig
	Every  int // sample every n frames, zero means every frame
}

type WindConfig struct {
	Strength, Scale, Speed float64
}

type Result struct {
	Samples []metrics.Sample
	Metrics map[string]float64
	Frames  int
	Balls   int
	Elapsed time.Duration
}

type Experiment struct {
	cfg        Config
	log        *zap.Logger
	randSource *rand.Rand

	world    *sim.World
	engine   *scripting.Engine
	wind     *field.Wind
	emitters []scene.Emitter
}

func New(cfg Config, log *zap.Logger) *Experiment {
	if log == nil {
		log = zap.NewNop()
	}
	return &Experiment{
		cfg:        cfg,
		log:        log,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Setup builds the world, loads scene scripts and spawns the scene.
func (e *Experiment) Setup(opts ...sim.Option) error {
	if e.cfg.Scene == nil {
		return fmt.Errorf("experiment: no scene")
	}
	if e.cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", e.cfg.Dt)
	}

	opts = append([]sim.Option{sim.WithLogger(e.log)}, opts...)
	w, err := sim.New(e.cfg.World, opts...)
	if err != nil {
		return err
	}
	for _, m := range metrics.Standard(e.cfg.World.SubSteps) {
		w.AddMetric(m)
	}
	e.world = w

	var scripts scene.ScriptSource
	if len(e.cfg.Scene.Scripts) > 0 {
		e.engine = scripting.NewEngine(w, e.log)
		for _, p := range e.cfg.Scene.Scripts {
			if !filepath.IsAbs(p) {
				p = filepath.Join(e.cfg.Scene.Dir, p)
			}
			if err := e.engine.LoadFile(p); err != nil {
				e.engine.Close()
				return err
			}
		}
		scripts = e.engine
	}

	if err := scene.Apply(w, e.cfg.Scene, scene.NewHooks(w, scripts), e.randSource); err != nil {
		return fmt.Errorf("scene %s: %w", e.cfg.Scene.Name, err)
	}
	e.emitters = append([]scene.Emitter(nil), e.cfg.Scene.Emitters...)

	if e.cfg.Wind != nil {
		e.wind = field.NewWind(e.cfg.Seed, e.cfg.Wind.Strength, e.cfg.Wind.Scale, e.cfg.Wind.Speed)
	}
	return nil
}

// Step advances one frame: emitters, wind, then the world update.
func (e *Experiment) Step(frame int) {
	for i := range e.emitters {
		if _, err := e.emitters[i].Tick(e.world, frame, e.randSource); err != nil {
			e.log.Debug("emitter stalled", zap.Int("emitter", i), zap.Error(err))
		}
	}
	if e.wind != nil {
		e.wind.Apply(e.world, e.cfg.Dt)
	}
	e.world.Update(float32(e.cfg.Dt))
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.world == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	defer e.Close()

	every := e.cfg.Every
	if every <= 0 {
		every = 1
	}

	start := time.Now()
	result := &Result{
		Samples: make([]metrics.Sample, 0, e.cfg.Frames/every+1),
	}

	e.log.Info("run started",
		zap.String("scene", e.cfg.Scene.Name),
		zap.Int("frames", e.cfg.Frames),
		zap.Int64("seed", e.cfg.Seed))

	for frame := 0; frame < e.cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			result.Frames = frame
			result.Balls = e.world.BallCount()
			result.Metrics = e.world.Metrics()
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		default:
		}

		e.Step(frame)

		if frame%every == 0 || frame == e.cfg.Frames-1 {
			result.Samples = append(result.Samples, metrics.Sample{
				Frame:  frame,
				Time:   float64(frame+1) * e.cfg.Dt,
				Balls:  e.world.BallCount(),
				Values: e.world.Metrics(),
			})
		}
	}

	result.Frames = e.cfg.Frames
	result.Balls = e.world.BallCount()
	result.Metrics = e.world.Metrics()
	result.Elapsed = time.Since(start)

	e.log.Info("run finished",
		zap.Int("balls", result.Balls),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

// World returns the underlying world for adding observers.
func (e *Experiment) World() *sim.World {
	return e.world
}

func (e *Experiment) Rand() *rand.Rand { return e.randSource }

// SetWind replaces the wind field. A nil config disables wind.
func (e *Experiment) SetWind(wc *WindConfig) {
	e.cfg.Wind = wc
	if wc == nil {
		e.wind = nil
		return
	}
	e.wind = field.NewWind(e.cfg.Seed, wc.Strength, wc.Scale, wc.Speed)
}

func (e *Experiment) WindEnabled() bool { return e.wind != nil }

// Close releases the script engine. It is safe to call more than once.
func (e *Experiment) Close() {
	if e.engine != nil {
		e.engine.Close()
		e.engine = nil
	}
}
