package experiment

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/parched/internal/sim"
)

// ParameterSweep runs the same scene across a range of one world parameter.
type ParameterSweep struct {
	Base      Config
	ParamName string // correction, sub_steps or gravity
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Workers   int
}

type SweepResult struct {
	ParamValue  float64
	Balls       int
	Penetration float64
	Energy      float64
	Metrics     map[string]float64
}

func applyParam(cfg *sim.Config, name string, v float64) error {
	switch name {
	case "correction":
		cfg.Correction = float32(v)
	case "sub_steps":
		cfg.SubSteps = int(math.Round(v))
	case "gravity":
		cfg.Gravity[1] = float32(v)
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}

// RunSweep executes one run per parameter value. Every run owns its own world,
// so runs proceed in parallel.
func RunSweep(ctx context.Context, sweep *ParameterSweep, log *zap.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step")
	}
	if log == nil {
		log = zap.NewNop()
	}
	probe := sweep.Base.World
	if err := applyParam(&probe, sweep.ParamName, sweep.ParamMin); err != nil {
		return nil, err
	}

	results := make([]SweepResult, sweep.NumSteps)
	step := 0.0
	if sweep.NumSteps > 1 {
		step = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	g, ctx := errgroup.WithContext(ctx)
	workers := sweep.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g.SetLimit(workers)

	for i := 0; i < sweep.NumSteps; i++ {
		value := sweep.ParamMin + float64(i)*step
		cfg := sweep.Base
		_ = applyParam(&cfg.World, sweep.ParamName, value)
		if cfg.Scene != nil {
			cfg.Scene = cloneScene(cfg.Scene)
		}

		g.Go(func() error {
			exp := New(cfg, nil)
			if err := exp.Setup(); err != nil {
				return fmt.Errorf("%s=%.4f: %w", sweep.ParamName, value, err)
			}
			res, err := exp.Run(ctx)
			if err != nil {
				return err
			}
			results[i] = SweepResult{
				ParamValue:  value,
				Balls:       res.Balls,
				Penetration: res.Metrics["penetration"],
				Energy:      res.Metrics["kinetic_energy"],
				Metrics:     res.Metrics,
			}
			log.Debug("sweep point done", zap.String("param", sweep.ParamName), zap.Float64("value", value))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
