package experiment

import (
	"context"
	"sync"

	"github.com/san-kum/parched/internal/scene"
)

// Ensemble repeats a run over consecutive seeds.
type Ensemble struct {
	base      Config
	numRuns   int
	seedStart int64
}

func NewEnsemble(base Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: base, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := e.base
			cfg.Seed = e.seedStart + int64(idx)
			cfg.Scene = cloneScene(e.base.Scene)

			exp := New(cfg, nil)
			if err := exp.Setup(); err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// cloneScene gives each parallel run its own copy of the scene slices.
func cloneScene(s *scene.Scene) *scene.Scene {
	if s == nil {
		return nil
	}
	c := *s
	c.Balls = append([]scene.BallSpec(nil), s.Balls...)
	c.Emitters = append([]scene.Emitter(nil), s.Emitters...)
	return &c
}
