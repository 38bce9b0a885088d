package experiment

import (
	"context"
	"sync"
)

// Ensemble trains the same visualization from consecutive seeds in parallel.
type Ensemble struct {
	registry  *Registry
	numRuns   int
	seedStart int64
}

func NewEnsemble(r *Registry, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{registry: r, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			vis, err := e.registry.GetVisualization(cfg.Viz)
			if err != nil {
				errs[idx] = err
				return
			}
			exp := New(cfgCopy)
			if err := exp.Setup(vis); err != nil {
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
