package portfolio

import (
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/mfcastro/riskdash/internal/domain"
)

// EfficientFrontier samples the frontier by sweeping `points` target returns
// across [min(mu), max(mu)] and minimizing volatility subject to
// sum(weights)=1 and weights·mu = target for each.
//
// Sub-problems are independent given the read-only estimates, so they fan out
// across workers; results are written by target index and sorted once at the
// end, which keeps the output deterministic regardless of completion order.
// The returned sample is sorted ascending by realized volatility — solver
// noise means neither the targets nor the realized volatilities are
// guaranteed monotone, so the sort is mandatory.
func (o *Optimizer) EfficientFrontier(est *Estimates, points int, riskFree float64) ([]FrontierPoint, error) {
	if est == nil || est.NumAssets() == 0 {
		return nil, &domain.InvalidInputError{Msg: "empty asset universe"}
	}
	if points <= 0 {
		return nil, &domain.InvalidParameterError{Param: "points", Msg: "must be positive"}
	}

	rMin := floats.Min(est.Mu)
	rMax := floats.Max(est.Mu)
	// Widen slightly when all expected returns are numerically equal, so the
	// return-equality constraint stays feasible across the sweep.
	if math.Abs(rMax-rMin) < 1e-9 {
		rMin *= 0.99
		rMax *= 1.01
	}

	targets := make([]float64, points)
	if points == 1 {
		targets[0] = rMin
	} else {
		for i := range targets {
			targets[i] = rMin + (rMax-rMin)*float64(i)/float64(points-1)
		}
	}

	results := make([]FrontierPoint, points)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			objective := func(w []float64) float64 {
				return Volatility(w, est.Cov)
			}
			weights, fallback := o.solveOrFallback("efficient_frontier", est, objective, &target)

			w := Normalize(weights)
			results[i] = FrontierPoint{
				ExpectedReturn: Return(w, est.Mu),
				Volatility:     Volatility(w, est.Cov),
				Weights:        w,
				FallbackUsed:   fallback,
			}
			return nil
		})
	}
	// Sub-problem failures degrade to uniform weights inside the solve; the
	// group never carries an error.
	_ = g.Wait()

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Volatility < results[b].Volatility
	})

	fallbacks := 0
	for _, p := range results {
		if p.FallbackUsed {
			fallbacks++
		}
	}
	o.log.Debug().
		Int("points", points).
		Int("fallbacks", fallbacks).
		Float64("target_min", rMin).
		Float64("target_max", rMax).
		Msg("Efficient frontier computed")

	return results, nil
}
