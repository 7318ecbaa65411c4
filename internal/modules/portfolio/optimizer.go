package portfolio

import (
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/mfcastro/riskdash/internal/domain"
)

const (
	defaultMaxIters = 1500
	gradientStep    = 1e-6
	feasibilityTol  = 1e-6
	projectionPass  = 50
)

// Optimizer solves the three bounded quadratic-risk programs: max-Sharpe,
// min-volatility and the swept efficient frontier. Every solve starts from
// the uniform-weight vector; on non-convergence the uniform vector is
// substituted and the result is flagged, never surfaced as an error.
type Optimizer struct {
	lowerBound float64
	upperBound float64
	maxIters   int
	log        zerolog.Logger
}

// NewOptimizer creates an optimizer with the default long-only bounds [0,1].
func NewOptimizer(log zerolog.Logger) *Optimizer {
	return &Optimizer{
		lowerBound: 0.0,
		upperBound: 1.0,
		maxIters:   defaultMaxIters,
		log:        log.With().Str("component", "optimizer").Logger(),
	}
}

// SetBounds overrides the per-asset weight bounds.
func (o *Optimizer) SetBounds(lower, upper float64) {
	o.lowerBound = lower
	o.upperBound = upper
}

// MaxSharpe finds the weights maximizing the Sharpe ratio, subject to
// sum(weights)=1 and the per-asset bounds.
func (o *Optimizer) MaxSharpe(est *Estimates, riskFree float64) (*Summary, error) {
	if est == nil || est.NumAssets() == 0 {
		return nil, &domain.InvalidInputError{Msg: "empty asset universe"}
	}

	objective := func(w []float64) float64 {
		return -Sharpe(w, est.Mu, est.Cov, riskFree)
	}
	weights, fallback := o.solveOrFallback("max_sharpe", est, objective, nil)

	return o.summarize(weights, est, riskFree, fallback), nil
}

// MinVolatility finds the weights minimizing portfolio volatility, subject to
// sum(weights)=1 and the per-asset bounds.
func (o *Optimizer) MinVolatility(est *Estimates, riskFree float64) (*Summary, error) {
	if est == nil || est.NumAssets() == 0 {
		return nil, &domain.InvalidInputError{Msg: "empty asset universe"}
	}

	objective := func(w []float64) float64 {
		return Volatility(w, est.Cov)
	}
	weights, fallback := o.solveOrFallback("min_volatility", est, objective, nil)

	return o.summarize(weights, est, riskFree, fallback), nil
}

// solveOrFallback runs one constrained solve and applies the fallback policy:
// a pathological covariance or a non-convergent solve yields the uniform
// vector with the degradation logged, never an error.
func (o *Optimizer) solveOrFallback(
	problem string,
	est *Estimates,
	objective func([]float64) float64,
	target *float64,
) ([]float64, bool) {
	n := est.NumAssets()

	if covPathological(est.Cov) {
		o.log.Warn().
			Str("problem", problem).
			Msg("Covariance has negative variance terms, substituting uniform weights")
		return Uniform(n), true
	}

	weights, err := o.solve(n, objective, est.Mu, target)
	if err != nil {
		evt := o.log.Warn().Str("problem", problem)
		if target != nil {
			evt = evt.Float64("target_return", *target)
		}
		evt.Err(err).Msg("Solve did not converge, substituting uniform weights")
		return Uniform(n), true
	}
	return weights, false
}

// solve minimizes objective over the feasible set
//
//	{ lower <= w_i <= upper, sum(w) = 1, optionally mu·w = target }
//
// with projected gradient descent from the uniform start. Gradients are
// central finite differences; each step is followed by an alternating
// projection onto the affine constraints and the box. The best feasible
// iterate seen is returned, so the result never scores worse than a feasible
// starting point.
func (o *Optimizer) solve(
	n int,
	objective func([]float64) float64,
	mu []float64,
	target *float64,
) ([]float64, error) {
	w := Uniform(n)
	o.project(w, mu, target)

	var best []float64
	bestVal := math.Inf(1)
	if o.feasible(w, mu, target) {
		if v := objective(w); !math.IsNaN(v) && !math.IsInf(v, 0) {
			best = append([]float64(nil), w...)
			bestVal = v
		}
	}

	step := 0.05
	grad := make([]float64, n)
	probe := make([]float64, n)
	stall := 0

	for iter := 0; iter < o.maxIters; iter++ {
		if !o.numGradient(objective, w, grad, probe) {
			break // objective not differentiable here, keep best-so-far
		}

		for i := range w {
			w[i] -= step * grad[i]
		}
		o.project(w, mu, target)

		val := objective(w)
		if !math.IsNaN(val) && !math.IsInf(val, 0) && o.feasible(w, mu, target) && val < bestVal-1e-14 {
			bestVal = val
			if best == nil {
				best = make([]float64, n)
			}
			copy(best, w)
			stall = 0
			continue
		}

		stall++
		if stall >= 40 {
			// Restart from the incumbent with a smaller step
			step *= 0.5
			stall = 0
			if best != nil {
				copy(w, best)
			}
			if step < 1e-7 {
				break
			}
		}
	}

	if best == nil {
		return nil, domain.ErrSolverNonConvergence
	}
	return best, nil
}

// numGradient writes the central-difference gradient of objective at w into
// grad. Returns false when any sampled value is non-finite.
func (o *Optimizer) numGradient(objective func([]float64) float64, w, grad, probe []float64) bool {
	copy(probe, w)
	for i := range w {
		probe[i] = w[i] + gradientStep
		fPlus := objective(probe)
		probe[i] = w[i] - gradientStep
		fMinus := objective(probe)
		probe[i] = w[i]

		g := (fPlus - fMinus) / (2 * gradientStep)
		if math.IsNaN(g) || math.IsInf(g, 0) {
			return false
		}
		grad[i] = g
	}
	return true
}

// project moves w onto the constraint set by alternating corrections: shift
// onto sum(w)=1, adjust along the centered mu direction for the target-return
// equality, then clamp to the box. The passes repeat because clamping can
// disturb the affine constraints.
func (o *Optimizer) project(w []float64, mu []float64, target *float64) {
	n := float64(len(w))

	for pass := 0; pass < projectionPass; pass++ {
		shift := (1.0 - floats.Sum(w)) / n
		for i := range w {
			w[i] += shift
		}

		if target != nil {
			diff := *target - floats.Dot(w, mu)
			if math.Abs(diff) > 1e-12 {
				muMean := floats.Sum(mu) / n
				den := 0.0
				for _, m := range mu {
					d := m - muMean
					den += d * d
				}
				if den > 1e-12 {
					for i := range w {
						w[i] += diff * (mu[i] - muMean) / den
					}
				}
			}
		}

		clamped := false
		for i := range w {
			if w[i] < o.lowerBound {
				w[i] = o.lowerBound
				clamped = true
			} else if w[i] > o.upperBound {
				w[i] = o.upperBound
				clamped = true
			}
		}
		if !clamped && o.feasible(w, mu, target) {
			return
		}
	}
}

// feasible reports whether w satisfies all constraints within tolerance.
func (o *Optimizer) feasible(w []float64, mu []float64, target *float64) bool {
	if math.Abs(floats.Sum(w)-1.0) > feasibilityTol {
		return false
	}
	if target != nil && math.Abs(floats.Dot(w, mu)-*target) > feasibilityTol {
		return false
	}
	for _, wi := range w {
		if wi < o.lowerBound-1e-9 || wi > o.upperBound+1e-9 {
			return false
		}
	}
	return true
}

// summarize renormalizes solved weights (absorbing solver sum-drift) and
// packages the portfolio metrics.
func (o *Optimizer) summarize(weights []float64, est *Estimates, riskFree float64, fallback bool) *Summary {
	w := Normalize(weights)
	return &Summary{
		Weights:        w,
		ExpectedReturn: Return(w, est.Mu),
		Volatility:     Volatility(w, est.Cov),
		Sharpe:         Sharpe(w, est.Mu, est.Cov, riskFree),
		FallbackUsed:   fallback,
	}
}

// covPathological detects covariance corners the solver cannot work with.
// A negative diagonal term means the matrix is not a covariance at all; those
// inputs route through the uniform-weight fallback instead of crashing.
func covPathological(cov *mat.SymDense) bool {
	n, _ := cov.Dims()
	for i := 0; i < n; i++ {
		if cov.At(i, i) < 0 {
			return true
		}
	}
	return false
}
