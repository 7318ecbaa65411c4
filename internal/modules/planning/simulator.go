package planning

import (
	"math"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/mfcastro/riskdash/internal/domain"
	"github.com/mfcastro/riskdash/internal/modules/portfolio"
)

// returnFloor keeps a single catastrophic draw from flipping the sign of the
// compounding base: portfolio returns below -99% are floored.
const returnFloor = -0.99

// Simulator projects wealth accumulation for a fixed target allocation by
// sampling correlated annual asset returns. Each invocation is a single-shot,
// stateless computation; the struct only carries the validated inputs.
type Simulator struct {
	symbols   []string
	mu        []float64
	cov       *mat.SymDense
	weights   []float64
	inflation float64
	log       zerolog.Logger
}

// NewSimulator builds a simulator from annualized estimates and a target
// allocation keyed by symbol. Weights must cover every asset in the
// estimates; offenders are reported by name. The aligned weights are
// renormalized to sum to one.
func NewSimulator(est *portfolio.Estimates, weights map[string]float64, inflation float64, log zerolog.Logger) (*Simulator, error) {
	if est == nil || est.NumAssets() == 0 {
		return nil, &domain.InvalidInputError{Msg: "empty asset universe"}
	}

	aligned := make([]float64, est.NumAssets())
	var missing []string
	for i, sym := range est.Symbols {
		w, ok := weights[sym]
		if !ok {
			missing = append(missing, sym)
			continue
		}
		aligned[i] = w
	}
	if len(missing) > 0 {
		return nil, &domain.MissingAssetWeightError{Symbols: missing}
	}

	return newSimulator(est, aligned, inflation, log)
}

// NewSimulatorFromVector is the slice-input variant of NewSimulator; weights
// must already be aligned to the estimates' symbol order.
func NewSimulatorFromVector(est *portfolio.Estimates, weights []float64, inflation float64, log zerolog.Logger) (*Simulator, error) {
	if est == nil || est.NumAssets() == 0 {
		return nil, &domain.InvalidInputError{Msg: "empty asset universe"}
	}
	if len(weights) != est.NumAssets() {
		return nil, &domain.InvalidInputError{Msg: "weights length must match the asset universe"}
	}
	aligned := append([]float64(nil), weights...)
	return newSimulator(est, aligned, inflation, log)
}

func newSimulator(est *portfolio.Estimates, aligned []float64, inflation float64, log zerolog.Logger) (*Simulator, error) {
	total := floats.Sum(aligned)
	if math.Abs(total) < 1e-12 {
		return nil, &domain.InvalidParameterError{Param: "weights", Msg: "must sum to a positive number"}
	}
	for i := range aligned {
		aligned[i] /= total
	}

	return &Simulator{
		symbols:   est.Symbols,
		mu:        est.Mu,
		cov:       est.Cov,
		weights:   aligned,
		inflation: inflation,
		log:       log.With().Str("component", "simulator").Logger(),
	}, nil
}

// SimulateWealthPaths simulates wealth accumulation with yearly rebalancing
// to the target weights. The returned matrix has shape
// (NumSimulations, HorizonYears+1) with column 0 equal to the initial wealth.
//
// Annual asset returns are i.i.d. multivariate-normal draws across years (a
// stated simplification: no serial correlation, no fat tails). The
// contribution is added before the year's return is applied, so it
// participates in that year's growth. Seeded runs draw on a single goroutine
// and are bit-exact reproducible; there is no parallel sampling mode.
func (s *Simulator) SimulateWealthPaths(p PathParams) ([][]float64, error) {
	// All parameter validation happens before any sampling.
	if p.HorizonYears <= 0 {
		return nil, &domain.InvalidParameterError{Param: "horizonYears", Msg: "must be greater than zero"}
	}
	if p.InitialWealth < 0 {
		return nil, &domain.InvalidParameterError{Param: "initialWealth", Msg: "must be non-negative"}
	}
	if p.AnnualContribution < 0 {
		return nil, &domain.InvalidParameterError{Param: "annualContribution", Msg: "must be non-negative"}
	}
	if p.NumSimulations <= 0 {
		return nil, &domain.InvalidParameterError{Param: "numSimulations", Msg: "must be positive"}
	}

	var src rand.Source
	if p.Seed != nil {
		src = rand.NewSource(*p.Seed)
	} else {
		// Unseeded runs are intentionally non-reproducible
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}

	dist, err := s.newReturnDist(src)
	if err != nil {
		return nil, err
	}

	contrib := make([]float64, p.HorizonYears)
	for year := range contrib {
		contrib[year] = p.AnnualContribution * math.Pow(1.0+p.ContributionGrowth, float64(year))
	}

	inflationAdj := 1.0 + s.inflation

	wealth := make([][]float64, p.NumSimulations)
	draw := make([]float64, len(s.mu))
	for sim := range wealth {
		path := make([]float64, p.HorizonYears+1)
		path[0] = p.InitialWealth

		for year := 0; year < p.HorizonYears; year++ {
			dist.Rand(draw)

			nominal := floats.Dot(draw, s.weights)
			if nominal < returnFloor {
				nominal = returnFloor
			}
			real := (1.0+nominal)/inflationAdj - 1.0

			base := path[year]
			if base < 0 {
				base = 0
			}
			path[year+1] = (base + contrib[year]) * (1.0 + real)
		}

		// No leverage or margin is modeled; wealth never goes negative.
		for i, v := range path {
			if v < 0 {
				path[i] = 0
			}
		}
		wealth[sim] = path
	}

	return wealth, nil
}

// newReturnDist builds the multivariate-normal sampler. Sample covariances of
// collinear assets can be semidefinite and fail Cholesky factorization; a
// small diagonal ridge is tried before giving up on the matrix.
func (s *Simulator) newReturnDist(src rand.Source) (*distmv.Normal, error) {
	dist, ok := distmv.NewNormal(s.mu, s.cov, src)
	if ok {
		return dist, nil
	}

	n := len(s.mu)
	for _, ridge := range []float64{1e-10, 1e-8, 1e-6} {
		jittered := mat.NewSymDense(n, nil)
		jittered.CopySym(s.cov)
		for i := 0; i < n; i++ {
			jittered.SetSym(i, i, jittered.At(i, i)+ridge)
		}
		if dist, ok = distmv.NewNormal(s.mu, jittered, src); ok {
			s.log.Warn().
				Float64("ridge", ridge).
				Msg("Covariance not positive definite, sampling with diagonal ridge")
			return dist, nil
		}
	}

	return nil, &domain.InvalidParameterError{Param: "covariance", Msg: "matrix is not positive semidefinite"}
}
