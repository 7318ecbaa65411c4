package portfolio

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/mfcastro/riskdash/internal/domain"
)

// testEstimates is a well-conditioned three-asset universe: distinct expected
// returns and a positive-definite covariance.
func testEstimates() *Estimates {
	return &Estimates{
		Symbols: []string{"AAA", "BBB", "CCC"},
		Mu:      []float64{0.10, 0.14, 0.07},
		Cov: mat.NewSymDense(3, []float64{
			0.040, 0.006, 0.002,
			0.006, 0.090, 0.003,
			0.002, 0.003, 0.020,
		}),
	}
}

func assertValidWeights(t *testing.T, weights []float64, n int) {
	t.Helper()
	require.Len(t, weights, n)

	sum := 0.0
	for _, w := range weights {
		assert.GreaterOrEqual(t, w, -1e-9)
		assert.LessOrEqual(t, w, 1.0+1e-9)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestOptimizer_MinVolatility(t *testing.T) {
	est := testEstimates()
	opt := NewOptimizer(zerolog.Nop())

	result, err := opt.MinVolatility(est, 0.0)
	require.NoError(t, err)
	require.False(t, result.FallbackUsed)

	assertValidWeights(t, result.Weights, 3)

	// The solution can never be more volatile than the uniform portfolio
	uniformVol := Volatility(Uniform(3), est.Cov)
	assert.LessOrEqual(t, result.Volatility, uniformVol+1e-6)
	assert.Greater(t, result.Volatility, 0.0)
}

func TestOptimizer_MaxSharpe(t *testing.T) {
	est := testEstimates()
	opt := NewOptimizer(zerolog.Nop())

	result, err := opt.MaxSharpe(est, 0.02)
	require.NoError(t, err)
	require.False(t, result.FallbackUsed)

	assertValidWeights(t, result.Weights, 3)

	uniformSharpe := Sharpe(Uniform(3), est.Mu, est.Cov, 0.02)
	assert.GreaterOrEqual(t, result.Sharpe, uniformSharpe-1e-6)
}

func TestOptimizer_Deterministic(t *testing.T) {
	est := testEstimates()
	opt := NewOptimizer(zerolog.Nop())

	first, err := opt.MaxSharpe(est, 0.0)
	require.NoError(t, err)
	second, err := opt.MaxSharpe(est, 0.0)
	require.NoError(t, err)

	assert.Equal(t, first.Weights, second.Weights)
}

func TestOptimizer_EmptyUniverse(t *testing.T) {
	opt := NewOptimizer(zerolog.Nop())

	var invalidInput *domain.InvalidInputError

	_, err := opt.MaxSharpe(&Estimates{}, 0.0)
	assert.ErrorAs(t, err, &invalidInput)

	_, err = opt.MinVolatility(nil, 0.0)
	assert.ErrorAs(t, err, &invalidInput)
}

func TestOptimizer_PathologicalCovarianceFallsBack(t *testing.T) {
	est := &Estimates{
		Symbols: []string{"AAA", "BBB"},
		Mu:      []float64{0.10, 0.08},
		// Negative variance: not a covariance matrix at all
		Cov: mat.NewSymDense(2, []float64{
			-0.04, 0.00,
			0.00, 0.03,
		}),
	}
	opt := NewOptimizer(zerolog.Nop())

	result, err := opt.MaxSharpe(est, 0.0)
	require.NoError(t, err)

	assert.True(t, result.FallbackUsed)
	assert.InDelta(t, 0.5, result.Weights[0], 1e-12)
	assert.InDelta(t, 0.5, result.Weights[1], 1e-12)
}

func TestOptimizer_EfficientFrontier(t *testing.T) {
	est := testEstimates()
	opt := NewOptimizer(zerolog.Nop())

	points, err := opt.EfficientFrontier(est, 15, 0.0)
	require.NoError(t, err)
	require.Len(t, points, 15)

	for i, p := range points {
		assertValidWeights(t, p.Weights, 3)
		if i > 0 {
			assert.GreaterOrEqual(t, p.Volatility, points[i-1].Volatility,
				"frontier must be sorted by ascending volatility")
		}
	}
}

func TestOptimizer_EfficientFrontier_EqualExpectedReturns(t *testing.T) {
	est := &Estimates{
		Symbols: []string{"AAA", "BBB"},
		Mu:      []float64{0.10, 0.10},
		Cov: mat.NewSymDense(2, []float64{
			0.04, 0.00,
			0.00, 0.02,
		}),
	}
	opt := NewOptimizer(zerolog.Nop())

	// A degenerate target range is widened internally; the sweep still
	// produces the full sample.
	points, err := opt.EfficientFrontier(est, 5, 0.0)
	require.NoError(t, err)
	assert.Len(t, points, 5)
}

func TestOptimizer_EfficientFrontier_InvalidPoints(t *testing.T) {
	opt := NewOptimizer(zerolog.Nop())

	var invalidParam *domain.InvalidParameterError
	_, err := opt.EfficientFrontier(testEstimates(), 0, 0.0)
	require.ErrorAs(t, err, &invalidParam)
	assert.Equal(t, "points", invalidParam.Param)
}

func TestOptimizer_EndToEndFromReturns(t *testing.T) {
	// Six periods of three-asset returns through the estimator and both solves
	rs := ReturnSeries{
		Symbols: []string{"AAA", "BBB", "CCC"},
		Rows: [][]float64{
			{0.010, 0.020, -0.005},
			{-0.004, 0.015, 0.002},
			{0.007, -0.012, 0.004},
			{0.002, 0.025, -0.001},
			{0.011, -0.008, 0.006},
			{-0.006, 0.018, 0.001},
		},
	}

	est, err := Annualize(rs, 252)
	require.NoError(t, err)

	opt := NewOptimizer(zerolog.Nop())

	minVol, err := opt.MinVolatility(est, 0.0)
	require.NoError(t, err)
	maxSharpe, err := opt.MaxSharpe(est, 0.0)
	require.NoError(t, err)

	assertValidWeights(t, minVol.Weights, 3)
	assertValidWeights(t, maxSharpe.Weights, 3)
	assert.LessOrEqual(t, minVol.Volatility, maxSharpe.Volatility+1e-6)
}
