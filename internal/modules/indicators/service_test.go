package indicators

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfcastro/riskdash/internal/modules/portfolio"
)

func newTestService() *Service {
	return NewService(252, zerolog.Nop())
}

func TestService_ParametricVaR(t *testing.T) {
	svc := newTestService()

	// Symmetric sample: mean 0, sample stddev sqrt(2.5e-4)
	returns := []float64{-0.02, -0.01, 0, 0.01, 0.02}
	stdDev := math.Sqrt(2.5e-4)

	// z(5%) of the standard normal is about -1.6449
	got := svc.ParametricVaR(returns, 0.95)
	assert.InDelta(t, stdDev*-1.6449, got, 1e-4)
	assert.Less(t, got, 0.0)

	// The 99% threshold is strictly deeper than the 95% one
	assert.Less(t, svc.ParametricVaR(returns, 0.99), got)

	assert.Equal(t, 0.0, svc.ParametricVaR([]float64{0.01}, 0.95))
}

func TestService_HistoricalVaR(t *testing.T) {
	svc := newTestService()

	// Eleven evenly spaced returns from -5% to +5%
	returns := make([]float64, 11)
	for i := range returns {
		returns[i] = -0.05 + 0.01*float64(i)
	}

	// The 5th percentile interpolates between -0.05 and -0.04
	got := svc.HistoricalVaR(returns, 0.95)
	assert.InDelta(t, -0.045, got, 1e-12)

	assert.Equal(t, 0.0, svc.HistoricalVaR(nil, 0.95))
}

func TestService_CVaR(t *testing.T) {
	svc := newTestService()

	returns := make([]float64, 11)
	for i := range returns {
		returns[i] = -0.05 + 0.01*float64(i)
	}

	// Only -0.05 lies at or below the -0.045 threshold
	got := svc.CVaR(returns, 0.95)
	assert.InDelta(t, -0.05, got, 1e-12)

	// CVaR can never be better than the VaR threshold
	assert.LessOrEqual(t, got, svc.HistoricalVaR(returns, 0.95))
}

func TestService_SharpeRatio(t *testing.T) {
	svc := newTestService()

	up := []float64{0.01, 0.012, 0.008, 0.011, 0.009}
	assert.Greater(t, svc.SharpeRatio(up, 0.0), 0.0)

	// A risk-free rate above the mean return flips the sign
	assert.Less(t, svc.SharpeRatio(up, 5.0), 0.0)

	assert.Equal(t, 0.0, svc.SharpeRatio([]float64{0.01}, 0.0))
	assert.Equal(t, 0.0, svc.SharpeRatio([]float64{0.01, 0.01, 0.01}, 0.0))
}

func TestService_RollingVolatility(t *testing.T) {
	svc := newTestService()

	constant := []float64{0.01, 0.01, 0.01, 0.01, 0.01, 0.01}
	rolling := svc.RollingVolatility(constant, 3)
	require.Len(t, rolling, len(constant))
	for _, v := range rolling {
		assert.InDelta(t, 0.0, v, 1e-12)
	}

	// Series shorter than the window has no defined rolling figure
	assert.Nil(t, svc.RollingVolatility([]float64{0.01, 0.02}, 21))
	assert.Nil(t, svc.RollingVolatility(constant, 1))
}

func TestService_CorrelationMatrix(t *testing.T) {
	svc := newTestService()

	rs := portfolio.ReturnSeries{
		Symbols: []string{"AAA", "BBB"},
		Rows: [][]float64{
			{0.01, -0.01},
			{0.02, -0.02},
			{-0.01, 0.01},
			{0.03, -0.03},
		},
	}

	corr := svc.CorrelationMatrix(rs)
	require.Len(t, corr, 2)

	assert.InDelta(t, 1.0, corr[0][0], 1e-12)
	assert.InDelta(t, 1.0, corr[1][1], 1e-12)
	assert.InDelta(t, -1.0, corr[0][1], 1e-9)
	assert.InDelta(t, corr[0][1], corr[1][0], 1e-12)
}

func TestService_Compute(t *testing.T) {
	svc := newTestService()

	rs := portfolio.ReturnSeries{
		Symbols: []string{"AAA", "BBB"},
		Rows: [][]float64{
			{0.010, 0.004},
			{-0.006, 0.001},
			{0.012, -0.003},
			{0.002, 0.005},
			{-0.008, 0.002},
		},
	}
	closes := map[string][]float64{
		"AAA": {100, 101, 100.4, 101.6, 101.8, 101.0},
	}

	out := svc.Compute(rs, closes, 0.0)
	require.Len(t, out, 2)

	assert.Equal(t, "AAA", out[0].Symbol)
	assert.Equal(t, "BBB", out[1].Symbol)
	assert.Greater(t, out[0].AnnualizedVolatility, 0.0)
	assert.Less(t, out[0].ParametricVaR95, 0.0)
	assert.Greater(t, out[0].MaxDrawdown, 0.0)

	// No close series supplied for BBB: drawdown defaults to zero
	assert.Equal(t, 0.0, out[1].MaxDrawdown)
}
