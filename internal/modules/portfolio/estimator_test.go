package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfcastro/riskdash/internal/domain"
)

func testReturnSeries() ReturnSeries {
	return ReturnSeries{
		Symbols: []string{"AAA", "BBB"},
		Dates:   []string{"2024-01-02", "2024-01-03", "2024-01-04"},
		Rows: [][]float64{
			{0.01, 0.02},
			{0.03, -0.01},
			{0.02, 0.00},
		},
	}
}

func TestAnnualize(t *testing.T) {
	est, err := Annualize(testReturnSeries(), 252)
	require.NoError(t, err)
	require.Equal(t, 2, est.NumAssets())

	// mu = column mean * 252
	assert.InDelta(t, 0.02*252, est.Mu[0], 1e-12)
	assert.InDelta(t, (0.02-0.01+0.0)/3.0*252, est.Mu[1], 1e-12)

	// Sample variance of {0.01, 0.03, 0.02} is 1e-4
	assert.InDelta(t, 1e-4*252, est.Cov.At(0, 0), 1e-12)
	assert.InDelta(t, est.Cov.At(0, 1), est.Cov.At(1, 0), 0)
}

func TestAnnualize_EmptyUniverse(t *testing.T) {
	_, err := Annualize(ReturnSeries{}, 252)

	var invalidInput *domain.InvalidInputError
	assert.ErrorAs(t, err, &invalidInput)
}

func TestAnnualize_InsufficientObservations(t *testing.T) {
	rs := ReturnSeries{
		Symbols: []string{"AAA"},
		Rows:    [][]float64{{0.01}},
	}
	_, err := Annualize(rs, 252)

	var insufficient *domain.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.Observations)
	assert.Equal(t, 2, insufficient.Required)
}

func TestAnnualize_InvalidPeriods(t *testing.T) {
	_, err := Annualize(testReturnSeries(), 0)

	var invalidParam *domain.InvalidParameterError
	require.ErrorAs(t, err, &invalidParam)
	assert.Equal(t, "periodsPerYear", invalidParam.Param)
}

func TestAnnualize_RaggedRows(t *testing.T) {
	rs := ReturnSeries{
		Symbols: []string{"AAA", "BBB"},
		Rows: [][]float64{
			{0.01, 0.02},
			{0.03},
		},
	}
	_, err := Annualize(rs, 252)

	var invalidInput *domain.InvalidInputError
	assert.ErrorAs(t, err, &invalidInput)
}
