package portfolio

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/mfcastro/riskdash/internal/domain"
)

// Annualize converts a periodic return table into an annualized
// expected-return vector and sample covariance matrix:
//
//	mu  = mean(returns) * periodsPerYear
//	cov = cov(returns)  * periodsPerYear
//
// At least two observations are required, otherwise the sample covariance is
// undefined and an InsufficientDataError is returned.
func Annualize(rs ReturnSeries, periodsPerYear int) (*Estimates, error) {
	n := len(rs.Symbols)
	if n == 0 {
		return nil, &domain.InvalidInputError{Msg: "empty asset universe"}
	}
	if periodsPerYear <= 0 {
		return nil, &domain.InvalidParameterError{Param: "periodsPerYear", Msg: "must be positive"}
	}
	if len(rs.Rows) < 2 {
		return nil, &domain.InsufficientDataError{Observations: len(rs.Rows), Required: 2}
	}

	obs := mat.NewDense(len(rs.Rows), n, nil)
	for i, row := range rs.Rows {
		if len(row) != n {
			return nil, &domain.InvalidInputError{
				Msg: fmt.Sprintf("return row %d has %d columns, expected %d", i, len(row), n),
			}
		}
		obs.SetRow(i, row)
	}

	periods := float64(periodsPerYear)

	mu := make([]float64, n)
	col := make([]float64, len(rs.Rows))
	for j := 0; j < n; j++ {
		mat.Col(col, j, obs)
		mu[j] = stat.Mean(col, nil) * periods
	}

	cov := mat.NewSymDense(n, nil)
	stat.CovarianceMatrix(cov, obs, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			cov.SetSym(i, j, cov.At(i, j)*periods)
		}
	}

	symbols := make([]string, n)
	copy(symbols, rs.Symbols)

	return &Estimates{Symbols: symbols, Mu: mu, Cov: cov}, nil
}
