package portfolio

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Return computes the annualized portfolio return weights·mu.
func Return(weights, mu []float64) float64 {
	return floats.Dot(weights, mu)
}

// Volatility computes sqrt(wᵀ·cov·w). Numerical noise can push the quadratic
// form a hair below zero for near-degenerate covariances; it is clamped to
// zero before the square root so the result is never NaN or negative.
func Volatility(weights []float64, cov *mat.SymDense) float64 {
	w := mat.NewVecDense(len(weights), weights)
	variance := mat.Inner(w, cov, w)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Sharpe computes (return − riskFree) / volatility. A zero-volatility
// portfolio has a Sharpe of exactly 0 by policy rather than a division error.
func Sharpe(weights, mu []float64, cov *mat.SymDense, riskFree float64) float64 {
	vol := Volatility(weights, cov)
	if vol == 0 {
		return 0.0
	}
	return (Return(weights, mu) - riskFree) / vol
}
