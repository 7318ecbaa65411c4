package portfolio

import "gonum.org/v1/gonum/mat"

// ReturnSeries is a time-indexed table of periodic fractional returns.
// Columns align 1:1 with Symbols; rows align with Dates. The table must be
// gap-free by the time it reaches the estimator.
type ReturnSeries struct {
	Symbols []string
	Dates   []string
	Rows    [][]float64
}

// Estimates holds the annualized expected-return vector and covariance matrix
// for one asset universe. Mu and Cov are aligned to Symbols order.
type Estimates struct {
	Symbols []string
	Mu      []float64
	Cov     *mat.SymDense
}

// NumAssets returns the size of the asset universe.
func (e *Estimates) NumAssets() int {
	return len(e.Symbols)
}

// Summary describes one portfolio: its weights and annualized
// return/volatility/Sharpe. FallbackUsed marks portfolios where the solver
// did not converge and the uniform-weight fallback was substituted.
type Summary struct {
	Weights        []float64 `json:"weights"`
	ExpectedReturn float64   `json:"expected_return"`
	Volatility     float64   `json:"volatility"`
	Sharpe         float64   `json:"sharpe"`
	FallbackUsed   bool      `json:"fallback_used,omitempty"`
}

// FrontierPoint is one sampled portfolio on the efficient frontier.
type FrontierPoint struct {
	ExpectedReturn float64   `json:"expected_return"`
	Volatility     float64   `json:"volatility"`
	Weights        []float64 `json:"weights"`
	FallbackUsed   bool      `json:"fallback_used,omitempty"`
}
