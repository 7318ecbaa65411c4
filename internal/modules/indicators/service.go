package indicators

import (
	"math"
	"sort"

	talib "github.com/markcheno/go-talib"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mfcastro/riskdash/internal/modules/portfolio"
	"github.com/mfcastro/riskdash/pkg/formulas"
)

// AssetIndicators holds the descriptive risk indicators of a single asset.
// VaR figures are return thresholds (negative = loss) at the stated
// confidence, per period of the underlying series.
type AssetIndicators struct {
	Symbol               string  `json:"symbol"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	ParametricVaR95      float64 `json:"parametric_var_95"`
	ParametricVaR99      float64 `json:"parametric_var_99"`
	HistoricalVaR95      float64 `json:"historical_var_95"`
	CVaR95               float64 `json:"cvar_95"`
	SharpeRatio          float64 `json:"sharpe_ratio"`
	MaxDrawdown          float64 `json:"max_drawdown"`
}

// Service computes closed-form single-asset risk indicators. These are
// descriptive statistics, deliberately separate from the optimizer.
type Service struct {
	periodsPerYear int
	log            zerolog.Logger
}

// NewService creates an indicators service
func NewService(periodsPerYear int, log zerolog.Logger) *Service {
	return &Service{
		periodsPerYear: periodsPerYear,
		log:            log.With().Str("component", "indicators").Logger(),
	}
}

// Compute derives the indicator set for every asset in the return series.
// closes, keyed by symbol, is optional and only feeds the drawdown figure.
func (s *Service) Compute(rs portfolio.ReturnSeries, closes map[string][]float64, riskFree float64) []AssetIndicators {
	out := make([]AssetIndicators, len(rs.Symbols))

	col := make([]float64, len(rs.Rows))
	for j, symbol := range rs.Symbols {
		for i, row := range rs.Rows {
			col[i] = row[j]
		}

		out[j] = AssetIndicators{
			Symbol:               symbol,
			AnnualizedVolatility: formulas.AnnualizedVolatility(col, s.periodsPerYear),
			ParametricVaR95:      s.ParametricVaR(col, 0.95),
			ParametricVaR99:      s.ParametricVaR(col, 0.99),
			HistoricalVaR95:      s.HistoricalVaR(col, 0.95),
			CVaR95:               s.CVaR(col, 0.95),
			SharpeRatio:          s.SharpeRatio(col, riskFree),
			MaxDrawdown:          formulas.MaxDrawdown(closes[symbol]),
		}
	}
	return out
}

// ParametricVaR is the normal-assumption Value at Risk per period:
// mean + stddev · z, with z the (1−confidence) quantile of the standard
// normal. The result is negative for any realistic loss threshold.
func (s *Service) ParametricVaR(returns []float64, confidence float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(1 - confidence)
	return formulas.Mean(returns) + formulas.StdDev(returns)*z
}

// HistoricalVaR is the empirical (1−confidence) percentile of observed
// returns.
func (s *Service) HistoricalVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)
	return formulas.Percentile(sorted, (1-confidence)*100)
}

// CVaR (expected shortfall) is the mean return conditional on breaching the
// historical VaR threshold.
func (s *Service) CVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	threshold := s.HistoricalVaR(returns, confidence)

	var tail []float64
	for _, r := range returns {
		if r <= threshold {
			tail = append(tail, r)
		}
	}
	if len(tail) == 0 {
		return threshold
	}
	return formulas.Mean(tail)
}

// SharpeRatio annualizes the periodic excess return over volatility.
func (s *Service) SharpeRatio(returns []float64, riskFree float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	stdDev := formulas.StdDev(returns)
	if stdDev == 0 {
		return 0
	}
	periodicRiskFree := riskFree / float64(s.periodsPerYear)
	return (formulas.Mean(returns) - periodicRiskFree) / stdDev * math.Sqrt(float64(s.periodsPerYear))
}

// RollingVolatility returns the annualized rolling standard deviation of a
// return series. Output aligns with the input; the first window−1 entries
// are zero while the window fills.
func (s *Service) RollingVolatility(returns []float64, window int) []float64 {
	if window < 2 || len(returns) < window {
		return nil
	}

	rolling := talib.StdDev(returns, window, 1.0)
	annualization := math.Sqrt(float64(s.periodsPerYear))
	// talib computes population stddev over each window; rescale to the
	// sample convention used everywhere else in this package.
	sampleAdj := math.Sqrt(float64(window) / float64(window-1))
	for i := range rolling {
		rolling[i] *= annualization * sampleAdj
	}
	return rolling
}

// CorrelationMatrix is the Pearson correlation between the assets of the
// return series, in symbol order.
func (s *Service) CorrelationMatrix(rs portfolio.ReturnSeries) [][]float64 {
	n := len(rs.Symbols)
	obs := mat.NewDense(len(rs.Rows), n, nil)
	for i, row := range rs.Rows {
		obs.SetRow(i, row)
	}

	corr := mat.NewSymDense(n, nil)
	stat.CorrelationMatrix(corr, obs, nil)

	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			out[i][j] = corr.At(i, j)
		}
	}
	return out
}
