package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization base for daily return series.
const TradingDaysPerYear = 252

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// AnnualizedVolatility converts the standard deviation of periodic returns
// to an annual figure: stddev * sqrt(periodsPerYear).
func AnnualizedVolatility(returns []float64, periodsPerYear int) float64 {
	if len(returns) < 2 {
		return 0
	}
	return StdDev(returns) * math.Sqrt(float64(periodsPerYear))
}

// CalculateReturns converts a price series to fractional periodic returns.
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]. Zero prices yield a zero
// return rather than an Inf.
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}
	return returns
}

// Correlation calculates the Pearson correlation coefficient between two series
func Correlation(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	return stat.Correlation(x, y, nil)
}

// MaxDrawdown returns the largest peak-to-trough decline of a price series as
// a positive fraction (0.25 means a 25% loss from the running peak).
func MaxDrawdown(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}

	peak := prices[0]
	maxDD := 0.0
	for _, p := range prices {
		if p > peak {
			peak = p
		}
		if peak > 0 {
			dd := (peak - p) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
