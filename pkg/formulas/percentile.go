package formulas

import "math"

// Percentile computes the linearly interpolated percentile (0-100) of an
// ascending-sorted slice: position p/100·(n−1), interpolated between the two
// neighboring order statistics.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	pos := p / 100.0 * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1.0-frac) + sorted[hi]*frac
}
