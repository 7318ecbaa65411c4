package portfolio

// Normalize projects raw weights onto a sum-to-one vector. An all-zero input
// falls back to the uniform vector 1/n; this is a documented degenerate-input
// policy, not an error. Negative raw inputs are passed through unmodified, so
// a net-negative manual allocation stays net-negative after rescaling.
func Normalize(raw []float64) []float64 {
	n := len(raw)
	if n == 0 {
		return nil
	}

	sum := 0.0
	for _, w := range raw {
		sum += w
	}

	out := make([]float64, n)
	if sum == 0 {
		uniform := 1.0 / float64(n)
		for i := range out {
			out[i] = uniform
		}
		return out
	}

	for i, w := range raw {
		out[i] = w / sum
	}
	return out
}

// Uniform returns the equal-weight vector 1/n.
func Uniform(n int) []float64 {
	if n == 0 {
		return nil
	}
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0 / float64(n)
	}
	return w
}
