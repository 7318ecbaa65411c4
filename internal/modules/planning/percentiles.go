package planning

import (
	"fmt"
	"sort"

	"github.com/mfcastro/riskdash/pkg/formulas"
)

var finalPercentiles = []float64{5, 10, 25, 50, 75, 90, 95}

// wealthPercentiles builds the per-age percentile trajectories for the
// simulated paths. ages must have the same length as each path.
func wealthPercentiles(paths [][]float64, ages []int) []PercentileRow {
	rows := make([]PercentileRow, len(ages))
	column := make([]float64, len(paths))

	for year, age := range ages {
		for sim, path := range paths {
			column[sim] = path[year]
		}
		sort.Float64s(column)

		rows[year] = PercentileRow{
			Age: age,
			P10: formulas.Percentile(column, 10),
			P25: formulas.Percentile(column, 25),
			P50: formulas.Percentile(column, 50),
			P75: formulas.Percentile(column, 75),
			P90: formulas.Percentile(column, 90),
		}
	}
	return rows
}

// finalDistribution summarizes terminal wealth at p5..p95.
func finalDistribution(paths [][]float64) map[string]float64 {
	finals := make([]float64, len(paths))
	for i, path := range paths {
		finals[i] = path[len(path)-1]
	}
	sort.Float64s(finals)

	dist := make(map[string]float64, len(finalPercentiles))
	for _, p := range finalPercentiles {
		dist[fmt.Sprintf("p%d", int(p))] = formulas.Percentile(finals, p)
	}
	return dist
}

// probabilityOfTarget is the fraction of paths whose terminal wealth meets
// the target. A target of zero or below is trivially met.
func probabilityOfTarget(paths [][]float64, target float64) float64 {
	if target <= 0 {
		return 1.0
	}
	if len(paths) == 0 {
		return 0.0
	}

	met := 0
	for _, path := range paths {
		if path[len(path)-1] >= target {
			met++
		}
	}
	return float64(met) / float64(len(paths))
}
