package scgp

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// NullThreshold returns the (1-alpha) percentile of the permuted-null
// statistic ShuffD. Genes whose D exceeds it are called bifurcating at
// level alpha.
func NullThreshold(rows []GeneStatistics, alpha float64) (float64, error) {
	if alpha <= 0 || alpha >= 1 {
		return 0, fmt.Errorf("alpha %v must be in (0, 1)", alpha)
	}

	null := make([]float64, len(rows))
	for i, row := range rows {
		null[i] = row.ShuffD
	}

	return stats.Percentile(null, 100*(1-alpha))
}

// EstimateFDR estimates the false discovery rate of calling every gene with
// D >= threshold bifurcating, as the number of null statistics above the
// threshold over the number of calls.
func EstimateFDR(rows []GeneStatistics, threshold float64) float64 {
	var calls, nulls int

	for _, row := range rows {
		if row.D >= threshold {
			calls++
		}

		if row.ShuffD >= threshold {
			nulls++
		}
	}

	if calls == 0 {
		calls = 1
	}

	return float64(nulls) / float64(calls)
}

// Significant returns the genes whose D exceeds NullThreshold(rows, alpha),
// in input order.
func Significant(rows []GeneStatistics, alpha float64) ([]GeneStatistics, error) {
	threshold, err := NullThreshold(rows, alpha)
	if err != nil {
		return nil, err
	}

	var out []GeneStatistics

	for _, row := range rows {
		if row.D > threshold {
			out = append(out, row)
		}
	}

	return out, nil
}
