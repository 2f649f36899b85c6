package analytics

import (
	"github.com/montanaflynn/stats"

	"studentpulse/pkg/contracts/domain"
)

// WithAverages returns a new slice pairing each record with its average.
// The input slice is left untouched.
func WithAverages(records []domain.StudentRecord) []domain.ScoredStudent {
	scored := make([]domain.ScoredStudent, len(records))
	for i, rec := range records {
		scored[i] = domain.ScoredStudent{
			StudentRecord: rec,
			Average:       mean2(rec.Scores()),
		}
	}
	return scored
}

// mean2 is the arithmetic mean rounded to two decimals. Empty input yields 0.
func mean2(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return round2(m)
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	r, err := stats.Round(v, 2)
	if err != nil {
		return v
	}
	return r
}
