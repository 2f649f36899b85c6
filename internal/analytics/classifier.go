package analytics

import (
	"studentpulse/pkg/contracts/domain"
)

// AtRisk returns the students matching the at-risk predicate, in input order.
func AtRisk(scored []domain.ScoredStudent, t Thresholds) []domain.ScoredStudent {
	return filter(scored, func(s domain.ScoredStudent) bool {
		return t.IsAtRisk(s.Average, s.Attendance)
	})
}

// TopPerformers returns the students matching the top-performer predicate, in input order.
func TopPerformers(scored []domain.ScoredStudent, t Thresholds) []domain.ScoredStudent {
	return filter(scored, func(s domain.ScoredStudent) bool {
		return t.IsTopPerformer(s.Average, s.Attendance)
	})
}

func filter(scored []domain.ScoredStudent, keep func(domain.ScoredStudent) bool) []domain.ScoredStudent {
	out := make([]domain.ScoredStudent, 0)
	for _, s := range scored {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// SubjectAverages returns the rounded class mean of every subject.
func SubjectAverages(scored []domain.ScoredStudent) domain.SubjectAverages {
	avgs := make(domain.SubjectAverages, 0, len(domain.Subjects))
	for _, subj := range domain.Subjects {
		values := make([]float64, len(scored))
		for i, s := range scored {
			values[i] = s.Score(subj)
		}
		avgs = append(avgs, domain.SubjectAverage{Subject: subj, Average: mean2(values)})
	}
	return avgs
}

// ClassAverage is the rounded mean of the per-student averages.
func ClassAverage(scored []domain.ScoredStudent) float64 {
	values := make([]float64, len(scored))
	for i, s := range scored {
		values[i] = s.Average
	}
	return mean2(values)
}

// Highest returns the student with the greatest average. Ties go to the
// earliest row. ok is false for an empty slice.
func Highest(scored []domain.ScoredStudent) (best domain.ScoredStudent, ok bool) {
	return extreme(scored, func(a, b float64) bool { return a > b })
}

// Lowest returns the student with the smallest average. Ties go to the
// earliest row. ok is false for an empty slice.
func Lowest(scored []domain.ScoredStudent) (worst domain.ScoredStudent, ok bool) {
	return extreme(scored, func(a, b float64) bool { return a < b })
}

func extreme(scored []domain.ScoredStudent, better func(a, b float64) bool) (domain.ScoredStudent, bool) {
	if len(scored) == 0 {
		return domain.ScoredStudent{}, false
	}
	pick := scored[0]
	for _, s := range scored[1:] {
		if better(s.Average, pick.Average) {
			pick = s
		}
	}
	return pick, true
}

// BestSubject returns the subject with the highest class average.
func BestSubject(avgs domain.SubjectAverages) (domain.SubjectAverage, bool) {
	return extremeSubject(avgs, func(a, b float64) bool { return a > b })
}

// WorstSubject returns the subject with the lowest class average.
func WorstSubject(avgs domain.SubjectAverages) (domain.SubjectAverage, bool) {
	return extremeSubject(avgs, func(a, b float64) bool { return a < b })
}

func extremeSubject(avgs domain.SubjectAverages, better func(a, b float64) bool) (domain.SubjectAverage, bool) {
	if len(avgs) == 0 {
		return domain.SubjectAverage{}, false
	}
	pick := avgs[0]
	for _, sa := range avgs[1:] {
		if better(sa.Average, pick.Average) {
			pick = sa
		}
	}
	return pick, true
}

// Distribution counts students per letter grade. Every letter of the scale
// appears, best first, even when its count is zero.
func Distribution(scored []domain.ScoredStudent, scale GradeScale) domain.GradeDistribution {
	counts := make(map[string]int)
	for _, s := range scored {
		counts[scale.Grade(s.Average)]++
	}
	letters := scale.Letters()
	dist := make(domain.GradeDistribution, 0, len(letters))
	for _, l := range letters {
		dist = append(dist, domain.GradeCount{Grade: l, Count: counts[l]})
	}
	return dist
}
