package analytics

import (
	"sort"

	"studentpulse/pkg/contracts/domain"
)

// Summarize turns scored students into report summaries, keeping their order.
func Summarize(scored []domain.ScoredStudent, scale GradeScale) []domain.StudentSummary {
	out := make([]domain.StudentSummary, 0, len(scored))
	for _, s := range scored {
		out = append(out, domain.StudentSummary{
			ID:         s.ID,
			Name:       s.Name,
			Math:       s.Math,
			Science:    s.Science,
			English:    s.English,
			History:    s.History,
			Geography:  s.Geography,
			Attendance: s.Attendance,
			Average:    s.Average,
			Grade:      scale.Grade(s.Average),
		})
	}
	return out
}

// RankByAverage returns a copy sorted by average descending. Equal averages
// keep their input order.
func RankByAverage(scored []domain.ScoredStudent) []domain.ScoredStudent {
	ranked := append([]domain.ScoredStudent(nil), scored...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Average > ranked[j].Average
	})
	return ranked
}

// BuildReport assembles the full report from averaged students.
func BuildReport(scored []domain.ScoredStudent, t Thresholds, scale GradeScale) *domain.Report {
	subjects := SubjectAverages(scored)

	report := &domain.Report{
		TotalStudents:     len(scored),
		ClassAverage:      ClassAverage(scored),
		SubjectAverages:   subjects,
		GradeDistribution: Distribution(scored, scale),
		TopPerformers:     Summarize(TopPerformers(scored, t), scale),
		AtRiskStudents:    Summarize(AtRisk(scored, t), scale),
		AllStudents:       Summarize(RankByAverage(scored), scale),
	}

	if hi, ok := Highest(scored); ok {
		report.HighestAverage = domain.NamedAverage{Name: hi.Name, Average: hi.Average}
	}
	if lo, ok := Lowest(scored); ok {
		report.LowestAverage = domain.NamedAverage{Name: lo.Name, Average: lo.Average}
	}
	if best, ok := BestSubject(subjects); ok {
		report.BestSubject = domain.NamedAverage{Name: string(best.Subject), Average: best.Average}
	}
	if worst, ok := WorstSubject(subjects); ok {
		report.WeakestSubject = domain.NamedAverage{Name: string(worst.Subject), Average: worst.Average}
	}

	return report
}
