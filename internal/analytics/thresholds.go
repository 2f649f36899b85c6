package analytics

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Default cohort thresholds.
const (
	DefaultAtRiskAverage    = 40.0
	DefaultAtRiskAttendance = 75.0
	DefaultTopAverage       = 85.0
	DefaultTopAttendance    = 90.0
)

// Thresholds drive cohort membership.
//
// A student is at risk when Average < AtRiskAverage or Attendance <
// AtRiskAttendance, and a top performer when Average >= TopAverage and
// Attendance >= TopAttendance. The cohorts stay disjoint as long as each
// at-risk bound is no greater than its top bound; Validate enforces that.
type Thresholds struct {
	AtRiskAverage    float64 `json:"atRiskAverage" yaml:"at_risk_average" envconfig:"AT_RISK_AVERAGE" validate:"gte=0,lte=100"`
	AtRiskAttendance float64 `json:"atRiskAttendance" yaml:"at_risk_attendance" envconfig:"AT_RISK_ATTENDANCE" validate:"gte=0,lte=100"`
	TopAverage       float64 `json:"topAverage" yaml:"top_average" envconfig:"TOP_AVERAGE" validate:"gte=0,lte=100"`
	TopAttendance    float64 `json:"topAttendance" yaml:"top_attendance" envconfig:"TOP_ATTENDANCE" validate:"gte=0,lte=100"`
}

// DefaultThresholds returns the standard threshold table
func DefaultThresholds() Thresholds {
	return Thresholds{
		AtRiskAverage:    DefaultAtRiskAverage,
		AtRiskAttendance: DefaultAtRiskAttendance,
		TopAverage:       DefaultTopAverage,
		TopAttendance:    DefaultTopAttendance,
	}
}

var thresholdValidator = validator.New()

// Validate checks bounds and that the two cohorts cannot overlap.
func (t Thresholds) Validate() error {
	if err := thresholdValidator.Struct(t); err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}
	if t.AtRiskAverage > t.TopAverage {
		return fmt.Errorf("invalid thresholds: at-risk average %.2f exceeds top average %.2f", t.AtRiskAverage, t.TopAverage)
	}
	if t.AtRiskAttendance > t.TopAttendance {
		return fmt.Errorf("invalid thresholds: at-risk attendance %.2f exceeds top attendance %.2f", t.AtRiskAttendance, t.TopAttendance)
	}
	return nil
}

// IsAtRisk applies the at-risk predicate.
func (t Thresholds) IsAtRisk(average, attendance float64) bool {
	return average < t.AtRiskAverage || attendance < t.AtRiskAttendance
}

// IsTopPerformer applies the top-performer predicate.
func (t Thresholds) IsTopPerformer(average, attendance float64) bool {
	return average >= t.TopAverage && attendance >= t.TopAttendance
}

// GradeCutoff is an inclusive lower bound for a letter grade.
type GradeCutoff struct {
	Letter string
	Min    float64
}

// FailingGrade is awarded below the lowest cutoff.
const FailingGrade = "F"

// GradeScale holds cutoffs in descending order of Min.
type GradeScale []GradeCutoff

// DefaultGradeScale returns A+ 90, A 80, B 70, C 60, D 50, E 40.
func DefaultGradeScale() GradeScale {
	return GradeScale{
		{Letter: "A+", Min: 90},
		{Letter: "A", Min: 80},
		{Letter: "B", Min: 70},
		{Letter: "C", Min: 60},
		{Letter: "D", Min: 50},
		{Letter: "E", Min: 40},
	}
}

// Grade returns the first letter whose cutoff the average reaches.
func (g GradeScale) Grade(average float64) string {
	for _, c := range g {
		if average >= c.Min {
			return c.Letter
		}
	}
	return FailingGrade
}

// Letters lists every letter the scale can award, best first.
func (g GradeScale) Letters() []string {
	letters := make([]string, 0, len(g)+1)
	for _, c := range g {
		letters = append(letters, c.Letter)
	}
	return append(letters, FailingGrade)
}

// Grade maps an average to a letter using the default scale.
func Grade(average float64) string {
	return defaultScale.Grade(average)
}

var defaultScale = DefaultGradeScale()
