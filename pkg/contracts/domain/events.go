package domain

import "time"

// EventAnalysisCompleted is the message type pushed to live clients after a
// successful analysis.
const EventAnalysisCompleted = "analysis:completed"

// AnalysisEvent summarizes a finished analysis for live dashboards. It never
// carries per-student rows.
type AnalysisEvent struct {
	Filename       string    `json:"filename"`
	Digest         string    `json:"digest"`
	TotalStudents  int       `json:"totalStudents"`
	ClassAverage   float64   `json:"classAverage"`
	TopPerformers  int       `json:"topPerformers"`
	AtRiskStudents int       `json:"atRiskStudents"`
	CompletedAt    time.Time `json:"completedAt"`
}
