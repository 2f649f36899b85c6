package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"studentpulse/internal/analytics"
	"studentpulse/pkg/contracts/domain"
)

// CSVOptions configures CSV writing behavior
type CSVOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// StudentHeaders is the column layout used for student rows in every export.
var StudentHeaders = append(append([]string{}, analytics.RequiredColumns...), "Average", "Grade")

// WriteCSV writes one row per student, ranked by average.
func WriteCSV(w io.Writer, report *domain.Report, opts CSVOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(StudentHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, s := range report.AllStudents {
		if err := writer.Write(studentRecord(s)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func studentRecord(s domain.StudentSummary) []string {
	return []string{
		formatInt(s.ID),
		s.Name,
		formatFloat(s.Math),
		formatFloat(s.Science),
		formatFloat(s.English),
		formatFloat(s.History),
		formatFloat(s.Geography),
		formatFloat(s.Attendance),
		formatFloat(s.Average),
		s.Grade,
	}
}
