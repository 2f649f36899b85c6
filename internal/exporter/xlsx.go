package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"studentpulse/pkg/contracts/domain"
)

// Workbook sheet names
const (
	SheetSummary  = "Summary"
	SheetStudents = "Students"
	SheetTop      = "Top Performers"
	SheetAtRisk   = "At Risk"
)

// WriteXLSX writes the report as a workbook with a summary sheet and one
// sheet per student list.
func WriteXLSX(w io.Writer, report *domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := writeRows(f, SheetSummary, summaryRows(report)); err != nil {
		return err
	}

	lists := []struct {
		sheet    string
		students []domain.StudentSummary
	}{
		{SheetStudents, report.AllStudents},
		{SheetTop, report.TopPerformers},
		{SheetAtRisk, report.AtRiskStudents},
	}
	for _, list := range lists {
		if _, err := f.NewSheet(list.sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", list.sheet, err)
		}
		rows := make([][]interface{}, 0, len(list.students)+1)
		rows = append(rows, toRow(StudentHeaders))
		for _, s := range list.students {
			rows = append(rows, []interface{}{
				s.ID, s.Name, s.Math, s.Science, s.English, s.History, s.Geography,
				s.Attendance, s.Average, s.Grade,
			})
		}
		if err := writeRows(f, list.sheet, rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func summaryRows(report *domain.Report) [][]interface{} {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Students", report.TotalStudents},
		{"Class Average", report.ClassAverage},
		{"Highest Average", fmt.Sprintf("%s (%s)", report.HighestAverage.Name, formatFloat(report.HighestAverage.Average))},
		{"Lowest Average", fmt.Sprintf("%s (%s)", report.LowestAverage.Name, formatFloat(report.LowestAverage.Average))},
		{"Best Subject", fmt.Sprintf("%s (%s)", report.BestSubject.Name, formatFloat(report.BestSubject.Average))},
		{"Weakest Subject", fmt.Sprintf("%s (%s)", report.WeakestSubject.Name, formatFloat(report.WeakestSubject.Average))},
		{"Top Performers", len(report.TopPerformers)},
		{"At Risk", len(report.AtRiskStudents)},
		{},
		{"Subject", "Average"},
	}
	for _, sa := range report.SubjectAverages {
		rows = append(rows, []interface{}{string(sa.Subject), sa.Average})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Grade", "Students"})
	for _, gc := range report.GradeDistribution {
		rows = append(rows, []interface{}{gc.Grade, gc.Count})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toRow(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
