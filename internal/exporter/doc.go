// Package exporter renders analysis reports as JSON, CSV or XLSX.
//
// CSV output lists every student ranked by average with numbers written to
// exactly two decimal places, optionally prefixed with a UTF-8 BOM so Excel
// detects the encoding. XLSX output is a workbook with one sheet per report
// section.
//
// Example usage:
//
//	report, _ := engine.Analyze(ctx, ds)
//	err := exporter.Write(os.Stdout, exporter.FormatCSV, report)
package exporter
