package analytics

import (
	"math"
	"strconv"
	"strings"

	"studentpulse/pkg/contracts/domain"
)

// Required dataset column names. Matching is exact and case-sensitive.
const (
	ColumnStudentID   = "Student ID"
	ColumnStudentName = "Student Name"
	ColumnAttendance  = "Attendance %"
)

// RequiredColumns lists every column a dataset must carry, in report order.
var RequiredColumns = []string{
	ColumnStudentID,
	ColumnStudentName,
	string(domain.SubjectMath),
	string(domain.SubjectScience),
	string(domain.SubjectEnglish),
	string(domain.SubjectHistory),
	string(domain.SubjectGeography),
	ColumnAttendance,
}

// NumericColumns are the columns whose every value must parse as a number.
var NumericColumns = []string{
	string(domain.SubjectMath),
	string(domain.SubjectScience),
	string(domain.SubjectEnglish),
	string(domain.SubjectHistory),
	string(domain.SubjectGeography),
	ColumnAttendance,
}

// Row maps a column name to the raw cell text.
type Row map[string]string

// Dataset is an in-memory table handed to the engine by an ingestion layer.
// Columns holds the header even when there are no rows.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// NewDataset builds a Dataset from a header and positional records.
// Short records are padded with empty cells; extra cells are dropped.
func NewDataset(header []string, records [][]string) Dataset {
	ds := Dataset{
		Columns: append([]string(nil), header...),
		Rows:    make([]Row, 0, len(records)),
	}
	for _, rec := range records {
		row := make(Row, len(header))
		for i, col := range header {
			if _, dup := row[col]; dup {
				continue
			}
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

// Len returns the number of rows
func (d Dataset) Len() int {
	return len(d.Rows)
}

// HasColumn reports whether the header contains the named column.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// parseNumber parses a cell as a finite float. Empty cells are not numbers.
func parseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseInteger accepts integral values, including forms such as "7.0".
// Both forms share the range of int.
func parseInteger(cell string) (int, bool) {
	s := strings.TrimSpace(cell)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	v, ok := parseNumber(s)
	if !ok || v != math.Trunc(v) || v < float64(math.MinInt) || v >= float64(math.MaxInt) {
		return 0, false
	}
	return int(v), true
}
