package analytics

import (
	"fmt"
	"strings"

	"studentpulse/pkg/contracts/domain"
)

// Validation messages returned to callers verbatim.
const (
	msgEmptyDataset   = "The uploaded dataset is empty."
	msgMissingColumns = "Missing required columns: %s"
	msgNonNumeric     = "Column '%s' contains non-numeric values."
	msgNonIntegerID   = "Column '%s' contains non-integer values."
)

// Validate inspects a dataset and returns one message per problem found.
// An empty result means the dataset can be analyzed.
func Validate(ds Dataset) []string {
	problems := validateProblems(ds)
	msgs := make([]string, 0, len(problems))
	for _, p := range problems {
		msgs = append(msgs, p.Message)
	}
	return msgs
}

// ValidateDataset is Validate in error form. It returns nil or a *ValidationError.
func ValidateDataset(ds Dataset) error {
	if problems := validateProblems(ds); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func validateProblems(ds Dataset) []Problem {
	if ds.Len() == 0 {
		return []Problem{{Kind: ProblemEmptyDataset, Message: msgEmptyDataset}}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !ds.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return []Problem{{
			Kind:    ProblemMissingColumns,
			Columns: missing,
			Message: fmt.Sprintf(msgMissingColumns, strings.Join(missing, ", ")),
		}}
	}

	var problems []Problem
	for _, col := range NumericColumns {
		if !columnAll(ds, col, func(cell string) bool {
			_, ok := parseNumber(cell)
			return ok
		}) {
			problems = append(problems, Problem{
				Kind:    ProblemNonNumericColumn,
				Columns: []string{col},
				Message: fmt.Sprintf(msgNonNumeric, col),
			})
		}
	}
	if !columnAll(ds, ColumnStudentID, func(cell string) bool {
		_, ok := parseInteger(cell)
		return ok
	}) {
		problems = append(problems, Problem{
			Kind:    ProblemNonIntegerID,
			Columns: []string{ColumnStudentID},
			Message: fmt.Sprintf(msgNonIntegerID, ColumnStudentID),
		})
	}
	return problems
}

func columnAll(ds Dataset, col string, ok func(string) bool) bool {
	for _, row := range ds.Rows {
		if !ok(row[col]) {
			return false
		}
	}
	return true
}

// ParseRecords validates the dataset and converts it into typed records.
func ParseRecords(ds Dataset) ([]domain.StudentRecord, error) {
	if err := ValidateDataset(ds); err != nil {
		return nil, err
	}

	records := make([]domain.StudentRecord, 0, ds.Len())
	for _, row := range ds.Rows {
		id, _ := parseInteger(row[ColumnStudentID])
		rec := domain.StudentRecord{
			ID:   id,
			Name: strings.TrimSpace(row[ColumnStudentName]),
		}
		rec.Math, _ = parseNumber(row[string(domain.SubjectMath)])
		rec.Science, _ = parseNumber(row[string(domain.SubjectScience)])
		rec.English, _ = parseNumber(row[string(domain.SubjectEnglish)])
		rec.History, _ = parseNumber(row[string(domain.SubjectHistory)])
		rec.Geography, _ = parseNumber(row[string(domain.SubjectGeography)])
		rec.Attendance, _ = parseNumber(row[ColumnAttendance])
		records = append(records, rec)
	}
	return records, nil
}
