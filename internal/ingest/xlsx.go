package ingest

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"studentpulse/internal/analytics"
)

// ReadXLSX reads the stored cell values of the first worksheet, ignoring
// number formats. The first row is the header; fully blank rows are skipped.
// A sheet with no rows at all is malformed.
func ReadXLSX(r io.Reader) (analytics.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return analytics.Dataset{}, malformed("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return analytics.Dataset{}, malformed("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return analytics.Dataset{}, malformed("failed to read sheet %q: %v", sheets[0], err)
	}
	if len(rows) == 0 {
		return analytics.Dataset{}, malformed("sheet %q has no header row", sheets[0])
	}

	header := trimHeader(rows[0])
	var records [][]string
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		if len(row) > len(header) {
			// trailing cells beyond the header are tolerated only when empty
			if !blank(row[len(header):]) {
				return analytics.Dataset{}, malformed("row has %d cells, header has %d", len(row), len(header))
			}
			row = row[:len(header)]
		}
		records = append(records, row)
	}
	return analytics.NewDataset(header, records), nil
}

func blank(cells []string) bool {
	for _, v := range cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
