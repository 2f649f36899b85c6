package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"studentpulse/internal/analytics"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads a header row followed by data rows. Input without a header
// row and rows wider than the header are malformed.
func ReadCSV(r io.Reader) (analytics.Dataset, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return analytics.Dataset{}, malformed("file has no header row")
	}
	if err != nil {
		return analytics.Dataset{}, malformed("failed to read CSV header: %v", err)
	}
	header = trimHeader(header)

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return analytics.Dataset{}, malformed("failed to read CSV row: %v", err)
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return analytics.Dataset{}, malformed("line %d has %d fields, header has %d", line, len(record), len(header))
		}
		records = append(records, record)
	}

	return analytics.NewDataset(header, records), nil
}

func trimHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	return out
}
