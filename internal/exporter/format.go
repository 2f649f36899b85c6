package exporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"studentpulse/pkg/contracts/domain"
)

// Format names an export encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported export formats
var Formats = []Format{FormatJSON, FormatCSV, FormatXLSX}

// ParseFormat accepts a format name in any case.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", name)
}

// ContentType returns the media type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Write encodes report to w in the given format.
func Write(w io.Writer, format Format, report *domain.Report) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, report)
	case FormatCSV:
		return WriteCSV(w, report, CSVOptions{})
	case FormatXLSX:
		return WriteXLSX(w, report)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// formatFloat formats a float64 value with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}
