package exporter

import (
	"encoding/json"
	"fmt"
	"io"

	"studentpulse/pkg/contracts/domain"
)

// WriteJSON writes the report as indented JSON followed by a newline.
func WriteJSON(w io.Writer, report *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
