// Package ingest turns uploaded CSV and XLSX bytes into analytics datasets.
package ingest

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/crypto/blake2b"

	"studentpulse/internal/analytics"
)

var (
	// ErrMalformedInput is returned when the bytes cannot be parsed as a table.
	ErrMalformedInput = errors.New("malformed input")
	// ErrUnsupportedFormat is returned for extensions other than .csv and .xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Format is the tabular encoding of an upload
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the format from the file extension, ignoring case.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Source describes the raw upload a dataset was read from.
type Source struct {
	Name   string `json:"name"`
	Format Format `json:"format"`
	Size   int    `json:"size"`
	Digest string `json:"digest"`
}

// Digest returns the hex BLAKE2b-256 sum of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Parse decodes an in-memory upload according to its file name.
func Parse(name string, data []byte) (analytics.Dataset, Source, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return analytics.Dataset{}, Source{}, err
	}

	src := Source{
		Name:   filepath.Base(name),
		Format: format,
		Size:   len(data),
		Digest: Digest(data),
	}

	var ds analytics.Dataset
	switch format {
	case FormatXLSX:
		ds, err = ReadXLSX(bytes.NewReader(data))
	default:
		ds, err = ReadCSV(bytes.NewReader(data))
	}
	if err != nil {
		return analytics.Dataset{}, src, err
	}
	return ds, src, nil
}

// Load reads path from fs and parses it.
func Load(fs afero.Fs, path string) (analytics.Dataset, Source, error) {
	if _, err := DetectFormat(path); err != nil {
		return analytics.Dataset{}, Source{}, err
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return analytics.Dataset{}, Source{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, data)
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}
