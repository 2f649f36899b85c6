package analytics

import (
	"errors"
	"strings"
)

// ErrInvalidDataset is matched by every *ValidationError via errors.Is.
var ErrInvalidDataset = errors.New("invalid dataset")

// ProblemKind classifies a dataset validation failure
type ProblemKind string

const (
	ProblemEmptyDataset     ProblemKind = "EmptyDataset"
	ProblemMissingColumns   ProblemKind = "MissingColumns"
	ProblemNonNumericColumn ProblemKind = "NonNumericColumn"
	ProblemNonIntegerID     ProblemKind = "NonIntegerID"
)

// Problem is a single human-readable validation failure.
type Problem struct {
	Kind    ProblemKind `json:"kind"`
	Columns []string    `json:"columns,omitempty"`
	Message string      `json:"message"`
}

// ValidationError carries every problem found in a rejected dataset.
type ValidationError struct {
	Problems []Problem
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), " | ")
}

// Is makes errors.Is(err, ErrInvalidDataset) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidDataset
}

// Messages returns the problem messages in the order they were found.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Message
	}
	return msgs
}

// HasKind reports whether any problem is of the given kind.
func (e *ValidationError) HasKind(kind ProblemKind) bool {
	for _, p := range e.Problems {
		if p.Kind == kind {
			return true
		}
	}
	return false
}
