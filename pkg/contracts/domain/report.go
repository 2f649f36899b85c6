package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Report is the analytics result for one dataset
type Report struct {
	TotalStudents     int               `json:"totalStudents"`
	ClassAverage      float64           `json:"classAverage"`
	HighestAverage    NamedAverage      `json:"highestAverage"`
	LowestAverage     NamedAverage      `json:"lowestAverage"`
	SubjectAverages   SubjectAverages   `json:"subjectAverages"`
	BestSubject       NamedAverage      `json:"bestSubject"`
	WeakestSubject    NamedAverage      `json:"weakestSubject"`
	GradeDistribution GradeDistribution `json:"gradeDistribution"`
	TopPerformers     []StudentSummary  `json:"topPerformers"`
	AtRiskStudents    []StudentSummary  `json:"atRiskStudents"`
	AllStudents       []StudentSummary  `json:"allStudents"`
}

// StudentSummary is the per-student view used in every report list
type StudentSummary struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Math       float64 `json:"math"`
	Science    float64 `json:"science"`
	English    float64 `json:"english"`
	History    float64 `json:"history"`
	Geography  float64 `json:"geography"`
	Attendance float64 `json:"attendance"`
	Average    float64 `json:"average"`
	Grade      string  `json:"grade"`
}

// NamedAverage pairs a student or subject name with an average
type NamedAverage struct {
	Name    string  `json:"name"`
	Average float64 `json:"average"`
}

// SubjectAverage is the class mean for one subject
type SubjectAverage struct {
	Subject Subject
	Average float64
}

// SubjectAverages keeps subject order stable. It encodes as a JSON object
// whose keys follow slice order, so repeated encodings are byte-identical.
type SubjectAverages []SubjectAverage

// Get returns the average for a subject and whether it was present.
func (s SubjectAverages) Get(subject Subject) (float64, bool) {
	for _, sa := range s {
		if sa.Subject == subject {
			return sa.Average, true
		}
	}
	return 0, false
}

// MarshalJSON implements json.Marshaler
func (s SubjectAverages) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return marshalOrdered(len(s), func(i int) (string, interface{}) {
		return string(s[i].Subject), s[i].Average
	})
}

// UnmarshalJSON implements json.Unmarshaler, preserving key order
func (s *SubjectAverages) UnmarshalJSON(data []byte) error {
	out := SubjectAverages{}
	err := unmarshalOrdered(data, func(key string, dec *json.Decoder) error {
		var v float64
		if err := dec.Decode(&v); err != nil {
			return err
		}
		out = append(out, SubjectAverage{Subject: Subject(key), Average: v})
		return nil
	})
	if err != nil {
		return fmt.Errorf("decode subject averages: %w", err)
	}
	*s = out
	return nil
}

// GradeCount is the number of students holding a letter grade
type GradeCount struct {
	Grade string
	Count int
}

// GradeDistribution lists counts per grade from best to worst.
type GradeDistribution []GradeCount

// Count returns the number of students with the given grade.
func (g GradeDistribution) Count(grade string) int {
	for _, gc := range g {
		if gc.Grade == grade {
			return gc.Count
		}
	}
	return 0
}

// MarshalJSON implements json.Marshaler
func (g GradeDistribution) MarshalJSON() ([]byte, error) {
	if g == nil {
		return []byte("{}"), nil
	}
	return marshalOrdered(len(g), func(i int) (string, interface{}) {
		return g[i].Grade, g[i].Count
	})
}

// UnmarshalJSON implements json.Unmarshaler, preserving key order
func (g *GradeDistribution) UnmarshalJSON(data []byte) error {
	out := GradeDistribution{}
	err := unmarshalOrdered(data, func(key string, dec *json.Decoder) error {
		var v int
		if err := dec.Decode(&v); err != nil {
			return err
		}
		out = append(out, GradeCount{Grade: key, Count: v})
		return nil
	})
	if err != nil {
		return fmt.Errorf("decode grade distribution: %w", err)
	}
	*g = out
	return nil
}

func marshalOrdered(n int, entry func(i int) (string, interface{})) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, v := entry(i)
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func unmarshalOrdered(data []byte, field func(key string, dec *json.Decoder) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := field(key, dec); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}
	_, err = dec.Token()
	return err
}
