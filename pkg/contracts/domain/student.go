package domain

// Subject names a scored subject. The value doubles as the dataset column name.
type Subject string

const (
	SubjectMath      Subject = "Math"
	SubjectScience   Subject = "Science"
	SubjectEnglish   Subject = "English"
	SubjectHistory   Subject = "History"
	SubjectGeography Subject = "Geography"
)

// Subjects lists every scored subject in report order.
var Subjects = []Subject{
	SubjectMath,
	SubjectScience,
	SubjectEnglish,
	SubjectHistory,
	SubjectGeography,
}

// StudentRecord represents one validated row of an uploaded dataset
type StudentRecord struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Math       float64 `json:"math"`
	Science    float64 `json:"science"`
	English    float64 `json:"english"`
	History    float64 `json:"history"`
	Geography  float64 `json:"geography"`
	Attendance float64 `json:"attendance"` // percentage, 0-100 expected but not enforced
}

// Score returns the score recorded for the given subject.
// Unknown subjects score zero.
func (r StudentRecord) Score(s Subject) float64 {
	switch s {
	case SubjectMath:
		return r.Math
	case SubjectScience:
		return r.Science
	case SubjectEnglish:
		return r.English
	case SubjectHistory:
		return r.History
	case SubjectGeography:
		return r.Geography
	default:
		return 0
	}
}

// Scores returns the subject scores in Subjects order
func (r StudentRecord) Scores() []float64 {
	scores := make([]float64, len(Subjects))
	for i, s := range Subjects {
		scores[i] = r.Score(s)
	}
	return scores
}

// ScoredStudent pairs a record with its derived average score.
type ScoredStudent struct {
	StudentRecord
	Average float64 `json:"average"`
}
