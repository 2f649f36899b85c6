package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"studentpulse/pkg/contracts/domain"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	engine, err := NewEngine(opts...)
	require.NoError(t, err)
	return engine
}

func TestEngine_Analyze_PerfectStudent(t *testing.T) {
	engine := newTestEngine(t)
	ds := studentDataset([]string{"1", "A", "100", "100", "100", "100", "100", "100"})

	report, err := engine.Analyze(context.Background(), ds)
	require.NoError(t, err)

	want := domain.StudentSummary{
		ID: 1, Name: "A",
		Math: 100, Science: 100, English: 100, History: 100, Geography: 100,
		Attendance: 100, Average: 100, Grade: "A+",
	}
	assert.Equal(t, 1, report.TotalStudents)
	assert.Equal(t, []domain.StudentSummary{want}, report.TopPerformers)
	assert.Empty(t, report.AtRiskStudents)
	assert.Equal(t, []domain.StudentSummary{want}, report.AllStudents)
	assert.Equal(t, domain.NamedAverage{Name: "A", Average: 100}, report.HighestAverage)
	assert.Equal(t, domain.NamedAverage{Name: "A", Average: 100}, report.LowestAverage)
	assert.Equal(t, 100.0, report.ClassAverage)
}

func TestEngine_Analyze_FailingStudent(t *testing.T) {
	engine := newTestEngine(t)
	ds := studentDataset([]string{"7", "B", "20", "20", "20", "20", "20", "50"})

	report, err := engine.Analyze(context.Background(), ds)
	require.NoError(t, err)

	require.Len(t, report.AtRiskStudents, 1)
	assert.Equal(t, 20.0, report.AtRiskStudents[0].Average)
	assert.Equal(t, "F", report.AtRiskStudents[0].Grade)
	assert.Empty(t, report.TopPerformers)
}

func TestEngine_Analyze_Rejections(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name string
		ds   Dataset
		want []string
	}{
		{
			name: "missing science",
			ds: NewDataset(without(RequiredColumns, "Science"),
				[][]string{{"1", "A", "90", "70", "60", "50", "95"}}),
			want: []string{"Missing required columns: Science"},
		},
		{
			name: "attendance not a number",
			ds:   studentDataset([]string{"1", "A", "90", "80", "70", "60", "50", "N/A"}),
			want: []string{"Column 'Attendance %' contains non-numeric values."},
		},
		{
			name: "empty",
			ds:   studentDataset(),
			want: []string{"The uploaded dataset is empty."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := engine.Analyze(context.Background(), tt.ds)
			assert.Nil(t, report)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.want, verr.Messages())
		})
	}
}

func classDataset() Dataset {
	return studentDataset(
		[]string{"1", "Ana", "92", "88", "95", "90", "91", "96"},
		[]string{"2", "Ben", "35", "40", "38", "30", "42", "80"},
		[]string{"3", "Cleo", "75", "70", "72", "68", "71", "70"},
		[]string{"4", "Dev", "88", "86", "84", "87", "85", "91"},
		[]string{"5", "Eli", "75", "70", "72", "68", "71", "99"},
		[]string{"6", "Fay", "60", "65", "58", "62", "55", "85"},
	)
}

func TestEngine_Analyze_Class(t *testing.T) {
	engine := newTestEngine(t)

	report, err := engine.Analyze(context.Background(), classDataset())
	require.NoError(t, err)

	// averages: Ana 91.2, Ben 37, Cleo 71.2, Dev 86, Eli 71.2, Fay 60
	want := &domain.Report{
		TotalStudents:  6,
		ClassAverage:   69.43,
		HighestAverage: domain.NamedAverage{Name: "Ana", Average: 91.2},
		LowestAverage:  domain.NamedAverage{Name: "Ben", Average: 37},
		SubjectAverages: domain.SubjectAverages{
			{Subject: domain.SubjectMath, Average: 70.83},
			{Subject: domain.SubjectScience, Average: 69.83},
			{Subject: domain.SubjectEnglish, Average: 69.83},
			{Subject: domain.SubjectHistory, Average: 67.5},
			{Subject: domain.SubjectGeography, Average: 69.17},
		},
		BestSubject:    domain.NamedAverage{Name: "Math", Average: 70.83},
		WeakestSubject: domain.NamedAverage{Name: "History", Average: 67.5},
		GradeDistribution: domain.GradeDistribution{
			{Grade: "A+", Count: 1},
			{Grade: "A", Count: 1},
			{Grade: "B", Count: 2},
			{Grade: "C", Count: 1},
			{Grade: "D", Count: 0},
			{Grade: "E", Count: 0},
			{Grade: "F", Count: 1},
		},
		TopPerformers: []domain.StudentSummary{
			{ID: 1, Name: "Ana", Math: 92, Science: 88, English: 95, History: 90, Geography: 91, Attendance: 96, Average: 91.2, Grade: "A+"},
			{ID: 4, Name: "Dev", Math: 88, Science: 86, English: 84, History: 87, Geography: 85, Attendance: 91, Average: 86, Grade: "A"},
		},
		AtRiskStudents: []domain.StudentSummary{
			{ID: 2, Name: "Ben", Math: 35, Science: 40, English: 38, History: 30, Geography: 42, Attendance: 80, Average: 37, Grade: "F"},
			{ID: 3, Name: "Cleo", Math: 75, Science: 70, English: 72, History: 68, Geography: 71, Attendance: 70, Average: 71.2, Grade: "B"},
		},
		AllStudents: []domain.StudentSummary{
			{ID: 1, Name: "Ana", Math: 92, Science: 88, English: 95, History: 90, Geography: 91, Attendance: 96, Average: 91.2, Grade: "A+"},
			{ID: 4, Name: "Dev", Math: 88, Science: 86, English: 84, History: 87, Geography: 85, Attendance: 91, Average: 86, Grade: "A"},
			{ID: 3, Name: "Cleo", Math: 75, Science: 70, English: 72, History: 68, Geography: 71, Attendance: 70, Average: 71.2, Grade: "B"},
			{ID: 5, Name: "Eli", Math: 75, Science: 70, English: 72, History: 68, Geography: 71, Attendance: 99, Average: 71.2, Grade: "B"},
			{ID: 6, Name: "Fay", Math: 60, Science: 65, English: 58, History: 62, Geography: 55, Attendance: 85, Average: 60, Grade: "C"},
			{ID: 2, Name: "Ben", Math: 35, Science: 40, English: 38, History: 30, Geography: 42, Attendance: 80, Average: 37, Grade: "F"},
		},
	}

	if diff := cmp.Diff(want, report); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_Analyze_AllStudentsIsStablePermutation(t *testing.T) {
	engine := newTestEngine(t)
	var records [][]string
	for i := 1; i <= 40; i++ {
		score := fmt.Sprintf("%d", (i*37)%101)
		records = append(records, []string{fmt.Sprint(i), fmt.Sprintf("s%d", i), score, score, score, score, score, "90"})
	}

	report, err := engine.Analyze(context.Background(), studentDataset(records...))
	require.NoError(t, err)
	require.Len(t, report.AllStudents, 40)

	assert.True(t, sort.SliceIsSorted(report.AllStudents, func(i, j int) bool {
		return report.AllStudents[i].Average > report.AllStudents[j].Average
	}))

	seen := make(map[int]bool)
	for i, s := range report.AllStudents {
		assert.False(t, seen[s.ID])
		seen[s.ID] = true
		if i > 0 && report.AllStudents[i-1].Average == s.Average {
			assert.Less(t, report.AllStudents[i-1].ID, s.ID, "ties must keep input order")
		}
	}
	assert.Len(t, seen, 40)
}

func TestEngine_Analyze_Idempotent(t *testing.T) {
	engine := newTestEngine(t)
	ds := classDataset()

	first, err := engine.Analyze(context.Background(), ds)
	require.NoError(t, err)
	second, err := engine.Analyze(context.Background(), ds)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestEngine_Analyze_JSONShape(t *testing.T) {
	engine := newTestEngine(t)
	report, err := engine.Analyze(context.Background(),
		studentDataset([]string{"3", "Zed", "50", "50", "50", "50", "50", "80"}))
	require.NoError(t, err)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{
		"totalStudents", "classAverage", "highestAverage", "lowestAverage",
		"subjectAverages", "topPerformers", "atRiskStudents", "allStudents",
	} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, []interface{}{}, decoded["topPerformers"])
	assert.Equal(t, []interface{}{}, decoded["atRiskStudents"])
}

func TestEngine_CustomThresholds(t *testing.T) {
	engine := newTestEngine(t, WithThresholds(Thresholds{
		AtRiskAverage: 50, AtRiskAttendance: 60, TopAverage: 70, TopAttendance: 80,
	}))

	report, err := engine.Analyze(context.Background(), studentDataset(
		[]string{"1", "a", "45", "45", "45", "45", "45", "95"},
		[]string{"2", "b", "72", "72", "72", "72", "72", "85"},
	))
	require.NoError(t, err)
	assert.Equal(t, "a", report.AtRiskStudents[0].Name)
	assert.Equal(t, "b", report.TopPerformers[0].Name)
}

func TestNewEngine_RejectsBadConfiguration(t *testing.T) {
	_, err := NewEngine(WithThresholds(Thresholds{AtRiskAverage: 95, AtRiskAttendance: 75, TopAverage: 85, TopAttendance: 90}))
	assert.Error(t, err)

	_, err = NewEngine(WithGradeScale(GradeScale{{Letter: "A", Min: 50}, {Letter: "B", Min: 60}}))
	assert.Error(t, err)
}

func TestEngine_Analyze_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer provider.Shutdown(context.Background())

	engine := newTestEngine(t, WithTracer(provider.Tracer("test")), WithLogger(slog.Default()))
	_, err := engine.Analyze(context.Background(), classDataset())
	require.NoError(t, err)

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	assert.ElementsMatch(t, []string{
		"analytics.validate", "analytics.averages", "analytics.report", "analytics.analyze",
	}, names)
}
