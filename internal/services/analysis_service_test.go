package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"studentpulse/internal/analytics"
	"studentpulse/internal/infrastructure"
	"studentpulse/internal/ingest"
	"studentpulse/pkg/contracts/domain"
)

const classCSV = "Student ID,Student Name,Math,Science,English,History,Geography,Attendance %\n" +
	"1,Ana,92,88,95,90,91,96\n" +
	"2,Ben,35,40,38,30,42,80\n" +
	"3,Cleo,75,70,72,68,71,70\n"

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []domain.AnalysisEvent
}

func (b *recordingBroadcaster) BroadcastAnalysis(_ context.Context, e domain.AnalysisEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newService(t *testing.T, maxBytes int64, opts ...AnalysisOption) *AnalysisService {
	t.Helper()
	engine, err := analytics.NewEngine(analytics.WithLogger(discardLogger()))
	require.NoError(t, err)
	return NewAnalysisService(engine, maxBytes, discardLogger(), opts...)
}

func TestAnalysisService_Analyze(t *testing.T) {
	b := &recordingBroadcaster{}
	svc := newService(t, 1<<20, WithBroadcaster(b))

	result, err := svc.Analyze(context.Background(), Upload{Filename: "class.csv", Data: []byte(classCSV)})
	require.NoError(t, err)

	assert.Equal(t, "class.csv", result.Source.Name)
	assert.Equal(t, ingest.Digest([]byte(classCSV)), result.Source.Digest)
	assert.Equal(t, 3, result.Report.TotalStudents)
	assert.Len(t, result.Report.TopPerformers, 1)
	assert.Len(t, result.Report.AtRiskStudents, 2)

	require.Len(t, b.events, 1)
	assert.Equal(t, "class.csv", b.events[0].Filename)
	assert.Equal(t, 3, b.events[0].TotalStudents)
	assert.Equal(t, 2, b.events[0].AtRiskStudents)
}

func TestAnalysisService_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		upload Upload
		check  func(t *testing.T, err error)
	}{
		{
			name:   "empty filename",
			upload: Upload{Filename: "", Data: []byte(classCSV)},
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNoFileSelected) },
		},
		{
			name:   "unsupported extension",
			upload: Upload{Filename: "class.pdf", Data: []byte(classCSV)},
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ingest.ErrUnsupportedFormat) },
		},
		{
			name:   "too large",
			upload: Upload{Filename: "class.csv", Data: []byte(classCSV + strings.Repeat("9,Zed,1,1,1,1,1,1\n", 100))},
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrUploadTooLarge) },
		},
		{
			name:   "zero bytes",
			upload: Upload{Filename: "class.csv", Data: nil},
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ingest.ErrMalformedInput) },
		},
		{
			name:   "malformed",
			upload: Upload{Filename: "class.csv", Data: []byte("a,b\n1,2,3\n")},
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ingest.ErrMalformedInput) },
		},
		{
			name:   "invalid dataset",
			upload: Upload{Filename: "class.csv", Data: []byte("Student ID,Student Name\n1,Ana\n")},
			check: func(t *testing.T, err error) {
				var verr *analytics.ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, []string{
					"Missing required columns: Math, Science, English, History, Geography, Attendance %",
				}, verr.Messages())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &recordingBroadcaster{}
			svc := newService(t, 512, WithBroadcaster(b))

			result, err := svc.Analyze(context.Background(), tt.upload)
			assert.Nil(t, result)
			require.Error(t, err)
			tt.check(t, err)
			assert.Empty(t, b.events, "failures must not be broadcast")
		})
	}
}

func TestAnalysisService_ConcurrentUploadsAreIsolated(t *testing.T) {
	svc := newService(t, 1<<20)

	uploads := []string{
		classCSV,
		"Student ID,Student Name,Math,Science,English,History,Geography,Attendance %\n7,Solo,50,50,50,50,50,90\n",
	}

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data := uploads[i%2]
			result, err := svc.Analyze(context.Background(), Upload{Filename: "u.csv", Data: []byte(data)})
			if err != nil {
				errs <- err
				return
			}
			want := 3
			if i%2 == 1 {
				want = 1
			}
			if result.Report.TotalStudents != want {
				errs <- errors.New("report mixed up between uploads")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestAnalysisService_RecordsOutcomes(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := infrastructure.NewAnalysisMetrics(provider.Meter("test"))
	require.NoError(t, err)

	svc := newService(t, 1<<20, WithMetrics(metrics))
	ctx := context.Background()
	_, err = svc.Analyze(ctx, Upload{Filename: "a.csv", Data: []byte(classCSV)})
	require.NoError(t, err)
	_, err = svc.Analyze(ctx, Upload{Filename: "a.csv", Data: []byte("Student ID\n1\n")})
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "analyses_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
				counts[outcome.AsString()] = dp.Value
			}
		}
	}
	assert.Equal(t, map[string]int64{
		infrastructure.OutcomeSuccess:  1,
		infrastructure.OutcomeRejected: 1,
	}, counts)
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, infrastructure.OutcomeSuccess, outcomeOf(nil))
	assert.Equal(t, infrastructure.OutcomeRejected, outcomeOf(ErrUploadTooLarge))
	assert.Equal(t, infrastructure.OutcomeRejected, outcomeOf(&analytics.ValidationError{}))
	assert.Equal(t, infrastructure.OutcomeError, outcomeOf(context.DeadlineExceeded))
}
