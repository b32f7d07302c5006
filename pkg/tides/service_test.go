package tides

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samalone/trmnl-tides/pkg/cache"
	"github.com/samalone/trmnl-tides/pkg/noaa"
)

type mockFetcher struct {
	latest    []noaa.Reading
	latestErr error
	hilo      []noaa.Extremum
	hiloErr   error

	stations []string
	begin    time.Time
}

func (m *mockFetcher) Latest(_ context.Context, station string) ([]noaa.Reading, error) {
	m.stations = append(m.stations, station)
	return m.latest, m.latestErr
}

func (m *mockFetcher) HighLow(_ context.Context, station string, begin time.Time) ([]noaa.Extremum, error) {
	m.stations = append(m.stations, station)
	m.begin = begin
	return m.hilo, m.hiloErr
}

var fixedNow = time.Date(2025, time.January, 2, 14, 27, 45, 0, time.UTC)

func newTestService(f *mockFetcher) *Service {
	svc := NewService(f, cache.NewZones(8, time.Hour))
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func goodFetcher() *mockFetcher {
	return &mockFetcher{
		latest: []noaa.Reading{
			{Time: civil("2025-01-02 14:18"), Height: 4.301},
			{Time: civil("2025-01-02 14:24"), Height: 4.415},
		},
		hilo: []noaa.Extremum{
			{Time: civil("2025-01-02 14:40"), Height: 4.52, Type: noaa.HighTide},
			{Time: civil("2025-01-02 20:51"), Height: -0.342, Type: noaa.LowTide},
			{Time: civil("2025-01-03 03:02"), Height: 4.1, Type: noaa.HighTide},
			{Time: civil("2025-01-03 09:20"), Height: 0.04, Type: noaa.LowTide},
		},
	}
}

func TestReport(t *testing.T) {
	f := goodFetcher()
	svc := newTestService(f)

	report, err := svc.Report(context.Background(), "8453767", "America/New_York")
	require.NoError(t, err)

	assert.Equal(t, Point{Time: "9:24 AM", Height: "4.4", Type: High}, report.Current)
	assert.Equal(t, []Point{
		{Time: "9:40 AM", Height: "4.5", Type: High},
		{Time: "3:51 PM", Height: "-0.3", Type: Low},
		{Time: "10:02 PM", Height: "4.1", Type: High},
		{Time: "4:20 AM", Height: "0.0", Type: Low},
	}, report.Future)

	assert.Equal(t, []string{"8453767", "8453767"}, f.stations)
	assert.Equal(t, fixedNow, f.begin)
}

func TestReportDefaults(t *testing.T) {
	f := goodFetcher()
	svc := newTestService(f)

	report, err := svc.Report(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, []string{DefaultStation, DefaultStation}, f.stations)
	assert.Equal(t, "9:24 AM", report.Current.Time)
}

func TestReportRising(t *testing.T) {
	f := goodFetcher()
	f.hilo[0].Time = civil("2025-01-02 15:30")
	svc := newTestService(f)

	report, err := svc.Report(context.Background(), "8453767", "UTC")
	require.NoError(t, err)
	assert.Equal(t, Rising, report.Current.Type)
	assert.Equal(t, "2:24 PM", report.Current.Time)
}

func TestReportErrors(t *testing.T) {
	tests := []struct {
		name    string
		station string
		zone    string
		mutate  func(*mockFetcher)
		want    Kind
		fetches int
	}{
		{
			name:    "letters in station",
			station: "abc123",
			want:    InvalidStation,
		},
		{
			name:    "signed station",
			station: "-8453767",
			want:    InvalidStation,
		},
		{
			name:    "unknown zone",
			station: "8453767",
			zone:    "Mars/Phobos",
			want:    InvalidTimeZone,
		},
		{
			name:   "latest unavailable",
			mutate: func(m *mockFetcher) { m.latestErr = &noaa.UnavailableError{Product: "latest", Err: errors.New("boom")} },
			want:   UpstreamUnavailable, fetches: 1,
		},
		{
			name:   "latest malformed",
			mutate: func(m *mockFetcher) { m.latestErr = &noaa.FormatError{Field: "v", Value: "x"} },
			want:   UpstreamFormat, fetches: 1,
		},
		{
			name:   "latest empty",
			mutate: func(m *mockFetcher) { m.latest = nil },
			want:   NoDataAvailable, fetches: 1,
		},
		{
			name:   "hilo api error",
			mutate: func(m *mockFetcher) { m.hiloErr = &noaa.APIError{Message: "No Predictions data was found"} },
			want:   NoDataAvailable, fetches: 2,
		},
		{
			name:   "hilo empty",
			mutate: func(m *mockFetcher) { m.hilo = []noaa.Extremum{} },
			want:   NoDataAvailable, fetches: 2,
		},
		{
			name:   "hilo unavailable",
			mutate: func(m *mockFetcher) { m.hiloErr = context.DeadlineExceeded },
			want:   UpstreamUnavailable, fetches: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := goodFetcher()
			if tt.mutate != nil {
				tt.mutate(f)
			}
			svc := newTestService(f)

			report, err := svc.Report(context.Background(), tt.station, tt.zone)
			require.Error(t, err)
			assert.Nil(t, report)
			assert.Equal(t, tt.want, KindOf(err), "error: %v", err)
			assert.Len(t, f.stations, tt.fetches)
		})
	}
}

// slowFetcher answers latest immediately and holds hilo until ctx ends.
type slowFetcher struct {
	*mockFetcher
}

func (s slowFetcher) HighLow(ctx context.Context, station string, begin time.Time) ([]noaa.Extremum, error) {
	<-ctx.Done()
	return nil, &noaa.UnavailableError{Product: "hilo", Err: ctx.Err()}
}

func TestReportTimeout(t *testing.T) {
	svc := newTestService(goodFetcher())
	svc.Fetcher = slowFetcher{goodFetcher()}
	svc.Timeout = 50 * time.Millisecond

	start := time.Now()
	report, err := svc.Report(context.Background(), "8453767", "UTC")
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Equal(t, UpstreamUnavailable, KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
