package tides

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/samalone/trmnl-tides/pkg/noaa"
)

const (
	DefaultStation  = "8453767"
	DefaultTimeZone = "America/New_York"
)

var validate = validator.New()

// Fetcher retrieves the two NOAA products a report is built from.
// *noaa.Client implements it.
type Fetcher interface {
	Latest(ctx context.Context, station string) ([]noaa.Reading, error)
	HighLow(ctx context.Context, station string, begin time.Time) ([]noaa.Extremum, error)
}

// ZoneLoader resolves IANA zone names. *cache.Zones implements it.
type ZoneLoader interface {
	Load(name string) (*time.Location, error)
}

// Service builds tide reports. It holds no per-request state and is safe for
// concurrent use as long as its collaborators are.
type Service struct {
	Fetcher Fetcher
	Zones   ZoneLoader
	// Now defaults to time.Now.
	Now func() time.Time
	// Timeout bounds the whole of Report, both NOAA calls included. Zero
	// means no bound beyond the caller's context.
	Timeout time.Duration

	DefaultStation  string
	DefaultTimeZone string
}

func NewService(fetcher Fetcher, zones ZoneLoader) *Service {
	return &Service{
		Fetcher:         fetcher,
		Zones:           zones,
		Now:             time.Now,
		DefaultStation:  DefaultStation,
		DefaultTimeZone: DefaultTimeZone,
	}
}

// Report validates the inputs, fetches the latest reading and the next 25
// hours of extrema for station, and renders them in zone. Empty arguments
// take the service defaults. Every failure is an *Error and no partial report
// is ever returned.
func (s *Service) Report(ctx context.Context, station, zone string) (*Report, error) {
	station, loc, err := s.validate(station, zone)
	if err != nil {
		return nil, err
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	latest, err := s.Fetcher.Latest(ctx, station)
	if err != nil {
		return nil, upstreamError(err, "latest reading", station)
	}
	if len(latest) == 0 {
		return nil, newError(NoDataAvailable, nil, "no latest reading for station %s", station)
	}

	now := s.now().UTC()
	extrema, err := s.Fetcher.HighLow(ctx, station, now)
	if err != nil {
		return nil, upstreamError(err, "high/low predictions", station)
	}
	if len(extrema) == 0 {
		return nil, newError(NoDataAvailable, nil, "no high/low predictions for station %s", station)
	}

	current := latest[len(latest)-1]
	status := Classify(current, extrema[0])
	log.Debug().
		Str("station", station).
		Str("latest", current.Time.String()).
		Str("next", extrema[0].String()).
		Stringer("status", status).
		Msg("Classified tide")

	report := &Report{Future: make([]Point, 0, len(extrema))}
	report.Current, err = RenderPoint(current.Time, current.Height, status, loc)
	if err != nil {
		return nil, err
	}
	for _, e := range extrema {
		p, err := RenderPoint(e.Time, e.Height, StatusOf(e.Type), loc)
		if err != nil {
			return nil, err
		}
		report.Future = append(report.Future, p)
	}
	return report, nil
}

func (s *Service) validate(station, zone string) (string, *time.Location, error) {
	if station == "" {
		station = s.DefaultStation
	}
	if err := validate.Var(station, "required,number"); err != nil {
		return "", nil, newError(InvalidStation, nil, "station %q must be a string of digits", station)
	}

	if zone == "" {
		zone = s.DefaultTimeZone
	}
	loc, err := s.Zones.Load(zone)
	if err != nil {
		return "", nil, newError(InvalidTimeZone, err, "unknown time zone %q", zone)
	}
	return station, loc, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func upstreamError(err error, what, station string) *Error {
	var (
		fe *noaa.FormatError
		ae *noaa.APIError
	)
	switch {
	case errors.As(err, &fe):
		return newError(UpstreamFormat, err, "NOAA sent malformed %s for station %s", what, station)
	case errors.As(err, &ae):
		return newError(NoDataAvailable, err, "NOAA has no %s for station %s", what, station)
	default:
		return newError(UpstreamUnavailable, err, "could not fetch %s for station %s", what, station)
	}
}
