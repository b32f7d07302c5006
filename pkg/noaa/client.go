package noaa

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/samalone/trmnl-tides/pkg/metrics"
)

const maxBody = 4 << 20

// Options configures a Client. Zero values take the defaults below.
type Options struct {
	BaseURL string
	// Timeout bounds each request, default 10s.
	Timeout time.Duration
	// BreakerFailures consecutive failures open the breaker, default 5.
	BreakerFailures uint32
	// BreakerTimeout is how long an open breaker rejects calls, default 30s.
	BreakerTimeout time.Duration
	// HTTPClient overrides the transport; its Timeout is replaced by Timeout.
	HTTPClient *http.Client
}

// Client fetches tide predictions from NOAA. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = NOAA_URL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerTimeout == 0 {
		opts.BreakerTimeout = 30 * time.Second
	}

	hc := &http.Client{}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		hc = &copied
	}
	hc.Timeout = opts.Timeout

	failures := opts.BreakerFailures
	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: hc,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "noaa",
			Timeout: opts.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			// A caller hanging up says nothing about NOAA's health.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("NOAA circuit breaker changed state")
			},
		}),
	}
}

// Latest returns the most recent predicted water level readings for station.
func (c *Client) Latest(ctx context.Context, station string) ([]Reading, error) {
	body, err := c.get(ctx, LatestQuery(station))
	if err != nil {
		return nil, err
	}
	return DecodeLatest(bytes.NewReader(body))
}

// HighLow returns the high/low extrema in the window starting at begin.
func (c *Client) HighLow(ctx context.Context, station string, begin time.Time) ([]Extremum, error) {
	body, err := c.get(ctx, HighLowQuery(station, begin))
	if err != nil {
		return nil, err
	}
	return DecodeHighLow(bytes.NewReader(body))
}

var errStatus = errors.New("unexpected status")

func (c *Client) get(ctx context.Context, q Query) ([]byte, error) {
	product := q.Product()
	addr, err := q.url(c.baseURL)
	if err != nil {
		return nil, &UnavailableError{Product: product, Err: err}
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w %d", errStatus, resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxBody))
	})
	elapsed := time.Since(start)

	if err != nil {
		metrics.ObserveUpstream(product, outcome(err), elapsed.Seconds())
		log.Debug().Err(err).
			Str("product", product).
			Str("station", q.Station).
			Dur("elapsed", elapsed).
			Msg("NOAA request failed")
		return nil, &UnavailableError{Product: product, Err: err}
	}

	metrics.ObserveUpstream(product, "ok", elapsed.Seconds())
	log.Debug().
		Str("product", product).
		Str("station", q.Station).
		Dur("elapsed", elapsed).
		Msg("Fetched predictions from NOAA")
	return result.([]byte), nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, errStatus):
		return "status"
	default:
		var te interface{ Timeout() bool }
		if errors.As(err, &te) && te.Timeout() {
			return "timeout"
		}
		return "transport"
	}
}
