package noaa

import (
	"net/url"
	"strconv"
	"time"
)

const (
	NOAA_URL  = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"
	BEGIN_FMT = "20060102 15:04"

	// WindowHours is the length of every high/low window.
	WindowHours = 25

	productHL  = "hilo"
	productNow = "latest"
)

// Query selects one of the two products this package knows how to read. Use
// LatestQuery or HighLowQuery to build one.
type Query struct {
	Station string
	// Begin and Hours are only used for high/low windows.
	Begin time.Time
	Hours int
	hilo  bool
}

// LatestQuery asks for the most recent predicted water level at station.
func LatestQuery(station string) Query {
	return Query{Station: station}
}

// HighLowQuery asks for the high/low extrema in the 25 hours from begin. A
// full day plus an hour always spans at least four extrema, even when begin
// falls mid-cycle.
func HighLowQuery(station string, begin time.Time) Query {
	return Query{
		Station: station,
		Begin:   begin,
		Hours:   WindowHours,
		hilo:    true,
	}
}

// Product names the query for logs and metrics.
func (q Query) Product() string {
	if q.hilo {
		return productHL
	}
	return productNow
}

func (q Query) build() url.Values {
	vals := make(url.Values)
	vals.Add("station", q.Station)
	vals.Add("product", "predictions")
	vals.Add("datum", "MLLW")
	vals.Add("time_zone", "gmt")
	vals.Add("units", "english")
	vals.Add("format", "json")
	if q.hilo {
		vals.Add("interval", "hilo")
		vals.Add("begin_date", q.Begin.UTC().Format(BEGIN_FMT))
		vals.Add("range", strconv.Itoa(q.Hours))
	} else {
		vals.Add("date", "latest")
	}
	return vals
}

// url resolves the query against the datagetter base address.
func (q Query) url(base string) (*url.URL, error) {
	addr, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	addr.RawQuery = q.build().Encode()
	return addr, nil
}
