package tides

import (
	"time"

	"github.com/samalone/trmnl-tides/pkg/noaa"
)

// settleWindow is how close to an extremum the tide is reported as being at
// that extremum rather than moving towards it.
const settleWindow = 30 * time.Minute

// Status is the state of the tide at a point in time.
type Status int

const (
	Rising Status = iota
	High
	Falling
	Low
)

func (s Status) String() string {
	switch s {
	case Rising:
		return "rising"
	case High:
		return "high"
	case Falling:
		return "falling"
	case Low:
		return "low"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StatusOf maps an extremum type onto the matching status.
func StatusOf(t noaa.Tide) Status {
	if t == noaa.HighTide {
		return High
	}
	return Low
}

// Classify decides what the tide is doing at the time of latest, given the
// next predicted extremum. Both times are GMT and compared as instants.
func Classify(latest noaa.Reading, next noaa.Extremum) Status {
	delta := latest.Time.In(time.UTC).Sub(next.Time.In(time.UTC))
	if delta < 0 {
		delta = -delta
	}

	if delta < settleWindow {
		return StatusOf(next.Type)
	}
	if next.Type == noaa.HighTide {
		return Rising
	}
	return Falling
}
