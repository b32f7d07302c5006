package tides

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/samalone/trmnl-tides/pkg/timetricks"
)

// Point is one display-ready tide reading.
type Point struct {
	Time   string `json:"time"`
	Height string `json:"height"`
	Type   Status `json:"type"`
}

// Report is the payload served to dashboards.
type Report struct {
	Current Point   `json:"current"`
	Future  []Point `json:"future"`
}

// FormatHeight renders h with one decimal place, rounding half away from
// zero. Values that round to zero print as "0.0" regardless of sign.
func FormatHeight(h float64) string {
	r := math.Round(h*10) / 10
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// RenderPoint converts a GMT time to loc and formats it with the height and
// status.
func RenderPoint(gmt timetricks.Civil, height float64, status Status, loc *time.Location) (Point, error) {
	if loc == nil {
		return Point{}, newError(TimeZoneConversion, errors.New("nil location"),
			"cannot convert %s GMT", gmt)
	}
	local := timetricks.CivilFromTime(gmt.In(time.UTC), loc)
	return Point{
		Time:   local.Kitchen(),
		Height: FormatHeight(height),
		Type:   status,
	}, nil
}
