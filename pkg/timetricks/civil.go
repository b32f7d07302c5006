package timetricks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CivilFormat is the layout NOAA uses for prediction timestamps.
const CivilFormat = "2006-01-02 15:04"

var ErrMalformedTimestamp = errors.New("malformed timestamp")

// Civil is a wall clock reading with minute precision and no zone attached.
// The zone it belongs to is supplied when converting to an instant.
type Civil struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
}

// NewCivil builds a Civil and panics if any field is out of range. Callers
// holding untrusted input should use ParseCivil instead.
func NewCivil(year int, month time.Month, day, hour, minute int) Civil {
	c := Civil{year, month, day, hour, minute}
	if err := c.validate(); err != nil {
		panic(err)
	}
	return c
}

func (c Civil) validate() error {
	switch {
	case c.Month < time.January || c.Month > time.December:
		return fmt.Errorf("month %d out of range", c.Month)
	case c.Day < 1 || c.Day > DaysIn(c.Month, c.Year):
		return fmt.Errorf("day %d out of range for %04d-%02d", c.Day, c.Year, c.Month)
	case c.Hour < 0 || c.Hour > 23:
		return fmt.Errorf("hour %d out of range", c.Hour)
	case c.Minute < 0 || c.Minute > 59:
		return fmt.Errorf("minute %d out of range", c.Minute)
	}
	return nil
}

// ParseCivil reads a "YYYY-MM-DD HH:MM" string.
func ParseCivil(s string) (Civil, error) {
	parts := strings.Split(s, " ")
	if len(parts) != 2 {
		return Civil{}, fmt.Errorf("%w: %q is not \"date time\"", ErrMalformedTimestamp, s)
	}

	date, err := atois(parts[0], "-", 3)
	if err != nil {
		return Civil{}, fmt.Errorf("%w: date in %q: %v", ErrMalformedTimestamp, s, err)
	}
	clock, err := atois(parts[1], ":", 2)
	if err != nil {
		return Civil{}, fmt.Errorf("%w: time in %q: %v", ErrMalformedTimestamp, s, err)
	}

	c := Civil{
		Year:   date[0],
		Month:  time.Month(date[1]),
		Day:    date[2],
		Hour:   clock[0],
		Minute: clock[1],
	}
	if err := c.validate(); err != nil {
		return Civil{}, fmt.Errorf("%w: %q: %v", ErrMalformedTimestamp, s, err)
	}
	return c, nil
}

// atois splits s on sep and expects exactly n unsigned decimal fields.
func atois(s, sep string, n int) ([]int, error) {
	fields := strings.Split(s, sep)
	if len(fields) != n {
		return nil, fmt.Errorf("want %d fields separated by %q, got %d", n, sep, len(fields))
	}
	out := make([]int, n)
	for i, f := range fields {
		if f == "" || strings.ContainsAny(f, "+-") {
			return nil, fmt.Errorf("field %q is not a number", f)
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("field %q is not a number", f)
		}
		out[i] = v
	}
	return out, nil
}

// String formats c as "YYYY-MM-DD HH:MM", the inverse of ParseCivil.
func (c Civil) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", c.Year, int(c.Month), c.Day, c.Hour, c.Minute)
}

// Compare returns -1, 0 or +1 ordering by year, month, day, hour, minute.
func (c Civil) Compare(o Civil) int {
	for _, d := range [...]int{
		c.Year - o.Year,
		int(c.Month - o.Month),
		c.Day - o.Day,
		c.Hour - o.Hour,
		c.Minute - o.Minute,
	} {
		if d < 0 {
			return -1
		}
		if d > 0 {
			return 1
		}
	}
	return 0
}

func (c Civil) Before(o Civil) bool { return c.Compare(o) < 0 }
func (c Civil) After(o Civil) bool  { return c.Compare(o) > 0 }

// In returns the instant at which clocks in loc read c. Wall times skipped or
// repeated by a DST change resolve the way time.Date does.
func (c Civil) In(loc *time.Location) time.Time {
	return time.Date(c.Year, c.Month, c.Day, c.Hour, c.Minute, 0, 0, loc)
}

// CivilFromTime reads the wall clock in loc at instant t, dropping seconds.
func CivilFromTime(t time.Time, loc *time.Location) Civil {
	t = t.In(loc)
	return Civil{
		Year:   t.Year(),
		Month:  t.Month(),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
	}
}

// Weekday is computed on the proleptic Gregorian calendar.
func (c Civil) Weekday() time.Weekday {
	return c.In(time.UTC).Weekday()
}

func (c Civil) DaysInMonth() int { return DaysIn(c.Month, c.Year) }

func (c Civil) DaysInYear() int {
	if IsLeapYear(c.Year) {
		return 366
	}
	return 365
}

func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in month m of year.
func DaysIn(m time.Month, year int) int {
	switch m {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	}
	return 31
}
