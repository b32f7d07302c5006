package timetricks

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrUnknownTimeZone = errors.New("unknown time zone")

// Clock12 splits c into the pieces of a 12-hour display. Hours after noon are
// shifted down by twelve; noon stays 12 PM and hour zero stays 0 AM.
func (c Civil) Clock12() (hour, minute, meridiem string) {
	h := c.Hour
	meridiem = "AM"
	if c.Hour >= 12 {
		meridiem = "PM"
	}
	if c.Hour > 12 {
		h -= 12
	}
	return strconv.Itoa(h), fmt.Sprintf("%02d", c.Minute), meridiem
}

// Kitchen formats c like "1:05 PM" using the Clock12 rules.
func (c Civil) Kitchen() string {
	h, m, mer := c.Clock12()
	return h + ":" + m + " " + mer
}

// LoadZone resolves an IANA zone name. The server's own zone is never a valid
// answer, so "" and "Local" are rejected.
func LoadZone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimeZone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimeZone, name)
	}
	return loc, nil
}
