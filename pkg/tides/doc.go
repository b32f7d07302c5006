// Package tides turns two NOAA products, the latest predicted water level and
// the upcoming high/low extrema, into a small report of what the tide is doing
// now and what it will do next, rendered for a given time zone.
package tides
