package tides

import (
	"errors"
	"fmt"
)

// Kind classifies why a report could not be produced.
type Kind int

const (
	Unknown Kind = iota
	InvalidStation
	InvalidTimeZone
	UpstreamUnavailable
	UpstreamFormat
	NoDataAvailable
	TimeZoneConversion
)

func (k Kind) String() string {
	switch k {
	case InvalidStation:
		return "InvalidStation"
	case InvalidTimeZone:
		return "InvalidTimeZone"
	case UpstreamUnavailable:
		return "UpstreamUnavailable"
	case UpstreamFormat:
		return "UpstreamFormatError"
	case NoDataAvailable:
		return "NoDataAvailable"
	case TimeZoneConversion:
		return "TimeZoneConversionError"
	default:
		return "Unknown"
	}
}

// Error is returned by every failing step of Service.Report.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
