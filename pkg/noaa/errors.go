package noaa

import "fmt"

// FormatError reports a NOAA payload that could not be decoded. Field names
// the JSON field at fault ("body" when the document itself is malformed).
type FormatError struct {
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("NOAA payload: bad %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("NOAA payload: bad %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// UnavailableError reports a NOAA request that did not produce a usable
// response: transport failures, timeouts, an open circuit breaker or a
// non-2xx status.
type UnavailableError struct {
	Product string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("NOAA %s request failed: %v", e.Product, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// APIError carries the message NOAA returns in place of predictions, for
// example when the station does not exist or has no data for the window.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("NOAA API error: %s", e.Message)
}
