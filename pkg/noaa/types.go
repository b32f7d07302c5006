package noaa

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/samalone/trmnl-tides/pkg/timetricks"
)

// Reading is one element of the "latest" product: a predicted water level at
// a GMT time.
type Reading struct {
	Time timetricks.Civil
	// Height in feet above MLLW
	Height float64
}

// Extremum is one element of the "hilo" product.
type Extremum struct {
	Time   timetricks.Civil
	Height float64
	Type   Tide
}

type Tide uint

const (
	HighTide Tide = iota
	LowTide
)

func (t Tide) String() string {
	switch t {
	case HighTide:
		return "H"
	case LowTide:
		return "L"
	default:
		return "invalid"
	}
}

func (r Reading) String() string {
	return fmt.Sprintf("{t: %s, v: %f}", r.Time, r.Height)
}

func (e Extremum) String() string {
	return fmt.Sprintf("{t: %s, v: %f, type: %s}", e.Time, e.Height, e.Type)
}

// rawPrediction mirrors the wire format. NOAA encodes every value as a
// string, so decoding is done by hand after the JSON pass.
type rawPrediction struct {
	T    string  `json:"t"`
	V    string  `json:"v"`
	Type *string `json:"type,omitempty"`
}

// result is the document returned by the datagetter endpoint.
type result struct {
	Predictions *[]rawPrediction `json:"predictions"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// DecodeLatest decodes the "latest" product. An empty prediction list is not
// an error here.
func DecodeLatest(r io.Reader) ([]Reading, error) {
	preds, err := decode(r)
	if err != nil {
		return nil, err
	}

	readings := make([]Reading, len(preds))
	for i, p := range preds {
		t, err := parseTime(p.T)
		if err != nil {
			return nil, err
		}
		h, err := parseHeight(p.V)
		if err != nil {
			return nil, err
		}
		readings[i] = Reading{Time: t, Height: h}
	}
	return readings, nil
}

// DecodeHighLow decodes the "hilo" product.
func DecodeHighLow(r io.Reader) ([]Extremum, error) {
	preds, err := decode(r)
	if err != nil {
		return nil, err
	}

	extrema := make([]Extremum, len(preds))
	for i, p := range preds {
		t, err := parseTime(p.T)
		if err != nil {
			return nil, err
		}
		h, err := parseHeight(p.V)
		if err != nil {
			return nil, err
		}
		if p.Type == nil {
			return nil, &FormatError{Field: "type", Err: errors.New("missing")}
		}
		tide, err := parseTide(*p.Type)
		if err != nil {
			return nil, err
		}
		extrema[i] = Extremum{Time: t, Height: h, Type: tide}
	}
	return extrema, nil
}

// decode reads exactly one JSON object, which must hold either predictions
// or an error.
func decode(r io.Reader) ([]rawPrediction, error) {
	dec := json.NewDecoder(r)
	var res *result
	if err := dec.Decode(&res); err != nil {
		return nil, &FormatError{Field: "body", Err: err}
	}
	if res == nil {
		return nil, &FormatError{Field: "body", Value: "null", Err: errors.New("not an object")}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &FormatError{Field: "body", Err: errors.New("trailing data after document")}
	}
	if res.Error != nil {
		return nil, &APIError{Message: res.Error.Message}
	}
	if res.Predictions == nil {
		return nil, &FormatError{Field: "predictions", Err: errors.New("missing")}
	}
	return *res.Predictions, nil
}

func parseTime(s string) (timetricks.Civil, error) {
	t, err := timetricks.ParseCivil(s)
	if err != nil {
		return timetricks.Civil{}, &FormatError{Field: "t", Value: s, Err: err}
	}
	return t, nil
}

func parseHeight(s string) (float64, error) {
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &FormatError{Field: "v", Value: s, Err: errors.New("not a float")}
	}
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, &FormatError{Field: "v", Value: s, Err: errors.New("not finite")}
	}
	return h, nil
}

func parseTide(s string) (Tide, error) {
	switch s {
	case "H":
		return HighTide, nil
	case "L":
		return LowTide, nil
	default:
		return 0, &FormatError{Field: "type", Value: s, Err: errors.New(`want "H" or "L"`)}
	}
}
