package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/samalone/trmnl-tides/pkg/metrics"
	"github.com/samalone/trmnl-tides/pkg/tides"
)

// Reporter produces tide reports. *tides.Service implements it.
type Reporter interface {
	Report(ctx context.Context, station, zone string) (*tides.Report, error)
}

// ErrorResponse is the body of every non-200 reply from /tides.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Register wires the service routes onto r.
func Register(r *mux.Router, reporter Reporter) {
	r.Handle("/tides", makeServeTides(reporter)).Methods(http.MethodGet)
	r.Handle("/healthz", makeHealthz()).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
}

func makeServeTides(reporter Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		station := r.FormValue("station")
		zone := r.FormValue("tz")

		report, err := reporter.Report(r.Context(), station, zone)
		if err != nil {
			kind := tides.KindOf(err)
			code := statusFor(kind)
			metrics.ObserveReport(kind.String())

			logger := zerolog.Ctx(r.Context())
			ev := logger.Error()
			if code < http.StatusInternalServerError {
				ev = logger.Warn()
			}
			ev.Err(err).
				Str("station", station).
				Str("tz", zone).
				Stringer("kind", kind).
				Msg("Failed to build tide report")

			writeJSON(w, r, code, ErrorResponse{
				Error:   kind.String(),
				Message: err.Error(),
			})
			return
		}

		metrics.ObserveReport("ok")
		writeJSON(w, r, http.StatusOK, report)
	})
}

func makeHealthz() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// statusFor maps a failure onto the HTTP status dashboards expect.
func statusFor(kind tides.Kind) int {
	switch kind {
	case tides.InvalidStation, tides.InvalidTimeZone:
		return http.StatusBadRequest
	case tides.NoDataAvailable:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode JSON result")
	}
}
