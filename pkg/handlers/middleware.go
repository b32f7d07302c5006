package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	gh "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/samalone/trmnl-tides/pkg/metrics"
)

const requestIDHeader = "X-Request-Id"

// NewRouter builds the complete HTTP handler: routes mounted under prefix,
// request ids, access logs, latency metrics, CORS and panic recovery.
func NewRouter(prefix string, reporter Reporter) http.Handler {
	r := mux.NewRouter().StrictSlash(true)
	s := r.PathPrefix(prefix).Subrouter()
	Register(s, reporter)

	r.Use(requestID, accessLog, func(next http.Handler) http.Handler {
		return metrics.LatencyHandler(routeTemplate, next)
	})

	var h http.Handler = r
	h = gh.CORS(
		gh.AllowedOrigins([]string{"*"}),
		gh.AllowedMethods([]string{http.MethodGet}),
	)(h)
	h = gh.RecoveryHandler(gh.RecoveryLogger(recoveryLogger{}))(h)
	return h
}

// requestID tags each request with an id, reusing the caller's when given,
// and attaches a logger carrying it to the request context.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		logger := log.With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

type loggingWriter struct {
	http.ResponseWriter
	code int
}

func (w *loggingWriter) WriteHeader(code int) {
	if w.code == 0 {
		w.code = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := &loggingWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r)

		code := lw.code
		if code == 0 {
			code = http.StatusOK
		}
		zerolog.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", code).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

// recoveryLogger sends recovered panics to the global logger.
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error().Interface("panic", v).Msg("Recovered from panic in handler")
}
