package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samalone/trmnl-tides/pkg/cache"
	"github.com/samalone/trmnl-tides/pkg/noaa"
	"github.com/samalone/trmnl-tides/pkg/tides"
)

const (
	latestBody = `{"predictions":[{"t":"2025-01-02 14:24","v":"4.415"}]}`
	hiloBody   = `{"predictions":[
		{"t":"2025-01-02 14:40","v":"9.120","type":"H"},
		{"t":"2025-01-02 20:51","v":"-0.342","type":"L"},
		{"t":"2025-01-03 03:02","v":"8.700","type":"H"},
		{"t":"2025-01-03 09:20","v":"0.410","type":"L"}]}`
	emptyBody = `{"predictions":[]}`
)

// fakeNOAA serves canned bodies for the latest and hilo products.
func fakeNOAA(t *testing.T, latest, hilo string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("interval") == "hilo" {
			w.Write([]byte(hilo))
			return
		}
		w.Write([]byte(latest))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestRouter(t *testing.T, prefix, latest, hilo string) http.Handler {
	t.Helper()
	upstream := fakeNOAA(t, latest, hilo)
	svc := tides.NewService(
		noaa.NewClient(noaa.Options{BaseURL: upstream.URL}),
		cache.NewZones(8, time.Hour),
	)
	svc.Now = func() time.Time { return time.Date(2025, time.January, 2, 14, 27, 0, 0, time.UTC) }
	return NewRouter(prefix, svc)
}

func TestServeTides(t *testing.T) {
	router := newTestRouter(t, "/", latestBody, hiloBody)

	req := httptest.NewRequest(http.MethodGet, "/tides?station=8453767&tz=America/New_York", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	var got tidesPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, point{Time: "9:24 AM", Height: "4.4", Type: "high"}, got.Current)
	assert.Equal(t, []point{
		{Time: "9:40 AM", Height: "9.1", Type: "high"},
		{Time: "3:51 PM", Height: "-0.3", Type: "low"},
		{Time: "10:02 PM", Height: "8.7", Type: "high"},
		{Time: "4:20 AM", Height: "0.4", Type: "low"},
	}, got.Future)
}

func TestServeTidesDefaults(t *testing.T) {
	router := newTestRouter(t, "/", latestBody, hiloBody)

	req := httptest.NewRequest(http.MethodGet, "/tides", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"time":"9:24 AM"`)
}

func TestServeTidesErrors(t *testing.T) {
	testCases := []struct {
		name   string
		url    string
		latest string
		hilo   string
		code   int
		kind   string
	}{
		{
			name: "invalid station",
			url:  "/tides?station=abc123",
			code: http.StatusBadRequest,
			kind: "InvalidStation",
		},
		{
			name: "unknown zone",
			url:  "/tides?tz=Mars/Phobos",
			code: http.StatusBadRequest,
			kind: "InvalidTimeZone",
		},
		{
			name:   "no latest data",
			url:    "/tides",
			latest: emptyBody,
			code:   http.StatusNotFound,
			kind:   "NoDataAvailable",
		},
		{
			name: "no hilo data",
			url:  "/tides",
			hilo: emptyBody,
			code: http.StatusNotFound,
			kind: "NoDataAvailable",
		},
		{
			name: "malformed hilo",
			url:  "/tides",
			hilo: `{"predictions":[{"t":"2025-01-02 14:40","v":"9.1","type":"?"}]}`,
			code: http.StatusInternalServerError,
			kind: "UpstreamFormatError",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			latest, hilo := latestBody, hiloBody
			if tc.latest != "" {
				latest = tc.latest
			}
			if tc.hilo != "" {
				hilo = tc.hilo
			}
			router := newTestRouter(t, "/", latest, hilo)

			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tc.code, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.kind, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestServeTidesUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	svc := tides.NewService(noaa.NewClient(noaa.Options{BaseURL: upstream.URL}), cache.NewZones(8, time.Hour))
	router := NewRouter("/", svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tides", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"UpstreamUnavailable"`)
}

func TestPrefixAndAuxRoutes(t *testing.T) {
	router := newTestRouter(t, "/trmnl/", latestBody, hiloBody)

	tests := []struct {
		path string
		code int
	}{
		{"/trmnl/tides", http.StatusOK},
		{"/trmnl/healthz", http.StatusOK},
		{"/trmnl/metrics", http.StatusOK},
		{"/tides", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestRequestIDIsReused(t *testing.T) {
	router := newTestRouter(t, "/", latestBody, hiloBody)

	const id = "6f1c1f4e-8f3a-4e55-9a4f-3b2d0d1f9c10"
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get(requestIDHeader))
	assert.True(t, strings.Contains(rec.Body.String(), `"ok"`))
}

type point struct {
	Time   string `json:"time"`
	Height string `json:"height"`
	Type   string `json:"type"`
}

type tidesPayload struct {
	Current point   `json:"current"`
	Future  []point `json:"future"`
}
