package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httptransport "farequote/internal/http"
	"farequote/internal/maps"
	"farequote/internal/modules/history"
	"farequote/internal/modules/pricing"
)

type stubPlanner struct {
	route maps.Route
	err   error
	got   []string
}

func (s *stubPlanner) Plan(_ context.Context, waypoints []string) (maps.Route, error) {
	s.got = waypoints
	return s.route, s.err
}

type stubHistory struct {
	recorded  []pricing.Comparison
	sources   []string
	lastLimit int
	err       error
}

func (s *stubHistory) Record(_ context.Context, cmp pricing.Comparison, source string) (*history.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.recorded = append(s.recorded, cmp)
	s.sources = append(s.sources, source)
	return &history.Record{ID: "x"}, nil
}

func (s *stubHistory) Recent(_ context.Context, limit int) ([]history.Record, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return []history.Record{{ID: "q-1", TotalPrice: 40000}}, nil
}

func buildRouter(deps httptransport.RouterDeps) http.Handler {
	gin.SetMode(gin.TestMode)
	if deps.Pricing == nil {
		deps.Pricing = pricing.NewService(pricing.DefaultTariff())
	}
	return httptransport.NewRouter(deps)
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func path(m map[string]any, keys ...string) any {
	var cur any = m
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[k]
	}
	return cur
}

func TestQuote_ShortCompactTrip(t *testing.T) {
	r := buildRouter(httptransport.RouterDeps{})
	w := doRequest(r, http.MethodPost, "/quote",
		`{"distance":12000,"time":1500,"vehicleType":"Compact","dwellMinutes":[10,10]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 40000.0, path(body, "quote", "totalPrice"))
	assert.Equal(t, "₩40,000", path(body, "quote", "formattedTotal"))
	assert.Equal(t, "PerJob", path(body, "quote", "breakdown", "recommendedPlan"))
	assert.Equal(t, 13000.0, path(body, "quote", "breakdown", "savings"))
	assert.Equal(t, 12.0, path(body, "quote", "breakdown", "distanceKm"))
	assert.Equal(t, "AdHoc", path(body, "quote", "breakdown", "scheduleType"))

	assert.Equal(t, 53000.0, path(body, "plans", "hourly", "total"))
	assert.Equal(t, 26500.0, path(body, "plans", "hourly", "ratePerHour"))
	assert.Equal(t, 120.0, path(body, "plans", "hourly", "billMinutes"))
	assert.Equal(t, 0.0, path(body, "plans", "hourly", "fuelSurcharge"))

	// stopsCount defaults to the number of dwell entries
	assert.Equal(t, 2.0, path(body, "plans", "perJob", "stopsCount"))
	assert.Equal(t, 10000.0, path(body, "plans", "perJob", "stopFee"))
	assert.Equal(t, "10-15km", path(body, "plans", "perJob", "bracketLabel"))
	assert.Equal(t, "15-20km", path(body, "plans", "perJob", "nextBracketLabel"))
	assert.Equal(t, 3000.0, path(body, "plans", "perJob", "nextDelta"))
	assert.Nil(t, body["route"])
}

func TestQuote_BeyondLastBracketOmitsNext(t *testing.T) {
	r := buildRouter(httptransport.RouterDeps{})
	w := doRequest(r, http.MethodPost, "/quote",
		`{"distance":27000,"time":2400,"vehicleType":"starex","stopsCount":0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	perJob := path(decode(t, w), "plans", "perJob").(map[string]any)
	assert.Equal(t, 46000.0, perJob["total"])
	assert.Equal(t, "over 25km", perJob["bracketLabel"])
	assert.NotContains(t, perJob, "nextBracketLabel")
	assert.NotContains(t, perJob, "nextDelta")
}

func TestQuote_RegularSchedule(t *testing.T) {
	r := buildRouter(httptransport.RouterDeps{})

	w := doRequest(r, http.MethodPost, "/quote",
		`{"distance":8000,"time":0,"vehicleType":"Compact","stopsCount":3,"scheduleType":"Regular"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 55000.0, path(decode(t, w), "plans", "perJob", "total"))

	w = doRequest(r, http.MethodPost, "/quote",
		`{"distance":8000,"time":0,"vehicleType":"Van","stopsCount":3,"scheduleType":"Regular"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 59200.0, path(decode(t, w), "plans", "perJob", "total"))
}

func TestQuote_ValidationErrors(t *testing.T) {
	r := buildRouter(httptransport.RouterDeps{})

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing distance", `{"time":10,"vehicleType":"Van"}`, "distance is required"},
		{"missing vehicle", `{"distance":10,"time":10}`, "vehicleType is required"},
		{"negative time", `{"distance":10,"time":-1,"vehicleType":"Van"}`, "time must be >= 0"},
		{"negative dwell", `{"distance":10,"time":10,"vehicleType":"Van","dwellMinutes":[5,-3]}`, "dwellMinutes[1] must be >= 0"},
		{"negative stops", `{"distance":10,"time":10,"vehicleType":"Van","stopsCount":-1}`, "stopsCount must be >= 0"},
		{"huge stops", `{"distance":1000,"time":60,"vehicleType":"Van","stopsCount":1844674407370955,"scheduleType":"Regular"}`, "stopsCount exceeds the supported range"},
		{"huge dwell", `{"distance":1000,"time":60,"vehicleType":"Compact","dwellMinutes":[9223372036854775807]}`, "dwellMinutes[0] exceeds the supported range"},
		{"dwell sum too large", `{"distance":1000,"time":60,"vehicleType":"Compact","dwellMinutes":[16666666,16666666]}`, "dwellMinutes exceeds the supported range"},
		{"unknown vehicle", `{"distance":10,"time":10,"vehicleType":"Truck"}`, "vehicleType"},
		{"unknown schedule", `{"distance":10,"time":10,"vehicleType":"Van","scheduleType":"Weekly"}`, "scheduleType"},
		{"string distance", `{"distance":"far","time":10,"vehicleType":"Van"}`, "distance"},
		{"malformed json", `{"distance":`, "valid JSON"},
		{"empty body", ``, "valid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/quote", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "VALIDATION_ERROR", path(body, "error", "code"))
			assert.Contains(t, path(body, "error", "message"), tt.message)
			assert.Nil(t, body["quote"])
		})
	}
}

func TestQuote_PanicBecomesServerError(t *testing.T) {
	// a service without a tariff panics on the first priced request
	r := buildRouter(httptransport.RouterDeps{Pricing: pricing.NewService(nil)})
	w := doRequest(r, http.MethodPost, "/quote", `{"distance":1000,"time":60,"vehicleType":"Van"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "SERVER_ERROR", path(body, "error", "code"))
	assert.Equal(t, "internal server error", path(body, "error", "message"))
}

func TestQuote_RecordsHistory(t *testing.T) {
	hist := &stubHistory{}
	r := buildRouter(httptransport.RouterDeps{History: hist})

	w := doRequest(r, http.MethodPost, "/quote", `{"distance":12000,"time":1500,"vehicleType":"Compact","dwellMinutes":[10,10]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, hist.recorded, 1)
	assert.Equal(t, int64(40000), hist.recorded[0].Total)
	assert.Equal(t, "", hist.sources[0])
}

func TestQuote_HistoryFailureStillQuotes(t *testing.T) {
	r := buildRouter(httptransport.RouterDeps{History: &stubHistory{err: errors.New("db down")}})
	w := doRequest(r, http.MethodPost, "/quote", `{"distance":12000,"time":1500,"vehicleType":"Compact"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQuoteRoute(t *testing.T) {
	planner := &stubPlanner{route: maps.Route{DistanceMeters: 12000, DurationSeconds: 1500, Source: "stub"}}
	hist := &stubHistory{}
	r := buildRouter(httptransport.RouterDeps{Routes: planner, History: hist})

	w := doRequest(r, http.MethodPost, "/quote/route",
		`{"waypoints":["37.5665,126.9780","37.5,127.0","37.4979,127.0276"],"vehicleType":"Compact","dwellMinutes":[10,10]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, 40000.0, path(body, "quote", "totalPrice"))
	assert.Equal(t, "stub", path(body, "route", "source"))
	assert.Equal(t, 12000.0, path(body, "route", "distanceMeters"))
	assert.Len(t, planner.got, 3)
	assert.Equal(t, []string{"stub"}, hist.sources)
}

func TestQuoteRoute_Errors(t *testing.T) {
	planner := &stubPlanner{err: maps.ErrNoRoute}
	r := buildRouter(httptransport.RouterDeps{Routes: planner})

	w := doRequest(r, http.MethodPost, "/quote/route", `{"waypoints":["a","b"],"vehicleType":"Van"}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "ROUTE_UNAVAILABLE", path(decode(t, w), "error", "code"))

	w = doRequest(r, http.MethodPost, "/quote/route", `{"waypoints":["a"],"vehicleType":"Van"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", path(decode(t, w), "error", "code"))

	planner.got = nil
	w = doRequest(r, http.MethodPost, "/quote/route", `{"waypoints":["a","b"],"vehicleType":"Truck"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, planner.got)
}

func TestQuoteRoute_PlannerTimeoutOrCancel(t *testing.T) {
	for _, planErr := range []error{context.DeadlineExceeded, context.Canceled} {
		r := buildRouter(httptransport.RouterDeps{Routes: &stubPlanner{err: planErr}})
		w := doRequest(r, http.MethodPost, "/quote/route", `{"waypoints":["a","b"],"vehicleType":"Van"}`)
		require.Equal(t, http.StatusServiceUnavailable, w.Code, planErr.Error())
		assert.Equal(t, "ROUTE_UNAVAILABLE", path(decode(t, w), "error", "code"))
	}
}

func TestQuoteRoute_AbsentWithoutPlanner(t *testing.T) {
	r := buildRouter(httptransport.RouterDeps{})
	w := doRequest(r, http.MethodPost, "/quote/route", `{"waypoints":["a","b"],"vehicleType":"Van"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", path(decode(t, w), "error", "code"))
}

func TestRecentQuotes(t *testing.T) {
	hist := &stubHistory{}
	r := buildRouter(httptransport.RouterDeps{History: hist})

	w := doRequest(r, http.MethodGet, "/quotes/recent?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, hist.lastLimit)
	quotes := decode(t, w)["quotes"].([]any)
	require.Len(t, quotes, 1)
	assert.Equal(t, "q-1", quotes[0].(map[string]any)["id"])

	w = doRequest(r, http.MethodGet, "/quotes/recent?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(buildRouter(httptransport.RouterDeps{}), http.MethodGet, "/quotes/recent", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(buildRouter(httptransport.RouterDeps{History: &stubHistory{err: errors.New("boom")}}), http.MethodGet, "/quotes/recent", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestTariff(t *testing.T) {
	r := buildRouter(httptransport.RouterDeps{})
	w := doRequest(r, http.MethodGet, "/tariff", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	hourlyRows := path(body, "tariff", "hourly", "rows").([]any)
	perJobRows := path(body, "tariff", "perJob", "rows").([]any)
	assert.Len(t, hourlyRows, 6)
	assert.Len(t, perJobRows, 5)
	assert.Equal(t, "0-5km", perJobRows[0].(map[string]any)["label"])
	assert.Equal(t, "over 25km", path(body, "tariff", "perJob", "beyondLabel"))
	assert.Equal(t, 8400.0, path(body, "tariff", "constants", "Van", "regularStopFee"))
	assert.Equal(t, 1.2, path(body, "tariff", "regularLoadFactor"))
}

func TestHealthAndCORS(t *testing.T) {
	r := buildRouter(httptransport.RouterDeps{CORSOrigins: []string{"https://ops.example.com"}})

	w := doRequest(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	req := httptest.NewRequest(http.MethodOptions, "/quote", bytes.NewReader(nil))
	req.Header.Set("Origin", "https://ops.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "https://ops.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/quote", bytes.NewReader(nil))
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
