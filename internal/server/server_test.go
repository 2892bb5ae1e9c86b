// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/book-recommender/internal/catalog"
	"github.com/pdiddy/book-recommender/internal/metrics"
	"github.com/pdiddy/book-recommender/internal/recommend"
	"github.com/pdiddy/book-recommender/pkg/types"
)

func newTestServer(t *testing.T, cfg types.ServerConfig) *Server {
	t.Helper()
	store, err := catalog.New(
		[]types.PopularityEntry{
			{CatalogItem: types.CatalogItem{Title: "Dune", Author: "Frank Herbert"}, NumRatings: 300, AvgRating: 8.6},
			{CatalogItem: types.CatalogItem{Title: "1984", Author: "George Orwell"}, NumRatings: 250, AvgRating: 8.4},
		},
		[]string{"1984", "Dune", "Emma"},
		[]types.CatalogItem{
			{Title: "1984", Author: "George Orwell"},
			{Title: "Dune", Author: "Frank Herbert", ImageURL: "http://img/dune.jpg"},
			{Title: "Emma", Author: "Jane Austen"},
		},
		[][]float64{
			{1, 0.8, 0.2},
			{0.8, 1, 0.5},
			{0.2, 0.5, 1},
		})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)
	engine := recommend.New(store, recommend.WithObserver(rec))
	return New(cfg, engine, zerolog.Nop(), rec, reg)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestRecommendEndpoint(t *testing.T) {
	h := newTestServer(t, types.ServerConfig{}).Handler()

	w := get(t, h, "/api/recommend?q=dune&k=5")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var res recommend.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "dune", res.Query)
	assert.Equal(t, "Dune", res.MatchedTitle)
	assert.Equal(t, recommend.StatusOK, res.Status)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "1984", res.Items[0].Title)
	assert.Equal(t, "Emma", res.Items[1].Title)
}

func TestRecommendEndpointNoMatch(t *testing.T) {
	h := newTestServer(t, types.ServerConfig{}).Handler()

	for _, target := range []string{"/api/recommend?q=xyzzy-nonexistent-title-zzz", "/api/recommend"} {
		w := get(t, h, target)
		require.Equal(t, http.StatusOK, w.Code, target)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "no_match", body["status"])
		assert.Equal(t, []any{}, body["items"])
		assert.NotContains(t, body, "matched_title")
	}
}

func TestBadNumericParams(t *testing.T) {
	h := newTestServer(t, types.ServerConfig{}).Handler()

	tests := []struct {
		target string
		param  string
	}{
		{"/api/recommend?q=dune&k=abc", "k"},
		{"/api/recommend?q=dune&k=0", "k"},
		{"/api/recommend?q=dune&k=-3", "k"},
		{"/api/popular?limit=ten", "limit"},
		{"/api/popular?limit=0", "limit"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := get(t, h, tt.target)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Contains(t, body.Error, tt.param+" must be a positive integer")
		})
	}
}

func TestPopularEndpoint(t *testing.T) {
	h := newTestServer(t, types.ServerConfig{}).Handler()

	w := get(t, h, "/api/popular")
	require.Equal(t, http.StatusOK, w.Code)
	var entries []types.PopularityEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Dune", entries[0].Title)
	assert.Equal(t, 300, entries[0].NumRatings)

	w = get(t, h, "/api/popular?limit=1")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 1)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t, types.ServerConfig{}).Handler()

	w := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	get(t, h, "/api/recommend?q=dune")
	w = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `book_recommender_recommend_queries_total{status="ok",tier="substring"} 1`)
	assert.Contains(t, w.Body.String(), `book_recommender_http_requests_total{code="200",route="/api/recommend"} 1`)
}

func TestNotFound(t *testing.T) {
	w := get(t, newTestServer(t, types.ServerConfig{}).Handler(), "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

type fixedEngine struct {
	popular []types.PopularityEntry
}

func (e fixedEngine) Popular(int) []types.PopularityEntry { return e.popular }

func (e fixedEngine) Recommend(q string, _ int) recommend.Result {
	return recommend.Result{Query: q, Status: recommend.StatusNoMatch, Items: []types.CatalogItem{}}
}

func TestEncodeFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	engine := fixedEngine{popular: []types.PopularityEntry{
		{CatalogItem: types.CatalogItem{Title: "Dune"}, NumRatings: 1, AvgRating: math.NaN()},
	}}
	h := New(types.ServerConfig{}, engine, log, nil, prometheus.NewRegistry()).Handler()

	w := get(t, h, "/api/popular")
	assert.Equal(t, http.StatusOK, w.Code, "status is sent before the body")
	assert.Contains(t, buf.String(), `"message":"encoding response"`)
	assert.Contains(t, buf.String(), "NaN")

	buf.Reset()
	w = get(t, h, "/api/recommend?q=x")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, buf.String(), "encoding response")
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, types.ServerConfig{CORSOrigins: []string{"http://localhost:3000"}}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/popular", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, types.ServerConfig{RateLimit: 2}).Handler()

	codes := make([]int, 3)
	for i := range codes {
		codes[i] = get(t, h, "/api/popular").Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code, "health is not rate limited")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, types.ServerConfig{ShutdownTimeout: time.Second})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
