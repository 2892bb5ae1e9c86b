// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/book-recommender/internal/match"
	"github.com/pdiddy/book-recommender/internal/recommend"
)

func TestObserveRecommend(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.ObserveRecommend(recommend.StatusOK, match.TierSubstring, time.Millisecond)
	r.ObserveRecommend(recommend.StatusOK, match.TierSubstring, time.Millisecond)
	r.ObserveRecommend(recommend.StatusNoMatch, match.TierNone, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.recommendTotal.WithLabelValues("ok", "substring")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.recommendTotal.WithLabelValues("no_match", "none")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.recommendTotal.WithLabelValues("no_results", "fuzzy")))
}

func TestObservePopularAndCatalogSize(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	r.ObservePopular()
	r.SetCatalogTitles(706)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.popularTotal))
	assert.Equal(t, 706.0, testutil.ToFloat64(r.catalogTitles))
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	ok := r.Middleware("/ok")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("fine"))
	}))
	bad := r.Middleware("/bad")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	bad.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("/ok", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("/bad", "400")))
}

func TestMiddlewareWriters(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		code    string
	}{
		{
			name:    "nothing written",
			handler: func(http.ResponseWriter, *http.Request) {},
			code:    "200",
		},
		{
			name: "flush before body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				f, ok := w.(http.Flusher)
				require.True(t, ok, "wrapped writer must keep http.Flusher")
				f.Flush()
			},
			code: "200",
		},
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			code: "503",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecorder(prometheus.NewRegistry())
			rec := httptest.NewRecorder()
			r.Middleware("/x")(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("/x", tt.code)))
		})
	}
}

func TestRegistryLint(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.ObserveRecommend(recommend.StatusOK, match.TierFuzzy, time.Millisecond)

	problems, err := testutil.GatherAndLint(reg)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg)
	assert.Panics(t, func() { NewRecorder(reg) })
}
