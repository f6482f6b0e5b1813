package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/match-engine/internal/cache"
	"github.com/jonathan/match-engine/internal/config"
	"github.com/jonathan/match-engine/internal/dimensions"
	"github.com/jonathan/match-engine/internal/embedding"
	"github.com/jonathan/match-engine/internal/hybrid"
	"github.com/jonathan/match-engine/internal/metrics"
	"github.com/jonathan/match-engine/internal/types"
)

const (
	backendJob       = "Senior Backend Developer, Node.js, PostgreSQL, Docker, 5+ years"
	backendCandidate = "Node.js, Express, PostgreSQL, 6 years"
)

type fakeStore struct {
	mu      sync.Mutex
	saved   []*types.DimensionalScore
	pingErr error
}

func (f *fakeStore) SaveDimensionalScore(_ context.Context, s *types.DimensionalScore) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, s)
	return uuid.New(), nil
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func newTestServer(t *testing.T, store DimensionalStore) (*Server, *cache.Cache) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	c := cache.New(cache.DefaultConfig(), cache.WithMetrics(m))

	embCfg := embedding.DefaultConfig()
	embCfg.RetryBaseDelay = 0
	agg := hybrid.New(hybrid.DefaultConfig(),
		hybrid.WithCache(c),
		hybrid.WithEmbedding(embedding.NewSignal(embCfg, embedding.NewMockProvider())),
		hybrid.WithMetrics(m))

	s, err := New(config.ServerConfig{Addr: ":0"}, Deps{
		Aggregator: agg,
		Matcher:    dimensions.NewMatcher(dimensions.DefaultConfig(), dimensions.WithMetrics(m)),
		Cache:      c,
		Store:      store,
		Metrics:    m,
		Gatherer:   reg,
	})
	require.NoError(t, err)
	return s, c
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresComponents(t *testing.T) {
	_, err := New(config.ServerConfig{Addr: ":0"}, Deps{})
	assert.Error(t, err)
}

func TestHandleScore(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/v1/score", ScoreRequest{JobText: backendJob, CandidateText: backendCandidate})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var resp ScoreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Nil(t, resp.Error)
	assert.Len(t, resp.Result.Breakdown, len(types.AllSignals))
	assert.GreaterOrEqual(t, resp.Result.FinalScore, 0.0)
	assert.LessOrEqual(t, resp.Result.FinalScore, 100.0)
}

func TestHandleScore_EmptyTextReturnsSentinel(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s.Handler(), http.MethodPost, "/v1/score", ScoreRequest{JobText: "  ", CandidateText: backendCandidate})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ScoreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.Sentinel)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "validation", resp.Error.Code)
	assert.Equal(t, "job_text", resp.Error.Field)
}

func TestHandleScore_BadRequests(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	tests := []struct {
		name string
		body any
	}{
		{"malformed JSON", `{"job_text": `},
		{"unknown mode", ScoreRequest{JobText: backendJob, CandidateText: backendCandidate, Options: hybrid.Options{Mode: "turbo"}}},
		{"negative weight", ScoreRequest{JobText: backendJob, CandidateText: backendCandidate, Options: hybrid.Options{Weights: &types.Weights{Vector: -1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/score", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "validation", resp.Code)
		})
	}
}

func TestHandleScoreBatch(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s.Handler(), http.MethodPost, "/v1/score/batch", BatchRequest{
		JobText:        backendJob,
		CandidateTexts: []string{"Whisk the eggs and bake the cake", backendCandidate, ""},
		Options:        hybrid.Options{Mode: types.ModeFast},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 1, resp.Results[0].CandidateIndex, "the backend candidate ranks first")
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "candidate 2")
}

func TestHandleScoreBatch_Validation(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/v1/score/batch", BatchRequest{JobText: backendJob})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/score/batch", BatchRequest{JobText: "", CandidateTexts: []string{backendCandidate}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDimensions(t *testing.T) {
	store := &fakeStore{}
	s, _ := newTestServer(t, store)

	body := `{
		"candidate": {"hard_skills": ["golang", 7, "PostgreSQL"], "experience": {"total_years": 6, "relevant_years": 5}},
		"job": {"title": "Backend Engineer", "sector": "technology", "required_skills": ["Go", "PostgreSQL", "Kafka"], "experience": {"min_years": 3, "max_years": 8}},
		"authenticity": 80,
		"persist": true
	}`
	rec := do(t, s.Handler(), http.MethodPost, "/v1/dimensions", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp DimensionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Score)
	assert.Equal(t, "technology", resp.Score.Sector)
	assert.Equal(t, []string{"Kafka"}, resp.Score.Breakdown.Technical.Missing)
	assert.InDelta(t, 0.8, resp.Score.Scores[types.DimensionAuthenticity], 1e-9)
	require.Len(t, resp.CandidateDefaulted, 1)
	assert.Equal(t, "hard_skills.1", resp.CandidateDefaulted[0].Field)
	assert.NotEmpty(t, resp.ID)
	assert.Len(t, store.saved, 1)
}

func TestHandleDimensions_InvalidProfile(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/v1/dimensions", `{"candidate": ["not", "an", "object"], "job": {}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "invalid candidate profile")

	rec = do(t, h, http.MethodPost, "/v1/dimensions", `{"candidate": {}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCacheEndpoints(t *testing.T) {
	s, c := newTestServer(t, nil)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/v1/score", ScoreRequest{JobText: backendJob, CandidateText: backendCandidate})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Positive(t, c.Len())

	rec = do(t, h, http.MethodGet, "/v1/cache/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats cache.DetailedMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, c.Len(), stats.Entries)

	rec = do(t, h, http.MethodDelete, "/v1/cache", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, c.Len())
}

func TestHealthAndMetrics(t *testing.T) {
	store := &fakeStore{}
	s, _ := newTestServer(t, store)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)

	store.pingErr = errors.New("connection refused")
	rec = do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "match_engine_http_requests_total"))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", &types.ValidationError{Field: "job_text", Message: "empty"}, http.StatusBadRequest},
		{"provider", &types.ProviderError{Provider: "gemini", Message: "quota"}, http.StatusBadGateway},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"computation", &types.ComputationError{Signal: types.SignalVector, Message: "boom"}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
