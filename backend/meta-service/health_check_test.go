package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargets(t *testing.T) {
	assert.Equal(t, []string{defaultTargets}, parseTargets(""))
	assert.Equal(t, []string{"http://a/health", "http://b/health"}, parseTargets(" http://a/health, ,http://b/health "))
}

func TestAllHealthy(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	client := ok.Client()
	ctx := context.Background()

	assert.True(t, allHealthy(ctx, client, []string{ok.URL, ok.URL}))
	assert.False(t, allHealthy(ctx, client, []string{ok.URL, down.URL}))
	assert.False(t, allHealthy(ctx, client, []string{"http://127.0.0.1:1/health"}))
}

func TestHealthHandler(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	rec := httptest.NewRecorder()
	healthHandler(down.Client(), []string{down.URL})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unhealthy")
}
