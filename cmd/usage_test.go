package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchUsage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/usage", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"usage":{"calls":3,"input_tokens":900,"output_tokens":120,"cost_usd":0.00042,` +
			`"by_model":{"openai/gpt-4o-mini":{"calls":3,"input_tokens":900,"output_tokens":120,"cost_usd":0.00042}}}}`))
	}))
	defer srv.Close()

	summary, err := fetchUsage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Calls)
	assert.Equal(t, 900, summary.InputTokens)
	assert.Equal(t, 120, summary.OutputTokens)
	assert.InDelta(t, 0.00042, summary.CostUSD, 1e-9)
	require.Contains(t, summary.ByModel, "openai/gpt-4o-mini")
	assert.Equal(t, 3, summary.ByModel["openai/gpt-4o-mini"].Calls)
}

func TestFetchUsage_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := fetchUsage(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is the server running")
}

func TestFetchUsage_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := fetchUsage(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
}
