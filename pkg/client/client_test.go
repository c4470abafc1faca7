package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	_, err := NewClient("")
	require.Error(t, err)

	_, err = NewClient("ftp://example.com")
	require.Error(t, err)

	c, err := NewClient("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
}

func TestSearchRoundTrip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/search", r.URL.Path)

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "solid state battery", req.Query)

		_ = json.NewEncoder(w).Encode(SearchResponse{
			Query:      req.Query,
			SearchType: "hybrid",
			Total:      1,
			Results: []ScoredPatent{{
				Patent: &Patent{PatentNumber: "US-1234567-B2", Title: "Battery"},
				Score:  1.0,
			}},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	resp, err := c.Search().Search(context.Background(), SearchRequest{Query: "solid state battery"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "US-1234567-B2", resp.Results[0].Patent.PatentNumber)
}

func TestAPIErrorDecoded(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", "req-1")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"PAT_001","message":"patent not found"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithRetryMax(0))
	require.NoError(t, err)

	_, err = c.Patents().Get(context.Background(), "US-0-A0")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "PAT_001", apiErr.Code)
	assert.Equal(t, "patent not found", apiErr.Message)
	assert.Equal(t, "req-1", apiErr.RequestID)
}

func TestRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(Dashboard{TotalPatents: 7})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithRetryMax(3), WithRetryWait(time.Millisecond, 2*time.Millisecond))
	require.NoError(t, err)

	dash, err := c.Patents().Dashboard(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), dash.TotalPatents)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNoRetryOnClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"COMMON_008","message":"bad filter"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithRetryMax(3), WithRetryWait(time.Millisecond, 2*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Trends().Report(context.Background(), TrendParams{})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCitationsQueryParams(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/patents/US-1-A1/citations", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("depth"))
		assert.Equal(t, "250", r.URL.Query().Get("max_nodes"))
		_ = json.NewEncoder(w).Encode(CitationNetwork{Center: "US-1-A1"})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	network, err := c.Patents().Citations(context.Background(), "US-1-A1", 3, 250)
	require.NoError(t, err)
	assert.Equal(t, "US-1-A1", network.Center)
}

func TestTrendParamsEncode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", TrendParams{}.encode())
	assert.Equal(t, "?cpc_prefix=H01L&years=5",
		TrendParams{CPCPrefix: "H01L", Years: 5}.encode())
}

func TestSimilarParamsEncode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", SimilarParams{}.encode())
	assert.Equal(t, "?exclude_same_assignee=true&min_score=0.5&top_k=5",
		SimilarParams{TopK: 5, MinScore: 0.5, ExcludeSameAssignee: true}.encode())
}
