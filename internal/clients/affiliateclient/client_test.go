package affiliateclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ceroydata/leaderboard-proxy/internal/config"
	"github.com/ceroydata/leaderboard-proxy/internal/leaderboard"
	"github.com/ceroydata/leaderboard-proxy/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWindow = leaderboard.WindowAt(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), leaderboard.DefaultCutoffDay)

func newTestClient(baseURL string, maxRetryTimes uint) *Client {
	return NewClient(&config.AffiliateConfig{
		BaseURL:       baseURL,
		APIKey:        "test-key",
		Timeout:       5 * time.Second,
		MaxRetryTimes: maxRetryTimes,
		RetryInterval: 10 * time.Millisecond,
	})
}

func TestGetAffiliates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/external/affiliates", r.URL.Path)
		assert.Equal(t, "2024-02-26", r.URL.Query().Get("start_at"))
		assert.Equal(t, "2024-03-25", r.URL.Query().Get("end_at"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"affiliates": [
				{"username": "highroller", "wagered_amount": "1520.75", "id": 1},
				{"username": "numeric", "wagered_amount": 99.5},
				42
			],
			"cache_time": 1710000000
		}`))
	}))
	defer server.Close()

	affiliates, err := newTestClient(server.URL+"/", 1).GetAffiliates(context.Background(), testWindow)
	require.NoError(t, err)
	require.Len(t, affiliates, 2)

	username, ok := affiliates[0].ParseUsername()
	require.True(t, ok)
	assert.Equal(t, "highroller", username)
	amount, ok := affiliates[1].ParseWageredAmount()
	require.True(t, ok)
	assert.Equal(t, "99.5", amount.String())
}

func TestGetAffiliates_ErrorKinds(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   types.ErrorKind
	}{
		{name: "empty object", status: http.StatusOK, body: `{}`, kind: types.DataShapeError},
		{name: "affiliates is an object", status: http.StatusOK, body: `{"affiliates": {}}`, kind: types.DataShapeError},
		{name: "affiliates is null", status: http.StatusOK, body: `{"affiliates": null}`, kind: types.DataShapeError},
		{name: "top level array", status: http.StatusOK, body: `[]`, kind: types.DataShapeError},
		{name: "not json", status: http.StatusOK, body: `Service Unavailable`, kind: types.ParseError},
		{name: "server error", status: http.StatusBadGateway, body: `{"error":"bad gateway"}`, kind: types.NetworkError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL, 1).GetAffiliates(context.Background(), testWindow)
			require.Error(t, err)
			kind, ok := types.KindOf(err)
			require.True(t, ok, "error %v has no kind", err)
			assert.Equal(t, tc.kind, kind)
		})
	}
}

func TestGetAffiliates_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	_, err := newTestClient(baseURL, 1).GetAffiliates(context.Background(), testWindow)
	require.Error(t, err)
	kind, _ := types.KindOf(err)
	assert.Equal(t, types.NetworkError, kind)
	assert.NotContains(t, err.Error(), "test-key")
}

func TestGetAffiliates_WithRetry(t *testing.T) {
	var requestCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestCount.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"affiliates": [{"username": "lucky", "wagered_amount": "10"}]}`))
	}))
	defer server.Close()

	affiliates, err := newTestClient(server.URL, 3).GetAffiliates(context.Background(), testWindow)
	require.NoError(t, err)
	assert.Len(t, affiliates, 1)
	assert.Equal(t, int32(3), requestCount.Load(), "Should have made 3 requests (2 failures + 1 success)")
}

func TestGetAffiliates_NoRetryOnShapeError(t *testing.T) {
	var requestCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 3).GetAffiliates(context.Background(), testWindow)
	require.Error(t, err)
	assert.Equal(t, int32(1), requestCount.Load())
}

func TestGetAffiliates_SingleAttemptByDefault(t *testing.T) {
	var requestCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 1).GetAffiliates(context.Background(), testWindow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
	assert.Equal(t, int32(1), requestCount.Load())
}

type stubClient struct {
	err error
}

func (s *stubClient) GetAffiliates(ctx context.Context, window leaderboard.DateWindow) ([]leaderboard.Affiliate, error) {
	return []leaderboard.Affiliate{leaderboard.NewAffiliate("stub", "1")}, s.err
}

func TestAffiliateClientWithMetrics(t *testing.T) {
	c := NewAffiliateClientWithMetrics(&stubClient{})

	affiliates, err := c.GetAffiliates(context.Background(), testWindow)
	require.NoError(t, err)
	assert.Len(t, affiliates, 1)
}
