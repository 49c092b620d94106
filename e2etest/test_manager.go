package e2etest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ceroydata/leaderboard-proxy/internal/api"
	"github.com/ceroydata/leaderboard-proxy/internal/clients/affiliateclient"
	"github.com/ceroydata/leaderboard-proxy/internal/config"
	"github.com/ceroydata/leaderboard-proxy/internal/leaderboard"
	"github.com/ceroydata/leaderboard-proxy/internal/services"
	"github.com/stretchr/testify/require"
)

var (
	eventuallyWaitTimeOut = 5 * time.Second
	eventuallyPollTime    = 10 * time.Millisecond
)

// FakeUpstream stands in for the affiliates API. The body it serves can be
// swapped between refresh cycles.
type FakeUpstream struct {
	*httptest.Server
	mu       sync.Mutex
	status   int
	body     []byte
	requests []*http.Request
}

func (u *FakeUpstream) Respond(status int, body []byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = status
	u.body = body
}

func (u *FakeUpstream) Requests() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

func (u *FakeUpstream) LastRequest() *http.Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.requests) == 0 {
		return nil
	}
	return u.requests[len(u.requests)-1]
}

type TestManager struct {
	Upstream *FakeUpstream
	Proxy    *httptest.Server
	Store    *leaderboard.Store
	Config   *config.Config
	cancel   context.CancelFunc
	done     chan struct{}
}

func DefaultLeaderboardProxyConfig(upstreamURL string) *config.Config {
	return &config.Config{
		LogLevel: "error",
		Server: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         3000,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			IdleTimeout:  time.Second,
		},
		Affiliate: config.AffiliateConfig{
			BaseURL:       upstreamURL,
			APIKey:        "e2e-key",
			Timeout:       time.Second,
			MaxRetryTimes: 1,
			RetryInterval: 10 * time.Millisecond,
		},
		Leaderboard: config.LeaderboardConfig{
			TopN:      10,
			CutoffDay: leaderboard.DefaultCutoffDay,
		},
		Poller:  config.PollerConfig{RefreshInterval: 50 * time.Millisecond},
		Metrics: config.MetricsConfig{Host: "127.0.0.1", Port: 2112},
	}
}

// StartManager wires the proxy exactly like start-server does, against a fake
// upstream serving initialBody.
func StartManager(t *testing.T, initialBody []byte, mutate ...func(*config.Config)) *TestManager {
	upstream := &FakeUpstream{status: http.StatusOK, body: initialBody}
	upstream.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstream.mu.Lock()
		upstream.requests = append(upstream.requests, r)
		status, body := upstream.status, upstream.body
		upstream.mu.Unlock()

		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))

	cfg := DefaultLeaderboardProxyConfig(upstream.URL)
	for _, m := range mutate {
		m(cfg)
	}
	require.NoError(t, cfg.Validate())

	store := leaderboard.NewStore()
	var affiliates affiliateclient.AffiliateInterface
	affiliates = affiliateclient.NewClient(&cfg.Affiliate)
	affiliates = affiliateclient.NewAffiliateClientWithMetrics(affiliates)

	service := services.NewService(cfg, affiliates, store)
	proxy := httptest.NewServer(api.NewServer(&cfg.Server, store).Handler())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		service.StartBackgroundJobs(ctx)
		close(done)
	}()

	tm := &TestManager{
		Upstream: upstream,
		Proxy:    proxy,
		Store:    store,
		Config:   cfg,
		cancel:   cancel,
		done:     done,
	}
	t.Cleanup(tm.Stop)
	return tm
}

func (tm *TestManager) Stop() {
	tm.cancel()
	<-tm.done
	tm.Proxy.Close()
	tm.Upstream.Close()
}

// WaitForRequests blocks until the upstream has seen at least n requests.
func (tm *TestManager) WaitForRequests(t *testing.T, n int) {
	require.Eventually(t, func() bool {
		return tm.Upstream.Requests() >= n
	}, eventuallyWaitTimeOut, eventuallyPollTime)
}
