package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ceroydata/leaderboard-proxy/internal/clients/affiliateclient"
	"github.com/ceroydata/leaderboard-proxy/internal/config"
	"github.com/ceroydata/leaderboard-proxy/internal/leaderboard"
	"github.com/ceroydata/leaderboard-proxy/internal/types"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeAffiliates struct {
	calls      atomic.Int32
	lastWindow atomic.Pointer[leaderboard.DateWindow]
	respond    func() ([]leaderboard.Affiliate, error)
}

func (f *fakeAffiliates) GetAffiliates(ctx context.Context, window leaderboard.DateWindow) ([]leaderboard.Affiliate, error) {
	f.calls.Add(1)
	f.lastWindow.Store(&window)
	return f.respond()
}

func testConfig() *config.Config {
	return &config.Config{
		LogLevel: "debug",
		Affiliate: config.AffiliateConfig{
			BaseURL:       "https://affiliates.example.com",
			APIKey:        "key",
			Timeout:       time.Second,
			MaxRetryTimes: 1,
		},
		Leaderboard: config.LeaderboardConfig{
			TopN:              10,
			CutoffDay:         leaderboard.DefaultCutoffDay,
			ExcludedUsernames: []string{"tyler"},
		},
		Poller:    config.PollerConfig{RefreshInterval: time.Hour},
		KeepAlive: config.KeepAliveConfig{Interval: time.Hour},
	}
}

func newTestService(t *testing.T, affiliates affiliateclient.AffiliateInterface) (*Service, *leaderboard.Store) {
	t.Helper()
	store := leaderboard.NewStore()
	s := NewService(testConfig(), affiliates, store)
	s.now = func() time.Time { return fixedNow }
	return s, store
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = original })
	return &buf
}

func TestRefreshLeaderboard_Success(t *testing.T) {
	fake := &fakeAffiliates{respond: func() ([]leaderboard.Affiliate, error) {
		return []leaderboard.Affiliate{
			leaderboard.NewAffiliate("whale_master", "5000.4"),
			leaderboard.NewAffiliate("tyler_admin", "99999"),
			leaderboard.NewAffiliate("runnerup", "7000.5"),
			leaderboard.NewAffiliate("bad-amount", "N/A"),
		}, nil
	}}
	s, store := newTestService(t, fake)

	require.NoError(t, s.RefreshLeaderboard(context.Background()))

	snapshot := store.Get()
	want := []leaderboard.Entry{
		{Username: "wh***er", Wagered: 5000, WeightedWager: 5000},
		{Username: "ru***up", Wagered: 7001, WeightedWager: 7001},
	}
	if diff := cmp.Diff(want, snapshot.Entries); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, fixedNow, snapshot.UpdatedAt)
	assert.Equal(t, "2024-02-26", snapshot.Window.StartDate())

	window := fake.lastWindow.Load()
	require.NotNil(t, window)
	assert.Equal(t, "2024-03-25", window.EndDate())
}

func TestRefreshLeaderboard_FailureKeepsPreviousSnapshot(t *testing.T) {
	var fail atomic.Bool
	fake := &fakeAffiliates{respond: func() ([]leaderboard.Affiliate, error) {
		if fail.Load() {
			return nil, types.NewErrorWithMsg(types.DataShapeError, "response has no affiliates field")
		}
		return []leaderboard.Affiliate{
			leaderboard.NewAffiliate("alpha-one", "10"),
			leaderboard.NewAffiliate("beta-two", "20"),
		}, nil
	}}
	s, store := newTestService(t, fake)

	require.NoError(t, s.RefreshLeaderboard(context.Background()))
	before := store.Get()
	require.Len(t, before.Entries, 2)

	logs := captureLogs(t)
	fail.Store(true)
	err := s.RefreshLeaderboard(context.Background())
	require.Error(t, err)

	kind, ok := types.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, types.DataShapeError, kind)
	assert.Equal(t, before, store.Get())
	assert.Contains(t, logs.String(), `"kind":"DATA_SHAPE_ERROR"`)
	assert.Contains(t, logs.String(), "keeping previous leaderboard")
}

func TestRefreshLeaderboard_UntypedErrorCountsAsNetwork(t *testing.T) {
	fake := &fakeAffiliates{respond: func() ([]leaderboard.Affiliate, error) {
		return nil, errors.New("dial tcp: connection refused")
	}}
	s, store := newTestService(t, fake)
	logs := captureLogs(t)

	require.Error(t, s.RefreshLeaderboard(context.Background()))
	assert.True(t, store.Get().IsEmpty())
	assert.Contains(t, logs.String(), `"kind":"NETWORK_ERROR"`)
}

func TestStartLeaderboardRefresher_RefreshesImmediately(t *testing.T) {
	fake := &fakeAffiliates{respond: func() ([]leaderboard.Affiliate, error) {
		return []leaderboard.Affiliate{leaderboard.NewAffiliate("first", "1")}, nil
	}}
	s, store := newTestService(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.StartBackgroundJobs(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return !store.Get().IsEmpty() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), fake.calls.Load())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("background jobs did not stop")
	}
}

func TestPingSelf(t *testing.T) {
	var pings atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pings.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	s, _ := newTestService(t, &fakeAffiliates{})
	s.cfg.KeepAlive.URL = server.URL + "/leaderboard/top14"

	require.NoError(t, s.pingSelf(context.Background()))
	assert.Equal(t, int32(1), pings.Load())

	server.Close()
	assert.Error(t, s.pingSelf(context.Background()))
}

func TestStartKeepAlive(t *testing.T) {
	var pings atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pings.Add(1)
	}))
	defer server.Close()

	s, _ := newTestService(t, &fakeAffiliates{})
	s.cfg.KeepAlive = config.KeepAliveConfig{URL: server.URL, Interval: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.StartKeepAlive(ctx)

	require.Eventually(t, func() bool { return pings.Load() >= 2 }, time.Second, 5*time.Millisecond)
}
