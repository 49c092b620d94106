package services

import (
	"context"
	"net/http"
	"time"

	"github.com/ceroydata/leaderboard-proxy/internal/clients/affiliateclient"
	"github.com/ceroydata/leaderboard-proxy/internal/config"
	"github.com/ceroydata/leaderboard-proxy/internal/leaderboard"
	"github.com/sourcegraph/conc"
)

type Service struct {
	cfg        *config.Config
	affiliates affiliateclient.AffiliateInterface
	store      *leaderboard.Store
	httpClient *http.Client
	now        func() time.Time
}

func NewService(
	cfg *config.Config,
	affiliates affiliateclient.AffiliateInterface,
	store *leaderboard.Store,
) *Service {
	return &Service{
		cfg:        cfg,
		affiliates: affiliates,
		store:      store,
		httpClient: &http.Client{Timeout: cfg.Affiliate.Timeout},
		now:        time.Now,
	}
}

// StartBackgroundJobs runs the leaderboard refresher and, when configured,
// the keep-alive pinger. It blocks until ctx is cancelled and both have
// returned.
func (s *Service) StartBackgroundJobs(ctx context.Context) {
	var wg conc.WaitGroup
	wg.Go(func() {
		s.StartLeaderboardRefresher(ctx)
	})
	if s.cfg.KeepAlive.Enabled() {
		wg.Go(func() {
			s.StartKeepAlive(ctx)
		})
	}
	wg.Wait()
}
