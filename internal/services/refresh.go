package services

import (
	"context"
	"fmt"

	"github.com/ceroydata/leaderboard-proxy/internal/leaderboard"
	"github.com/ceroydata/leaderboard-proxy/internal/observability/metrics"
	"github.com/ceroydata/leaderboard-proxy/internal/observability/tracing"
	"github.com/ceroydata/leaderboard-proxy/internal/types"
	"github.com/ceroydata/leaderboard-proxy/internal/utils/poller"
	"github.com/rs/zerolog/log"
)

// StartLeaderboardRefresher refreshes the leaderboard right away and then on
// every poller interval. It blocks until ctx is cancelled.
func (s *Service) StartLeaderboardRefresher(ctx context.Context) {
	refreshPoller := poller.NewPoller(
		s.cfg.Poller.RefreshInterval,
		metrics.RecordPollerDuration("leaderboard_refresh", s.RefreshLeaderboard),
		poller.WithImmediateStart(),
		poller.WithName("leaderboard_refresh"),
	)
	refreshPoller.Start(ctx)
}

// RefreshLeaderboard runs one fetch and transform cycle. On any failure the
// cached snapshot is left untouched and the typed error is returned.
func (s *Service) RefreshLeaderboard(ctx context.Context) error {
	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	window := leaderboard.WindowAt(s.now(), s.cfg.Leaderboard.CutoffDay)

	affiliates, err := s.affiliates.GetAffiliates(ctx, window)
	if err != nil {
		kind, ok := types.KindOf(err)
		if !ok {
			kind = types.NetworkError
		}
		metrics.RecordRefreshFailure(kind.String())

		log.Error().
			Err(err).
			Str("kind", kind.String()).
			Str("start_at", window.StartDate()).
			Str("end_at", window.EndDate()).
			Msg("Failed to fetch affiliate data, keeping previous leaderboard")
		return fmt.Errorf("failed to refresh leaderboard: %w", err)
	}

	entries := leaderboard.Rank(affiliates, s.cfg.Leaderboard.Policy())
	updatedAt := s.now()
	s.store.Set(leaderboard.Snapshot{
		Entries:   entries,
		Window:    window,
		UpdatedAt: updatedAt,
	})
	metrics.RecordLeaderboardRefresh(len(entries), updatedAt)

	log.Info().
		Str("start_at", window.StartDate()).
		Str("end_at", window.EndDate()).
		Int("affiliates", len(affiliates)).
		Int("entries", len(entries)).
		Msg("Leaderboard updated")

	return nil
}
