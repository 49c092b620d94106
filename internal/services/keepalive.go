package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ceroydata/leaderboard-proxy/internal/observability/metrics"
	"github.com/ceroydata/leaderboard-proxy/internal/utils/poller"
	"github.com/rs/zerolog/log"
)

// StartKeepAlive pings the configured URL on every keep-alive interval so
// hosts that idle out quiet services keep this one running. Failures are only
// logged. It blocks until ctx is cancelled.
func (s *Service) StartKeepAlive(ctx context.Context) {
	keepAlivePoller := poller.NewPoller(
		s.cfg.KeepAlive.Interval,
		metrics.RecordPollerDuration("keepalive", s.pingSelf),
		poller.WithName("keepalive"),
	)
	keepAlivePoller.Start(ctx)
}

func (s *Service) pingSelf(ctx context.Context) error {
	target := s.cfg.KeepAlive.URL

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create keep-alive request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordKeepAlive(true)
		log.Ctx(ctx).Warn().Err(err).Str("url", target).Msg("Self-ping failed")
		return fmt.Errorf("self-ping failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	metrics.RecordKeepAlive(false)
	log.Ctx(ctx).Info().
		Str("url", target).
		Int("status", resp.StatusCode).
		Msg("Self-pinged")

	return nil
}
