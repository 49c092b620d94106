package affiliateclient

import (
	"context"
	"time"

	"github.com/ceroydata/leaderboard-proxy/internal/leaderboard"
	"github.com/ceroydata/leaderboard-proxy/internal/observability/metrics"
)

type affiliateClientWithMetrics struct {
	client AffiliateInterface
}

func NewAffiliateClientWithMetrics(client AffiliateInterface) *affiliateClientWithMetrics {
	return &affiliateClientWithMetrics{client: client}
}

func (a *affiliateClientWithMetrics) GetAffiliates(ctx context.Context, window leaderboard.DateWindow) ([]leaderboard.Affiliate, error) {
	return runAffiliateClientMethodWithMetrics("GetAffiliates", func() ([]leaderboard.Affiliate, error) {
		return a.client.GetAffiliates(ctx, window)
	})
}

func runAffiliateClientMethodWithMetrics[T any](method string, f func() (T, error)) (T, error) {
	startTime := time.Now()
	v, err := f()
	duration := time.Since(startTime)

	metrics.RecordAffiliateClientLatency(duration, method, err != nil)
	return v, err
}
