package affiliateclient

import (
	"context"

	"github.com/ceroydata/leaderboard-proxy/internal/leaderboard"
)

type AffiliateInterface interface {
	// GetAffiliates returns the affiliates wagering within window
	GetAffiliates(ctx context.Context, window leaderboard.DateWindow) ([]leaderboard.Affiliate, error)
}
