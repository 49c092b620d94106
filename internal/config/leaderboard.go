package config

import (
	"errors"

	"github.com/ceroydata/leaderboard-proxy/internal/leaderboard"
)

const (
	defaultTopN      = leaderboard.DefaultTopN
	defaultCutoffDay = leaderboard.DefaultCutoffDay
	maxTopN          = 100
)

type LeaderboardConfig struct {
	TopN int `mapstructure:"top-n"`
	// CutoffDay is the first day of month that belongs to the period starting
	// in the current month, earlier days select the previous period
	CutoffDay         int      `mapstructure:"cutoff-day"`
	ExcludedUsernames []string `mapstructure:"excluded-usernames"`
}

func (cfg *LeaderboardConfig) Validate() error {
	if cfg.TopN <= 0 {
		return errors.New("leaderboard top-n must be positive")
	}

	if cfg.TopN > maxTopN {
		return errors.New("leaderboard top-n must not exceed 100")
	}

	if cfg.CutoffDay < 1 || cfg.CutoffDay > 28 {
		return errors.New("leaderboard cutoff-day must be between 1 and 28")
	}

	return nil
}

func (cfg *LeaderboardConfig) Policy() leaderboard.Policy {
	return leaderboard.Policy{
		TopN:              cfg.TopN,
		ExcludedUsernames: cfg.ExcludedUsernames,
	}
}
