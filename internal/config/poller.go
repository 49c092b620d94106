package config

import (
	"errors"
	"time"
)

const defaultRefreshInterval = 5 * time.Minute

type PollerConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh-interval"`
}

func (cfg *PollerConfig) Validate() error {
	if cfg.RefreshInterval < 0 {
		return errors.New("refresh-interval must be positive")
	}

	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = defaultRefreshInterval
	}

	return nil
}
