package config

import (
	"fmt"
	"net/url"
	"time"
)

const (
	defaultAffiliateBaseURL       = "https://services.rainbet.com"
	defaultAffiliateTimeout       = 15 * time.Second
	defaultAffiliateMaxRetryTimes = 1
	defaultAffiliateRetryInterval = 1 * time.Second
)

type AffiliateConfig struct {
	BaseURL string        `mapstructure:"base-url"`
	APIKey  string        `mapstructure:"api-key"`
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxRetryTimes counts every attempt, 1 means a single request per cycle
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
}

func (cfg *AffiliateConfig) Validate() error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("affiliate base-url must be set")
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("affiliate base-url %q is not an absolute url", cfg.BaseURL)
	}

	if cfg.APIKey == "" {
		return fmt.Errorf("affiliate api-key must be set")
	}

	if cfg.Timeout <= 0 {
		return fmt.Errorf("affiliate timeout must be positive")
	}

	if cfg.MaxRetryTimes == 0 {
		cfg.MaxRetryTimes = defaultAffiliateMaxRetryTimes
	}

	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaultAffiliateRetryInterval
	}

	return nil
}
