package config

import (
	"fmt"
	"net/url"
	"time"
)

const defaultKeepAliveInterval = 270 * time.Second

// KeepAliveConfig configures the optional self ping. An empty URL disables it.
type KeepAliveConfig struct {
	URL      string        `mapstructure:"url"`
	Interval time.Duration `mapstructure:"interval"`
}

func (cfg *KeepAliveConfig) Enabled() bool {
	return cfg.URL != ""
}

func (cfg *KeepAliveConfig) Validate() error {
	if !cfg.Enabled() {
		return nil
	}

	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("keepalive url %q is not an absolute url", cfg.URL)
	}

	if cfg.Interval <= 0 {
		cfg.Interval = defaultKeepAliveInterval
	}

	return nil
}
