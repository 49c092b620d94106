package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const envPrefix = "LEADERBOARD"

type Config struct {
	LogLevel    string            `mapstructure:"log-level"`
	Server      ServerConfig      `mapstructure:"server"`
	Affiliate   AffiliateConfig   `mapstructure:"affiliate"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Poller      PollerConfig      `mapstructure:"poller"`
	KeepAlive   KeepAliveConfig   `mapstructure:"keepalive"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

func (cfg *Config) Validate() error {
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	if err := cfg.Server.Validate(); err != nil {
		return err
	}

	if err := cfg.Affiliate.Validate(); err != nil {
		return err
	}

	if err := cfg.Leaderboard.Validate(); err != nil {
		return err
	}

	if err := cfg.Poller.Validate(); err != nil {
		return err
	}

	if err := cfg.KeepAlive.Validate(); err != nil {
		return err
	}

	if err := cfg.Metrics.Validate(); err != nil {
		return err
	}

	return nil
}

// New loads the config file at cfgPath. Every key can be overridden from the
// environment with the LEADERBOARD_ prefix (LEADERBOARD_AFFILIATE_API_KEY),
// and the listening port also honours the bare PORT variable.
func New(cfgPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", "PORT", envPrefix+"_SERVER_PORT"); err != nil {
		return nil, err
	}

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log-level", defaultLogLevel)

	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.read-timeout", defaultServerTimeout)
	v.SetDefault("server.write-timeout", defaultServerTimeout)
	v.SetDefault("server.idle-timeout", defaultServerIdleTimeout)

	v.SetDefault("affiliate.base-url", defaultAffiliateBaseURL)
	v.SetDefault("affiliate.api-key", "")
	v.SetDefault("affiliate.timeout", defaultAffiliateTimeout)
	v.SetDefault("affiliate.max-retry-times", defaultAffiliateMaxRetryTimes)
	v.SetDefault("affiliate.retry-interval", defaultAffiliateRetryInterval)

	v.SetDefault("leaderboard.top-n", defaultTopN)
	v.SetDefault("leaderboard.cutoff-day", defaultCutoffDay)
	v.SetDefault("leaderboard.excluded-usernames", []string{})

	v.SetDefault("poller.refresh-interval", defaultRefreshInterval)

	v.SetDefault("keepalive.url", "")
	v.SetDefault("keepalive.interval", defaultKeepAliveInterval)

	v.SetDefault("metrics.host", defaultMetricsHost)
	v.SetDefault("metrics.port", defaultMetricsPort)
}
