package config

import (
	"fmt"
	"time"
)

const (
	defaultLogLevel          = "info"
	defaultServerHost        = "0.0.0.0"
	defaultServerPort        = 3000
	defaultServerTimeout     = 10 * time.Second
	defaultServerIdleTimeout = 60 * time.Second
)

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle-timeout"`
}

func (cfg *ServerConfig) Validate() error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", cfg.Port)
	}

	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("server read-timeout must be positive")
	}

	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("server write-timeout must be positive")
	}

	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultServerIdleTimeout
	}

	return nil
}

func (cfg *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}
