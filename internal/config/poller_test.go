package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerConfig_Validate(t *testing.T) {
	t.Run("refresh interval set", func(t *testing.T) {
		cfg := &PollerConfig{RefreshInterval: 3 * time.Minute}
		err := cfg.Validate()
		require.NoError(t, err)
		assert.Equal(t, 3*time.Minute, cfg.RefreshInterval)
	})

	t.Run("refresh interval not set - should use default", func(t *testing.T) {
		cfg := &PollerConfig{}
		err := cfg.Validate()
		require.NoError(t, err)
		assert.Equal(t, defaultRefreshInterval, cfg.RefreshInterval)
		assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	})

	t.Run("refresh interval negative - should error", func(t *testing.T) {
		cfg := &PollerConfig{RefreshInterval: -1 * time.Minute}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "refresh-interval must be positive")
	})
}

func TestKeepAliveConfig_Validate(t *testing.T) {
	t.Run("disabled without url", func(t *testing.T) {
		cfg := &KeepAliveConfig{}
		require.NoError(t, cfg.Validate())
		assert.False(t, cfg.Enabled())
		assert.Zero(t, cfg.Interval)
	})

	t.Run("default interval", func(t *testing.T) {
		cfg := &KeepAliveConfig{URL: "https://example.com/ping"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 270*time.Second, cfg.Interval)
	})
}
