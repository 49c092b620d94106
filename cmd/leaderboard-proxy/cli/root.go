package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ceroydata/leaderboard-proxy/internal/config"
	"github.com/ceroydata/leaderboard-proxy/pkg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	defaultConfigFileName = "config.yml"
	configPathEnv         = "LEADERBOARD_CONFIG"
)

var (
	cfgPath string
	rootCmd = &cobra.Command{
		Use:           "leaderboard-proxy",
		Short:         "Caches the affiliate wager leaderboard and serves it over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func Setup() error {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	defaultConfigPath := pkg.Getenv(configPathEnv, getDefaultConfigFile(homePath, defaultConfigFileName))

	rootCmd.AddCommand(StartServerCmd())
	rootCmd.AddCommand(FetchOnceCmd())
	rootCmd.AddCommand(WindowCmd())
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, fmt.Sprintf("config file (default %s)", defaultConfigPath))
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return err
	}

	return nil
}

func getDefaultConfigFile(homePath, filename string) string {
	return filepath.Join(homePath, filename)
}

func GetConfigPath() string {
	return cfgPath
}

// loadConfig reads the config file, a missing file falls back to defaults
// and environment variables.
func loadConfig() (*config.Config, error) {
	path := GetConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Warn().Str("path", path).Msg("config file not found, using defaults and environment")
		path = ""
	}

	cfg, err := config.New(path)
	if err != nil {
		return nil, fmt.Errorf("error while loading config file %q: %w", path, err)
	}

	setupLogging(cfg.LogLevel)
	return cfg, nil
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.DefaultContextLogger = &log.Logger
}
