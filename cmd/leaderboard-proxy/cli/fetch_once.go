package cli

import (
	"encoding/json"

	"github.com/ceroydata/leaderboard-proxy/internal/clients/affiliateclient"
	"github.com/ceroydata/leaderboard-proxy/internal/leaderboard"
	"github.com/ceroydata/leaderboard-proxy/internal/services"
	"github.com/spf13/cobra"
)

func FetchOnceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch-once",
		Short: "Runs a single refresh and prints the resulting leaderboard as JSON",
		Args:  cobra.ExactArgs(0),
		RunE:  fetchOnce,
	}

	return cmd
}

func fetchOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := leaderboard.NewStore()
	service := services.NewService(cfg, affiliateclient.NewClient(&cfg.Affiliate), store)

	if err := service.RefreshLeaderboard(cmd.Context()); err != nil {
		return err
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(store.Get().Entries)
}
