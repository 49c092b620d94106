package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ceroydata/leaderboard-proxy/internal/api"
	"github.com/ceroydata/leaderboard-proxy/internal/clients/affiliateclient"
	"github.com/ceroydata/leaderboard-proxy/internal/leaderboard"
	"github.com/ceroydata/leaderboard-proxy/internal/observability/metrics"
	"github.com/ceroydata/leaderboard-proxy/internal/observability/tracing"
	"github.com/ceroydata/leaderboard-proxy/internal/services"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
)

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the leaderboard refresher and HTTP server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// initialize metrics with the metrics port from config
	metrics.Init(cfg.Metrics.Host, cfg.Metrics.GetMetricsPort())

	store := leaderboard.NewStore()

	var affiliates affiliateclient.AffiliateInterface
	affiliates = affiliateclient.NewClient(&cfg.Affiliate)
	affiliates = affiliateclient.NewAffiliateClientWithMetrics(affiliates)

	service := services.NewService(cfg, affiliates, store)
	server := api.NewServer(&cfg.Server, store)

	var (
		wg        conc.WaitGroup
		serverErr error
	)
	wg.Go(func() {
		serverErr = server.Start(ctx)
		// the refresher is useless without a server
		stop()
	})
	wg.Go(func() {
		service.StartBackgroundJobs(ctx)
	})
	wg.Wait()

	if serverErr != nil {
		return serverErr
	}
	log.Info().Msg("leaderboard-proxy stopped")
	return nil
}
