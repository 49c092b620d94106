package cli

import (
	"fmt"
	"time"

	"github.com/ceroydata/leaderboard-proxy/internal/leaderboard"
	"github.com/spf13/cobra"
)

func WindowCmd() *cobra.Command {
	var (
		at        string
		cutoffDay int
	)

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Prints the billing window the next refresh would query",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				parsed, err := time.Parse(time.DateOnly, at)
				if err != nil {
					return fmt.Errorf("invalid --at date %q: %w", at, err)
				}
				now = parsed
			}

			if !cmd.Flags().Changed("cutoff-day") {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				cutoffDay = cfg.Leaderboard.CutoffDay
			}

			window := leaderboard.WindowAt(now, cutoffDay)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "start_at=%s end_at=%s\n", window.StartDate(), window.EndDate())
			return err
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "date to compute the window for (YYYY-MM-DD, default today in UTC)")
	cmd.Flags().IntVar(&cutoffDay, "cutoff-day", leaderboard.DefaultCutoffDay, "first day of month belonging to the period that starts this month (default from leaderboard.cutoff-day)")

	return cmd
}
