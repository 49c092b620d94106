package metrics

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// pollerFunction alias is private and should be used only here
type pollerFunction = func(ctx context.Context) error

// RecordPollerDuration wraps a poll method so every run is timed and labelled
// with its outcome.
func RecordPollerDuration(typ string, f pollerFunction) pollerFunction {
	return func(ctx context.Context) error {
		startTime := time.Now()
		err := f(ctx)
		duration := time.Since(startTime)

		status := Success
		if err != nil {
			status = Error
		}
		pollerDurationHistogram.WithLabelValues(typ, status.String()).Observe(duration.Seconds())

		log.Ctx(ctx).Debug().
			Str("poller", typ).
			Str("status", status.String()).
			Dur("duration", duration).
			Msg("Poll finished")

		return err
	}
}
