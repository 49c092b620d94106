package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Option func(*Poller)

// WithImmediateStart runs the poll method once as soon as Start is called,
// before waiting for the first tick.
func WithImmediateStart() Option {
	return func(p *Poller) {
		p.immediate = true
	}
}

// WithName labels the poller in logs.
func WithName(name string) Option {
	return func(p *Poller) {
		p.name = name
	}
}

// Poller calls pollMethod on a fixed interval. Calls run on the goroutine
// that called Start, so two runs never overlap: ticks that fire while a run is
// still in flight are dropped by the ticker.
type Poller struct {
	name       string
	interval   time.Duration
	immediate  bool
	quit       chan struct{}
	stopOnce   sync.Once
	pollMethod func(ctx context.Context) error
}

func NewPoller(interval time.Duration, pollMethod func(ctx context.Context) error, opts ...Option) *Poller {
	p := &Poller{
		name:       "poller",
		interval:   interval,
		quit:       make(chan struct{}),
		pollMethod: pollMethod,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start blocks until ctx is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	logger := log.Ctx(ctx).With().Str("poller", p.name).Logger()
	logger.Info().Msgf("Starting poller with interval %s", p.interval)

	if p.immediate {
		p.poll(ctx)
	}

	for {
		select {
		case <-ticker.C:
			p.poll(ctx)
		case <-ctx.Done():
			logger.Info().Msg("Poller stopped due to context cancellation")
			return
		case <-p.quit:
			logger.Info().Msg("Poller stopped")
			return
		}
	}
}

// Stop ends the polling loop. It is safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.quit)
	})
}

func (p *Poller) poll(ctx context.Context) {
	// a stop that raced with the tick wins
	select {
	case <-ctx.Done():
		return
	case <-p.quit:
		return
	default:
	}

	log.Ctx(ctx).Debug().Str("poller", p.name).Msg("Executing poll method")
	if err := p.pollMethod(ctx); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("poller", p.name).Msg("Error polling")
	} else {
		log.Ctx(ctx).Debug().Str("poller", p.name).Msg("Poll method executed successfully")
	}
}
