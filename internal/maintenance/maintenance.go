// Package maintenance runs periodic background tasks as clock tickers.
//
// The catch-up sweep covers change notifications the listener missed, for
// example writes made while its connection was down: it fingerprints the
// tournaments table and invalidates the cache when the fingerprint moves.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	CatchUpInterval time.Duration // Fingerprint sweep for missed change events
	AnalyzeInterval time.Duration // Planner statistics refresh
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		CatchUpInterval: 5 * time.Minute,
		AnalyzeInterval: 6 * time.Hour,
	}
}

// Source is the database side of the maintenance tasks.
type Source interface {
	Fingerprint(ctx context.Context) (string, error)
	Analyze(ctx context.Context) error
}

// Invalidator drops cached responses.
type Invalidator interface {
	Invalidate()
}

// Runner owns the tickers and the last seen fingerprint.
type Runner struct {
	src    Source
	target Invalidator
	clock  clockwork.Clock
	cfg    Config
	logger *slog.Logger

	last string
}

func New(src Source, target Invalidator, clock clockwork.Clock, cfg Config, logger *slog.Logger) *Runner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Runner{src: src, target: target, clock: clock, cfg: cfg, logger: logger}
}

// Start launches all configured tickers. Blocks until ctx is cancelled.
// Intended to be called with `go`.
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("Maintenance tickers started",
		"catchup", r.cfg.CatchUpInterval,
		"analyze", r.cfg.AnalyzeInterval)

	tickers := make([]clockwork.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if r.cfg.CatchUpInterval > 0 {
		// Baseline so the first tick only fires on a real change.
		r.catchUp(ctx)
		t := r.clock.NewTicker(r.cfg.CatchUpInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.Chan(), func() { r.catchUp(ctx) })
	}

	if r.cfg.AnalyzeInterval > 0 {
		t := r.clock.NewTicker(r.cfg.AnalyzeInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.Chan(), func() { r.analyze(ctx) })
	}

	<-ctx.Done()
	r.logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

func (r *Runner) catchUp(ctx context.Context) {
	fp, err := r.src.Fingerprint(ctx)
	if err != nil {
		r.logger.Warn("Catch-up sweep: fingerprint failed", "error", err)
		return
	}
	if r.last != "" && fp != r.last {
		r.target.Invalidate()
		r.logger.Info("Catch-up sweep: table changed, cache invalidated")
	}
	r.last = fp
}

func (r *Runner) analyze(ctx context.Context) {
	start := r.clock.Now()
	if err := r.src.Analyze(ctx); err != nil {
		r.logger.Warn("Analyze failed", "error", err)
		return
	}
	r.logger.Info("Analyze finished", "duration", r.clock.Since(start).Round(time.Millisecond))
}
