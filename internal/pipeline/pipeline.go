// Package pipeline orchestrates the periodic fetch-parse-derive-publish loop.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/solar-wind-etl/internal/domain"
	"github.com/couchcryptid/solar-wind-etl/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Source fetches both SWPC products. Each call returns a complete, freshly
// parsed table for the configured window.
type Source interface {
	FetchMagnetometer(ctx context.Context) ([]domain.MagReading, error)
	FetchPlasma(ctx context.Context) ([]domain.PlasmaReading, error)
}

// BatchLoader writes merged records to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, records []domain.SolarWindRecord) error
}

// Exponential backoff on cycle failure: start at 200ms, double each retry,
// cap at 5s. Keeps retry storms short while avoiding tight loops during
// SWPC outages.
const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Pipeline runs a fetch-merge-publish cycle every interval.
type Pipeline struct {
	source   Source
	loader   BatchLoader // nil when the Kafka sink is disabled
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	interval time.Duration

	ready  atomic.Bool
	latest atomic.Pointer[[]domain.SolarWindRecord]
}

// New creates a Pipeline. A nil loader disables publishing (records still
// feed the latest snapshot); a nil clock selects real time.
func New(source Source, loader BatchLoader, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration, clock clockwork.Clock) *Pipeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		source:   source,
		loader:   loader,
		logger:   logger,
		metrics:  metrics,
		clock:    clock,
		interval: interval,
	}
}

// CheckReadiness returns nil once the pipeline has completed at least one
// successful cycle.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a cycle yet")
	}
	return nil
}

// Ready reports whether at least one cycle has completed.
func (p *Pipeline) Ready() bool { return p.ready.Load() }

// LatestSnapshot returns the records from the most recent successful cycle.
func (p *Pipeline) LatestSnapshot() ([]domain.SolarWindRecord, bool) {
	records := p.latest.Load()
	if records == nil {
		return nil, false
	}
	return *records, true
}

// Run executes the fetch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff
	for {
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}

		if err := p.runCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Error("cycle failed", "error", err)
			if !p.sleep(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff)
			continue
		}

		backoff = initialBackoff
		if !p.sleep(ctx, p.interval) {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// runCycle fetches both products concurrently, merges them, and publishes
// the result. The two fetches are independent and share no state; the
// WaitGroup join is the only synchronization.
func (p *Pipeline) runCycle(ctx context.Context) error {
	start := p.clock.Now()

	var (
		wg        sync.WaitGroup
		mags      []domain.MagReading
		plasmas   []domain.PlasmaReading
		magErr    error
		plasmaErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		mags, magErr = p.source.FetchMagnetometer(ctx)
	}()
	go func() {
		defer wg.Done()
		plasmas, plasmaErr = p.source.FetchPlasma(ctx)
	}()
	wg.Wait()

	if magErr != nil || plasmaErr != nil {
		return errors.Join(magErr, plasmaErr)
	}

	records := domain.MergeReadings(mags, plasmas)
	p.metrics.RecordsMerged.Observe(float64(len(records)))

	if p.loader != nil && len(records) > 0 {
		if err := p.loader.LoadBatch(ctx, records); err != nil {
			p.metrics.PublishErrors.Inc()
			return fmt.Errorf("publish records: %w", err)
		}
		p.metrics.RecordsPublished.Add(float64(len(records)))
	}

	if len(records) > 0 {
		p.latest.Store(&records)
	}
	p.ready.Store(true)
	p.metrics.CycleDuration.Observe(p.clock.Now().Sub(start).Seconds())
	return nil
}

// sleep waits d on the pipeline clock. Returns false if the context was
// cancelled first.
func (p *Pipeline) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := p.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
