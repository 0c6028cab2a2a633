package loader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"
	"github.com/simaogato/ipca-api/internal/domain"
)

// SeriesStart is the first month of the published IPCA number index (base Dec/1993 = 100)
var SeriesStart = domain.NewPeriod(12, 1993)

// Options configures how the series is loaded
type Options struct {
	Attempts int           // Total provider calls before giving up
	Delay    time.Duration // Delay before the second attempt, doubled afterwards
	MaxDelay time.Duration
	Start    domain.Period // Points before this period are dropped
	Clock    clock.Clock
	Logger   *slog.Logger
}

// SeriesLoader performs the one-time startup load of the IPCA series
type SeriesLoader struct {
	provider domain.SeriesProvider
	opts     Options
}

// NewSeriesLoader creates a new SeriesLoader instance
func NewSeriesLoader(provider domain.SeriesProvider, opts Options) *SeriesLoader {
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}
	if opts.Delay <= 0 {
		opts.Delay = time.Second
	}
	if opts.Clock == nil {
		opts.Clock = clock.WallClock
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &SeriesLoader{
		provider: provider,
		opts:     opts,
	}
}

// Load fetches the series and builds the immutable domain.IndexSeries
// The provider call is retried up to Attempts times; an invalid series is
// not retried since refetching the same data would not fix it.
func (l *SeriesLoader) Load(ctx context.Context) (*domain.IndexSeries, error) {
	var raw []domain.IndexPoint

	err := retry.Call(retry.CallArgs{
		Func: func() error {
			points, err := l.provider.FetchSeries(ctx)
			if err != nil {
				return err
			}
			raw = points
			return nil
		},
		NotifyFunc: func(err error, attempt int) {
			l.opts.Logger.Warn("failed to fetch IPCA series",
				"source", l.provider.Name(),
				"attempt", attempt,
				"max_attempts", l.opts.Attempts,
				"error", err,
			)
		},
		Attempts:    l.opts.Attempts,
		Delay:       l.opts.Delay,
		MaxDelay:    l.opts.MaxDelay,
		BackoffFunc: retry.DoubleDelay,
		Clock:       l.opts.Clock,
		Stop:        ctx.Done(),
	})
	if err != nil {
		if retry.IsAttemptsExceeded(err) {
			err = retry.LastError(err)
		}
		return nil, fmt.Errorf("failed to load IPCA series from %s: %w", l.provider.Name(), err)
	}

	series, err := domain.NewIndexSeries(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid IPCA series from %s: %w", l.provider.Name(), err)
	}

	if l.opts.Start != (domain.Period{}) {
		series, err = series.Since(l.opts.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid IPCA series from %s: %w", l.provider.Name(), err)
		}
	}

	first, last := series.First().Period, series.Last().Period
	l.opts.Logger.Info("IPCA series loaded",
		"source", l.provider.Name(),
		"points", series.Len(),
		"first", first.String(),
		"last", last.String(),
	)

	return series, nil
}
