package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/porenet/pkg/cache"
	"github.com/matzehuels/porenet/pkg/errors"
	"github.com/matzehuels/porenet/pkg/observability"
	"github.com/matzehuels/porenet/pkg/sweep"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute sweeps every configured variant, serving the series from the
// cache when the same options ran before.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		ID:      uuid.NewString(),
		Options: opts,
	}

	start := time.Now()
	series, hit, err := r.SweepWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Series = series
	result.CacheInfo = CacheInfo{Key: r.Keyer.SweepKey(opts.Hash()), Hit: hit}
	result.Stats = Stats{
		Variants:  len(series),
		Steps:     opts.Steps,
		SweepTime: time.Since(start),
	}
	for _, s := range series {
		result.Stats.Pores += s.Final().Total
	}
	result.CreatedAt = time.Now().UTC()

	r.Logger.Info("swept variants",
		"variants", result.Stats.Variants,
		"steps", result.Stats.Steps,
		"cached", hit,
		"duration", result.Stats.SweepTime.Round(time.Millisecond))

	return result, nil
}

// SweepWithCacheInfo runs all variants with caching and returns whether the
// series came from the cache.
func (r *Runner) SweepWithCacheInfo(ctx context.Context, opts Options) ([]*sweep.Series, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.SweepKey(opts.Hash())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var series []*sweep.Series
			if err := json.Unmarshal(data, &series); err == nil {
				observability.Cache().OnCacheHit(ctx, "sweep")
				r.Logger.Debug("sweep cache hit", "key", cacheKey)
				return series, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", cacheKey, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "sweep")
	}

	series, err := sweep.RunAll(ctx, opts.Variants, opts.SweepConfig())
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, errors.FromContext(err, "sweep interrupted")
		}
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "sweep")
	}

	if data, err := json.Marshal(series); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLSweep); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "sweep", len(data))
		}
	}

	return series, false, nil
}

// Sweep is a convenience wrapper that calls SweepWithCacheInfo and discards the cache hit info.
func (r *Runner) Sweep(ctx context.Context, opts Options) ([]*sweep.Series, error) {
	series, _, err := r.SweepWithCacheInfo(ctx, opts)
	return series, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
