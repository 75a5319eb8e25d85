package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/GalacticGlum/FreeCell/pkg/cache"
	"github.com/GalacticGlum/FreeCell/pkg/observability"
	"github.com/GalacticGlum/FreeCell/pkg/stack"
)

// layoutKeyType is the key category reported to cache hooks.
const layoutKeyType = "layout"

// Runner encapsulates layout computation with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
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

// Close releases the runner's cache backend.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// ComputeLayout computes a layout artifact for the given options.
func (r *Runner) ComputeLayout(ctx context.Context, opts Options) (stack.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, opts)
	return l, err
}

// ComputeLayoutWithCacheInfo computes a layout and reports whether it was
// served from cache. Cached artifacts keep their original ID, so identical
// inputs resolve to a stable artifact identity. Cache failures are logged
// and degrade to recomputation; they never fail the request.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, opts Options) (stack.Layout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return stack.Layout{}, false, err
	}

	calc, err := stack.New(opts.Geometry(), opts.Visibility())
	if err != nil {
		return stack.Layout{}, false, err
	}

	key := r.Keyer.LayoutKey(opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Debug("layout cache read failed", "err", err)
		} else if hit {
			if l, err := stack.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, layoutKeyType)
				return l, true, nil
			}
			// Corrupt entry: drop it and recompute
			_ = r.Cache.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss(ctx, layoutKeyType)
	}

	observability.Layout().OnLayoutStart(ctx, opts.CardCount)
	start := time.Now()
	l, err := calc.Layout(opts.CardCount)
	observability.Layout().OnLayoutComplete(ctx, opts.CardCount, time.Since(start), err)
	if err != nil {
		return stack.Layout{}, false, err
	}

	l.ID = uuid.NewString()

	if data, err := stack.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, key, data, 0); err != nil {
			r.Logger.Debug("layout cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, layoutKeyType, len(data))
		}
	}

	r.Logger.Debug("computed layout",
		"cards", opts.CardCount,
		"id", l.ID,
		"duration", time.Since(start))

	return l, false, nil
}
