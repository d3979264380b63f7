// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about sweeps, cache operations, and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup. [LogHooks] implements every
// interface and writes events to a charmbracelet logger:
//
//	h := observability.NewLogHooks(logger)
//	observability.SetSweepHooks(h)
//	observability.SetCacheHooks(h)
//
// Libraries call hooks to emit events:
//
//	observability.Sweep().OnSweepStart(ctx, variant, nodes)
//	// ... sweep ...
//	observability.Sweep().OnSweepComplete(ctx, variant, steps, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Sweep Hooks
// =============================================================================

// SweepHooks receives events from water table sweeps.
type SweepHooks interface {
	OnSweepStart(ctx context.Context, variant string, nodes int)
	OnStep(ctx context.Context, variant string, level, fraction float64)
	OnSweepComplete(ctx context.Context, variant string, steps int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSweepHooks ignores every sweep event.
type NoopSweepHooks struct{}

func (NoopSweepHooks) OnSweepStart(context.Context, string, int)                          {}
func (NoopSweepHooks) OnStep(context.Context, string, float64, float64)                   {}
func (NoopSweepHooks) OnSweepComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

type registry struct {
	mu    sync.RWMutex
	sweep SweepHooks
	cache CacheHooks
	http  HTTPHooks
}

var hooks = newRegistry()

func newRegistry() *registry {
	return &registry{
		sweep: NoopSweepHooks{},
		cache: NoopCacheHooks{},
		http:  NoopHTTPHooks{},
	}
}

func (r *registry) update(fn func(*registry)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r)
}

// SetSweepHooks registers sweep hooks. nil is ignored. Call before any sweep
// runs.
func SetSweepHooks(h SweepHooks) {
	if h != nil {
		hooks.update(func(r *registry) { r.sweep = h })
	}
}

// SetCacheHooks registers cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		hooks.update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers HTTP hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		hooks.update(func(r *registry) { r.http = h })
	}
}

// Sweep returns the registered sweep hooks.
func Sweep() SweepHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.sweep
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Reset restores the no-op hooks. Tests that register hooks should defer it.
func Reset() {
	hooks.update(func(r *registry) {
		r.sweep = NoopSweepHooks{}
		r.cache = NoopCacheHooks{}
		r.http = NoopHTTPHooks{}
	})
}
