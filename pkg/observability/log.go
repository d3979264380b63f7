package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes sweep, cache and HTTP events to a logger at debug level.
// Per-step events are not logged.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to logger, prefixed with "hooks".
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

// Register installs h for every event category.
func (h *LogHooks) Register() {
	SetSweepHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnSweepStart(_ context.Context, variant string, nodes int) {
	h.logger.Debug("sweep start", "variant", variant, "nodes", nodes)
}

func (h *LogHooks) OnStep(context.Context, string, float64, float64) {}

func (h *LogHooks) OnSweepComplete(_ context.Context, variant string, steps int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("sweep failed", "variant", variant, "steps", steps, "err", err)
		return
	}
	h.logger.Debug("sweep done", "variant", variant, "steps", steps, "duration", d.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(context.Context, string, string) {}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "path", path, "status", status, "duration", d.Round(time.Microsecond))
}
