package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by logging at debug level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that write to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnDecomposeStart(_ context.Context, step int, colors string) {
	h.logger.Debug("decompose started", "step", step, "colors", colors)
}

func (h *LogHooks) OnDecomposeComplete(_ context.Context, step, components int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("decompose failed", "step", step, "duration", d, "err", err)
		return
	}
	h.logger.Debug("decompose complete", "step", step, "components", components, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, engine string, trees int) {
	h.logger.Debug("layout started", "engine", engine, "trees", trees)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, engine string, d time.Duration, err error) {
	h.logger.Debug("layout complete", "engine", engine, "duration", d, "err", err)
}

func (h *LogHooks) OnCombineStart(_ context.Context, pages int) {
	h.logger.Debug("combine started", "pages", pages)
}

func (h *LogHooks) OnCombineComplete(_ context.Context, pages int, d time.Duration, err error) {
	h.logger.Debug("combine complete", "pages", pages, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
