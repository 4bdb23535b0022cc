package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/timelane/pkg/observability"
)

// debugHooks forwards engine, pipeline and cache events to the debug log.
// HTTP events are left out since the preview server logs its own requests.
type debugHooks struct {
	logger *log.Logger
}

func (h debugHooks) OnLayoutStart(items int) {
	h.logger.Debug("layout pass", "items", items)
}

func (h debugHooks) OnLayoutComplete(items, rows int, d time.Duration) {
	h.logger.Debug("layout done", "items", items, "rows", rows, "took", d.Round(time.Microsecond))
}

func (h debugHooks) OnDraw(painted, skipped int) {
	h.logger.Debug("draw", "painted", painted, "culled", skipped)
}

func (h debugHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("loading items", "source", source)
}

func (h debugHooks) OnLoadComplete(_ context.Context, source string, items int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "source", source, "error", err)
		return
	}
	h.logger.Debug("items loaded", "source", source, "items", items, "took", d.Round(time.Millisecond))
}

func (h debugHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("rendering", "formats", formats)
}

func (h debugHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render done", "formats", formats, "took", d.Round(time.Millisecond), "error", err)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

// installDebugHooks routes hook events to l, or back to the no-op hooks
// when l does not log at debug level.
func installDebugHooks(l *log.Logger) {
	if l.GetLevel() > log.DebugLevel {
		observability.Reset()
		return
	}
	h := debugHooks{logger: l}
	observability.SetLayoutHooks(h)
	observability.SetDrawHooks(h)
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}
