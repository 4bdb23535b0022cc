package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/timelane/pkg/cache"
	"github.com/matzehuels/timelane/pkg/item"
	"github.com/matzehuels/timelane/pkg/itemio"
	"github.com/matzehuels/timelane/pkg/observability"
	"github.com/matzehuels/timelane/pkg/render"
	"github.com/matzehuels/timelane/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the viewer and the server all use it.
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

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, src source.Source, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	items, loadHit, err := r.LoadWithCacheInfo(ctx, src, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Items = items
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.ItemCount = len(items)
	result.CacheInfo.LoadHit = loadHit

	r.Logger.Info("loaded items",
		"source", src.Kind(),
		"items", len(items),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	chart, hash, layoutHit, err := r.layout(ctx, items, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Chart = chart
	result.ItemsHash = hash
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.RowCount = chart.Rows
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"rows", chart.Rows,
		"height", chart.Height,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, chart, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Render.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads items and returns cache hit info. Only remote
// sources are cached; files are read fresh so edits show up immediately.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, src source.Source, opts Options) ([]*item.Item, bool, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, src.Kind())
	began := time.Now()

	cacheable := src.Kind() != "file" && src.Kind() != "static" && !cache.Disabled(r.Cache)
	cacheKey := r.Keyer.SourceKey(src.Kind(), src.Ref())

	if cacheable && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			items, err := itemio.Read(bytes.NewReader(data), itemio.FormatJSON)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "source")
				hooks.OnLoadComplete(ctx, src.Kind(), len(items), time.Since(began), nil)
				return items, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "source")
	}

	items, err := src.Load(ctx)
	hooks.OnLoadComplete(ctx, src.Kind(), len(items), time.Since(began), err)
	if err != nil {
		return nil, false, err
	}

	if cacheable {
		var buf bytes.Buffer
		if err := itemio.WriteJSON(items, &buf); err == nil {
			r.set(ctx, "source", cacheKey, buf.Bytes(), cache.TTLSource)
		}
	}
	return items, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, src source.Source, opts Options) ([]*item.Item, error) {
	items, _, err := r.LoadWithCacheInfo(ctx, src, opts)
	return items, err
}

// LayoutWithCacheInfo lays out items with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, items []*item.Item, opts Options) (*render.Chart, bool, error) {
	chart, _, hit, err := r.layout(ctx, items, opts)
	return chart, hit, err
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, items []*item.Item, opts Options) (*render.Chart, error) {
	chart, _, err := r.LayoutWithCacheInfo(ctx, items, opts)
	return chart, err
}

func (r *Runner) layout(ctx context.Context, items []*item.Item, opts Options) (*render.Chart, string, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, "", false, err
	}
	r.applyLogger(&opts)

	hash, err := ItemsHash(items)
	if err != nil {
		return nil, "", false, err
	}
	if cache.Disabled(r.Cache) {
		chart, err := GenerateLayout(items, opts)
		return chart, hash, false, err
	}
	cacheKey := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := render.UnmarshalChart(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, hash, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	chart, err := GenerateLayout(items, opts)
	if err != nil {
		return nil, "", false, err
	}
	if data, err := render.MarshalChart(chart); err == nil {
		r.set(ctx, "layout", cacheKey, data, cache.TTLLayout)
	}
	return chart, hash, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// Only formats missing from the cache are rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, chart *render.Chart, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if cache.Disabled(r.Cache) {
		artifacts, err := r.renderMissing(ctx, chart, opts.Render.Formats, opts)
		return artifacts, false, err
	}

	chartData, err := render.MarshalChart(chart)
	if err != nil {
		return nil, false, fmt.Errorf("serialize chart for cache key: %w", err)
	}
	chartHash := cache.Hash(chartData)

	artifacts := make(map[string][]byte, len(opts.Render.Formats))
	var missing []string
	for _, format := range opts.Render.Formats {
		key := r.Keyer.ArtifactKey(chartHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	rendered, err := r.renderMissing(ctx, chart, missing, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(chartHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, "artifact", key, data, cache.TTLArtifact)
		artifacts[format] = data
	}
	return artifacts, false, nil
}

func (r *Runner) renderMissing(ctx context.Context, chart *render.Chart, formats []string, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	began := time.Now()
	rendered, err := Render(ctx, chart, formats, opts)
	hooks.OnRenderComplete(ctx, formats, time.Since(began), err)
	return rendered, err
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, chart *render.Chart, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, chart, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// ItemsHash returns the content hash of items, independent of source.
func ItemsHash(items []*item.Item) (string, error) {
	var buf bytes.Buffer
	if err := itemio.WriteJSON(items, &buf); err != nil {
		return "", fmt.Errorf("serialize items for cache key: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}

// set stores an entry, logging failures. A cache write never fails a run.
func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
