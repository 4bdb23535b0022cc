package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/timelane/pkg/render"
	"github.com/matzehuels/timelane/pkg/render/sink"
	"github.com/matzehuels/timelane/pkg/render/styles"
)

// Render generates output artifacts in the requested formats. Formats
// render concurrently; a chart is immutable, so sinks share it freely.
func Render(ctx context.Context, c *render.Chart, formats []string, opts Options) (map[string][]byte, error) {
	sinkOpts, err := buildSinkOptions(opts)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(formats))
	g, ctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		format := format
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := renderFormat(c, format, sinkOpts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(c *render.Chart, format string, opts []sink.Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(c, opts...), nil
	case FormatJSON:
		return sink.RenderJSON(c, opts...)
	case FormatText:
		return sink.RenderText(c, opts...), nil
	}
	return nil, ValidateFormat(format)
}

// buildSinkOptions builds sink options shared by every format.
func buildSinkOptions(opts Options) ([]sink.Option, error) {
	style, err := styles.ByName(opts.Render.Style)
	if err != nil {
		return nil, err
	}
	out := []sink.Option{
		sink.WithStyle(opts.Render.Style, style),
		sink.WithViewport(opts.Render.ViewportWidth, opts.Render.ViewportHeight),
		sink.WithScroll(opts.Render.Scroll),
	}
	if opts.Render.Tooltips {
		out = append(out, sink.WithTooltips())
	}
	if opts.Render.Interactive {
		out = append(out, sink.WithInteraction())
	}
	if opts.Render.Columns > 0 {
		out = append(out, sink.WithColumns(opts.Render.Columns))
	}
	if opts.Render.Color {
		out = append(out, sink.WithColor())
	}
	return out, nil
}
