// Package sink provides output format renderers for time lane charts.
//
// # Overview
//
// A "sink" transforms a [render.Chart] into a final output format:
//
//   - SVG: Scalable vector graphics, optionally interactive
//   - JSON: Positioned items and bands for external tools
//   - Text: Terminal rendering, one line per lane row
//
// Every sink sizes a [surface.Virtual] for the chart and paints through
// [draw.Visible], so [WithViewport] and [WithScroll] cull items in all
// formats the same way. Without a viewport the whole chart is rendered.
//
//	svg := sink.RenderSVG(chart,
//	    sink.WithStyle("banded", styles.Banded{}),
//	    sink.WithViewport(800, 400),
//	    sink.WithScroll(0.5),
//	)
//
// # Options
//
//   - [WithViewport]: Physical size of the output
//   - [WithScroll]: Scroll fraction of the scrollable height
//   - [WithStyle]: SVG style ([styles.Simple] or [styles.Banded])
//   - [WithTooltips]: Hover titles with the item's time span
//   - [WithInteraction]: Hover highlighting script in SVG
//   - [WithColumns], [WithColor]: Text sink width and ANSI colors
//
// [render.Chart]: github.com/matzehuels/timelane/pkg/render#Chart
// [surface.Virtual]: github.com/matzehuels/timelane/pkg/surface#Virtual
// [draw.Visible]: github.com/matzehuels/timelane/pkg/draw#Visible
// [styles.Simple]: github.com/matzehuels/timelane/pkg/render/styles#Simple
// [styles.Banded]: github.com/matzehuels/timelane/pkg/render/styles#Banded
package sink
