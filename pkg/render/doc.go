// Package render turns a laid out time lane into output formats.
//
// # Overview
//
// A [Chart] is an immutable snapshot of a grouped lane: item bounds, parent
// bands and grandparent headers, plus the time window the lane was
// projected over. Snapshots are safe to share between goroutines, so the
// pipeline renders several formats of one chart in parallel.
//
//	g := gantt.New(loop, window, cfg, item.StartOf, item.EndOf, item.ParentKey, nil)
//	g.SetItems(items)
//	chart := render.FromGantt(g)
//
// Key subpackages:
//   - [styles]: Visual styles (simple, banded)
//   - [sink]: Output formats (SVG, JSON, text)
//
// Every sink paints through [draw.Visible] over a [surface.Virtual]
// viewport, so items outside the viewport are culled before any output is
// written.
//
// [styles]: github.com/matzehuels/timelane/pkg/render/styles
// [sink]: github.com/matzehuels/timelane/pkg/render/sink
// [draw.Visible]: github.com/matzehuels/timelane/pkg/draw#Visible
// [surface.Virtual]: github.com/matzehuels/timelane/pkg/surface#Virtual
package render
