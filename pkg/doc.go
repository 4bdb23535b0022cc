// Package pkg provides the core libraries for timelane time lane charts.
//
// # Overview
//
// Timelane lays out time-ranged items as bars on a shared horizontal time
// axis and packs them into as few rows as it can, the way a Gantt chart or a
// room booking planner does. The pkg directory is organized into three
// areas:
//
//  1. The layout engine: [timewindow], [projector], [tetris], [layout],
//     [gantt], [frame], [surface] and [draw]
//  2. The pipeline around it: [item], [itemio], [source], [render] and
//     [pipeline]
//  3. Infrastructure: [cache], [errors], [observability] and [buildinfo]
//
// # Architecture
//
// The typical data flow through timelane:
//
//	item file / MongoDB collection
//	         ↓
//	    [source] package (load items)
//	         ↓
//	    [gantt] package (group, project and pack into rows)
//	         ↓
//	    [render] package (snapshot the lane, cull to the viewport)
//	         ↓
//	    SVG/JSON/text output
//
// The engine never lays out eagerly. Every mutation marks the lane dirty
// and a [frame.Loop] pulse runs at most one pass per frame. Positions
// themselves are computed lazily, so a host that only reads the first rows
// of a long lane only pays for those.
//
// # Quick Start
//
// Lay out items and render an SVG:
//
//	import (
//	    "github.com/matzehuels/timelane/pkg/itemio"
//	    "github.com/matzehuels/timelane/pkg/pipeline"
//	)
//
//	items, _ := itemio.ReadFile("plan.yaml")
//
//	opts := pipeline.Options{}
//	opts.Window.Start = "2024-03-01"
//	opts.Window.End = "2024-03-31"
//	opts.Render.Formats = []string{pipeline.FormatSVG}
//	_ = opts.ValidateAndSetDefaults()
//
//	chart, _ := pipeline.GenerateLayout(items, opts)
//	artifacts, _ := pipeline.Render(ctx, chart, opts.Render.Formats, opts)
//
// Or host the engine directly and drive it frame by frame:
//
//	g, loop, _ := pipeline.NewGantt(items, opts)
//	g.SetItems(items)
//	loop.Pulse()
//	b := g.Position(0)
//
// # Package Organization
//
// Engine packages have no dependencies outside the standard library and
// never log or return errors for misuse. The pipeline packages wrap every
// failure in an [errors.Error] with a code the CLI and the preview
// server map to exit messages and HTTP statuses.
package pkg
