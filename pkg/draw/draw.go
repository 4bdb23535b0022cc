// Package draw paints the visible part of a lane.
//
// [Visible] walks items, translates each item's logical bounds into canvas
// space and calls the paint callback only for items that intersect the
// visible area. Paint callbacks may be expensive (text measurement,
// clipping), and lanes can hold thousands of items, so culling happens
// before the callback, never inside it.
//
// Paint callbacks receive a translated copy of the bounds. The lane's
// logical positions are never rewritten.
package draw

import (
	"github.com/matzehuels/timelane/pkg/layout"
	"github.com/matzehuels/timelane/pkg/observability"
)

// PaintFunc draws one item at canvas bounds b. It must not mutate the
// layout.
type PaintFunc[C any] func(item C, b layout.Bounds)

// Visible paints every item whose bounds, translated by (-originX,
// -originY), intersect visible. It returns the number of items painted.
func Visible[C any](items []C, positionOf func(int) layout.Bounds, visible layout.Rect,
	originX, originY float64, paint PaintFunc[C]) int {
	painted := 0
	for i, it := range items {
		b := positionOf(i).Translate(-originX, -originY)
		if !b.Intersects(visible) {
			continue
		}
		paint(it, b)
		painted++
	}
	observability.Draw().OnDraw(painted, len(items)-painted)
	return painted
}
