// Package surface maps a tall logical drawing area onto a viewport-sized
// physical one.
//
// A lane can be far taller than anything a host can allocate. [Virtual]
// keeps the logical size (the lane's full content) apart from the physical
// size, which never exceeds the viewport. Scrolling only moves a vertical
// origin: the physical surface is placed at that origin so it stays still
// in the viewport, and drawing is translated by the same amount. A scroll
// therefore repaints without resizing anything.
//
// The coordinate law: a logical point (x, y) lands on the physical surface
// at (x, y - OriginY()), and it is visible when that lies inside
// [Virtual.VisibleRect].
package surface

import "github.com/matzehuels/timelane/pkg/layout"

// RefreshFunc repaints the physical surface. virtualWidth and virtualHeight
// are the logical size, viewportY the logical y shown at the physical top.
// sizeChanged is true when the physical surface was resized.
type RefreshFunc func(virtualWidth, virtualHeight, viewportY float64, sizeChanged bool)

// Virtual is a virtualized vertical scroll surface. Its invariants are
// PhysicalHeight <= viewport height and 0 <= OriginY <= logical height -
// physical height.
type Virtual struct {
	refresh RefreshFunc

	viewportWidth, viewportHeight float64
	logicalWidth, logicalHeight   float64
	physicalWidth, physicalHeight float64

	vValue  float64
	originY float64
}

// New returns an empty surface calling refresh whenever it needs a repaint.
// A nil refresh is allowed for hosts that poll.
func New(refresh RefreshFunc) *Virtual {
	return &Virtual{refresh: refresh}
}

// SetRefresh replaces the refresh callback.
func (v *Virtual) SetRefresh(refresh RefreshFunc) { v.refresh = refresh }

// SetViewport sets the size of the visible area.
func (v *Virtual) SetViewport(w, h float64) {
	if w == v.viewportWidth && h == v.viewportHeight {
		return
	}
	v.viewportWidth, v.viewportHeight = max(w, 0), max(h, 0)
	v.resize()
}

// SetLogicalSize sets the full content size. A zero width follows the
// viewport width.
func (v *Virtual) SetLogicalSize(w, h float64) {
	if w == v.logicalWidth && h == v.logicalHeight {
		return
	}
	v.logicalWidth, v.logicalHeight = max(w, 0), max(h, 0)
	v.resize()
}

// SetLogicalHeight sets the full content height, keeping the width.
func (v *Virtual) SetLogicalHeight(h float64) { v.SetLogicalSize(v.logicalWidth, h) }

// SetVValue scrolls to fraction f of the scrollable range, clamped to
// [0, 1]. The physical surface keeps its size.
func (v *Virtual) SetVValue(f float64) {
	v.vValue = min(max(f, 0), 1)
	v.updateOrigin()
	v.callRefresh(false)
}

// VValue returns the scroll fraction.
func (v *Virtual) VValue() float64 { return v.vValue }

// ScrollBy scrolls by dy logical units.
func (v *Virtual) ScrollBy(dy float64) {
	span := v.scrollable()
	if span <= 0 {
		return
	}
	v.SetVValue((v.originY + dy) / span)
}

// OriginY returns the logical y mapped to the top of the physical surface.
func (v *Virtual) OriginY() float64 { return v.originY }

// PlacementY returns the offset at which hosts place the physical surface
// inside the scrolled content so that it stays still in the viewport.
func (v *Virtual) PlacementY() float64 { return v.originY }

// PhysicalSize returns the size of the physical surface.
func (v *Virtual) PhysicalSize() (w, h float64) { return v.physicalWidth, v.physicalHeight }

// LogicalSize returns the full content size.
func (v *Virtual) LogicalSize() (w, h float64) { return v.logicalWidth, v.logicalHeight }

// VisibleRect returns the drawable area in physical coordinates.
func (v *Virtual) VisibleRect() layout.Rect {
	return layout.Rect{Width: v.physicalWidth, Height: v.physicalHeight}
}

// LogicalVisibleRect returns the visible area in logical coordinates.
func (v *Virtual) LogicalVisibleRect() layout.Rect {
	return layout.Rect{Y: v.originY, Width: v.physicalWidth, Height: v.physicalHeight}
}

// ToPhysical maps a logical point onto the physical surface.
func (v *Virtual) ToPhysical(x, y float64) (float64, float64) { return x, y - v.originY }

// ToLogical maps a physical point back to logical coordinates.
func (v *Virtual) ToLogical(x, y float64) (float64, float64) { return x, y + v.originY }

func (v *Virtual) scrollable() float64 { return v.logicalHeight - v.physicalHeight }

func (v *Virtual) updateOrigin() {
	v.originY = v.vValue * max(v.scrollable(), 0)
}

func (v *Virtual) resize() {
	w := min(v.viewportWidth, v.logicalWidth)
	if v.logicalWidth == 0 {
		w = v.viewportWidth
	}
	h := min(v.viewportHeight, v.logicalHeight)
	changed := w != v.physicalWidth || h != v.physicalHeight
	v.physicalWidth, v.physicalHeight = w, h
	v.updateOrigin()
	v.callRefresh(changed)
}

func (v *Virtual) callRefresh(sizeChanged bool) {
	if v.refresh == nil {
		return
	}
	w := v.logicalWidth
	if w == 0 {
		w = v.physicalWidth
	}
	v.refresh(w, v.logicalHeight, v.originY, sizeChanged)
}
