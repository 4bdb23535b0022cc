package draw

import (
	"github.com/matzehuels/timelane/pkg/frame"
	"github.com/matzehuels/timelane/pkg/layout"
	"github.com/matzehuels/timelane/pkg/surface"
)

// Canvas is the host drawing target.
type Canvas interface {
	// Clear erases r, in canvas coordinates, before a redraw.
	Clear(r layout.Rect)
}

// Lane is the part of a lane a Drawer reads.
type Lane[C comparable] interface {
	Items() []C
	Position(i int) layout.Bounds
	Width() float64
	SetWidth(w float64)
	SetHeight(h float64)
	OnAfterLayout(fn func(layout.State)) (remove func())
}

// Drawer redraws a lane's visible items onto a canvas. Redraw requests are
// coalesced per frame, and every completed lane layout redraws at once.
type Drawer[C comparable] struct {
	lane   Lane[C]
	canvas Canvas
	paint  PaintFunc[C]
	dirty  *frame.DirtyMarker

	area             layout.Rect
	originX, originY float64
	draws            int
	lastPainted      int

	removeAfter func()
}

// NewDrawer binds lane, canvas and paint. area is the canvas drawing area.
func NewDrawer[C comparable](sched frame.Scheduler, lane Lane[C], canvas Canvas, area layout.Rect, paint PaintFunc[C]) *Drawer[C] {
	d := &Drawer[C]{lane: lane, canvas: canvas, paint: paint, area: area}
	d.dirty = frame.NewDirtyMarker(sched, d.Draw)
	d.removeAfter = lane.OnAfterLayout(func(layout.State) { d.Draw() })
	return d
}

// SetOrigin sets the logical point drawn at the canvas top left.
func (d *Drawer[C]) SetOrigin(x, y float64) {
	if x == d.originX && y == d.originY {
		return
	}
	d.originX, d.originY = x, y
	d.MarkDirty()
}

// Origin returns the logical point drawn at the canvas top left.
func (d *Drawer[C]) Origin() (x, y float64) { return d.originX, d.originY }

// SetArea changes the canvas drawing area.
func (d *Drawer[C]) SetArea(r layout.Rect) {
	if r == d.area {
		return
	}
	d.area = r
	d.MarkDirty()
}

// Area returns the canvas drawing area.
func (d *Drawer[C]) Area() layout.Rect { return d.area }

// MarkDirty schedules one redraw on the next frame.
func (d *Drawer[C]) MarkDirty() { d.dirty.MarkDirty() }

// IsDirty reports whether a redraw is pending.
func (d *Drawer[C]) IsDirty() bool { return d.dirty.IsDirty() }

// Draw clears the area and paints the visible items now, superseding any
// pending redraw.
func (d *Drawer[C]) Draw() {
	d.dirty.MarkClean()
	if d.canvas != nil {
		d.canvas.Clear(d.area)
	}
	d.lastPainted = Visible(d.lane.Items(), d.lane.Position, d.area, d.originX, d.originY, d.paint)
	d.draws++
}

// DrawCount returns the number of completed draws.
func (d *Drawer[C]) DrawCount() int { return d.draws }

// LastPainted returns the number of items painted by the latest draw.
func (d *Drawer[C]) LastPainted() int { return d.lastPainted }

// Close detaches the drawer from its lane and cancels pending redraws.
func (d *Drawer[C]) Close() {
	d.removeAfter()
	d.dirty.Close()
}

// Refresher returns the refresh callback connecting surface s to a lane
// and its drawer. Scrolls move the drawer origin. Size changes resize the
// lane and the drawing area, and when that did not already redraw the
// drawer is marked dirty.
func Refresher[C comparable](s *surface.Virtual, lane Lane[C], d *Drawer[C]) surface.RefreshFunc {
	return func(virtualWidth, virtualHeight, viewportY float64, sizeChanged bool) {
		before := d.DrawCount()
		d.SetOrigin(d.originX, viewportY)
		if sizeChanged {
			lane.SetWidth(virtualWidth)
			lane.SetHeight(virtualHeight)
			d.SetArea(s.VisibleRect())
		}
		if sizeChanged && d.DrawCount() == before {
			d.MarkDirty()
		}
	}
}
