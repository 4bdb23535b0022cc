package gantt

import (
	"github.com/matzehuels/timelane/pkg/frame"
	"github.com/matzehuels/timelane/pkg/layout"
	"github.com/matzehuels/timelane/pkg/timewindow"
)

// Config extends the lane configuration with grouping metrics.
type Config struct {
	layout.Config

	// GrandparentHeaderHeight is the band reserved above each grandparent
	// group. It only applies when a grandparent key is set.
	GrandparentHeaderHeight float64

	// DisablePacking puts every parent on a single row.
	DisablePacking bool
}

// Layout is a lane whose items are grouped under parents and grandparents.
// Each parent packs its items independently and parents stack vertically in
// order of first appearance.
type Layout[C comparable] struct {
	*layout.Lane[C]
	g *grouping[C]
}

// New returns a gantt layout over window. parentKey maps an item to its
// parent and grandparentKey a parent to its grandparent; either may be nil,
// which puts everything in one bucket. Keys must be comparable.
func New[C comparable](sched frame.Scheduler, window *timewindow.Window, cfg Config,
	startOf, endOf layout.TimeFunc[C], parentKey func(C) any, grandparentKey func(any) any) *Layout[C] {
	g := newGrouping[C](cfg.Unit)
	g.parentKey = parentKey
	g.grandparentKey = grandparentKey
	g.headerHeight = cfg.GrandparentHeaderHeight
	g.packing = !cfg.DisablePacking
	return &Layout[C]{
		Lane: layout.NewLane[C](sched, window, cfg.Config, startOf, endOf, g),
		g:    g,
	}
}

// SetItems groups items so each parent's items are contiguous, keeping
// their relative order, and hands them to the lane. Items returns the
// grouped order.
func (l *Layout[C]) SetItems(items []C) {
	l.g.generation++
	l.Lane.SetItems(l.g.group(items))
}

// SetParentKey changes the parent grouping.
func (l *Layout[C]) SetParentKey(fn func(C) any) {
	l.g.parentKey = fn
	l.regroup()
}

// SetGrandparentKey changes the grandparent grouping.
func (l *Layout[C]) SetGrandparentKey(fn func(any) any) {
	l.g.grandparentKey = fn
	l.regroup()
}

func (l *Layout[C]) regroup() {
	l.g.generation++
	l.Lane.SetItems(l.g.group(l.Lane.Items()))
}

// SetGrandparentHeaderHeight changes the header band height.
func (l *Layout[C]) SetGrandparentHeaderHeight(h float64) {
	l.g.headerHeight = h
	for _, gr := range l.g.grandparents {
		gr.header = h
	}
	l.Invalidate()
}

// HasHeaders reports whether grandparent header bands are reserved.
func (l *Layout[C]) HasHeaders() bool { return l.g.hasHeaders() }

// TetrisPacking reports whether parents pack their items.
func (l *Layout[C]) TetrisPacking() bool { return l.g.packing }

// SetTetrisPacking turns packing on or off for every parent.
func (l *Layout[C]) SetTetrisPacking(on bool) {
	if on == l.g.packing {
		return
	}
	l.g.setPacking(on)
	l.Invalidate()
}

// ensurePass completes the current pass so the tree and row offsets are
// current.
func (l *Layout[C]) ensurePass() {
	if n := l.Len(); n > 0 {
		l.Position(n - 1)
	}
}

// ParentRows returns the parent rows in display order.
func (l *Layout[C]) ParentRows() []*ParentRow[C] {
	l.ensurePass()
	return l.g.parents
}

// GrandparentRows returns the grandparent rows in display order.
func (l *Layout[C]) GrandparentRows() []*GrandparentRow[C] {
	l.ensurePass()
	return l.g.grandparents
}

// ParentRow returns the row of parent key.
func (l *Layout[C]) ParentRow(key any) (*ParentRow[C], bool) {
	l.ensurePass()
	p, ok := l.g.byKey[key]
	return p, ok
}

// ParentRowOf returns the parent row holding item i.
func (l *Layout[C]) ParentRowOf(i int) *ParentRow[C] {
	l.Position(i)
	return l.g.itemParent[i]
}

// ItemsInRow returns the lane indices of the items on a parent's local row.
func (l *Layout[C]) ItemsInRow(parentKey any, row int) []int {
	p, ok := l.ParentRow(parentKey)
	if !ok {
		return nil
	}
	return p.ItemsInRow(row)
}

// VisibleParents calls fn for every parent row whose band intersects r.
func (l *Layout[C]) VisibleParents(r layout.Rect, fn func(*ParentRow[C])) {
	for _, p := range l.ParentRows() {
		if p.Bounds().Intersects(r) {
			fn(p)
		}
	}
}

// VisibleGrandparents calls fn for every grandparent row whose band
// intersects r.
func (l *Layout[C]) VisibleGrandparents(r layout.Rect, fn func(*GrandparentRow[C])) {
	for _, g := range l.GrandparentRows() {
		if g.Bounds().Intersects(r) {
			fn(g)
		}
	}
}
