package gantt

import (
	"github.com/matzehuels/timelane/pkg/layout"
	"github.com/matzehuels/timelane/pkg/tetris"
	"github.com/matzehuels/timelane/pkg/timewindow"
)

// grouping is the row strategy of a gantt layout: every parent packs its
// own items and sits below the parents before it.
type grouping[C comparable] struct {
	parentKey      func(C) any
	grandparentKey func(any) any
	unit           timewindow.Unit
	packing        bool
	headerHeight   float64

	// The tree is rebuilt when generation moves past built.
	generation uint64
	built      uint64

	byKey        map[any]*ParentRow[C]
	parents      []*ParentRow[C]
	grandparents []*GrandparentRow[C]
	itemParent   []*ParentRow[C]

	// Pass state.
	cur        *ParentRow[C]
	curGrand   *GrandparentRow[C]
	rowsBefore int
	nextY      float64
}

func newGrouping[C comparable](unit timewindow.Unit) *grouping[C] {
	return &grouping[C]{
		unit:       unit,
		packing:    true,
		byKey:      make(map[any]*ParentRow[C]),
		generation: 1,
	}
}

func (g *grouping[C]) parentOf(item C) any {
	if g.parentKey == nil {
		return nil
	}
	return g.parentKey(item)
}

func (g *grouping[C]) grandparentOf(parent any) any {
	if g.grandparentKey == nil {
		return nil
	}
	return g.grandparentKey(parent)
}

// group orders items so that each grandparent's parents, and each parent's
// items, are contiguous. Order of first appearance is kept at every level.
func (g *grouping[C]) group(items []C) []C {
	type bucket struct {
		parents []any
		items   map[any][]C
	}
	var grandOrder []any
	grands := make(map[any]*bucket)
	for _, it := range items {
		pk := g.parentOf(it)
		gk := g.grandparentOf(pk)
		b, ok := grands[gk]
		if !ok {
			b = &bucket{items: make(map[any][]C)}
			grands[gk] = b
			grandOrder = append(grandOrder, gk)
		}
		if _, seen := b.items[pk]; !seen {
			b.parents = append(b.parents, pk)
		}
		b.items[pk] = append(b.items[pk], it)
	}
	out := make([]C, 0, len(items))
	for _, gk := range grandOrder {
		b := grands[gk]
		for _, pk := range b.parents {
			out = append(out, b.items[pk]...)
		}
	}
	return out
}

// rebuild derives the grandparent, parent and item tree from grouped items.
// Parent rows are recycled by key so their packers keep their caches.
func (g *grouping[C]) rebuild(items []C) {
	seen := make(map[any]bool, len(g.byKey))
	g.parents = g.parents[:0]
	g.grandparents = g.grandparents[:0]
	g.itemParent = make([]*ParentRow[C], len(items))

	var cur *ParentRow[C]
	var grand *GrandparentRow[C]
	for i, it := range items {
		pk := g.parentOf(it)
		if cur == nil || cur.key != pk {
			if cur != nil {
				cur.items = items[cur.first : cur.last+1]
			}
			cur = g.byKey[pk]
			if cur == nil {
				cur = &ParentRow[C]{key: pk, packer: g.newPacker()}
				g.byKey[pk] = cur
			}
			seen[pk] = true
			cur.first, cur.last = i, i
			cur.placed = false
			g.parents = append(g.parents, cur)

			gk := g.grandparentOf(pk)
			if grand == nil || grand.key != gk {
				grand = &GrandparentRow[C]{key: gk, header: g.headerHeight}
				g.grandparents = append(g.grandparents, grand)
			}
			cur.grandparent = grand
			grand.parents = append(grand.parents, cur)
		}
		cur.last = i
		g.itemParent[i] = cur
	}
	if cur != nil {
		cur.items = items[cur.first : cur.last+1]
	}

	for k := range g.byKey {
		if !seen[k] {
			delete(g.byKey, k)
		}
	}
	for _, p := range g.parents {
		p.packer.CleanCache(p.items)
	}
	g.built = g.generation
}

func (g *grouping[C]) newPacker() *tetris.Packer[C] {
	if g.packing {
		return tetris.New[C](g.unit)
	}
	return tetris.New[C](g.unit, tetris.WithDisabled())
}

func (g *grouping[C]) setPacking(on bool) {
	g.packing = on
	for _, p := range g.byKey {
		p.packer.SetDisabled(!on)
	}
}

func (g *grouping[C]) hasHeaders() bool { return g.grandparentKey != nil && g.headerHeight > 0 }

// BeginPass implements layout.Strategy.
func (g *grouping[C]) BeginPass(items []C, itemsChanged bool) {
	if itemsChanged || g.built != g.generation {
		g.rebuild(items)
	}
	g.cur, g.curGrand = nil, nil
	g.rowsBefore = 0
}

// Place implements layout.Strategy.
func (g *grouping[C]) Place(i int, item C, span layout.Span, geo layout.Geometry) layout.Slot {
	pr := g.itemParent[i]
	if i == 0 {
		g.cur, g.curGrand = nil, nil
		g.rowsBefore = 0
		g.nextY = geo.TopY
	}
	if pr != g.cur {
		if g.cur != nil {
			// Rows emptied during this pass keep their slot until the next
			// pass so rows already handed out stay put.
			n := g.cur.packer.RowSpan()
			g.rowsBefore += n
			g.nextY += float64(n) * geo.Pitch()
		}
		if pr.grandparent != g.curGrand {
			g.curGrand = pr.grandparent
			g.curGrand.width = geo.LaneWidth
			if g.hasHeaders() {
				g.nextY += g.headerHeight
			}
		}
		pr.rowsBefore = g.rowsBefore
		pr.y = g.nextY
		pr.pitch = geo.Pitch()
		pr.width = geo.LaneWidth
		pr.placed = true
		g.cur = pr
	}
	local := pr.packer.Assign(i-pr.first, item, span.Start, span.End, span.StartX, span.EndX, geo.LaneWidth)
	return layout.Slot{Row: pr.rowsBefore + local, Y: pr.y + float64(local)*geo.Pitch()}
}

// RowsCount implements layout.Strategy.
func (g *grouping[C]) RowsCount() int {
	n := 0
	for _, p := range g.parents {
		n += p.RowsCount()
	}
	return n
}

// ExtraHeight implements layout.Strategy.
func (g *grouping[C]) ExtraHeight() float64 {
	if !g.hasHeaders() {
		return 0
	}
	return g.headerHeight * float64(len(g.grandparents))
}

// Settled implements layout.Settler.
func (g *grouping[C]) Settled() bool {
	for _, p := range g.parents {
		if p.packer.CompactionPending() {
			return false
		}
	}
	return true
}
