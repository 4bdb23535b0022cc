package gantt

import (
	"github.com/matzehuels/timelane/pkg/layout"
	"github.com/matzehuels/timelane/pkg/tetris"
)

// ParentRow is the band of rows holding the items of one parent. It owns
// the tetris packer for those items, so packing never mixes parents.
type ParentRow[C comparable] struct {
	key         any
	grandparent *GrandparentRow[C]
	packer      *tetris.Packer[C]

	// Item slice [first, last] of the lane item list.
	first, last int
	items       []C

	// Filled in by the latest pass.
	rowsBefore int
	y          float64
	pitch      float64
	width      float64
	placed     bool
}

// Key returns the parent key.
func (p *ParentRow[C]) Key() any { return p.key }

// Grandparent returns the enclosing grandparent row.
func (p *ParentRow[C]) Grandparent() *GrandparentRow[C] { return p.grandparent }

// First returns the lane index of the first item of the parent.
func (p *ParentRow[C]) First() int { return p.first }

// Last returns the lane index of the last item of the parent.
func (p *ParentRow[C]) Last() int { return p.last }

// Items returns the items of the parent. Callers must not modify it.
func (p *ParentRow[C]) Items() []C { return p.items }

// Packer exposes the parent's tetris packer.
func (p *ParentRow[C]) Packer() *tetris.Packer[C] { return p.packer }

// RowsCount returns the rows used by the parent, at least one.
func (p *ParentRow[C]) RowsCount() int {
	if n := p.packer.RowsCount(); n > 0 {
		return n
	}
	return 1
}

// FirstRow returns the lane row index of the parent's top row.
func (p *ParentRow[C]) FirstRow() int { return p.rowsBefore }

// Bounds returns the band covered by the parent. Valid is false until a
// pass placed the parent.
func (p *ParentRow[C]) Bounds() layout.Bounds {
	return layout.Bounds{
		X:      0,
		Y:      p.y,
		Width:  p.width,
		Height: float64(p.RowsCount()) * p.pitch,
		Row:    p.rowsBefore,
		Valid:  p.placed,
	}
}

// ItemsInRow returns the lane indices of the parent's items on its local
// row, in placement order.
func (p *ParentRow[C]) ItemsInRow(row int) []int {
	if p.packer.Disabled() {
		if row != 0 {
			return nil
		}
		out := make([]int, 0, p.last-p.first+1)
		for i := p.first; i <= p.last; i++ {
			out = append(out, i)
		}
		return out
	}
	local := p.packer.ItemsInRow(row)
	for i := range local {
		local[i] += p.first
	}
	return local
}

// GrandparentRow groups consecutive parent rows under one header.
type GrandparentRow[C comparable] struct {
	key     any
	parents []*ParentRow[C]
	header  float64
	width   float64
}

// Key returns the grandparent key.
func (g *GrandparentRow[C]) Key() any { return g.key }

// Parents returns the parent rows in display order.
func (g *GrandparentRow[C]) Parents() []*ParentRow[C] { return g.parents }

// RowsCount sums the rows of every parent.
func (g *GrandparentRow[C]) RowsCount() int {
	n := 0
	for _, p := range g.parents {
		n += p.RowsCount()
	}
	return n
}

// Header returns the header band drawn above the first parent.
func (g *GrandparentRow[C]) Header() layout.Bounds {
	if len(g.parents) == 0 {
		return layout.Bounds{}
	}
	first := g.parents[0]
	return layout.Bounds{
		Y:      first.y - g.header,
		Width:  g.width,
		Height: g.header,
		Row:    first.rowsBefore,
		Valid:  first.placed,
	}
}

// Bounds returns the band from the header top to the last parent bottom.
func (g *GrandparentRow[C]) Bounds() layout.Bounds {
	if len(g.parents) == 0 {
		return layout.Bounds{}
	}
	h := g.Header()
	last := g.parents[len(g.parents)-1].Bounds()
	h.Height = last.MaxY() - h.Y
	h.Valid = h.Valid && last.Valid
	return h
}
