package tetris

import (
	"slices"
	"time"

	"github.com/matzehuels/timelane/pkg/timewindow"
)

// Block is the packed footprint of one item: its interval, its projected
// x span from the latest pass and the row it sits on.
type Block struct {
	ItemIndex    int
	Start, End   time.Time
	StartX, EndX float64
	Row          int
}

// handle addresses a Block slot in the packer arena.
type handle int32

// Packer assigns items to the lowest row where they overlap nothing.
//
// Items are keyed by K, so pointer keys give identity semantics: two equal
// looking items are still two blocks. Blocks live in an arena addressed by
// integer handles; rows hold handles, and freed slots are recycled.
type Packer[K comparable] struct {
	unit     timewindow.Unit
	disabled bool

	arena []Block
	free  []handle
	index map[K]handle
	rows  [][]handle

	compactPending bool
	stats          Stats
}

// Stats counts packer work since creation. Tests and debug output use it to
// observe the fast path.
type Stats struct {
	FastPath   int // assignments reusing a cached block
	Moved      int // cached blocks dropped because their interval changed
	Inserted   int // first-fit scans
	Evicted    int // blocks dropped by CleanCache
	Compacted  int // empty rows removed
	RowsOpened int // rows appended by first-fit
}

// Option configures a Packer.
type Option func(*packerOptions)

type packerOptions struct {
	disabled bool
}

// WithDisabled turns packing off: every item lands on row 0 and the packer
// reports a single row.
func WithDisabled() Option {
	return func(o *packerOptions) { o.disabled = true }
}

// New returns an empty packer comparing times in unit.
func New[K comparable](unit timewindow.Unit, opts ...Option) *Packer[K] {
	var o packerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Packer[K]{
		unit:     unit,
		disabled: o.disabled,
		index:    make(map[K]handle),
	}
}

// SetDisabled switches packing on or off. Turning it off keeps the cache so
// turning it back on restores the previous rows.
func (p *Packer[K]) SetDisabled(disabled bool) { p.disabled = disabled }

// Disabled reports whether packing is off.
func (p *Packer[K]) Disabled() bool { return p.disabled }

// Stats returns the work counters.
func (p *Packer[K]) Stats() Stats { return p.stats }

// Assign returns the row of the item at itemIndex. Items must be visited in
// ascending itemIndex order within a pass, starting at 0.
//
// An item whose interval is unchanged since its last assignment keeps its row
// and only has its x span refreshed. A moved item leaves its old row, which
// is compacted away at the start of the next pass if it became empty.
func (p *Packer[K]) Assign(itemIndex int, key K, start, end time.Time, startX, endX, laneWidth float64) int {
	if p.disabled {
		return 0
	}
	if itemIndex == 0 {
		p.compactIfPending()
	}

	h, ok := p.index[key]
	if ok {
		b := &p.arena[h]
		if b.Start.Equal(start) && b.End.Equal(end) {
			b.StartX, b.EndX = startX, endX
			b.ItemIndex = itemIndex
			p.stats.FastPath++
			return b.Row
		}
		p.detach(h)
		p.stats.Moved++
	} else {
		h = p.alloc(key)
	}

	b := &p.arena[h]
	*b = Block{ItemIndex: itemIndex, Start: start, End: end, StartX: startX, EndX: endX}
	p.stats.Inserted++

	canUseX := laneWidth > 0
	for r, row := range p.rows {
		if !p.rowConflicts(row, *b, canUseX) {
			b.Row = r
			p.rows[r] = append(row, h)
			return r
		}
	}
	b.Row = len(p.rows)
	p.rows = append(p.rows, []handle{h})
	p.stats.RowsOpened++
	return b.Row
}

func (p *Packer[K]) rowConflicts(row []handle, candidate Block, laneHasWidth bool) bool {
	for _, h := range row {
		other := p.arena[h]
		if Overlaps(candidate, other, laneHasWidth && other.ItemIndex < candidate.ItemIndex, p.unit) {
			return true
		}
	}
	return false
}

// Overlaps reports whether a and b cannot share a row. Touching intervals
// overlap. With canUseX the projected spans are compared, otherwise the
// times at unit granularity.
func Overlaps(a, b Block, canUseX bool, unit timewindow.Unit) bool {
	if canUseX {
		if a.StartX <= b.StartX {
			return a.EndX >= b.StartX
		}
		return b.EndX >= a.StartX
	}
	if unit.Between(a.Start, b.Start) >= 0 { // a starts first or together
		return unit.Between(a.End, b.Start) <= 0
	}
	return unit.Between(b.End, a.Start) <= 0
}

// RowsCount returns the number of rows, compacting pending empty rows first.
// It is only meaningful once a full pass has visited every item.
func (p *Packer[K]) RowsCount() int {
	if p.disabled {
		return 1
	}
	p.compactIfPending()
	return len(p.rows)
}

// CompactionPending reports whether empty rows wait to be removed. Rows
// emptied mid-pass keep their index until the next pass starts, so rows
// already handed out stay valid.
func (p *Packer[K]) CompactionPending() bool { return p.compactPending }

// RowSpan returns the number of rows including empty ones awaiting
// compaction. Group layouts use it to offset the rows below while a pass
// is still running.
func (p *Packer[K]) RowSpan() int {
	if p.disabled {
		return 1
	}
	return len(p.rows)
}

// CleanCache reconciles the cache with the current item list: cached items
// that moved get their index patched and missing ones are evicted.
func (p *Packer[K]) CleanCache(items []K) {
	for key, h := range p.index {
		b := &p.arena[h]
		if b.ItemIndex < len(items) && items[b.ItemIndex] == key {
			continue
		}
		if i := slices.Index(items, key); i >= 0 {
			b.ItemIndex = i
			continue
		}
		p.detach(h)
		p.release(h)
		delete(p.index, key)
		p.stats.Evicted++
	}
}

// Reset drops every block and row.
func (p *Packer[K]) Reset() {
	p.arena = p.arena[:0]
	p.free = p.free[:0]
	p.rows = nil
	clear(p.index)
	p.compactPending = false
}

// Len returns the number of cached blocks.
func (p *Packer[K]) Len() int { return len(p.index) }

// RowOf returns the row of key from the latest pass.
func (p *Packer[K]) RowOf(key K) (int, bool) {
	h, ok := p.index[key]
	if !ok {
		return 0, false
	}
	if p.disabled {
		return 0, true
	}
	p.compactIfPending()
	return p.arena[h].Row, true
}

// ItemsInRow returns the item indices placed on row, in placement order.
// A disabled packer tracks no rows and returns nil.
func (p *Packer[K]) ItemsInRow(row int) []int {
	if p.disabled {
		return nil
	}
	p.compactIfPending()
	if row < 0 || row >= len(p.rows) {
		return nil
	}
	out := make([]int, len(p.rows[row]))
	for i, h := range p.rows[row] {
		out[i] = p.arena[h].ItemIndex
	}
	return out
}

// Rows returns a copy of the packed rows.
func (p *Packer[K]) Rows() [][]Block {
	p.compactIfPending()
	out := make([][]Block, len(p.rows))
	for r, row := range p.rows {
		out[r] = make([]Block, len(row))
		for i, h := range row {
			out[r][i] = p.arena[h]
		}
	}
	return out
}

// =============================================================================
// Arena bookkeeping
// =============================================================================

func (p *Packer[K]) alloc(key K) handle {
	var h handle
	if n := len(p.free); n > 0 {
		h = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		h = handle(len(p.arena))
		p.arena = append(p.arena, Block{})
	}
	p.index[key] = h
	return h
}

func (p *Packer[K]) release(h handle) {
	p.arena[h] = Block{Row: -1}
	p.free = append(p.free, h)
}

// detach removes h from its row, flagging compaction when the row empties.
func (p *Packer[K]) detach(h handle) {
	r := p.arena[h].Row
	if r < 0 || r >= len(p.rows) {
		return
	}
	row := p.rows[r]
	if i := slices.Index(row, h); i >= 0 {
		p.rows[r] = slices.Delete(row, i, i+1)
	}
	if len(p.rows[r]) == 0 {
		p.compactPending = true
	}
	p.arena[h].Row = -1
}

// compactIfPending drops empty rows and shifts the rows below them up.
func (p *Packer[K]) compactIfPending() {
	if !p.compactPending {
		return
	}
	removed := 0
	kept := p.rows[:0]
	for _, row := range p.rows {
		if len(row) == 0 {
			removed++
			continue
		}
		if removed > 0 {
			for _, h := range row {
				p.arena[h].Row -= removed
			}
		}
		kept = append(kept, row)
	}
	clear(p.rows[len(kept):])
	p.rows = kept
	p.compactPending = false
	p.stats.Compacted += removed
}
