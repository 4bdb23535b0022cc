package layout

import (
	"time"

	"github.com/matzehuels/timelane/pkg/tetris"
	"github.com/matzehuels/timelane/pkg/timewindow"
)

// Span is what a strategy knows about the item it places: its times and its
// projected x range for the current pass.
type Span struct {
	Start, End   time.Time
	StartX, EndX float64
}

// Geometry is the vertical metrics of the current pass. ItemHeight already
// accounts for fill-height mode.
type Geometry struct {
	TopY       float64
	ItemHeight float64
	VSpacing   float64
	LaneWidth  float64
}

// Pitch is the distance between the tops of two consecutive rows.
func (g Geometry) Pitch() float64 { return g.ItemHeight + g.VSpacing }

// RowY returns the top of row.
func (g Geometry) RowY(row int) float64 { return g.TopY + float64(row)*g.Pitch() }

// Slot is where a strategy put an item.
type Slot struct {
	Row int
	Y   float64
}

// Strategy assigns rows to items. A lane calls BeginPass once per pass and
// then Place for every item in ascending index order.
type Strategy[C comparable] interface {
	// BeginPass starts a pass over items. itemsChanged is true when the
	// list differs from the previous pass.
	BeginPass(items []C, itemsChanged bool)
	// Place assigns a row to the item at index i.
	Place(i int, item C, span Span, g Geometry) Slot
	// RowsCount returns the rows used by the completed pass.
	RowsCount() int
	// ExtraHeight is vertical space the strategy adds besides item rows,
	// such as group headers.
	ExtraHeight() float64
}

// Settler is implemented by strategies whose rows may need one more pass to
// settle, for example after an item moved and emptied its former row.
type Settler interface {
	Settled() bool
}

// SingleRow places every item on row 0.
type SingleRow[C comparable] struct {
	n int
}

// NewSingleRow returns a strategy placing all items on one row.
func NewSingleRow[C comparable]() *SingleRow[C] { return &SingleRow[C]{} }

func (s *SingleRow[C]) BeginPass(items []C, _ bool) { s.n = len(items) }

func (s *SingleRow[C]) Place(_ int, _ C, _ Span, g Geometry) Slot {
	return Slot{Row: 0, Y: g.RowY(0)}
}

func (s *SingleRow[C]) RowsCount() int {
	if s.n == 0 {
		return 0
	}
	return 1
}

func (s *SingleRow[C]) ExtraHeight() float64 { return 0 }

// Packed places items with a tetris packer.
type Packed[C comparable] struct {
	packer *tetris.Packer[C]
}

// NewPacked returns a tetris strategy counting in unit.
func NewPacked[C comparable](unit timewindow.Unit, opts ...tetris.Option) *Packed[C] {
	return &Packed[C]{packer: tetris.New[C](unit, opts...)}
}

// Packer exposes the underlying packer.
func (s *Packed[C]) Packer() *tetris.Packer[C] { return s.packer }

func (s *Packed[C]) BeginPass(items []C, itemsChanged bool) {
	if itemsChanged {
		s.packer.CleanCache(items)
	}
}

func (s *Packed[C]) Place(i int, item C, span Span, g Geometry) Slot {
	row := s.packer.Assign(i, item, span.Start, span.End, span.StartX, span.EndX, g.LaneWidth)
	return Slot{Row: row, Y: g.RowY(row)}
}

func (s *Packed[C]) RowsCount() int { return s.packer.RowsCount() }

func (s *Packed[C]) ExtraHeight() float64 { return 0 }

// Settled implements [Settler].
func (s *Packed[C]) Settled() bool { return !s.packer.CompactionPending() }
