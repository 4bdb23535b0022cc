package layout

import (
	"fmt"
	"time"

	"github.com/matzehuels/timelane/pkg/frame"
	"github.com/matzehuels/timelane/pkg/observability"
	"github.com/matzehuels/timelane/pkg/projector"
	"github.com/matzehuels/timelane/pkg/timewindow"
)

// Config holds the lane metrics and edge semantics.
type Config struct {
	Unit timewindow.Unit

	// StartExclusive and EndExclusive tell whether item start and end
	// times are excluded from the item.
	StartExclusive bool
	EndExclusive   bool

	// ItemHeight is the height of one row of items. In FillHeight mode it
	// is recomputed so the rows fill the lane height.
	ItemHeight float64
	FillHeight bool

	TopY     float64
	HSpacing float64
	VSpacing float64

	// TetrisMinWidth widens short items for packing only, so that labels
	// drawn past their end do not collide with the next item on the row.
	TetrisMinWidth float64
}

// TimeFunc reads one edge time of an item.
type TimeFunc[C any] func(C) time.Time

// State describes the layout passes of a lane.
type State struct {
	PassCount  uint64
	InProgress bool
}

// Lane lays out items on a time axis. Positions are computed lazily: the
// first read after a change runs the row strategy over every item up to the
// one requested, in index order, and later reads are served from cache.
//
// A Lane belongs to the goroutine that pulses its scheduler.
type Lane[C comparable] struct {
	cfg      Config
	window   *timewindow.Window
	proj     projector.Projector
	startOf  TimeFunc[C]
	endOf    TimeFunc[C]
	strategy Strategy[C]

	items        []C
	bounds       []Bounds
	itemsChanged bool

	// Pass progress: cursor is the next item to place once passOpen.
	passOpen bool
	cursor   int
	geom     Geometry

	// fillItemHeight is the row height found by the last fill-height pass.
	fillItemHeight float64

	width, height float64
	pinnedHeight  bool

	state         State
	before, after []observer
	nextObserver  int

	dirty        *frame.DirtyMarker
	stopWatching func()
}

type observer struct {
	id int
	fn func(State)
}

// NewLane returns a lane over window. startOf and endOf read item times;
// strategy assigns rows. Layout passes are coalesced on sched.
func NewLane[C comparable](sched frame.Scheduler, window *timewindow.Window, cfg Config,
	startOf, endOf TimeFunc[C], strategy Strategy[C]) *Lane[C] {
	l := &Lane[C]{
		cfg:      cfg,
		window:   window,
		startOf:  startOf,
		endOf:    endOf,
		strategy: strategy,
	}
	l.proj = projector.Linear(window, cfg.Unit, func() float64 { return l.width })
	l.dirty = frame.NewDirtyMarker(sched, l.Layout)
	l.stopWatching = window.OnChange(func(time.Time, time.Time) { l.invalidate() })
	return l
}

// Config returns the lane configuration.
func (l *Lane[C]) Config() Config { return l.cfg }

// SetConfig replaces the configuration and schedules a pass.
func (l *Lane[C]) SetConfig(cfg Config) {
	unitChanged := cfg.Unit != l.cfg.Unit
	l.cfg = cfg
	if unitChanged {
		l.proj = projector.Linear(l.window, cfg.Unit, func() float64 { return l.width })
	}
	l.invalidate()
}

// Window returns the time window the lane projects on.
func (l *Lane[C]) Window() *timewindow.Window { return l.window }

// Projector returns the projector mapping window times to lane x.
func (l *Lane[C]) Projector() projector.Projector { return l.proj }

// Strategy returns the row strategy.
func (l *Lane[C]) Strategy() Strategy[C] { return l.strategy }

// SetItems replaces the item list.
func (l *Lane[C]) SetItems(items []C) {
	l.items = items
	l.bounds = make([]Bounds, len(items))
	l.itemsChanged = true
	l.invalidate()
}

// Items returns the item list. Callers must not modify it.
func (l *Lane[C]) Items() []C { return l.items }

// Len returns the number of items.
func (l *Lane[C]) Len() int { return len(l.items) }

// Width returns the lane width.
func (l *Lane[C]) Width() float64 { return l.width }

// SetWidth changes the lane width and schedules a pass.
func (l *Lane[C]) SetWidth(w float64) {
	if w == l.width {
		return
	}
	l.width = w
	l.invalidate()
}

// SetHeight sets the lane height. In fill-height mode the rows are spread
// over it; otherwise it is overwritten by the next pass unless pinned.
func (l *Lane[C]) SetHeight(h float64) {
	if h == l.height {
		return
	}
	l.height = h
	if l.cfg.FillHeight {
		l.invalidate()
	}
}

// PinHeight stops layout passes from overwriting the height.
func (l *Lane[C]) PinHeight(pinned bool) { l.pinnedHeight = pinned }

// Height returns the lane height, running a pending pass first.
func (l *Lane[C]) Height() float64 {
	if l.dirty.IsDirty() {
		l.Layout()
	}
	return l.height
}

// State returns the pass counters.
func (l *Lane[C]) State() State { return l.state }

// IsDirty reports whether a pass is scheduled.
func (l *Lane[C]) IsDirty() bool { return l.dirty.IsDirty() }

// OnBeforeLayout registers fn to run when a pass starts.
func (l *Lane[C]) OnBeforeLayout(fn func(State)) (remove func()) {
	return l.observe(&l.before, fn)
}

// OnAfterLayout registers fn to run when a pass completes.
func (l *Lane[C]) OnAfterLayout(fn func(State)) (remove func()) {
	return l.observe(&l.after, fn)
}

func (l *Lane[C]) observe(list *[]observer, fn func(State)) func() {
	l.nextObserver++
	id := l.nextObserver
	*list = append(*list, observer{id: id, fn: fn})
	return func() {
		for i, o := range *list {
			if o.id == id {
				*list = append((*list)[:i:i], (*list)[i+1:]...)
				return
			}
		}
	}
}

// MarkDirty schedules a pass on the next frame. It is ignored while a pass
// runs, since that pass already produces the final state.
func (l *Lane[C]) MarkDirty() {
	if l.state.InProgress {
		return
	}
	l.dirty.MarkDirty()
}

// Close stops watching the window and drops any scheduled pass.
func (l *Lane[C]) Close() {
	l.dirty.Close()
	if l.stopWatching != nil {
		l.stopWatching()
		l.stopWatching = nil
	}
}

// Invalidate drops every cached position and schedules a pass. Owners call
// it when something the strategy depends on changed.
func (l *Lane[C]) Invalidate() { l.invalidate() }

func (l *Lane[C]) invalidate() {
	if l.state.InProgress {
		return
	}
	l.resetPass()
	l.dirty.MarkDirty()
}

func (l *Lane[C]) resetPass() {
	for i := range l.bounds {
		l.bounds[i].Valid = false
	}
	l.passOpen = false
	l.cursor = 0
}

// Layout runs a full pass: every position is recomputed, fill-height rows
// are resized and the lane height is updated unless pinned. Nested calls
// made by observers are ignored.
func (l *Lane[C]) Layout() {
	if l.state.InProgress {
		return
	}
	l.state.InProgress = true
	l.state.PassCount++
	l.notify(l.before)
	began := time.Now()
	observability.Layout().OnLayoutStart(len(l.items))

	l.resetPass()
	l.settlePass()

	rows := l.rowsCount()
	switch {
	case l.cfg.FillHeight:
		if rows > 0 && l.height > 0 {
			pitch := (l.height - l.cfg.TopY - l.strategy.ExtraHeight()) / float64(rows)
			if h := pitch - l.cfg.VSpacing; h != l.geom.ItemHeight {
				// Rows are settled, so the second pass only moves them.
				l.fillItemHeight = h
				l.resetPass()
				l.completePass()
			}
		}
	case !l.pinnedHeight:
		l.height = l.contentHeight(rows)
	}

	l.dirty.MarkClean()
	l.state.InProgress = false
	observability.Layout().OnLayoutComplete(len(l.items), rows, time.Since(began))
	l.notify(l.after)
}

func (l *Lane[C]) notify(list []observer) {
	for _, o := range append([]observer(nil), list...) {
		o.fn(l.state)
	}
}

func (l *Lane[C]) baseGeometry() Geometry {
	g := Geometry{
		TopY:       l.cfg.TopY,
		ItemHeight: l.cfg.ItemHeight,
		VSpacing:   l.cfg.VSpacing,
		LaneWidth:  l.width,
	}
	if l.cfg.FillHeight && l.fillItemHeight > 0 {
		g.ItemHeight = l.fillItemHeight
	}
	return g
}

func (l *Lane[C]) contentHeight(rows int) float64 {
	if rows == 0 {
		return 0
	}
	return l.cfg.TopY + l.strategy.ExtraHeight() + float64(rows)*l.geom.Pitch()
}

// RowsCount returns the number of rows, completing the current pass first.
// A lane without items or without a set window has no rows.
func (l *Lane[C]) RowsCount() int {
	if len(l.items) == 0 || !l.window.IsSet() {
		return 0
	}
	l.settlePass()
	return l.strategy.RowsCount()
}

func (l *Lane[C]) rowsCount() int {
	if len(l.items) == 0 || !l.window.IsSet() {
		return 0
	}
	return l.strategy.RowsCount()
}

// Position returns the bounds of item i, placing every earlier item of the
// current pass first. It panics when i is out of range.
func (l *Lane[C]) Position(i int) Bounds {
	if i < 0 || i >= len(l.items) {
		panic(fmt.Sprintf("layout: item index %d out of range [0,%d)", i, len(l.items)))
	}
	if !l.bounds[i].Valid {
		l.advanceTo(i)
	}
	return l.bounds[i]
}

// settlePass completes the current pass and, when the strategy left rows
// unsettled, places every item again so published bounds match RowsCount.
func (l *Lane[C]) settlePass() {
	l.completePass()
	if s, ok := l.strategy.(Settler); ok && !s.Settled() {
		l.resetPass()
		l.completePass()
	}
}

func (l *Lane[C]) completePass() {
	if n := len(l.items); n > 0 {
		l.advanceTo(n - 1)
	}
}

func (l *Lane[C]) advanceTo(i int) {
	if !l.passOpen {
		l.geom = l.baseGeometry()
		l.strategy.BeginPass(l.items, l.itemsChanged)
		l.itemsChanged = false
		l.passOpen = true
		l.cursor = 0
	}
	for ; l.cursor <= i; l.cursor++ {
		l.place(l.cursor)
	}
}

func (l *Lane[C]) place(i int) {
	item := l.items[i]
	start, end := l.startOf(item), l.endOf(item)
	startX := l.proj.TimeToX(start, true, l.cfg.StartExclusive)
	endX := l.proj.TimeToX(end, false, l.cfg.EndExclusive)
	packEndX := endX
	if minEnd := startX + l.cfg.TetrisMinWidth; packEndX < minEnd {
		packEndX = minEnd
	}
	slot := l.strategy.Place(i, item, Span{Start: start, End: end, StartX: startX, EndX: packEndX}, l.geom)
	column := 0
	if l.window.IsSet() {
		column = int(l.cfg.Unit.Between(l.window.Start(), start))
	}
	l.bounds[i] = Bounds{
		X:      startX + l.cfg.HSpacing/2,
		Y:      slot.Y,
		Width:  endX - startX - l.cfg.HSpacing,
		Height: l.geom.ItemHeight,
		Row:    slot.Row,
		Column: column,
		Valid:  true,
	}
}

// VisibleIndices returns the indices of items whose bounds intersect r.
func (l *Lane[C]) VisibleIndices(r Rect) []int {
	var out []int
	for i := range l.items {
		if l.Position(i).Intersects(r) {
			out = append(out, i)
		}
	}
	return out
}

// PickAt returns the item under the point (x, y).
func (l *Lane[C]) PickAt(x, y float64) (item C, index int, ok bool) {
	for i := range l.items {
		if l.Position(i).Contains(x, y) {
			return l.items[i], i, true
		}
	}
	var zero C
	return zero, -1, false
}

// Snapshot is an immutable copy of a completed layout, safe to hand to
// other goroutines.
type Snapshot[C comparable] struct {
	Items         []C
	Bounds        []Bounds
	Rows          int
	Width, Height float64
	WindowStart   time.Time
	WindowEnd     time.Time
	Unit          timewindow.Unit
}

// Snapshot runs any pending pass and copies the result.
func (l *Lane[C]) Snapshot() Snapshot[C] {
	height := l.Height()
	s := Snapshot[C]{
		Items:       append([]C(nil), l.items...),
		Bounds:      make([]Bounds, len(l.items)),
		Rows:        l.RowsCount(),
		Width:       l.width,
		Height:      height,
		WindowStart: l.window.Start(),
		WindowEnd:   l.window.End(),
		Unit:        l.cfg.Unit,
	}
	for i := range l.items {
		s.Bounds[i] = l.Position(i)
	}
	return s
}
