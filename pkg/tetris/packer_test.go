package tetris

import (
	"math/rand"
	"testing"
	"time"

	"github.com/matzehuels/timelane/pkg/timewindow"
)

func day(n int) time.Time {
	return time.Date(2024, time.January, n, 0, 0, 0, 0, time.UTC)
}

type task struct {
	name       string
	start, end int // days, end exclusive
}

// pass runs one full packing pass the way a lane does: width 100 over a
// day(1)..day(10) window, exclusive ends.
func pass(p *Packer[*task], tasks []*task, width float64) []int {
	rows := make([]int, len(tasks))
	for i, tk := range tasks {
		startX := width * float64(tk.start-1) / 10
		endX := width * float64(tk.end-1) / 10
		rows[i] = p.Assign(i, tk, day(tk.start), day(tk.end), startX, endX, width)
	}
	return rows
}

func TestEndToEndScenario(t *testing.T) {
	a := &task{"A", 1, 3}
	b := &task{"B", 2, 5}
	c := &task{"C", 5, 8}
	p := New[*task](timewindow.Day)

	rows := pass(p, []*task{a, b}, 100)
	if rows[0] != 0 || rows[1] != 1 {
		t.Fatalf("rows = %v, want [0 1]", rows)
	}
	if got := p.RowsCount(); got != 2 {
		t.Fatalf("RowsCount = %d, want 2", got)
	}

	rows = pass(p, []*task{a, b, c}, 100)
	if rows[2] != 0 {
		t.Errorf("C row = %d, want 0 alongside A", rows[2])
	}
	if got := p.RowsCount(); got != 2 {
		t.Errorf("RowsCount = %d, want 2", got)
	}
}

func TestTouchingIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Block
		canUseX bool
		want    bool
	}{
		{
			name:    "x touching",
			a:       Block{ItemIndex: 1, StartX: 20, EndX: 40},
			b:       Block{ItemIndex: 0, StartX: 0, EndX: 20},
			canUseX: true,
			want:    true,
		},
		{
			name:    "x disjoint",
			a:       Block{ItemIndex: 1, StartX: 21, EndX: 40},
			b:       Block{ItemIndex: 0, StartX: 0, EndX: 20},
			canUseX: true,
			want:    false,
		},
		{
			name:    "x same start",
			a:       Block{StartX: 10, EndX: 10},
			b:       Block{StartX: 10, EndX: 30},
			canUseX: true,
			want:    true,
		},
		{
			name: "time touching",
			a:    Block{Start: day(3), End: day(5)},
			b:    Block{Start: day(1), End: day(3)},
			want: true,
		},
		{
			name: "time touching reversed",
			a:    Block{Start: day(1), End: day(3)},
			b:    Block{Start: day(3), End: day(5)},
			want: true,
		},
		{
			name: "time disjoint",
			a:    Block{Start: day(4), End: day(5)},
			b:    Block{Start: day(1), End: day(3)},
			want: false,
		},
		{
			name: "time ignores clock within a day",
			a:    Block{Start: day(3).Add(18 * time.Hour), End: day(5)},
			b:    Block{Start: day(1), End: day(3).Add(6 * time.Hour)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b, tt.canUseX, timewindow.Day); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.b, tt.a, tt.canUseX, timewindow.Day); got != tt.want {
				t.Errorf("Overlaps reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTouchingItemsNeverShareRow(t *testing.T) {
	// A zero-width lane forces the time comparison on every pair.
	for _, width := range []float64{0, 100} {
		p := New[*task](timewindow.Day)
		rows := pass(p, []*task{{"A", 1, 3}, {"B", 3, 5}}, width)
		if rows[0] == rows[1] {
			t.Errorf("width %v: touching items share row %d", width, rows[0])
		}
	}
}

func TestDisjointItemsShareRowZero(t *testing.T) {
	// [1,2) [3,4) [5,6) ... leave a one day gap between neighbours.
	var tasks []*task
	for i := 0; i < 5; i++ {
		tasks = append(tasks, &task{name: "t", start: 1 + 2*i, end: 2 + 2*i})
	}
	p := New[*task](timewindow.Day)
	rows := pass(p, tasks, 100)
	for i, r := range rows {
		if r != 0 {
			t.Errorf("item %d row = %d, want 0", i, r)
		}
	}
	if got := p.RowsCount(); got != 1 {
		t.Errorf("RowsCount = %d, want 1", got)
	}
}

func TestCliqueNeedsOneRowEach(t *testing.T) {
	var tasks []*task
	for i := 0; i < 4; i++ {
		tasks = append(tasks, &task{"clique", 2, 6})
	}
	tasks = append(tasks, &task{"other", 8, 9})
	p := New[*task](timewindow.Day)
	pass(p, tasks, 100)
	if got := p.RowsCount(); got < 4 {
		t.Errorf("RowsCount = %d, want at least 4", got)
	}
}

func TestStability(t *testing.T) {
	tasks := randomTasks(rand.New(rand.NewSource(7)), 60)
	p := New[*task](timewindow.Day)

	first := pass(p, tasks, 100)
	before := p.Stats()
	second := pass(p, tasks, 100)
	after := p.Stats()

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("item %d moved from row %d to %d", i, first[i], second[i])
		}
	}
	if got := after.FastPath - before.FastPath; got != len(tasks) {
		t.Errorf("fast path hits = %d, want %d", got, len(tasks))
	}
	if after.Inserted != before.Inserted {
		t.Errorf("second pass inserted %d blocks", after.Inserted-before.Inserted)
	}
}

func TestStabilityAcrossZoom(t *testing.T) {
	tasks := randomTasks(rand.New(rand.NewSource(3)), 40)
	p := New[*task](timewindow.Day)
	first := pass(p, tasks, 100)
	second := pass(p, tasks, 37)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("resize moved item %d", i)
		}
	}
}

func TestRemovalCompacts(t *testing.T) {
	a := &task{"A", 1, 4}
	b := &task{"B", 2, 5}
	c := &task{"C", 3, 6}
	d := &task{"D", 7, 9}
	p := New[*task](timewindow.Day)
	pass(p, []*task{a, b, c, d}, 100)
	if got := p.RowsCount(); got != 3 {
		t.Fatalf("RowsCount = %d, want 3", got)
	}

	remaining := []*task{a, c, d}
	p.CleanCache(remaining)
	rows := pass(p, remaining, 100)

	if rows[0] != 0 || rows[1] != 1 || rows[2] != 0 {
		t.Errorf("rows after removal = %v, want [0 1 0]", rows)
	}
	if got := p.RowsCount(); got != 2 {
		t.Errorf("RowsCount = %d, want 2", got)
	}
	if p.Len() != 3 {
		t.Errorf("Len = %d, want 3", p.Len())
	}
	assertNoOverlap(t, p)
}

func TestRandomRemovalKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tasks := randomTasks(rng, 80)
	p := New[*task](timewindow.Day)
	before := pass(p, tasks, 100)
	assertNoOverlap(t, p)

	for round := 0; round < 10; round++ {
		drop := rng.Intn(len(tasks))
		prev := make(map[*task]int, len(tasks))
		for i, tk := range tasks {
			prev[tk] = before[i]
		}
		tasks = append(tasks[:drop:drop], tasks[drop+1:]...)
		p.CleanCache(tasks)
		after := pass(p, tasks, 100)
		assertNoOverlap(t, p)
		for i, tk := range tasks {
			if after[i] > prev[tk] {
				t.Fatalf("round %d: item %s moved down from %d to %d", round, tk.name, prev[tk], after[i])
			}
		}
		before = after
	}
}

func TestMovedItemLeavesRow(t *testing.T) {
	a := &task{"A", 1, 5}
	b := &task{"B", 2, 4}
	p := New[*task](timewindow.Day)
	pass(p, []*task{a, b}, 100)

	b.start, b.end = 6, 8
	rows := pass(p, []*task{a, b}, 100)
	if rows[1] != 0 {
		t.Errorf("moved B row = %d, want 0", rows[1])
	}
	if got := p.RowsCount(); got != 1 {
		t.Errorf("RowsCount = %d, want 1 after empty row compaction", got)
	}
	if s := p.Stats(); s.Moved != 1 || s.Compacted != 1 {
		t.Errorf("stats = %+v, want one move and one compacted row", s)
	}
}

func TestCleanCachePatchesIndices(t *testing.T) {
	a := &task{"A", 1, 3}
	b := &task{"B", 2, 5}
	p := New[*task](timewindow.Day)
	pass(p, []*task{a, b}, 100)

	newA := &task{"A2", 8, 9}
	p.CleanCache([]*task{newA, b, a})
	if p.Len() != 2 {
		t.Fatalf("Len = %d, want 2", p.Len())
	}
	if items := p.ItemsInRow(1); len(items) != 1 || items[0] != 1 {
		t.Errorf("ItemsInRow(1) = %v, want [1]", items)
	}
	if items := p.ItemsInRow(0); len(items) != 1 || items[0] != 2 {
		t.Errorf("ItemsInRow(0) = %v, want [2]", items)
	}
}

func TestIdentityKeys(t *testing.T) {
	// Structurally equal items are still distinct blocks.
	x := &task{"same", 1, 4}
	y := &task{"same", 1, 4}
	p := New[*task](timewindow.Day)
	rows := pass(p, []*task{x, y}, 100)
	if rows[0] == rows[1] {
		t.Errorf("equal items share row %d", rows[0])
	}
	if r, ok := p.RowOf(y); !ok || r != 1 {
		t.Errorf("RowOf(y) = %d, %v", r, ok)
	}
}

func TestDisabled(t *testing.T) {
	p := New[*task](timewindow.Day, WithDisabled())
	rows := pass(p, []*task{{"A", 1, 5}, {"B", 1, 5}}, 100)
	if rows[0] != 0 || rows[1] != 0 {
		t.Errorf("rows = %v, want all 0", rows)
	}
	if p.RowsCount() != 1 {
		t.Errorf("RowsCount = %d, want 1", p.RowsCount())
	}
	if !p.Disabled() {
		t.Error("Disabled = false")
	}
}

func TestArenaReusesSlots(t *testing.T) {
	p := New[*task](timewindow.Day)
	a := &task{"A", 1, 3}
	b := &task{"B", 4, 6}
	pass(p, []*task{a, b}, 100)
	p.CleanCache([]*task{b})
	c := &task{"C", 1, 3}
	pass(p, []*task{b, c}, 100)
	if len(p.arena) != 2 {
		t.Errorf("arena size = %d, want 2 after slot reuse", len(p.arena))
	}
	p.Reset()
	if p.Len() != 0 || p.RowsCount() != 0 {
		t.Errorf("after Reset: Len=%d RowsCount=%d", p.Len(), p.RowsCount())
	}
}

func randomTasks(rng *rand.Rand, n int) []*task {
	tasks := make([]*task, n)
	for i := range tasks {
		start := 1 + rng.Intn(9)
		tasks[i] = &task{name: string(rune('a' + i%26)), start: start, end: start + 1 + rng.Intn(3)}
	}
	return tasks
}

func assertNoOverlap(t *testing.T, p *Packer[*task]) {
	t.Helper()
	for r, row := range p.Rows() {
		for i := range row {
			if row[i].Row != r {
				t.Errorf("block %d in row %d records row %d", row[i].ItemIndex, r, row[i].Row)
			}
			for j := i + 1; j < len(row); j++ {
				if Overlaps(row[i], row[j], false, timewindow.Day) {
					t.Errorf("row %d: items %d and %d overlap", r, row[i].ItemIndex, row[j].ItemIndex)
				}
			}
		}
	}
}
