package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/timelane/pkg/item"
	"github.com/matzehuels/timelane/pkg/layout"
	"github.com/matzehuels/timelane/pkg/pipeline"
)

func day(n int) time.Time { return time.Date(2024, 3, n, 0, 0, 0, 0, time.UTC) }

func viewItems() []*item.Item {
	return []*item.Item{
		{ID: "a", Label: "Alpha", Start: day(1), End: day(3), Parent: "design"},
		{ID: "b", Label: "Beta", Start: day(2), End: day(5), Parent: "design"},
		{ID: "c", Label: "Gamma", Start: day(5), End: day(8), Parent: "build"},
	}
}

func newTestViewer(t *testing.T, items []*item.Item, cols, lines int) *viewModel {
	t.Helper()
	m, err := newViewModel(items, pipeline.Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(m.close)
	m.Update(tea.WindowSizeMsg{Width: cols, Height: lines})
	settle(m)
	return m
}

// settle runs frames until the layout and redraws it cascades into are done.
func settle(m *viewModel) {
	m.Update(frameMsg{})
	m.loop.Settle(16)
}

func press(m *viewModel, keys string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	settle(m)
	return cmd
}

func TestViewerLoadingBeforeSize(t *testing.T) {
	m, err := newViewModel(viewItems(), pipeline.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer m.close()
	if got := m.View(); got != "loading..." {
		t.Errorf("View before first resize = %q", got)
	}
}

func TestViewerDrawsVisibleItems(t *testing.T) {
	m := newTestViewer(t, viewItems(), 80, 12)

	if m.gutter != len("design")+1 {
		t.Errorf("gutter = %d, want widest parent key plus one", m.gutter)
	}
	if m.canvas.h != 3 {
		t.Errorf("canvas lines = %d, want 3 packed rows", m.canvas.h)
	}
	if m.canvas.w != 80-m.gutter {
		t.Errorf("canvas width = %d, want %d", m.canvas.w, 80-m.gutter)
	}
	if m.drawer.LastPainted() != 3 {
		t.Errorf("painted = %d, want 3", m.drawer.LastPainted())
	}

	view := m.View()
	for _, want := range []string{"2024-03-01", "Alpha", "Beta", "Gamma", "design", "build", "3 rows"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestViewerTogglePacking(t *testing.T) {
	m := newTestViewer(t, viewItems(), 80, 12)
	if rows := m.gantt.RowsCount(); rows != 3 {
		t.Fatalf("packed rows = %d, want 3", rows)
	}

	press(m, "t")
	if m.gantt.TetrisPacking() {
		t.Fatal("packing still on after t")
	}
	if rows := m.gantt.RowsCount(); rows != 2 {
		t.Errorf("unpacked rows = %d, want one per parent", rows)
	}
	if m.canvas.h != 2 {
		t.Errorf("canvas lines = %d, want 2 after relayout", m.canvas.h)
	}
}

func TestViewerPanAndZoom(t *testing.T) {
	m := newTestViewer(t, viewItems(), 80, 12)
	w := m.gantt.Window()
	start := w.Start()
	days := w.Duration(m.unit)

	press(m, "l")
	if got := w.Start(); !got.Equal(start.AddDate(0, 0, 1)) {
		t.Errorf("start after pan = %v, want one day later", got)
	}
	if got := w.Duration(m.unit); got != days {
		t.Errorf("pan changed duration to %d, want %d", got, days)
	}

	press(m, "h")
	press(m, "+")
	if got := w.Duration(m.unit); got >= days {
		t.Errorf("duration after zoom in = %d, want below %d", got, days)
	}
	zoomed := w.Duration(m.unit)
	press(m, "-")
	if got := w.Duration(m.unit); got <= zoomed {
		t.Errorf("duration after zoom out = %d, want above %d", got, zoomed)
	}
}

func TestViewerScrollCullsRows(t *testing.T) {
	// Thirty items in a chain of overlaps, one row each.
	var items []*item.Item
	for i := 0; i < 30; i++ {
		items = append(items, &item.Item{
			ID:    string(rune('A' + i)),
			Start: day(1),
			End:   day(10),
		})
	}
	m := newTestViewer(t, items, 60, 13)

	if m.canvas.h != 10 {
		t.Fatalf("canvas lines = %d, want the 10 line viewport", m.canvas.h)
	}
	if got := m.drawer.LastPainted(); got != 10 {
		t.Errorf("painted at top = %d, want 10", got)
	}

	press(m, "G")
	if m.surface.VValue() != 1 {
		t.Errorf("vvalue after G = %v, want 1", m.surface.VValue())
	}
	if got := m.surface.OriginY(); got != 20 {
		t.Errorf("origin after G = %v, want 20", got)
	}
	if got := m.drawer.LastPainted(); got != 10 {
		t.Errorf("painted at bottom = %d, want 10", got)
	}

	press(m, "g")
	if m.surface.OriginY() != 0 {
		t.Errorf("origin after g = %v, want 0", m.surface.OriginY())
	}
}

func TestViewerQuit(t *testing.T) {
	m := newTestViewer(t, viewItems(), 80, 12)
	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestCellCanvasPaint(t *testing.T) {
	c := &cellCanvas{}
	c.Clear(layout.Rect{Width: 12, Height: 2})
	it := &item.Item{ID: "x", Label: "設計レビュー"}

	c.paint(it, layout.Bounds{X: 0, Y: 0, Width: 8, Height: 1})
	c.paint(&item.Item{ID: "y"}, layout.Bounds{X: 10, Y: 1, Width: 2, Height: 1})
	c.paint(it, layout.Bounds{X: 0, Y: 5, Width: 4, Height: 1})

	if got := c.line(0); !strings.HasPrefix(got, "[設計. ]") {
		t.Errorf("line 0 = %q, want wide label truncated to fit", got)
	}
	if got := c.line(1); !strings.HasSuffix(got, "##") {
		t.Errorf("line 1 = %q, want a too narrow segment drawn as #", got)
	}

	c.Clear(layout.Rect{Width: 12, Height: 2})
	if got := c.line(0); got != strings.Repeat(" ", 12) {
		t.Errorf("cleared line = %q", got)
	}
}
