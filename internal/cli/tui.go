package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/timelane/pkg/draw"
	"github.com/matzehuels/timelane/pkg/frame"
	"github.com/matzehuels/timelane/pkg/gantt"
	"github.com/matzehuels/timelane/pkg/item"
	"github.com/matzehuels/timelane/pkg/layout"
	"github.com/matzehuels/timelane/pkg/pipeline"
	"github.com/matzehuels/timelane/pkg/render/styles"
	"github.com/matzehuels/timelane/pkg/surface"
	"github.com/matzehuels/timelane/pkg/timewindow"
)

const (
	// frameInterval paces the viewer's frame loop at about 60 fps.
	frameInterval = time.Second / 60

	// viewChrome is the axis line above the chart plus status and help below.
	viewChrome = 3

	maxViewGutter = 16
)

var (
	viewAxisStyle   = lipgloss.NewStyle().Foreground(colorGray)
	viewGutterStyle = lipgloss.NewStyle().Foreground(colorCyan)
	viewHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	viewStatusStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Key Bindings
// =============================================================================

type viewKeyMap struct {
	Up, Down         key.Binding
	PageUp, PageDown key.Binding
	Top, Bottom      key.Binding
	Earlier, Later   key.Binding
	ZoomIn, ZoomOut  key.Binding
	Packing          key.Binding
	Help             key.Binding
	Quit             key.Binding
}

var viewKeys = viewKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("pgdn", "page down")),
	Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	Earlier:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "earlier")),
	Later:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "later")),
	ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
	Packing:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle packing")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

func (k viewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Earlier, k.Later, k.ZoomIn, k.Packing, k.Help, k.Quit}
}

func (k viewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Earlier, k.Later, k.ZoomIn, k.ZoomOut},
		{k.Packing, k.Help, k.Quit},
	}
}

// =============================================================================
// Cell Canvas
// =============================================================================

type cell struct {
	r  rune // 0 marks the second half of a wide rune
	it *item.Item
}

// cellCanvas is the physical surface of the viewer: one cell per terminal
// character, sized by the drawer's area on every clear.
type cellCanvas struct {
	w, h  int
	cells [][]cell
}

func (c *cellCanvas) Clear(r layout.Rect) {
	w, h := max(int(r.Width), 0), max(int(r.Height), 0)
	if w != c.w || h != c.h {
		c.w, c.h = w, h
		c.cells = make([][]cell, h)
		for y := range c.cells {
			c.cells[y] = make([]cell, w)
		}
	}
	for _, line := range c.cells {
		for x := range line {
			line[x] = cell{r: ' '}
		}
	}
}

// paint writes an item label into its row. b is in canvas cells.
func (c *cellCanvas) paint(it *item.Item, b layout.Bounds) {
	y := int(math.Floor(b.Y))
	if y < 0 || y >= c.h {
		return
	}
	x0 := max(int(math.Round(b.X)), 0)
	x1 := min(max(int(math.Round(b.MaxX())), x0+1), c.w)
	if x0 >= x1 {
		return
	}
	x := x0
	for _, r := range segmentLabel(it.Name(), x1-x0) {
		w := runewidth.RuneWidth(r)
		if w == 0 || x+w > x1 {
			continue
		}
		c.cells[y][x] = cell{r: r, it: it}
		if w == 2 {
			c.cells[y][x+1] = cell{it: it}
		}
		x += w
	}
}

func segmentLabel(name string, w int) string {
	if w < 3 {
		return strings.Repeat("#", w)
	}
	return "[" + runewidth.FillRight(runewidth.Truncate(name, w-2, "."), w-2) + "]"
}

// line renders canvas row y with each item in its parent color.
func (c *cellCanvas) line(y int) string {
	var sb strings.Builder
	row := c.cells[y]
	for x := 0; x < len(row); {
		it := row[x].it
		end := x
		var run strings.Builder
		for end < len(row) && row[end].it == it {
			if r := row[end].r; r != 0 {
				run.WriteRune(r)
			}
			end++
		}
		if it == nil {
			sb.WriteString(run.String())
		} else {
			fill := it.Color
			if fill == "" {
				fill = styles.ColorForKey(it.Parent)
			}
			sb.WriteString(lipgloss.NewStyle().
				Background(lipgloss.Color(fill)).
				Foreground(lipgloss.Color("#000000")).
				Render(run.String()))
		}
		x = end
	}
	return sb.String()
}

// =============================================================================
// Viewer Model
// =============================================================================

type frameMsg time.Time

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// viewModel hosts a gantt layout in the terminal. Every key press only
// mutates engine state and marks it dirty; the frame ticks pulse the loop,
// which runs at most one layout and one redraw per frame.
type viewModel struct {
	gantt   *gantt.Layout[*item.Item]
	loop    *frame.Loop
	surface *surface.Virtual
	drawer  *draw.Drawer[*item.Item]
	canvas  *cellCanvas
	unit    timewindow.Unit

	keys viewKeyMap
	help help.Model

	cols, lines int
	gutter      int
	headers     bool

	stopSync func()
}

// newViewModel lays items out in terminal cells: one column per cell, one
// row per line and a one line header per grandparent.
func newViewModel(items []*item.Item, opts pipeline.Options) (*viewModel, error) {
	opts.Lane.ItemHeight = 1
	opts.Lane.VSpacing = 0
	opts.Lane.HSpacing = 0
	opts.Lane.TopY = 0
	opts.Lane.HeaderHeight = 1
	opts.Lane.FillHeight = false

	g, loop, err := pipeline.NewGantt(items, opts)
	if err != nil {
		return nil, err
	}
	unit, _ := opts.Unit()

	m := &viewModel{
		gantt:  g,
		loop:   loop,
		canvas: &cellCanvas{},
		unit:   unit,
		keys:   viewKeys,
		help:   help.New(),
	}
	m.drawer = draw.NewDrawer[*item.Item](loop, g, m.canvas, layout.Rect{}, m.canvas.paint)
	m.surface = surface.New(nil)
	m.surface.SetRefresh(draw.Refresher[*item.Item](m.surface, g, m.drawer))
	m.stopSync = g.OnAfterLayout(func(layout.State) {
		m.surface.SetLogicalHeight(g.Height())
	})

	g.SetItems(items)
	for _, p := range g.ParentRows() {
		m.gutter = max(m.gutter, runewidth.StringWidth(keyLabel(p.Key())))
	}
	if m.gutter > 0 {
		m.gutter = min(m.gutter, maxViewGutter) + 1
	}
	m.headers = g.HasHeaders()
	return m, nil
}

func (m *viewModel) close() {
	m.stopSync()
	m.drawer.Close()
	m.gantt.Close()
}

func (m *viewModel) Init() tea.Cmd { return frameTick() }

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.loop.Pulse()
		return m, frameTick()
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *viewModel) resize(cols, lines int) {
	m.cols, m.lines = cols, lines
	m.help.Width = cols
	w := float64(max(cols-m.gutter, 1))
	h := float64(max(lines-viewChrome, 1))
	m.gantt.SetWidth(w)
	m.surface.SetLogicalSize(w, m.gantt.Height())
	m.surface.SetViewport(w, h)
}

func (m *viewModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	window := m.gantt.Window()
	_, page := m.surface.PhysicalSize()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.surface.ScrollBy(-1)
	case key.Matches(msg, m.keys.Down):
		m.surface.ScrollBy(1)
	case key.Matches(msg, m.keys.PageUp):
		m.surface.ScrollBy(-page)
	case key.Matches(msg, m.keys.PageDown):
		m.surface.ScrollBy(page)
	case key.Matches(msg, m.keys.Top):
		m.surface.SetVValue(0)
	case key.Matches(msg, m.keys.Bottom):
		m.surface.SetVValue(1)
	case key.Matches(msg, m.keys.Earlier):
		_ = window.Shift(-1, m.unit)
	case key.Matches(msg, m.keys.Later):
		_ = window.Shift(1, m.unit)
	case key.Matches(msg, m.keys.ZoomIn):
		d := window.Duration(m.unit)
		_ = window.SetDurationKeepCentered(max(d*2/3, 1), m.unit)
	case key.Matches(msg, m.keys.ZoomOut):
		d := window.Duration(m.unit)
		_ = window.SetDurationKeepCentered(d*3/2+1, m.unit)
	case key.Matches(msg, m.keys.Packing):
		m.gantt.SetTetrisPacking(!m.gantt.TetrisPacking())
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *viewModel) View() string {
	if m.cols == 0 {
		return "loading..."
	}
	var sb strings.Builder
	sb.WriteString(m.axis())
	sb.WriteByte('\n')

	labels, headers := m.bandLabels()
	for y := 0; y < m.canvas.h; y++ {
		if h, ok := headers[y]; ok {
			sb.WriteString(viewHeaderStyle.Render(runewidth.Truncate("== "+h+" ", m.cols, "")))
			sb.WriteByte('\n')
			continue
		}
		if m.gutter > 0 {
			label := runewidth.FillRight(runewidth.Truncate(labels[y], m.gutter-1, "."), m.gutter-1)
			sb.WriteString(viewGutterStyle.Render(label) + " ")
		}
		sb.WriteString(m.canvas.line(y))
		sb.WriteByte('\n')
	}
	sb.WriteString(m.status())
	sb.WriteByte('\n')
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// bandLabels maps canvas lines to the parent key shown in the gutter and to
// grandparent header titles.
func (m *viewModel) bandLabels() (labels, headers map[int]string) {
	labels, headers = map[int]string{}, map[int]string{}
	visible := m.surface.LogicalVisibleRect()
	originY := m.surface.OriginY()
	m.gantt.VisibleParents(visible, func(p *gantt.ParentRow[*item.Item]) {
		if b := p.Bounds(); b.Y >= originY {
			labels[int(b.Y-originY)] = keyLabel(p.Key())
		}
	})
	if m.headers {
		m.gantt.VisibleGrandparents(visible, func(g *gantt.GrandparentRow[*item.Item]) {
			if h := g.Header(); h.Y >= originY {
				headers[int(h.Y-originY)] = keyLabel(g.Key())
			}
		})
	}
	return labels, headers
}

func (m *viewModel) axis() string {
	w := m.gantt.Window()
	start, end := item.FormatTime(w.Start()), item.FormatTime(w.End())
	lead := strings.Repeat(" ", m.gutter)
	pad := m.cols - m.gutter - runewidth.StringWidth(start) - runewidth.StringWidth(end)
	if pad < 1 {
		return viewAxisStyle.Render(lead + start)
	}
	return viewAxisStyle.Render(lead + start + strings.Repeat(" ", pad) + end)
}

func (m *viewModel) status() string {
	packing := "off"
	if m.gantt.TetrisPacking() {
		packing = "on"
	}
	text := fmt.Sprintf("%d items · %d rows · %d %ss · packing %s · %d painted · %3.0f%%",
		m.gantt.Len(), m.gantt.RowsCount(), m.gantt.Window().Duration(m.unit), m.unit,
		packing, m.drawer.LastPainted(), m.surface.VValue()*100)
	return viewStatusStyle.Render(runewidth.Truncate(text, m.cols, "…"))
}

func keyLabel(k any) string {
	switch v := k.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
