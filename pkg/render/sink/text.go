package sink

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/timelane/pkg/draw"
	"github.com/matzehuels/timelane/pkg/item"
	"github.com/matzehuels/timelane/pkg/layout"
	"github.com/matzehuels/timelane/pkg/render"
	"github.com/matzehuels/timelane/pkg/render/styles"
)

const maxGutter = 16

var (
	textHeaderStyle = lipgloss.NewStyle().Bold(true)
	textGutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type textSegment struct {
	x0, x1 int
	it     *item.Item
}

// RenderText draws the visible rows as terminal text, one line per lane
// row. Items become bracketed labels scaled to the column width; parent
// keys fill a left gutter and grandparent headers get their own line.
func RenderText(c *render.Chart, opts ...Option) []byte {
	o := newOptions(opts...)
	s := o.surface(c)
	visible := s.VisibleRect()
	originY := s.OriginY()

	gutter := 0
	for _, p := range c.Parents {
		gutter = max(gutter, runewidth.StringWidth(p.Key))
	}
	gutter = min(gutter, maxGutter)
	cols := max(o.columns-gutter-1, 1)
	if gutter == 0 {
		cols = max(o.columns, 1)
	}
	scale := 0.0
	if c.Width > 0 {
		scale = float64(cols) / c.Width
	}

	rows := map[int][]textSegment{}
	draw.Visible(c.Items, c.Position, visible, 0, originY, func(it *item.Item, b layout.Bounds) {
		x0 := int(math.Round(b.X * scale))
		x1 := max(int(math.Round(b.MaxX()*scale)), x0+1)
		rows[b.Row] = append(rows[b.Row], textSegment{x0: x0, x1: min(x1, cols), it: it})
	})

	var sb strings.Builder
	sb.WriteString(axisLine(c, gutter, cols))
	headers := map[int]render.Band{}
	for _, h := range c.Headers {
		headers[h.Bounds.Row] = h
	}
	for _, p := range c.Parents {
		if _, ok := translated(p.Bounds, visible, originY); !ok {
			continue
		}
		if h, ok := headers[p.Bounds.Row]; ok {
			sb.WriteString(o.header(h.Key, gutter+cols))
		}
		n := max(p.Rows, 1)
		pitch := p.Bounds.Height / float64(n)
		for r := 0; r < n; r++ {
			y := p.Bounds.Y + float64(r)*pitch - originY
			if y+pitch <= visible.Y || y >= visible.MaxY() {
				continue
			}
			var line string
			if gutter > 0 {
				label := ""
				if r == 0 {
					label = p.Key
				}
				line = o.gutter(label, gutter) + " "
			}
			line += o.line(rows[p.Bounds.Row+r], cols)
			sb.WriteString(strings.TrimRight(line, " "))
			sb.WriteByte('\n')
		}
	}
	return []byte(sb.String())
}

func axisLine(c *render.Chart, gutter, cols int) string {
	start, end := item.FormatTime(c.WindowStart), item.FormatTime(c.WindowEnd)
	lead := ""
	if gutter > 0 {
		lead = strings.Repeat(" ", gutter+1)
	}
	pad := cols - runewidth.StringWidth(start) - runewidth.StringWidth(end)
	if pad < 1 {
		return lead + start + "\n"
	}
	return lead + start + strings.Repeat(" ", pad) + end + "\n"
}

func (o options) header(key string, width int) string {
	text := "== " + key + " "
	if w := runewidth.StringWidth(text); w < width {
		text += strings.Repeat("=", width-w)
	} else {
		text = runewidth.Truncate(text, width, "")
	}
	if o.color {
		text = textHeaderStyle.Render(text)
	}
	return text + "\n"
}

func (o options) gutter(label string, width int) string {
	text := runewidth.FillRight(runewidth.Truncate(label, width, "."), width)
	if o.color {
		return textGutterStyle.Render(text)
	}
	return text
}

// line lays segments out left to right. Segments that collide after
// scaling are clipped so the line never exceeds cols cells.
func (o options) line(segs []textSegment, cols int) string {
	sort.Slice(segs, func(i, j int) bool { return segs[i].x0 < segs[j].x0 })
	var sb strings.Builder
	cursor := 0
	for _, seg := range segs {
		x0 := max(seg.x0, cursor)
		if x0 >= seg.x1 {
			continue
		}
		sb.WriteString(strings.Repeat(" ", x0-cursor))
		sb.WriteString(o.segment(seg.it, seg.x1-x0))
		cursor = seg.x1
	}
	return sb.String()
}

func (o options) segment(it *item.Item, w int) string {
	var text string
	switch {
	case w >= 3:
		text = "[" + runewidth.FillRight(runewidth.Truncate(it.Name(), w-2, "."), w-2) + "]"
	default:
		text = strings.Repeat("#", w)
	}
	if !o.color {
		return text
	}
	fill := it.Color
	if fill == "" {
		fill = styles.ColorForKey(it.Parent)
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(fill)).
		Foreground(lipgloss.Color("#000000")).
		Render(text)
}
