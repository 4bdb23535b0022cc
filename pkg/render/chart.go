package render

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/timelane/pkg/gantt"
	"github.com/matzehuels/timelane/pkg/item"
	"github.com/matzehuels/timelane/pkg/layout"
	"github.com/matzehuels/timelane/pkg/timewindow"
)

// Band is a labelled horizontal strip of the chart: a parent's rows or a
// grandparent's header.
type Band struct {
	Key    string
	Rows   int
	Bounds layout.Bounds
}

// Chart is a completed lane layout. Bounds[i] is the logical position of
// Items[i].
type Chart struct {
	Width, Height float64
	Rows          int
	WindowStart   time.Time
	WindowEnd     time.Time
	Unit          timewindow.Unit
	Packed        bool

	Items   []*item.Item
	Bounds  []layout.Bounds
	Parents []Band
	Headers []Band
}

// FromGantt runs any pending pass of g and snapshots the result.
func FromGantt(g *gantt.Layout[*item.Item]) *Chart {
	s := g.Snapshot()
	c := &Chart{
		Width:       s.Width,
		Height:      s.Height,
		Rows:        s.Rows,
		WindowStart: s.WindowStart,
		WindowEnd:   s.WindowEnd,
		Unit:        s.Unit,
		Packed:      g.TetrisPacking(),
		Items:       s.Items,
		Bounds:      s.Bounds,
	}
	for _, p := range g.ParentRows() {
		c.Parents = append(c.Parents, Band{Key: keyString(p.Key()), Rows: p.RowsCount(), Bounds: p.Bounds()})
	}
	if g.HasHeaders() {
		for _, gr := range g.GrandparentRows() {
			c.Headers = append(c.Headers, Band{Key: keyString(gr.Key()), Bounds: gr.Header()})
		}
	}
	return c
}

// MarshalChart serializes a chart for the layout cache.
func MarshalChart(c *Chart) ([]byte, error) { return json.Marshal(c) }

// UnmarshalChart restores a chart written by [MarshalChart].
func UnmarshalChart(data []byte) (*Chart, error) {
	var c Chart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if len(c.Bounds) != len(c.Items) {
		return nil, fmt.Errorf("chart has %d items but %d bounds", len(c.Items), len(c.Bounds))
	}
	return &c, nil
}

// Position returns the logical bounds of item i.
func (c *Chart) Position(i int) layout.Bounds { return c.Bounds[i] }

// Len returns the number of items.
func (c *Chart) Len() int { return len(c.Items) }

// VisibleParents returns the parent bands intersecting r.
func (c *Chart) VisibleParents(r layout.Rect) []Band { return visibleBands(c.Parents, r) }

// VisibleHeaders returns the grandparent headers intersecting r.
func (c *Chart) VisibleHeaders(r layout.Rect) []Band { return visibleBands(c.Headers, r) }

func visibleBands(bands []Band, r layout.Rect) []Band {
	var out []Band
	for _, b := range bands {
		if b.Bounds.Intersects(r) {
			out = append(out, b)
		}
	}
	return out
}

func keyString(k any) string {
	switch v := k.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
