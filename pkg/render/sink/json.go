package sink

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/timelane/pkg/draw"
	"github.com/matzehuels/timelane/pkg/item"
	"github.com/matzehuels/timelane/pkg/layout"
	"github.com/matzehuels/timelane/pkg/render"
)

type jsonOutput struct {
	Width          float64    `json:"width"`
	Height         float64    `json:"height"`
	ViewportWidth  float64    `json:"viewport_width"`
	ViewportHeight float64    `json:"viewport_height"`
	OriginY        float64    `json:"origin_y"`
	WindowStart    time.Time  `json:"window_start"`
	WindowEnd      time.Time  `json:"window_end"`
	Unit           string     `json:"unit"`
	Rows           int        `json:"rows"`
	Packed         bool       `json:"packed"`
	Style          string     `json:"style,omitempty"`
	Items          []jsonItem `json:"items"`
	Parents        []jsonBand `json:"parents,omitempty"`
	Headers        []jsonBand `json:"headers,omitempty"`
}

type jsonItem struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Parent      string            `json:"parent,omitempty"`
	Grandparent string            `json:"grandparent,omitempty"`
	Start       time.Time         `json:"start"`
	End         time.Time         `json:"end"`
	Row         int               `json:"row"`
	X           float64           `json:"x"`
	Y           float64           `json:"y"`
	Width       float64           `json:"width"`
	Height      float64           `json:"height"`
	Color       string            `json:"color,omitempty"`
	URL         string            `json:"url,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
}

type jsonBand struct {
	Key    string  `json:"key"`
	Row    int     `json:"row"`
	Rows   int     `json:"rows,omitempty"`
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
}

// RenderJSON exports the visible part of the chart as a pretty-printed JSON
// document. Coordinates are relative to the viewport; adding origin_y gives
// the logical position. Items are listed in lane order.
//
// RenderJSON returns an error only if JSON marshaling fails. It does not
// modify c and is safe to call concurrently.
func RenderJSON(c *render.Chart, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	s := o.surface(c)
	w, h := s.PhysicalSize()
	visible := s.VisibleRect()
	originY := s.OriginY()

	out := jsonOutput{
		Width:          c.Width,
		Height:         c.Height,
		ViewportWidth:  w,
		ViewportHeight: h,
		OriginY:        originY,
		WindowStart:    c.WindowStart,
		WindowEnd:      c.WindowEnd,
		Unit:           c.Unit.String(),
		Rows:           c.Rows,
		Packed:         c.Packed,
		Style:          o.styleName,
		Items:          make([]jsonItem, 0, len(c.Items)),
	}

	draw.Visible(c.Items, c.Position, visible, 0, originY, func(it *item.Item, b layout.Bounds) {
		out.Items = append(out.Items, jsonItem{
			ID:          it.ID,
			Label:       it.Name(),
			Parent:      it.Parent,
			Grandparent: it.Grandparent,
			Start:       it.Start,
			End:         it.End,
			Row:         b.Row,
			X:           b.X,
			Y:           b.Y,
			Width:       b.Width,
			Height:      b.Height,
			Color:       it.Color,
			URL:         it.URL,
			Meta:        it.Meta,
		})
	})
	out.Parents = jsonBands(c.Parents, visible, originY)
	out.Headers = jsonBands(c.Headers, visible, originY)

	return json.MarshalIndent(out, "", "  ")
}

func jsonBands(bands []render.Band, visible layout.Rect, originY float64) []jsonBand {
	var out []jsonBand
	for _, b := range bands {
		t, ok := translated(b.Bounds, visible, originY)
		if !ok {
			continue
		}
		out = append(out, jsonBand{Key: b.Key, Row: t.Row, Rows: b.Rows, Y: t.Y, Height: t.Height})
	}
	return out
}
