package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/timelane/pkg/draw"
	"github.com/matzehuels/timelane/pkg/item"
	"github.com/matzehuels/timelane/pkg/layout"
	"github.com/matzehuels/timelane/pkg/render"
	"github.com/matzehuels/timelane/pkg/render/styles"
)

const itemInteractionCSS = `
    .item { transition: stroke-width 0.2s ease; }
    .item.highlight { stroke: #000; stroke-width: 2.5; }
    .item-text { pointer-events: none; }
    a { cursor: pointer; }`

const itemInteractionJS = `
    function highlight(id) {
      document.querySelectorAll('.item').forEach(b => b.classList.toggle('highlight', b.id === 'item-' + id));
    }
    function clearHighlight() {
      document.querySelectorAll('.item').forEach(el => el.classList.remove('highlight'));
    }
    document.querySelectorAll('.item').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.id.replace('item-', '')));
      el.addEventListener('mouseleave', clearHighlight);
    });`

// RenderSVG draws the part of the chart inside the viewport. The SVG is
// the size of the physical surface and its content is shifted up by the
// scroll origin, which is recorded in the data-origin-y attribute.
func RenderSVG(c *render.Chart, opts ...Option) []byte {
	o := newOptions(opts...)
	s := o.surface(c)
	w, h := s.PhysicalSize()
	visible := s.VisibleRect()
	originY := s.OriginY()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-origin-y="%.1f">`+"\n",
		w, h, w, h, originY)
	o.style.RenderDefs(&buf)

	for i, p := range c.Parents {
		if b, ok := translated(p.Bounds, visible, originY); ok {
			o.style.RenderParent(&buf, band(p, i, b))
		}
	}
	for i, g := range c.Headers {
		if b, ok := translated(g.Bounds, visible, originY); ok {
			o.style.RenderGrandparent(&buf, band(g, i, b))
		}
	}

	var blocks []styles.Block
	draw.Visible(c.Items, c.Position, visible, 0, originY, func(it *item.Item, b layout.Bounds) {
		blocks = append(blocks, blockFor(it, b, o.tooltips))
	})
	for _, b := range blocks {
		o.style.RenderItem(&buf, b)
	}
	for _, b := range blocks {
		o.style.RenderText(&buf, b)
	}

	if o.interactive {
		renderItemInteraction(&buf)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func translated(b layout.Bounds, visible layout.Rect, originY float64) (layout.Bounds, bool) {
	t := b.Translate(0, -originY)
	return t, b.Valid && t.Intersects(visible)
}

func band(b render.Band, index int, t layout.Bounds) styles.Band {
	return styles.Band{Key: b.Key, Index: index, X: t.X, Y: t.Y, W: t.Width, H: t.Height}
}

func blockFor(it *item.Item, b layout.Bounds, tooltip bool) styles.Block {
	blk := styles.Block{
		ID:     it.ID,
		Label:  it.Name(),
		Parent: it.Parent,
		X:      b.X,
		Y:      b.Y,
		W:      b.Width,
		H:      b.Height,
		CX:     b.X + b.Width/2,
		CY:     b.Y + b.Height/2,
		Color:  it.Color,
		URL:    it.URL,
	}
	if tooltip {
		blk.Title = fmt.Sprintf("%s (%s .. %s)", it.Name(), item.FormatTime(it.Start), item.FormatTime(it.End))
	}
	return blk
}

func renderItemInteraction(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", itemInteractionCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", itemInteractionJS)
}
