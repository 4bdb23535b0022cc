package styles

import (
	"bytes"
	"fmt"
)

// Simple draws outlined white items with a hairline between parents.
type Simple struct{}

func (Simple) RenderDefs(*bytes.Buffer) {}

func (Simple) RenderGrandparent(buf *bytes.Buffer, b Band) {
	fmt.Fprintf(buf, `  <g class="header"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#eee"/>`,
		b.X, b.Y, b.W, b.H)
	fmt.Fprintf(buf, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" font-weight="bold" dominant-baseline="middle">%s</text></g>`+"\n",
		b.X+textPadding, b.Y+b.H/2, max(fontSizeMin, min(fontSizeMax, b.H*fontHeightRatio)), EscapeXML(b.Key))
}

func (Simple) RenderParent(buf *bytes.Buffer, b Band) {
	if b.Index == 0 {
		return
	}
	fmt.Fprintf(buf, `  <line class="parent" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#ccc" stroke-width="1"/>`+"\n",
		b.X, b.Y, b.X+b.W, b.Y)
}

func (Simple) RenderItem(buf *bytes.Buffer, b Block) {
	fill := b.Color
	if fill == "" {
		fill = "white"
	}
	WrapURL(buf, b.URL, func() {
		fmt.Fprintf(buf, `  <rect id="item-%s" class="item" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="2" fill="%s" stroke="#333" stroke-width="1">`,
			EscapeXML(b.ID), b.X, b.Y, b.W, b.H, EscapeXML(fill))
		writeTitle(buf, b.Title)
		buf.WriteString("</rect>\n")
	})
}

func (Simple) RenderText(buf *bytes.Buffer, b Block) {
	if !LabelFits(b) {
		return
	}
	fmt.Fprintf(buf, `  <text class="item-text" data-item="%s" x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" dominant-baseline="middle" fill="#333">%s</text>`+"\n",
		EscapeXML(b.ID), b.X+textPadding, b.CY, FontSize(b), EscapeXML(TruncateLabel(b)))
}
