package styles

import (
	"bytes"
	"fmt"
	"hash/fnv"
)

// palette holds muted fills that keep dark text readable.
var palette = []string{
	"#8ecae6", "#ffb703", "#90be6d", "#f4a261", "#cdb4db",
	"#a8dadc", "#e9c46a", "#b5e48c", "#f28482", "#bde0fe",
}

// ColorForKey returns a deterministic palette color for a group key.
func ColorForKey(key string) string {
	h := fnv.New32a()
	h.Write([]byte(key))
	return palette[h.Sum32()%uint32(len(palette))]
}

// Banded shades alternate parent bands and colors items by parent.
type Banded struct{}

func (Banded) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs><filter id="item-shadow" x="-5%" y="-5%" width="110%" height="130%">` +
		`<feDropShadow dx="0" dy="1" stdDeviation="0.6" flood-opacity="0.3"/></filter></defs>` + "\n")
}

func (Banded) RenderGrandparent(buf *bytes.Buffer, b Band) {
	fmt.Fprintf(buf, `  <g class="header"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#264653"/>`,
		b.X, b.Y, b.W, b.H)
	fmt.Fprintf(buf, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" font-weight="bold" dominant-baseline="middle" fill="white">%s</text></g>`+"\n",
		b.X+textPadding, b.Y+b.H/2, max(fontSizeMin, min(fontSizeMax, b.H*fontHeightRatio)), EscapeXML(b.Key))
}

func (Banded) RenderParent(buf *bytes.Buffer, b Band) {
	fill := "#ffffff"
	if b.Index%2 == 1 {
		fill = "#f4f4f4"
	}
	fmt.Fprintf(buf, `  <rect class="parent" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s">`,
		b.X, b.Y, b.W, b.H, fill)
	writeTitle(buf, b.Key)
	buf.WriteString("</rect>\n")
}

func (Banded) RenderItem(buf *bytes.Buffer, b Block) {
	fill := b.Color
	if fill == "" {
		fill = ColorForKey(b.Parent)
	}
	WrapURL(buf, b.URL, func() {
		fmt.Fprintf(buf, `  <rect id="item-%s" class="item" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="3" fill="%s" filter="url(#item-shadow)">`,
			EscapeXML(b.ID), b.X, b.Y, b.W, b.H, EscapeXML(fill))
		writeTitle(buf, b.Title)
		buf.WriteString("</rect>\n")
	})
}

func (Banded) RenderText(buf *bytes.Buffer, b Block) {
	Simple{}.RenderText(buf, b)
}
