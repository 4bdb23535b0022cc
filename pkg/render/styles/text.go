package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/mattn/go-runewidth"
)

const (
	fontHeightRatio = 0.6
	fontWidthRatio  = 0.9
	fontCharWidth   = 0.55
	fontSizeMin     = 7.0
	fontSizeMax     = 14.0
	textPadding     = 4.0
)

// FontSize picks a label size that fits the block height. Width is handled
// by truncation, since items are short and wide.
func FontSize(b Block) float64 {
	return max(fontSizeMin, min(fontSizeMax, b.H*fontHeightRatio))
}

// LabelFits reports whether at least a few characters of the label fit.
func LabelFits(b Block) bool {
	return maxCells(b) >= 3
}

func maxCells(b Block) int {
	avail := (b.W - 2*textPadding) * fontWidthRatio
	return int(avail / (FontSize(b) * fontCharWidth))
}

// TruncateLabel shortens the label to the block width, counting terminal
// cells so wide runes are not undercounted.
func TruncateLabel(b Block) string {
	n := maxCells(b)
	if n < 3 {
		n = 3
	}
	return runewidth.Truncate(b.Label, n, "..")
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func WrapURL(buf *bytes.Buffer, url string, fn func()) {
	if url != "" {
		fmt.Fprintf(buf, `  <a href="%s" target="_blank">`, EscapeXML(url))
	}
	fn()
	if url != "" {
		buf.WriteString("</a>")
	}
}

func writeTitle(buf *bytes.Buffer, title string) {
	if title != "" {
		fmt.Fprintf(buf, "<title>%s</title>", EscapeXML(title))
	}
}
