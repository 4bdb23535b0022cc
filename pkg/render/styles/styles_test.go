package styles

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/timelane/pkg/errors"
)

func TestSimpleRenderDefs(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderDefs(&buf)
	if buf.Len() != 0 {
		t.Errorf("RenderDefs() wrote %d bytes, want 0", buf.Len())
	}
}

func TestRenderItem(t *testing.T) {
	tests := []struct {
		name     string
		style    Style
		block    Block
		contains []string
	}{
		{
			name:  "simple basic",
			style: Simple{},
			block: Block{ID: "task-1", X: 10, Y: 20, W: 100, H: 18},
			contains: []string{
				`id="item-task-1"`,
				`class="item"`,
				`x="10.00"`,
				`y="20.00"`,
				`width="100.00"`,
				`fill="white"`,
			},
		},
		{
			name:     "explicit color wins",
			style:    Banded{},
			block:    Block{ID: "a", Parent: "p", Color: "#123456", W: 10, H: 10},
			contains: []string{`fill="#123456"`},
		},
		{
			name:     "banded colors by parent",
			style:    Banded{},
			block:    Block{ID: "a", Parent: "design", W: 10, H: 10},
			contains: []string{`fill="` + ColorForKey("design") + `"`, `filter="url(#item-shadow)"`},
		},
		{
			name:     "url wraps link",
			style:    Simple{},
			block:    Block{ID: "a", URL: "https://example.com", W: 10, H: 10},
			contains: []string{`<a href="https://example.com" target="_blank">`, `</a>`},
		},
		{
			name:     "escapes id and title",
			style:    Simple{},
			block:    Block{ID: "a<b>", Title: "x & y", W: 10, H: 10},
			contains: []string{`id="item-a&lt;b&gt;"`, `<title>x &amp; y</title>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.style.RenderItem(&buf, tt.block)
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("RenderItem() missing %q\nGot: %s", want, out)
				}
			}
		})
	}
}

func TestRenderTextSkipsNarrowItems(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderText(&buf, Block{ID: "a", Label: "hello", W: 8, H: 20})
	if buf.Len() != 0 {
		t.Errorf("RenderText() wrote %q for a narrow item", buf.String())
	}

	buf.Reset()
	Simple{}.RenderText(&buf, Block{ID: "a", Label: "hello", W: 200, H: 20, CY: 10})
	if !strings.Contains(buf.String(), ">hello</text>") {
		t.Errorf("RenderText() = %q, want full label", buf.String())
	}
}

func TestRenderParent(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderParent(&buf, Band{Key: "first", Index: 0, W: 100, H: 20})
	if buf.Len() != 0 {
		t.Errorf("Simple first parent should draw no separator, got %q", buf.String())
	}

	buf.Reset()
	Banded{}.RenderParent(&buf, Band{Key: "odd", Index: 1, W: 100, H: 20})
	if !strings.Contains(buf.String(), `fill="#f4f4f4"`) {
		t.Errorf("odd band should be shaded, got %q", buf.String())
	}
}

func TestRenderGrandparent(t *testing.T) {
	for _, s := range []Style{Simple{}, Banded{}} {
		var buf bytes.Buffer
		s.RenderGrandparent(&buf, Band{Key: "Q1 & Q2", W: 100, H: 10})
		if !strings.Contains(buf.String(), "Q1 &amp; Q2") {
			t.Errorf("%T header missing escaped key: %q", s, buf.String())
		}
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  string
	}{
		{"fits", Block{Label: "api", W: 200, H: 20}, "api"},
		{"truncated", Block{Label: "a very long label for a tiny box", W: 60, H: 20}, "a ver.."},
		{"wide runes", Block{Label: "日本語のラベル", W: 60, H: 20}, "日本.."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateLabel(tt.block); got != tt.want {
				t.Errorf("TruncateLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColorForKey(t *testing.T) {
	if ColorForKey("a") != ColorForKey("a") {
		t.Error("ColorForKey() should be deterministic")
	}
	if !strings.HasPrefix(ColorForKey(""), "#") {
		t.Error("ColorForKey() should return a hex color")
	}
}

func TestByName(t *testing.T) {
	for _, name := range append(Names, "", "BANDED") {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q) error: %v", name, err)
		}
	}
	_, err := ByName("handdrawn")
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("ByName(handdrawn) error = %v, want INVALID_STYLE", err)
	}
}
