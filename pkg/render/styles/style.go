package styles

import (
	"bytes"
	"strings"

	"github.com/matzehuels/timelane/pkg/errors"
)

// Style defines the visual appearance of a rendered lane.
// Implementations control how items, parent bands and headers are drawn.
type Style interface {
	// RenderDefs writes SVG <defs> content (filters, patterns, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderGrandparent writes the SVG for a grandparent header band.
	RenderGrandparent(buf *bytes.Buffer, b Band)
	// RenderParent writes the SVG for the band behind a parent's rows.
	RenderParent(buf *bytes.Buffer, b Band)
	// RenderItem writes the SVG for a single item shape.
	RenderItem(buf *bytes.Buffer, b Block)
	// RenderText writes the SVG for an item's label text.
	RenderText(buf *bytes.Buffer, b Block)
}

// Block contains all data needed to render a single item.
type Block struct {
	ID         string  // Item identifier
	Label      string  // Display text
	Parent     string  // Parent key, used for coloring
	X, Y, W, H float64 // Position and dimensions in canvas space
	CX, CY     float64 // Center coordinates (for text)
	Color      string  // Explicit fill, overrides the style's palette
	URL        string  // Optional link target
	Title      string  // Hover tooltip
}

// Band contains positioning data for a parent or grandparent strip.
type Band struct {
	Key        string  // Group key, empty for the anonymous bucket
	Index      int     // Position among bands of the same kind
	X, Y, W, H float64 // Position and dimensions in canvas space
}

// Names lists the styles accepted by [ByName].
var Names = []string{"simple", "banded"}

// ByName returns the style registered under name.
func ByName(name string) (Style, error) {
	switch strings.ToLower(name) {
	case "", "simple":
		return Simple{}, nil
	case "banded":
		return Banded{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want one of %s)", name, strings.Join(Names, ", "))
}
