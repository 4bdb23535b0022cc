package sink

import (
	"github.com/matzehuels/timelane/pkg/render"
	"github.com/matzehuels/timelane/pkg/render/styles"
	"github.com/matzehuels/timelane/pkg/surface"
)

// Option configures a sink.
type Option func(*options)

type options struct {
	style     styles.Style
	styleName string

	viewportWidth, viewportHeight float64
	scroll                        float64

	tooltips    bool
	interactive bool

	columns int
	color   bool
}

// WithViewport limits output to a w by h viewport. Zero values follow the
// chart size, so by default the whole chart is rendered.
func WithViewport(w, h float64) Option {
	return func(o *options) { o.viewportWidth, o.viewportHeight = w, h }
}

// WithScroll scrolls the viewport to fraction v of the scrollable height.
func WithScroll(v float64) Option { return func(o *options) { o.scroll = v } }

// WithStyle sets the SVG style. The name is recorded in JSON output.
func WithStyle(name string, s styles.Style) Option {
	return func(o *options) { o.styleName, o.style = name, s }
}

// WithTooltips adds hover titles with the item's time span.
func WithTooltips() Option { return func(o *options) { o.tooltips = true } }

// WithInteraction embeds hover highlighting CSS and script in SVG output.
func WithInteraction() Option { return func(o *options) { o.interactive = true } }

// WithColumns sets the text sink width in terminal cells.
func WithColumns(n int) Option { return func(o *options) { o.columns = n } }

// WithColor colors text sink items with their style color.
func WithColor() Option { return func(o *options) { o.color = true } }

func newOptions(opts ...Option) options {
	o := options{style: styles.Simple{}, styleName: "simple", columns: 100}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// surface sizes a virtual surface for the chart and scrolls it.
func (o options) surface(c *render.Chart) *surface.Virtual {
	w, h := o.viewportWidth, o.viewportHeight
	if w <= 0 {
		w = c.Width
	}
	if h <= 0 {
		h = c.Height
	}
	s := surface.New(nil)
	s.SetLogicalSize(c.Width, c.Height)
	s.SetViewport(w, h)
	s.SetVValue(o.scroll)
	return s
}
