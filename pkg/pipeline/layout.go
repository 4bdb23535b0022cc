package pipeline

import (
	"github.com/matzehuels/timelane/pkg/errors"
	"github.com/matzehuels/timelane/pkg/frame"
	"github.com/matzehuels/timelane/pkg/gantt"
	"github.com/matzehuels/timelane/pkg/item"
	"github.com/matzehuels/timelane/pkg/layout"
	"github.com/matzehuels/timelane/pkg/render"
	"github.com/matzehuels/timelane/pkg/timewindow"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout packs items into a grouped lane and snapshots it. The
// layout runs on a private frame loop, settled before returning, so
// callers get a completed chart without hosting a frame loop themselves.
func GenerateLayout(items []*item.Item, opts Options) (*render.Chart, error) {
	g, loop, err := NewGantt(items, opts)
	if err != nil {
		return nil, err
	}
	defer g.Close()
	g.SetItems(items)
	loop.Settle(maxSettlePulses)
	return render.FromGantt(g), nil
}

// NewGantt builds an empty gantt layout configured from opts and the
// frame loop driving it. The window follows opts, falling back to the span
// of items for unset bounds. Interactive hosts keep the layout and pulse
// the loop themselves.
func NewGantt(items []*item.Item, opts Options) (*gantt.Layout[*item.Item], *frame.Loop, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, nil, err
	}
	window, err := Window(items, opts)
	if err != nil {
		return nil, nil, err
	}
	unit, _ := opts.Unit()

	parentKey, grandparentKey := groupingKeys(items, opts.Lane.Grouping)
	loop := frame.NewLoop()
	g := gantt.New[*item.Item](loop, window, gantt.Config{
		Config: layout.Config{
			Unit:           unit,
			StartExclusive: opts.Lane.StartExclusive,
			EndExclusive:   opts.Lane.EndExclusive,
			ItemHeight:     opts.Lane.ItemHeight,
			FillHeight:     opts.Lane.FillHeight,
			TopY:           opts.Lane.TopY,
			HSpacing:       opts.Lane.HSpacing,
			VSpacing:       opts.Lane.VSpacing,
		},
		GrandparentHeaderHeight: opts.Lane.HeaderHeight,
		DisablePacking:          opts.Lane.NoPacking,
	}, item.StartOf, item.EndOf, parentKey, grandparentKey)
	g.SetWidth(opts.Lane.Width)
	if opts.Lane.FillHeight {
		g.SetHeight(opts.Render.ViewportHeight)
	}
	return g, loop, nil
}

// Window resolves the time window for items. Unset bounds follow the
// items' earliest start and latest end, truncated to the unit.
func Window(items []*item.Item, opts Options) (*timewindow.Window, error) {
	start, end, err := opts.Bounds()
	if err != nil {
		return nil, err
	}
	unit, err := opts.Unit()
	if err != nil {
		return nil, err
	}
	if start.IsZero() || end.IsZero() {
		first, last := item.Span(items)
		if first.IsZero() {
			return nil, errors.New(errors.ErrCodeInvalidWindow, "no window set and no items to derive one from")
		}
		if start.IsZero() {
			start = unit.Truncate(first)
		}
		if end.IsZero() {
			end = unit.Truncate(last)
		}
	}
	w, err := timewindow.New(start, end)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWindow, err, "time window")
	}
	return w, nil
}

// groupingKeys maps a grouping mode to gantt key functions. Auto groups by
// whatever the items carry.
func groupingKeys(items []*item.Item, mode string) (func(*item.Item) any, func(any) any) {
	switch mode {
	case GroupingNone:
		return nil, nil
	case GroupingParent:
		return item.ParentKey, nil
	case GroupingGrandparent:
		return item.ParentKey, item.GrandparentKeys(items)
	}
	var parent func(*item.Item) any
	var grand func(any) any
	if item.HasParents(items) {
		parent = item.ParentKey
	}
	if item.HasGrandparents(items) {
		parent = item.ParentKey
		grand = item.GrandparentKeys(items)
	}
	return parent, grand
}
