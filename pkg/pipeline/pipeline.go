// Package pipeline provides the load → layout → render pipeline of timelane.
//
// This package implements the complete pipeline that the CLI, the viewer
// and the preview server share. By centralizing it, every entry point lays
// out and renders the same items the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read items from a [source.Source] (item file or MongoDB)
//  2. Layout: Pack the items into a grouped time lane ([gantt.Layout])
//  3. Render: Generate output in various formats (SVG, JSON, text)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{}
//	opts.Render.Formats = []string{"svg", "json"}
//	result, err := runner.Execute(ctx, source.NewFile("plan.yaml"), opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	items, err := runner.Load(ctx, src, opts)
//	chart, err := runner.Layout(ctx, items, opts)
//	artifacts, err := runner.Render(ctx, chart, opts)
//
// [source.Source]: github.com/matzehuels/timelane/pkg/source#Source
// [gantt.Layout]: github.com/matzehuels/timelane/pkg/gantt#Layout
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/timelane/pkg/cache"
	"github.com/matzehuels/timelane/pkg/errors"
	"github.com/matzehuels/timelane/pkg/item"
	"github.com/matzehuels/timelane/pkg/render"
	"github.com/matzehuels/timelane/pkg/render/styles"
	"github.com/matzehuels/timelane/pkg/source"
	"github.com/matzehuels/timelane/pkg/timewindow"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Viewer, and Server
// =============================================================================

const (
	// DefaultWidth is the default lane width in pixels.
	DefaultWidth = 1000.0

	// DefaultItemHeight is the default item height in pixels.
	DefaultItemHeight = 20.0

	// DefaultHeaderHeight is the default grandparent header height.
	DefaultHeaderHeight = 18.0

	// DefaultUnit is the default time unit.
	DefaultUnit = "day"

	// DefaultStyle is the default visual style.
	DefaultStyle = "simple"

	// DefaultColumns is the default text output width.
	DefaultColumns = 100

	// maxSettlePulses bounds the frame pulses a layout may take to settle.
	maxSettlePulses = 16
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatText = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatText: true,
}

// Grouping modes.
const (
	GroupingAuto        = "auto"
	GroupingNone        = "none"
	GroupingParent      = "parent"
	GroupingGrandparent = "grandparent"
)

// ValidGroupings is the set of supported grouping modes.
var ValidGroupings = map[string]bool{
	GroupingAuto:        true,
	GroupingNone:        true,
	GroupingParent:      true,
	GroupingGrandparent: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. It decodes from the
// tables of a timelane.toml file; see [LoadConfig].
type Options struct {
	Window WindowOptions       `toml:"window" json:"window"`
	Lane   LaneOptions         `toml:"lane" json:"lane"`
	Render RenderOptions       `toml:"render" json:"render"`
	Cache  CacheOptions        `toml:"cache" json:"-"`
	Mongo  *source.MongoConfig `toml:"mongo" json:"-"`

	// Runtime options (not serialized)
	Refresh bool        `toml:"-" json:"-"`
	Logger  *log.Logger `toml:"-" json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// WindowOptions selects the visible time range. An empty bound follows the
// items' span.
type WindowOptions struct {
	Start string `toml:"start" json:"start,omitempty"`
	End   string `toml:"end" json:"end,omitempty"`
	Unit  string `toml:"unit" json:"unit,omitempty"`
}

// LaneOptions controls packing and geometry.
type LaneOptions struct {
	Width          float64 `toml:"width" json:"width,omitempty"`
	ItemHeight     float64 `toml:"item_height" json:"item_height,omitempty"`
	HSpacing       float64 `toml:"h_spacing" json:"h_spacing,omitempty"`
	VSpacing       float64 `toml:"v_spacing" json:"v_spacing,omitempty"`
	TopY           float64 `toml:"top_y" json:"top_y,omitempty"`
	HeaderHeight   float64 `toml:"header_height" json:"header_height,omitempty"`
	FillHeight     bool    `toml:"fill_height" json:"fill_height,omitempty"`
	NoPacking      bool    `toml:"no_packing" json:"no_packing,omitempty"`
	StartExclusive bool    `toml:"start_exclusive" json:"start_exclusive,omitempty"`
	EndExclusive   bool    `toml:"end_exclusive" json:"end_exclusive,omitempty"`
	Grouping       string  `toml:"grouping" json:"grouping,omitempty"`
}

// RenderOptions controls output.
type RenderOptions struct {
	Formats        []string `toml:"formats" json:"formats,omitempty"`
	Style          string   `toml:"style" json:"style,omitempty"`
	ViewportWidth  float64  `toml:"viewport_width" json:"viewport_width,omitempty"`
	ViewportHeight float64  `toml:"viewport_height" json:"viewport_height,omitempty"`
	Scroll         float64  `toml:"scroll" json:"scroll,omitempty"`
	Tooltips       bool     `toml:"tooltips" json:"tooltips,omitempty"`
	Interactive    bool     `toml:"interactive" json:"interactive,omitempty"`
	Columns        int      `toml:"columns" json:"columns,omitempty"`
	Color          bool     `toml:"color" json:"color,omitempty"`
}

// CacheOptions selects the cache backend.
type CacheOptions struct {
	// URL is a redis:// URL. Empty uses the file cache.
	URL      string `toml:"url"`
	Dir      string `toml:"dir"`
	Disabled bool   `toml:"disabled"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Items are the loaded items.
	Items []*item.Item

	// ItemsHash is the content hash of the items.
	ItemsHash string

	// Chart is the laid out lane.
	Chart *render.Chart

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount  int
	RowCount   int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether items came from cache
	LayoutHit bool // Whether the chart came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, txt)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	_, err := styles.ByName(style)
	return err
}

// ValidateGrouping checks that a grouping mode is valid.
func ValidateGrouping(g string) error {
	if !ValidGroupings[g] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid grouping: %q (must be one of: auto, none, parent, grandparent)", g)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Window.Unit == "" {
		o.Window.Unit = DefaultUnit
	}
	if o.Lane.Width == 0 {
		o.Lane.Width = DefaultWidth
	}
	if o.Lane.ItemHeight == 0 && !o.Lane.FillHeight {
		o.Lane.ItemHeight = DefaultItemHeight
	}
	if o.Lane.HeaderHeight == 0 {
		o.Lane.HeaderHeight = DefaultHeaderHeight
	}
	if o.Lane.Grouping == "" {
		o.Lane.Grouping = GroupingAuto
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if _, err := o.Unit(); err != nil {
		return err
	}
	if o.Lane.Width < 0 || o.Lane.ItemHeight < 0 || o.Lane.HSpacing < 0 || o.Lane.VSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "lane sizes must not be negative")
	}
	if o.Lane.FillHeight && o.Render.ViewportHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fill_height needs a viewport height")
	}
	if _, _, err := o.Bounds(); err != nil {
		return err
	}
	return ValidateGrouping(o.Lane.Grouping)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Render.Formats) == 0 {
		o.Render.Formats = []string{FormatSVG}
	}
	if o.Render.Style == "" {
		o.Render.Style = DefaultStyle
	}
	if o.Render.Columns == 0 {
		o.Render.Columns = DefaultColumns
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	for i, f := range o.Render.Formats {
		o.Render.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	if err := ValidateFormats(o.Render.Formats); err != nil {
		return err
	}
	if o.Render.Scroll < 0 || o.Render.Scroll > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "scroll must be within [0, 1], got %v", o.Render.Scroll)
	}
	return ValidateStyle(o.Render.Style)
}

// Unit returns the parsed window unit.
func (o *Options) Unit() (timewindow.Unit, error) {
	u, err := timewindow.ParseUnit(o.Window.Unit)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "window unit")
	}
	return u, nil
}

// Bounds returns the parsed window bounds. Unset bounds are zero.
func (o *Options) Bounds() (start, end time.Time, err error) {
	if o.Window.Start != "" {
		if start, err = item.ParseTime(o.Window.Start); err != nil {
			return start, end, errors.Wrap(errors.ErrCodeInvalidWindow, err, "window start")
		}
	}
	if o.Window.End != "" {
		if end, err = item.ParseTime(o.Window.End); err != nil {
			return start, end, errors.Wrap(errors.ErrCodeInvalidWindow, err, "window end")
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return start, end, errors.New(errors.ErrCodeInvalidWindow, "window end %s before start %s", o.Window.End, o.Window.Start)
	}
	return start, end, nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	start, end, _ := o.Bounds()
	return cache.LayoutKeyOpts{
		WindowStart:  start,
		WindowEnd:    end,
		Unit:         o.Window.Unit,
		Width:        o.Lane.Width,
		ItemHeight:   o.Lane.ItemHeight,
		HSpacing:     o.Lane.HSpacing,
		VSpacing:     o.Lane.VSpacing,
		TopY:         o.Lane.TopY,
		HeaderHeight: o.Lane.HeaderHeight,
		FillHeight:   o.Lane.FillHeight,
		FillTo:       o.fillTo(),
		Packing:      !o.Lane.NoPacking,
		Exclusive:    [2]bool{o.Lane.StartExclusive, o.Lane.EndExclusive},
		Grouping:     o.Lane.Grouping,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:         format,
		Style:          o.Render.Style,
		ViewportWidth:  o.Render.ViewportWidth,
		ViewportHeight: o.Render.ViewportHeight,
		Scroll:         o.Render.Scroll,
		Tooltips:       o.Render.Tooltips,
		Interactive:    o.Render.Interactive,
		Columns:        o.Render.Columns,
		Color:          o.Render.Color,
	}
}

func (o *Options) fillTo() float64 {
	if o.Lane.FillHeight {
		return o.Render.ViewportHeight
	}
	return 0
}
