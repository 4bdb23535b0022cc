package cli

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timelane/pkg/pipeline"
	"github.com/matzehuels/timelane/pkg/source"
)

// chartFlags holds the flags shared by every command that lays out a chart.
// Flag values only override the config file when set on the command line.
type chartFlags struct {
	config string

	start, end, unit string
	width            float64
	itemHeight       float64
	hSpacing         float64
	vSpacing         float64
	headerHeight     float64
	noPacking        bool
	startExclusive   bool
	endExclusive     bool
	grouping         string

	style          string
	viewportWidth  float64
	viewportHeight float64
	scroll         float64

	cacheURL string
	noCache  bool
	refresh  bool

	mongoURI        string
	mongoDatabase   string
	mongoCollection string
	mongoFilter     string
	mongoTimeout    time.Duration
}

func (f *chartFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.config, "config", "c", "", "config file (default: timelane.toml next to the items)")

	fs.StringVar(&f.start, "start", "", "window start (default: earliest item start)")
	fs.StringVar(&f.end, "end", "", "window end (default: latest item end)")
	fs.StringVar(&f.unit, "unit", pipeline.DefaultUnit, "time unit: minute, hour, day, week, month")
	fs.Float64Var(&f.width, "width", pipeline.DefaultWidth, "lane width")
	fs.Float64Var(&f.itemHeight, "item-height", pipeline.DefaultItemHeight, "item bar height")
	fs.Float64Var(&f.hSpacing, "h-spacing", 0, "horizontal gap between items")
	fs.Float64Var(&f.vSpacing, "v-spacing", 0, "vertical gap between rows")
	fs.Float64Var(&f.headerHeight, "header-height", pipeline.DefaultHeaderHeight, "grandparent header height")
	fs.BoolVar(&f.noPacking, "no-packing", false, "one row per parent instead of packing")
	fs.BoolVar(&f.startExclusive, "start-exclusive", false, "item starts are exclusive")
	fs.BoolVar(&f.endExclusive, "end-exclusive", false, "item ends are exclusive")
	fs.StringVar(&f.grouping, "grouping", pipeline.GroupingAuto, "grouping: auto, none, parent, grandparent")

	fs.StringVar(&f.style, "style", pipeline.DefaultStyle, "visual style: simple, banded")
	fs.Float64Var(&f.viewportWidth, "viewport-width", 0, "viewport width (default: chart width)")
	fs.Float64Var(&f.viewportHeight, "viewport-height", 0, "viewport height (default: chart height)")
	fs.Float64Var(&f.scroll, "scroll", 0, "vertical scroll position in [0, 1]")

	fs.StringVar(&f.cacheURL, "cache-url", "", "redis:// URL for a shared cache (default: local file cache)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "reload remote items instead of using cached ones")

	fs.StringVar(&f.mongoURI, "mongo-uri", "", "load items from this MongoDB instead of a file")
	fs.StringVar(&f.mongoDatabase, "mongo-db", "", "MongoDB database")
	fs.StringVar(&f.mongoCollection, "mongo-collection", "", "MongoDB collection")
	fs.StringVar(&f.mongoFilter, "mongo-filter", "", "MongoDB filter as extended JSON")
	fs.DurationVar(&f.mongoTimeout, "mongo-timeout", 0, "MongoDB operation timeout")

	registerChartCompletions(cmd)
}

// options loads the config file and applies the changed flags on top.
// Without --config, timelane.toml next to the item file is used if it
// exists.
func (f *chartFlags) options(cmd *cobra.Command, args []string) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.config != "" {
		o, err := pipeline.LoadConfig(f.config)
		if err != nil {
			return opts, err
		}
		opts = o
	} else {
		dir := "."
		if len(args) > 0 {
			dir = filepath.Dir(args[0])
		}
		o, found, err := pipeline.LoadConfigIfExists(filepath.Join(dir, pipeline.DefaultConfigFile))
		if err != nil {
			return opts, err
		}
		if found {
			loggerFromContext(cmd.Context()).Debug("loaded config", "dir", dir)
			opts = o
		}
	}

	changed := cmd.Flags().Changed
	setString := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	setFloat := func(name string, dst *float64, v float64) {
		if changed(name) {
			*dst = v
		}
	}
	setBool := func(name string, dst *bool, v bool) {
		if changed(name) {
			*dst = v
		}
	}

	setString("start", &opts.Window.Start, f.start)
	setString("end", &opts.Window.End, f.end)
	setString("unit", &opts.Window.Unit, f.unit)
	setFloat("width", &opts.Lane.Width, f.width)
	setFloat("item-height", &opts.Lane.ItemHeight, f.itemHeight)
	setFloat("h-spacing", &opts.Lane.HSpacing, f.hSpacing)
	setFloat("v-spacing", &opts.Lane.VSpacing, f.vSpacing)
	setFloat("header-height", &opts.Lane.HeaderHeight, f.headerHeight)
	setBool("no-packing", &opts.Lane.NoPacking, f.noPacking)
	setBool("start-exclusive", &opts.Lane.StartExclusive, f.startExclusive)
	setBool("end-exclusive", &opts.Lane.EndExclusive, f.endExclusive)
	setString("grouping", &opts.Lane.Grouping, f.grouping)

	setString("style", &opts.Render.Style, f.style)
	setFloat("viewport-width", &opts.Render.ViewportWidth, f.viewportWidth)
	setFloat("viewport-height", &opts.Render.ViewportHeight, f.viewportHeight)
	setFloat("scroll", &opts.Render.Scroll, f.scroll)

	setString("cache-url", &opts.Cache.URL, f.cacheURL)
	setBool("no-cache", &opts.Cache.Disabled, f.noCache)
	opts.Refresh = f.refresh

	if f.mongoURI != "" {
		if opts.Mongo == nil {
			opts.Mongo = &source.MongoConfig{}
		}
		opts.Mongo.URI = f.mongoURI
	}
	if opts.Mongo != nil {
		setString("mongo-db", &opts.Mongo.Database, f.mongoDatabase)
		setString("mongo-collection", &opts.Mongo.Collection, f.mongoCollection)
		setString("mongo-filter", &opts.Mongo.Filter, f.mongoFilter)
		if changed("mongo-timeout") {
			opts.Mongo.Timeout = f.mongoTimeout
		}
	}

	opts.Logger = loggerFromContext(cmd.Context())
	return opts, nil
}
