package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/timelane/pkg/cache"
	"github.com/matzehuels/timelane/pkg/errors"
	"github.com/matzehuels/timelane/pkg/item"
	"github.com/matzehuels/timelane/pkg/source"
)

func day(n int) time.Time { return time.Date(2024, 3, n, 0, 0, 0, 0, time.UTC) }

func testItems() []*item.Item {
	return []*item.Item{
		{ID: "spec", Start: day(1), End: day(3), Parent: "design", Grandparent: "q1"},
		{ID: "mockups", Start: day(2), End: day(5), Parent: "design", Grandparent: "q1"},
		{ID: "api", Start: day(3), End: day(8), Parent: "build", Grandparent: "q1"},
		{ID: "launch", Start: day(10), End: day(10), Parent: "release", Grandparent: "q2"},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"txt", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "txt"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Invalid format error = %v, want INVALID_FORMAT", err)
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"banded", false},
		{"handdrawn", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	opts.Render.Formats = []string{" SVG ", "txt"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Window.Unit != DefaultUnit || opts.Lane.Width != DefaultWidth || opts.Lane.ItemHeight != DefaultItemHeight {
		t.Errorf("layout defaults not applied: %+v", opts)
	}
	if opts.Render.Style != DefaultStyle || opts.Lane.Grouping != GroupingAuto || opts.Logger == nil {
		t.Errorf("render defaults not applied: %+v", opts.Render)
	}
	if opts.Render.Formats[0] != "svg" {
		t.Errorf("formats not normalized: %v", opts.Render.Formats)
	}

	// Idempotent
	opts.Lane.Width = 5
	if err := opts.ValidateAndSetDefaults(); err != nil || opts.Lane.Width != 5 {
		t.Errorf("second call changed options: width=%v err=%v", opts.Lane.Width, err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		code   errors.Code
	}{
		{"bad unit", func(o *Options) { o.Window.Unit = "fortnight" }, errors.ErrCodeInvalidConfig},
		{"bad start", func(o *Options) { o.Window.Start = "yesterday" }, errors.ErrCodeInvalidWindow},
		{"inverted window", func(o *Options) { o.Window.Start, o.Window.End = "2024-03-10", "2024-03-01" }, errors.ErrCodeInvalidWindow},
		{"negative size", func(o *Options) { o.Lane.VSpacing = -1 }, errors.ErrCodeInvalidConfig},
		{"fill without viewport", func(o *Options) { o.Lane.FillHeight = true }, errors.ErrCodeInvalidConfig},
		{"bad grouping", func(o *Options) { o.Lane.Grouping = "team" }, errors.ErrCodeInvalidConfig},
		{"bad scroll", func(o *Options) { o.Render.Scroll = 2 }, errors.ErrCodeInvalidConfig},
		{"bad style", func(o *Options) { o.Render.Style = "neon" }, errors.ErrCodeInvalidStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts Options
			tt.mutate(&opts)
			if err := opts.ValidateAndSetDefaults(); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestWindowFollowsItems(t *testing.T) {
	opts := Options{Window: WindowOptions{Unit: "day"}}
	w, err := Window(testItems(), opts)
	if err != nil {
		t.Fatalf("Window() error: %v", err)
	}
	if !w.Start().Equal(day(1)) || !w.End().Equal(day(10)) {
		t.Errorf("window = %v..%v, want Mar 1..Mar 10", w.Start(), w.End())
	}

	opts.Window.End = "2024-03-31"
	w, _ = Window(testItems(), opts)
	if !w.End().Equal(day(31)) {
		t.Errorf("explicit end ignored: %v", w.End())
	}

	if _, err := Window(nil, Options{Window: WindowOptions{Unit: "day"}}); !errors.Is(err, errors.ErrCodeInvalidWindow) {
		t.Errorf("empty items without window error = %v", err)
	}
}

func TestGenerateLayoutGrouping(t *testing.T) {
	tests := []struct {
		grouping string
		parents  int
		headers  int
	}{
		{GroupingAuto, 3, 2},
		{GroupingGrandparent, 3, 2},
		{GroupingParent, 3, 0},
		{GroupingNone, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.grouping, func(t *testing.T) {
			opts := Options{Lane: LaneOptions{Width: 100, Grouping: tt.grouping}}
			chart, err := GenerateLayout(testItems(), opts)
			if err != nil {
				t.Fatalf("GenerateLayout() error: %v", err)
			}
			if len(chart.Parents) != tt.parents || len(chart.Headers) != tt.headers {
				t.Errorf("parents=%d headers=%d, want %d and %d",
					len(chart.Parents), len(chart.Headers), tt.parents, tt.headers)
			}
			for i := range chart.Items {
				if !chart.Position(i).Valid {
					t.Errorf("item %d not placed", i)
				}
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	conf := `
[window]
start = "2024-03-01"
end = "2024-03-31"
unit = "week"

[lane]
width = 1200
grouping = "parent"
no_packing = true

[render]
formats = ["svg", "txt"]
style = "banded"
scroll = 0.25

[mongo]
uri = "mongodb://localhost:27017"
database = "plans"
collection = "tasks"
timeout = "5s"
`
	if err := os.WriteFile(path, []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if opts.Window.Unit != "week" || opts.Lane.Width != 1200 || !opts.Lane.NoPacking {
		t.Errorf("decoded = %+v", opts)
	}
	if opts.Render.Style != "banded" || len(opts.Render.Formats) != 2 || opts.Render.Scroll != 0.25 {
		t.Errorf("render = %+v", opts.Render)
	}
	if opts.Mongo == nil || opts.Mongo.Collection != "tasks" || opts.Mongo.Timeout != 5*time.Second {
		t.Errorf("mongo = %+v", opts.Mongo)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("decoded options invalid: %v", err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
	if _, found, err := LoadConfigIfExists(filepath.Join(dir, "missing.toml")); found || err != nil {
		t.Errorf("LoadConfigIfExists(missing) = %v, %v", found, err)
	}

	path := filepath.Join(dir, "typo.toml")
	os.WriteFile(path, []byte("[lane]\nwidht = 3\n"), 0o644)
	_, err := LoadConfig(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) || !strings.Contains(err.Error(), "widht") {
		t.Errorf("unknown key error = %v", err)
	}
}

func TestRunnerExecute(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	opts := Options{Lane: LaneOptions{Width: 100}}
	opts.Render.Formats = []string{FormatSVG, FormatJSON, FormatText}
	ctx := context.Background()

	first, err := r.Execute(ctx, source.Static(testItems()), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run hit the cache: %+v", first.CacheInfo)
	}
	if len(first.Artifacts) != 3 || first.Stats.ItemCount != 4 || first.ItemsHash == "" {
		t.Errorf("result = %d artifacts, %d items, hash %q", len(first.Artifacts), first.Stats.ItemCount, first.ItemsHash)
	}
	if !strings.HasPrefix(string(first.Artifacts[FormatSVG]), "<svg") {
		t.Errorf("svg artifact = %.40q", first.Artifacts[FormatSVG])
	}

	second, err := r.Execute(ctx, source.Static(testItems()), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run missed the cache: %+v", second.CacheInfo)
	}
	if string(second.Artifacts[FormatJSON]) != string(first.Artifacts[FormatJSON]) {
		t.Error("cached artifact differs from rendered one")
	}
	if second.Chart.Rows != first.Chart.Rows || len(second.Chart.Items) != 4 {
		t.Errorf("cached chart rows=%d items=%d", second.Chart.Rows, len(second.Chart.Items))
	}
}

func TestRunnerRendersOnlyMissingFormats(t *testing.T) {
	r := NewRunner(cache.NewNullCache(), nil, nil)
	opts := Options{Lane: LaneOptions{Width: 100}}
	chart, err := r.Layout(context.Background(), testItems(), opts)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	opts.Render.Formats = []string{FormatText}
	out, err := r.Render(context.Background(), chart, opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(out) != 1 || !strings.Contains(string(out[FormatText]), "[spec") {
		t.Errorf("text artifact = %q", out[FormatText])
	}
}

func TestLoadCachesRemoteSources(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, nil)
	src := &countingSource{items: testItems()}

	for i := 0; i < 2; i++ {
		items, err := r.Load(context.Background(), src, Options{})
		if err != nil || len(items) != 4 {
			t.Fatalf("Load() = %d items, %v", len(items), err)
		}
	}
	if src.loads != 1 {
		t.Errorf("remote source loaded %d times, want 1", src.loads)
	}

	if _, err := r.Load(context.Background(), src, Options{Refresh: true}); err != nil {
		t.Fatal(err)
	}
	if src.loads != 2 {
		t.Errorf("refresh should bypass the cache, loads = %d", src.loads)
	}
}

type countingSource struct {
	items []*item.Item
	loads int
}

func (s *countingSource) Load(context.Context) ([]*item.Item, error) {
	s.loads++
	return s.items, nil
}

func (s *countingSource) Kind() string { return "remote" }
func (s *countingSource) Ref() string  { return "test" }
