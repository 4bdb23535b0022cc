package sink_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/timelane/pkg/frame"
	"github.com/matzehuels/timelane/pkg/gantt"
	"github.com/matzehuels/timelane/pkg/item"
	"github.com/matzehuels/timelane/pkg/layout"
	"github.com/matzehuels/timelane/pkg/render"
	"github.com/matzehuels/timelane/pkg/render/sink"
	"github.com/matzehuels/timelane/pkg/timewindow"
)

func ExampleRenderText() {
	d := func(n int) time.Time { return time.Date(2024, 3, n, 0, 0, 0, 0, time.UTC) }
	window, _ := timewindow.New(d(1), d(10))
	loop := frame.NewLoop()

	g := gantt.New[*item.Item](loop, window,
		gantt.Config{Config: layout.Config{Unit: timewindow.Day, EndExclusive: true, ItemHeight: 20}},
		item.StartOf, item.EndOf, item.ParentKey, nil)
	g.SetWidth(100)
	g.SetItems([]*item.Item{
		{ID: "spec", Start: d(1), End: d(3)},
		{ID: "api", Start: d(5), End: d(9)},
	})

	fmt.Print(string(sink.RenderText(render.FromGantt(g), sink.WithColumns(40))))
	// Output:
	// 2024-03-01                    2024-03-10
	// [spec  ]        [api           ]
}
