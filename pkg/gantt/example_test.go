package gantt_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/timelane/pkg/frame"
	"github.com/matzehuels/timelane/pkg/gantt"
	"github.com/matzehuels/timelane/pkg/layout"
	"github.com/matzehuels/timelane/pkg/timewindow"
)

type job struct {
	name, pkg  string
	start, end time.Time
}

func Example() {
	d := func(n int) time.Time { return time.Date(2024, 3, n, 0, 0, 0, 0, time.UTC) }
	loop := frame.NewLoop()
	window, _ := timewindow.New(d(1), d(10))

	g := gantt.New[*job](loop, window,
		gantt.Config{Config: layout.Config{Unit: timewindow.Day, EndExclusive: true, ItemHeight: 20}},
		func(j *job) time.Time { return j.start },
		func(j *job) time.Time { return j.end },
		func(j *job) any { return j.pkg },
		nil,
	)
	g.SetWidth(100)
	g.SetItems([]*job{
		{"spec", "design", d(1), d(3)},
		{"mockups", "design", d(2), d(5)},
		{"api", "build", d(3), d(8)},
	})
	loop.Pulse()

	for i, j := range g.Items() {
		p := g.Position(i)
		fmt.Printf("%-8s row=%d y=%v\n", j.name, p.Row, p.Y)
	}
	fmt.Println("height:", g.Height())
	// Output:
	// spec     row=0 y=0
	// mockups  row=1 y=20
	// api      row=2 y=40
	// height: 60
}
