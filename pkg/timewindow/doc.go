// Package timewindow holds the scrollable time interval every lane projects
// its items against.
//
// # Overview
//
// A [Window] is a [start, end] pair of [time.Time] values counted in a [Unit]
// (day, hour, minute, week, month). Both bounds are inclusive when measuring
// the window: a window from day 1 to day 10 has a [Window.Duration] of 10
// days. The zero value is an unset window; projections over it return 0 and
// lanes built on it report zero rows and zero height.
//
// # Consistent Updates
//
// Listeners registered with [Window.OnChange] fire after [Window.Set] has
// applied both bounds, exactly once per effective change. [Window.SetStart]
// and [Window.SetEnd] go through the same path, and a pair whose start is
// after its end is rejected, so listeners never observe an inverted window:
//
//	w := &timewindow.Window{}
//	w.OnChange(func(start, end time.Time) { lane.MarkDirty() })
//	_ = w.Set(monday, friday) // one notification
//
// # Navigation
//
// [Window.Shift], [Window.SetDurationKeepCentered] and [Window.EnsureVisible]
// implement the panning and zooming a timeline host needs on top of Set.
package timewindow
