package timewindow

import (
	"time"

	"github.com/matzehuels/timelane/pkg/errors"
)

// Listener observes a window after a consistent update.
type Listener func(start, end time.Time)

type listenerEntry struct {
	id int
	fn Listener
}

// Window is a mutable [start, end] time interval. The zero value is an unset
// window: projections over it degenerate to 0 and lanes report zero rows.
//
// Listeners only ever observe set windows with start <= end. Window is not
// safe for concurrent use; it lives on the frame loop like the rest of the
// engine.
type Window struct {
	start, end time.Time
	listeners  []listenerEntry
	nextID     int
}

// New returns a window over [start, end].
func New(start, end time.Time) (*Window, error) {
	w := &Window{}
	if err := w.Set(start, end); err != nil {
		return nil, err
	}
	return w, nil
}

// Start returns the window start, or the zero time when unset.
func (w *Window) Start() time.Time { return w.start }

// End returns the window end, or the zero time when unset.
func (w *Window) End() time.Time { return w.end }

// IsSet reports whether both bounds are set.
func (w *Window) IsSet() bool { return !w.start.IsZero() && !w.end.IsZero() }

// OnChange registers a listener and returns a function removing it.
// Listeners run in registration order.
func (w *Window) OnChange(fn Listener) (remove func()) {
	w.nextID++
	id := w.nextID
	w.listeners = append(w.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		for i, l := range w.listeners {
			if l.id == id {
				w.listeners = append(w.listeners[:i:i], w.listeners[i+1:]...)
				return
			}
		}
	}
}

// SetStart moves the start bound alone. A start after the current end is
// rejected with ErrCodeInvalidWindow; shifting the window past its end takes
// a single [Window.Set] call.
func (w *Window) SetStart(t time.Time) error {
	return w.Set(t, w.end)
}

// SetEnd moves the end bound alone. An end before the current start is
// rejected with ErrCodeInvalidWindow; use [Window.Set] to move both bounds.
func (w *Window) SetEnd(t time.Time) error {
	return w.Set(w.start, t)
}

// Set applies both bounds and then notifies listeners once. A pair with
// start after end is rejected without touching the window, so listeners never
// see an inverted or half-applied interval. Either bound may be the zero
// time, leaving the window unset; unset windows are not announced.
func (w *Window) Set(start, end time.Time) error {
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return errors.New(errors.ErrCodeInvalidWindow,
			"window start %s is after end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	if start.Equal(w.start) && end.Equal(w.end) {
		return nil
	}
	w.start, w.end = start, end
	if w.IsSet() {
		w.notify()
	}
	return nil
}

// Clear unsets both bounds. Listeners are not called.
func (w *Window) Clear() {
	w.start, w.end = time.Time{}, time.Time{}
}

func (w *Window) notify() {
	// Listeners may unsubscribe while being notified.
	ls := append([]listenerEntry(nil), w.listeners...)
	for _, l := range ls {
		l.fn(w.start, w.end)
	}
}

// =============================================================================
// Navigation helpers
// =============================================================================

// Duration is the number of units the window spans, both bounds included.
// An unset window has duration 0.
func (w *Window) Duration(u Unit) int64 {
	if !w.IsSet() {
		return 0
	}
	return u.Between(w.start, w.end) + 1
}

// Center returns the unit at the middle of the window, rounding toward the
// start for even durations.
func (w *Window) Center(u Unit) time.Time {
	if !w.IsSet() {
		return time.Time{}
	}
	return u.Add(w.start, (w.Duration(u)-1)/2)
}

// SetStartAndDuration places the window at start spanning n units.
func (w *Window) SetStartAndDuration(start time.Time, n int64, u Unit) error {
	if n < 1 {
		return errors.New(errors.ErrCodeInvalidWindow, "window duration must be at least 1 %s", u)
	}
	return w.Set(start, u.Add(start, n-1))
}

// SetCenterAndDuration centers a window of n units on center.
func (w *Window) SetCenterAndDuration(center time.Time, n int64, u Unit) error {
	return w.SetStartAndDuration(u.Add(center, -(n / 2)), n, u)
}

// SetDurationKeepCentered zooms the window to n units around its current center.
func (w *Window) SetDurationKeepCentered(n int64, u Unit) error {
	if !w.IsSet() {
		return nil
	}
	return w.SetCenterAndDuration(w.Center(u), n, u)
}

// SetStartKeepDuration moves the window so it starts at start.
func (w *Window) SetStartKeepDuration(start time.Time, u Unit) error {
	if !w.IsSet() {
		return nil
	}
	return w.SetStartAndDuration(start, w.Duration(u), u)
}

// SetCenterKeepDuration moves the window so it is centered on center.
func (w *Window) SetCenterKeepDuration(center time.Time, u Unit) error {
	if !w.IsSet() {
		return nil
	}
	return w.SetCenterAndDuration(center, w.Duration(u), u)
}

// Shift pans the window by n units, negative n moving it earlier.
func (w *Window) Shift(n int64, u Unit) error {
	if !w.IsSet() || n == 0 {
		return nil
	}
	return w.SetStartKeepDuration(u.Add(w.start, n), u)
}

// EnsureVisible pans the window when [rangeStart, rangeEnd] lies entirely
// outside it. A range longer than the window is aligned on its start,
// otherwise it is centered.
func (w *Window) EnsureVisible(rangeStart, rangeEnd time.Time, u Unit) error {
	if !w.IsSet() {
		return nil
	}
	if u.Between(rangeEnd, w.start) <= 0 && u.Between(w.end, rangeStart) <= 0 {
		return nil
	}
	rangeDuration := u.Between(rangeStart, rangeEnd)
	if rangeDuration > w.Duration(u) {
		return w.SetStartKeepDuration(rangeStart, u)
	}
	return w.SetCenterKeepDuration(u.Add(rangeStart, rangeDuration/2), u)
}
