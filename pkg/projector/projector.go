// Package projector maps times onto the horizontal axis of a lane and back.
//
// A [Linear] projector spreads the units of a [timewindow.Window] evenly over
// a width. [Translated] and [Paired] wrap another projector to express the
// same mapping in a shifted coordinate space, for horizontal panning and for
// aligning a header with a body drawn elsewhere on screen.
package projector

import (
	"math"
	"time"

	"github.com/matzehuels/timelane/pkg/timewindow"
)

// Projector maps times to x coordinates and back.
type Projector interface {
	// TimeToX returns the x coordinate of t. isStart tells whether t opens
	// or closes an interval, isExclusive whether that edge is excluded.
	// An exclusive start or an inclusive end lands on the far edge of its
	// unit, so whole-unit blocks share edges with their neighbours.
	TimeToX(t time.Time, isStart, isExclusive bool) float64
	// XToTime returns the unit containing x, or false when no window is set.
	XToTime(x float64) (time.Time, bool)
	// Unit returns the granularity of the projection.
	Unit() timewindow.Unit
}

// WidthFunc reports the current width the window is spread over.
type WidthFunc func() float64

type linear struct {
	window *timewindow.Window
	unit   timewindow.Unit
	width  WidthFunc
}

// Linear returns a projector spreading window evenly over width.
func Linear(window *timewindow.Window, unit timewindow.Unit, width WidthFunc) Projector {
	return &linear{window: window, unit: unit, width: width}
}

// Fixed returns a WidthFunc for a constant width.
func Fixed(w float64) WidthFunc { return func() float64 { return w } }

func (p *linear) Unit() timewindow.Unit { return p.unit }

func (p *linear) TimeToX(t time.Time, isStart, isExclusive bool) float64 {
	if !p.window.IsSet() {
		return 0
	}
	total := p.window.Duration(p.unit)
	u := p.unit.Between(p.window.Start(), t)
	if isStart == isExclusive {
		u++
	}
	return roundHalfUp(p.width() * float64(u) / float64(total))
}

func (p *linear) XToTime(x float64) (time.Time, bool) {
	if !p.window.IsSet() {
		return time.Time{}, false
	}
	w := p.width()
	if w <= 0 {
		return time.Time{}, false
	}
	total := p.window.Duration(p.unit)
	return p.unit.Add(p.window.Start(), int64(x*float64(total)/w)), true
}

func roundHalfUp(x float64) float64 { return math.Floor(x + 0.5) }

type translated struct {
	inner     Projector
	translate func() float64
}

// Translated shifts inner left by translateX.
func Translated(inner Projector, translateX func() float64) Projector {
	return &translated{inner: inner, translate: translateX}
}

func (p *translated) Unit() timewindow.Unit { return p.inner.Unit() }

func (p *translated) TimeToX(t time.Time, isStart, isExclusive bool) float64 {
	return p.inner.TimeToX(t, isStart, isExclusive) - p.translate()
}

func (p *translated) XToTime(x float64) (time.Time, bool) {
	return p.inner.XToTime(x + p.translate())
}

// FrameClock exposes the current animation frame.
type FrameClock interface {
	FrameNumber() uint64
}

// Paired expresses inner relative to a second visual anchor. anchorDelta
// returns the horizontal distance between the two anchors; it is evaluated at
// most once per frame of clock.
func Paired(inner Projector, anchorDelta func() float64, clock FrameClock) Projector {
	c := &frameCached{fn: anchorDelta, clock: clock}
	return &translated{inner: inner, translate: c.get}
}

type frameCached struct {
	fn    func() float64
	clock FrameClock
	frame uint64
	valid bool
	value float64
}

func (c *frameCached) get() float64 {
	f := c.clock.FrameNumber()
	if !c.valid || c.frame != f {
		c.value = c.fn()
		c.frame = f
		c.valid = true
	}
	return c.value
}
