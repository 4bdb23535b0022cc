// Package frame schedules deferred work on an animation-frame pulse.
//
// Hosts own a [Loop] and call [Loop.Pulse] once per frame (the terminal
// viewer ticks it at about 60 fps; batch renderers pulse it until it
// settles). Engine components never run work eagerly: they mark themselves
// dirty through a [DirtyMarker], which coalesces any number of requests made
// between two pulses into one callback.
//
// Everything here runs on the goroutine that calls Pulse.
package frame

// Scheduler runs callbacks on the next frame pulse.
type Scheduler interface {
	// Schedule queues fn for the next pulse.
	Schedule(fn func()) *Handle
	// InFrame reports whether a pulse is currently running callbacks.
	InFrame() bool
	// FrameNumber counts completed pulses.
	FrameNumber() uint64
}

// Handle identifies one scheduled callback.
type Handle struct {
	fn        func()
	cancelled bool
	done      bool
}

// Cancel turns a pending callback into a no-op. Cancelling a callback that
// already ran has no effect.
func (h *Handle) Cancel() {
	if h != nil {
		h.cancelled = true
	}
}

// Pending reports whether the callback is still waiting for a pulse.
func (h *Handle) Pending() bool {
	return h != nil && !h.done && !h.cancelled
}

// Loop is a cooperative single-threaded [Scheduler].
type Loop struct {
	queue   []*Handle
	inFrame bool
	frame   uint64
}

// NewLoop returns an idle loop at frame 0.
func NewLoop() *Loop { return &Loop{} }

// Schedule implements [Scheduler]. Callbacks scheduled while a pulse is
// running wait for the following pulse.
func (l *Loop) Schedule(fn func()) *Handle {
	h := &Handle{fn: fn}
	l.queue = append(l.queue, h)
	return h
}

// InFrame implements [Scheduler].
func (l *Loop) InFrame() bool { return l.inFrame }

// FrameNumber implements [Scheduler].
func (l *Loop) FrameNumber() uint64 { return l.frame }

// Pending returns the number of callbacks waiting for a pulse.
func (l *Loop) Pending() int {
	n := 0
	for _, h := range l.queue {
		if h.Pending() {
			n++
		}
	}
	return n
}

// Pulse runs every callback queued before it started, in scheduling order,
// then advances the frame number. It returns how many callbacks ran.
func (l *Loop) Pulse() int {
	batch := l.queue
	l.queue = nil
	l.inFrame = true
	ran := 0
	for _, h := range batch {
		if h.cancelled {
			continue
		}
		h.done = true
		h.fn()
		ran++
	}
	l.inFrame = false
	l.frame++
	return ran
}

// Settle pulses until no callback is pending or maxPulses is reached, and
// returns the number of pulses. Batch renderers use it to flush cascaded
// layout and redraw requests before reading results.
func (l *Loop) Settle(maxPulses int) int {
	n := 0
	for n < maxPulses && l.Pending() > 0 {
		l.Pulse()
		n++
	}
	return n
}
