package frame

// DirtyMarker defers a cleaner to the next frame pulse and runs it once no
// matter how many times MarkDirty was called in between.
type DirtyMarker struct {
	sched   Scheduler
	cleaner func()
	pending *Handle
	closed  bool
	runs    uint64
}

// NewDirtyMarker binds cleaner to sched.
func NewDirtyMarker(sched Scheduler, cleaner func()) *DirtyMarker {
	return &DirtyMarker{sched: sched, cleaner: cleaner}
}

// MarkDirty schedules the cleaner unless it is already pending. Calls made
// by the cleaner itself are absorbed by the run in progress.
func (d *DirtyMarker) MarkDirty() {
	if d.closed || d.pending != nil {
		return
	}
	d.pending = d.sched.Schedule(d.run)
}

func (d *DirtyMarker) run() {
	h := d.pending
	d.runs++
	d.cleaner()
	// A cleaner that called MarkClean and then MarkDirty queued a fresh run
	// for the next frame; that handle stays pending.
	if d.pending == h {
		d.pending = nil
	}
}

// IsDirty reports whether a cleaner run is pending.
func (d *DirtyMarker) IsDirty() bool { return d.pending != nil }

// MarkClean cancels a pending run. Owners call it after cleaning
// synchronously, for example when a read forced the work early.
func (d *DirtyMarker) MarkClean() {
	if d.pending != nil {
		d.pending.Cancel()
		d.pending = nil
	}
}

// Runs counts cleaner executions.
func (d *DirtyMarker) Runs() uint64 { return d.runs }

// Close cancels any pending run and ignores later MarkDirty calls. It is
// called when the owner is torn down before the frame fires.
func (d *DirtyMarker) Close() {
	d.MarkClean()
	d.closed = true
}
