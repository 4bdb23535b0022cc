// Package layout positions time-bound items in a horizontal lane.
//
// # Lane
//
// A [Lane] projects each item's start and end onto the lane width through a
// [projector.Projector] over its [timewindow.Window], then asks a row
// [Strategy] which row the item goes on. Strategies are pluggable:
// [SingleRow] puts everything on one row, [Packed] stacks overlapping items
// with a tetris packer, and the gantt package groups items under parents.
//
// # Passes
//
// Positions are computed lazily. Any change (items, width, window, config)
// resets the pass and schedules a full [Lane.Layout] on the frame loop,
// coalescing every change made within a frame. Reading [Lane.Position] for
// item i before that runs advances the pass just far enough to place i,
// since a packed item's row depends on every item before it.
//
// A strategy that moved an item mid-pass may leave an empty row behind.
// Strategies implementing [Settler] report this and get a second pass, so
// the published rows are always compact.
//
// # Geometry
//
// With pitch = ItemHeight + VSpacing, an item on row r sits at
//
//	y = TopY + r*pitch
//
// and the lane height is TopY + ExtraHeight + rows*pitch, or 0 when no row
// is used. In fill-height mode the host sets the height and the pitch is
// derived from it instead.
package layout
