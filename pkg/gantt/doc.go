// Package gantt groups lane items under parents and grandparents, the way a
// project plan groups tasks under work packages and phases.
//
// # Structure
//
// A [Layout] is a [layout.Lane] with a grouping row strategy. Every item
// belongs to the parent returned by the parent key function, and every
// parent to the grandparent returned by the grandparent key function. nil
// keys are a valid single bucket, so an ungrouped gantt still works.
//
// On each item list or key change the grandparent, parent and item tree is
// rebuilt once, tracked by a generation counter, never during placement.
// [ParentRow] values are recycled by key, so their tetris packers keep their
// caches and rows stay visually stable across rebuilds.
//
// # Rows
//
// Each parent packs its own items with a [tetris.Packer] over its slice of
// the item list. An item's lane row is the sum of the rows of every parent
// above it plus its row within its parent:
//
//	row(item) = rowsBefore(parent) + packerRow(item)
//
// The lane row count is the sum of every parent's rows. Grandparent headers
// add vertical space ([Config.GrandparentHeaderHeight]) but no rows.
//
// Headers are drawn by hosts: [Layout.VisibleParents] and
// [Layout.VisibleGrandparents] iterate only the bands intersecting a
// visible rectangle.
package gantt
