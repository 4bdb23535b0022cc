// Package tetris packs time intervals into the fewest rows it can find
// online, the way blocks settle in a game of Tetris.
//
// # Algorithm
//
// [Packer.Assign] is called once per item, in item order, on every layout
// pass. A new or moved item scans the rows from the top and lands on the
// first one where it overlaps no block ([Overlaps]); when every row has a
// conflict a new row is appended. First-fit favours compact output over
// minimising future churn.
//
// An item whose interval did not change since the previous pass takes the
// fast path: its cached [Block] keeps its row and only gets its projected x
// span refreshed. Panning or zooming a window therefore never reshuffles
// rows; only items whose own times changed move.
//
// # Caching
//
// Blocks live in an arena addressed by integer handles, and a map from item
// key to handle serves the fast path. Pointer keys give identity semantics.
// [Packer.CleanCache] reconciles the cache with a new item list, patching
// indices of items that moved within the list and evicting the rest. Rows
// emptied by moves or evictions are removed lazily, at the start of the next
// pass or when [Packer.RowsCount] is read, and the rows below shift up.
//
// # Overlap Rule
//
// Touching intervals overlap: a block ending exactly where another starts
// cannot share its row. Once both blocks were projected in the current pass
// their x spans are compared; otherwise the comparison falls back to the
// times at the packer's unit granularity, with the same inclusive rule.
package tetris
