// Package item defines the time-bound entries charted by timelane.
//
// An [Item] is one bar on a lane: a labelled interval optionally grouped
// under a parent (a work package, a room, a machine) and a grandparent (a
// phase, a building). Items are used by pointer so two items with equal
// fields stay distinct entries in a layout.
package item

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/timelane/pkg/errors"
)

// Item is one charted interval. Start and End are both part of the item
// unless the lane is configured with exclusive edges.
type Item struct {
	ID          string
	Label       string
	Start       time.Time
	End         time.Time
	Parent      string
	Grandparent string
	Color       string
	URL         string
	Meta        map[string]string
}

// namespace seeds derived item IDs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/timelane/item"))

// DeriveID returns a stable ID from the item's label, parent and interval.
// The same item read twice gets the same ID, so cache keys stay stable.
func DeriveID(it *Item) string {
	name := fmt.Sprintf("%s\x00%s\x00%s\x00%s", it.Parent, it.Label,
		it.Start.UTC().Format(time.RFC3339Nano), it.End.UTC().Format(time.RFC3339Nano))
	return uuid.NewSHA1(namespace, []byte(name)).String()
}

// Validate checks the ID and that the interval is not inverted.
func (it *Item) Validate() error {
	if err := errors.ValidateItemID(it.ID); err != nil {
		return err
	}
	if it.Start.IsZero() || it.End.IsZero() {
		return errors.New(errors.ErrCodeInvalidItem, "item %s: start and end are required", it.ID)
	}
	if it.End.Before(it.Start) {
		return errors.New(errors.ErrCodeInvalidItem, "item %s: end %s is before start %s",
			it.ID, FormatTime(it.End), FormatTime(it.Start))
	}
	if it.URL != "" {
		if err := errors.ValidateURL(it.URL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidItem, err, "item %s", it.ID)
		}
	}
	return nil
}

// Name returns the label, falling back to the ID.
func (it *Item) Name() string {
	if it.Label != "" {
		return it.Label
	}
	return it.ID
}

// StartOf and EndOf are the lane time accessors for items.
func StartOf(it *Item) time.Time { return it.Start }
func EndOf(it *Item) time.Time   { return it.End }

// ParentKey is the gantt parent key of an item. Items without a parent
// share the nil bucket.
func ParentKey(it *Item) any {
	if it.Parent == "" {
		return nil
	}
	return it.Parent
}

// GrandparentKeys maps each parent to the grandparent of its first item,
// as a gantt grandparent key function.
func GrandparentKeys(items []*Item) func(parent any) any {
	byParent := make(map[any]string)
	for _, it := range items {
		pk := ParentKey(it)
		if _, ok := byParent[pk]; !ok {
			byParent[pk] = it.Grandparent
		}
	}
	return func(parent any) any {
		if g := byParent[parent]; g != "" {
			return g
		}
		return nil
	}
}

// HasGrandparents reports whether any item names a grandparent.
func HasGrandparents(items []*Item) bool {
	for _, it := range items {
		if it.Grandparent != "" {
			return true
		}
	}
	return false
}

// HasParents reports whether any item names a parent.
func HasParents(items []*Item) bool {
	for _, it := range items {
		if it.Parent != "" {
			return true
		}
	}
	return false
}

// Span returns the earliest start and latest end over items.
func Span(items []*Item) (start, end time.Time) {
	for i, it := range items {
		if i == 0 || it.Start.Before(start) {
			start = it.Start
		}
		if i == 0 || it.End.After(end) {
			end = it.End
		}
	}
	return start, end
}

// Sort orders items by grandparent, parent and start, keeping the input
// order among equal items. Items of a parent end up contiguous.
func Sort(items []*Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if c := strings.Compare(a.Grandparent, b.Grandparent); c != 0 {
			return c < 0
		}
		if c := strings.Compare(a.Parent, b.Parent); c != 0 {
			return c < 0
		}
		return a.Start.Before(b.Start)
	})
}
