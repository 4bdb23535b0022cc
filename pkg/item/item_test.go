package item

import (
	"testing"
	"time"

	"github.com/matzehuels/timelane/pkg/errors"
)

func date(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-05", date(3, 5)},
		{" 2024-03-05 ", date(3, 5)},
		{"2024-03-05 14:30", time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)},
		{"2024-03-05T14:30:00Z", time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)},
		{"03/05/2024", date(3, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			if err != nil {
				t.Fatalf("ParseTime: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "yesterday", "2024-13-40"} {
		if _, err := ParseTime(bad); !errors.Is(err, errors.ErrCodeInvalidItem) {
			t.Errorf("ParseTime(%q) err = %v, want INVALID_ITEM", bad, err)
		}
	}
}

func TestFormatTimeRoundTrip(t *testing.T) {
	for _, tm := range []time.Time{date(1, 2), time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)} {
		back, err := ParseTime(FormatTime(tm))
		if err != nil || !back.Equal(tm) {
			t.Errorf("round trip %v -> %q -> %v (%v)", tm, FormatTime(tm), back, err)
		}
	}
	if got := FormatTime(date(6, 1)); got != "2024-06-01" {
		t.Errorf("FormatTime(date) = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		it   Item
		ok   bool
	}{
		{"valid", Item{ID: "a", Start: date(1, 1), End: date(1, 2)}, true},
		{"single day", Item{ID: "a", Start: date(1, 1), End: date(1, 1)}, true},
		{"inverted", Item{ID: "a", Start: date(1, 2), End: date(1, 1)}, false},
		{"missing end", Item{ID: "a", Start: date(1, 2)}, false},
		{"empty id", Item{Start: date(1, 1), End: date(1, 2)}, false},
		{"bad url", Item{ID: "a", Start: date(1, 1), End: date(1, 2), URL: "ftp://x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.it.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestDeriveIDIsStable(t *testing.T) {
	a := &Item{Label: "kickoff", Parent: "plan", Start: date(1, 1), End: date(1, 2)}
	b := &Item{Label: "kickoff", Parent: "plan", Start: date(1, 1), End: date(1, 2)}
	c := &Item{Label: "kickoff", Parent: "plan", Start: date(1, 1), End: date(1, 3)}
	if DeriveID(a) != DeriveID(b) {
		t.Error("equal items got different IDs")
	}
	if DeriveID(a) == DeriveID(c) {
		t.Error("different intervals got the same ID")
	}
	if err := errors.ValidateItemID(DeriveID(a)); err != nil {
		t.Errorf("derived ID invalid: %v", err)
	}
}

func TestSortGroupsParents(t *testing.T) {
	items := []*Item{
		{ID: "1", Parent: "b", Start: date(1, 3)},
		{ID: "2", Parent: "a", Start: date(1, 5)},
		{ID: "3", Parent: "b", Start: date(1, 1)},
		{ID: "4", Parent: "a", Start: date(1, 2)},
		{ID: "5", Grandparent: "z", Parent: "a", Start: date(1, 1)},
	}
	Sort(items)
	var got string
	for _, it := range items {
		got += it.ID
	}
	if got != "42315" {
		t.Errorf("order = %s, want 42315", got)
	}
}

func TestKeys(t *testing.T) {
	items := []*Item{
		{ID: "1", Parent: "design", Grandparent: "plan"},
		{ID: "2", Parent: "build"},
		{ID: "3"},
	}
	if ParentKey(items[2]) != nil {
		t.Error("empty parent should map to nil")
	}
	gk := GrandparentKeys(items)
	if gk("design") != "plan" || gk("build") != nil || gk(nil) != nil {
		t.Errorf("grandparent keys: design=%v build=%v nil=%v", gk("design"), gk("build"), gk(nil))
	}
	if !HasParents(items) || !HasGrandparents(items) {
		t.Error("HasParents/HasGrandparents should be true")
	}
}

func TestSpan(t *testing.T) {
	start, end := Span([]*Item{
		{Start: date(2, 1), End: date(2, 3)},
		{Start: date(1, 5), End: date(1, 9)},
		{Start: date(3, 1), End: date(3, 2)},
	})
	if !start.Equal(date(1, 5)) || !end.Equal(date(3, 2)) {
		t.Errorf("Span = %v..%v", start, end)
	}
}
