package timewindow

import (
	"testing"
	"time"
)

func TestUnitBetween(t *testing.T) {
	at := func(m time.Month, d, h, min int) time.Time {
		return time.Date(2024, m, d, h, min, 0, 0, time.UTC)
	}
	tests := []struct {
		name string
		unit Unit
		a, b time.Time
		want int64
	}{
		{"same day", Day, at(1, 5, 8, 0), at(1, 5, 23, 0), 0},
		{"calendar days ignore clock", Day, at(1, 5, 23, 0), at(1, 6, 1, 0), 1},
		{"negative days", Day, at(1, 10, 0, 0), at(1, 7, 0, 0), -3},
		{"across month", Day, at(1, 30, 0, 0), at(2, 2, 0, 0), 3},
		{"hours truncate", Hour, at(1, 1, 0, 0), at(1, 1, 5, 59), 5},
		{"minutes", Minute, at(1, 1, 0, 0), at(1, 1, 1, 30), 90},
		{"weeks", Week, at(1, 1, 0, 0), at(1, 20, 0, 0), 2},
		{"whole months", Month, at(1, 15, 0, 0), at(3, 15, 0, 0), 2},
		{"incomplete month", Month, at(1, 15, 0, 0), at(3, 14, 0, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.unit.Between(tt.a, tt.b); got != tt.want {
				t.Errorf("%s.Between = %d, want %d", tt.unit, got, tt.want)
			}
		})
	}
}

func TestUnitDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("tzdata not available")
	}
	a := time.Date(2024, time.March, 30, 0, 0, 0, 0, loc)
	b := time.Date(2024, time.April, 1, 0, 0, 0, 0, loc)
	if got := Day.Between(a, b); got != 2 {
		t.Errorf("Between across DST = %d, want 2", got)
	}
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    Unit
		wantErr bool
	}{
		{"day", Day, false},
		{"Days", Day, false},
		{" hour ", Hour, false},
		{"weeks", Week, false},
		{"month", Month, false},
		{"minute", Minute, false},
		{"fortnight", Day, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUnit(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseUnit(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseUnit(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnitTruncate(t *testing.T) {
	ts := time.Date(2024, time.January, 17, 13, 45, 12, 0, time.UTC) // Wednesday
	tests := []struct {
		unit Unit
		want time.Time
	}{
		{Day, time.Date(2024, time.January, 17, 0, 0, 0, 0, time.UTC)},
		{Hour, time.Date(2024, time.January, 17, 13, 0, 0, 0, time.UTC)},
		{Minute, time.Date(2024, time.January, 17, 13, 45, 0, 0, time.UTC)},
		{Week, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{Month, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.unit.String(), func(t *testing.T) {
			if got := tt.unit.Truncate(ts); !got.Equal(tt.want) {
				t.Errorf("Truncate = %v, want %v", got, tt.want)
			}
		})
	}
}
