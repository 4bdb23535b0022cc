package timewindow

import (
	"strings"
	"time"

	"github.com/matzehuels/timelane/pkg/errors"
)

// Unit is the temporal granularity a window, projector and packer count in.
type Unit int

const (
	Day Unit = iota
	Hour
	Minute
	Week
	Month
)

var unitNames = [...]string{
	Day:    "day",
	Hour:   "hour",
	Minute: "minute",
	Week:   "week",
	Month:  "month",
}

// String returns the lowercase unit name used in config files and flags.
func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return "unknown"
	}
	return unitNames[u]
}

// ParseUnit parses a unit name. Plural forms ("days") are accepted.
func ParseUnit(s string) (Unit, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	for u, n := range unitNames {
		if n == name {
			return Unit(u), nil
		}
	}
	return Day, errors.New(errors.ErrCodeInvalidConfig, "unknown time unit %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (u Unit) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler so units decode from
// TOML, YAML and JSON as names.
func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Between counts the whole units from a to b. The result is negative when b
// is before a. Day, Week and Month count calendar boundaries in a's location,
// so the wall-clock time within a day never matters. Hour and Minute
// truncate toward zero.
func (u Unit) Between(a, b time.Time) int64 {
	switch u {
	case Hour:
		return int64(b.Sub(a) / time.Hour)
	case Minute:
		return int64(b.Sub(a) / time.Minute)
	case Week:
		return daysBetween(a, b) / 7
	case Month:
		return monthsBetween(a, b)
	default:
		return daysBetween(a, b)
	}
}

// Add moves t by n units.
func (u Unit) Add(t time.Time, n int64) time.Time {
	switch u {
	case Hour:
		return t.Add(time.Duration(n) * time.Hour)
	case Minute:
		return t.Add(time.Duration(n) * time.Minute)
	case Week:
		return t.AddDate(0, 0, int(n)*7)
	case Month:
		return t.AddDate(0, int(n), 0)
	default:
		return t.AddDate(0, 0, int(n))
	}
}

// Truncate rounds t down to the start of its unit.
func (u Unit) Truncate(t time.Time) time.Time {
	switch u {
	case Hour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	case Minute:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case Week:
		d := civil(t)
		offset := (int(d.Weekday()) + 6) % 7 // Monday based
		return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// civil drops the clock and the zone so day arithmetic is immune to DST.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int64 {
	b = b.In(a.Location())
	return int64(civil(b).Sub(civil(a)) / (24 * time.Hour))
}

func monthsBetween(a, b time.Time) int64 {
	b = b.In(a.Location())
	months := int64(b.Year()-a.Year())*12 + int64(b.Month()-a.Month())
	// Only complete months count.
	if months > 0 && b.Day() < a.Day() {
		months--
	} else if months < 0 && b.Day() > a.Day() {
		months++
	}
	return months
}
