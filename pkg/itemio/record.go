package itemio

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/timelane/pkg/item"
)

// stamp is a timestamp field accepting every supported layout in every
// format. time.Time is held in a named field so its own JSON methods are
// not promoted.
type stamp struct{ t time.Time }

// UnmarshalText implements encoding.TextUnmarshaler (JSON strings, CSV).
func (s *stamp) UnmarshalText(b []byte) error {
	t, err := item.ParseTime(string(b))
	if err != nil {
		return err
	}
	s.t = t
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s stamp) MarshalText() ([]byte, error) {
	return []byte(item.FormatTime(s.t)), nil
}

// UnmarshalYAML accepts quoted strings and YAML timestamps.
func (s *stamp) UnmarshalYAML(n *yaml.Node) error {
	return s.UnmarshalText([]byte(n.Value))
}

// UnmarshalTOML accepts TOML dates, datetimes and strings.
func (s *stamp) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case time.Time:
		s.t = v.UTC()
		return nil
	case string:
		return s.UnmarshalText([]byte(v))
	default:
		return fmt.Errorf("unsupported timestamp value %v", v)
	}
}

// record is the file form of an item.
type record struct {
	ID          string            `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Start       stamp             `json:"start" yaml:"start" toml:"start"`
	End         stamp             `json:"end" yaml:"end" toml:"end"`
	Parent      string            `json:"parent,omitempty" yaml:"parent,omitempty" toml:"parent,omitempty"`
	Grandparent string            `json:"grandparent,omitempty" yaml:"grandparent,omitempty" toml:"grandparent,omitempty"`
	Color       string            `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	URL         string            `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	Meta        map[string]string `json:"meta,omitempty" yaml:"meta,omitempty" toml:"meta,omitempty"`
}

// document is the top-level shape of JSON, YAML and TOML files.
type document struct {
	Items []record `json:"items" yaml:"items" toml:"items"`
}

func (r record) toItem() *item.Item {
	return &item.Item{
		ID:          r.ID,
		Label:       r.Label,
		Start:       r.Start.t,
		End:         r.End.t,
		Parent:      r.Parent,
		Grandparent: r.Grandparent,
		Color:       r.Color,
		URL:         r.URL,
		Meta:        r.Meta,
	}
}

func fromItem(it *item.Item) record {
	return record{
		ID:          it.ID,
		Label:       it.Label,
		Start:       stamp{it.Start},
		End:         stamp{it.End},
		Parent:      it.Parent,
		Grandparent: it.Grandparent,
		Color:       it.Color,
		URL:         it.URL,
		Meta:        it.Meta,
	}
}
