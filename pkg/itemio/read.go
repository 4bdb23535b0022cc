package itemio

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/timelane/pkg/errors"
	"github.com/matzehuels/timelane/pkg/item"
)

// Format names an item file format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatCSV  Format = "csv"
)

// FormatOf returns the format for a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported item file %s (want .json, .yaml, .toml or .csv)", filepath.Base(path))
}

// ReadFile reads and normalizes the items in the file at path.
func ReadFile(path string) ([]*item.Item, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "item file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	items, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// Read decodes items in format from r and normalizes them.
func Read(r io.Reader, format Format) ([]*item.Item, error) {
	var (
		records []record
		err     error
	)
	switch format {
	case FormatJSON:
		records, err = decodeJSON(r)
	case FormatYAML:
		records, err = decodeYAML(r)
	case FormatTOML:
		records, err = decodeTOML(r)
	case FormatCSV:
		records, err = decodeCSV(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported item format %q", format)
	}
	if err != nil {
		return nil, err
	}
	items := make([]*item.Item, len(records))
	for i, rec := range records {
		items[i] = rec.toItem()
	}
	return Normalize(items)
}

// Normalize derives missing IDs, validates every item and rejects
// duplicate IDs.
func Normalize(items []*item.Item) ([]*item.Item, error) {
	seen := make(map[string]int, len(items))
	for i, it := range items {
		if it.ID == "" {
			it.ID = item.DeriveID(it)
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		if prev, ok := seen[it.ID]; ok {
			return nil, errors.New(errors.ErrCodeInvalidItem,
				"items %d and %d share id %q", prev+1, i+1, it.ID)
		}
		seen[it.ID] = i
	}
	return items, nil
}

func decodeJSON(r io.Reader) ([]record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var recs []record
		if err := json.Unmarshal(trimmed, &recs); err != nil {
			return nil, decodeError("json", err)
		}
		return recs, nil
	}
	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, decodeError("json", err)
	}
	return doc.Items, nil
}

func decodeYAML(r io.Reader) ([]record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, decodeError("yaml", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	if root.Content[0].Kind == yaml.SequenceNode {
		var recs []record
		if err := root.Content[0].Decode(&recs); err != nil {
			return nil, decodeError("yaml", err)
		}
		return recs, nil
	}
	var doc document
	if err := root.Content[0].Decode(&doc); err != nil {
		return nil, decodeError("yaml", err)
	}
	return doc.Items, nil
}

func decodeTOML(r io.Reader) ([]record, error) {
	var doc document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, decodeError("toml", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "toml: unknown keys %v", undecoded)
	}
	return doc.Items, nil
}

// csvColumns are the known CSV columns. Others go to meta.
var csvColumns = map[string]bool{
	"id": true, "label": true, "start": true, "end": true, "parent": true,
	"grandparent": true, "color": true, "url": true,
}

func decodeCSV(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, decodeError("csv header", err)
	}
	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"start", "end"} {
		if _, ok := columns[required]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"csv: column %q not found (have %v)", required, header)
		}
	}

	var recs []record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, decodeError("csv", err)
		}
		get := func(col string) string {
			if i, ok := columns[col]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		rec := record{
			ID:          get("id"),
			Label:       get("label"),
			Parent:      get("parent"),
			Grandparent: get("grandparent"),
			Color:       get("color"),
			URL:         get("url"),
		}
		if err := rec.Start.UnmarshalText([]byte(get("start"))); err != nil {
			return nil, fmt.Errorf("csv line %d: start: %w", line, err)
		}
		if err := rec.End.UnmarshalText([]byte(get("end"))); err != nil {
			return nil, fmt.Errorf("csv line %d: end: %w", line, err)
		}
		for col, i := range columns {
			if csvColumns[col] || i >= len(row) || row[i] == "" {
				continue
			}
			if rec.Meta == nil {
				rec.Meta = make(map[string]string)
			}
			rec.Meta[col] = strings.TrimSpace(row[i])
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func decodeError(what string, err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", what)
}
