package itemio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/timelane/pkg/item"
)

// WriteJSON encodes items as an {"items": [...]} document.
func WriteJSON(items []*item.Item, w io.Writer) error {
	doc := document{Items: make([]record, len(items))}
	for i, it := range items {
		doc.Items[i] = fromItem(it)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes items to a JSON file at path.
func ExportJSON(items []*item.Item, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(items, f)
}
