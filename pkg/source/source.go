// Package source loads chart items from where they live.
//
// A [Source] is anything that yields items for one chart: an item file on
// disk ([File]) or a MongoDB collection ([Mongo]). The pipeline calls Load
// once per run and never mutates the returned items' times.
package source

import (
	"context"

	"github.com/matzehuels/timelane/pkg/item"
	"github.com/matzehuels/timelane/pkg/itemio"
)

// Source yields the items of a chart.
type Source interface {
	// Load returns the items in display order.
	Load(ctx context.Context) ([]*item.Item, error)

	// Kind names the backend, for cache keys and logs.
	Kind() string

	// Ref identifies the items within the backend.
	Ref() string
}

// File loads items from an item file.
type File struct {
	Path string

	// Sort groups interleaved parents with item.Sort.
	Sort bool
}

// NewFile returns a source reading path.
func NewFile(path string) *File { return &File{Path: path} }

// Load implements Source.
func (f *File) Load(ctx context.Context) ([]*item.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := itemio.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	if f.Sort {
		item.Sort(items)
	}
	return items, nil
}

// Kind implements Source.
func (f *File) Kind() string { return "file" }

// Ref implements Source.
func (f *File) Ref() string { return f.Path }

// Static serves a fixed item list.
type Static []*item.Item

// Load implements Source.
func (s Static) Load(context.Context) ([]*item.Item, error) { return s, nil }

// Kind implements Source.
func (Static) Kind() string { return "static" }

// Ref implements Source.
func (Static) Ref() string { return "" }
