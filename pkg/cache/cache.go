// Package cache stores loaded items, computed layouts and rendered charts.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for the preview server and anything shared between machines, and
// [NullCache] when caching is off. Keys come from a [Keyer] so every
// caller derives the same key from the same inputs.
//
// The cache holds pipeline outputs only. Engine state (packer rows, dirty
// flags) is never persisted.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Default TTLs per entry kind.
const (
	TTLSource   = 10 * time.Minute
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Keyer derives cache keys.
type Keyer interface {
	// SourceKey keys the items loaded from a remote source.
	SourceKey(kind, ref string) string

	// LayoutKey keys a layout computed from items hashing to itemsHash.
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered output of a layout hashing to layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a layout.
type LayoutKeyOpts struct {
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
	Unit         string    `json:"unit"`
	Width        float64   `json:"width"`
	ItemHeight   float64   `json:"item_height"`
	HSpacing     float64   `json:"h_spacing"`
	VSpacing     float64   `json:"v_spacing"`
	TopY         float64   `json:"top_y"`
	HeaderHeight float64   `json:"header_height"`
	FillHeight   bool      `json:"fill_height"`
	FillTo       float64   `json:"fill_to"`
	Packing      bool      `json:"packing"`
	Exclusive    [2]bool   `json:"exclusive"`
	Grouping     string    `json:"grouping"`
}

// ArtifactKeyOpts holds every option that changes a rendered output.
type ArtifactKeyOpts struct {
	Format         string  `json:"format"`
	Style          string  `json:"style"`
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
	Scroll         float64 `json:"scroll"`
	Tooltips       bool    `json:"tooltips"`
	Interactive    bool    `json:"interactive"`
	Columns        int     `json:"columns"`
	Color          bool    `json:"color"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SourceKey implements Keyer.
func (DefaultKeyer) SourceKey(kind, ref string) string {
	return hashKey("source:"+kind, ref)
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", itemsHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, layoutHash, opts)
}
