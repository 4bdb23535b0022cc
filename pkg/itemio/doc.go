// Package itemio reads and writes item files.
//
// # Formats
//
// [ReadFile] picks a decoder from the file extension:
//
//   - .json: an object with an "items" array, or a bare array
//   - .yaml, .yml: the same shape in YAML
//   - .toml: [[items]] tables
//   - .csv: a header row naming the columns, matched case-insensitively
//
// Every format carries the same fields:
//
//	id, label, start, end, parent, grandparent, color, url, meta
//
// start and end accept RFC 3339 timestamps, plain dates (2006-01-02) and
// date-times (2006-01-02 15:04). CSV columns other than the known ones are
// kept in meta.
//
// # Normalization
//
// Readers fill in missing IDs with a stable derived UUID, validate every
// item and reject duplicate IDs. Items keep file order; [item.Sort] groups
// them when the file interleaves parents.
//
// [WriteJSON] writes the JSON form, which every reader accepts back.
package itemio
