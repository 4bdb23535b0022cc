package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is hashed into every key. Bump it when the encoding of items
// or charts changes so entries written by older builds miss.
const keyVersion = 1

// hashKey returns prefix:sha256(keyVersion, parts...). Parts are JSON
// encoded one per line, so struct field order is the key order.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(keyVersion)
	for _, p := range parts {
		_ = enc.Encode(p)
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data, the content address of an item
// set or a chart.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
