package errors

import (
	"strings"
	"unicode"
)

// ValidateItemID validates an item identifier read from an item file or source.
// It rejects identifiers that would break SVG ids, cache keys or URLs:
//   - No empty identifiers
//   - No control characters or whitespace
//   - Maximum length of 256 characters
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidItem, "item id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidItem, "item id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidItem, "item id %q contains whitespace or control characters", id)
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// Only the schemes accepted by timelane's remote sources and caches pass.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes %s", strings.Join(schemes, ", "))
}
