package errors

import (
	"strings"
	"testing"
)

func TestValidateItemID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "task-1", false},
		{"valid uuid", "3f2b8c1e-6a4d-4f8e-9a51-0c9d2f1e7b33", false},
		{"valid dotted", "phase.design", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"space", "task 1", true},
		{"tab", "task\t1", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItemID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateItemID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidItem) {
				t.Errorf("ValidateItemID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidItem)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		schemes []string
		wantErr bool
	}{
		{"https default", "https://example.com/items.json", nil, false},
		{"http default", "http://localhost:8080", nil, false},
		{"redis allowed", "redis://localhost:6379/0", []string{"redis", "rediss"}, false},
		{"mongo allowed", "mongodb://localhost:27017", []string{"mongodb", "mongodb+srv"}, false},

		{"empty", "", nil, true},
		{"ftp default", "ftp://example.com", nil, true},
		{"http not in list", "http://localhost", []string{"redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
