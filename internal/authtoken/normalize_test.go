package authtoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain token", "abc123", "abc123"},
		{"surrounding whitespace", "  abc123  ", "abc123"},
		{"double quoted", `"abc123"`, "abc123"},
		{"single quoted", "'abc123'", "abc123"},
		{"quoted bearer", `"Bearer abc123"`, "abc123"},
		{"bearer prefix", "Bearer abc123", "abc123"},
		{"bearer prefix lowercase", "bearer abc123", "abc123"},
		{"bearer with trailing space", "Bearer abc123  ", "abc123"},
		{"bearer and nothing else", "Bearer ", ""},
		{"literal null", "null", ""},
		{"literal NULL", "NULL", ""},
		{"literal undefined", "undefined", ""},
		{"quoted null", `"null"`, ""},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
		{"quotes around whitespace", `" "`, ""},
		{"single quote char", "'", "'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{`"Bearer abc123"`, "Bearer abc123", "abc123", "null", "  "}
	for _, raw := range inputs {
		once := Normalize(raw)
		assert.Equal(t, once, Normalize(once), "normalize should be idempotent for %q", raw)
	}
}
