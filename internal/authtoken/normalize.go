package authtoken

import "strings"

// Normalize cleans up a raw token value before it is stored or used.
// Tokens occasionally arrive JSON-quoted, prefixed with "Bearer ", or as the
// literal strings "null"/"undefined" after a bad round-trip through storage.
// Returns "" when no usable token remains.
func Normalize(raw string) string {
	normalized := strings.TrimSpace(raw)
	if normalized == "" {
		return ""
	}

	// Handle cases where the token was accidentally serialized as a quoted string.
	if len(normalized) >= 2 {
		first, last := normalized[0], normalized[len(normalized)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			normalized = strings.TrimSpace(normalized[1 : len(normalized)-1])
		}
	}

	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if lower == "null" || lower == "undefined" {
		return ""
	}

	if strings.HasPrefix(lower, "bearer ") {
		return strings.TrimSpace(normalized[len("bearer "):])
	}

	return normalized
}
