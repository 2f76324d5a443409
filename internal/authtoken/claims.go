package authtoken

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// Claims is the decoded payload segment of a token. The backend controls the
// exact set of fields; the client only relies on the user id.
type Claims map[string]any

// UserID returns the "id" claim as a string, or "" when absent.
func (c Claims) UserID() string {
	if c == nil {
		return ""
	}
	if id, ok := c["id"].(string); ok {
		return id
	}
	return ""
}

// ParseClaims decodes the middle segment of a three-part dot-delimited token.
// Decode or JSON failures yield nil rather than an error: an unreadable payload
// does not invalidate the token itself.
func ParseClaims(token string) Claims {
	parts := strings.Split(token, ".")
	if len(parts) < 2 || parts[1] == "" {
		return nil
	}

	payload := strings.NewReplacer("-", "+", "_", "/").Replace(parts[1])
	if pad := len(payload) % 4; pad != 0 {
		payload += strings.Repeat("=", 4-pad)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil
	}

	var claims Claims
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return nil
	}
	return claims
}

// Expired reports whether the token carries a numeric "exp" claim in the past.
// Tokens without a readable exp are treated as not expired.
func Expired(token string) bool {
	claims := ParseClaims(token)
	if claims == nil {
		return false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}
	return time.Now().UnixMilli() >= int64(exp)*1000
}
