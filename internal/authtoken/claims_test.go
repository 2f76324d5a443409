package authtoken

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	middle := base64.RawURLEncoding.EncodeToString(payload)
	return "header." + middle + ".signature"
}

func TestParseClaims(t *testing.T) {
	token := makeToken(t, map[string]any{"id": "user-1", "email": "a@b.c"})

	claims := ParseClaims(token)
	require.NotNil(t, claims)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "a@b.c", claims["email"])
}

func TestParseClaimsUnpadded(t *testing.T) {
	// RawURLEncoding produces no padding; the decoder must restore it.
	token := makeToken(t, map[string]any{"id": "x"})
	assert.Equal(t, "x", ParseClaims(token).UserID())
}

func TestParseClaimsFailures(t *testing.T) {
	assert.Nil(t, ParseClaims("not-a-jwt"))
	assert.Nil(t, ParseClaims("a..c"))
	assert.Nil(t, ParseClaims("a.!!!.c"))
	assert.Nil(t, ParseClaims(""))

	// Valid base64 but not JSON
	garbage := "h." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".s"
	assert.Nil(t, ParseClaims(garbage))
}

func TestUserIDMissing(t *testing.T) {
	token := makeToken(t, map[string]any{"email": "a@b.c"})
	assert.Equal(t, "", ParseClaims(token).UserID())

	var none Claims
	assert.Equal(t, "", none.UserID())
}

func TestExpired(t *testing.T) {
	past := makeToken(t, map[string]any{"id": "x", "exp": time.Now().Add(-time.Hour).Unix()})
	future := makeToken(t, map[string]any{"id": "x", "exp": time.Now().Add(time.Hour).Unix()})
	noExp := makeToken(t, map[string]any{"id": "x"})

	assert.True(t, Expired(past))
	assert.False(t, Expired(future))
	assert.False(t, Expired(noExp))
	assert.False(t, Expired("unreadable"), "unreadable claims mean not expired")
}
