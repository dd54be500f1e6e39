package util

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(42, "FINANCE", "secret")
	require.NoError(t, err)

	userID, role, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.EqualValues(t, 42, userID)
	assert.Equal(t, "FINANCE", role)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(42, "FINANCE", "secret")
	require.NoError(t, err)

	_, _, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestParseJWTGarbage(t *testing.T) {
	_, _, err := ParseJWT("not.a.token", "secret")
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, ExtractToken(r))

	r.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", ExtractToken(r))

	r.Header.Set("Authorization", "Basic abc123")
	assert.Empty(t, ExtractToken(r))
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, CheckPassword("hunter2hunter2", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestGenerateOpaqueToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		tok := GenerateOpaqueToken()
		assert.Len(t, tok, 64)
		assert.False(t, seen[tok])
		seen[tok] = true
	}
}
