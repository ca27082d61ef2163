package utils

import (
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "unit-test-secret")
	os.Exit(m.Run())
}

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := NewSessionToken(42, "alice", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, sessionIssuer, claims.Issuer)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	token, err := NewSessionToken(42, "alice", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token)
	assert.Error(t, err)
}

func TestParseSessionTokenRejectsForeignIssuer(t *testing.T) {
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		UserID:   42,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := foreign.SignedString([]byte("unit-test-secret"))
	require.NoError(t, err)

	_, err = ParseSessionToken(token)
	assert.Error(t, err)
}

func TestParseSessionTokenRejectsMissingUserID(t *testing.T) {
	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := anonymous.SignedString([]byte("unit-test-secret"))
	require.NoError(t, err)

	_, err = ParseSessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestParseSessionTokenRejectsGarbage(t *testing.T) {
	_, err := ParseSessionToken("not.a.token")
	assert.Error(t, err)

	_, err = ParseSessionToken("")
	assert.Error(t, err)
}

func TestSanitizeStripsHTML(t *testing.T) {
	assert.Equal(t, "Morning Run", Sanitize("<b>Morning Run</b>"))
	assert.Equal(t, "hi", Sanitize(`<script>alert(1)</script>hi`))
}
