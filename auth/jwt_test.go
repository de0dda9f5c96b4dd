package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaswipe_server/apperrors"
)

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("test-secret")
	token, err := v.Issue("user-1", time.Hour)
	require.NoError(t, err)

	userID, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("test-secret")

	expired, err := v.Issue("user-1", -time.Minute)
	require.NoError(t, err)
	otherKey, err := NewVerifier("other-secret").Issue("user-1", time.Hour)
	require.NoError(t, err)
	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":   expired,
		"wrong key": otherKey,
		"no user":   noUser,
		"garbage":   "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))
		})
	}

	_, err = v.Verify("")
	assert.ErrorIs(t, err, apperrors.ErrMissingToken)
}

func TestParseBearerToken(t *testing.T) {
	token, err := ParseBearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	token, err = ParseBearerToken("bearer xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	_, err = ParseBearerToken("")
	assert.ErrorIs(t, err, apperrors.ErrMissingToken)

	_, err = ParseBearerToken("Basic abc")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
