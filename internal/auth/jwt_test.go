package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/jobseeker-backend/internal/errors"
)

func sign(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifyValidToken(t *testing.T) {
	token := sign(t, "s3cret", jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	userID, err := NewJWTVerifier("s3cret").Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifyRejects(t *testing.T) {
	expired := sign(t, "s3cret", jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	wrongKey := sign(t, "other", jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noSubject := sign(t, "s3cret", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	v := NewJWTVerifier("s3cret")
	for name, token := range map[string]string{"expired": expired, "wrong key": wrongKey, "no subject": noSubject, "garbage": "abc"} {
		_, err := v.Verify(context.Background(), token)
		assert.True(t, appErrors.IsAuth(err), name)
	}
}

func TestVerifyWithoutSecret(t *testing.T) {
	_, err := NewJWTVerifier("").Verify(context.Background(), "anything")
	assert.True(t, appErrors.IsConfiguration(err))
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, err := BearerToken(r)
	assert.True(t, appErrors.IsAuth(err))

	r.Header.Set("Authorization", "Basic abc")
	_, err = BearerToken(r)
	assert.True(t, appErrors.IsAuth(err))

	r.Header.Set("Authorization", "Bearer abc.def")
	token, err := BearerToken(r)
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)
}
