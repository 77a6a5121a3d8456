package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestService_SignAndAuthenticate(t *testing.T) {
	service := NewService("secret", arbor.NewNoOpLogger())
	require.True(t, service.Enabled())

	token, err := service.Sign("user-42", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	subject, err := service.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, "user-42", subject)
}

func TestService_Rejections(t *testing.T) {
	service := NewService("secret", arbor.NewNoOpLogger())
	other := NewService("other-secret", arbor.NewNoOpLogger())

	wrongKey, err := other.Sign("user-1", time.Hour)
	require.NoError(t, err)

	expired, err := service.Sign("user-1", -time.Hour)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 42,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong key":  wrongKey,
		"expired":    expired,
		"bad subject": badSubject,
		"none alg":   noneAlg,
		"garbage":    "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := service.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestService_AnonKeyHasNoSubject(t *testing.T) {
	service := NewService("secret", arbor.NewNoOpLogger())

	anonKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "anon",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+anonKey)

	subject, err := service.Authenticate(req)
	require.NoError(t, err)
	assert.Empty(t, subject)
}

func TestService_MissingToken(t *testing.T) {
	service := NewService("secret", arbor.NewNoOpLogger())

	_, err := service.Authenticate(httptest.NewRequest("GET", "/", nil))
	assert.ErrorIs(t, err, ErrMissingToken)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	_, err = service.Authenticate(req)
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestService_Disabled(t *testing.T) {
	service := NewService("", arbor.NewNoOpLogger())
	assert.False(t, service.Enabled())

	_, err := service.Sign("u", time.Hour)
	assert.Error(t, err)

	_, err = service.Verify("anything")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserIDContext(t *testing.T) {
	assert.Equal(t, "", UserIDFromContext(context.Background()))
	assert.Equal(t, "u-1", UserIDFromContext(WithUserID(context.Background(), "u-1")))
}
