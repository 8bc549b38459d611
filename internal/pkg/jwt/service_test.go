package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACService_RoundTrip(t *testing.T) {
	svc := NewHMACService("secret", time.Minute)
	id := uuid.New()

	tok, err := svc.GenerateAccessToken(id, "admin")
	require.NoError(t, err)

	c, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, id, c.UserID)
	assert.Equal(t, "admin", c.Role)
}

func TestHMACService_Expired(t *testing.T) {
	svc := NewHMACService("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }
	tok, err := svc.GenerateAccessToken(uuid.New(), "student")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestHMACService_RejectsForeignTokens(t *testing.T) {
	svc := NewHMACService("secret", time.Minute)
	other := NewHMACService("other", time.Minute)

	tok, err := other.GenerateAccessToken(uuid.New(), "student")
	require.NoError(t, err)
	_, err = svc.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	refresh := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		UserID:    uuid.New(),
		TokenType: "refresh",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	signed, err := refresh.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
