package token_test

import (
	"testing"
	"time"

	"zoo_roulette/internal/model"
	"zoo_roulette/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	user := &model.User{ID: 42, Login: "alice"}

	tokenStr, err := token.GenerateAccessToken(user, secret, time.Hour)
	require.NoError(t, err)

	claims, err := token.VerifyToken(tokenStr, secret)
	require.NoError(t, err)

	userID, err := token.UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	tokenStr, err := token.GenerateAccessToken(&model.User{ID: 1}, []byte("secret-a"), time.Hour)
	require.NoError(t, err)

	_, err = token.VerifyToken(tokenStr, []byte("secret-b"))
	assert.Error(t, err)
}

func TestVerifyTokenExpired(t *testing.T) {
	tokenStr, err := token.GenerateAccessToken(&model.User{ID: 1}, []byte("secret"), -time.Minute)
	require.NoError(t, err)

	_, err = token.VerifyToken(tokenStr, []byte("secret"))
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	refresh, err := token.GenerateRefreshToken()
	require.NoError(t, err)
	require.NotEmpty(t, refresh)

	hash := token.HashRefreshToken(refresh)
	assert.True(t, token.VerifyRefreshToken(refresh, hash))
	assert.False(t, token.VerifyRefreshToken("forged", hash))

	other, err := token.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, refresh, other)
}
