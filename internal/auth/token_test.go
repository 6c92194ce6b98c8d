package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/errors"
)

func TestVerifyToken(t *testing.T) {
	cfg := config.Application{SecretKey: "secret", TokenTTL: time.Minute}
	userID := uuid.New()

	valid, err := NewToken(cfg, userID, time.Now())
	require.NoError(t, err)
	expired, err := NewToken(cfg, userID, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	otherKey, err := NewToken(config.Application{SecretKey: "other", TokenTTL: time.Minute}, userID, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name        string
		token       string
		expectedErr error
	}{
		{name: "given valid token should return token", token: valid, expectedErr: nil},
		{name: "given expired token should return token invalid", token: expired, expectedErr: errors.ErrTokenInvalid},
		{name: "given token signed with other key should return token invalid", token: otherKey, expectedErr: errors.ErrTokenInvalid},
		{name: "given garbage should return token invalid", token: "not-a-token", expectedErr: errors.ErrTokenInvalid},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			token, err := VerifyToken(context.Background(), cfg.SecretKey, test.token)

			assert.ErrorIs(t, err, test.expectedErr)
			if test.expectedErr == nil {
				assert.NotNil(t, token)
			}
		})
	}
}

func TestUserIdFromJwtToken(t *testing.T) {
	cfg := config.Application{SecretKey: "secret", TokenTTL: time.Minute}
	userID := uuid.New()
	signed, err := NewToken(cfg, userID, time.Now())
	require.NoError(t, err)
	token, err := VerifyToken(context.Background(), cfg.SecretKey, signed)
	require.NoError(t, err)

	actual, err := UserIdFromJwtToken(AttachJwtToken(context.Background(), token))
	assert.NoError(t, err)
	assert.Equal(t, userID, actual)

	_, err = UserIdFromJwtToken(context.Background())
	assert.ErrorIs(t, err, errors.ErrEmptyAuth)
}
