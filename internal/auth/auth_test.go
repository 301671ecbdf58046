package auth

import (
	"testing"

	"campuschat/internal/config"
	chat_errors "campuschat/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(config.AuthConfig{JWTSecret: "test-secret", JWTExpiryMin: 60})
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	svc := newTestService()

	token, err := svc.IssueAccessToken("u1", "Dana", RoleTeacher)
	require.NoError(t, err)

	claims, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "Dana", claims.Name)
	assert.Equal(t, RoleTeacher, claims.Role)
}

func TestParseRejectsEmptyToken(t *testing.T) {
	_, err := newTestService().ParseAccessToken("")
	assert.ErrorIs(t, err, chat_errors.ErrUnauthorized)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := newTestService().IssueAccessToken("u1", "Dana", RoleStudent)
	require.NoError(t, err)

	other := NewService(config.AuthConfig{JWTSecret: "different", JWTExpiryMin: 60})
	_, err = other.ParseAccessToken(token)
	assert.ErrorIs(t, err, chat_errors.ErrUnauthorized)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc := NewService(config.AuthConfig{JWTSecret: "test-secret", JWTExpiryMin: -1})

	token, err := svc.IssueAccessToken("u1", "Dana", RoleStudent)
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(token)
	assert.ErrorIs(t, err, chat_errors.ErrUnauthorized)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := newTestService().ParseAccessToken("not.a.token")
	assert.ErrorIs(t, err, chat_errors.ErrUnauthorized)
}
