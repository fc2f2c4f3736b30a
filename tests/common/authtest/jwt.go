//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"slotboard/internal/domain/user"
	"slotboard/internal/pkg/config"
	"slotboard/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// GenerateToken mints a valid bearer token directly; credential
// verification lives outside the engine, so tests sign their own.
func GenerateToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, role user.Role) string {
	t.Helper()

	duration, err := time.ParseDuration(cfg.Duration)
	require.NoError(t, err)

	service := jwt.NewService(cfg.Secret, duration)
	token, err := service.GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}

// GenerateExpiredToken mints a token that is already past its expiry.
func GenerateExpiredToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, role user.Role) string {
	t.Helper()

	service := jwt.NewService(cfg.Secret, 1*time.Millisecond)
	token, err := service.GenerateToken(userID, role)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
