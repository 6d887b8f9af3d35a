package postgresql_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/auth"
	"github.com/attendly-hq/attendance-backend-go/internal/repository/postgresql"
)

func TestRefreshTokenRepository_Consume_SingleUse(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	tokenRepo := postgresql.NewRefreshTokenRepository(testDB)

	u := createTestUser(t, ctx, "rotate@example.com")
	require.NoError(t, tokenRepo.Store(ctx, u.ID, "hash-1"))

	userID, err := tokenRepo.Consume(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)

	// A consumed token never wins twice.
	_, err = tokenRepo.Consume(ctx, "hash-1")
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestRefreshTokenRepository_RevokeAllForUser(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	tokenRepo := postgresql.NewRefreshTokenRepository(testDB)

	u := createTestUser(t, ctx, "idle@example.com")
	require.NoError(t, tokenRepo.Store(ctx, u.ID, "hash-1"))
	require.NoError(t, tokenRepo.Store(ctx, u.ID, "hash-2"))

	require.NoError(t, tokenRepo.RevokeAllForUser(ctx, u.ID))

	_, err := tokenRepo.Consume(ctx, "hash-1")
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	_, err = tokenRepo.Consume(ctx, "hash-2")
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}
