package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	ok, err := repo.ExistsByEmail(ctx, "librarian@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	u := user.NewUser("librarian@example.com", "hashed", "librarian")
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	ok, err = repo.ExistsByEmail(ctx, "librarian@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	// 唯一索引兜底
	err = repo.Create(ctx, user.NewUser("librarian@example.com", "hashed", "other"))
	assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)

	byEmail, err := repo.FindByEmail(ctx, "librarian@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "librarian", byID.Nickname)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
