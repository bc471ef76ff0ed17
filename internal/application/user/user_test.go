package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
)

// memorySessions 内存会话存储
type memorySessions struct {
	sessions  map[uint]map[string]interface{}
	blacklist map[string]time.Duration
}

func newMemorySessions() *memorySessions {
	return &memorySessions{
		sessions:  make(map[uint]map[string]interface{}),
		blacklist: make(map[string]time.Duration),
	}
}

func (s *memorySessions) SaveSession(_ context.Context, userID uint, data map[string]interface{}, _ time.Duration) error {
	s.sessions[userID] = data
	return nil
}

func (s *memorySessions) DeleteSession(_ context.Context, userID uint) error {
	delete(s.sessions, userID)
	return nil
}

func (s *memorySessions) AddToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	s.blacklist[token] = ttl
	return nil
}

func newUserService(t *testing.T) user.Service {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", AutoMigrate: true},
	}
	db, cleanup, err := mysql.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return user.NewService(mysql.NewUserRepository(db), user.WithHashCost(bcrypt.MinCost))
}

func TestAuthFlow(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)
	sessions := newMemorySessions()
	jwtManager := jwt.NewManager("test-secret", "library", time.Hour, 24*time.Hour)
	log := zap.NewNop()

	registered, err := NewRegisterUseCase(svc, log).Execute(ctx, RegisterRequest{
		Email: "Admin@Library.org", Password: "secret123", Nickname: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@library.org", registered.Email)

	_, err = NewRegisterUseCase(svc, log).Execute(ctx, RegisterRequest{
		Email: "admin@library.org", Password: "secret123", Nickname: "again",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)

	login := NewLoginUseCase(svc, jwtManager, sessions, 24*time.Hour, log)

	t.Run("密码错误", func(t *testing.T) {
		_, err := login.Execute(ctx, LoginRequest{Email: "admin@library.org", Password: "wrong123"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	resp, err := login.Execute(ctx, LoginRequest{Email: "admin@library.org", Password: "secret123", ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "10.0.0.1", sessions.sessions[registered.ID]["ip"])

	claims, err := jwtManager.ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)

	t.Run("当前用户", func(t *testing.T) {
		me, err := NewGetCurrentUserUseCase(svc).Execute(ctx, claims.UserID)
		require.NoError(t, err)
		assert.Equal(t, "admin", me.Nickname)
	})

	t.Run("刷新Token", func(t *testing.T) {
		refreshed, err := NewRefreshTokenUseCase(jwtManager).Execute(ctx, resp.RefreshToken)
		require.NoError(t, err)
		_, err = jwtManager.ParseAccessToken(refreshed.AccessToken)
		assert.NoError(t, err)

		_, err = NewRefreshTokenUseCase(jwtManager).Execute(ctx, resp.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("登出", func(t *testing.T) {
		err := NewLogoutUseCase(sessions).Execute(ctx, LogoutRequest{AccessToken: resp.AccessToken, Claims: claims})
		require.NoError(t, err)
		assert.NotContains(t, sessions.sessions, registered.ID)
		ttl, ok := sessions.blacklist[resp.AccessToken]
		require.True(t, ok)
		assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)
	})
}
