package user

import (
	"context"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
)

// LogoutUseCase 用户登出用例
// Access Token加入黑名单，有效期取Token剩余时间
type LogoutUseCase struct {
	sessionStore SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore}
}

// LogoutRequest 登出请求，Claims由认证中间件解析
type LogoutRequest struct {
	AccessToken string
	Claims      *jwt.Claims
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, req LogoutRequest) error {
	if req.Claims == nil {
		return apperrors.ErrUnauthorized
	}
	if err := uc.sessionStore.DeleteSession(ctx, req.Claims.UserID); err != nil {
		return err
	}
	return uc.sessionStore.AddToBlacklist(ctx, req.AccessToken, jwt.RemainingTTL(req.Claims))
}
