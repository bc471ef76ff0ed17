package user

import (
	"context"

	"github.com/xiebiao/library/pkg/jwt"
)

// RefreshTokenUseCase 使用Refresh Token换取新的Access Token
type RefreshTokenUseCase struct {
	jwtManager *jwt.Manager
}

func NewRefreshTokenUseCase(jwtManager *jwt.Manager) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{jwtManager: jwtManager}
}

// RefreshTokenResponse 刷新结果
type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (uc *RefreshTokenUseCase) Execute(_ context.Context, refreshToken string) (*RefreshTokenResponse, error) {
	access, err := uc.jwtManager.RefreshAccessToken(refreshToken)
	if err != nil {
		return nil, err
	}
	return &RefreshTokenResponse{AccessToken: access}, nil
}
