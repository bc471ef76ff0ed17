package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/user"
)

// RegisterUseCase 管理员注册用例
type RegisterUseCase struct {
	userService user.Service
	log         *zap.Logger
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, log *zap.Logger) *RegisterUseCase {
	return &RegisterUseCase{userService: userService, log: log}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
}

// RegisterResponse 注册响应(不返回密码)
type RegisterResponse = UserInfo

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	u, err := uc.userService.Register(ctx, req.Email, req.Password, req.Nickname)
	if err != nil {
		return nil, err
	}

	uc.log.Info("新用户注册", zap.Uint("user_id", u.ID), zap.String("email", u.Email))

	// 领域实体 → 应用层DTO
	return &RegisterResponse{
		ID:       u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
	}, nil
}
