package user

import (
	"context"

	"github.com/xiebiao/library/internal/domain/user"
)

// GetCurrentUserUseCase 查询当前登录用户
type GetCurrentUserUseCase struct {
	userService user.Service
}

func NewGetCurrentUserUseCase(userService user.Service) *GetCurrentUserUseCase {
	return &GetCurrentUserUseCase{userService: userService}
}

func (uc *GetCurrentUserUseCase) Execute(ctx context.Context, userID uint) (*UserInfo, error) {
	u, err := uc.userService.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserInfo{ID: u.ID, Email: u.Email, Nickname: u.Nickname}, nil
}
