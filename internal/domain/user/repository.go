package user

import (
	"context"
)

// Repository 管理员账号仓储
// 邮箱在进入仓储前已规范化为小写,实现按原值比较即可
type Repository interface {
	// Create 写入账号并回填ID;并发注册撞上唯一索引时返回ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// ExistsByEmail 注册前检查邮箱是否已被占用
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindByEmail 登录时取账号,不存在返回ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID 认证中间件按令牌中的用户ID取账号,不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)
}
