package user

import (
	"strings"
	"time"
)

// User 用户实体（聚合根）
// 图书管理员账号，只有登录用户可以新增、修改、删除图书
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值，不对外暴露
	Nickname  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码，邮箱统一转小写
func NewUser(email, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Email:     normalizeEmail(email),
		Password:  hashedPassword,
		Nickname:  strings.TrimSpace(nickname),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
