package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/response"
)

// Context中的key
const (
	ContextKeyUserID      = "user_id"
	ContextKeyEmail       = "email"
	ContextKeyClaims      = "claims"
	ContextKeyAccessToken = "access_token"
)

// TokenBlacklist Token黑名单查询(Redis实现)
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 检查Token黑名单（登出后立即失效）
// 3. 只接受Access Token
// 4. 将用户信息注入Context，Handler通过GetUserID显式取出后传给用例
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortWithError(c, apperrors.ErrUnauthorized)
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || scheme != "Bearer" || tokenString == "" {
			response.AbortWithError(c, apperrors.ErrInvalidToken)
			return
		}

		// 2. 黑名单
		revoked, err := m.blacklist.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}
		if revoked {
			response.AbortWithError(c, apperrors.New(apperrors.ErrCodeInvalidToken, "Token已失效，请重新登录"))
			return
		}

		// 3. 验证Token并解析Claims
		claims, err := m.jwtManager.ParseAccessToken(tokenString)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		// 4. 注入用户信息
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyAccessToken, tokenString)

		c.Next()
	}
}

// GetUserID 从Context获取当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if userID, exists := c.Get(ContextKeyUserID); exists {
		if uid, ok := userID.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetClaims 从Context获取当前Token的Claims
func GetClaims(c *gin.Context) *jwt.Claims {
	if v, exists := c.Get(ContextKeyClaims); exists {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetAccessToken 从Context获取当前请求的Access Token
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ContextKeyAccessToken)
}
