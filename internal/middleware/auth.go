package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/dodam/internal/token"
	"github.com/d60-Lab/dodam/pkg/response"
)

// ContextUserID 认证中间件写入 gin context 的键
const ContextUserID = "userID"

// Auth 校验 Authorization: Bearer <accessToken>，通过后注入用户 ID
func Auth(provider *token.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Fail(c, response.ErrNotLoginState)
			c.Abort()
			return
		}

		userID, err := provider.ParseUserID(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Fail(c, response.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID 取当前请求的认证用户；未认证返回空串
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
