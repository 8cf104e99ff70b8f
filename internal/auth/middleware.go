package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tiorionjames/dewlist/internal/authz"
)

// context 键
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Middleware Bearer Token 认证中间件
// 验证通过后把主体 ID 与角色写入请求上下文
func Middleware(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "missing authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "invalid authorization header",
			})
			return
		}

		claims, err := tm.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "invalid or expired token",
			})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// CurrentPrincipal 从请求上下文取出已认证主体
func CurrentPrincipal(c *gin.Context) authz.Principal {
	return authz.Principal{
		ID:   c.GetString(ContextUserID),
		Role: c.GetString(ContextRole),
	}
}
