package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoleResolver 角色解析接口
// 由管理服务实现,auth 层只消费 roleOf 语义
type RoleResolver interface {
	RoleOf(ctx context.Context, userID string) (string, error)
}

// RequireRole 角色校验中间件
// 当前用户的角色不在 allowed 之列时返回 403
func RequireRole(resolver RoleResolver, allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]bool, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = true
	}

	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "missing authenticated user",
			})
			c.Abort()
			return
		}

		role, err := resolver.RoleOf(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    500,
				"message": "failed to resolve role",
			})
			c.Abort()
			return
		}

		if !allowedSet[role] {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "caller lacks required role",
			})
			c.Abort()
			return
		}

		c.Set("role", role)
		c.Next()
	}
}
