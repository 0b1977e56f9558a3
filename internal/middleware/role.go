package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequireRoles 返回一个 Gin 中间件，要求已认证身份的角色属于 roles 之一。
// 必须挂在 Auth 之后。路由可以叠加多个角色检查，更严格的那个生效。
// 角色不符一律 403 (而不是 404/500)。
func RequireRoles(roles ...string) gin.HandlerFunc {
	if len(roles) == 0 {
		panic("RequireRoles needs at least one role")
	}

	return func(c *gin.Context) {
		roleAny, exists := c.Get(ContextUserRoleKey)
		role, _ := roleAny.(string)

		allowed := false
		if exists {
			for _, r := range roles {
				if r == role {
					allowed = true
					break
				}
			}
		}
		if !allowed {
			logrus.WithFields(logrus.Fields{"role": role, "path": c.Request.URL.Path}).
				Warn("Authorization failed: insufficient permissions")
			c.JSON(http.StatusForbidden, gin.H{"msg": "Access denied: Insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}
