package http

import (
	"github.com/gin-gonic/gin"

	"store-rating-service/internal/middleware"
)

// 所有错误响应的 body 统一为 {"msg": "..."}。
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"msg": message})
}

func SuccessResponse(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// currentUserID 从 Gin Context 中取出 Auth 中间件写入的用户 ID。
// 返回 false 表示中间件缺失或失败，调用方应当直接 401。
func currentUserID(c *gin.Context) (uint, bool) {
	idAny, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := idAny.(uint)
	return id, ok
}
