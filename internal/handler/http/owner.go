package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"store-rating-service/internal/service"
)

// OwnerHandler 封装了店主看板的 HTTP 处理逻辑
type OwnerHandler struct {
	ownerService *service.OwnerService
}

// NewOwnerHandler 创建 OwnerHandler 实例
func NewOwnerHandler(ownerService *service.OwnerService) *OwnerHandler {
	return &OwnerHandler{ownerService: ownerService}
}

// Dashboard 返回店主的主商店、平均评分和评分者列表。
// 店主名下没有商店时返回 404。
func (h *OwnerHandler) Dashboard(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		logrus.Warn("Handler.Dashboard: user ID not found in context, middleware missing or failed?")
		ErrorResponse(c, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	dashboard, err := h.ownerService.Dashboard(c.Request.Context(), ownerID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dashboard)
}
