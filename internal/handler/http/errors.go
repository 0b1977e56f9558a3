package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"store-rating-service/internal/service"
)

// HandleServiceError 把 service 层错误映射到 HTTP 状态码和 {"msg"} 响应。
// 未识别的错误一律 500 + 通用消息，原始错误只记录在服务端日志。
func HandleServiceError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		ErrorResponse(c, http.StatusBadRequest, vErr.Msg)
	case errors.Is(err, service.ErrInvalidCredentials):
		ErrorResponse(c, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, service.ErrOldPasswordIncorrect):
		ErrorResponse(c, http.StatusBadRequest, "Old password is incorrect")
	case errors.Is(err, service.ErrEmailTaken):
		ErrorResponse(c, http.StatusConflict, "User already exists")
	case errors.Is(err, service.ErrOwnerEmailTaken):
		ErrorResponse(c, http.StatusConflict, "User with this owner email already exists")
	case errors.Is(err, service.ErrStoreExists):
		ErrorResponse(c, http.StatusConflict, "Store with this email or name already exists")
	case errors.Is(err, service.ErrUserNotFound):
		ErrorResponse(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrStoreNotFound):
		ErrorResponse(c, http.StatusNotFound, "Store not found")
	case errors.Is(err, service.ErrNoStoresForOwner):
		ErrorResponse(c, http.StatusNotFound, "No stores found for this owner.")
	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
