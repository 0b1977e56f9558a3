package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"store-rating-service/internal/repository"
	"store-rating-service/internal/service"
)

// StoreHandler 封装了普通用户浏览商店和提交评分的 HTTP 处理逻辑
type StoreHandler struct {
	storeService *service.StoreService
}

// NewStoreHandler 创建 StoreHandler 实例
func NewStoreHandler(storeService *service.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// ListStores 返回普通用户视图的商店列表：
// 每行带整体平均评分和当前用户自己提交过的评分。
func (h *StoreHandler) ListStores(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		logrus.Warn("Handler.ListStores: user ID not found in context, middleware missing or failed?")
		ErrorResponse(c, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	q := repository.StoreListQuery{
		Name:    c.Query("name"),
		Address: c.Query("address"),
		SortBy:  c.Query("sort_by"),
		Order:   c.Query("order"),
	}
	rows, err := h.storeService.ListStores(c.Request.Context(), userID, q)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, rows)
}

// RateRequest 定义评分提交请求的结构体
type RateRequest struct {
	Rating int `json:"rating"`
}

// Rate 提交或修改当前用户对某商店的评分。
// 新建评分返回 201，原地更新返回 200，两者都带 {msg, rating}。
func (h *StoreHandler) Rate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		logrus.Warn("Handler.Rate: user ID not found in context, middleware missing or failed?")
		ErrorResponse(c, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	storeID, err := parseIDParam(c.Param("storeId"))
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, "Store not found")
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Rate: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	rating, created, err := h.storeService.SubmitRating(c.Request.Context(), userID, storeID, req.Rating)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	if created {
		SuccessResponse(c, http.StatusCreated, gin.H{
			"msg":    "Rating submitted successfully",
			"rating": rating,
		})
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"msg":    "Rating updated successfully",
		"rating": rating,
	})
}
