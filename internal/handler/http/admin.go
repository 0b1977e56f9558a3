package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"store-rating-service/internal/repository"
	"store-rating-service/internal/service"
)

// AdminHandler 封装了管理员相关的 HTTP 处理逻辑
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler 创建 AdminHandler 实例
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// CreateStoreRequest 定义创建商店请求的结构体 (商店字段 + 店主字段)
type CreateStoreRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	OwnerName     string `json:"ownerName"`
	OwnerEmail    string `json:"ownerEmail"`
	OwnerPassword string `json:"ownerPassword"`
	OwnerAddress  string `json:"ownerAddress"`
}

// CreateStore 处理创建商店请求：店主用户和商店在一个事务里创建，成功返回 201 商店。
func (h *AdminHandler) CreateStore(c *gin.Context) {
	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateStore: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	store, err := h.adminService.CreateStoreWithOwner(c.Request.Context(), service.CreateStoreInput{
		Name:          req.Name,
		Email:         req.Email,
		Address:       req.Address,
		OwnerName:     req.OwnerName,
		OwnerEmail:    req.OwnerEmail,
		OwnerPassword: req.OwnerPassword,
		OwnerAddress:  req.OwnerAddress,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, store)
}

// CreateUserRequest 定义管理员创建用户请求的结构体
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser 处理管理员创建用户请求 (可指定三种角色之一)，成功返回 201 用户。
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateUser: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.adminService.CreateUser(c.Request.Context(), req.Name, req.Email, req.Address, req.Password, req.Role)
	if err != nil {
		// 该接口沿用原系统的约定：邮箱冲突返回 400 而不是 409
		if errors.Is(err, service.ErrEmailTaken) {
			ErrorResponse(c, http.StatusBadRequest, "User already exists with this email")
			return
		}
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, user)
}

// ListStores 返回带整体平均评分的商店列表，支持 name/email/address 过滤和白名单排序。
func (h *AdminHandler) ListStores(c *gin.Context) {
	q := repository.StoreListQuery{
		Name:    c.Query("name"),
		Email:   c.Query("email"),
		Address: c.Query("address"),
		SortBy:  c.Query("sort_by"),
		Order:   c.Query("order"),
	}
	rows, err := h.adminService.ListStores(c.Request.Context(), q)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, rows)
}

// ListUsers 返回用户列表，支持 name/email/address/role 过滤和白名单排序。
func (h *AdminHandler) ListUsers(c *gin.Context) {
	q := repository.UserListQuery{
		Name:    c.Query("name"),
		Email:   c.Query("email"),
		Address: c.Query("address"),
		Role:    c.Query("role"),
		SortBy:  c.Query("sort_by"),
		Order:   c.Query("order"),
	}
	rows, err := h.adminService.ListUsers(c.Request.Context(), q)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, rows)
}

// GetUser 返回单个用户详情；Store Owner 额外带名下商店的整体评分。
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	detail, err := h.adminService.GetUserDetail(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, detail)
}

// GetStore 返回单个商店详情，含整体评分和按时间倒序的全部评分记录。
func (h *AdminHandler) GetStore(c *gin.Context) {
	id, err := parseIDParam(c.Param("storeId"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid store id")
		return
	}

	detail, err := h.adminService.GetStoreDetail(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, detail)
}

// DashboardCounts 返回管理员看板的三项总数。
func (h *AdminHandler) DashboardCounts(c *gin.Context) {
	counts, err := h.adminService.DashboardCounts(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, counts)
}

// parseIDParam 解析路径参数中的数字 ID
func parseIDParam(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
