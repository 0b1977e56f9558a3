package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"store-rating-service/internal/domain"
	httpHandler "store-rating-service/internal/handler/http"
	"store-rating-service/internal/middleware"
	"store-rating-service/internal/repository"
	"store-rating-service/internal/repository/mocks"
	"store-rating-service/internal/service"
)

// fakeAuth 模拟 Auth 中间件：直接把身份写入 Context，跳过 token 验证
func fakeAuth(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Set(middleware.ContextUserRoleKey, role)
		c.Next()
	}
}

func newRatingRouter(storeRepo *mocks.StoreRepository, ratingRepo *mocks.RatingRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	storeService := service.NewStoreService(storeRepo, ratingRepo)
	handler := httpHandler.NewStoreHandler(storeService)

	router := gin.New()
	router.POST("/api/user/stores/:storeId/rate",
		fakeAuth(5, domain.RoleNormalUser), handler.Rate)
	return router
}

func TestStoreHandler_Rate_Created(t *testing.T) {
	// Arrange
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	router := newRatingRouter(mockStoreRepo, mockRatingRepo)

	store := &domain.Store{ID: 9}
	mockStoreRepo.On("FindByID", mock.Anything, uint(9)).Return(store, nil).Once()
	mockRatingRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Rating")).
		Return(true, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/user/stores/9/rate",
		strings.NewReader(`{"rating": 4}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert: 新建评分返回 201
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Rating submitted successfully")

	// Verify
	mockStoreRepo.AssertExpectations(t)
	mockRatingRepo.AssertExpectations(t)
}

func TestStoreHandler_Rate_Updated(t *testing.T) {
	// Arrange
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	router := newRatingRouter(mockStoreRepo, mockRatingRepo)

	store := &domain.Store{ID: 9}
	mockStoreRepo.On("FindByID", mock.Anything, uint(9)).Return(store, nil).Once()
	mockRatingRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Rating")).
		Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/user/stores/9/rate",
		strings.NewReader(`{"rating": 2}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert: 重复评分原地更新返回 200
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rating updated successfully")
}

func TestStoreHandler_Rate_InvalidRating(t *testing.T) {
	// Arrange
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	router := newRatingRouter(mockStoreRepo, mockRatingRepo)

	req := httptest.NewRequest(http.MethodPost, "/api/user/stores/9/rate",
		strings.NewReader(`{"rating": 6}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"msg": "Rating must be between 1 and 5"}`, w.Body.String())
	mockRatingRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestStoreHandler_Rate_StoreNotFound(t *testing.T) {
	// Arrange
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	router := newRatingRouter(mockStoreRepo, mockRatingRepo)

	mockStoreRepo.On("FindByID", mock.Anything, uint(404)).
		Return(nil, repository.ErrStoreNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/user/stores/404/rate",
		strings.NewReader(`{"rating": 3}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"msg": "Store not found"}`, w.Body.String())
}

func TestStoreHandler_ListStores_PassesFilters(t *testing.T) {
	// Arrange
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	gin.SetMode(gin.TestMode)
	storeService := service.NewStoreService(mockStoreRepo, mockRatingRepo)
	handler := httpHandler.NewStoreHandler(storeService)
	router := gin.New()
	router.GET("/api/user/stores", fakeAuth(5, domain.RoleNormalUser), handler.ListStores)

	expectedQuery := repository.StoreListQuery{
		Name:    "Bazaar",
		Address: "Market",
		SortBy:  "overall_rating",
		Order:   "desc",
	}
	mockStoreRepo.On("ListForUser", mock.Anything, expectedQuery, uint(5)).
		Return(nil, nil).Once()

	req := httptest.NewRequest(http.MethodGet,
		"/api/user/stores?name=Bazaar&address=Market&sort_by=overall_rating&order=desc", nil)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert: 查询参数应逐项传递到 repository 层
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	mockStoreRepo.AssertExpectations(t)
}
