package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"store-rating-service/internal/domain"
	"store-rating-service/internal/dto"
	"store-rating-service/internal/repository"
	"store-rating-service/internal/repository/mocks"
	"store-rating-service/internal/service"
)

// --- 测试 ListStores 方法 ---

func TestStoreService_ListStores_IncludesUserRating(t *testing.T) {
	// Arrange
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	storeService := service.NewStoreService(mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	overall := 4.5
	mine := 5
	rows := []dto.StoreForUser{
		{
			ID:                  9,
			Name:                testStoreName,
			Address:             testStoreAddress,
			OverallRating:       &overall,
			UserSubmittedRating: &mine,
		},
	}
	q := repository.StoreListQuery{Name: "Bazaar"}
	mockStoreRepo.On("ListForUser", ctx, q, uint(5)).Return(rows, nil).Once()

	// Act
	result, err := storeService.ListStores(ctx, 5, q)

	// Assert
	assert.NoError(t, err)
	require.Len(t, result, 1)
	require.NotNil(t, result[0].UserSubmittedRating)
	assert.Equal(t, 5, *result[0].UserSubmittedRating)

	// Verify
	mockStoreRepo.AssertExpectations(t)
}

func TestStoreService_ListStores_EmptyResultIsSlice(t *testing.T) {
	// Arrange
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	storeService := service.NewStoreService(mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	q := repository.StoreListQuery{}
	mockStoreRepo.On("ListForUser", ctx, q, uint(5)).Return(nil, nil).Once()

	// Act
	result, err := storeService.ListStores(ctx, 5, q)

	// Assert: 序列化后应为 [] 而不是 null
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

// --- 测试 SubmitRating 方法 ---

func TestStoreService_SubmitRating_Created(t *testing.T) {
	// Arrange
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	storeService := service.NewStoreService(mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	store := &domain.Store{ID: 9, Name: testStoreName}
	mockStoreRepo.On("FindByID", ctx, uint(9)).Return(store, nil).Once()
	mockRatingRepo.On("Upsert", ctx, mock.MatchedBy(func(r *domain.Rating) bool {
		return r.StoreID == 9 && r.UserID == 5 && r.Rating == 4
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Rating).ID = 21
	}).Return(true, nil).Once()

	// Act
	rating, created, err := storeService.SubmitRating(ctx, 5, 9, 4)

	// Assert
	assert.NoError(t, err)
	assert.True(t, created, "首次评分应标记为新建")
	require.NotNil(t, rating)
	assert.Equal(t, uint(21), rating.ID)

	// Verify
	mockStoreRepo.AssertExpectations(t)
	mockRatingRepo.AssertExpectations(t)
}

func TestStoreService_SubmitRating_UpdatedInPlace(t *testing.T) {
	// Arrange: 同一用户对同一商店重复评分应原地更新，不新增行
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	storeService := service.NewStoreService(mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	store := &domain.Store{ID: 9, Name: testStoreName}
	mockStoreRepo.On("FindByID", ctx, uint(9)).Return(store, nil).Once()
	mockRatingRepo.On("Upsert", ctx, mock.AnythingOfType("*domain.Rating")).
		Run(func(args mock.Arguments) {
			// 模拟更新后重新加载已存在的行
			ratingArg := args.Get(1).(*domain.Rating)
			ratingArg.ID = 21
			ratingArg.Rating = 2
		}).Return(false, nil).Once()

	// Act
	rating, created, err := storeService.SubmitRating(ctx, 5, 9, 2)

	// Assert
	assert.NoError(t, err)
	assert.False(t, created, "重复评分应标记为更新")
	require.NotNil(t, rating)
	assert.Equal(t, 2, rating.Rating)
}

func TestStoreService_SubmitRating_InvalidValues(t *testing.T) {
	// Arrange
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	storeService := service.NewStoreService(mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	tests := []struct {
		name    string
		rating  int
		wantMsg string
	}{
		{"未提供评分", 0, "Please provide a rating"},
		{"评分过低", -1, "Rating must be between 1 and 5"},
		{"评分过高", 6, "Rating must be between 1 and 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, _, err := storeService.SubmitRating(ctx, 5, 9, tt.rating)

			// Assert
			require.Error(t, err)
			var vErr *service.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantMsg, vErr.Msg)
		})
	}

	// Verify: 校验失败时不应触达数据库
	mockStoreRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	mockRatingRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestStoreService_SubmitRating_BoundaryValuesAccepted(t *testing.T) {
	// Arrange: 1 和 5 是合法边界
	for _, value := range []int{1, 5} {
		mockStoreRepo := new(mocks.StoreRepository)
		mockRatingRepo := new(mocks.RatingRepository)
		storeService := service.NewStoreService(mockStoreRepo, mockRatingRepo)
		ctx := context.Background()

		store := &domain.Store{ID: 9}
		mockStoreRepo.On("FindByID", ctx, uint(9)).Return(store, nil).Once()
		mockRatingRepo.On("Upsert", ctx, mock.AnythingOfType("*domain.Rating")).Return(true, nil).Once()

		// Act
		_, _, err := storeService.SubmitRating(ctx, 5, 9, value)

		// Assert
		assert.NoError(t, err, "评分 %d 应被接受", value)
	}
}

func TestStoreService_SubmitRating_StoreNotFound(t *testing.T) {
	// Arrange
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	storeService := service.NewStoreService(mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	mockStoreRepo.On("FindByID", ctx, uint(404)).Return(nil, repository.ErrStoreNotFound).Once()

	// Act
	_, _, err := storeService.SubmitRating(ctx, 5, 404, 3)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrStoreNotFound))
	mockRatingRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
