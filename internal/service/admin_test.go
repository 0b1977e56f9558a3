package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"store-rating-service/internal/domain"
	"store-rating-service/internal/dto"
	"store-rating-service/internal/repository"
	"store-rating-service/internal/repository/mocks"
	"store-rating-service/internal/service"
)

// 满足名称长度规则的测试数据
const (
	testStoreName    = "Grand Bazaar Electronics Store"
	testStoreEmail   = "contact@grandbazaar.example.com"
	testStoreAddress = "42 Market Street, Springfield"
	testOwnerName    = "Margaret Elizabeth Thornbury"
	testOwnerEmail   = "margaret@example.com"
)

func newAdminService(userRepo *mocks.UserRepository, storeRepo *mocks.StoreRepository,
	ratingRepo *mocks.RatingRepository) *service.AdminService {
	// 测试里不接 Redis，缓存传 nil 走直查数据库的路径
	return service.NewAdminService(userRepo, storeRepo, ratingRepo, nil, "test:")
}

// --- 测试 CreateStoreWithOwner 方法 ---

func TestAdminService_CreateStoreWithOwner_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	adminService := newAdminService(mockUserRepo, mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	in := service.CreateStoreInput{
		Name:          testStoreName,
		Email:         testStoreEmail,
		Address:       testStoreAddress,
		OwnerName:     testOwnerName,
		OwnerEmail:    testOwnerEmail,
		OwnerPassword: "OwnerPass1!",
		OwnerAddress:  "7 Rosewood Avenue",
	}

	// 设置 Mock 预期: 商店名/邮箱和店主邮箱都不存在
	mockStoreRepo.On("FindByNameOrEmail", ctx, testStoreName, testStoreEmail).
		Return(nil, repository.ErrStoreNotFound).Once()
	mockUserRepo.On("FindByEmail", ctx, testOwnerEmail).
		Return(nil, repository.ErrUserNotFound).Once()

	// 事务创建: 验证传入的店主和商店字段
	mockStoreRepo.On("CreateWithOwner", ctx,
		mock.MatchedBy(func(owner *domain.User) bool {
			assert.Equal(t, testOwnerName, owner.Name)
			assert.Equal(t, domain.RoleStoreOwner, owner.Role, "店主角色应为 Store Owner")
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(owner.Password), []byte("OwnerPass1!")), "店主密码应被哈希")
			return true
		}),
		mock.MatchedBy(func(store *domain.Store) bool {
			return store.Name == testStoreName && store.Email == testStoreEmail
		}),
	).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 3
		storeArg := args.Get(2).(*domain.Store)
		storeArg.ID = 9
		storeArg.OwnerID = 3
	}).Return(nil).Once()

	// Act
	store, err := adminService.CreateStoreWithOwner(ctx, in)

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, uint(9), store.ID)
	assert.Equal(t, uint(3), store.OwnerID, "商店应关联到新建的店主")

	// Verify
	mockStoreRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestAdminService_CreateStoreWithOwner_OwnerEmailTaken(t *testing.T) {
	// Arrange: 店主邮箱冲突时，事务创建不应被触发，不留下半个商店
	mockUserRepo := new(mocks.UserRepository)
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	adminService := newAdminService(mockUserRepo, mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	in := service.CreateStoreInput{
		Name:          testStoreName,
		Email:         testStoreEmail,
		Address:       testStoreAddress,
		OwnerName:     testOwnerName,
		OwnerEmail:    testOwnerEmail,
		OwnerPassword: "OwnerPass1!",
		OwnerAddress:  "7 Rosewood Avenue",
	}

	mockStoreRepo.On("FindByNameOrEmail", ctx, testStoreName, testStoreEmail).
		Return(nil, repository.ErrStoreNotFound).Once()
	existing := &domain.User{ID: 2, Email: testOwnerEmail}
	mockUserRepo.On("FindByEmail", ctx, testOwnerEmail).Return(existing, nil).Once()

	// Act
	_, err := adminService.CreateStoreWithOwner(ctx, in)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrOwnerEmailTaken))

	// Verify: 事务创建不应被调用
	mockStoreRepo.AssertExpectations(t)
	mockStoreRepo.AssertNotCalled(t, "CreateWithOwner", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminService_CreateStoreWithOwner_StoreExists(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	adminService := newAdminService(mockUserRepo, mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	in := service.CreateStoreInput{
		Name:          testStoreName,
		Email:         testStoreEmail,
		Address:       testStoreAddress,
		OwnerName:     testOwnerName,
		OwnerEmail:    testOwnerEmail,
		OwnerPassword: "OwnerPass1!",
		OwnerAddress:  "7 Rosewood Avenue",
	}

	existing := &domain.Store{ID: 4, Name: testStoreName}
	mockStoreRepo.On("FindByNameOrEmail", ctx, testStoreName, testStoreEmail).Return(existing, nil).Once()

	// Act
	_, err := adminService.CreateStoreWithOwner(ctx, in)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrStoreExists))
	mockStoreRepo.AssertNotCalled(t, "CreateWithOwner", mock.Anything, mock.Anything, mock.Anything)
}

// --- 测试 CreateUser 方法 ---

func TestAdminService_CreateUser_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	adminService := newAdminService(mockUserRepo, mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	mockUserRepo.On("FindByEmail", ctx, testEmail).Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("Save", ctx, mock.MatchedBy(func(user *domain.User) bool {
		return user.Role == domain.RoleSystemAdmin
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 11
	}).Return(nil).Once()

	// Act
	user, err := adminService.CreateUser(ctx, testName, testEmail, testAddress, testPassword, domain.RoleSystemAdmin)

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, uint(11), user.ID)
	assert.Empty(t, user.Password, "返回的用户密码应为空")

	// Verify
	mockUserRepo.AssertExpectations(t)
}

func TestAdminService_CreateUser_InvalidRole(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	adminService := newAdminService(mockUserRepo, mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	// Act: 角色不在枚举内
	_, err := adminService.CreateUser(ctx, testName, testEmail, testAddress, testPassword, "Superuser")

	// Assert
	require.Error(t, err)
	var vErr *service.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Invalid user role", vErr.Msg)
	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// --- 测试 GetUserDetail 方法 ---

func TestAdminService_GetUserDetail_StoreOwnerIncludesRating(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	adminService := newAdminService(mockUserRepo, mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	owner := &domain.User{ID: 3, Name: testOwnerName, Email: testOwnerEmail, Role: domain.RoleStoreOwner}
	avg := 4.25
	mockUserRepo.On("FindByID", ctx, uint(3)).Return(owner, nil).Once()
	mockRatingRepo.On("AverageForOwner", ctx, uint(3)).Return(&avg, nil).Once()

	// Act
	detail, err := adminService.GetUserDetail(ctx, 3)

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, detail)
	require.NotNil(t, detail.OverallRating, "店主详情应带整体评分")
	assert.Equal(t, "4.25", *detail.OverallRating)

	// Verify
	mockRatingRepo.AssertExpectations(t)
}

func TestAdminService_GetUserDetail_NormalUserSkipsRating(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	adminService := newAdminService(mockUserRepo, mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	user := &domain.User{ID: 5, Name: testName, Email: testEmail, Role: domain.RoleNormalUser}
	mockUserRepo.On("FindByID", ctx, uint(5)).Return(user, nil).Once()

	// Act
	detail, err := adminService.GetUserDetail(ctx, 5)

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, detail)
	assert.Nil(t, detail.OverallRating, "普通用户详情不应带整体评分")

	// Verify: 不应触发评分聚合
	mockRatingRepo.AssertNotCalled(t, "AverageForOwner", mock.Anything, mock.Anything)
}

func TestAdminService_GetUserDetail_NotFound(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	adminService := newAdminService(mockUserRepo, mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(99)).Return(nil, repository.ErrUserNotFound).Once()

	// Act
	_, err := adminService.GetUserDetail(ctx, 99)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrUserNotFound))
}

// --- 测试 GetStoreDetail 方法 ---

func TestAdminService_GetStoreDetail_NoRatingsOmitsOverall(t *testing.T) {
	// Arrange: 没有任何评分时 overall_rating 应缺省而不是 NaN
	mockUserRepo := new(mocks.UserRepository)
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	adminService := newAdminService(mockUserRepo, mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	store := &domain.Store{ID: 9, Name: testStoreName, Email: testStoreEmail, OwnerID: 3}
	mockStoreRepo.On("FindByID", ctx, uint(9)).Return(store, nil).Once()
	mockRatingRepo.On("AverageForStore", ctx, uint(9)).Return(nil, nil).Once()
	mockRatingRepo.On("ListForStore", ctx, uint(9)).Return(nil, nil).Once()

	// Act
	detail, err := adminService.GetStoreDetail(ctx, 9)

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, detail)
	assert.Nil(t, detail.OverallRating)
	assert.NotNil(t, detail.Ratings, "评分列表应为空数组而不是 null")
	assert.Empty(t, detail.Ratings)
}

// --- 测试 DashboardCounts 方法 ---

func TestAdminService_DashboardCounts_NoCacheQueriesDatabase(t *testing.T) {
	// Arrange: 缓存未接入时直接统计三张表
	mockUserRepo := new(mocks.UserRepository)
	mockStoreRepo := new(mocks.StoreRepository)
	mockRatingRepo := new(mocks.RatingRepository)
	adminService := newAdminService(mockUserRepo, mockStoreRepo, mockRatingRepo)
	ctx := context.Background()

	mockUserRepo.On("Count", ctx).Return(int64(12), nil).Once()
	mockStoreRepo.On("Count", ctx).Return(int64(4), nil).Once()
	mockRatingRepo.On("Count", ctx).Return(int64(31), nil).Once()

	// Act
	counts, err := adminService.DashboardCounts(ctx)

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, counts)
	assert.Equal(t, &dto.DashboardCounts{TotalUsers: 12, TotalStores: 4, TotalRatings: 31}, counts)

	// Verify
	mockUserRepo.AssertExpectations(t)
	mockStoreRepo.AssertExpectations(t)
	mockRatingRepo.AssertExpectations(t)
}
