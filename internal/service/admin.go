package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"store-rating-service/internal/domain"
	"store-rating-service/internal/dto"
	"store-rating-service/internal/repository"
)

// dashboardCountsKey 是看板总数缓存在 Redis 中的 key (不含前缀)。
// 后台任务周期性刷新该缓存，接口读取时缓存缺失则直接走 COUNT 查询。
const dashboardCountsKey = "stats:dashboard_counts"

// dashboardCountsTTL 限制缓存的最长陈旧时间。
const dashboardCountsTTL = 10 * time.Minute

// AdminService 负责管理员相关的业务逻辑：创建用户/商店、列表查询、详情和看板。
type AdminService struct {
	userRepo   repository.UserRepository
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
	cache      *redis.Client // 可为 nil，nil 时看板总数直接查库
	keyPrefix  string
}

// NewAdminService 创建 AdminService 实例。cache 传 nil 时禁用看板缓存。
func NewAdminService(userRepo repository.UserRepository, storeRepo repository.StoreRepository,
	ratingRepo repository.RatingRepository, cache *redis.Client, keyPrefix string) *AdminService {
	if userRepo == nil || storeRepo == nil || ratingRepo == nil {
		panic("repositories cannot be nil for AdminService")
	}
	return &AdminService{
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
		cache:      cache,
		keyPrefix:  keyPrefix,
	}
}

// CreateStoreInput 聚合创建商店请求中的商店字段和店主字段。
type CreateStoreInput struct {
	Name         string
	Email        string
	Address      string
	OwnerName    string
	OwnerEmail   string
	OwnerPassword string
	OwnerAddress string
}

// CreateStoreWithOwner 创建商店及其店主用户。
// 两条插入在同一个事务中执行：任何一条失败都不会留下另一条。
func (s *AdminService) CreateStoreWithOwner(ctx context.Context, in CreateStoreInput) (*domain.Store, error) {
	logCtx := logrus.WithFields(logrus.Fields{"store_name": in.Name, "owner_email": in.OwnerEmail})

	// 1. 字段校验
	if in.Name == "" || in.Email == "" || in.Address == "" ||
		in.OwnerName == "" || in.OwnerEmail == "" || in.OwnerPassword == "" || in.OwnerAddress == "" {
		return nil, NewValidationError("Please enter all store and owner fields")
	}
	if err := validateNameField(in.Name, "Store name"); err != nil {
		return nil, err
	}
	if err := validateAddressField(in.Address, "Store address"); err != nil {
		return nil, err
	}
	if err := validateNameField(in.OwnerName, "Owner name"); err != nil {
		return nil, err
	}
	if err := validateAddressField(in.OwnerAddress, "Owner address"); err != nil {
		return nil, err
	}
	if err := validatePasswordField(in.OwnerPassword, "Owner password"); err != nil {
		return nil, err
	}

	// 2. 冲突检查：商店名/邮箱、店主邮箱
	if _, err := s.storeRepo.FindByNameOrEmail(ctx, in.Name, in.Email); err == nil {
		logCtx.Warn("Store creation failed: store name or email already exists")
		return nil, ErrStoreExists
	} else if !errors.Is(err, repository.ErrStoreNotFound) {
		logCtx.WithError(err).Error("Database error checking store uniqueness")
		return nil, ErrInternalServer
	}
	if _, err := s.userRepo.FindByEmail(ctx, in.OwnerEmail); err == nil {
		logCtx.Warn("Store creation failed: owner email already exists")
		return nil, ErrOwnerEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		logCtx.WithError(err).Error("Database error checking owner email")
		return nil, ErrInternalServer
	}

	// 3. 哈希店主密码
	hashedPassword, err := hashPassword(in.OwnerPassword)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash owner password")
		return nil, ErrInternalServer
	}

	// 4. 事务内插入店主和商店
	owner := &domain.User{
		Name:     in.OwnerName,
		Email:    in.OwnerEmail,
		Password: hashedPassword,
		Address:  in.OwnerAddress,
		Role:     domain.RoleStoreOwner,
	}
	store := &domain.Store{
		Name:    in.Name,
		Email:   in.Email,
		Address: in.Address,
	}
	if err := s.storeRepo.CreateWithOwner(ctx, owner, store); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			// 检查和插入之间被并发请求抢先，由唯一约束挡住
			logCtx.WithError(err).Warn("Store creation failed: duplicate entry in transaction")
			return nil, ErrStoreExists
		}
		logCtx.WithError(err).Error("Database error creating store with owner")
		return nil, ErrInternalServer
	}

	logCtx.WithFields(logrus.Fields{"store_id": store.ID, "owner_id": owner.ID}).Info("Store created with owner")
	return store, nil
}

// CreateUser 管理员创建任意角色的用户，校验规则与注册一致外加角色枚举检查。
func (s *AdminService) CreateUser(ctx context.Context, name, email, address, password, role string) (*domain.User, error) {
	logCtx := logrus.WithFields(logrus.Fields{"email": email, "role": role})

	if name == "" || email == "" || address == "" || password == "" || role == "" {
		return nil, NewValidationError("Please enter all fields")
	}
	if !domain.IsValidRole(role) {
		return nil, NewValidationError("Invalid user role")
	}
	if err := validateNameField(name, "Name"); err != nil {
		return nil, err
	}
	if err := validateAddressField(address, "Address"); err != nil {
		return nil, err
	}
	if err := validatePasswordField(password, "Password"); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		logCtx.Warn("User creation failed: email already exists")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		logCtx.WithError(err).Error("Database error checking email")
		return nil, ErrInternalServer
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password")
		return nil, ErrInternalServer
	}

	user := &domain.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Address:  address,
		Role:     role,
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrEmailTaken
		}
		logCtx.WithError(err).Error("Database error creating user")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User created by admin")
	user.Password = ""
	return user, nil
}

// ListStores 返回带整体平均评分的商店列表。过滤/排序语义由 repository 层实现。
func (s *AdminService) ListStores(ctx context.Context, q repository.StoreListQuery) ([]dto.StoreWithRating, error) {
	rows, err := s.storeRepo.ListWithRatings(ctx, q)
	if err != nil {
		logrus.WithError(err).Error("Database error listing stores")
		return nil, ErrInternalServer
	}
	if rows == nil {
		rows = []dto.StoreWithRating{}
	}
	return rows, nil
}

// ListUsers 返回用户列表，结果不含密码哈希。
func (s *AdminService) ListUsers(ctx context.Context, q repository.UserListQuery) ([]domain.User, error) {
	rows, err := s.userRepo.List(ctx, q)
	if err != nil {
		logrus.WithError(err).Error("Database error listing users")
		return nil, ErrInternalServer
	}
	if rows == nil {
		rows = []domain.User{}
	}
	return rows, nil
}

// GetUserDetail 返回用户详情；Store Owner 额外带名下所有商店评分的平均值。
func (s *AdminService) GetUserDetail(ctx context.Context, id uint) (*dto.UserDetail, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).WithField("user_id", id).Error("Database error fetching user detail")
		return nil, ErrInternalServer
	}

	detail := &dto.UserDetail{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Address: user.Address,
		Role:    user.Role,
	}
	if user.Role == domain.RoleStoreOwner {
		avg, err := s.ratingRepo.AverageForOwner(ctx, user.ID)
		if err != nil {
			logrus.WithError(err).WithField("user_id", id).Error("Database error aggregating owner rating")
			return nil, ErrInternalServer
		}
		formatted := formatAverage(avg)
		detail.OverallRating = &formatted
	}
	return detail, nil
}

// GetStoreDetail 返回商店详情：商店字段、整体评分和按时间倒序的全部评分记录。
func (s *AdminService) GetStoreDetail(ctx context.Context, storeID uint) (*dto.StoreDetail, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return nil, ErrStoreNotFound
		}
		logrus.WithError(err).WithField("store_id", storeID).Error("Database error fetching store detail")
		return nil, ErrInternalServer
	}

	avg, err := s.ratingRepo.AverageForStore(ctx, store.ID)
	if err != nil {
		logrus.WithError(err).WithField("store_id", storeID).Error("Database error aggregating store rating")
		return nil, ErrInternalServer
	}
	ratings, err := s.ratingRepo.ListForStore(ctx, store.ID)
	if err != nil {
		logrus.WithError(err).WithField("store_id", storeID).Error("Database error listing store ratings")
		return nil, ErrInternalServer
	}
	if ratings == nil {
		ratings = []dto.StoreRatingEntry{}
	}

	detail := &dto.StoreDetail{
		ID:      store.ID,
		Name:    store.Name,
		Email:   store.Email,
		Address: store.Address,
		OwnerID: store.OwnerID,
		Ratings: ratings,
	}
	if avg != nil {
		formatted := formatAverage(avg)
		detail.OverallRating = &formatted
	}
	return detail, nil
}

// DashboardCounts 返回管理员看板的三项总数。
// 先尝试读缓存 (由后台任务周期刷新)，缓存缺失或不可用时直接查库并回写。
// 缓存只是加速，Redis 不可用不影响结果正确性。
func (s *AdminService) DashboardCounts(ctx context.Context) (*dto.DashboardCounts, error) {
	if s.cache != nil {
		data, err := s.cache.Get(ctx, s.keyPrefix+dashboardCountsKey).Result()
		if err == nil {
			var counts dto.DashboardCounts
			if jsonErr := json.Unmarshal([]byte(data), &counts); jsonErr == nil {
				return &counts, nil
			}
			logrus.Warn("Dashboard counts cache contains invalid JSON, falling back to database")
		} else if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).Warn("Failed to read dashboard counts cache, falling back to database")
		}
	}
	return s.RefreshDashboardCounts(ctx)
}

// RefreshDashboardCounts 直接从数据库统计三项总数，并尽力回写缓存。
// 后台任务和缓存缺失时的读路径都走这里。
func (s *AdminService) RefreshDashboardCounts(ctx context.Context) (*dto.DashboardCounts, error) {
	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		logrus.WithError(err).Error("Database error counting users")
		return nil, ErrInternalServer
	}
	totalStores, err := s.storeRepo.Count(ctx)
	if err != nil {
		logrus.WithError(err).Error("Database error counting stores")
		return nil, ErrInternalServer
	}
	totalRatings, err := s.ratingRepo.Count(ctx)
	if err != nil {
		logrus.WithError(err).Error("Database error counting ratings")
		return nil, ErrInternalServer
	}

	counts := &dto.DashboardCounts{
		TotalUsers:   totalUsers,
		TotalStores:  totalStores,
		TotalRatings: totalRatings,
	}

	if s.cache != nil {
		data, err := json.Marshal(counts)
		if err == nil {
			if err := s.cache.Set(ctx, s.keyPrefix+dashboardCountsKey, data, dashboardCountsTTL).Err(); err != nil {
				// 回写失败只记日志，不影响返回结果
				logrus.WithError(err).Warn("Failed to write dashboard counts cache")
			}
		}
	}
	return counts, nil
}
