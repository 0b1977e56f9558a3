package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"store-rating-service/internal/domain"
	"store-rating-service/internal/dto"
	"store-rating-service/internal/repository"
)

// GormStoreRepository 是 StoreRepository 接口的 GORM 实现
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository 创建 GormStoreRepository 实例
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	if db == nil {
		panic("database connection cannot be nil for GormStoreRepository")
	}
	return &GormStoreRepository{db: db}
}

// FindByID 实现根据商店 ID 查找商店
func (r *GormStoreRepository) FindByID(ctx context.Context, id uint) (*domain.Store, error) {
	var store domain.Store
	err := r.db.WithContext(ctx).First(&store, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStoreNotFound
		}
		return nil, fmt.Errorf("gorm: find store by id %d: %w", id, err)
	}
	return &store, nil
}

// FindByNameOrEmail 实现查找名称或邮箱匹配的商店 (创建前的冲突检查)
func (r *GormStoreRepository) FindByNameOrEmail(ctx context.Context, name, email string) (*domain.Store, error) {
	var store domain.Store
	err := r.db.WithContext(ctx).Where("name = ? OR email = ?", name, email).First(&store).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStoreNotFound
		}
		return nil, fmt.Errorf("gorm: find store by name '%s' or email '%s': %w", name, email, err)
	}
	return &store, nil
}

// FindByOwnerID 实现返回某个店主拥有的所有商店，按 ID 升序。
// 店主看板把第一家作为 "主商店"，所以这里的顺序必须是确定的。
func (r *GormStoreRepository) FindByOwnerID(ctx context.Context, ownerID uint) ([]domain.Store, error) {
	var stores []domain.Store
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id ASC").Find(&stores).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find stores by owner %d: %w", ownerID, err)
	}
	return stores, nil
}

// CreateWithOwner 实现在同一个事务中插入店主用户和商店。
// 第二条插入失败时整个事务回滚，不会留下没有商店的孤立店主。
func (r *GormStoreRepository) CreateWithOwner(ctx context.Context, owner *domain.User, store *domain.Store) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		store.OwnerID = owner.ID
		if err := tx.Create(store).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create store with owner: %w", err)
	}
	return nil
}

// ListWithRatings 实现带整体平均评分的商店列表 (管理员视图)。
// overall_rating 是 LEFT JOIN + AVG 的聚合列，没有评分的商店为 NULL。
func (r *GormStoreRepository) ListWithRatings(ctx context.Context, q repository.StoreListQuery) ([]dto.StoreWithRating, error) {
	sortField, sortOrder := repository.NormalizeSort(q.SortBy, q.Order, repository.StoreSortFields, "name")

	tx := r.db.WithContext(ctx).Table("stores s").
		Select("s.id, s.name, s.email, s.address, AVG(r.rating) AS overall_rating").
		Joins("LEFT JOIN ratings r ON r.store_id = s.id")
	if q.Name != "" {
		tx = tx.Where("s.name LIKE ?", "%"+q.Name+"%")
	}
	if q.Email != "" {
		tx = tx.Where("s.email LIKE ?", "%"+q.Email+"%")
	}
	if q.Address != "" {
		tx = tx.Where("s.address LIKE ?", "%"+q.Address+"%")
	}
	tx = tx.Group("s.id, s.name, s.email, s.address").
		Order(sortField + " " + sortOrder)

	var rows []dto.StoreWithRating
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("gorm: list stores with ratings: %w", err)
	}
	return rows, nil
}

// ListForUser 实现普通用户视图的商店列表：
// 除整体平均评分外，还用关联子查询取出 userID 自己对每家商店提交过的评分。
func (r *GormStoreRepository) ListForUser(ctx context.Context, q repository.StoreListQuery, userID uint) ([]dto.StoreForUser, error) {
	sortField, sortOrder := repository.NormalizeSort(q.SortBy, q.Order, repository.UserStoreSortFields, "name")

	tx := r.db.WithContext(ctx).Table("stores s").
		Select(`s.id, s.name, s.address, AVG(r.rating) AS overall_rating,
			(SELECT ur.rating FROM ratings ur WHERE ur.store_id = s.id AND ur.user_id = ?) AS user_submitted_rating`, userID).
		Joins("LEFT JOIN ratings r ON r.store_id = s.id")
	if q.Name != "" {
		tx = tx.Where("s.name LIKE ?", "%"+q.Name+"%")
	}
	if q.Address != "" {
		tx = tx.Where("s.address LIKE ?", "%"+q.Address+"%")
	}
	tx = tx.Group("s.id, s.name, s.address").
		Order(sortField + " " + sortOrder)

	var rows []dto.StoreForUser
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("gorm: list stores for user %d: %w", userID, err)
	}
	return rows, nil
}

// Count 实现返回商店总数
func (r *GormStoreRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Store{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("gorm: count stores: %w", err)
	}
	return count, nil
}
