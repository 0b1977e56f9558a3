package gormpersistence

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"store-rating-service/internal/domain"
	"store-rating-service/internal/dto"
)

// GormRatingRepository 是 RatingRepository 接口的 GORM 实现
type GormRatingRepository struct {
	db *gorm.DB
}

// NewGormRatingRepository 创建 GormRatingRepository 实例
func NewGormRatingRepository(db *gorm.DB) *GormRatingRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRatingRepository")
	}
	return &GormRatingRepository{db: db}
}

// Upsert 实现评分的插入或原地更新。
// 不做 "先查再写"：直接插入，撞到 (store_id, user_id) 唯一约束时回退为更新。
// 唯一约束保证并发重复提交最终也只有一行。
func (r *GormRatingRepository) Upsert(ctx context.Context, rating *domain.Rating) (bool, error) {
	err := r.db.WithContext(ctx).Create(rating).Error
	if err == nil {
		return true, nil
	}
	if !isDuplicateEntryError(err) {
		return false, fmt.Errorf("gorm: insert rating (store: %d, user: %d): %w", rating.StoreID, rating.UserID, err)
	}

	// 该用户已评过分：更新已有行，GORM 会同时刷新 updated_at
	res := r.db.WithContext(ctx).Model(&domain.Rating{}).
		Where("store_id = ? AND user_id = ?", rating.StoreID, rating.UserID).
		Update("rating", rating.Rating)
	if res.Error != nil {
		return false, fmt.Errorf("gorm: update rating (store: %d, user: %d): %w", rating.StoreID, rating.UserID, res.Error)
	}

	// 重新读取该行，取回 ID 和时间戳返回给调用方
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND user_id = ?", rating.StoreID, rating.UserID).
		First(rating).Error; err != nil {
		return false, fmt.Errorf("gorm: reload rating (store: %d, user: %d): %w", rating.StoreID, rating.UserID, err)
	}
	return false, nil
}

// ListForStore 实现返回某商店的全部评分 (含评分者姓名/邮箱)，按提交时间倒序
func (r *GormRatingRepository) ListForStore(ctx context.Context, storeID uint) ([]dto.StoreRatingEntry, error) {
	var rows []dto.StoreRatingEntry
	err := r.db.WithContext(ctx).Table("ratings r").
		Select("r.rating, r.created_at, u.name AS user_name, u.email AS user_email").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.store_id = ?", storeID).
		Order("r.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list ratings for store %d: %w", storeID, err)
	}
	return rows, nil
}

// ListRatersForStore 实现返回某商店的全部评分者记录 (店主看板视图)，按提交时间倒序
func (r *GormRatingRepository) ListRatersForStore(ctx context.Context, storeID uint) ([]dto.OwnerRatingEntry, error) {
	var rows []dto.OwnerRatingEntry
	err := r.db.WithContext(ctx).Table("users u").
		Select("u.id AS user_id, u.name AS user_name, u.email AS user_email, r.rating, r.created_at").
		Joins("JOIN ratings r ON u.id = r.user_id").
		Where("r.store_id = ?", storeID).
		Order("r.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list raters for store %d: %w", storeID, err)
	}
	return rows, nil
}

// AverageForStore 实现返回某商店评分的算术平均值，没有评分时返回 nil
func (r *GormRatingRepository) AverageForStore(ctx context.Context, storeID uint) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).
		Raw("SELECT AVG(rating) FROM ratings WHERE store_id = ?", storeID).
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: average rating for store %d: %w", storeID, err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// AverageForOwner 实现返回某店主名下所有商店评分的算术平均值，没有评分时返回 nil
func (r *GormRatingRepository) AverageForOwner(ctx context.Context, ownerID uint) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).
		Raw("SELECT AVG(r.rating) FROM stores s JOIN ratings r ON s.id = r.store_id WHERE s.owner_id = ?", ownerID).
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: average rating for owner %d: %w", ownerID, err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// Count 实现返回评分总数
func (r *GormRatingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Rating{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("gorm: count ratings: %w", err)
	}
	return count, nil
}
