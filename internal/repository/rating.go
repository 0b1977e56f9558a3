package repository

import (
	"context"

	"store-rating-service/internal/domain"
	"store-rating-service/internal/dto"
)

// RatingRepository 定义了评分数据的存储和聚合查询操作。
type RatingRepository interface {
	// Upsert 提交评分：先尝试插入，(store_id, user_id) 唯一约束冲突时
	// 原地更新已有行并刷新 updated_at。返回 created 表示本次是否新建了行。
	// 依赖数据库唯一约束兜底，同一用户并发重复提交也不会产生重复行。
	Upsert(ctx context.Context, rating *domain.Rating) (created bool, err error)

	// ListForStore 返回某商店的全部评分 (含评分者姓名/邮箱)，按提交时间倒序。
	ListForStore(ctx context.Context, storeID uint) ([]dto.StoreRatingEntry, error)

	// ListRatersForStore 返回某商店的全部评分者记录 (店主看板视图)，按提交时间倒序。
	ListRatersForStore(ctx context.Context, storeID uint) ([]dto.OwnerRatingEntry, error)

	// AverageForStore 返回某商店评分的算术平均值；没有任何评分时返回 nil。
	AverageForStore(ctx context.Context, storeID uint) (*float64, error)

	// AverageForOwner 返回某店主名下所有商店评分的算术平均值；没有评分时返回 nil。
	AverageForOwner(ctx context.Context, ownerID uint) (*float64, error)

	// Count 返回评分总数 (用于管理员看板)。
	Count(ctx context.Context) (int64, error)
}
