package repository

import (
	"context"

	"store-rating-service/internal/domain"
	"store-rating-service/internal/dto"
)

// StoreListQuery 描述商店列表的过滤与排序参数。
// 普通用户的列表接口不支持 Email 过滤，该字段保持为空即可。
type StoreListQuery struct {
	Name    string
	Email   string
	Address string
	SortBy  string
	Order   string
}

// StoreRepository 定义了商店数据的存储和检索操作。
type StoreRepository interface {
	// FindByID 根据商店 ID 查找商店。
	// 如果商店不存在，返回 repository.ErrStoreNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Store, error)

	// FindByNameOrEmail 查找名称或邮箱匹配的商店 (用于创建前的冲突检查)。
	// 没有匹配时返回 repository.ErrStoreNotFound。
	FindByNameOrEmail(ctx context.Context, name, email string) (*domain.Store, error)

	// FindByOwnerID 返回某个店主拥有的所有商店，按 ID 升序。
	FindByOwnerID(ctx context.Context, ownerID uint) ([]domain.Store, error)

	// CreateWithOwner 在同一个事务中插入店主用户和商店：
	// 两者要么都成功，要么都不可见。违反唯一约束时返回 ErrDuplicateEntry。
	CreateWithOwner(ctx context.Context, owner *domain.User, store *domain.Store) error

	// ListWithRatings 返回带整体平均评分的商店列表 (管理员视图)。
	ListWithRatings(ctx context.Context, q StoreListQuery) ([]dto.StoreWithRating, error)

	// ListForUser 返回带整体平均评分和 userID 自己提交评分的商店列表 (普通用户视图)。
	ListForUser(ctx context.Context, q StoreListQuery, userID uint) ([]dto.StoreForUser, error)

	// Count 返回商店总数 (用于管理员看板)。
	Count(ctx context.Context) (int64, error)
}
