package repository

import (
	"context"

	"store-rating-service/internal/domain"
)

// UserListQuery 描述管理员用户列表的过滤与排序参数。
// 所有过滤条件都是大小写不敏感的子串匹配，多个条件之间为 AND。
type UserListQuery struct {
	Name    string
	Email   string
	Address string
	Role    string
	SortBy  string
	Order   string
}

// UserRepository 定义了用户数据的存储和检索操作。
type UserRepository interface {
	// FindByEmail 根据邮箱查找用户。
	// 如果用户不存在，返回 repository.ErrUserNotFound。
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByID 根据用户 ID 查找用户。
	// 如果用户不存在，返回 repository.ErrUserNotFound。
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// Save 保存用户信息。
	// 如果用户已存在 (基于 ID)，则更新；否则创建新用户。
	// 违反邮箱唯一约束时返回 repository.ErrDuplicateEntry。
	Save(ctx context.Context, user *domain.User) error

	// List 按过滤和排序参数返回用户列表，结果不包含密码哈希。
	List(ctx context.Context, q UserListQuery) ([]domain.User, error)

	// Count 返回用户总数 (用于管理员看板)。
	Count(ctx context.Context) (int64, error)
}
