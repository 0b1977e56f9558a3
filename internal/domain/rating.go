package domain

import "time"

// Rating 表示某个用户对某家商店提交的一次评分 (1-5)。
// (store_id, user_id) 上有唯一索引：同一用户对同一商店最多只有一行，
// 重复提交会原地更新该行而不是插入新行。
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StoreID   uint      `gorm:"uniqueIndex:idx_ratings_store_user;not null" json:"store_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_ratings_store_user;not null" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
