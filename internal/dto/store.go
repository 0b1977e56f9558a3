// Package dto 定义了查询结果行和响应的数据结构。
// 这些结构不是数据库模型：它们对应带聚合列 (AVG) 或关联列的查询结果。
package dto

import "time"

// StoreWithRating 表示管理员商店列表中的一行，带整体平均评分。
// OverallRating 在该商店还没有任何评分时为 null。
type StoreWithRating struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	OverallRating *float64 `json:"overall_rating"`
}

// StoreForUser 表示普通用户商店列表中的一行。
// UserSubmittedRating 是当前登录用户自己对该商店提交过的评分，没有则为 null。
type StoreForUser struct {
	ID                  uint     `json:"id"`
	Name                string   `json:"name"`
	Address             string   `json:"address"`
	OverallRating       *float64 `json:"overall_rating"`
	UserSubmittedRating *int     `json:"user_submitted_rating"`
}

// StoreRatingEntry 表示管理员商店详情页中的一条评分记录 (含评分者信息)。
type StoreRatingEntry struct {
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
}

// OwnerRatingEntry 表示店主看板中的一条评分记录。
type OwnerRatingEntry struct {
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardCounts 表示管理员看板上的三项总数。
type DashboardCounts struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalStores  int64 `json:"totalStores"`
	TotalRatings int64 `json:"totalRatings"`
}
