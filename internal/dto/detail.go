package dto

import "store-rating-service/internal/domain"

// UserDetail 表示管理员用户详情。
// OverallRating 仅当用户是 Store Owner 时出现：名下所有商店评分的平均值，
// 格式化为两位小数，没有评分时为 "N/A"。
type UserDetail struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Address       string  `json:"address"`
	Role          string  `json:"role"`
	OverallRating *string `json:"overall_rating,omitempty"`
}

// StoreDetail 表示管理员商店详情：商店字段、格式化后的整体评分和全部评分记录。
// OverallRating 在没有任何评分时为 null。
type StoreDetail struct {
	ID            uint               `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Address       string             `json:"address"`
	OwnerID       uint               `json:"owner_id"`
	OverallRating *string            `json:"overall_rating"`
	Ratings       []StoreRatingEntry `json:"ratings"`
}

// OwnerDashboard 表示店主看板：主商店、平均评分 ("N/A" 或两位小数) 和评分者列表。
type OwnerDashboard struct {
	Store         domain.Store       `json:"store"`
	AverageRating string             `json:"average_rating"`
	UserRatings   []OwnerRatingEntry `json:"user_ratings"`
}
