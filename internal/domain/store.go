package domain

import "time"

// Store 表示一家可被评分的商店。
// 商店只能由管理员创建，并且创建时会同时创建其所属的 Store Owner 用户。
type Store struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(60);uniqueIndex:idx_stores_name;not null" json:"name"`
	Email     string    `gorm:"type:varchar(191);uniqueIndex:idx_stores_email;not null" json:"email"`
	Address   string    `gorm:"type:varchar(400)" json:"address"`
	OwnerID   uint      `gorm:"index;not null" json:"owner_id"` // 外键关联到 User.ID (角色必须是 Store Owner)
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
