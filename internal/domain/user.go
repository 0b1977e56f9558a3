// Package domain 定义了应用程序中使用的数据结构 (数据库模型)。
package domain

import "time"

// 系统中定义的三种用户角色。角色以字符串形式存储在 users.role 列中。
const (
	RoleNormalUser  = "Normal User"
	RoleSystemAdmin = "System Administrator"
	RoleStoreOwner  = "Store Owner"
)

// AllowedRoles 列出所有合法的角色取值，用于管理员创建用户时的角色校验。
var AllowedRoles = []string{RoleNormalUser, RoleSystemAdmin, RoleStoreOwner}

// IsValidRole 判断给定的角色字符串是否是已定义的角色之一。
func IsValidRole(role string) bool {
	for _, r := range AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User 表示应用程序中的用户。
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(60);not null" json:"name"`
	Email     string    `gorm:"type:varchar(191);uniqueIndex:idx_users_email;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"` // 存储的是 bcrypt 哈希，绝不返回给客户端
	Address   string    `gorm:"type:varchar(400)" json:"address"`
	Role      string    `gorm:"type:varchar(32);not null;default:'Normal User'" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
