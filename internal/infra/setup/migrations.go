package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MigrateDB handles all database migrations using the provided GORM DB instance.
// 使用自定义 SQL 建表：外键、VARCHAR 长度和 (store_id, user_id) 唯一索引
// 都需要精确控制，AutoMigrate 不能完全表达。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	if err := createUsersTable(db); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	if err := createStoresTable(db); err != nil {
		return fmt.Errorf("failed to migrate stores table: %w", err)
	}
	if err := createRatingsTable(db); err != nil {
		return fmt.Errorf("failed to migrate ratings table: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

func createUsersTable(db *gorm.DB) error {
	sql := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(60) NOT NULL,
		email VARCHAR(191) NOT NULL,
		password TEXT NOT NULL,
		address VARCHAR(400),
		role VARCHAR(32) NOT NULL DEFAULT 'Normal User',
		created_at DATETIME(3) DEFAULT CURRENT_TIMESTAMP(3),
		updated_at DATETIME(3) DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
		UNIQUE INDEX idx_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create users table: %v", err)
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func createStoresTable(db *gorm.DB) error {
	sql := `
	CREATE TABLE IF NOT EXISTS stores (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(60) NOT NULL,
		email VARCHAR(191) NOT NULL,
		address VARCHAR(400),
		owner_id BIGINT UNSIGNED NOT NULL,
		created_at DATETIME(3) DEFAULT CURRENT_TIMESTAMP(3),
		updated_at DATETIME(3) DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
		UNIQUE INDEX idx_stores_name (name),
		UNIQUE INDEX idx_stores_email (email),
		INDEX idx_stores_owner_id (owner_id),
		CONSTRAINT fk_stores_owner FOREIGN KEY (owner_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create stores table: %v", err)
		return fmt.Errorf("failed to create stores table: %w", err)
	}
	return nil
}

func createRatingsTable(db *gorm.DB) error {
	// (store_id, user_id) 唯一索引是评分 upsert 的并发安全基础：
	// 插入路径撞到该约束时回退为更新，同一用户不会留下重复行。
	sql := `
	CREATE TABLE IF NOT EXISTS ratings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		store_id BIGINT UNSIGNED NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		rating TINYINT NOT NULL,
		created_at DATETIME(3) DEFAULT CURRENT_TIMESTAMP(3),
		updated_at DATETIME(3) DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
		UNIQUE INDEX idx_ratings_store_user (store_id, user_id),
		INDEX idx_ratings_user_id (user_id),
		CONSTRAINT fk_ratings_store FOREIGN KEY (store_id) REFERENCES stores (id),
		CONSTRAINT fk_ratings_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create ratings table: %v", err)
		return fmt.Errorf("failed to create ratings table: %w", err)
	}
	return nil
}
