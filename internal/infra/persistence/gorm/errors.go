// Package gormpersistence 提供 repository 接口的 GORM/MySQL 实现。
package gormpersistence

import "strings"

// isDuplicateEntryError 检查常见的唯一约束错误字符串。
// 覆盖 MySQL 以及测试中可能使用的其他驱动。
func isDuplicateEntryError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || // MySQL
		strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}
