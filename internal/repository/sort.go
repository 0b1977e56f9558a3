package repository

import "strings"

// 各列表接口允许排序的字段白名单。
// 排序字段和方向都来自用户可控的查询参数，绝不能直接拼接进 SQL，
// 必须先经过 NormalizeSort 归一化。
var (
	StoreSortFields     = []string{"name", "email", "address", "overall_rating"}
	UserSortFields      = []string{"name", "email", "address", "role"}
	UserStoreSortFields = []string{"name", "address", "overall_rating"}
)

// NormalizeSort 将用户提供的排序字段和方向归一化：
// 字段不在白名单内时静默回退到 defaultField，方向不是 ASC/DESC 时回退到 ASC。
// 返回值可以安全地拼接进 ORDER BY 子句。
func NormalizeSort(field, order string, allowed []string, defaultField string) (string, string) {
	sortField := defaultField
	f := strings.ToLower(strings.TrimSpace(field))
	for _, a := range allowed {
		if f == a {
			sortField = a
			break
		}
	}

	sortOrder := "ASC"
	if strings.ToUpper(strings.TrimSpace(order)) == "DESC" {
		sortOrder = "DESC"
	}
	return sortField, sortOrder
}
