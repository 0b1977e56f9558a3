package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"store-rating-service/internal/repository"
)

func TestNormalizeSort(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		order     string
		allowed   []string
		wantField string
		wantOrder string
	}{
		{"白名单内字段", "email", "desc", repository.StoreSortFields, "email", "DESC"},
		{"字段大小写不敏感", "Email", "ASC", repository.StoreSortFields, "email", "ASC"},
		{"字段不在白名单回退默认", "password", "asc", repository.UserSortFields, "name", "ASC"},
		{"SQL 注入尝试回退默认", "name; DROP TABLE users", "asc", repository.UserSortFields, "name", "ASC"},
		{"空字段回退默认", "", "", repository.StoreSortFields, "name", "ASC"},
		{"非法方向回退 ASC", "name", "sideways", repository.StoreSortFields, "name", "ASC"},
		{"方向大小写不敏感", "overall_rating", "DeSc", repository.StoreSortFields, "overall_rating", "DESC"},
		{"带空白的输入被修剪", " address ", " desc ", repository.UserStoreSortFields, "address", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotField, gotOrder := repository.NormalizeSort(tt.field, tt.order, tt.allowed, "name")
			assert.Equal(t, tt.wantField, gotField)
			assert.Equal(t, tt.wantOrder, gotOrder)
		})
	}
}
