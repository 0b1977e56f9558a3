package service

import (
	"fmt"
	"strings"
	"unicode"
)

// passwordSpecialChars 是密码规则要求的特殊字符集合 (固定集合)。
const passwordSpecialChars = "!@#$%^&*"

// validateNameField 校验姓名/商店名长度在 [20, 60] 之间。
// field 用于拼接提示信息，例如 "Name" / "Store name" / "Owner name"。
func validateNameField(value, field string) error {
	if len(value) < 20 || len(value) > 60 {
		return NewValidationError(fmt.Sprintf("%s must be between 20 and 60 characters", field))
	}
	return nil
}

// validateAddressField 校验地址长度不超过 400。
func validateAddressField(value, field string) error {
	if len(value) > 400 {
		return NewValidationError(fmt.Sprintf("%s cannot exceed 400 characters", field))
	}
	return nil
}

// validatePasswordField 校验密码规则：8-16 位，至少一个大写字母和一个特殊字符。
// 原始规则是一个带前瞻断言的正则，Go 的 RE2 不支持前瞻，这里用显式检查表达同样的规则。
func validatePasswordField(value, field string) error {
	if !passwordMeetsPolicy(value) {
		return NewValidationError(fmt.Sprintf(
			"%s must be 8-16 characters long, include at least one uppercase letter and one special character", field))
	}
	return nil
}

func passwordMeetsPolicy(password string) bool {
	if len(password) < 8 || len(password) > 16 {
		return false
	}
	hasUpper := false
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
			break
		}
	}
	return hasUpper && strings.ContainsAny(password, passwordSpecialChars)
}

// validateRatingValue 校验评分为 [1, 5] 内的整数。0 视为未提供。
func validateRatingValue(rating int) error {
	if rating == 0 {
		return NewValidationError("Please provide a rating")
	}
	if rating < 1 || rating > 5 {
		return NewValidationError("Rating must be between 1 and 5")
	}
	return nil
}

// formatAverage 将平均评分格式化为两位小数的字符串；没有评分时返回 "N/A"。
func formatAverage(avg *float64) string {
	if avg == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *avg)
}
