package service

import "errors"

// 业务层错误。Handler 层通过 errors.Is 将它们映射到 HTTP 状态码，
// 数据库驱动的原始错误绝不直接暴露给客户端。
var (
	// ErrInvalidCredentials 登录失败：邮箱不存在和密码错误统一返回这个错误，
	// 避免通过响应差异枚举已注册账号。
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken 注册或创建用户时邮箱已被占用
	ErrEmailTaken = errors.New("user already exists")
	// ErrOwnerEmailTaken 创建商店时店主邮箱已被其他用户占用
	ErrOwnerEmailTaken = errors.New("user with this owner email already exists")
	// ErrStoreExists 同名或同邮箱的商店已存在
	ErrStoreExists = errors.New("store with this email or name already exists")
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrStoreNotFound 商店不存在
	ErrStoreNotFound = errors.New("store not found")
	// ErrNoStoresForOwner 店主名下没有任何商店
	ErrNoStoresForOwner = errors.New("no stores found for this owner")
	// ErrOldPasswordIncorrect 修改密码时旧密码验证失败
	ErrOldPasswordIncorrect = errors.New("old password is incorrect")
	// ErrInternalServer 未预期的内部错误，细节只记录在服务端日志
	ErrInternalServer = errors.New("internal server error")
)

// ValidationError 表示输入校验失败，Msg 是可直接返回给客户端的提示。
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError 创建一个带客户端提示信息的校验错误。
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}
