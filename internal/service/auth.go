package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"store-rating-service/internal/domain"
	"store-rating-service/internal/repository"
)

// AuthService 负责注册、登录、改密等认证相关的业务逻辑。
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte        // 签名密钥的字节形式，启动时注入
	jwtExpiry time.Duration // JWT 过期时间
}

// NewAuthService 创建 AuthService 实例。
// jwtSecretKey 应从安全配置中获取。
// jwtExpiryMinutes 定义 token 过期的分钟数，默认 60 (原系统登录 token 一小时过期)。
func NewAuthService(userRepo repository.UserRepository, jwtSecretKey string, jwtExpiryMinutes int) (*AuthService, error) {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if jwtSecretKey == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if jwtExpiryMinutes <= 0 {
		jwtExpiryMinutes = 60
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecretKey),
		jwtExpiry: time.Duration(jwtExpiryMinutes) * time.Minute,
	}, nil
}

// Register 处理普通用户注册：校验字段、哈希密码、落库并签发 token。
// 新用户的角色固定为 Normal User。
func (s *AuthService) Register(ctx context.Context, name, email, address, password string) (*domain.User, string, error) {
	logCtx := logrus.WithFields(logrus.Fields{"email": email})

	// 1. 字段校验
	if name == "" || email == "" || address == "" || password == "" {
		return nil, "", NewValidationError("Please enter all fields")
	}
	if err := validateNameField(name, "Name"); err != nil {
		return nil, "", err
	}
	if err := validateAddressField(address, "Address"); err != nil {
		return nil, "", err
	}
	if err := validatePasswordField(password, "Password"); err != nil {
		return nil, "", err
	}

	// 2. 邮箱唯一性检查
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		logCtx.Warn("Registration failed: email already exists")
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		logCtx.WithError(err).Error("Database error checking email during registration")
		return nil, "", ErrInternalServer
	}

	// 3. 哈希密码
	hashedPassword, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, "", ErrInternalServer
	}

	// 4. 保存用户
	user := &domain.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Address:  address,
		Role:     domain.RoleNormalUser,
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		// 唯一约束兜底：并发注册同一邮箱时检查可能都通过，由约束挡住
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Registration failed: duplicate entry on save")
			return nil, "", ErrEmailTaken
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, "", ErrInternalServer
	}

	// 5. 签发 token
	token, err := s.generateJWT(user.ID, user.Role)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate JWT token during registration")
		return nil, "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	user.Password = "" // 清除密码哈希再返回
	return user, token, nil
}

// Login 处理用户登录，成功时返回 token 和用户角色。
// 邮箱不存在和密码错误统一返回 ErrInvalidCredentials。
func (s *AuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	logCtx := logrus.WithField("email", email)

	if email == "" || password == "" {
		return "", "", NewValidationError("Please enter all fields")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login attempt failed: user not found")
			return "", "", ErrInvalidCredentials
		}
		logCtx.WithError(err).Error("Database error during login")
		return "", "", ErrInternalServer
	}

	if !checkPassword(password, user.Password) {
		logCtx.Warn("Login attempt failed: invalid password")
		return "", "", ErrInvalidCredentials
	}

	token, err := s.generateJWT(user.ID, user.Role)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate JWT token during login")
		return "", "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	return token, user.Role, nil
}

// UpdatePassword 修改已认证用户的密码：验证旧密码、校验新密码规则、重新哈希并落库。
func (s *AuthService) UpdatePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	logCtx := logrus.WithField("user_id", userID)

	if oldPassword == "" || newPassword == "" {
		return NewValidationError("Please enter both old and new passwords")
	}
	if err := validatePasswordField(newPassword, "New password"); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		logCtx.WithError(err).Error("Database error fetching user for password update")
		return ErrInternalServer
	}

	if !checkPassword(oldPassword, user.Password) {
		logCtx.Warn("Password update failed: old password incorrect")
		return ErrOldPasswordIncorrect
	}

	hashedPassword, err := hashPassword(newPassword)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash new password")
		return ErrInternalServer
	}
	user.Password = hashedPassword
	if err := s.userRepo.Save(ctx, user); err != nil {
		logCtx.WithError(err).Error("Database error saving new password")
		return ErrInternalServer
	}

	logCtx.Info("Password updated successfully")
	return nil
}

// GetUser 返回已认证用户的公开信息 (不含密码哈希)。
func (s *AuthService) GetUser(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Database error fetching user")
		return nil, ErrInternalServer
	}
	user.Password = ""
	return user, nil
}

// --- 私有辅助函数 ---

// hashPassword 使用 bcrypt 对密码进行哈希处理 (cost 10，与原系统一致)
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// checkPassword 验证提供的密码是否与存储的哈希匹配
func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// generateJWT 为指定用户签发携带 {user_id, role} 声明的 HS256 token
func (s *AuthService) generateJWT(userID uint, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
