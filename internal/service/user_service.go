package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tiorionjames/dewlist/internal/auth"
	"github.com/tiorionjames/dewlist/internal/lifecycle"
	"github.com/tiorionjames/dewlist/internal/model"
	"github.com/tiorionjames/dewlist/internal/repository"
	"gorm.io/gorm"
)

// UserService 用户服务接口
type UserService interface {
	Register(req *RegisterRequest) (*model.UserModel, error)
	Login(email, password string) (string, *model.UserModel, error)
	Get(id string) (*model.UserModel, error)
	ForgotPassword(email string) error
	ResetPassword(token, newPassword string) error
}

// RegisterRequest 注册请求
// @Description 用户注册的请求参数
type RegisterRequest struct {
	Username string `json:"username" example:"alice" binding:"required"`           // 用户名
	Email    string `json:"email" example:"alice@example.com" binding:"required,email"` // 邮箱
	Password string `json:"password" example:"s3cret" binding:"required,min=8"`    // 密码
}

// LoginRequest 登录请求
// @Description 用户登录的请求参数
type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com" binding:"required,email"` // 邮箱
	Password string `json:"password" example:"s3cret" binding:"required"`               // 密码
}

// ForgotPasswordRequest 忘记密码请求
// @Description 申请密码重置链接的请求参数
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"alice@example.com" binding:"required,email"` // 邮箱
}

// ResetPasswordRequest 重置密码请求
// @Description 使用重置令牌设置新密码的请求参数
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`                  // 重置令牌
	NewPassword string `json:"new_password" binding:"required,min=8"` // 新密码
}

// userService 用户服务实现
type userService struct {
	db            *gorm.DB
	tokens        *auth.TokenManager
	notifier      Notifier
	resetTokenTTL time.Duration
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB, tokens *auth.TokenManager, notifier Notifier, resetTokenTTL time.Duration) UserService {
	return &userService{
		db:            db,
		tokens:        tokens,
		notifier:      notifier,
		resetTokenTTL: resetTokenTTL,
	}
}

// Register 注册用户
// 邮箱已注册时返回 Conflict
func (s *userService) Register(req *RegisterRequest) (*model.UserModel, error) {
	users := repository.NewUserRepository(s.db)
	if _, err := users.FindByEmail(req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", lifecycle.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", lifecycle.ErrPersistence, err)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.UserModel{
		ID:             uuid.New().String(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
		Role:           model.RoleUser,
		CreatedAt:      time.Now().UTC(),
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", lifecycle.ErrValidation, err)
	}
	if err := users.Create(user); err != nil {
		return nil, fmt.Errorf("%w: %v", lifecycle.ErrPersistence, err)
	}
	return user, nil
}

// Login 登录
// 凭据校验通过后签发访问令牌;已知用户的失败尝试写入审计日志(task_id 为空)
func (s *userService) Login(email, password string) (string, *model.UserModel, error) {
	user, err := repository.NewUserRepository(s.db).FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", lifecycle.ErrForbidden)
		}
		return "", nil, fmt.Errorf("%w: %v", lifecycle.ErrPersistence, err)
	}

	if !auth.VerifyPassword(password, user.HashedPassword) {
		s.recordAuthEvent(user.ID, "Failed login attempt")
		return "", nil, fmt.Errorf("%w: invalid credentials", lifecycle.ErrForbidden)
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}

// Get 获取用户信息
func (s *userService) Get(id string) (*model.UserModel, error) {
	user, err := repository.NewUserRepository(s.db).FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s not found", lifecycle.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", lifecycle.ErrPersistence, err)
	}
	return user, nil
}

// ForgotPassword 申请密码重置
// 生成一次性令牌并通过通知协作方发送,核心不等待发送结果
func (s *userService) ForgotPassword(email string) error {
	user, err := repository.NewUserRepository(s.db).FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user not found", lifecycle.ErrNotFound)
		}
		return fmt.Errorf("%w: %v", lifecycle.ErrPersistence, err)
	}

	now := time.Now().UTC()
	reset := &model.PasswordResetModel{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: now.Add(s.resetTokenTTL),
		CreatedAt: now,
	}
	if err := repository.NewPasswordResetRepository(s.db).Create(reset); err != nil {
		return fmt.Errorf("%w: %v", lifecycle.ErrPersistence, err)
	}

	go s.notifier.SendPasswordReset(user.Email, reset.Token)
	return nil
}

// ResetPassword 使用重置令牌设置新密码
// 令牌一次性有效,使用后该用户的全部令牌作废
func (s *userService) ResetPassword(token, newPassword string) error {
	resets := repository.NewPasswordResetRepository(s.db)
	reset, err := resets.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invalid reset token", lifecycle.ErrNotFound)
		}
		return fmt.Errorf("%w: %v", lifecycle.ErrPersistence, err)
	}
	if reset.Expired(time.Now().UTC()) {
		return fmt.Errorf("%w: reset token expired", lifecycle.ErrForbidden)
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		user, err := users.FindByID(reset.UserID)
		if err != nil {
			return fmt.Errorf("%w: %v", lifecycle.ErrPersistence, err)
		}
		user.HashedPassword = hashed
		if err := users.Save(user); err != nil {
			return fmt.Errorf("%w: %v", lifecycle.ErrPersistence, err)
		}
		if err := repository.NewPasswordResetRepository(tx).DeleteByUserID(user.ID); err != nil {
			return fmt.Errorf("%w: %v", lifecycle.ErrPersistence, err)
		}
		return nil
	})
}

// recordAuthEvent 记录认证相关审计事件,best effort
func (s *userService) recordAuthEvent(userID, action string) {
	log := &model.AuditLogModel{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Target:    "auth",
		CreatedAt: time.Now().UTC(),
	}
	_ = repository.NewAuditLogRepository(s.db).Append(log)
}
