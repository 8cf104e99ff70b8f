package model

import (
	"errors"
	"time"
)

// PasswordResetModel 密码重置令牌数据模型
type PasswordResetModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID    string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Token     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// TableName 指定表名
func (PasswordResetModel) TableName() string {
	return "password_resets"
}

// Expired 判断令牌是否已过期
func (prm *PasswordResetModel) Expired(now time.Time) bool {
	return now.After(prm.ExpiresAt)
}

// Validate 验证密码重置模型
func (prm *PasswordResetModel) Validate() error {
	if prm.ID == "" {
		return errors.New("reset ID is required")
	}
	if prm.UserID == "" {
		return errors.New("user ID is required")
	}
	if prm.Token == "" {
		return errors.New("token is required")
	}
	if prm.ExpiresAt.IsZero() {
		return errors.New("expires_at is required")
	}
	return nil
}
