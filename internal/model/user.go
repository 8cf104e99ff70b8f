package model

import (
	"errors"
	"time"
)

// 用户角色(闭合枚举)
const (
	RoleUser    = "user"    // 普通用户
	RoleManager = "manager" // 经理
	RoleAdmin   = "admin"   // 管理员
)

// UserModel 用户数据模型
// 核心只读取角色,不管理角色分配
type UserModel struct {
	ID             string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Username       string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"type:varchar(255);not null" json:"-"`
	Role           string    `gorm:"type:varchar(20);not null;default:user" json:"role"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// ValidRole 判断角色是否合法
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Validate 验证用户模型
func (um *UserModel) Validate() error {
	if um.ID == "" {
		return errors.New("user ID is required")
	}
	if um.Email == "" {
		return errors.New("email is required")
	}
	if um.HashedPassword == "" {
		return errors.New("hashed password is required")
	}
	if !ValidRole(um.Role) {
		return errors.New("invalid role: " + um.Role)
	}
	return nil
}
