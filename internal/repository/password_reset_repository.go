package repository

import (
	"github.com/tiorionjames/dewlist/internal/model"
	"gorm.io/gorm"
)

// PasswordResetRepository 密码重置令牌仓储接口
type PasswordResetRepository interface {
	Create(reset *model.PasswordResetModel) error
	FindByToken(token string) (*model.PasswordResetModel, error)
	DeleteByUserID(userID string) error
}

// passwordResetRepository 密码重置令牌仓储实现
type passwordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository 创建密码重置令牌仓储
func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

// Create 新建重置令牌
func (r *passwordResetRepository) Create(reset *model.PasswordResetModel) error {
	return r.db.Create(reset).Error
}

// FindByToken 根据令牌查找
func (r *passwordResetRepository) FindByToken(token string) (*model.PasswordResetModel, error) {
	var reset model.PasswordResetModel
	if err := r.db.Where("token = ?", token).First(&reset).Error; err != nil {
		return nil, err
	}
	return &reset, nil
}

// DeleteByUserID 删除某用户的全部重置令牌
func (r *passwordResetRepository) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.PasswordResetModel{}).Error
}
