package repository

import (
	"github.com/tiorionjames/dewlist/internal/model"
	"gorm.io/gorm"
)

// AuditLogRepository 审计日志仓储接口
// 只追加,写入后不再更新或删除
type AuditLogRepository interface {
	Append(log *model.AuditLogModel) error
	FindByFilter(filter *AuditLogFilter) ([]*model.AuditLogModel, error)
}

// AuditLogFilter 审计日志查询过滤器
type AuditLogFilter struct {
	UserID *string
	TaskID *string
}

// auditLogRepository 审计日志仓储实现
type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository 创建审计日志仓储
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

// Append 追加一条审计记录
func (r *auditLogRepository) Append(log *model.AuditLogModel) error {
	if err := log.Validate(); err != nil {
		return err
	}
	return r.db.Create(log).Error
}

// FindByFilter 根据过滤器查找审计日志,按创建时间降序
func (r *auditLogRepository) FindByFilter(filter *AuditLogFilter) ([]*model.AuditLogModel, error) {
	var logs []*model.AuditLogModel
	query := r.db.Model(&model.AuditLogModel{})

	if filter != nil {
		if filter.UserID != nil {
			query = query.Where("user_id = ?", *filter.UserID)
		}
		if filter.TaskID != nil {
			query = query.Where("task_id = ?", *filter.TaskID)
		}
	}

	err := query.Order("created_at DESC").Find(&logs).Error
	return logs, err
}
