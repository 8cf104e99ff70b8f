package repository

import (
	"github.com/tiorionjames/dewlist/internal/model"
	"gorm.io/gorm"
)

// TaskHistoryRepository 任务状态历史仓储接口
// 只追加,不提供更新方法;删除仅用于父任务的级联删除
type TaskHistoryRepository interface {
	Append(history *model.TaskHistoryModel) error
	FindByTaskID(taskID string) ([]*model.TaskHistoryModel, error)
	DeleteByTaskID(taskID string) error
}

// taskHistoryRepository 任务状态历史仓储实现
type taskHistoryRepository struct {
	db *gorm.DB
}

// NewTaskHistoryRepository 创建任务状态历史仓储
func NewTaskHistoryRepository(db *gorm.DB) TaskHistoryRepository {
	return &taskHistoryRepository{db: db}
}

// Append 追加一条状态变更记录
func (r *taskHistoryRepository) Append(history *model.TaskHistoryModel) error {
	if err := history.Validate(); err != nil {
		return err
	}
	return r.db.Create(history).Error
}

// FindByTaskID 按任务 ID 查找历史,按变更时间升序
func (r *taskHistoryRepository) FindByTaskID(taskID string) ([]*model.TaskHistoryModel, error) {
	var histories []*model.TaskHistoryModel
	err := r.db.Where("task_id = ?", taskID).Order("changed_at ASC").Find(&histories).Error
	return histories, err
}

// DeleteByTaskID 级联删除任务的全部历史
func (r *taskHistoryRepository) DeleteByTaskID(taskID string) error {
	return r.db.Where("task_id = ?", taskID).Delete(&model.TaskHistoryModel{}).Error
}
