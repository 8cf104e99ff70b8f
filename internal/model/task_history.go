package model

import (
	"errors"
	"time"
)

// TaskHistoryModel 任务状态变更历史数据模型
// 只追加,写入后不再更新或删除(父任务删除时级联删除)
type TaskHistoryModel struct {
	ID             string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	TaskID         string    `gorm:"type:varchar(64);not null;index" json:"task_id"`
	PreviousStatus string    `gorm:"type:varchar(32)" json:"previous_status"`
	NewStatus      string    `gorm:"type:varchar(32);not null" json:"new_status"`
	ChangedBy      string    `gorm:"type:varchar(64);not null" json:"changed_by"`
	ChangedAt      time.Time `gorm:"not null;index" json:"changed_at"`
	Note           string    `gorm:"type:text" json:"note"`
}

// TableName 指定表名
func (TaskHistoryModel) TableName() string {
	return "task_history"
}

// Validate 验证状态历史模型
func (thm *TaskHistoryModel) Validate() error {
	if thm.ID == "" {
		return errors.New("history ID is required")
	}
	if thm.TaskID == "" {
		return errors.New("task ID is required")
	}
	if thm.NewStatus == "" {
		return errors.New("new status is required")
	}
	if thm.ChangedBy == "" {
		return errors.New("changed_by is required")
	}
	return nil
}
