package model

import (
	"errors"
	"time"
)

// AuditLogModel 审计日志数据模型
// 只追加,记录每次授权通过的操作以及敏感操作的拒绝事件
type AuditLogModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID    string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Action    string    `gorm:"type:varchar(64);not null;index" json:"action"` // Created Task/Approved Task/Unauthorized access attempt 等
	Target    string    `gorm:"type:varchar(255)" json:"target"`
	TaskID    *string   `gorm:"type:varchar(64);index" json:"task_id"` // 非任务事件(如登录失败)为空
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// TableName 指定表名
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// Validate 验证审计日志模型
func (alm *AuditLogModel) Validate() error {
	if alm.ID == "" {
		return errors.New("audit log ID is required")
	}
	if alm.UserID == "" {
		return errors.New("user ID is required")
	}
	if alm.Action == "" {
		return errors.New("action is required")
	}
	return nil
}
