package model

import (
	"errors"
	"strings"
	"time"
)

// 任务生命周期状态(闭合枚举,持久化边界拒绝未知值)
const (
	StatusNew             = "new"              // 新建
	StatusInProgress      = "in_progress"      // 进行中
	StatusPaused          = "paused"           // 已暂停
	StatusCompleted       = "completed"        // 已完成
	StatusPendingApproval = "pending_approval" // 待审批
	StatusApproved        = "approved"         // 已审批
)

// 重复周期(闭合枚举)
const (
	RecurrenceNone    = ""        // 不重复
	RecurrenceDaily   = "daily"   // 每天
	RecurrenceWeekly  = "weekly"  // 每周
	RecurrenceMonthly = "monthly" // 每月(固定 30 天)
	RecurrenceYearly  = "yearly"  // 每年(固定 365 天)
)

// TaskModel 任务数据模型
type TaskModel struct {
	ID            string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	OwnerID       string     `gorm:"type:varchar(64);not null;index" json:"owner_id"` // 创建人 ID
	AssignedTo    string     `gorm:"type:varchar(64);index" json:"assigned_to"`       // 执行人 ID,为空时视同创建人
	Status        string     `gorm:"type:varchar(32);not null;index" json:"status"`   // 任务状态
	IsComplete    bool       `gorm:"not null;default:false" json:"is_complete"`
	DueDate       *time.Time `gorm:"index" json:"due_date"`
	Recurrence    string     `gorm:"type:varchar(16)" json:"recurrence"`
	RecurrenceEnd *time.Time `json:"recurrence_end"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	PausedAt      *time.Time `json:"paused_at"`
	PauseReason   string     `gorm:"type:text" json:"pause_reason"`
	ResumedAt     *time.Time `json:"resumed_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;index" json:"updated_at"`
}

// TableName 指定表名
func (TaskModel) TableName() string {
	return "tasks"
}

// ValidStatus 判断状态值是否合法
func ValidStatus(status string) bool {
	switch status {
	case StatusNew, StatusInProgress, StatusPaused, StatusCompleted,
		StatusPendingApproval, StatusApproved:
		return true
	}
	return false
}

// ValidRecurrence 判断重复周期是否合法
func ValidRecurrence(recurrence string) bool {
	switch recurrence {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly,
		RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// ActorID 返回自助操作(start/pause/resume/end/complete)的责任人 ID
// 任务指派了执行人时以执行人为准,否则回落到创建人
func (tm *TaskModel) ActorID() string {
	if tm.AssignedTo != "" {
		return tm.AssignedTo
	}
	return tm.OwnerID
}

// Active 判断任务是否处于活跃状态(尚未进入审批或完成)
func (tm *TaskModel) Active() bool {
	switch tm.Status {
	case StatusNew, StatusInProgress, StatusPaused:
		return true
	}
	return false
}

// Validate 验证任务模型
func (tm *TaskModel) Validate() error {
	if tm.ID == "" {
		return errors.New("task ID is required")
	}
	if strings.TrimSpace(tm.Title) == "" {
		return errors.New("task title is required")
	}
	if tm.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	if !ValidStatus(tm.Status) {
		return errors.New("invalid task status: " + tm.Status)
	}
	if !ValidRecurrence(tm.Recurrence) {
		return errors.New("invalid recurrence: " + tm.Recurrence)
	}
	return nil
}
