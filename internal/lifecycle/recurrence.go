package lifecycle

import (
	"time"

	"github.com/google/uuid"
	"github.com/tiorionjames/dewlist/internal/model"
)

// recurrenceIntervals 重复周期对应的固定间隔
// monthly/yearly 取固定 30/365 天,刻意不做日历精确计算
var recurrenceIntervals = map[string]time.Duration{
	model.RecurrenceDaily:   24 * time.Hour,
	model.RecurrenceWeekly:  7 * 24 * time.Hour,
	model.RecurrenceMonthly: 30 * 24 * time.Hour,
	model.RecurrenceYearly:  365 * 24 * time.Hour,
}

// NextOccurrence 计算重复任务完成时的下一期实例
// 下一期截止日期超过 recurrence_end 时返回 nil,序列结束
// 新实例复制标题/描述/重复设置/归属,生命周期字段全部复位
func NextOccurrence(task *model.TaskModel, now time.Time) *model.TaskModel {
	if task.DueDate == nil {
		return nil
	}

	interval, ok := recurrenceIntervals[task.Recurrence]
	if !ok {
		return nil
	}

	candidate := task.DueDate.Add(interval)
	if task.RecurrenceEnd != nil && candidate.After(*task.RecurrenceEnd) {
		return nil
	}

	return &model.TaskModel{
		ID:            uuid.New().String(),
		Title:         task.Title,
		Description:   task.Description,
		OwnerID:       task.OwnerID,
		AssignedTo:    task.AssignedTo,
		Status:        model.StatusNew,
		DueDate:       &candidate,
		Recurrence:    task.Recurrence,
		RecurrenceEnd: task.RecurrenceEnd,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
