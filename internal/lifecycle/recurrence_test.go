package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiorionjames/dewlist/internal/model"
)

func recurringTask(recurrence string, due time.Time, end *time.Time) *model.TaskModel {
	return &model.TaskModel{
		ID:            "task-1",
		Title:         "Recurring",
		OwnerID:       "user-1",
		Status:        model.StatusCompleted,
		DueDate:       &due,
		Recurrence:    recurrence,
		RecurrenceEnd: end,
	}
}

func TestNextOccurrenceIntervals(t *testing.T) {
	due := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		recurrence string
		wantDelta  time.Duration
	}{
		{model.RecurrenceDaily, 24 * time.Hour},
		{model.RecurrenceWeekly, 7 * 24 * time.Hour},
		{model.RecurrenceMonthly, 30 * 24 * time.Hour},
		{model.RecurrenceYearly, 365 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.recurrence, func(t *testing.T) {
			next := NextOccurrence(recurringTask(tt.recurrence, due, nil), now)
			require.NotNil(t, next)
			require.NotNil(t, next.DueDate)
			assert.Equal(t, due.Add(tt.wantDelta), *next.DueDate)
		})
	}
}

func TestNextOccurrenceResetsLifecycleFields(t *testing.T) {
	due := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	task := recurringTask(model.RecurrenceDaily, due, nil)
	task.IsComplete = true
	task.CompletedAt = &now
	task.StartTime = &due
	task.PauseReason = "was paused once"
	task.AssignedTo = "user-9"

	next := NextOccurrence(task, now)
	require.NotNil(t, next)

	assert.NotEqual(t, task.ID, next.ID)
	assert.Equal(t, task.Title, next.Title)
	assert.Equal(t, task.OwnerID, next.OwnerID)
	assert.Equal(t, task.AssignedTo, next.AssignedTo)
	assert.Equal(t, model.StatusNew, next.Status)
	assert.False(t, next.IsComplete)
	assert.Nil(t, next.StartTime)
	assert.Nil(t, next.CompletedAt)
	assert.Empty(t, next.PauseReason)
	assert.Equal(t, now, next.CreatedAt)
}

func TestNextOccurrenceRespectsEnd(t *testing.T) {
	due := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	now := due.Add(time.Hour)

	// 下一期恰好等于 recurrence_end: 仍然生成
	end := due.Add(7 * 24 * time.Hour)
	next := NextOccurrence(recurringTask(model.RecurrenceWeekly, due, &end), now)
	require.NotNil(t, next)
	assert.Equal(t, end, *next.DueDate)

	// 下一期超过 recurrence_end: 序列结束
	tight := due.Add(6 * 24 * time.Hour)
	assert.Nil(t, NextOccurrence(recurringTask(model.RecurrenceWeekly, due, &tight), now))
}

func TestNextOccurrenceGuards(t *testing.T) {
	now := time.Now().UTC()

	// 没有截止日期的任务不生成后继
	noDue := &model.TaskModel{ID: "t", Recurrence: model.RecurrenceDaily}
	assert.Nil(t, NextOccurrence(noDue, now))

	// 不重复的任务不生成后继
	due := now.Add(24 * time.Hour)
	assert.Nil(t, NextOccurrence(recurringTask(model.RecurrenceNone, due, nil), now))
}
