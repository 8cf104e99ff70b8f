package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiorionjames/dewlist/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.TaskModel{}, &model.TaskHistoryModel{}, &model.AuditLogModel{}))
	return db
}

func seedTask(t *testing.T, repo TaskRepository, title, ownerID string, due *time.Time, complete bool) *model.TaskModel {
	t.Helper()

	task := &model.TaskModel{
		ID:         uuid.New().String(),
		Title:      title,
		OwnerID:    ownerID,
		Status:     model.StatusNew,
		IsComplete: complete,
		DueDate:    due,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.Create(task))
	return task
}

func TestTaskFilterByActor(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	seedTask(t, repo, "mine", "alice", nil, false)
	seedTask(t, repo, "theirs", "bob", nil, false)

	// 指派给 alice 的他人任务也算 alice 的
	assigned := seedTask(t, repo, "assigned", "bob", nil, false)
	assigned.AssignedTo = "alice"
	require.NoError(t, repo.Save(assigned))

	actor := "alice"
	tasks, err := repo.FindByFilter(&TaskFilter{ActorID: &actor})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestTaskFilterByDue(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	thisMorning := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)
	nextWeek := now.Add(7 * 24 * time.Hour)

	seedTask(t, repo, "late", "alice", &yesterday, false)
	seedTask(t, repo, "late but done", "alice", &yesterday, true)
	seedTask(t, repo, "today", "alice", &thisMorning, false)
	seedTask(t, repo, "future", "alice", &nextWeek, false)
	seedTask(t, repo, "no due date", "alice", nil, false)

	due := "overdue"
	tasks, err := repo.FindByFilter(&TaskFilter{Due: &due, Now: now})
	require.NoError(t, err)
	// 已完成的逾期任务不算逾期
	require.Len(t, tasks, 2)
	titles := []string{tasks[0].Title, tasks[1].Title}
	assert.Contains(t, titles, "late")
	assert.Contains(t, titles, "today")

	due = "today"
	tasks, err = repo.FindByFilter(&TaskFilter{Due: &due, Now: now})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "today", tasks[0].Title)

	due = "upcoming"
	tasks, err = repo.FindByFilter(&TaskFilter{Due: &due, Now: now})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "future", tasks[0].Title)
}

func TestTaskFilterByStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	pending := seedTask(t, repo, "pending", "alice", nil, false)
	pending.Status = model.StatusPendingApproval
	require.NoError(t, repo.Save(pending))
	seedTask(t, repo, "fresh", "alice", nil, false)

	status := model.StatusPendingApproval
	tasks, err := repo.FindByFilter(&TaskFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "pending", tasks[0].Title)
}

func TestTaskHistoryAppendAndOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskHistoryRepository(db)

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, status := range []string{model.StatusNew, model.StatusInProgress, model.StatusPaused} {
		prev := ""
		if i > 0 {
			prev = model.StatusNew
		}
		err := repo.Append(&model.TaskHistoryModel{
			ID:             uuid.New().String(),
			TaskID:         "task-1",
			PreviousStatus: prev,
			NewStatus:      status,
			ChangedBy:      "alice",
			ChangedAt:      base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	histories, err := repo.FindByTaskID("task-1")
	require.NoError(t, err)
	require.Len(t, histories, 3)
	// 升序返回
	assert.Equal(t, model.StatusNew, histories[0].NewStatus)
	assert.Equal(t, model.StatusPaused, histories[2].NewStatus)

	// 校验失败的记录不落库
	err = repo.Append(&model.TaskHistoryModel{ID: uuid.New().String()})
	assert.Error(t, err)

	// 级联删除
	require.NoError(t, repo.DeleteByTaskID("task-1"))
	histories, err = repo.FindByTaskID("task-1")
	require.NoError(t, err)
	assert.Empty(t, histories)
}

func TestAuditLogFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuditLogRepository(db)

	taskID := "task-1"
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Append(&model.AuditLogModel{
		ID: uuid.New().String(), UserID: "alice", Action: "Created Task", TaskID: &taskID, CreatedAt: base,
	}))
	require.NoError(t, repo.Append(&model.AuditLogModel{
		ID: uuid.New().String(), UserID: "bob", Action: "Failed login attempt", CreatedAt: base.Add(time.Minute),
	}))

	logs, err := repo.FindByFilter(&AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	// 降序: 最新在前
	assert.Equal(t, "Failed login attempt", logs[0].Action)

	logs, err = repo.FindByFilter(&AuditLogFilter{TaskID: &taskID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Created Task", logs[0].Action)

	user := "bob"
	logs, err = repo.FindByFilter(&AuditLogFilter{UserID: &user})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].TaskID)
}
