package lifecycle

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tiorionjames/dewlist/internal/authz"
	"github.com/tiorionjames/dewlist/internal/model"
	"github.com/tiorionjames/dewlist/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Engine 任务生命周期引擎
// 持有显式注入的数据库句柄,每个操作在单个事务内完成
// 任务更新、历史记录、审计记录与重复实例生成要么全部提交要么全部回滚
type Engine struct {
	db  *gorm.DB
	now func() time.Time
}

// NewEngine 创建生命周期引擎
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

// NewEngineWithClock 创建使用指定时钟的生命周期引擎(测试用)
func NewEngineWithClock(db *gorm.DB, now func() time.Time) *Engine {
	return &Engine{db: db, now: now}
}

// CreateTaskInput 创建任务输入
type CreateTaskInput struct {
	Title         string
	Description   string
	AssignedTo    string
	DueDate       *time.Time
	Recurrence    string
	RecurrenceEnd *time.Time
}

// UpdateTaskInput 更新任务输入
type UpdateTaskInput struct {
	Title       string
	Description string
}

// toUTC 把时间归一为 UTC 无偏移时刻
// 所有时间戳在进入核心前统一到 UTC
func toUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// transitionFunc 状态转换函数
// 校验源状态并就地修改任务,返回写入历史的说明文字
// 需要在同一事务内产生附加行(如重复实例)时使用 tx
type transitionFunc func(tx *gorm.DB, task *model.TaskModel, now time.Time) (string, error)

// Create 创建任务
func (e *Engine) Create(p authz.Principal, in *CreateTaskInput) (*model.TaskModel, error) {
	if err := e.authorize(p, authz.ActionCreate, nil, nil); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, validationf("title must not be empty")
	}
	if !model.ValidRecurrence(in.Recurrence) {
		return nil, validationf("unknown recurrence %q", in.Recurrence)
	}

	now := e.now().UTC()
	task := &model.TaskModel{
		ID:            uuid.New().String(),
		Title:         in.Title,
		Description:   in.Description,
		OwnerID:       p.ID,
		AssignedTo:    in.AssignedTo,
		Status:        model.StatusNew,
		DueDate:       toUTC(in.DueDate),
		Recurrence:    in.Recurrence,
		RecurrenceEnd: toUTC(in.RecurrenceEnd),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := task.Validate(); err != nil {
		return nil, validationf("%v", err)
	}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewTaskRepository(tx).Create(task); err != nil {
			return persistencef(err)
		}
		if err := e.appendHistory(tx, task, "", model.StatusNew, p.ID, now, "Task created"); err != nil {
			return err
		}
		return e.appendAudit(tx, p.ID, "Created Task", task.Title, &task.ID, now)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Get 获取任务详情
// 无权可见的任务与不存在的任务返回同样的 NotFound,避免泄露存在性
func (e *Engine) Get(p authz.Principal, id string) (*model.TaskModel, error) {
	task, err := e.loadTask(e.db, id)
	if err != nil {
		return nil, err
	}
	if d := authz.Authorize(p, authz.ActionRead, task); !d.Allowed {
		return nil, notFoundf("task %s not found", id)
	}
	return task, nil
}

// List 查询任务列表
// 普通用户只能看到自己的任务;due 取 overdue/today/upcoming
func (e *Engine) List(p authz.Principal, due string) ([]*model.TaskModel, error) {
	filter := &repository.TaskFilter{Now: e.now().UTC()}
	if due != "" {
		filter.Due = &due
	}
	if d := authz.Authorize(p, authz.ActionRead, nil); !d.Allowed {
		// selfOnly 角色限定到本人任务
		filter.ActorID = &p.ID
	}

	tasks, err := repository.NewTaskRepository(e.db).FindByFilter(filter)
	if err != nil {
		return nil, persistencef(err)
	}
	return tasks, nil
}

// PendingApproval 查询待审批任务(经理/管理员)
func (e *Engine) PendingApproval(p authz.Principal) ([]*model.TaskModel, error) {
	if err := e.authorize(p, authz.ActionApprove, nil, nil); err != nil {
		return nil, err
	}
	status := model.StatusPendingApproval
	tasks, err := repository.NewTaskRepository(e.db).FindByFilter(&repository.TaskFilter{Status: &status, Now: e.now().UTC()})
	if err != nil {
		return nil, persistencef(err)
	}
	return tasks, nil
}

// Update 更新任务标题与描述(经理/管理员)
func (e *Engine) Update(p authz.Principal, id string, in *UpdateTaskInput) (*model.TaskModel, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, validationf("title must not be empty")
	}

	current, err := e.loadTask(e.db, id)
	if err != nil {
		return nil, err
	}
	if err := e.authorize(p, authz.ActionUpdate, current, &id); err != nil {
		return nil, err
	}

	now := e.now().UTC()
	var out *model.TaskModel
	err = e.db.Transaction(func(tx *gorm.DB) error {
		task, err := e.lockTask(tx, id)
		if err != nil {
			return err
		}

		task.Title = in.Title
		task.Description = in.Description
		task.UpdatedAt = now
		if err := repository.NewTaskRepository(tx).Save(task); err != nil {
			return persistencef(err)
		}
		if err := e.appendAudit(tx, p.ID, "Edited Task", "#"+id, &id, now); err != nil {
			return err
		}
		out = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete 删除任务(仅管理员),级联删除其历史记录
func (e *Engine) Delete(p authz.Principal, id string) error {
	task, err := e.loadTask(e.db, id)
	if err != nil {
		return err
	}
	if err := e.authorize(p, authz.ActionDelete, task, &id); err != nil {
		return err
	}

	now := e.now().UTC()
	return e.db.Transaction(func(tx *gorm.DB) error {
		if _, err := e.lockTask(tx, id); err != nil {
			return err
		}

		if err := repository.NewTaskHistoryRepository(tx).DeleteByTaskID(id); err != nil {
			return persistencef(err)
		}
		if err := repository.NewTaskRepository(tx).Delete(id); err != nil {
			return persistencef(err)
		}
		return e.appendAudit(tx, p.ID, "Deleted Task", "#"+id, &id, now)
	})
}

// Start 开始任务
// 仅允许从 new 或 paused 进入 in_progress;从 paused 开始同时写 resumed_at
func (e *Engine) Start(p authz.Principal, id string) (*model.TaskModel, error) {
	return e.transition(p, authz.ActionStart, id, "Started Task",
		func(tx *gorm.DB, task *model.TaskModel, now time.Time) (string, error) {
			switch task.Status {
			case model.StatusNew:
			case model.StatusPaused:
				task.ResumedAt = &now
			default:
				return "", conflictf("cannot start task in status %s", task.Status)
			}
			task.StartTime = &now
			task.Status = model.StatusInProgress
			return "User started task", nil
		})
}

// Pause 暂停任务,必须给出非空原因
// 重复 pause/resume 合法,每次暂停覆盖 paused_at 与 pause_reason,历史保留全部事件
func (e *Engine) Pause(p authz.Principal, id string, reason string) (*model.TaskModel, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, validationf("pause reason must not be empty")
	}
	return e.transition(p, authz.ActionPause, id, "Paused Task",
		func(tx *gorm.DB, task *model.TaskModel, now time.Time) (string, error) {
			if task.Status != model.StatusInProgress {
				return "", conflictf("can only pause tasks in progress, current status %s", task.Status)
			}
			task.PausedAt = &now
			task.PauseReason = reason
			task.Status = model.StatusPaused
			return "User paused task: " + reason, nil
		})
}

// Resume 恢复任务
func (e *Engine) Resume(p authz.Principal, id string) (*model.TaskModel, error) {
	return e.transition(p, authz.ActionResume, id, "Resumed Task",
		func(tx *gorm.DB, task *model.TaskModel, now time.Time) (string, error) {
			if task.Status != model.StatusPaused {
				return "", conflictf("can only resume paused tasks, current status %s", task.Status)
			}
			task.ResumedAt = &now
			task.Status = model.StatusInProgress
			return "User resumed task", nil
		})
}

// ToggleComplete 完成/取消完成任务(双向切换)
// 完成重复任务时在同一事务内生成下一期实例
func (e *Engine) ToggleComplete(p authz.Principal, id string) (*model.TaskModel, error) {
	return e.transition(p, authz.ActionComplete, id, "Completed Task",
		func(tx *gorm.DB, task *model.TaskModel, now time.Time) (string, error) {
			if task.IsComplete {
				task.IsComplete = false
				task.CompletedAt = nil
				task.Status = model.StatusInProgress
				return "User reopened task", nil
			}

			if !task.Active() {
				return "", conflictf("cannot complete task in status %s", task.Status)
			}
			task.IsComplete = true
			task.CompletedAt = &now
			task.Status = model.StatusCompleted

			if task.Recurrence != model.RecurrenceNone && task.DueDate != nil {
				if next := NextOccurrence(task, now); next != nil {
					if err := next.Validate(); err != nil {
						return "", validationf("%v", err)
					}
					if err := repository.NewTaskRepository(tx).Create(next); err != nil {
						return "", persistencef(err)
					}
				}
			}
			return "User completed task", nil
		})
}

// End 结束任务并进入审批(仅任务责任人)
func (e *Engine) End(p authz.Principal, id string) (*model.TaskModel, error) {
	return e.transition(p, authz.ActionEnd, id, "Ended (pending)",
		func(tx *gorm.DB, task *model.TaskModel, now time.Time) (string, error) {
			if !task.Active() {
				return "", conflictf("cannot end task in status %s", task.Status)
			}
			task.EndTime = &now
			task.Status = model.StatusPendingApproval
			return "User ended task, pending approval", nil
		})
}

// Approve 审批通过(经理/管理员)
func (e *Engine) Approve(p authz.Principal, id string) (*model.TaskModel, error) {
	return e.transition(p, authz.ActionApprove, id, "Approved Task",
		func(tx *gorm.DB, task *model.TaskModel, now time.Time) (string, error) {
			if task.Status != model.StatusPendingApproval {
				return "", conflictf("no pending task")
			}
			task.Status = model.StatusApproved
			return "Manager approved task", nil
		})
}

// Reject 审批拒绝(经理/管理员),任务回到进行中并清除 end_time
func (e *Engine) Reject(p authz.Principal, id string) (*model.TaskModel, error) {
	return e.transition(p, authz.ActionReject, id, "Rejected Task",
		func(tx *gorm.DB, task *model.TaskModel, now time.Time) (string, error) {
			if task.Status != model.StatusPendingApproval {
				return "", conflictf("no pending task")
			}
			task.EndTime = nil
			task.Status = model.StatusInProgress
			return "Manager rejected task", nil
		})
}

// History 查询任务的状态历史,按变更时间升序(经理/管理员)
func (e *Engine) History(p authz.Principal, taskID string) ([]*model.TaskHistoryModel, error) {
	if err := e.authorize(p, authz.ActionViewAuditLog, nil, &taskID); err != nil {
		return nil, err
	}
	if _, err := e.loadTask(e.db, taskID); err != nil {
		return nil, err
	}
	histories, err := repository.NewTaskHistoryRepository(e.db).FindByTaskID(taskID)
	if err != nil {
		return nil, persistencef(err)
	}
	return histories, nil
}

// AuditLogs 查询审计日志,按时间降序,可按任务过滤(管理员视图)
func (e *Engine) AuditLogs(p authz.Principal, taskID string) ([]*model.AuditLogModel, error) {
	if err := e.authorize(p, authz.ActionViewAuditLog, nil, nil); err != nil {
		return nil, err
	}
	filter := &repository.AuditLogFilter{}
	if taskID != "" {
		filter.TaskID = &taskID
	}
	logs, err := repository.NewAuditLogRepository(e.db).FindByFilter(filter)
	if err != nil {
		return nil, persistencef(err)
	}
	return logs, nil
}

// transition 执行一次状态转换
// 授权在任何变更之前完成;随后单个事务内:行锁加载 -> 转换 -> 保存 -> 追加历史 -> 追加审计
// 历史或审计写入失败时整个转换回滚
// 行锁加载后转换函数重新校验源状态,并发转换只有一个能成功,另一个得到 Conflict
func (e *Engine) transition(p authz.Principal, action authz.Action, id string, auditAction string, fn transitionFunc) (*model.TaskModel, error) {
	current, err := e.loadTask(e.db, id)
	if err != nil {
		return nil, err
	}
	if err := e.authorize(p, action, current, &id); err != nil {
		return nil, err
	}

	now := e.now().UTC()
	var out *model.TaskModel
	err = e.db.Transaction(func(tx *gorm.DB) error {
		task, err := e.lockTask(tx, id)
		if err != nil {
			return err
		}

		prev := task.Status
		note, err := fn(tx, task, now)
		if err != nil {
			return err
		}

		task.UpdatedAt = now
		if err := task.Validate(); err != nil {
			return validationf("%v", err)
		}
		if err := repository.NewTaskRepository(tx).Save(task); err != nil {
			return persistencef(err)
		}
		if err := e.appendHistory(tx, task, prev, task.Status, p.ID, now, note); err != nil {
			return err
		}
		if err := e.appendAudit(tx, p.ID, auditAction, "#"+task.ID, &task.ID, now); err != nil {
			return err
		}
		out = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// lockTask 在事务内加载任务
// PostgreSQL 下使用 SELECT ... FOR UPDATE 行锁,把同一任务上的并发转换串行化
// SQLite 事务本身串行化写入,无需行锁
func (e *Engine) lockTask(tx *gorm.DB, id string) (*model.TaskModel, error) {
	q := tx.Session(&gorm.Session{})
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var task model.TaskModel
	if err := q.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("task %s not found", id)
		}
		return nil, persistencef(err)
	}
	return &task, nil
}

// loadTask 无锁加载任务
func (e *Engine) loadTask(db *gorm.DB, id string) (*model.TaskModel, error) {
	task, err := repository.NewTaskRepository(db).FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("task %s not found", id)
		}
		return nil, persistencef(err)
	}
	return task, nil
}

// authorize 授权检查
// 敏感动作被拒绝时,在事务外追加一条审计记录(拒绝本身必须留痕,不随回滚消失)
func (e *Engine) authorize(p authz.Principal, action authz.Action, task *model.TaskModel, taskID *string) error {
	d := authz.Authorize(p, action, task)
	if d.Allowed {
		return nil
	}
	if authz.Sensitive(action) {
		now := e.now().UTC()
		_ = e.appendAudit(e.db, p.ID, "Unauthorized access attempt", string(action), taskID, now)
	}
	return forbiddenf("%s", d.Reason)
}

// appendHistory 追加状态历史记录
func (e *Engine) appendHistory(tx *gorm.DB, task *model.TaskModel, prev, next, changedBy string, now time.Time, note string) error {
	history := &model.TaskHistoryModel{
		ID:             uuid.New().String(),
		TaskID:         task.ID,
		PreviousStatus: prev,
		NewStatus:      next,
		ChangedBy:      changedBy,
		ChangedAt:      now,
		Note:           note,
	}
	if err := repository.NewTaskHistoryRepository(tx).Append(history); err != nil {
		return persistencef(err)
	}
	return nil
}

// appendAudit 追加审计记录
func (e *Engine) appendAudit(tx *gorm.DB, userID, action, target string, taskID *string, now time.Time) error {
	log := &model.AuditLogModel{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Target:    target,
		TaskID:    taskID,
		CreatedAt: now,
	}
	if err := repository.NewAuditLogRepository(tx).Append(log); err != nil {
		return persistencef(err)
	}
	return nil
}
