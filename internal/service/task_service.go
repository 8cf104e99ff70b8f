package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/tiorionjames/dewlist/internal/authz"
	"github.com/tiorionjames/dewlist/internal/lifecycle"
	"github.com/tiorionjames/dewlist/internal/metrics"
	"github.com/tiorionjames/dewlist/internal/model"
)

// TaskService 任务服务接口
type TaskService interface {
	Create(p authz.Principal, req *CreateTaskRequest) (*model.TaskModel, error)
	Get(p authz.Principal, id string) (*model.TaskModel, error)
	List(p authz.Principal, due string) ([]*model.TaskModel, error)
	Pending(p authz.Principal) ([]*model.TaskModel, error)
	Update(p authz.Principal, id string, req *UpdateTaskRequest) (*model.TaskModel, error)
	Delete(p authz.Principal, id string) error
	Start(p authz.Principal, id string) (*model.TaskModel, error)
	Pause(p authz.Principal, id string, reason string) (*model.TaskModel, error)
	Resume(p authz.Principal, id string) (*model.TaskModel, error)
	ToggleComplete(p authz.Principal, id string) (*model.TaskModel, error)
	End(p authz.Principal, id string) (*model.TaskModel, error)
	Approve(p authz.Principal, id string) (*model.TaskModel, error)
	Reject(p authz.Principal, id string) (*model.TaskModel, error)
	History(p authz.Principal, taskID string) ([]*model.TaskHistoryModel, error)
	AuditLogs(p authz.Principal, taskID string) ([]*model.AuditLogModel, error)
}

// CreateTaskRequest 创建任务请求
// @Description 创建任务的请求参数
type CreateTaskRequest struct {
	Title         string     `json:"title" example:"Weekly report" binding:"required"` // 标题
	Description   string     `json:"description" example:"Summarize progress"`        // 描述
	AssignedTo    string     `json:"assigned_to" example:"user-002"`                  // 执行人 ID(可选)
	DueDate       *time.Time `json:"due_date"`                                        // 截止时间
	Recurrence    string     `json:"recurrence" example:"weekly"`                     // 重复周期
	RecurrenceEnd *time.Time `json:"recurrence_end"`                                  // 重复截止
}

// UpdateTaskRequest 更新任务请求
// @Description 更新任务的请求参数
type UpdateTaskRequest struct {
	Title       string `json:"title" example:"Weekly report" binding:"required"` // 标题
	Description string `json:"description" example:"Summarize progress"`        // 描述
}

// PauseTaskRequest 暂停任务请求
// @Description 暂停任务的请求参数,原因必填
type PauseTaskRequest struct {
	Reason string `json:"reason" example:"Waiting for review" binding:"required"` // 暂停原因
}

// taskService 任务服务实现
type taskService struct {
	engine *lifecycle.Engine
}

// NewTaskService 创建任务服务
func NewTaskService(engine *lifecycle.Engine) TaskService {
	return &taskService{engine: engine}
}

// observe 记录转换指标,授权拒绝单独计数
func observe(action string, err error) {
	if err == nil {
		metrics.RecordTransition(action)
		return
	}
	if errors.Is(err, lifecycle.ErrForbidden) {
		metrics.RecordAuthDenied(action)
	}
}

// Create 创建任务
func (s *taskService) Create(p authz.Principal, req *CreateTaskRequest) (*model.TaskModel, error) {
	task, err := s.engine.Create(p, &lifecycle.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		AssignedTo:    req.AssignedTo,
		DueDate:       req.DueDate,
		Recurrence:    req.Recurrence,
		RecurrenceEnd: req.RecurrenceEnd,
	})
	if err != nil {
		observe("create", err)
		return nil, err
	}
	metrics.RecordTaskCreated()
	return task, nil
}

// Get 获取任务详情
func (s *taskService) Get(p authz.Principal, id string) (*model.TaskModel, error) {
	return s.engine.Get(p, id)
}

// List 查询任务列表
func (s *taskService) List(p authz.Principal, due string) ([]*model.TaskModel, error) {
	return s.engine.List(p, due)
}

// Pending 查询待审批任务
func (s *taskService) Pending(p authz.Principal) ([]*model.TaskModel, error) {
	return s.engine.PendingApproval(p)
}

// Update 更新任务
func (s *taskService) Update(p authz.Principal, id string, req *UpdateTaskRequest) (*model.TaskModel, error) {
	task, err := s.engine.Update(p, id, &lifecycle.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	})
	observe("update", err)
	return task, err
}

// Delete 删除任务
func (s *taskService) Delete(p authz.Principal, id string) error {
	err := s.engine.Delete(p, id)
	observe("delete", err)
	return err
}

// Start 开始任务
func (s *taskService) Start(p authz.Principal, id string) (*model.TaskModel, error) {
	task, err := s.engine.Start(p, id)
	observe("start", err)
	return task, err
}

// Pause 暂停任务
func (s *taskService) Pause(p authz.Principal, id string, reason string) (*model.TaskModel, error) {
	task, err := s.engine.Pause(p, id, reason)
	observe("pause", err)
	return task, err
}

// Resume 恢复任务
func (s *taskService) Resume(p authz.Principal, id string) (*model.TaskModel, error) {
	task, err := s.engine.Resume(p, id)
	observe("resume", err)
	return task, err
}

// ToggleComplete 完成/取消完成任务
func (s *taskService) ToggleComplete(p authz.Principal, id string) (*model.TaskModel, error) {
	task, err := s.engine.ToggleComplete(p, id)
	observe("complete", err)
	return task, err
}

// End 结束任务进入审批
func (s *taskService) End(p authz.Principal, id string) (*model.TaskModel, error) {
	task, err := s.engine.End(p, id)
	observe("end", err)
	return task, err
}

// Approve 审批通过
func (s *taskService) Approve(p authz.Principal, id string) (*model.TaskModel, error) {
	task, err := s.engine.Approve(p, id)
	observe("approve", err)
	return task, err
}

// Reject 审批拒绝
func (s *taskService) Reject(p authz.Principal, id string) (*model.TaskModel, error) {
	task, err := s.engine.Reject(p, id)
	observe("reject", err)
	return task, err
}

// History 查询任务状态历史
func (s *taskService) History(p authz.Principal, taskID string) ([]*model.TaskHistoryModel, error) {
	return s.engine.History(p, taskID)
}

// AuditLogs 查询审计日志
func (s *taskService) AuditLogs(p authz.Principal, taskID string) ([]*model.AuditLogModel, error) {
	return s.engine.AuditLogs(p, taskID)
}

// RecurrenceLabel 生成重复周期的展示文案
func RecurrenceLabel(task *model.TaskModel) string {
	if task.Recurrence == model.RecurrenceNone {
		return ""
	}
	if task.RecurrenceEnd != nil {
		return fmt.Sprintf("Repeats %s until %s", task.Recurrence, task.RecurrenceEnd.Format("2006-01-02"))
	}
	return fmt.Sprintf("Repeats %s", task.Recurrence)
}
