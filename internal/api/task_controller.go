package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tiorionjames/dewlist/internal/auth"
	"github.com/tiorionjames/dewlist/internal/model"
	"github.com/tiorionjames/dewlist/internal/service"
	"github.com/tiorionjames/dewlist/internal/utils"
)

// TaskController 任务控制器
type TaskController struct {
	taskService service.TaskService
}

// NewTaskController 创建任务控制器
func NewTaskController(taskService service.TaskService) *TaskController {
	return &TaskController{
		taskService: taskService,
	}
}

// TaskView 任务展示结构,附带重复周期文案
type TaskView struct {
	*model.TaskModel
	RecurrenceLabel string `json:"recurrence_label,omitempty"`
}

// taskView 构造任务展示结构
func taskView(t *model.TaskModel) *TaskView {
	return &TaskView{TaskModel: t, RecurrenceLabel: service.RecurrenceLabel(t)}
}

// taskViews 批量构造任务展示结构
func taskViews(tasks []*model.TaskModel) []*TaskView {
	views := make([]*TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, taskView(t))
	}
	return views
}

// validateTaskID 验证任务 ID 并返回错误响应(如果无效)
func (c *TaskController) validateTaskID(ctx *gin.Context, id string) bool {
	if err := utils.ValidateTaskID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid task ID", err.Error())
		return false
	}
	return true
}

// Create 创建任务
// @Summary      创建任务
// @Description  创建新任务,创建人为当前用户
// @Tags         任务管理
// @Accept       json
// @Produce      json
// @Param        request body service.CreateTaskRequest true "任务信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /tasks [post]
// @Security     BearerAuth
func (c *TaskController) Create(ctx *gin.Context) {
	var req service.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	task, err := c.taskService.Create(auth.CurrentPrincipal(ctx), &req)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, taskView(task))
}

// List 查询任务列表
// @Summary      查询任务列表
// @Description  普通用户只能看到自己的任务;due 取 overdue/today/upcoming
// @Tags         任务管理
// @Produce      json
// @Param        due query string false "到期过滤" Enums(overdue, today, upcoming)
// @Success      200  {object}  Response
// @Router       /tasks [get]
// @Security     BearerAuth
func (c *TaskController) List(ctx *gin.Context) {
	due := ctx.Query("due")
	switch due {
	case "", "overdue", "today", "upcoming":
	default:
		Error(ctx, http.StatusBadRequest, "invalid due filter", "due must be overdue, today or upcoming")
		return
	}

	tasks, err := c.taskService.List(auth.CurrentPrincipal(ctx), due)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, taskViews(tasks))
}

// Pending 查询待审批任务
// @Summary      查询待审批任务
// @Description  经理/管理员查看等待审批的任务
// @Tags         任务管理
// @Produce      json
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Router       /tasks/pending [get]
// @Security     BearerAuth
func (c *TaskController) Pending(ctx *gin.Context) {
	tasks, err := c.taskService.Pending(auth.CurrentPrincipal(ctx))
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, taskViews(tasks))
}

// Get 获取任务详情
// @Summary      获取任务详情
// @Description  根据 ID 获取任务详情
// @Tags         任务管理
// @Produce      json
// @Param        id path string true "任务 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id} [get]
// @Security     BearerAuth
func (c *TaskController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTaskID(ctx, id) {
		return
	}

	task, err := c.taskService.Get(auth.CurrentPrincipal(ctx), id)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, taskView(task))
}

// Update 更新任务
// @Summary      更新任务
// @Description  更新任务标题与描述(经理/管理员)
// @Tags         任务管理
// @Accept       json
// @Produce      json
// @Param        id path string true "任务 ID"
// @Param        request body service.UpdateTaskRequest true "任务信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id} [put]
// @Security     BearerAuth
func (c *TaskController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTaskID(ctx, id) {
		return
	}

	var req service.UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	task, err := c.taskService.Update(auth.CurrentPrincipal(ctx), id, &req)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, taskView(task))
}

// Delete 删除任务
// @Summary      删除任务
// @Description  删除任务及其历史记录(仅管理员)
// @Tags         任务管理
// @Produce      json
// @Param        id path string true "任务 ID"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id} [delete]
// @Security     BearerAuth
func (c *TaskController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTaskID(ctx, id) {
		return
	}

	if err := c.taskService.Delete(auth.CurrentPrincipal(ctx), id); err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// Start 开始任务
// @Summary      开始任务
// @Description  从 new 或 paused 状态开始任务
// @Tags         任务生命周期
// @Produce      json
// @Param        id path string true "任务 ID"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /tasks/{id}/start [patch]
// @Security     BearerAuth
func (c *TaskController) Start(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTaskID(ctx, id) {
		return
	}

	task, err := c.taskService.Start(auth.CurrentPrincipal(ctx), id)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, taskView(task))
}

// Pause 暂停任务
// @Summary      暂停任务
// @Description  暂停进行中的任务,原因必填
// @Tags         任务生命周期
// @Accept       json
// @Produce      json
// @Param        id path string true "任务 ID"
// @Param        request body service.PauseTaskRequest true "暂停原因"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /tasks/{id}/pause [patch]
// @Security     BearerAuth
func (c *TaskController) Pause(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTaskID(ctx, id) {
		return
	}

	var req service.PauseTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	task, err := c.taskService.Pause(auth.CurrentPrincipal(ctx), id, req.Reason)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, taskView(task))
}

// Resume 恢复任务
// @Summary      恢复任务
// @Description  恢复已暂停的任务
// @Tags         任务生命周期
// @Produce      json
// @Param        id path string true "任务 ID"
// @Success      200  {object}  Response
// @Failure      409  {object}  ErrorResponse
// @Router       /tasks/{id}/resume [patch]
// @Security     BearerAuth
func (c *TaskController) Resume(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTaskID(ctx, id) {
		return
	}

	task, err := c.taskService.Resume(auth.CurrentPrincipal(ctx), id)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, taskView(task))
}

// Complete 完成/取消完成任务
// @Summary      完成/取消完成任务
// @Description  双向切换完成状态,完成重复任务时自动生成下一期实例
// @Tags         任务生命周期
// @Produce      json
// @Param        id path string true "任务 ID"
// @Success      200  {object}  Response
// @Failure      409  {object}  ErrorResponse
// @Router       /tasks/{id}/complete [patch]
// @Security     BearerAuth
func (c *TaskController) Complete(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTaskID(ctx, id) {
		return
	}

	task, err := c.taskService.ToggleComplete(auth.CurrentPrincipal(ctx), id)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, taskView(task))
}

// End 结束任务进入审批
// @Summary      结束任务
// @Description  任务责任人结束任务,进入待审批状态
// @Tags         任务生命周期
// @Produce      json
// @Param        id path string true "任务 ID"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /tasks/{id}/end [patch]
// @Security     BearerAuth
func (c *TaskController) End(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTaskID(ctx, id) {
		return
	}

	task, err := c.taskService.End(auth.CurrentPrincipal(ctx), id)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, taskView(task))
}

// Approve 审批通过
// @Summary      审批通过
// @Description  经理/管理员审批通过待审批任务
// @Tags         任务生命周期
// @Produce      json
// @Param        id path string true "任务 ID"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /tasks/{id}/approve [patch]
// @Security     BearerAuth
func (c *TaskController) Approve(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTaskID(ctx, id) {
		return
	}

	task, err := c.taskService.Approve(auth.CurrentPrincipal(ctx), id)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, taskView(task))
}

// Reject 审批拒绝
// @Summary      审批拒绝
// @Description  经理/管理员拒绝待审批任务,任务回到进行中
// @Tags         任务生命周期
// @Produce      json
// @Param        id path string true "任务 ID"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /tasks/{id}/reject [patch]
// @Security     BearerAuth
func (c *TaskController) Reject(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTaskID(ctx, id) {
		return
	}

	task, err := c.taskService.Reject(auth.CurrentPrincipal(ctx), id)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, taskView(task))
}

// History 查询任务状态历史
// @Summary      查询任务状态历史
// @Description  按变更时间升序返回任务的全部状态变更(经理/管理员)
// @Tags         任务管理
// @Produce      json
// @Param        id path string true "任务 ID"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id}/history [get]
// @Security     BearerAuth
func (c *TaskController) History(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateTaskID(ctx, id) {
		return
	}

	histories, err := c.taskService.History(auth.CurrentPrincipal(ctx), id)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, histories)
}
