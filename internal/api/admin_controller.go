package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tiorionjames/dewlist/internal/auth"
	"github.com/tiorionjames/dewlist/internal/model"
	"github.com/tiorionjames/dewlist/internal/service"
	"github.com/tiorionjames/dewlist/internal/utils"
)

// AdminController 管理控制器
type AdminController struct {
	taskService service.TaskService
}

// NewAdminController 创建管理控制器
func NewAdminController(taskService service.TaskService) *AdminController {
	return &AdminController{
		taskService: taskService,
	}
}

// DashboardResponse 仪表盘响应
type DashboardResponse struct {
	TotalTasks      int            `json:"total_tasks"`
	StatusCounts    map[string]int `json:"status_counts"`
	PendingApproval []*TaskView    `json:"pending_approval"`
}

// AuditLogView 审计日志展示项
type AuditLogView struct {
	*model.AuditLogModel
	Message string `json:"message"`
}

// Dashboard 管理仪表盘
// @Summary      管理仪表盘
// @Description  全部任务的状态统计与待审批队列(经理/管理员)
// @Tags         管理
// @Produce      json
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/dashboard [get]
// @Security     BearerAuth
func (c *AdminController) Dashboard(ctx *gin.Context) {
	p := auth.CurrentPrincipal(ctx)

	pending, err := c.taskService.Pending(p)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	tasks, err := c.taskService.List(p, "")
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	counts := map[string]int{
		model.StatusNew:             0,
		model.StatusInProgress:      0,
		model.StatusPaused:          0,
		model.StatusCompleted:       0,
		model.StatusPendingApproval: 0,
		model.StatusApproved:        0,
	}
	for _, t := range tasks {
		counts[t.Status]++
	}

	Success(ctx, DashboardResponse{
		TotalTasks:      len(tasks),
		StatusCounts:    counts,
		PendingApproval: taskViews(pending),
	})
}

// Logs 查询审计日志
// @Summary      查询审计日志
// @Description  按时间倒序返回审计日志,可按任务过滤(经理/管理员)
// @Tags         管理
// @Produce      json
// @Param        task_id query string false "任务 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/logs [get]
// @Security     BearerAuth
func (c *AdminController) Logs(ctx *gin.Context) {
	taskID := ctx.Query("task_id")
	if taskID != "" {
		if err := utils.ValidateTaskID(taskID); err != nil {
			Error(ctx, http.StatusBadRequest, "invalid task ID", err.Error())
			return
		}
	}

	logs, err := c.taskService.AuditLogs(auth.CurrentPrincipal(ctx), taskID)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	views := make([]*AuditLogView, 0, len(logs))
	for _, l := range logs {
		views = append(views, &AuditLogView{
			AuditLogModel: l,
			Message:       formatAuditMessage(l),
		})
	}

	Success(ctx, views)
}

// formatAuditMessage 生成审计日志的可读文案
func formatAuditMessage(l *model.AuditLogModel) string {
	msg := fmt.Sprintf("%s %s", l.UserID, l.Action)
	if l.Target != "" {
		msg = fmt.Sprintf("%s: %s", msg, l.Target)
	}
	return fmt.Sprintf("%s at %s", msg, l.CreatedAt.UTC().Format(time.RFC3339))
}
