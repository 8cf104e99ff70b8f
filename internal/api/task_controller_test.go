package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiorionjames/dewlist/internal/auth"
	"github.com/tiorionjames/dewlist/internal/config"
	"github.com/tiorionjames/dewlist/internal/lifecycle"
	"github.com/tiorionjames/dewlist/internal/model"
	"github.com/tiorionjames/dewlist/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestRouter 构建基于内存 SQLite 的完整路由
func newTestRouter(t *testing.T) (*gin.Engine, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.TaskModel{},
		&model.TaskHistoryModel{},
		&model.AuditLogModel{},
		&model.UserModel{},
		&model.PasswordResetModel{},
	))

	cfg := config.Default()
	tokens := auth.NewTokenManager("test-secret-please-rotate", time.Hour)
	engine := lifecycle.NewEngine(db)
	taskService := service.NewTaskService(engine)
	userService := service.NewUserService(db, tokens, service.NewLogNotifier(GetLogger()), time.Hour)
	controllers := NewControllers(taskService, userService)

	return SetupRoutes(cfg, db, tokens, controllers), tokens
}

func bearerToken(t *testing.T, tokens *auth.TokenManager, userID, role string) string {
	t.Helper()
	token, err := tokens.Issue(userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

// doJSON 发送 JSON 请求并返回响应
func doJSON(router *gin.Engine, method, path, authHeader string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeData 解出统一响应里的 data 字段
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var resp struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 0, resp.Code)
	if out != nil {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	router, tokens := newTestRouter(t)
	userAuth := bearerToken(t, tokens, "user-1", model.RoleUser)
	managerAuth := bearerToken(t, tokens, "manager-1", model.RoleManager)

	// 创建
	w := doJSON(router, http.MethodPost, "/api/v1/tasks", userAuth, gin.H{
		"title":       "Ship release",
		"description": "cut the tag",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created TaskView
	decodeData(t, w, &created)
	assert.Equal(t, model.StatusNew, created.Status)
	id := created.ID

	// 开始 -> 暂停 -> 恢复
	w = doJSON(router, http.MethodPatch, "/api/v1/tasks/"+id+"/start", userAuth, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPatch, "/api/v1/tasks/"+id+"/pause", userAuth, gin.H{"reason": "waiting on CI"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var paused TaskView
	decodeData(t, w, &paused)
	assert.Equal(t, model.StatusPaused, paused.Status)
	assert.Equal(t, "waiting on CI", paused.PauseReason)

	w = doJSON(router, http.MethodPatch, "/api/v1/tasks/"+id+"/resume", userAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 结束 -> 经理审批
	w = doJSON(router, http.MethodPatch, "/api/v1/tasks/"+id+"/end", userAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/tasks/pending", managerAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending []TaskView
	decodeData(t, w, &pending)
	require.Len(t, pending, 1)

	w = doJSON(router, http.MethodPatch, "/api/v1/tasks/"+id+"/approve", managerAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var approved TaskView
	decodeData(t, w, &approved)
	assert.Equal(t, model.StatusApproved, approved.Status)

	// 历史按升序可见
	w = doJSON(router, http.MethodGet, "/api/v1/tasks/"+id+"/history", managerAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var histories []model.TaskHistoryModel
	decodeData(t, w, &histories)
	assert.Len(t, histories, 6)
	assert.Equal(t, model.StatusApproved, histories[len(histories)-1].NewStatus)
}

func TestTaskErrorMapping(t *testing.T) {
	router, tokens := newTestRouter(t)
	userAuth := bearerToken(t, tokens, "user-1", model.RoleUser)
	otherAuth := bearerToken(t, tokens, "user-2", model.RoleUser)

	// 未认证
	w := doJSON(router, http.MethodGet, "/api/v1/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 未知任务
	w = doJSON(router, http.MethodGet, "/api/v1/tasks/does-not-exist", userAuth, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 非法 due 过滤
	w = doJSON(router, http.MethodGet, "/api/v1/tasks?due=yesterday", userAuth, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 缺少标题
	w = doJSON(router, http.MethodPost, "/api/v1/tasks", userAuth, gin.H{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 创建后非法转换 -> 409
	w = doJSON(router, http.MethodPost, "/api/v1/tasks", userAuth, gin.H{"title": "Conflict me"})
	require.Equal(t, http.StatusOK, w.Code)
	var created TaskView
	decodeData(t, w, &created)

	w = doJSON(router, http.MethodPatch, "/api/v1/tasks/"+created.ID+"/resume", userAuth, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// 他人任务不可见 -> 404 而非 403
	w = doJSON(router, http.MethodGet, "/api/v1/tasks/"+created.ID, otherAuth, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 普通用户审批 -> 403
	w = doJSON(router, http.MethodPatch, "/api/v1/tasks/"+created.ID+"/approve", userAuth, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 普通用户看审计日志 -> 403
	w = doJSON(router, http.MethodGet, "/api/v1/admin/logs", userAuth, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListVisibilityOverHTTP(t *testing.T) {
	router, tokens := newTestRouter(t)
	aliceAuth := bearerToken(t, tokens, "alice", model.RoleUser)
	bobAuth := bearerToken(t, tokens, "bob", model.RoleUser)
	adminAuth := bearerToken(t, tokens, "root", model.RoleAdmin)

	for i := 0; i < 2; i++ {
		w := doJSON(router, http.MethodPost, "/api/v1/tasks", aliceAuth, gin.H{"title": fmt.Sprintf("alice %d", i)})
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := doJSON(router, http.MethodPost, "/api/v1/tasks", bobAuth, gin.H{"title": "bob 0"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/tasks", aliceAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []TaskView
	decodeData(t, w, &mine)
	assert.Len(t, mine, 2)

	w = doJSON(router, http.MethodGet, "/api/v1/tasks", adminAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []TaskView
	decodeData(t, w, &all)
	assert.Len(t, all, 3)
}

func TestRecurrenceLabelInResponse(t *testing.T) {
	router, tokens := newTestRouter(t)
	userAuth := bearerToken(t, tokens, "user-1", model.RoleUser)

	due := time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339)
	w := doJSON(router, http.MethodPost, "/api/v1/tasks", userAuth, gin.H{
		"title":      "Weekly sync",
		"due_date":   due,
		"recurrence": "weekly",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created TaskView
	decodeData(t, w, &created)
	assert.Contains(t, created.RecurrenceLabel, "weekly")
}

func TestAuthFlowOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)

	// 注册
	w := doJSON(router, http.MethodPost, "/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 登录
	w = doJSON(router, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login LoginResponse
	decodeData(t, w, &login)
	require.NotEmpty(t, login.AccessToken)

	// Me
	w = doJSON(router, http.MethodGet, "/auth/me", "Bearer "+login.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me model.UserModel
	decodeData(t, w, &me)
	assert.Equal(t, "alice@example.com", me.Email)
	assert.Empty(t, me.HashedPassword, "password hash must not leak in responses")

	// 错误密码
	w = doJSON(router, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	w = doJSON(router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminDashboard(t *testing.T) {
	router, tokens := newTestRouter(t)
	userAuth := bearerToken(t, tokens, "user-1", model.RoleUser)
	managerAuth := bearerToken(t, tokens, "manager-1", model.RoleManager)

	w := doJSON(router, http.MethodPost, "/api/v1/tasks", userAuth, gin.H{"title": "counted"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/admin/dashboard", managerAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var dash DashboardResponse
	decodeData(t, w, &dash)
	assert.Equal(t, 1, dash.TotalTasks)
	assert.Equal(t, 1, dash.StatusCounts[model.StatusNew])
	assert.Empty(t, dash.PendingApproval)
}
