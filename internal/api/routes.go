package api

import (
	"github.com/gin-gonic/gin"
	"github.com/tiorionjames/dewlist/internal/auth"
	"github.com/tiorionjames/dewlist/internal/config"
	"github.com/tiorionjames/dewlist/internal/metrics"
	"github.com/tiorionjames/dewlist/internal/service"
	"gorm.io/gorm"
)

// Controllers 路由依赖的控制器集合
type Controllers struct {
	Task  *TaskController
	Auth  *AuthController
	Admin *AdminController
}

// NewControllers 创建控制器集合
func NewControllers(taskService service.TaskService, userService service.UserService) *Controllers {
	return &Controllers{
		Task:  NewTaskController(taskService),
		Auth:  NewAuthController(userService),
		Admin: NewAdminController(taskService),
	}
}

// SetupRoutes 配置路由
func SetupRoutes(cfg *config.Config, db *gorm.DB, tokens *auth.TokenManager, controllers *Controllers) *gin.Engine {
	if config.IsProduction(cfg) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 中间件
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(ErrorHandlerMiddleware())

	// 健康检查
	healthController := NewHealthController(db)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	metrics.Register()
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// 认证路由,登录接口限流防暴力破解
	authRoutes := router.Group("/auth")
	authRoutes.Use(RateLimitMiddleware(cfg.Auth.LoginRPS, cfg.Auth.LoginBurst))
	{
		authRoutes.POST("/register", controllers.Auth.Register)
		authRoutes.POST("/login", controllers.Auth.Login)
		authRoutes.POST("/forgot-password", controllers.Auth.ForgotPassword)
		authRoutes.POST("/reset-password", controllers.Auth.ResetPassword)
		authRoutes.GET("/me", auth.Middleware(tokens), controllers.Auth.Me)
	}

	// API v1 路由组,全部需要认证
	v1 := router.Group("/api/v1")
	v1.Use(auth.Middleware(tokens))
	{
		// 任务管理路由
		tasks := v1.Group("/tasks")
		{
			tasks.POST("", controllers.Task.Create)
			tasks.GET("", controllers.Task.List)
			tasks.GET("/pending", controllers.Task.Pending)
			tasks.GET("/:id", controllers.Task.Get)
			tasks.PUT("/:id", controllers.Task.Update)
			tasks.DELETE("/:id", controllers.Task.Delete)
			tasks.PATCH("/:id/start", controllers.Task.Start)
			tasks.PATCH("/:id/pause", controllers.Task.Pause)
			tasks.PATCH("/:id/resume", controllers.Task.Resume)
			tasks.PATCH("/:id/complete", controllers.Task.Complete)
			tasks.PATCH("/:id/end", controllers.Task.End)
			tasks.PATCH("/:id/approve", controllers.Task.Approve)
			tasks.PATCH("/:id/reject", controllers.Task.Reject)
			tasks.GET("/:id/history", controllers.Task.History)
		}

		// 管理路由
		admin := v1.Group("/admin")
		{
			admin.GET("/dashboard", controllers.Admin.Dashboard)
			admin.GET("/logs", controllers.Admin.Logs)
		}

		// 经理视图复用同一仪表盘
		manager := v1.Group("/manager")
		{
			manager.GET("/dashboard", controllers.Admin.Dashboard)
		}
	}

	return router
}
